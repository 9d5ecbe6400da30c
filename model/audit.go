package model

import "time"

// Admin actions recorded in the audit log.
const (
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
	ActionHold    = "HOLD"
)

// AuditLog records one state-changing admin action, including each member
// of a bulk operation. Append-only.
type AuditLog struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	AdminID    string    `gorm:"size:36;index;not null" json:"admin_id"`
	Action     string    `gorm:"size:16;index;not null" json:"action"`
	TargetType string    `gorm:"size:16;not null" json:"target_type"`
	TargetID   string    `gorm:"size:36;index;not null" json:"target_id"`
	Reason     *string   `gorm:"type:text" json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

func (AuditLog) TableName() string { return "admin_audit_logs" }
