package model

import "time"

// RejectedUser mirrors the pending row at the moment of rejection plus the
// rejection verdict. Append-only; CreatedAt keeps the original submission
// time so reports stay meaningful after the pending row is gone.
type RejectedUser struct {
	ID                string  `gorm:"primaryKey;size:36" json:"id"`
	OriginalPendingID string  `gorm:"size:36;not null" json:"original_pending_id"`
	RegistrationID    string  `gorm:"size:20;index;not null" json:"registration_id"`
	MobileNumber      *string `gorm:"size:10;index" json:"mobile_number"`
	Email             *string `gorm:"size:150;index" json:"email"`

	Profile

	RejectReason string    `gorm:"type:text;not null" json:"reject_reason"`
	RejectedBy   string    `gorm:"size:36;not null" json:"rejected_by_admin_id"`
	RejectedAt   time.Time `json:"rejected_at"`
	CreatedAt    time.Time `gorm:"autoCreateTime:false" json:"created_at"`
}

func (RejectedUser) TableName() string { return "users_rejected" }
