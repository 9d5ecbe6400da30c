package model

import "time"

// Admin roles. Only super_admin and verifier may touch the review surface;
// readonly exists for future reporting accounts.
const (
	RoleSuperAdmin = "super_admin"
	RoleVerifier   = "verifier"
	RoleReadonly   = "readonly"
)

type AdminUser struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"size:20;not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (AdminUser) TableName() string { return "admin_users" }

// MembershipSequence is a single-row counter backing membership id
// generation. Incremented under FOR UPDATE inside the approval transaction
// so ids stay monotonic across concurrent approvals.
type MembershipSequence struct {
	ID        uint  `gorm:"primaryKey"`
	NextValue int64 `gorm:"not null"`
}

func (MembershipSequence) TableName() string { return "membership_sequence" }
