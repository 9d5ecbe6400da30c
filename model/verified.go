package model

import "time"

// VerifiedUser is the append-only record of an approved member. Created
// exactly once per approval and never mutated afterwards.
type VerifiedUser struct {
	ID             string  `gorm:"primaryKey;size:36" json:"id"`
	MembershipID   string  `gorm:"size:30;uniqueIndex;not null" json:"membership_id"`
	RegistrationID string  `gorm:"size:20;uniqueIndex;not null" json:"registration_id"`
	Channel        string  `gorm:"size:10;not null" json:"verification_type"`
	MobileNumber   *string `gorm:"size:10;uniqueIndex" json:"mobile_number"`
	Email          *string `gorm:"size:150;uniqueIndex" json:"email"`

	Profile

	PDFUrl     string    `gorm:"type:text" json:"pdf_url"`
	ApprovedBy string    `gorm:"size:36;not null" json:"approved_by"`
	ApprovedAt time.Time `json:"approved_at"`
}

func (VerifiedUser) TableName() string { return "users_verified" }
