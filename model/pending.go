package model

import "time"

// Lifecycle states of a pending application. Rejected rows are migrated to
// the users_rejected table, so "rejected" never actually rests here.
const (
	StatusPending = "pending"
	StatusHold    = "hold"
)

// PendingUser is a submitted application waiting for admin review.
// Uniqueness of mobile/email is owned by the DB indexes; the duplicate
// checks in the registration service are only a friendlier fast path.
type PendingUser struct {
	ID             string  `gorm:"primaryKey;size:36" json:"id"`
	RegistrationID string  `gorm:"size:20;uniqueIndex;not null" json:"registration_id"`
	Channel        string  `gorm:"size:10;not null" json:"verification_type"`
	MobileNumber   *string `gorm:"size:10;uniqueIndex" json:"mobile_number"`
	Email          *string `gorm:"size:150;uniqueIndex" json:"email"`

	Profile

	PDFUrl            string    `gorm:"type:text" json:"pdf_url"`
	Status            string    `gorm:"size:10;default:pending;index" json:"status"`
	HoldReason        *string   `gorm:"type:text" json:"hold_reason"`
	PossibleDuplicate bool      `gorm:"default:false" json:"possible_duplicate"`
	CreatedAt         time.Time `json:"created_at"`
}

func (PendingUser) TableName() string { return "users_pending" }
