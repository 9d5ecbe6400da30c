// Package model defines database models
package model

import "time"

// Verification channels an applicant can prove ownership of.
const (
	ChannelMobile = "mobile"
	ChannelEmail  = "email"
)

// OTPChallenge is one issued passcode for an (identifier, channel) pair.
// Rows are never reused: a fresh request always inserts a new row and
// verification only ever looks at the most recent unverified one. Expired
// unverified rows are swept opportunistically before each new request and
// by the periodic cleanup.
type OTPChallenge struct {
	ID         string `gorm:"primaryKey;size:36"`
	Identifier string `gorm:"size:150;index:idx_otp_lookup;not null"`
	Channel    string `gorm:"size:10;index:idx_otp_lookup;not null"`
	Code       string `gorm:"size:6;not null"`
	ExpiresAt  time.Time
	Verified   bool `gorm:"default:false"`
	Attempts   int  `gorm:"default:0"`
	CreatedAt  time.Time
}
