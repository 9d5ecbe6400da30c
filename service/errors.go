// Package service implements the OTP verification manager and the
// registration review workflow on top of the relational store
package service

import (
	"errors"
	"fmt"
)

var (
	// OTP manager
	ErrOTPCooldown = errors.New("please wait 60 seconds before requesting another OTP")
	ErrOTPNotFound = errors.New("OTP not found")
	ErrOTPExpired  = errors.New("OTP expired")
	ErrOTPLocked   = errors.New("OTP locked due to too many failed attempts. Please request a new OTP")

	// Registration guards. The four duplicate variants keep the original
	// wording because the frontend matches on them.
	ErrAlreadyPending        = errors.New("registration already submitted. Please wait for admin approval")
	ErrAlreadyApproved       = errors.New("user already registered and approved")
	ErrDuplicatePendingMob   = errors.New("mobile number already registered, wait for approval/rejection")
	ErrDuplicatePendingMail  = errors.New("email already registered, wait for approval/rejection")
	ErrDuplicateApprovedMob  = errors.New("mobile number already registered and approved")
	ErrDuplicateApprovedMail = errors.New("email already registered and approved")

	// Workflow
	ErrUserNotFound     = errors.New("user not found")
	ErrNotPending       = errors.New("user not in pending state")
	ErrInvalidSelection = errors.New("some users are not in pending status")
	ErrReasonRequired   = errors.New("reason required")
	ErrNoUsersSelected  = errors.New("no users selected")
)

// InvalidCodeError reports a wrong OTP and how many tries are left before
// the challenge locks.
type InvalidCodeError struct {
	Remaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid OTP. %d attempts remaining", e.Remaining)
}
