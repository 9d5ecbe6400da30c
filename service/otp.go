package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"kgc/registry-api/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	otpTTL         = 5 * time.Minute
	otpCooldown    = 60 * time.Second
	maxOTPAttempts = 5
)

// OTPDispatcher delivers a generated code over a channel's transport.
type OTPDispatcher interface {
	SendOTP(channel, identifier, code string) error
}

// OTPManager issues, rate-limits and validates one-time passcodes per
// (identifier, channel) pair.
//
// Each challenge row walks issued → verified, or dies implicitly by
// expiry or by reaching the attempt cap. Terminal states are absorbing;
// a new cycle always means a brand-new row, and verification only ever
// considers the most recent unverified row.
type OTPManager struct {
	DB       *gorm.DB
	Queue    *NotifyQueue
	Dispatch OTPDispatcher
	Now      func() time.Time
}

func NewOTPManager(db *gorm.DB, q *NotifyQueue, d OTPDispatcher) *OTPManager {
	return &OTPManager{DB: db, Queue: q, Dispatch: d, Now: time.Now}
}

// generateCode returns a 6-digit code uniform over [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Request issues a new challenge for (identifier, channel) and hands the
// code to the channel's transport via the background queue. Dispatch
// failures never fail the request.
func (m *OTPManager) Request(identifier, channel string) error {
	// Opportunistic sweep so the cooldown query below only ever sees
	// challenges that are still alive. Not transactional on purpose.
	m.sweepExpired()

	if err := m.checkNotRegistered(identifier, channel); err != nil {
		return err
	}

	var last model.OTPChallenge
	err := m.DB.
		Where("identifier = ? AND channel = ? AND verified = ?", identifier, channel, false).
		Order("created_at DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err == nil && m.Now().Sub(last.CreatedAt) < otpCooldown {
		return ErrOTPCooldown
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	challenge := model.OTPChallenge{
		ID:         uuid.NewString(),
		Identifier: identifier,
		Channel:    channel,
		Code:       code,
		ExpiresAt:  m.Now().Add(otpTTL),
		CreatedAt:  m.Now(),
	}

	if err := m.DB.Create(&challenge).Error; err != nil {
		return err
	}

	task := &NotifyTask{
		Name: "otp_" + channel,
		Run: func() error {
			return m.Dispatch.SendOTP(channel, identifier, code)
		},
	}
	if err := m.Queue.Enqueue(task); err != nil {
		zap.L().Error("Failed to enqueue OTP delivery",
			zap.String("channel", channel),
			zap.Error(err))
	}

	return nil
}

// Verify checks a submitted code against the most recent unverified
// challenge. Attempts are monotonic and never reset; the only way out of
// a locked challenge is requesting a fresh one.
func (m *OTPManager) Verify(identifier, channel, code string) error {
	var challenge model.OTPChallenge
	err := m.DB.
		Where("identifier = ? AND channel = ? AND verified = ?", identifier, channel, false).
		Order("created_at DESC").
		First(&challenge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOTPNotFound
		}
		return err
	}

	if challenge.Attempts >= maxOTPAttempts {
		return ErrOTPLocked
	}

	if challenge.ExpiresAt.Before(m.Now()) {
		return ErrOTPExpired
	}

	if challenge.Code != code {
		challenge.Attempts++
		if err := m.DB.Model(&challenge).Update("attempts", challenge.Attempts).Error; err != nil {
			return err
		}

		remaining := maxOTPAttempts - challenge.Attempts
		if remaining <= 0 {
			return ErrOTPLocked
		}

		return &InvalidCodeError{Remaining: remaining}
	}

	return m.DB.Model(&challenge).Update("verified", true).Error
}

// checkNotRegistered rejects OTP requests for identifiers that already own
// a pending application or an approved membership on the given channel.
func (m *OTPManager) checkNotRegistered(identifier, channel string) error {
	column := "mobile_number"
	if channel == model.ChannelEmail {
		column = "email"
	}

	var count int64
	if err := m.DB.Model(model.PendingUser{}).Where(column+" = ?", identifier).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyPending
	}

	if err := m.DB.Model(model.VerifiedUser{}).Where(column+" = ?", identifier).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyApproved
	}

	return nil
}

func (m *OTPManager) sweepExpired() {
	err := m.DB.
		Where("expires_at < ? AND verified = ?", m.Now(), false).
		Delete(model.OTPChallenge{}).Error
	if err != nil {
		zap.L().Error("Failed to sweep expired OTP challenges", zap.Error(err))
	}
}
