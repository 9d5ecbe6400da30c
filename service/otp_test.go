package service

import (
	"fmt"
	"testing"
	"time"

	"kgc/registry-api/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOTPManager(t *testing.T) (*OTPManager, *fakeClock, *recordingDispatcher) {
	t.Helper()

	clock := newFakeClock()
	dispatch := &recordingDispatcher{}

	m := NewOTPManager(newTestDB(t), newTestQueue(t), dispatch)
	m.Now = clock.Now

	return m, clock, dispatch
}

func latestChallenge(t *testing.T, m *OTPManager, identifier, channel string) model.OTPChallenge {
	t.Helper()

	var challenge model.OTPChallenge
	err := m.DB.
		Where("identifier = ? AND channel = ?", identifier, channel).
		Order("created_at DESC").
		First(&challenge).Error
	require.NoError(t, err)

	return challenge
}

func TestOTPRequest(t *testing.T) {
	t.Run("issues a six digit code", func(t *testing.T) {
		m, _, _ := newTestOTPManager(t)

		require.NoError(t, m.Request("9876543210", model.ChannelMobile))

		challenge := latestChallenge(t, m, "9876543210", model.ChannelMobile)
		assert.Regexp(t, `^\d{6}$`, challenge.Code)
		assert.False(t, challenge.Verified)
		assert.Zero(t, challenge.Attempts)
	})

	t.Run("enforces the cooldown window", func(t *testing.T) {
		m, clock, _ := newTestOTPManager(t)

		require.NoError(t, m.Request("9876543210", model.ChannelMobile))

		clock.Advance(30 * time.Second)
		assert.ErrorIs(t, m.Request("9876543210", model.ChannelMobile), ErrOTPCooldown)

		clock.Advance(31 * time.Second)
		assert.NoError(t, m.Request("9876543210", model.ChannelMobile))
	})

	t.Run("fresh request supersedes the previous challenge", func(t *testing.T) {
		m, clock, _ := newTestOTPManager(t)

		require.NoError(t, m.Request("9876543210", model.ChannelMobile))
		first := latestChallenge(t, m, "9876543210", model.ChannelMobile)

		clock.Advance(61 * time.Second)
		require.NoError(t, m.Request("9876543210", model.ChannelMobile))
		second := latestChallenge(t, m, "9876543210", model.ChannelMobile)

		require.NotEqual(t, first.ID, second.ID)

		// The old code is dead even if it happens to be guessed
		if first.Code != second.Code {
			err := m.Verify("9876543210", model.ChannelMobile, first.Code)
			assert.Error(t, err)
		}
	})

	t.Run("channels are independent", func(t *testing.T) {
		m, _, _ := newTestOTPManager(t)

		require.NoError(t, m.Request("person@example.com", model.ChannelEmail))
		assert.NoError(t, m.Request("9876543210", model.ChannelMobile))
	})

	t.Run("rejects identifiers with a pending registration", func(t *testing.T) {
		m, _, _ := newTestOTPManager(t)

		mobile := "9876543210"
		pending := model.PendingUser{
			ID:             uuid.NewString(),
			RegistrationID: "KGC-AAAA1111",
			Channel:        model.ChannelMobile,
			MobileNumber:   &mobile,
			Profile:        testProfile("Pending Person"),
			Status:         model.StatusPending,
			CreatedAt:      time.Now(),
		}
		require.NoError(t, m.DB.Create(&pending).Error)

		assert.ErrorIs(t, m.Request(mobile, model.ChannelMobile), ErrAlreadyPending)
	})

	t.Run("rejects identifiers with an approved membership", func(t *testing.T) {
		m, _, _ := newTestOTPManager(t)

		email := "member@example.com"
		verified := model.VerifiedUser{
			ID:             uuid.NewString(),
			MembershipID:   "MEM-000042",
			RegistrationID: "KGC-BBBB2222",
			Channel:        model.ChannelEmail,
			Email:          &email,
			Profile:        testProfile("Approved Person"),
			ApprovedBy:     uuid.NewString(),
			ApprovedAt:     time.Now(),
		}
		require.NoError(t, m.DB.Create(&verified).Error)

		assert.ErrorIs(t, m.Request(email, model.ChannelEmail), ErrAlreadyApproved)
	})
}

func TestOTPVerify(t *testing.T) {
	t.Run("correct code verifies the challenge", func(t *testing.T) {
		m, _, _ := newTestOTPManager(t)

		require.NoError(t, m.Request("9876543210", model.ChannelMobile))
		challenge := latestChallenge(t, m, "9876543210", model.ChannelMobile)

		require.NoError(t, m.Verify("9876543210", model.ChannelMobile, challenge.Code))

		challenge = latestChallenge(t, m, "9876543210", model.ChannelMobile)
		assert.True(t, challenge.Verified)
	})

	t.Run("no challenge on record", func(t *testing.T) {
		m, _, _ := newTestOTPManager(t)

		assert.ErrorIs(t, m.Verify("9876543210", model.ChannelMobile, "123456"), ErrOTPNotFound)
	})

	t.Run("expired challenge", func(t *testing.T) {
		m, clock, _ := newTestOTPManager(t)

		require.NoError(t, m.Request("9876543210", model.ChannelMobile))
		challenge := latestChallenge(t, m, "9876543210", model.ChannelMobile)

		clock.Advance(otpTTL + time.Second)

		assert.ErrorIs(t, m.Verify("9876543210", model.ChannelMobile, challenge.Code), ErrOTPExpired)
	})

	t.Run("wrong code reports remaining attempts", func(t *testing.T) {
		m, _, _ := newTestOTPManager(t)

		require.NoError(t, m.Request("9876543210", model.ChannelMobile))

		err := m.Verify("9876543210", model.ChannelMobile, "000000")

		var invalid *InvalidCodeError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, 4, invalid.Remaining)
		assert.Equal(t, "invalid OTP. 4 attempts remaining", err.Error())
	})

	t.Run("locks after five failed attempts", func(t *testing.T) {
		m, _, _ := newTestOTPManager(t)

		require.NoError(t, m.Request("9876543210", model.ChannelMobile))
		challenge := latestChallenge(t, m, "9876543210", model.ChannelMobile)

		for i := 0; i < 4; i++ {
			err := m.Verify("9876543210", model.ChannelMobile, "000000")

			var invalid *InvalidCodeError
			require.ErrorAs(t, err, &invalid, fmt.Sprintf("attempt %d", i+1))
			assert.Equal(t, 4-i, invalid.Remaining)
		}

		// Fifth miss exhausts the cap
		assert.ErrorIs(t, m.Verify("9876543210", model.ChannelMobile, "000000"), ErrOTPLocked)

		// Locked means locked, even for the right code
		assert.ErrorIs(t, m.Verify("9876543210", model.ChannelMobile, challenge.Code), ErrOTPLocked)

		// And attempts stop incrementing
		stored := latestChallenge(t, m, "9876543210", model.ChannelMobile)
		assert.Equal(t, maxOTPAttempts, stored.Attempts)
	})

	t.Run("lock clears by requesting a new challenge", func(t *testing.T) {
		m, clock, _ := newTestOTPManager(t)

		require.NoError(t, m.Request("9876543210", model.ChannelMobile))
		for n := 0; n < 5; n++ {
			m.Verify("9876543210", model.ChannelMobile, "000000")
		}
		require.ErrorIs(t, m.Verify("9876543210", model.ChannelMobile, "000000"), ErrOTPLocked)

		clock.Advance(otpCooldown + time.Second)
		require.NoError(t, m.Request("9876543210", model.ChannelMobile))

		fresh := latestChallenge(t, m, "9876543210", model.ChannelMobile)
		assert.NoError(t, m.Verify("9876543210", model.ChannelMobile, fresh.Code))
	})
}

func TestOTPSweep(t *testing.T) {
	t.Run("request drops expired challenges for everyone", func(t *testing.T) {
		m, clock, _ := newTestOTPManager(t)

		require.NoError(t, m.Request("1111111111", model.ChannelMobile))
		require.NoError(t, m.Request("other@example.com", model.ChannelEmail))

		clock.Advance(otpTTL + time.Minute)
		require.NoError(t, m.Request("2222222222", model.ChannelMobile))

		var count int64
		require.NoError(t, m.DB.Model(model.OTPChallenge{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("verified challenges survive the sweep", func(t *testing.T) {
		m, clock, _ := newTestOTPManager(t)

		require.NoError(t, m.Request("1111111111", model.ChannelMobile))
		challenge := latestChallenge(t, m, "1111111111", model.ChannelMobile)
		require.NoError(t, m.Verify("1111111111", model.ChannelMobile, challenge.Code))

		clock.Advance(otpTTL + time.Minute)
		require.NoError(t, m.Request("2222222222", model.ChannelMobile))

		var count int64
		err := m.DB.Model(model.OTPChallenge{}).Where("verified = ?", true).Count(&count).Error
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})
}

func TestGenerateCode(t *testing.T) {
	for n := 0; n < 50; n++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Regexp(t, `^[1-9]\d{5}$`, code)
	}
}
