package service

import (
	"time"

	"kgc/registry-api/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OTPCleanup defines a function used to periodically delete expired
// challenges that the opportunistic per-request sweep didn't catch
func OTPCleanup(t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("OTP cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			res := db.
				Where("expires_at < ? AND verified = ?", time.Now(), false).
				Delete(model.OTPChallenge{})
			if res.Error != nil {
				zap.L().Error("Failed to cleanup expired OTP challenges", zap.Error(res.Error))
				continue
			}

			if res.RowsAffected > 0 {
				zap.L().Debug("Cleaned up expired OTP challenges", zap.Int64("deleted", res.RowsAffected))
			}
		}
	}()
}
