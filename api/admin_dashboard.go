package api

import (
	"net/http"
	"time"

	"kgc/registry-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminDashboardSummary returns aggregate registration counts plus
// today's activity.
func (a *API) AdminDashboardSummary(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var (
		pending  int64
		hold     int64
		approved int64
		rejected int64

		todayNew       int64
		todayApprovals int64
		todayRejects   int64
	)

	today := time.Now().Format("2006-01-02")

	counts := []struct {
		dest  *int64
		query func(dest *int64) error
	}{
		{&pending, func(d *int64) error {
			return a.DB.Model(&model.PendingUser{}).Where("status = ?", model.StatusPending).Count(d).Error
		}},
		{&hold, func(d *int64) error {
			return a.DB.Model(&model.PendingUser{}).Where("status = ?", model.StatusHold).Count(d).Error
		}},
		{&approved, func(d *int64) error {
			return a.DB.Model(&model.VerifiedUser{}).Count(d).Error
		}},
		{&rejected, func(d *int64) error {
			return a.DB.Model(&model.RejectedUser{}).Count(d).Error
		}},
		{&todayNew, func(d *int64) error {
			return a.DB.Model(&model.PendingUser{}).Where("DATE(created_at) = ?", today).Count(d).Error
		}},
		{&todayApprovals, func(d *int64) error {
			return a.DB.Model(&model.VerifiedUser{}).Where("DATE(approved_at) = ?", today).Count(d).Error
		}},
		{&todayRejects, func(d *int64) error {
			return a.DB.Model(&model.RejectedUser{}).Where("DATE(rejected_at) = ?", today).Count(d).Error
		}},
	}

	for _, cnt := range counts {
		if err := cnt.query(cnt.dest); err != nil {
			zap.L().Error("Failed to build dashboard summary", zap.Error(err), zap.String("requestID", requestID))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Something went wrong while building the summary",
				"requestID": requestID,
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": gin.H{
			"total_registrations": pending + hold + approved + rejected,
			"approved":            approved,
			"pending":             pending,
			"hold":                hold,
			"rejected":            rejected,
		},
		"today": gin.H{
			"new_registrations": todayNew,
			"approvals":         todayApprovals,
			"rejections":        todayRejects,
		},
	})
}
