package api

import (
	"errors"
	"net/http"
	"strings"

	"kgc/registry-api/model"
	"kgc/registry-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type otpVerifyRequest struct {
	Type  string `json:"type" binding:"required"`
	Value string `json:"value" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// OTPVerify validates a submitted passcode against the most recent
// challenge for the contact.
func (a *API) OTPVerify(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var req otpVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "type, value and code are required",
			"requestID": requestID,
		})
		return
	}

	if req.Type != model.ChannelMobile && req.Type != model.ChannelEmail {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "type must be mobile or email",
			"requestID": requestID,
		})
		return
	}

	req.Value = strings.TrimSpace(req.Value)

	err := a.OTP.Verify(req.Value, req.Type, strings.TrimSpace(req.Code))

	var invalidCode *service.InvalidCodeError

	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"verified": true})
	case errors.Is(err, service.ErrOTPNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "no OTP found for this contact. Please request a new one",
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrOTPExpired):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "OTP has expired. Please request a new one",
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrOTPLocked):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "too many failed attempts. Please request a new OTP",
			"requestID": requestID,
		})
	case errors.As(err, &invalidCode):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     invalidCode.Error(),
			"requestID": requestID,
		})
	default:
		zap.L().Error("Failed to verify OTP", zap.Error(err), zap.String("requestID", requestID))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Something went wrong while verifying the OTP",
			"requestID": requestID,
		})
	}
}
