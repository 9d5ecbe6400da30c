package api

import (
	"errors"
	"net/http"
	"strings"

	"kgc/registry-api/model"
	"kgc/registry-api/service"
	"kgc/registry-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type otpSendRequest struct {
	Type  string `json:"type" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// OTPSend issues a fresh one-time passcode for a mobile number or email.
func (a *API) OTPSend(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var req otpSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "type and value are required",
			"requestID": requestID,
		})
		return
	}

	req.Value = strings.TrimSpace(req.Value)

	switch req.Type {
	case model.ChannelMobile:
		if err := validators.MobileValidator(req.Value); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}
	case model.ChannelEmail:
		if err := validators.EmailValidator(req.Value); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "type must be mobile or email",
			"requestID": requestID,
		})
		return
	}

	err := a.OTP.Request(req.Value, req.Type)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully"})
	case errors.Is(err, service.ErrOTPCooldown):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":     "OTP already sent. Please wait before requesting another",
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrAlreadyPending):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "a registration with this contact is already pending review",
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrAlreadyApproved):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "this contact is already registered",
			"requestID": requestID,
		})
	default:
		zap.L().Error("Failed to issue OTP", zap.Error(err), zap.String("requestID", requestID))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Something went wrong while sending the OTP",
			"requestID": requestID,
		})
	}
}
