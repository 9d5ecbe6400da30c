package api

import (
	"errors"
	"net/http"

	"kgc/registry-api/model"
	"kgc/registry-api/service"
	"kgc/registry-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerRequest struct {
	Channel      string `json:"channel" binding:"required"`
	MobileNumber string `json:"mobile_number"`
	Email        string `json:"email"`

	model.Profile
}

// UserRegister accepts a completed application form and files it as a
// pending registration.
func (a *API) UserRegister(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "invalid registration payload",
			"requestID": requestID,
		})
		return
	}

	if req.Channel != model.ChannelMobile && req.Channel != model.ChannelEmail {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "channel must be mobile or email",
			"requestID": requestID,
		})
		return
	}

	if req.MobileNumber != "" {
		if err := validators.MobileValidator(req.MobileNumber); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}
	}

	if req.Email != "" {
		if err := validators.EmailValidator(req.Email); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}
	}

	user, err := a.Reg.Submit(c.Request.Context(), req.Channel, req.MobileNumber, req.Email, req.Profile)
	if err != nil {
		for sentinel, msg := range map[error]string{
			service.ErrDuplicatePendingMob:   "a registration with this mobile number is already pending review",
			service.ErrDuplicatePendingMail:  "a registration with this email is already pending review",
			service.ErrDuplicateApprovedMob:  "this mobile number already belongs to an approved member",
			service.ErrDuplicateApprovedMail: "this email already belongs to an approved member",
			service.ErrAlreadyPending:        "a registration with this contact already exists",
		} {
			if errors.Is(err, sentinel) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     msg,
					"requestID": requestID,
				})
				return
			}
		}

		zap.L().Error("Failed to submit registration", zap.Error(err), zap.String("requestID", requestID))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Something went wrong while submitting the registration",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"registration_id": user.RegistrationID,
		"pdf_url":         user.PDFUrl,
		"status":          user.Status,
	})
}
