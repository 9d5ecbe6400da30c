package api

import (
	"errors"
	"net/http"
	"time"

	"kgc/registry-api/middleware"
	"kgc/registry-api/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const adminTokenTTL = 8 * time.Hour

type adminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin verifies admin credentials and issues a short-lived HS256
// bearer token carrying the admin's id and role.
func (a *API) AdminLogin(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "username and password are required",
			"requestID": requestID,
		})
		return
	}

	var admin model.AdminUser
	err := a.DB.First(&admin, "username = ?", req.Username).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		zap.L().Error("Failed to load admin user", zap.Error(err), zap.String("requestID", requestID))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Something went wrong during login",
			"requestID": requestID,
		})
		return
	}

	// Run the verifier against a well-formed dummy hash on unknown
	// usernames so both failure paths cost the same.
	hash := admin.PasswordHash
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hash, _ = a.Argon.GenerateFromPassword(newID())
	}

	ok, verr := a.Argon.VerifyPasswd(req.Password, hash)
	if verr != nil {
		zap.L().Error("Failed to verify admin password", zap.Error(verr), zap.String("requestID", requestID))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Something went wrong during login",
			"requestID": requestID,
		})
		return
	}

	if !ok || errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "invalid username or password",
			"requestID": requestID,
		})
		return
	}

	now := time.Now()
	claims := middleware.AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(adminTokenTTL)),
		},
		Role: admin.Role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(viper.GetString("jwt.secret")))
	if err != nil {
		zap.L().Error("Failed to sign admin token", zap.Error(err), zap.String("requestID", requestID))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Something went wrong during login",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"role":         admin.Role,
	})
}
