// Package middleware contains any custom middleware used in the app
package middleware

import (
	"net/http"
	"slices"
	"strings"

	"kgc/registry-api/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// AdminClaims is the typed claim set carried by admin bearer tokens.
type AdminClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// ReviewerRoles may operate the registration review surface.
var ReviewerRoles = []string{model.RoleSuperAdmin, model.RoleVerifier}

// NewJWTMiddleware validates the Authorization bearer token and stores the
// admin's id and role on the context.
func NewJWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "missing authorization header",
				"requestID": requestID,
			})
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "invalid authorization format",
				"requestID": requestID,
			})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims := &AdminClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrSignatureInvalid
			}

			return []byte(viper.GetString("jwt.secret")), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "invalid token",
				"requestID": requestID,
			})

			zap.L().Debug("Rejected admin token", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.Set("adminID", claims.Subject)
		c.Set("adminRole", claims.Role)
		c.Next()
	}
}

// RequireRoles rejects callers whose role isn't in the allowed set.
// Runs after the JWT middleware.
func RequireRoles(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("adminRole")

		if !slices.Contains(allowed, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     "unauthorized",
				"requestID": c.GetString("requestID"),
			})
			return
		}

		c.Next()
	}
}
