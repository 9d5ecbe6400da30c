package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kgc/registry-api/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, role string, ttl time.Duration) string {
	t.Helper()

	claims := AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		Role: role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(viper.GetString("jwt.secret")))
	require.NoError(t, err)

	return token
}

func newGatedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(NewRequestIDMiddleware())
	r.GET("/protected", NewJWTMiddleware(), RequireRoles(ReviewerRoles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"admin_id": c.GetString("adminID"),
			"role":     c.GetString("adminRole"),
		})
	})

	return r
}

func TestJWTMiddleware(t *testing.T) {
	viper.Set("jwt.secret", "test-secret")
	router := newGatedRouter()

	get := func(authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get("").Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get("Token abc").Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get("Bearer not.a.token").Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, model.RoleSuperAdmin, -time.Minute)
		assert.Equal(t, http.StatusUnauthorized, get("Bearer "+token).Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		claims := AdminClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "admin-1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			Role: model.RoleSuperAdmin,
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, get("Bearer "+token).Code)
	})

	t.Run("reviewer roles pass", func(t *testing.T) {
		for _, role := range []string{model.RoleSuperAdmin, model.RoleVerifier} {
			token := signToken(t, role, time.Hour)
			assert.Equal(t, http.StatusOK, get("Bearer "+token).Code, role)
		}
	})

	t.Run("readonly role is rejected with 403", func(t *testing.T) {
		token := signToken(t, model.RoleReadonly, time.Hour)
		assert.Equal(t, http.StatusForbidden, get("Bearer "+token).Code)
	})

	t.Run("unknown role is rejected with 403", func(t *testing.T) {
		token := signToken(t, "auditor", time.Hour)
		assert.Equal(t, http.StatusForbidden, get("Bearer "+token).Code)
	})
}
