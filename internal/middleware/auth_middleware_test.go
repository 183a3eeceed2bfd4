package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sophisticated-cleaners/booking-backend/pkg/jwt"
)

func testRouter(jwtService *jwt.Service, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	router := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(jwtService, logger)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		userCtx, _ := GetUserContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userCtx.UserID})
	})
	router.GET("/protected", handlers...)

	return router
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := jwt.NewService("secret", "refresh-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	t.Run("Valid Token Passes", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(userID, "user@example.com", []string{"client"})
		require.NoError(t, err)

		router := testRouter(jwtService)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Missing Header Rejected", func(t *testing.T) {
		router := testRouter(jwtService)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "MISSING_AUTH_HEADER")
	})

	t.Run("Malformed Header Rejected", func(t *testing.T) {
		router := testRouter(jwtService)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc123")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_AUTH_FORMAT")
	})

	t.Run("Refresh Token Rejected On Protected Route", func(t *testing.T) {
		refresh, err := jwtService.GenerateRefreshToken(userID, "user@example.com")
		require.NoError(t, err)

		router := testRouter(jwtService)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+refresh)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Expired Token Gets Distinct Code", func(t *testing.T) {
		expiredService := jwt.NewService("secret", "refresh-secret", -time.Hour, 24*time.Hour)
		token, err := expiredService.GenerateAccessToken(userID, "user@example.com", []string{"client"})
		require.NoError(t, err)

		router := testRouter(jwtService)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
	})
}

func TestRequireRole(t *testing.T) {
	jwtService := jwt.NewService("secret", "refresh-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	t.Run("Role Present", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(userID, "admin@example.com", []string{"client", "admin"})
		require.NoError(t, err)

		router := testRouter(jwtService, RequireRole("admin"))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Role Missing", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(userID, "client@example.com", []string{"client"})
		require.NoError(t, err)

		router := testRouter(jwtService, RequireRole("admin"))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "INSUFFICIENT_PERMISSIONS")
	})
}
