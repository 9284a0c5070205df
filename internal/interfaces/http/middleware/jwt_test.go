package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gestor/backend/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthedRouter(t *testing.T, jwtService *auth.JWTService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths:  []string{"/health"},
	}))
	engine.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	engine.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":   GetJWTUserID(c),
			"tenant_id": GetJWTTenantID(c),
			"username":  GetJWTUsername(c),
		})
	})
	return engine
}

func TestJWTAuth_ValidTokenSetsClaims(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", "gestor-test", time.Hour)
	engine := newAuthedRouter(t, jwtService)

	tenantID := uuid.New()
	userID := uuid.New()
	token, err := jwtService.GenerateToken(auth.GenerateTokenInput{
		TenantID: tenantID,
		UserID:   userID,
		Username: "joao",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token.AccessToken)
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), userID.String())
	assert.Contains(t, recorder.Body.String(), tenantID.String())
	assert.Contains(t, recorder.Body.String(), "joao")
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", "gestor-test", time.Hour)
	engine := newAuthedRouter(t, jwtService)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", "gestor-test", time.Hour)
	engine := newAuthedRouter(t, jwtService)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthHeaderKey, "Basic abc123")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	issuing := auth.NewJWTService("test-secret", "gestor-test", -time.Minute)
	token, err := issuing.GenerateToken(auth.GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Username: "joao",
	})
	require.NoError(t, err)

	engine := newAuthedRouter(t, auth.NewJWTService("test-secret", "gestor-test", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token.AccessToken)
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "expired")
}

func TestJWTAuth_WrongSigningKey(t *testing.T) {
	other := auth.NewJWTService("other-secret", "gestor-test", time.Hour)
	token, err := other.GenerateToken(auth.GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Username: "joao",
	})
	require.NoError(t, err)

	engine := newAuthedRouter(t, auth.NewJWTService("test-secret", "gestor-test", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token.AccessToken)
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJWTAuth_SkipPath(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", "gestor-test", time.Hour)
	engine := newAuthedRouter(t, jwtService)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
}
