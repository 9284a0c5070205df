package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gestor/backend/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newIdempotentRouter(t *testing.T, tenantID string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() {
		_ = store.Close()
	})

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		if tenantID != "" {
			c.Set(JWTTenantIDKey, tenantID)
		}
		c.Next()
	})
	engine.Use(Idempotency(IdempotencyConfig{Store: store, TTL: time.Minute}))
	engine.POST("/orders", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	engine.GET("/orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return engine
}

func doRequest(engine *gin.Engine, method, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func TestIdempotency_ReplayRejected(t *testing.T) {
	engine := newIdempotentRouter(t, "tenant-a")

	first := doRequest(engine, http.MethodPost, "/orders", "key-1")
	assert.Equal(t, http.StatusCreated, first.Code)

	replay := doRequest(engine, http.MethodPost, "/orders", "key-1")
	assert.Equal(t, http.StatusConflict, replay.Code)
	assert.Contains(t, replay.Body.String(), "already processed")
}

func TestIdempotency_MissingKeyPassesThrough(t *testing.T) {
	engine := newIdempotentRouter(t, "tenant-a")

	assert.Equal(t, http.StatusCreated, doRequest(engine, http.MethodPost, "/orders", "").Code)
	assert.Equal(t, http.StatusCreated, doRequest(engine, http.MethodPost, "/orders", "").Code)
}

func TestIdempotency_ReadsIgnoreKey(t *testing.T) {
	engine := newIdempotentRouter(t, "tenant-a")

	assert.Equal(t, http.StatusOK, doRequest(engine, http.MethodGet, "/orders", "key-1").Code)
	assert.Equal(t, http.StatusOK, doRequest(engine, http.MethodGet, "/orders", "key-1").Code)

	// a read does not consume the key for subsequent writes
	assert.Equal(t, http.StatusCreated, doRequest(engine, http.MethodPost, "/orders", "key-1").Code)
}

func TestIdempotency_FailedRequestDoesNotBurnKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() {
		_ = store.Close()
	})

	attempts := 0
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(JWTTenantIDKey, "tenant-a")
		c.Next()
	})
	engine.Use(Idempotency(IdempotencyConfig{Store: store, TTL: time.Minute}))
	engine.POST("/orders", func(c *gin.Context) {
		attempts++
		if attempts == 1 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no open register"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	first := doRequest(engine, http.MethodPost, "/orders", "key-1")
	assert.Equal(t, http.StatusUnprocessableEntity, first.Code)

	// the failed attempt applied nothing, so the retry must reach the handler
	retry := doRequest(engine, http.MethodPost, "/orders", "key-1")
	assert.Equal(t, http.StatusCreated, retry.Code)

	replay := doRequest(engine, http.MethodPost, "/orders", "key-1")
	assert.Equal(t, http.StatusConflict, replay.Code)
}

func TestIdempotency_KeysAreTenantScoped(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() {
		_ = store.Close()
	})

	newEngine := func(tenantID string) *gin.Engine {
		engine := gin.New()
		engine.Use(func(c *gin.Context) {
			c.Set(JWTTenantIDKey, tenantID)
			c.Next()
		})
		engine.Use(Idempotency(IdempotencyConfig{Store: store, TTL: time.Minute}))
		engine.POST("/orders", func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"ok": true})
		})
		return engine
	}

	tenantA := newEngine("tenant-a")
	tenantB := newEngine("tenant-b")

	assert.Equal(t, http.StatusCreated, doRequest(tenantA, http.MethodPost, "/orders", "shared-key").Code)
	assert.Equal(t, http.StatusCreated, doRequest(tenantB, http.MethodPost, "/orders", "shared-key").Code)
	assert.Equal(t, http.StatusConflict, doRequest(tenantA, http.MethodPost, "/orders", "shared-key").Code)
}
