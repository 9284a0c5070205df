package middleware

import (
	"net/http"
	"time"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client-chosen key for duplicate detection
const IdempotencyKeyHeader = "X-Idempotency-Key"

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Store  shared.IdempotencyStore
	TTL    time.Duration
	Logger *zap.Logger
}

// Idempotency rejects replays of mutating requests that carry an
// X-Idempotency-Key header. Keys are scoped per tenant so different
// tenants can reuse the same key. Requests without the header pass
// through untouched.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		scopedKey := GetJWTTenantID(c) + ":" + key
		fresh, err := cfg.Store.MarkProcessed(c.Request.Context(), scopedKey, ttl)
		if err != nil {
			// Store failure lets the request through
			if cfg.Logger != nil {
				cfg.Logger.Warn("idempotency store unavailable",
					zap.Error(err),
					zap.String("path", c.Request.URL.Path),
				)
			}
			c.Next()
			return
		}
		if !fresh {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponse(
				dto.ErrCodeConflict,
				"Request with this idempotency key was already processed",
			))
			return
		}

		c.Next()

		// a failed request applied no effect, so free the key for retry
		if c.Writer.Status() >= http.StatusBadRequest {
			if err := cfg.Store.Release(c.Request.Context(), scopedKey); err != nil && cfg.Logger != nil {
				cfg.Logger.Warn("failed to release idempotency key",
					zap.Error(err),
					zap.String("path", c.Request.URL.Path),
				)
			}
		}
	}
}
