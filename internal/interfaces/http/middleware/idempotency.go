package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/split/backend/internal/domain/shared"
	"github.com/split/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader carries the client-chosen key that suppresses
// duplicate mutating requests.
const IdempotencyKeyHeader = "Idempotency-Key"

// IdempotencyConfig holds idempotency middleware configuration
type IdempotencyConfig struct {
	Store shared.IdempotencyStore
	TTL   time.Duration
}

// Idempotency rejects a repeated mutating request carrying an already
// seen Idempotency-Key with 409 Conflict. Requests without the header
// pass through untouched, as do reads. The key is scoped to method and
// path so the same key can be reused across different endpoints.
func Idempotency(cfg IdempotencyConfig, log *zap.Logger) gin.HandlerFunc {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyConfig().TTL
	}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		scoped := "http:" + c.Request.Method + ":" + c.FullPath() + ":" + key
		seen, err := cfg.Store.IsProcessed(c.Request.Context(), scoped)
		if err != nil {
			// The store being down must not take writes down with it.
			log.Warn("Idempotency check failed, letting request through",
				zap.String("key", key),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if seen {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				"DUPLICATE_REQUEST",
				"A request with this idempotency key was already accepted",
				getRequestID(c),
			))
			return
		}

		c.Next()

		// Only a completed response consumes the key; a server error
		// leaves it unmarked so the client can retry the same request.
		if c.Writer.Status() < http.StatusInternalServerError {
			if _, err := cfg.Store.MarkProcessed(c.Request.Context(), scoped, ttl); err != nil {
				log.Warn("Failed to record idempotency key", zap.String("key", key), zap.Error(err))
			}
		}
	}
}
