package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/Payphone-Digital/demonlist/internal/constants"
	ctxutil "github.com/Payphone-Digital/demonlist/pkg/context"
	"github.com/Payphone-Digital/demonlist/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestContext stamps a request id, client IP and start time on the
// request context and echoes the id back in X-Request-ID.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}

		ctx := ctxutil.NewContext(c.Request.Context())
		ctx = context.WithValue(ctx, ctxutil.RequestIDKey, requestID)
		ctx = context.WithValue(ctx, ctxutil.ClientIPKey, c.ClientIP())
		ctx = context.WithValue(ctx, ctxutil.UserAgentKey, c.Request.UserAgent())
		if correlationID := c.GetHeader(constants.HeaderXCorrelationID); correlationID != "" {
			ctx = context.WithValue(ctx, ctxutil.CorrelationIDKey, correlationID)
		}

		c.Set(constants.GinKeyRequestID, requestID)
		c.Header(constants.HeaderXRequestID, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequestTimeout bounds the request context. Database reads observe it, so
// a slow snapshot surfaces as 503 rather than holding the connection.
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := ctxutil.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		select {
		case <-ctx.Done():
			logger.WarnWithContext(ctx, "Request timeout before processing").
				Duration(timeout).
				Log()
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, constants.BuildErrorResponse(constants.MsgTimeout, timeout.String()))
			return
		default:
			c.Next()
		}
	}
}
