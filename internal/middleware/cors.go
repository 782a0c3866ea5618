package middleware

import (
	"net/http"

	"github.com/Payphone-Digital/demonlist/internal/constants"
	"github.com/Payphone-Digital/demonlist/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CORS opens the read API to browsers. Link, Retry-After and the rate limit
// headers are exposed so clients can follow pagination.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", constants.CORSAllowHeaders)
		h.Set("Access-Control-Allow-Methods", constants.CORSAllowMethods)
		h.Set("Access-Control-Expose-Headers", constants.CORSExposeHeaders)

		if c.Request.Method == http.MethodOptions {
			logger.GetLogger().Debug("CORS preflight request handled",
				zap.String("client_ip", c.ClientIP()),
				zap.String("origin", c.GetHeader(constants.HeaderOrigin)),
			)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
