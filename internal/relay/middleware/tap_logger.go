package middleware

import (
	"bitbucket.org/crgw/carrier-call-relay/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TapLogger narrows the request logger to one relay operation.
func TapLogger(c *gin.Context) {
	requestLogger := web.Logger(c).
		With().
		Str("route", c.FullPath()).
		Str("operationId", uuid.New().String()).
		Logger()

	c.Set(web.LoggerKey, &requestLogger)
}
