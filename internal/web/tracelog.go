package web

import (
	"time"

	"github.com/gin-gonic/gin"
)

func TraceLog(c *gin.Context) {
	// Finish all others and then write trace log
	c.Next()

	logger := Logger(c)
	startTime := c.MustGet(RequestStartTimeKey).(time.Time)

	message := logger.Info()
	if c.Writer.Status() >= 500 {
		message = logger.Warn()
	}

	message.
		Str("label", "trace").
		Str("method", c.Request.Method).
		Str("url", c.Request.URL.Path).
		Int("code", c.Writer.Status()).
		Float64("duration", time.Since(startTime).Seconds()).
		Msg("")
}
