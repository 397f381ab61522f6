package web

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// HandleError logs cause and aborts the request with a JSON error body.
func HandleError(c *gin.Context, status int, message string, cause error) {
	if logger, ok := c.Value(LoggerKey).(*zerolog.Logger); ok {
		event := logger.Error()
		if status < 500 {
			event = logger.Warn()
		}

		event.
			Err(cause).
			Int("code", status).
			Msg(message)
	}

	if cause != nil {
		_ = c.Error(cause)
	}

	c.AbortWithStatusJSON(status, errorResponse{
		OK:    false,
		Error: message,
	})
}
