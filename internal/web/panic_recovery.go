package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func PanicRecovery(c *gin.Context) {
	gin.CustomRecoveryWithWriter(&recoveryWriter{
		logger: Logger(c),
	}, func(c *gin.Context, err any) {
		var message string
		switch e := err.(type) {
		case string:
			message = e
		case error:
			message = e.Error()
		default:
			message = fmt.Sprintf("Unknown error, panic recovered: %v", e)
		}

		HandleError(c, http.StatusInternalServerError, message, nil)
	})(c)
}

type recoveryWriter struct {
	logger *zerolog.Logger
}

func (r *recoveryWriter) Write(p []byte) (n int, err error) {
	r.
		logger.
		Error().
		Str("label", "panic").
		Msg(string(p))

	return len(p), nil
}
