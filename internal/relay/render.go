package relay

import (
	"encoding/json"

	"bitbucket.org/crgw/carrier-call-relay/internal/config"
	"github.com/gin-gonic/gin"
)

// Outcome is an upstream response ready to be rendered.
type Outcome struct {
	Status      int
	Body        json.RawMessage
	Carrier     string
	RunID       string
	TrackingURL string
}

func (o Outcome) Queued() bool {
	return o.TrackingURL != ""
}

type Renderer interface {
	ValidationFailed(c *gin.Context, errors []string)
	Responded(c *gin.Context, outcome Outcome)
	Failed(c *gin.Context, status int, message string)
}

func NewRenderer(format config.Format) Renderer {
	if format == config.FormatHTML {
		return newHTMLRenderer()
	}
	return &jsonRenderer{}
}
