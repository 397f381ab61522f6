package relay

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

type validationEnvelope struct {
	OK     bool     `json:"ok"`
	Errors []string `json:"errors"`
}

type responseEnvelope struct {
	OK          bool            `json:"ok"`
	Status      int             `json:"status"`
	Data        json.RawMessage `json:"data"`
	RunID       string          `json:"runId,omitempty"`
	TrackingURL string          `json:"trackingUrl,omitempty"`
}

type failureEnvelope struct {
	OK     bool   `json:"ok"`
	Status int    `json:"status"`
	Error  string `json:"error"`
}

type jsonRenderer struct{}

func (r *jsonRenderer) ValidationFailed(c *gin.Context, errors []string) {
	c.JSON(http.StatusBadRequest, validationEnvelope{
		OK:     false,
		Errors: errors,
	})
}

// Responded mirrors the upstream status exactly.
func (r *jsonRenderer) Responded(c *gin.Context, outcome Outcome) {
	c.JSON(outcome.Status, responseEnvelope{
		OK:          outcome.Status < http.StatusBadRequest,
		Status:      outcome.Status,
		Data:        outcome.Body,
		RunID:       outcome.RunID,
		TrackingURL: outcome.TrackingURL,
	})
}

func (r *jsonRenderer) Failed(c *gin.Context, status int, message string) {
	c.JSON(status, failureEnvelope{
		OK:     false,
		Status: status,
		Error:  message,
	})
}
