package relay

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pages = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

type htmlRenderer struct {
	pages *template.Template
}

func newHTMLRenderer() *htmlRenderer {
	return &htmlRenderer{pages: pages}
}

func (r *htmlRenderer) ValidationFailed(c *gin.Context, errors []string) {
	r.render(c, http.StatusBadRequest, "validation.html", gin.H{
		"Errors": errors,
	})
}

func (r *htmlRenderer) Responded(c *gin.Context, outcome Outcome) {
	if outcome.Status == http.StatusOK && outcome.Queued() {
		r.render(c, http.StatusOK, "success.html", gin.H{
			"Carrier":     outcome.Carrier,
			"TrackingURL": outcome.TrackingURL,
			"Raw":         prettyJSON(outcome.Body),
		})
		return
	}

	r.render(c, outcome.Status, "fallback.html", gin.H{
		"Processed": outcome.Status == http.StatusOK,
		"Status":    outcome.Status,
		"Raw":       prettyJSON(outcome.Body),
	})
}

func (r *htmlRenderer) Failed(c *gin.Context, status int, message string) {
	body, _ := json.Marshal(gin.H{"error": message})

	r.render(c, status, "error.html", gin.H{
		"Status": status,
		"Raw":    prettyJSON(body),
	})
}

func (r *htmlRenderer) render(c *gin.Context, status int, name string, data gin.H) {
	var buffer bytes.Buffer
	if err := r.pages.ExecuteTemplate(&buffer, name, data); err != nil {
		_ = c.Error(err)
		c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("failed rendering page"))
		return
	}

	c.Data(status, "text/html; charset=utf-8", buffer.Bytes())
}

func prettyJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}

	var buffer bytes.Buffer
	if err := json.Indent(&buffer, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buffer.String()
}
