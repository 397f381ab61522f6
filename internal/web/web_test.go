package web_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bitbucket.org/crgw/carrier-call-relay/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

const openapiDoc = `{
  "openapi": "3.0.3",
  "info": {"title": "test", "version": "1"},
  "paths": {
    "/trigger": {
      "post": {
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "properties": {"contactNumber": {"type": "string"}}
              }
            }
          }
        },
        "responses": {"200": {"description": "ok"}}
      }
    }
  }
}`

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router http.Handler, method string, target string, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}

	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func TestSetupRouter(t *testing.T) {
	out := &bytes.Buffer{}
	log := zerolog.New(out)

	staticDir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<form>call</form>"), 0o644))

	router := web.SetupRouter(&log, web.Options{
		OpenapiContent: []byte(openapiDoc),
		StaticDir:      staticDir,
	}, func(r gin.IRouter) {
		r.POST("/trigger", func(c *gin.Context) {
			c.String(http.StatusOK, "triggered")
		})
		r.GET("/boom", func(c *gin.Context) {
			panic("boom")
		})
	})

	t.Run("should report health", func(t *testing.T) {
		response := serve(router, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, response.Code)
		assert.JSONEq(t, `{"ok":true,"status":"UP"}`, response.Body.String())
	})

	t.Run("should report uptime", func(t *testing.T) {
		response := serve(router, http.MethodGet, "/status", "")

		assert.Equal(t, http.StatusOK, response.Code)
		assert.Contains(t, response.Body.String(), `"uptime":`)
	})

	t.Run("should serve the openapi document", func(t *testing.T) {
		response := serve(router, http.MethodGet, "/openapi.json", "")

		assert.Equal(t, http.StatusOK, response.Code)
		assert.JSONEq(t, openapiDoc, response.Body.String())
	})

	t.Run("should echo or generate correlation ids", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/health", nil)
		request.Header.Set("x-correlation-id", "corr-42")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		assert.Equal(t, "corr-42", response.Header().Get("x-correlation-id"))

		generated := serve(router, http.MethodGet, "/health", "")
		assert.Len(t, generated.Header().Get("x-correlation-id"), 36)
	})

	t.Run("should write a trace log per request", func(t *testing.T) {
		out.Reset()
		serve(router, http.MethodGet, "/health", "")

		assert.Contains(t, out.String(), `"label":"trace"`)
		assert.Contains(t, out.String(), `"url":"/health"`)
		assert.Contains(t, out.String(), `"code":200`)
		assert.Contains(t, out.String(), `"correlationId":`)
	})

	t.Run("should validate described requests", func(t *testing.T) {
		rejected := serve(router, http.MethodPost, "/trigger", `{"contactNumber":4512345678}`)
		assert.Equal(t, http.StatusBadRequest, rejected.Code)
		assert.Contains(t, rejected.Body.String(), `"ok":false`)

		accepted := serve(router, http.MethodPost, "/trigger", `{"contactNumber":"+4512345678"}`)
		assert.Equal(t, http.StatusOK, accepted.Code)
		assert.Equal(t, "triggered", accepted.Body.String())
	})

	t.Run("should recover from panics", func(t *testing.T) {
		response := serve(router, http.MethodGet, "/boom", "")

		assert.Equal(t, http.StatusInternalServerError, response.Code)
		assert.JSONEq(t, `{"ok":false,"error":"boom"}`, response.Body.String())
	})

	t.Run("should serve static files for unclaimed paths", func(t *testing.T) {
		response := serve(router, http.MethodGet, "/", "")

		assert.Equal(t, http.StatusOK, response.Code)
		assert.Contains(t, response.Body.String(), "<form>call</form>")

		missing := serve(router, http.MethodPost, "/nowhere", "")
		assert.Equal(t, http.StatusNotFound, missing.Code)
	})
}

func TestSetupRouterWithOwnBodyValidation(t *testing.T) {
	log := zerolog.New(&bytes.Buffer{})

	router := web.SetupRouter(&log, web.Options{
		OpenapiContent:    []byte(openapiDoc),
		OwnBodyValidation: []string{"/trigger"},
	}, func(r gin.IRouter) {
		r.POST("/trigger", func(c *gin.Context) {
			c.String(http.StatusOK, "triggered")
		})
	})

	for _, body := range []string{`{"contactNumber":4512345678}`, `{"contactNumber":`} {
		response := serve(router, http.MethodPost, "/trigger", body)

		assert.Equal(t, http.StatusOK, response.Code, body)
		assert.Equal(t, "triggered", response.Body.String(), body)
	}
}

func TestSetupRouterWithoutOpenapi(t *testing.T) {
	out := &bytes.Buffer{}
	log := zerolog.New(out)

	router := web.SetupRouter(&log, web.Options{OpenapiContent: []byte(`{"openapi":`)}, func(r gin.IRouter) {
		r.POST("/trigger", func(c *gin.Context) {
			c.String(http.StatusOK, "triggered")
		})
	})

	assert.Contains(t, out.String(), "request validation disabled")

	response := serve(router, http.MethodPost, "/trigger", `{"contactNumber":4512345678}`)
	assert.Equal(t, http.StatusOK, response.Code)
}
