package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bitbucket.org/crgw/carrier-call-relay/internal/tools/requesting"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestTrigger(t *testing.T) {
	out := &bytes.Buffer{}
	log := zerolog.New(out)

	var handlerFunc http.HandlerFunc
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerFunc(w, r)
	}))
	defer testServer.Close()

	client := New(testServer.URL, "019b4ad3-89aa-73db", WithAPIKeyMask(func(key string) string {
		return key[:6] + "…"
	}))

	t.Run("should post the payload with the api key", func(t *testing.T) {
		out.Reset()
		handlerFunc = func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "019b4ad3-89aa-73db", r.Header.Get("X-Api-Key"))

			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"carrier":"ACME"}`, string(body))

			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"queued_run_ids":["abc123"]}`))
		}

		response, err := client.Trigger(context.TODO(), map[string]string{"carrier": "ACME"}, &log)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, response.StatusCode)
		assert.JSONEq(t, `{"queued_run_ids":["abc123"]}`, string(response.Body))

		assert.Contains(t, out.String(), "x-api-key: 019b4a…")
		assert.NotContains(t, out.String(), "019b4ad3-89aa-73db")
		assert.Contains(t, out.String(), `"label":"upstream-exchange"`)
	})

	t.Run("should treat error statuses as responses", func(t *testing.T) {
		handlerFunc = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"down"}`))
		}

		response, err := client.Trigger(context.TODO(), map[string]string{}, &log)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, response.StatusCode)
		assert.JSONEq(t, `{"error":"down"}`, string(response.Body))
	})

	t.Run("should fail decoding a non json body", func(t *testing.T) {
		handlerFunc = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`<html>bad gateway</html>`))
		}

		response, err := client.Trigger(context.TODO(), map[string]string{}, &log)

		var transportErr *requesting.TransportError
		assert.Nil(t, response)
		assert.True(t, errors.As(err, &transportErr))
		assert.Equal(t, requesting.DecodeError, transportErr.Code)
	})

	t.Run("should time out", func(t *testing.T) {
		handlerFunc = func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(50 * time.Millisecond)
		}

		slowClient := New(testServer.URL, "key", WithTimeout(time.Millisecond))
		_, err := slowClient.Trigger(context.TODO(), map[string]string{}, &log)

		var transportErr *requesting.TransportError
		assert.True(t, errors.As(err, &transportErr))
		assert.Equal(t, requesting.TimeoutError, transportErr.Code)
	})

	t.Run("should report refused connections", func(t *testing.T) {
		closed := httptest.NewServer(http.NotFoundHandler())
		closed.Close()

		_, err := New(closed.URL, "key").Trigger(context.TODO(), map[string]string{}, &log)

		var transportErr *requesting.TransportError
		assert.True(t, errors.As(err, &transportErr))
		assert.Equal(t, requesting.ConnectionError, transportErr.Code)
	})
}

func TestDecodeBody(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		err      error
	}{
		{"object", ` {"a":1} `, `{"a":1}`, nil},
		{"empty", "", `null`, nil},
		{"double encoded", `"{\"queued_run_ids\":[\"x\"]}"`, `{"queued_run_ids":["x"]}`, nil},
		{"plain string", `"accepted"`, `"accepted"`, nil},
		{"not json", `oops`, "", errInvalidJSON},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			decoded, err := decodeBody([]byte(test.raw))

			assert.Equal(t, test.err, err)
			if test.err == nil {
				assert.Equal(t, json.RawMessage(test.expected), decoded)
			}
		})
	}
}
