package requesting

import (
	"bytes"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type TransportMiddleware func(http.RoundTripper) http.RoundTripper

// InterceptorTransport wraps Transport with Middlewares. The first middleware
// is the outermost one.
type InterceptorTransport struct {
	Transport   http.RoundTripper
	Middlewares []TransportMiddleware
}

func (t *InterceptorTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	transport := t.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	for i := len(t.Middlewares) - 1; i >= 0; i-- {
		transport = t.Middlewares[i](transport)
	}

	return transport.RoundTrip(req)
}

// MaskFunc hides a secret header value in logs.
type MaskFunc func(string) string

type LoggingTransportMiddleware struct {
	Transport http.RoundTripper
	log       *zerolog.Logger
	masked    map[string]MaskFunc
}

// NewLoggingTransportMiddleware logs every outgoing request. Headers listed in
// masked are logged through their MaskFunc.
func NewLoggingTransportMiddleware(log *zerolog.Logger, masked map[string]MaskFunc) TransportMiddleware {
	canonical := make(map[string]MaskFunc, len(masked))
	for name, mask := range masked {
		canonical[http.CanonicalHeaderKey(name)] = mask
	}

	return func(rt http.RoundTripper) http.RoundTripper {
		return &LoggingTransportMiddleware{
			Transport: rt,
			log:       log,
			masked:    canonical,
		}
	}
}

func (t *LoggingTransportMiddleware) RoundTrip(req *http.Request) (*http.Response, error) {
	startTime := time.Now()

	message := t.log.Info().
		Str("label", "outgoing-request").
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("headers", t.headerSummary(req.Header))

	defer func() {
		message.
			Float64("duration", time.Since(startTime).Seconds()).
			Msg("")
	}()

	resp, err := t.Transport.RoundTrip(req)
	if err != nil {
		message.Str("error", err.Error()).Int("code", 0)
		return nil, err
	}

	message.Int("code", resp.StatusCode)

	return resp, nil
}

func (t *LoggingTransportMiddleware) headerSummary(header http.Header) string {
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		value := strings.Join(header.Values(name), ",")
		if mask, ok := t.masked[name]; ok {
			value = mask(value)
		}
		parts = append(parts, strings.ToLower(name)+": "+value)
	}

	return "{ " + strings.Join(parts, ", ") + " }"
}

// Exchange is one request/response pair as seen on the wire.
type Exchange struct {
	StartTime    time.Time
	Method       string
	URL          string
	RequestBody  string
	StatusCode   int
	ResponseBody string
	Err          error
}

type ExchangeRecorder interface {
	FinishedExchange(Exchange)
}

type ExchangeTransportMiddleware struct {
	Transport http.RoundTripper
	Recorder  ExchangeRecorder
}

// NewExchangeTransportMiddleware hands a copy of both bodies to recorder once
// the response has been read off the wire.
func NewExchangeTransportMiddleware(recorder ExchangeRecorder) TransportMiddleware {
	return func(rt http.RoundTripper) http.RoundTripper {
		return &ExchangeTransportMiddleware{
			Transport: rt,
			Recorder:  recorder,
		}
	}
}

func (e *ExchangeTransportMiddleware) RoundTrip(request *http.Request) (*http.Response, error) {
	exchange := Exchange{
		StartTime: time.Now(),
		Method:    request.Method,
		URL:       request.URL.String(),
	}

	defer func() {
		e.Recorder.FinishedExchange(exchange)
	}()

	if request.Body != nil {
		requestBytes, _ := io.ReadAll(request.Body)
		request.Body.Close()
		request.Body = io.NopCloser(bytes.NewBuffer(requestBytes))
		exchange.RequestBody = string(requestBytes)
	}

	response, err := e.Transport.RoundTrip(request)
	if err != nil {
		exchange.Err = err
		return nil, err
	}

	responseBytes, err := io.ReadAll(response.Body)
	response.Body.Close()
	response.Body = io.NopCloser(bytes.NewBuffer(responseBytes))
	if err != nil {
		exchange.Err = err
	}

	exchange.StatusCode = response.StatusCode
	exchange.ResponseBody = string(responseBytes)

	return response, nil
}
