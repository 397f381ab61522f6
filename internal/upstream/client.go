package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"bitbucket.org/crgw/carrier-call-relay/internal/tools/requesting"
	"github.com/rs/zerolog"
)

const apiKeyHeader = "x-api-key"

var errInvalidJSON = errors.New("upstream response is not valid JSON")

// Response is whatever the workflow hook answered, any status included.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

type Client struct {
	url     string
	apiKey  string
	options *Options
}

func New(url string, apiKey string, optionFuncs ...OptionFunc) *Client {
	return &Client{
		url:     url,
		apiKey:  apiKey,
		options: NewOptions(optionFuncs...),
	}
}

func (c *Client) URL() string {
	return c.url
}

// Trigger posts payload to the workflow hook once. The error is always a
// *requesting.TransportError.
func (c *Client) Trigger(ctx context.Context, payload any, logger *zerolog.Logger) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, requesting.NewTransportError(requesting.DecodeError, err)
	}

	client := &http.Client{
		Timeout: c.options.Timeout(),
		Transport: &requesting.InterceptorTransport{
			Transport: c.options.transport,
			Middlewares: []requesting.TransportMiddleware{
				requesting.NewLoggingTransportMiddleware(logger, map[string]requesting.MaskFunc{
					apiKeyHeader: c.options.maskAPIKey,
				}),
				requesting.NewExchangeTransportMiddleware(&exchangeLogger{logger: logger}),
			},
		},
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, requesting.NewTransportError(requesting.ConnectionError, err)
	}

	httpRequest.Header.Set("content-type", "application/json")
	httpRequest.Header.Set(apiKeyHeader, c.apiKey)
	httpRequest.Header.Set("user-agent", c.options.Name())

	response, transportErr := requesting.RequestErrors(client.Do(httpRequest))
	if transportErr != nil {
		return nil, transportErr
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, requesting.NewTransportError(requesting.ConnectionError, err)
	}

	decoded, err := decodeBody(raw)
	if err != nil {
		return nil, requesting.NewTransportError(
			requesting.DecodeError,
			fmt.Errorf("%w (status %d)", err, response.StatusCode),
		)
	}

	return &Response{
		StatusCode: response.StatusCode,
		Body:       decoded,
	}, nil
}

// decodeBody normalizes the hook response to one JSON value. Gateways
// sometimes wrap the JSON document in a JSON string; that is unwrapped once.
func decodeBody(raw []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return json.RawMessage("null"), nil
	}

	if !json.Valid(trimmed) {
		return nil, errInvalidJSON
	}

	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err == nil {
			unwrapped := bytes.TrimSpace([]byte(inner))
			if len(unwrapped) > 0 && (unwrapped[0] == '{' || unwrapped[0] == '[') && json.Valid(unwrapped) {
				return json.RawMessage(unwrapped), nil
			}
		}
	}

	return json.RawMessage(trimmed), nil
}

type exchangeLogger struct {
	logger *zerolog.Logger
}

func (e *exchangeLogger) FinishedExchange(exchange requesting.Exchange) {
	message := e.logger.Info().
		Str("label", "upstream-exchange").
		Str("url", exchange.URL).
		Str("payload", exchange.RequestBody)

	if exchange.Err != nil {
		message.Err(exchange.Err).Msg("Upstream request failed")
		return
	}

	message.
		Int("status", exchange.StatusCode).
		Str("body", exchange.ResponseBody).
		Msg("Upstream responded")
}
