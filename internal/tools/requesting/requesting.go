package requesting

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
)

type ErrorCode string

const (
	TimeoutError    ErrorCode = "TIMEOUT_ERROR"
	ConnectionError ErrorCode = "CONNECTION_ERROR"
	DecodeError     ErrorCode = "DECODE_ERROR"
)

// TransportError is a failure to obtain a usable response. HTTP error
// statuses are responses, not transport errors.
type TransportError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func NewTransportError(code ErrorCode, err error) *TransportError {
	return &TransportError{
		Code:    code,
		Message: err.Error(),
		Err:     err,
	}
}

// RequestErrors classifies the outcome of http.Client.Do. Every status code
// passes through untouched.
func RequestErrors(response *http.Response, err error) (*http.Response, *TransportError) {
	if err != nil {
		if os.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
			return nil, NewTransportError(TimeoutError, err)
		}

		return nil, NewTransportError(ConnectionError, err)
	}

	return response, nil
}
