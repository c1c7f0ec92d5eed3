package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorType classifies why a provider call for a symbol failed
type ErrorType string

const (
	ErrorTypeNetwork    ErrorType = "network"    // provider unreachable
	ErrorTypeRateLimit  ErrorType = "rate_limit" // HTTP 429 or a throttling notice in the body
	ErrorTypeServer     ErrorType = "server"     // HTTP 5xx
	ErrorTypeClient     ErrorType = "client"     // other 4xx, bad key or bad request
	ErrorTypeNotFound   ErrorType = "not_found"  // symbol unknown to the provider
	ErrorTypeValidation ErrorType = "validation" // payload received but unusable
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// retryable lists the types worth asking again for.
var retryable = map[ErrorType]bool{
	ErrorTypeNetwork:   true,
	ErrorTypeRateLimit: true,
	ErrorTypeServer:    true,
	ErrorTypeTimeout:   true,
}

// defaultMessages are used when a constructor gets no message.
var defaultMessages = map[ErrorType]string{
	ErrorTypeNetwork:   "network request failed",
	ErrorTypeRateLimit: "rate limit exceeded",
	ErrorTypeServer:    "server returned an error",
	ErrorTypeNotFound:  "symbol not found",
	ErrorTypeTimeout:   "request timed out",
}

// FetchError is returned by every Provider method. Symbol is the ticker the
// call was made for; StatusCode is 0 when no HTTP status applies.
type FetchError struct {
	Type       ErrorType
	Symbol     string
	Retryable  bool
	StatusCode int
	Message    string
	Cause      error
}

func newError(t ErrorType, symbol string, status int, message string, cause error) *FetchError {
	if message == "" {
		message = defaultMessages[t]
	}
	return &FetchError{
		Type:       t,
		Symbol:     symbol,
		Retryable:  retryable[t],
		StatusCode: status,
		Message:    message,
		Cause:      cause,
	}
}

func (e *FetchError) Error() string {
	msg := e.Message
	if e.Symbol != "" {
		msg = e.Symbol + ": " + msg
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Type, msg)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// IsType reports whether err is a *FetchError of type t.
func IsType(err error, t ErrorType) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Type == t
}

func NewNetworkError(symbol string, cause error) *FetchError {
	return newError(ErrorTypeNetwork, symbol, 0, "", cause)
}

// NewRateLimitError reports throttling. statusCode is 0 when the provider
// signals it inside a successful response body.
func NewRateLimitError(symbol string, statusCode int, message string) *FetchError {
	return newError(ErrorTypeRateLimit, symbol, statusCode, message, nil)
}

func NewServerError(symbol string, statusCode int) *FetchError {
	return newError(ErrorTypeServer, symbol, statusCode, "", nil)
}

func NewClientError(symbol string, statusCode int, message string) *FetchError {
	return newError(ErrorTypeClient, symbol, statusCode, message, nil)
}

// NewNotFoundError reports a symbol the provider does not know.
func NewNotFoundError(symbol string, statusCode int, message string) *FetchError {
	return newError(ErrorTypeNotFound, symbol, statusCode, message, nil)
}

func NewValidationError(symbol string, message string) *FetchError {
	return newError(ErrorTypeValidation, symbol, 0, message, nil)
}

func NewTimeoutError(symbol string, cause error) *FetchError {
	return newError(ErrorTypeTimeout, symbol, 0, "", cause)
}

// ClassifyHTTPError maps a non-2xx status to a FetchError.
func ClassifyHTTPError(symbol string, statusCode int) *FetchError {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return NewRateLimitError(symbol, statusCode, "")
	case statusCode == http.StatusNotFound:
		return NewNotFoundError(symbol, statusCode, "")
	case statusCode >= 500:
		return NewServerError(symbol, statusCode)
	case statusCode >= 400:
		return NewClientError(symbol, statusCode, fmt.Sprintf("client error: HTTP %d", statusCode))
	}
	return newError(ErrorTypeUnknown, symbol, statusCode, fmt.Sprintf("unexpected status code: %d", statusCode), nil)
}

// ClassifyTransportError wraps an error returned before any HTTP status was
// received. Context cancellation is passed through unchanged so callers can
// stop a batch on it.
func ClassifyTransportError(symbol string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(symbol, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewTimeoutError(symbol, err)
	}
	return NewNetworkError(symbol, err)
}
