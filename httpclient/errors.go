package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gaborage/requestkit/retry"
)

// ErrorType categorizes client failures.
type ErrorType int

const (
	NetworkError ErrorType = iota + 1
	TimeoutError
	HTTPError
	ValidationError
	InterceptorError
)

func (t ErrorType) String() string {
	switch t {
	case NetworkError:
		return "network"
	case TimeoutError:
		return "timeout"
	case HTTPError:
		return "http"
	case ValidationError:
		return "validation"
	case InterceptorError:
		return "interceptor"
	default:
		return fmt.Sprintf("error_type(%d)", int(t))
	}
}

// ClientError is implemented by every error the client returns.
type ClientError interface {
	error
	Type() ErrorType
}

type networkError struct {
	message string
	err     error
}

// NewNetworkError reports a transport failure. err may be nil.
func NewNetworkError(message string, err error) ClientError {
	return &networkError{message: message, err: err}
}

func (e *networkError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("network error: %s: %v", e.message, e.err)
	}
	return "network error: " + e.message
}

func (e *networkError) Unwrap() error   { return e.err }
func (e *networkError) Type() ErrorType { return NetworkError }

type timeoutError struct {
	message string
	timeout time.Duration
	err     error
}

// NewTimeoutError reports an attempt that exceeded timeout.
func NewTimeoutError(message string, timeout time.Duration) ClientError {
	return &timeoutError{message: message, timeout: timeout}
}

func (e *timeoutError) Error() string {
	return fmt.Sprintf("timeout error: %s (timeout: %s)", e.message, e.timeout)
}

func (e *timeoutError) Unwrap() error   { return e.err }
func (e *timeoutError) Type() ErrorType { return TimeoutError }

type httpError struct {
	message    string
	statusCode int
	body       []byte
}

// NewHTTPError reports a non-2xx response.
func NewHTTPError(message string, statusCode int, body []byte) ClientError {
	return &httpError{message: message, statusCode: statusCode, body: body}
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.statusCode, e.message)
}

func (e *httpError) Type() ErrorType { return HTTPError }
func (e *httpError) StatusCode() int { return e.statusCode }
func (e *httpError) Body() []byte    { return e.body }

type validationError struct {
	message string
	field   string
	err     error
}

// NewValidationError reports a request that could not be built.
func NewValidationError(message, field string) ClientError {
	return &validationError{message: message, field: field}
}

func newBuildError(err error) ClientError {
	return &validationError{message: "building request", err: err}
}

func (e *validationError) Error() string {
	msg := "validation error: " + e.message
	if e.field != "" {
		msg += fmt.Sprintf(" (field: %s)", e.field)
	}
	if e.err != nil {
		msg += ": " + e.err.Error()
	}
	return msg
}

func (e *validationError) Unwrap() error   { return e.err }
func (e *validationError) Type() ErrorType { return ValidationError }

type interceptorError struct {
	message string
	stage   string
	err     error
}

// NewInterceptorError reports an interceptor or session failure at stage.
func NewInterceptorError(message, stage string, err error) ClientError {
	return &interceptorError{message: message, stage: stage, err: err}
}

func (e *interceptorError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("interceptor error in %s: %s: %v", e.stage, e.message, e.err)
	}
	return fmt.Sprintf("interceptor error in %s: %s", e.stage, e.message)
}

func (e *interceptorError) Unwrap() error   { return e.err }
func (e *interceptorError) Type() ErrorType { return InterceptorError }

// IsErrorType reports whether err, or an error it wraps, is a ClientError of errorType.
func IsErrorType(err error, errorType ErrorType) bool {
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type() == errorType
	}
	return false
}

// IsHTTPStatusError reports whether err is an HTTP error with statusCode.
func IsHTTPStatusError(err error, statusCode int) bool {
	var httpErr *httpError
	if errors.As(err, &httpErr) {
		return httpErr.statusCode == statusCode
	}
	return false
}

// IsSuccessStatus reports whether statusCode is 2xx.
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// Classify maps an error returned by the client to the failure a retry
// strategy decides on. Canceled contexts and interceptor failures are client
// failures and are never retried.
func Classify(err error) retry.Failure {
	if err == nil {
		return retry.FailureUnknown
	}
	if errors.Is(err, context.Canceled) {
		return retry.FailureClient
	}

	var clientErr ClientError
	if !errors.As(err, &clientErr) {
		if errors.Is(err, context.DeadlineExceeded) {
			return retry.FailureTimeout
		}
		return retry.FailureUnknown
	}

	switch clientErr.Type() {
	case ValidationError:
		return retry.FailureBuild
	case InterceptorError:
		return retry.FailureClient
	case TimeoutError:
		return retry.FailureTimeout
	case NetworkError:
		return retry.FailureNetwork
	case HTTPError:
		var httpErr *httpError
		errors.As(err, &httpErr)
		return classifyStatus(httpErr.statusCode)
	default:
		return retry.FailureUnknown
	}
}

func classifyStatus(status int) retry.Failure {
	switch {
	case status == http.StatusTooManyRequests:
		return retry.FailureThrottled
	case status == http.StatusRequestTimeout:
		return retry.FailureTimeout
	case status >= 500:
		return retry.FailureServer
	default:
		return retry.FailureClient
	}
}
