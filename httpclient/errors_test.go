package httpclient

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gaborage/requestkit/request"
	"github.com/gaborage/requestkit/retry"
)

const testConnectionFailed = "connection failed"

func TestErrorTypeFormatting(t *testing.T) {
	tests := []struct {
		name     string
		error    ClientError
		expected string
	}{
		{
			name:     "network error without wrapped error",
			error:    NewNetworkError(testConnectionFailed, nil),
			expected: "network error: connection failed",
		},
		{
			name:     "network error with wrapped error",
			error:    NewNetworkError(testConnectionFailed, errors.New("underlying issue")),
			expected: "network error: connection failed: underlying issue",
		},
		{
			name:     "timeout error",
			error:    NewTimeoutError("request timeout", 30*time.Second),
			expected: "timeout error: request timeout (timeout: 30s)",
		},
		{
			name:     "http error",
			error:    NewHTTPError("bad request", 400, []byte("invalid input")),
			expected: "HTTP error 400: bad request",
		},
		{
			name:     "validation error with field",
			error:    NewValidationError("invalid endpoint", "url"),
			expected: "validation error: invalid endpoint (field: url)",
		},
		{
			name:     "build error",
			error:    newBuildError(request.ErrDataOnRetrievalRequest),
			expected: "validation error: building request: data passed for GET request",
		},
		{
			name:     "interceptor error",
			error:    NewInterceptorError("processing failed", "request", errors.New("parsing error")),
			expected: "interceptor error in request: processing failed: parsing error",
		},
		{
			name:     "interceptor error without cause",
			error:    NewInterceptorError("rejected", "response", nil),
			expected: "interceptor error in response: rejected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.error.Error())
		})
	}
}

func TestErrorTypeIdentification(t *testing.T) {
	tests := []struct {
		error    ClientError
		expected ErrorType
		name     string
	}{
		{NewNetworkError("test", nil), NetworkError, "network"},
		{NewTimeoutError("test", time.Second), TimeoutError, "timeout"},
		{NewHTTPError("test", 500, nil), HTTPError, "http"},
		{NewValidationError("test", "field"), ValidationError, "validation"},
		{NewInterceptorError("test", "stage", nil), InterceptorError, "interceptor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.error.Type())
			assert.Equal(t, tt.name, tt.error.Type().String())
		})
	}
	assert.Equal(t, "error_type(99)", ErrorType(99).String())
}

func TestErrorUnwrapping(t *testing.T) {
	t.Run("network error", func(t *testing.T) {
		underlying := errors.New("connection refused")
		netErr := NewNetworkError("failed to connect", underlying)

		assert.ErrorIs(t, netErr, underlying)
		var target *networkError
		assert.True(t, errors.As(netErr, &target))
		assert.Equal(t, "failed to connect", target.message)
	})

	t.Run("build error keeps request sentinel", func(t *testing.T) {
		err := newBuildError(fmt.Errorf("wrapped: %w", request.ErrDataOnRetrievalRequest))
		assert.ErrorIs(t, err, request.ErrDataOnRetrievalRequest)
	})

	t.Run("interceptor chain", func(t *testing.T) {
		underlying := errors.New("socket closed")
		network := NewNetworkError("connection lost", underlying)
		interceptor := NewInterceptorError("request processing failed", "pre-request", network)

		assert.ErrorIs(t, interceptor, underlying)
		var netErr *networkError
		assert.True(t, errors.As(interceptor, &netErr))
		var intErr *interceptorError
		assert.True(t, errors.As(interceptor, &intErr))
		assert.Equal(t, "pre-request", intErr.stage)
	})
}

func TestHTTPErrorAccessors(t *testing.T) {
	body := []byte(`{"error": "invalid request"}`)
	err := NewHTTPError("test error", 503, body)

	httpErr, ok := err.(*httpError)
	assert.True(t, ok)
	assert.Equal(t, 503, httpErr.StatusCode())
	assert.Equal(t, body, httpErr.Body())
}

func TestErrorTypeUtilities(t *testing.T) {
	t.Run("IsErrorType", func(t *testing.T) {
		assert.False(t, IsErrorType(nil, NetworkError))
		assert.True(t, IsErrorType(NewNetworkError("x", nil), NetworkError))
		assert.False(t, IsErrorType(NewNetworkError("x", nil), TimeoutError))
		assert.False(t, IsErrorType(errors.New("plain"), NetworkError))
		assert.True(t, IsErrorType(fmt.Errorf("wrapper: %w", NewHTTPError("x", 400, nil)), HTTPError))
	})

	t.Run("IsHTTPStatusError", func(t *testing.T) {
		assert.False(t, IsHTTPStatusError(nil, 404))
		assert.True(t, IsHTTPStatusError(NewHTTPError("not found", 404, nil), 404))
		assert.False(t, IsHTTPStatusError(NewHTTPError("server error", 500, nil), 404))
		assert.False(t, IsHTTPStatusError(NewNetworkError(testConnectionFailed, nil), 404))
	})

	t.Run("IsSuccessStatus", func(t *testing.T) {
		for status, expected := range map[int]bool{199: false, 200: true, 204: true, 299: true, 300: false, 404: false, 500: false} {
			assert.Equal(t, expected, IsSuccessStatus(status), "status %d", status)
		}
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected retry.Failure
	}{
		{"nil", nil, retry.FailureUnknown},
		{"plain error", errors.New("boom"), retry.FailureUnknown},
		{"bare deadline", context.DeadlineExceeded, retry.FailureTimeout},
		{"canceled network", NewNetworkError("request failed", context.Canceled), retry.FailureClient},
		{"network", NewNetworkError("request failed", errors.New("refused")), retry.FailureNetwork},
		{"timeout", NewTimeoutError("request timed out", time.Second), retry.FailureTimeout},
		{"build", newBuildError(request.ErrInvalidEndpoint), retry.FailureBuild},
		{"interceptor", NewInterceptorError("x", "request", nil), retry.FailureClient},
		{"too many requests", NewHTTPError("x", 429, nil), retry.FailureThrottled},
		{"request timeout status", NewHTTPError("x", 408, nil), retry.FailureTimeout},
		{"server error", NewHTTPError("x", 503, nil), retry.FailureServer},
		{"not found", NewHTTPError("x", 404, nil), retry.FailureClient},
		{"wrapped http", fmt.Errorf("call: %w", NewHTTPError("x", 500, nil)), retry.FailureServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.err))
		})
	}
}
