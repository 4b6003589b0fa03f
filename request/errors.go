package request

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEndpoint matches any *InvalidEndpointError.
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	// ErrDataOnRetrievalRequest is returned when a GET spec encodes to a non-empty body.
	ErrDataOnRetrievalRequest = errors.New("data passed for GET request")
)

// InvalidEndpointError reports an endpoint whose URL is not a well-formed absolute URL.
type InvalidEndpointError struct {
	Endpoint Endpoint
	Err      error
}

func (e *InvalidEndpointError) Error() string {
	desc, raw := "<nil>", ""
	if e.Endpoint != nil {
		desc, raw = e.Endpoint.Description(), e.Endpoint.URL()
	}
	if e.Err != nil {
		return fmt.Sprintf("invalid endpoint %s (%q): %v", desc, raw, e.Err)
	}
	return fmt.Sprintf("invalid endpoint %s (%q)", desc, raw)
}

func (e *InvalidEndpointError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrInvalidEndpoint) match.
func (e *InvalidEndpointError) Is(target error) bool {
	return target == ErrInvalidEndpoint
}

var (
	errEmptyURL    = errors.New("url is empty")
	errNotAbsolute = errors.New("url is not absolute")
)
