package request

import (
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/gaborage/requestkit/codec"
)

// Build validates s and assembles its wire descriptor.
func Build(s Spec) (*Descriptor, error) {
	u, err := buildURL(s)
	if err != nil {
		return nil, err
	}

	header := buildHTTPHeader(s)

	body, err := buildHTTPBody(s)
	if err != nil {
		return nil, err
	}

	return &Descriptor{
		url:         u,
		method:      s.method,
		header:      header,
		cachePolicy: s.cachePolicy,
		timeout:     s.timeout,
		body:        body,
	}, nil
}

// Build is shorthand for Build(s).
func (s Spec) Build() (*Descriptor, error) {
	return Build(s)
}

func buildURL(s Spec) (*url.URL, error) {
	if s.endpoint == nil {
		return nil, &InvalidEndpointError{Err: errEmptyURL}
	}
	raw := s.endpoint.URL()
	if strings.TrimSpace(raw) == "" {
		return nil, &InvalidEndpointError{Endpoint: s.endpoint, Err: errEmptyURL}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, &InvalidEndpointError{Endpoint: s.endpoint, Err: err}
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, &InvalidEndpointError{Endpoint: s.endpoint, Err: errNotAbsolute}
	}

	u.RawQuery = appendQuery(u.RawQuery, s.query)
	return u, nil
}

// appendQuery adds items after any existing query, keeping their order.
// url.Values is not used here because Encode sorts by name.
func appendQuery(rawQuery string, items []QueryItem) string {
	if len(items) == 0 {
		return rawQuery
	}

	var b strings.Builder
	b.WriteString(rawQuery)
	for _, item := range items {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(item.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(item.Value))
	}
	return b.String()
}

// buildHTTPHeader replaces the transport defaults with the spec's headers and
// forces Content-Type, whatever case the caller used for it. Names that differ
// only in case collapse into one header; the value of the name that sorts last
// wins, so "x-token" beats "X-Token".
func buildHTTPHeader(s Spec) http.Header {
	header := make(http.Header, len(s.headers)+1)
	for _, name := range slices.Sorted(maps.Keys(s.headers)) {
		header.Set(name, s.headers[name])
	}
	header.Set(codec.HeaderContentType, s.contentType.String())
	return header
}

func buildHTTPBody(s Spec) ([]byte, error) {
	c, err := codec.For(s.contentType)
	if err != nil {
		return nil, fmt.Errorf("selecting body codec: %w", err)
	}

	enc, err := c.Encode(s.body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}

	if s.method == MethodGet {
		if !enc.Empty {
			return nil, ErrDataOnRetrievalRequest
		}
		return nil, nil
	}
	return enc.Bytes, nil
}
