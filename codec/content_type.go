// Package codec encodes request payloads according to a declared content type.
// It holds the payload sum type and the JSON and binary codecs used when a
// request descriptor is built.
package codec

import (
	"errors"
	"fmt"
	"strings"
)

// ContentType is the declared media type of a request body.
// Its value is the exact string sent in the Content-Type header.
type ContentType string

const (
	JSON ContentType = "application/json"
	JPEG ContentType = "image/jpeg"
	PNG  ContentType = "image/png"
)

// HeaderContentType is the header name the builder always overwrites.
const HeaderContentType = "Content-Type"

// ErrUnknownContentType is returned when a content type is not supported.
var ErrUnknownContentType = errors.New("unknown content type")

// String returns the wire value.
func (c ContentType) String() string {
	return string(c)
}

// IsBinary reports whether the content type carries raw bytes.
func (c ContentType) IsBinary() bool {
	return c == JPEG || c == PNG
}

// Valid reports whether c is one of the supported content types.
func (c ContentType) Valid() bool {
	switch c {
	case JSON, JPEG, PNG:
		return true
	default:
		return false
	}
}

// ParseContentType accepts either a wire value or a short name (json, jpeg, jpg, png).
func ParseContentType(s string) (ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", string(JSON):
		return JSON, nil
	case "jpeg", "jpg", string(JPEG):
		return JPEG, nil
	case "png", string(PNG):
		return PNG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownContentType, s)
	}
}
