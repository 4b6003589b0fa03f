package request

import "strings"

// Endpoint is a destination for one kind of backend call.
// Implementations come from an endpoint catalog and are treated as immutable.
type Endpoint interface {
	URL() string
	Description() string
}

// StaticEndpoint is a structural Endpoint: two values with the same URL are interchangeable.
type StaticEndpoint struct {
	RawURL string
	Desc   string
}

var _ Endpoint = StaticEndpoint{}

// NewEndpoint returns an Endpoint for a fixed URL.
func NewEndpoint(rawURL, description string) StaticEndpoint {
	return StaticEndpoint{RawURL: rawURL, Desc: description}
}

// JoinEndpoint joins a base URL and a path with exactly one slash between them.
func JoinEndpoint(base, path, description string) StaticEndpoint {
	if path == "" {
		return NewEndpoint(base, description)
	}
	return NewEndpoint(strings.TrimRight(base, "/")+"/"+strings.TrimLeft(path, "/"), description)
}

func (e StaticEndpoint) URL() string { return e.RawURL }

// Description falls back to the URL when no description was given.
func (e StaticEndpoint) Description() string {
	if e.Desc == "" {
		return e.RawURL
	}
	return e.Desc
}
