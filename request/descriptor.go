package request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Descriptor is a built, transport-ready request. Accessors return copies;
// a Descriptor can be resent any number of times.
type Descriptor struct {
	url         *url.URL
	method      Method
	header      http.Header
	cachePolicy CachePolicy
	timeout     time.Duration
	body        []byte
}

// URL returns the resolved URL with query items applied.
func (d *Descriptor) URL() *url.URL {
	u := *d.url
	if d.url.User != nil {
		user := *d.url.User
		u.User = &user
	}
	return &u
}

func (d *Descriptor) Method() Method { return d.method }

// Header returns the outgoing headers, Content-Type included.
func (d *Descriptor) Header() http.Header { return d.header.Clone() }

func (d *Descriptor) CachePolicy() CachePolicy { return d.cachePolicy }

func (d *Descriptor) Timeout() time.Duration { return d.timeout }

// Body returns the encoded body bytes, or nil when there are none.
func (d *Descriptor) Body() []byte { return bytes.Clone(d.body) }

// HasBody reports whether any body bytes will be sent.
func (d *Descriptor) HasBody() bool { return len(d.body) > 0 }

// HTTPRequest converts the descriptor to a *http.Request bound to ctx.
// ContentLength and GetBody are derived from the body bytes.
func (d *Descriptor) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader = http.NoBody
	if d.HasBody() {
		body = bytes.NewReader(d.body)
	}

	req, err := http.NewRequestWithContext(ctx, d.method.String(), d.url.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating http request: %w", err)
	}
	req.Header = d.Header()
	return req, nil
}
