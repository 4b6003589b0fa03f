// Package request describes outbound backend calls declaratively and builds
// them into transport-ready descriptors.
//
// A Spec is a value: it is never changed in place. Variants are derived with
// Copy, which inherits every field that is not overridden and never shares
// mutable storage with its source. Build validates a Spec and encodes its
// body; it performs no I/O and is safe for concurrent use.
package request

import (
	"maps"
	"slices"
	"time"

	"github.com/gaborage/requestkit/codec"
	"github.com/gaborage/requestkit/retry"
)

// DefaultTimeout applies when a spec does not set one.
const DefaultTimeout = 10 * time.Second

// QueryItem is one name/value pair. Order is significant and names may repeat.
type QueryItem struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Session is an already-resolved auth session supplied by the caller.
// The request package carries it to the transport without interpreting it.
type Session any

// Spec is the declarative description of one outbound call.
type Spec struct {
	endpoint    Endpoint
	timeout     time.Duration
	method      Method
	query       []QueryItem
	headers     map[string]string
	contentType codec.ContentType
	cachePolicy CachePolicy
	body        codec.Payload
	session     Session
	retry       retry.Strategy
}

// Overrides lists replacement values for Copy. Unset fields are inherited.
// The endpoint is deliberately absent: a call to another destination needs a new Spec.
type Overrides struct {
	Timeout     Optional[time.Duration]
	Method      Optional[Method]
	Query       Optional[[]QueryItem]
	Headers     Optional[map[string]string]
	ContentType Optional[codec.ContentType]
	CachePolicy Optional[CachePolicy]
	Body        Optional[codec.Payload]
	Session     Optional[Session]
	Retry       Optional[retry.Strategy]
}

// New returns a Spec for endpoint with defaults for every field not set in o.
// It never fails.
func New(endpoint Endpoint, o Overrides) Spec {
	base := Spec{
		endpoint:    endpoint,
		timeout:     DefaultTimeout,
		method:      MethodGet,
		contentType: codec.JSON,
		cachePolicy: UseProtocolCachePolicy,
		retry:       retry.DefaultExponential(),
	}
	return base.Copy(o)
}

// Copy returns a new Spec with the fields set in o replaced.
func (s Spec) Copy(o Overrides) Spec {
	return Spec{
		endpoint:    s.endpoint,
		timeout:     o.Timeout.Or(s.timeout),
		method:      o.Method.Or(s.method),
		query:       slices.Clone(o.Query.Or(s.query)),
		headers:     maps.Clone(o.Headers.Or(s.headers)),
		contentType: o.ContentType.Or(s.contentType),
		cachePolicy: o.CachePolicy.Or(s.cachePolicy),
		body:        codec.ClonePayload(o.Body.Or(s.body)),
		session:     o.Session.Or(s.session),
		retry:       o.Retry.Or(s.retry),
	}
}

func (s Spec) Endpoint() Endpoint { return s.endpoint }

func (s Spec) Timeout() time.Duration { return s.timeout }

func (s Spec) Method() Method { return s.method }

// Query returns a copy of the query items.
func (s Spec) Query() []QueryItem { return slices.Clone(s.query) }

// Headers returns a copy of the caller-supplied headers.
func (s Spec) Headers() map[string]string { return maps.Clone(s.headers) }

func (s Spec) ContentType() codec.ContentType { return s.contentType }

func (s Spec) CachePolicy() CachePolicy { return s.cachePolicy }

// Body returns the unencoded payload, or nil.
func (s Spec) Body() codec.Payload { return codec.ClonePayload(s.body) }

// HasBody reports whether a payload is attached, before encoding.
func (s Spec) HasBody() bool { return s.body != nil }

func (s Spec) Session() Session { return s.session }

// Retry returns the strategy the executor consults after a failed attempt.
func (s Spec) Retry() retry.Strategy {
	if s.retry == nil {
		return retry.DefaultExponential()
	}
	return s.retry
}
