package request

import (
	"maps"
	"slices"

	"github.com/rs/zerolog"
)

// Field names used by LogFields and MarshalZerologObject.
const (
	FieldEndpoint      = "endpoint"
	FieldTimeout       = "timeout"
	FieldMethod        = "method"
	FieldQueryItems    = "query_items"
	FieldHeaders       = "headers"
	FieldContentType   = "content_type"
	FieldCachePolicy   = "cache_policy"
	FieldHasBody       = "has_body"
	FieldRetryStrategy = "retry_strategy"
)

// LogDescription is a one-line summary of the call for log messages.
func (s Spec) LogDescription() string {
	return "Backend request to " + s.endpointDescription()
}

// LogFields returns the diagnostic record of the spec. Header values are
// returned as given; masking is left to the logger.
func (s Spec) LogFields() map[string]any {
	return map[string]any{
		FieldEndpoint:      s.endpointDescription(),
		FieldTimeout:       s.timeout,
		FieldMethod:        s.method.String(),
		FieldQueryItems:    s.Query(),
		FieldHeaders:       s.Headers(),
		FieldContentType:   s.contentType.String(),
		FieldCachePolicy:   s.cachePolicy.String(),
		FieldHasBody:       s.HasBody(),
		FieldRetryStrategy: s.Retry().Describe(),
	}
}

// MarshalZerologObject lets a Spec be attached to a zerolog event with Object.
// It writes the same fields as LogFields. Header values are written as given.
func (s Spec) MarshalZerologObject(e *zerolog.Event) {
	e.Str(FieldEndpoint, s.endpointDescription()).
		Dur(FieldTimeout, s.timeout).
		Str(FieldMethod, s.method.String()).
		Array(FieldQueryItems, queryItemArray(s.query)).
		Dict(FieldHeaders, headerDict(s.headers)).
		Str(FieldContentType, s.contentType.String()).
		Str(FieldCachePolicy, s.cachePolicy.String()).
		Bool(FieldHasBody, s.HasBody()).
		Str(FieldRetryStrategy, s.Retry().Describe())
}

func (s Spec) endpointDescription() string {
	if s.endpoint == nil {
		return "<nil>"
	}
	return s.endpoint.Description()
}

func headerDict(headers map[string]string) *zerolog.Event {
	d := zerolog.Dict()
	for _, name := range slices.Sorted(maps.Keys(headers)) {
		d.Str(name, headers[name])
	}
	return d
}

type queryItemArray []QueryItem

func (a queryItemArray) MarshalZerologArray(arr *zerolog.Array) {
	for _, item := range a {
		arr.Str(item.Name + "=" + item.Value)
	}
}
