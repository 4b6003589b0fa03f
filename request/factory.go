package request

import (
	"maps"
	"slices"

	"github.com/gaborage/requestkit/codec"
)

// Factory creates specs that share a set of defaults, such as an
// authenticated JSON POST used by many call sites with different bodies.
type Factory struct {
	defaults Overrides
}

// NewFactory copies defaults so later changes by the caller are not observed.
func NewFactory(defaults Overrides) *Factory {
	return &Factory{defaults: cloneOverrides(defaults)}
}

// Spec returns a spec for endpoint with the factory defaults and then o applied.
func (f *Factory) Spec(endpoint Endpoint, o Overrides) Spec {
	return New(endpoint, f.defaults).Copy(o)
}

// Defaults returns a copy of the factory defaults.
func (f *Factory) Defaults() Overrides {
	return cloneOverrides(f.defaults)
}

func cloneOverrides(o Overrides) Overrides {
	if q, ok := o.Query.Get(); ok {
		o.Query = Some(slices.Clone(q))
	}
	if h, ok := o.Headers.Get(); ok {
		o.Headers = Some(maps.Clone(h))
	}
	if b, ok := o.Body.Get(); ok {
		o.Body = Some(codec.ClonePayload(b))
	}
	return o
}
