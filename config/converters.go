package config

import (
	"maps"
	"strings"

	"github.com/gaborage/requestkit/codec"
	"github.com/gaborage/requestkit/httpclient"
	"github.com/gaborage/requestkit/observability"
	"github.com/gaborage/requestkit/request"
	"github.com/gaborage/requestkit/retry"
)

// Settings converts the section into retry.Settings.
func (c RetryConfig) Settings() retry.Settings {
	return retry.Settings{
		Kind:        c.Strategy,
		MaxAttempts: c.MaxAttempts,
		BaseDelay:   c.BaseDelay,
		Multiplier:  c.Multiplier,
		MaxDelay:    c.MaxDelay,
		Jitter:      c.Jitter,
	}
}

// Build resolves the section into a retry.Strategy.
func (c RetryConfig) Build() (retry.Strategy, error) {
	return retry.Build(c.Settings())
}

// Overrides converts the request defaults. Empty values are left unset so
// request.New applies its own defaults.
func (c RequestConfig) Overrides() (request.Overrides, error) {
	var o request.Overrides
	if c.Timeout > 0 {
		o.Timeout = request.Some(c.Timeout)
	}
	if c.Method != "" {
		m, err := request.ParseMethod(c.Method)
		if err != nil {
			return request.Overrides{}, NewInvalidFieldError("request.method", err.Error(), nil)
		}
		o.Method = request.Some(m)
	}
	if c.ContentType != "" {
		ct, err := codec.ParseContentType(c.ContentType)
		if err != nil {
			return request.Overrides{}, NewInvalidFieldError("request.contenttype", err.Error(), nil)
		}
		o.ContentType = request.Some(ct)
	}
	if c.CachePolicy != "" {
		cp, err := request.ParseCachePolicy(c.CachePolicy)
		if err != nil {
			return request.Overrides{}, NewInvalidFieldError("request.cachepolicy", err.Error(), nil)
		}
		o.CachePolicy = request.Some(cp)
	}
	if len(c.Headers) > 0 {
		o.Headers = request.Some(maps.Clone(c.Headers))
	}
	return o, nil
}

// Endpoint resolves a command line target. Targets without a scheme are
// joined onto BaseURL when one is configured.
func (c RequestConfig) Endpoint(target string) request.StaticEndpoint {
	if c.BaseURL == "" || strings.Contains(target, "://") {
		return request.NewEndpoint(target, "")
	}
	return request.JoinEndpoint(c.BaseURL, target, "")
}

// RequestOverrides combines the request defaults with the retry strategy,
// ready for request.NewFactory.
func (c *Config) RequestOverrides() (request.Overrides, error) {
	o, err := c.Request.Overrides()
	if err != nil {
		return request.Overrides{}, err
	}
	strategy, err := c.Retry.Build()
	if err != nil {
		return request.Overrides{}, NewInvalidFieldError("retry", err.Error(), nil)
	}
	o.Retry = request.Some(strategy)
	return o, nil
}

// Settings converts the section for observability.NewProvider.
func (c ObservabilityConfig) Settings() observability.Config {
	return observability.Config{
		Enabled:  c.Enabled,
		Service:  c.Service,
		Exporter: c.Exporter,
		Endpoint: c.Endpoint,
		Insecure: c.Insecure,
	}
}

// Settings converts the section for httpclient.NewBuilderFromConfig.
func (c ClientConfig) Settings() httpclient.Config {
	return httpclient.Config{
		LogPayloads:        c.LogPayloads,
		MaxPayloadLogBytes: c.MaxPayloadLogBytes,
		TraceIDHeader:      c.TraceIDHeader,
		EnableW3CTrace:     c.W3CTrace,
		RateLimit:          c.RateLimit,
		Burst:              c.Burst,
	}
}
