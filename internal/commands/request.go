package commands

import (
	"fmt"
	"maps"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaborage/requestkit/codec"
	"github.com/gaborage/requestkit/config"
	"github.com/gaborage/requestkit/request"
)

// RequestOptions holds the flags that describe one request.
type RequestOptions struct {
	Method      string
	Query       []string
	Headers     []string
	Data        string
	DataFile    string
	ContentType string
	CachePolicy string
	Timeout     time.Duration
}

func (o *RequestOptions) addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.Method, "method", "X", "", "HTTP method (default from config)")
	f.StringArrayVarP(&o.Query, "query", "q", nil, "Query item name=value, repeatable, order is kept")
	f.StringArrayVarP(&o.Headers, "header", "H", nil, "Header Name:Value, repeatable")
	f.StringVarP(&o.Data, "data", "d", "", "Request body")
	f.StringVar(&o.DataFile, "data-file", "", "Read the request body from a file")
	f.StringVar(&o.ContentType, "content-type", "", "Body content type (json|jpeg|png)")
	f.StringVar(&o.CachePolicy, "cache-policy", "", "Cache policy, e.g. reload_ignoring_local_cache_data")
	f.DurationVar(&o.Timeout, "timeout", 0, "Per-attempt timeout (default from config)")
	cmd.MarkFlagsMutuallyExclusive("data", "data-file")
}

// overrides converts the flags. Headers are merged over base headers
// rather than replacing them.
func (o *RequestOptions) overrides(base map[string]string) (request.Overrides, error) {
	var ov request.Overrides

	if o.Method != "" {
		m, err := request.ParseMethod(o.Method)
		if err != nil {
			return ov, err
		}
		ov.Method = request.Some(m)
	}
	if o.ContentType != "" {
		ct, err := codec.ParseContentType(o.ContentType)
		if err != nil {
			return ov, err
		}
		ov.ContentType = request.Some(ct)
	}
	if o.CachePolicy != "" {
		cp, err := request.ParseCachePolicy(o.CachePolicy)
		if err != nil {
			return ov, err
		}
		ov.CachePolicy = request.Some(cp)
	}
	if o.Timeout > 0 {
		ov.Timeout = request.Some(o.Timeout)
	}

	if len(o.Query) > 0 {
		items := make([]request.QueryItem, 0, len(o.Query))
		for _, raw := range o.Query {
			name, value, ok := strings.Cut(raw, "=")
			if !ok || name == "" {
				return ov, fmt.Errorf("invalid query item %q: expected name=value", raw)
			}
			items = append(items, request.QueryItem{Name: name, Value: value})
		}
		ov.Query = request.Some(items)
	}

	if len(o.Headers) > 0 {
		headers := maps.Clone(base)
		if headers == nil {
			headers = make(map[string]string, len(o.Headers))
		}
		for _, raw := range o.Headers {
			name, value, ok := strings.Cut(raw, ":")
			name = strings.TrimSpace(name)
			if !ok || name == "" {
				return ov, fmt.Errorf("invalid header %q: expected Name:Value", raw)
			}
			// A flag replaces a base header whatever case either side used.
			maps.DeleteFunc(headers, func(k, _ string) bool { return strings.EqualFold(k, name) })
			headers[name] = strings.TrimSpace(value)
		}
		ov.Headers = request.Some(headers)
	}

	switch {
	case o.DataFile != "":
		data, err := os.ReadFile(o.DataFile)
		if err != nil {
			return ov, fmt.Errorf("reading request body: %w", err)
		}
		ov.Body = request.Some(codec.FromBytes(data))
	case o.Data != "":
		ov.Body = request.Some(codec.FromBytes([]byte(o.Data)))
	}
	return ov, nil
}

// spec builds the Spec for rawURL, joined onto request.baseurl when relative, from the config request defaults and the flags.
func (o *RequestOptions) spec(cfg *config.Config, rawURL string) (request.Spec, error) {
	defaults, err := cfg.RequestOverrides()
	if err != nil {
		return request.Spec{}, err
	}
	factory := request.NewFactory(defaults)

	base, _ := factory.Defaults().Headers.Get()
	ov, err := o.overrides(base)
	if err != nil {
		return request.Spec{}, err
	}
	return factory.Spec(cfg.Request.Endpoint(rawURL), ov), nil
}
