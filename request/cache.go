package request

import (
	"fmt"
	"strings"
)

// CachePolicy tells the transport how to treat locally cached responses.
type CachePolicy int

const (
	// UseProtocolCachePolicy defers to the HTTP caching rules of the transport.
	UseProtocolCachePolicy CachePolicy = iota
	// ReloadIgnoringLocalCacheData always fetches from the origin.
	ReloadIgnoringLocalCacheData
	// ReturnCacheDataElseLoad prefers any cached response, however stale.
	ReturnCacheDataElseLoad
	// ReturnCacheDataDontLoad only uses cached data and never loads.
	ReturnCacheDataDontLoad
)

var cachePolicyNames = []string{
	UseProtocolCachePolicy:       "use_protocol_cache_policy",
	ReloadIgnoringLocalCacheData: "reload_ignoring_local_cache_data",
	ReturnCacheDataElseLoad:      "return_cache_data_else_load",
	ReturnCacheDataDontLoad:      "return_cache_data_dont_load",
}

func (p CachePolicy) String() string {
	if p >= 0 && int(p) < len(cachePolicyNames) {
		return cachePolicyNames[p]
	}
	return fmt.Sprintf("cache_policy(%d)", int(p))
}

// ParseCachePolicy accepts the String form; dashes and case are ignored.
func ParseCachePolicy(s string) (CachePolicy, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if normalized == "" || normalized == "default" {
		return UseProtocolCachePolicy, nil
	}
	for i, name := range cachePolicyNames {
		if name == normalized {
			return CachePolicy(i), nil
		}
	}
	return UseProtocolCachePolicy, fmt.Errorf("unknown cache policy %q", s)
}
