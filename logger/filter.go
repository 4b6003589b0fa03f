package logger

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	// DefaultMaskValue replaces sensitive values.
	DefaultMaskValue = "***"
	// DefaultMaxDepth bounds recursion into nested maps and slices.
	DefaultMaxDepth = 8
)

// FilterConfig lists the keys whose values are masked.
type FilterConfig struct {
	// SensitiveFields are matched case-insensitively as substrings of the key.
	SensitiveFields []string
	MaskValue       string
}

// DefaultFilterConfig masks credentials and session material commonly found in
// request headers and bodies.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"password", "passwd", "pwd",
			"secret", "api_key", "apikey", "x-api-key",
			"token", "access_token", "refresh_token",
			"auth", "authorization", "cookie",
			"credential", "credentials", "session",
		},
		MaskValue: DefaultMaskValue,
	}
}

// SensitiveDataFilter masks values stored under sensitive keys.
type SensitiveDataFilter struct {
	fields []string
	mask   string
}

// NewSensitiveDataFilter copies config. A nil config uses DefaultFilterConfig.
func NewSensitiveDataFilter(config *FilterConfig) *SensitiveDataFilter {
	if config == nil {
		config = DefaultFilterConfig()
	}
	f := &SensitiveDataFilter{mask: config.MaskValue}
	if f.mask == "" {
		f.mask = DefaultMaskValue
	}
	for _, field := range config.SensitiveFields {
		if field = strings.ToLower(strings.TrimSpace(field)); field != "" {
			f.fields = append(f.fields, field)
		}
	}
	return f
}

// FilterString masks value when key is sensitive. URLs carrying user info have
// their password masked regardless of the key.
func (f *SensitiveDataFilter) FilterString(key, value string) string {
	if f.isSensitiveField(key) {
		return f.mask
	}
	return f.maskURLPassword(value)
}

// FilterValue masks value when key is sensitive, otherwise recurses into
// maps, slices and http.Header.
func (f *SensitiveDataFilter) FilterValue(key string, value any) any {
	return f.filter(key, value, DefaultMaxDepth)
}

// FilterFields returns a filtered copy of fields.
func (f *SensitiveDataFilter) FilterFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	return f.filterMap(fields, DefaultMaxDepth)
}

func (f *SensitiveDataFilter) filter(key string, value any, depth int) any {
	if f.isSensitiveField(key) {
		return f.mask
	}
	if value == nil || depth <= 0 {
		return value
	}

	switch v := value.(type) {
	case string:
		return f.maskURLPassword(v)
	case map[string]any:
		return f.filterMap(v, depth)
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, s := range v {
			out[k] = f.FilterString(k, s)
		}
		return out
	case http.Header:
		out := make(map[string][]string, len(v))
		for k, vals := range v {
			if f.isSensitiveField(k) {
				out[k] = []string{f.mask}
				continue
			}
			out[k] = append([]string(nil), vals...)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = f.filter("", item, depth-1)
		}
		return out
	default:
		return value
	}
}

func (f *SensitiveDataFilter) filterMap(m map[string]any, depth int) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = f.filter(k, v, depth-1)
	}
	return out
}

func (f *SensitiveDataFilter) isSensitiveField(key string) bool {
	if key == "" {
		return false
	}
	lower := strings.ToLower(key)
	for _, field := range f.fields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}

func (f *SensitiveDataFilter) maskURLPassword(value string) string {
	scheme := strings.Index(value, "://")
	if scheme < 0 || !strings.Contains(value, "@") {
		return value
	}
	u, err := url.Parse(value)
	if err != nil || u.User == nil {
		return value
	}
	if _, hasPassword := u.User.Password(); !hasPassword {
		return value
	}
	// Splice the mask into the raw userinfo so the rest of the URL keeps its encoding.
	start := scheme + len("://")
	at := strings.Index(value[start:], "@")
	if at < 0 {
		return value
	}
	colon := strings.Index(value[start:start+at], ":")
	if colon < 0 {
		return value
	}
	return value[:start+colon+1] + f.mask + value[start+at:]
}
