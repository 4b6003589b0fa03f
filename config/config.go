package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix marks environment variables read by Load.
	EnvPrefix = "REQUESTKIT_"
	// DefaultFile is read when present and no explicit file is given.
	DefaultFile = "requestkit.yaml"
)

type loadOptions struct {
	file   string
	inline []byte
	noEnv  bool
}

// Option customizes Load.
type Option func(*loadOptions)

// WithFile reads path instead of DefaultFile. A missing explicit file is an error.
func WithFile(path string) Option {
	return func(o *loadOptions) { o.file = path }
}

// WithInline merges raw YAML after the file source.
func WithInline(data []byte) Option {
	return func(o *loadOptions) { o.inline = data }
}

// WithoutEnv skips environment variables.
func WithoutEnv() Option {
	return func(o *loadOptions) { o.noEnv = true }
}

// Load merges configuration sources, lowest priority first:
// defaults, the YAML file, inline YAML, then REQUESTKIT_* environment variables.
func Load(opts ...Option) (*Config, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	k := koanf.New(".")
	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := loadFile(k, o.file); err != nil {
		return nil, err
	}

	if len(o.inline) > 0 {
		if err := k.Load(rawbytes.Provider(o.inline), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse inline config: %w", err)
		}
	}

	if !o.noEnv {
		if err := k.Load(env.Provider(".", env.Opt{
			Prefix:        EnvPrefix,
			TransformFunc: envKey,
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load environment variables: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.k = k

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return NewInvalidFieldError("config.file", fmt.Sprintf("cannot read %s: %v", path, err), nil)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// envKey maps REQUESTKIT_RETRY_MAXATTEMPTS to retry.maxattempts.
func envKey(key, value string) (string, any) {
	key = strings.TrimPrefix(key, EnvPrefix)
	if key == "" {
		return "", nil
	}
	return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"log.level":  "info",
		"log.pretty": false,

		"request.timeout":     "10s",
		"request.method":      "GET",
		"request.contenttype": "application/json",
		"request.cachepolicy": "use_protocol_cache_policy",

		"retry.strategy":    "exponential",
		"retry.maxattempts": 3,
		"retry.basedelay":   "1s",
		"retry.multiplier":  2.0,
		"retry.maxdelay":    "0s",
		"retry.jitter":      "none",

		"client.logpayloads":        false,
		"client.maxpayloadlogbytes": 1024,
		"client.traceidheader":      "X-Request-ID",
		"client.w3ctrace":           false,
		"client.ratelimit":          0.0,
		"client.burst":              1,
		"client.concurrency":        4,

		"observability.enabled":  false,
		"observability.service":  "requestkit",
		"observability.exporter": "none",
		"observability.endpoint": "",
		"observability.insecure": false,
	}
	return k.Load(confmap.Provider(defaults, "."), nil)
}

// String returns the raw value at key from the merged sources.
func (c *Config) String(key string) string {
	if c.k == nil {
		return ""
	}
	return c.k.String(key)
}

// Exists reports whether key was set by any source, defaults included.
func (c *Config) Exists(key string) bool {
	return c.k != nil && c.k.Exists(key)
}
