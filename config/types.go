package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

// Config is the requestkit configuration. Keys are lower case and dot
// separated, e.g. retry.maxattempts.
type Config struct {
	Log           LogConfig           `koanf:"log" json:"log" yaml:"log"`
	Request       RequestConfig       `koanf:"request" json:"request" yaml:"request"`
	Retry         RetryConfig         `koanf:"retry" json:"retry" yaml:"retry"`
	Client        ClientConfig        `koanf:"client" json:"client" yaml:"client"`
	Observability ObservabilityConfig `koanf:"observability" json:"observability" yaml:"observability"`

	// k holds the merged sources for keys the struct does not model.
	k *koanf.Koanf `json:"-" yaml:"-"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty"`
}

// RequestConfig holds the defaults applied to every request spec.
type RequestConfig struct {
	BaseURL     string            `koanf:"baseurl" json:"baseurl" yaml:"baseurl" validate:"omitempty,url"`
	Timeout     time.Duration     `koanf:"timeout" json:"timeout" yaml:"timeout" validate:"gte=0"`
	Method      string            `koanf:"method" json:"method" yaml:"method"`
	ContentType string            `koanf:"contenttype" json:"contenttype" yaml:"contenttype"`
	CachePolicy string            `koanf:"cachepolicy" json:"cachepolicy" yaml:"cachepolicy"`
	Headers     map[string]string `koanf:"headers" json:"headers" yaml:"headers"`
}

// RetryConfig describes the default retry strategy.
type RetryConfig struct {
	Strategy    string        `koanf:"strategy" json:"strategy" yaml:"strategy" validate:"oneof=exponential fixed none"`
	MaxAttempts int           `koanf:"maxattempts" json:"maxattempts" yaml:"maxattempts" validate:"gte=0"`
	BaseDelay   time.Duration `koanf:"basedelay" json:"basedelay" yaml:"basedelay" validate:"gte=0"`
	Multiplier  float64       `koanf:"multiplier" json:"multiplier" yaml:"multiplier" validate:"gte=0"`
	MaxDelay    time.Duration `koanf:"maxdelay" json:"maxdelay" yaml:"maxdelay" validate:"gte=0"`
	Jitter      string        `koanf:"jitter" json:"jitter" yaml:"jitter" validate:"oneof=none full equal"`
}

// ClientConfig tunes the HTTP executor.
type ClientConfig struct {
	LogPayloads        bool    `koanf:"logpayloads" json:"logpayloads" yaml:"logpayloads"`
	MaxPayloadLogBytes int     `koanf:"maxpayloadlogbytes" json:"maxpayloadlogbytes" yaml:"maxpayloadlogbytes" validate:"gte=0"`
	TraceIDHeader      string  `koanf:"traceidheader" json:"traceidheader" yaml:"traceidheader"`
	W3CTrace           bool    `koanf:"w3ctrace" json:"w3ctrace" yaml:"w3ctrace"`
	RateLimit          float64 `koanf:"ratelimit" json:"ratelimit" yaml:"ratelimit" validate:"gte=0"`
	Burst              int     `koanf:"burst" json:"burst" yaml:"burst" validate:"gte=0"`
	Concurrency        int     `koanf:"concurrency" json:"concurrency" yaml:"concurrency" validate:"gte=1"`
}

// ObservabilityConfig selects the telemetry exporter.
type ObservabilityConfig struct {
	Enabled  bool   `koanf:"enabled" json:"enabled" yaml:"enabled"`
	Service  string `koanf:"service" json:"service" yaml:"service" validate:"required_if=Enabled true"`
	Exporter string `koanf:"exporter" json:"exporter" yaml:"exporter" validate:"oneof=none stdout otlp-http otlp-grpc"`
	Endpoint string `koanf:"endpoint" json:"endpoint" yaml:"endpoint"`
	Insecure bool   `koanf:"insecure" json:"insecure" yaml:"insecure"`
}
