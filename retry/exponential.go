package retry

import (
	"fmt"
	"math"
	"time"
)

const (
	DefaultBaseDelay   = time.Second
	DefaultMultiplier  = 2.0
	DefaultMaxAttempts = 3
)

// ExponentialConfig parameterizes Exponential.
type ExponentialConfig struct {
	// BaseDelay is the wait after the first failed attempt.
	BaseDelay time.Duration `validate:"gt=0"`
	// Multiplier scales the wait for every further attempt.
	Multiplier float64 `validate:"gt=0"`
	// MaxAttempts is the number of failed attempts that may still be retried.
	// Zero disables retries.
	MaxAttempts int `validate:"gte=0"`
	// MaxDelay caps a single wait. Zero means uncapped.
	MaxDelay time.Duration `validate:"gte=0"`
}

// Exponential waits BaseDelay × Multiplier^(n-1) after failed attempt n,
// and stops once n exceeds MaxAttempts.
type Exponential struct {
	cfg ExponentialConfig
}

var _ Strategy = (*Exponential)(nil)

// NewExponential validates cfg and returns the strategy.
func NewExponential(cfg ExponentialConfig) (*Exponential, error) {
	if err := validateConfig("exponential", cfg); err != nil {
		return nil, err
	}
	return &Exponential{cfg: cfg}, nil
}

// DefaultExponential returns 1s, 2s, 4s and then stops.
func DefaultExponential() *Exponential {
	return &Exponential{cfg: ExponentialConfig{
		BaseDelay:   DefaultBaseDelay,
		Multiplier:  DefaultMultiplier,
		MaxAttempts: DefaultMaxAttempts,
	}}
}

// Config returns the parameters the strategy was built with.
func (e *Exponential) Config() ExponentialConfig {
	return e.cfg
}

func (e *Exponential) Next(attempt int, failure Failure) Decision {
	if shouldStop(attempt, e.cfg.MaxAttempts, failure) {
		return Stop()
	}
	return After(e.delay(attempt))
}

func (e *Exponential) delay(attempt int) time.Duration {
	d := float64(e.cfg.BaseDelay) * math.Pow(e.cfg.Multiplier, float64(attempt-1))

	limit := float64(math.MaxInt64)
	if e.cfg.MaxDelay > 0 {
		limit = float64(e.cfg.MaxDelay)
	}
	if d >= limit || math.IsInf(d, 0) || math.IsNaN(d) {
		if e.cfg.MaxDelay > 0 {
			return e.cfg.MaxDelay
		}
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

func (e *Exponential) Describe() string {
	s := fmt.Sprintf("exponential backoff (base %s, multiplier %g, max attempts %d",
		e.cfg.BaseDelay, e.cfg.Multiplier, e.cfg.MaxAttempts)
	if e.cfg.MaxDelay > 0 {
		s += ", max delay " + e.cfg.MaxDelay.String()
	}
	return s + ")"
}
