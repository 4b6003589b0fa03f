package retry

import (
	"fmt"
	"time"
)

// FixedConfig parameterizes Fixed.
type FixedConfig struct {
	Delay       time.Duration `validate:"gte=0"`
	MaxAttempts int           `validate:"gte=0"`
}

// Fixed waits the same delay after every failed attempt.
type Fixed struct {
	cfg FixedConfig
}

var _ Strategy = (*Fixed)(nil)

// NewFixed validates cfg and returns the strategy.
func NewFixed(cfg FixedConfig) (*Fixed, error) {
	if err := validateConfig("fixed", cfg); err != nil {
		return nil, err
	}
	return &Fixed{cfg: cfg}, nil
}

func (f *Fixed) Next(attempt int, failure Failure) Decision {
	if shouldStop(attempt, f.cfg.MaxAttempts, failure) {
		return Stop()
	}
	return After(f.cfg.Delay)
}

func (f *Fixed) Describe() string {
	return fmt.Sprintf("fixed delay (%s, max attempts %d)", f.cfg.Delay, f.cfg.MaxAttempts)
}
