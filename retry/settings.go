package retry

import (
	"fmt"
	"time"
)

// Strategy kinds accepted by Build.
const (
	KindExponential = "exponential"
	KindFixed       = "fixed"
	KindNone        = "none"
)

// Jitter names accepted by Build.
const (
	JitterNone  = "none"
	JitterFull  = "full"
	JitterEqual = "equal"
)

// Settings is the flat, configuration-friendly description of a strategy.
type Settings struct {
	Kind        string        `validate:"omitempty,oneof=exponential fixed none"`
	MaxAttempts int           `validate:"gte=0"`
	BaseDelay   time.Duration `validate:"gte=0"`
	Multiplier  float64       `validate:"gte=0"`
	MaxDelay    time.Duration `validate:"gte=0"`
	Jitter      string        `validate:"omitempty,oneof=none full equal"`
}

// Build resolves settings into a Strategy. An empty kind means exponential.
// For fixed strategies BaseDelay is the constant delay.
func Build(s Settings) (Strategy, error) {
	if err := validateConfig("retry", s); err != nil {
		return nil, err
	}

	var strategy Strategy
	switch s.Kind {
	case KindNone:
		return NoRetry{}, nil
	case KindFixed:
		f, err := NewFixed(FixedConfig{Delay: s.BaseDelay, MaxAttempts: s.MaxAttempts})
		if err != nil {
			return nil, err
		}
		strategy = f
	case "", KindExponential:
		e, err := NewExponential(ExponentialConfig{
			BaseDelay:   s.BaseDelay,
			Multiplier:  s.Multiplier,
			MaxAttempts: s.MaxAttempts,
			MaxDelay:    s.MaxDelay,
		})
		if err != nil {
			return nil, err
		}
		strategy = e
	default:
		return nil, fmt.Errorf("unknown retry strategy %q", s.Kind)
	}

	switch s.Jitter {
	case JitterFull:
		return WithJitter(strategy, FullJitter), nil
	case JitterEqual:
		return WithJitter(strategy, EqualJitter), nil
	default:
		return strategy, nil
	}
}
