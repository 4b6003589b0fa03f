package retry

import (
	"math"
	"math/rand/v2"
	"time"
)

// JitterMode selects how much of the wrapped wait is randomized.
type JitterMode int

const (
	// FullJitter picks a wait uniformly in [0, d].
	FullJitter JitterMode = iota
	// EqualJitter keeps half of d and randomizes the other half.
	EqualJitter
)

// Jitter randomizes the waits of another strategy. Stop decisions pass through.
type Jitter struct {
	inner Strategy
	mode  JitterMode
	// int63n returns a value in [0, n). It must be safe for concurrent use.
	int63n func(n int64) int64
}

var _ Strategy = (*Jitter)(nil)

// WithJitter wraps inner. The package-level math/rand/v2 source is used,
// which is safe for concurrent use.
func WithJitter(inner Strategy, mode JitterMode) *Jitter {
	return &Jitter{inner: inner, mode: mode, int63n: rand.Int64N}
}

func (j *Jitter) Next(attempt int, failure Failure) Decision {
	d := j.inner.Next(attempt, failure)
	if !d.Retry() || d.Wait() <= 0 {
		return d
	}

	wait := int64(d.Wait())
	switch j.mode {
	case EqualJitter:
		half := wait / 2
		return After(time.Duration(half + j.random(inclusive(wait-half))))
	default:
		return After(time.Duration(j.random(inclusive(wait))))
	}
}

// inclusive turns an upper bound into an exclusive limit without overflowing.
func inclusive(n int64) int64 {
	if n == math.MaxInt64 {
		return n
	}
	return n + 1
}

func (j *Jitter) random(n int64) int64 {
	if n <= 0 {
		return 0
	}
	return j.int63n(n)
}

func (j *Jitter) Describe() string {
	mode := "full"
	if j.mode == EqualJitter {
		mode = "equal"
	}
	return j.inner.Describe() + " with " + mode + " jitter"
}
