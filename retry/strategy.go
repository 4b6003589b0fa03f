// Package retry decides whether and when a failed request attempt is sent again.
//
// A Strategy is a pure decision function: given the 1-based index of the
// attempt that just failed and a classification of the failure, it returns
// either Stop or a wait duration. Strategies never sleep or perform I/O; the
// executor enacts the decision. All strategies in this package are stateless
// and safe to share between goroutines.
package retry

import (
	"fmt"
	"time"
)

// Failure classifies why an attempt failed.
type Failure int

const (
	FailureUnknown Failure = iota
	FailureNetwork
	FailureTimeout
	FailureServer
	FailureThrottled
	FailureClient
	FailureBuild
)

var failureNames = map[Failure]string{
	FailureUnknown:   "unknown",
	FailureNetwork:   "network",
	FailureTimeout:   "timeout",
	FailureServer:    "server",
	FailureThrottled: "throttled",
	FailureClient:    "client",
	FailureBuild:     "build",
}

func (f Failure) String() string {
	if name, ok := failureNames[f]; ok {
		return name
	}
	return fmt.Sprintf("failure(%d)", int(f))
}

// Retryable reports whether a failure of this kind is transient.
// Client errors and build failures are caller defects and never retried.
func (f Failure) Retryable() bool {
	switch f {
	case FailureClient, FailureBuild:
		return false
	default:
		return true
	}
}

// Decision is the outcome of consulting a Strategy.
type Decision struct {
	retry bool
	wait  time.Duration
}

// Stop ends the attempt sequence.
func Stop() Decision {
	return Decision{}
}

// After schedules another attempt once d has elapsed. Negative waits are clamped to zero.
func After(d time.Duration) Decision {
	if d < 0 {
		d = 0
	}
	return Decision{retry: true, wait: d}
}

// Retry reports whether another attempt should be made.
func (d Decision) Retry() bool { return d.retry }

// Wait is the suggested delay before the next attempt. Zero when stopping.
func (d Decision) Wait() time.Duration { return d.wait }

func (d Decision) String() string {
	if !d.retry {
		return "stop"
	}
	return "retry after " + d.wait.String()
}

// Strategy decides what happens after a failed attempt.
type Strategy interface {
	// Next is called with the index of the attempt that just failed, starting at 1.
	Next(attempt int, failure Failure) Decision
	// Describe returns a short human-readable summary for logs.
	Describe() string
}

// Func adapts a plain function to Strategy.
type Func func(attempt int, failure Failure) Decision

func (f Func) Next(attempt int, failure Failure) Decision { return f(attempt, failure) }

func (f Func) Describe() string { return "custom" }

// NoRetry never retries.
type NoRetry struct{}

func (NoRetry) Next(int, Failure) Decision { return Stop() }

func (NoRetry) Describe() string { return "no retry" }

// shouldStop holds the checks every bounded strategy shares.
func shouldStop(attempt, maxAttempts int, failure Failure) bool {
	return attempt < 1 || attempt > maxAttempts || !failure.Retryable()
}
