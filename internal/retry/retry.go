// Package retry implements the provider clients' retry/backoff policy.
package retry

import (
	"context"
	"net"
	"strings"
	"syscall"
	"time"
)

// Policy controls how Do retries a failing operation.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Backoff is the delay before attempt n+1; the delay grows linearly
	// (attempt * Backoff).
	Backoff time.Duration
	// Retryable decides whether an error is worth retrying. Nil means
	// IsRetryable.
	Retryable func(error) bool
}

// DefaultPolicy matches the providers' historical behavior: three
// attempts with linear 1s backoff on network-level failures.
var DefaultPolicy = Policy{
	MaxAttempts: 3,
	Backoff:     time.Second,
}

// Do runs fn until it succeeds, exhausts the policy's attempts, fails
// with a non-retryable error, or ctx is done. It returns the last error.
func Do(ctx context.Context, p Policy, fn func() error) error {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultPolicy.MaxAttempts
	}
	if p.Backoff <= 0 {
		p.Backoff = DefaultPolicy.Backoff
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}

	var err error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * p.Backoff
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		if err = fn(); err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
	}
	return err
}

// IsRetryable reports whether an error is worth retrying
// (network-related and transient).
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return true
	}

	if opErr, ok := err.(*net.OpError); ok {
		if errno, ok := opErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT:
				return true
			}
		}
	}

	// Common network error strings from wrapped transport errors
	errStr := strings.ToLower(err.Error())
	networkErrors := []string{
		"connection reset by peer",
		"connection refused",
		"timeout",
		"temporary failure",
		"network is unreachable",
		"i/o timeout",
	}
	for _, s := range networkErrors {
		if strings.Contains(errStr, s) {
			return true
		}
	}

	return false
}
