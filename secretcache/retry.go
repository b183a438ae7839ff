package secretcache

import "time"

// RetryPolicy decides whether a failed fetch attempt should be retried and
// how long to wait before the next attempt.
type RetryPolicy struct {
	// MaxRetries is the number of retries permitted after the initial
	// attempt. Zero means exactly one attempt and no retries.
	MaxRetries int
	// RetryDelay is the delay before the first retry. The delay doubles for
	// each subsequent retry and is not capped or jittered.
	RetryDelay time.Duration
}

// ShouldRetry returns whether another attempt is permitted after the given
// 1-based attempt has failed.
func (p RetryPolicy) ShouldRetry(attempt int) bool {
	return attempt <= p.MaxRetries
}

// Delay returns the suspension before the attempt following the given failed
// attempt: RetryDelay * 2^(attempt-1).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	return p.RetryDelay << uint(attempt-1)
}
