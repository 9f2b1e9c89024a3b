// Package resilience provides retry with exponential backoff for the
// read-only query clients.
package resilience

import (
	"time"
)

// FromRetryConfig converts config values to a RetryConfig. Zero values
// fall back to defaults; statuses replaces the retryable set wholesale.
func FromRetryConfig(maxAttempts, initialBackoffMs, maxBackoffMs int, multiplier, jitterFraction float64, statuses []int) RetryConfig {
	cfg := DefaultRetryConfig()
	if maxAttempts > 0 {
		cfg.MaxAttempts = maxAttempts
	}
	if initialBackoffMs > 0 {
		cfg.InitialBackoff = time.Duration(initialBackoffMs) * time.Millisecond
	}
	if maxBackoffMs > 0 {
		cfg.MaxBackoff = time.Duration(maxBackoffMs) * time.Millisecond
	}
	if multiplier > 0 {
		cfg.Multiplier = multiplier
	}
	if jitterFraction >= 0 {
		cfg.JitterFraction = jitterFraction
	}
	if len(statuses) > 0 {
		cfg.RetryableStatuses = append([]int(nil), statuses...)
	}
	return cfg
}
