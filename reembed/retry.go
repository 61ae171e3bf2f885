// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"
	"log/slog"
	"time"
)

// Policy describes how a failing operation is retried. It is passed
// explicitly to the components that need retries rather than wrapping
// calls implicitly.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Must be > 0.
	MaxAttempts int

	// BaseDelay is the delay before the second attempt. Each subsequent
	// delay is multiplied by Multiplier.
	BaseDelay time.Duration

	// MaxDelay caps the delay between attempts. Zero means no cap.
	MaxDelay time.Duration

	// Multiplier scales the delay after each failed attempt. Values
	// below 1 are treated as 2.
	Multiplier float64

	// Retryable reports whether an error is worth retrying. A nil
	// predicate retries every error.
	Retryable func(error) bool
}

// DefaultPolicy returns the retry policy used when a caller does not
// configure one.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  2,
	}
}

// Do runs the operation, retrying with exponential backoff according to
// the policy. It returns nil on the first success, the error from the
// last attempt once attempts are exhausted, the first non-retryable
// error immediately, or the context error if ctx is done.
func (p Policy) Do(ctx context.Context, operation func() error) error {
	if p.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 2
	}

	delay := p.BaseDelay
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		// Check context before attempting
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}

		slog.Debug("operation failed, will retry", "attempt", attempt, "maxAttempts", p.MaxAttempts, "error", lastErr)

		// Don't sleep after the last attempt
		if attempt == p.MaxAttempts {
			break
		}

		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * multiplier)
	}

	return lastErr
}
