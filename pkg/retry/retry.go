// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package retry provides exponential-backoff retry for fallible
// operations, while never retrying failures that retrying cannot fix.
//
// Two classes of failure are terminal and re-raised immediately:
//
//   - context cancellation or deadline expiry (the caller gave up;
//     retrying into a second hung request helps nobody)
//   - errors carrying an HTTP status in [400,500) (client errors are
//     never helped by retrying)
//
// Everything else (timeouts surfaced as 5xx, connection failures,
// malformed upstream payloads) is retried with exponential doubling
// backoff until attempts are exhausted, at which point the last error
// is returned unchanged so status-code branching in the caller still
// works after passing through the wrapper.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultMaxRetries is the number of extra attempts after the first.
const DefaultMaxRetries = 3

// DefaultBaseBackoff is the delay before the first retry; it doubles
// on each subsequent retry.
const DefaultBaseBackoff = 1000 * time.Millisecond

// StatusCoder is implemented by errors that carry an HTTP status.
//
// WithRetry uses it (via errors.As) to recognize terminal 4xx-class
// failures anywhere in a wrapped error chain.
type StatusCoder interface {
	error
	StatusCode() int
}

// Options configures a WithRetry call.
//
// The zero value is NOT usable; use DefaultOptions() or set both fields.
type Options struct {
	// MaxRetries is the number of retries after the initial attempt,
	// so an operation runs at most MaxRetries+1 times.
	MaxRetries int

	// BaseBackoff is the delay before the first retry. Each further
	// retry waits BaseBackoff * 2^attempt.
	BaseBackoff time.Duration
}

// DefaultOptions returns the retry policy used by the generation client:
// 3 retries with a 1-second base backoff (1s, 2s, 4s).
func DefaultOptions() Options {
	return Options{
		MaxRetries:  DefaultMaxRetries,
		BaseBackoff: DefaultBaseBackoff,
	}
}

// Operation is a fallible unit of work.
type Operation[T any] func(ctx context.Context) (T, error)

// WithRetry runs op with exponential backoff.
//
// The operation runs up to opts.MaxRetries+1 times. Failures are
// re-raised immediately, without retry, when the error is a context
// cancellation/deadline or carries an HTTP status in [400,500).
// Otherwise WithRetry sleeps opts.BaseBackoff * 2^attempt and tries
// again; when attempts are exhausted the last error is returned as-is.
//
// The backoff sleep itself is interruptible: if ctx is cancelled while
// waiting, the last operation error is wrapped with the context error
// and returned.
func WithRetry[T any](ctx context.Context, op Operation[T], opts Options) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !Retryable(err) {
			return zero, err
		}
		if attempt >= opts.MaxRetries {
			return zero, err
		}

		delay := opts.BaseBackoff << attempt
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("%w: last attempt failed: %w", ctx.Err(), lastErr)
		case <-timer.C:
		}
	}

	return zero, lastErr
}

// Retryable reports whether a failure might be fixed by retrying.
//
// Cancellation, deadline expiry, and 4xx-class HTTP errors are terminal;
// everything else is considered transient.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		status := sc.StatusCode()
		if status >= 400 && status < 500 {
			return false
		}
	}
	return true
}
