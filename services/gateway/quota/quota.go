// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package quota enforces per-tier monthly generation limits.
package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dizid/shipkit/pkg/logging"
	"github.com/dizid/shipkit/pkg/tasks"
	"github.com/dizid/shipkit/services/gateway/usage"
)

// TierLimits is the monthly generation allowance per tier.
var TierLimits = map[tasks.Tier]int{
	tasks.TierFree:     40,
	tasks.TierLauncher: 400,
	tasks.TierPro:      400,
}

// LimitFor returns the monthly limit for a tier. Unknown tiers get the
// free limit.
func LimitFor(tier tasks.Tier) int {
	if limit, ok := TierLimits[tier]; ok {
		return limit
	}
	return TierLimits[tasks.TierFree]
}

// Status is a user's quota position within the current calendar month.
type Status struct {
	Used      int
	Limit     int
	Tier      tasks.Tier
	ResetDate string
}

// Remaining reports how many generations are left this month.
func (s *Status) Remaining() int {
	if s.Used >= s.Limit {
		return 0
	}
	return s.Limit - s.Used
}

// ExceededError means the user is at or over their monthly limit.
type ExceededError struct {
	Status Status
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("monthly limit reached: %d/%d (%s tier)",
		e.Status.Used, e.Status.Limit, e.Status.Tier)
}

// Checker answers "may this user generate right now".
//
// # Description
// The quota is soft. A tier lookup failure falls back to free tier; a
// usage count failure lets the request through. Blocking a paying user
// because the accounting store hiccuped is the worse failure mode, and
// the window resets monthly anyway. The read-then-insert race between
// concurrent requests is accepted for the same reason.
//
// # Thread Safety
// Safe for concurrent use.
type Checker struct {
	counter usage.Counter
	subs    usage.SubscriptionStore
	logger  *logging.Logger
	now     func() time.Time
}

// NewChecker wires the checker. counter and subs are required.
func NewChecker(counter usage.Counter, subs usage.SubscriptionStore, logger *logging.Logger) (*Checker, error) {
	if counter == nil {
		return nil, errors.New("quota: counter is required")
	}
	if subs == nil {
		return nil, errors.New("quota: subscription store is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Checker{counter: counter, subs: subs, logger: logger, now: time.Now}, nil
}

// WithClock overrides the time source. Tests only.
func (c *Checker) WithClock(now func() time.Time) *Checker {
	c.now = now
	return c
}

// Check returns the user's quota status, or *ExceededError when the
// limit is reached. Any other returned state means the request may
// proceed.
func (c *Checker) Check(ctx context.Context, userID string) (*Status, error) {
	tier, err := c.subs.TierFor(ctx, userID)
	if err != nil {
		c.logger.Warn("tier lookup failed, treating user as free tier",
			"user_id", userID, "error", err)
		tier = tasks.TierFree
	}

	start, resetDate := usage.MonthWindow(c.now())
	status := &Status{
		Limit:     LimitFor(tier),
		Tier:      tier,
		ResetDate: resetDate,
	}

	used, err := c.counter.CountSince(ctx, userID, start)
	if err != nil {
		// Fail open: an accounting outage must not block generations.
		c.logger.Error("usage count failed, allowing request",
			"user_id", userID, "error", err)
		return status, nil
	}
	status.Used = used

	if used >= status.Limit {
		return status, &ExceededError{Status: *status}
	}
	return status, nil
}
