// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package aigen

import (
	"errors"
	"fmt"
)

// ErrNoAIConfig is returned when Generate is called for a
// checklist-only task that has no prompt template.
var ErrNoAIConfig = errors.New("task has no AI configuration")

// QuotaState mirrors the gateway's quota-exceeded payload.
type QuotaState struct {
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Tier      string `json:"tier"`
	ResetDate string `json:"resetDate"`
}

// APIError is a non-2xx response from the generation gateway. It
// implements retry.StatusCoder so client errors short-circuit the
// retry loop.
type APIError struct {
	Status  int
	Message string
	Quota   *QuotaState
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("gateway returned %d", e.Status)
}

// StatusCode reports the HTTP status for retry classification.
func (e *APIError) StatusCode() int { return e.Status }

// UserMessage renders the error as something an end user can act on.
func (e *APIError) UserMessage() string {
	switch e.Status {
	case 401:
		return "Your session has expired. Please sign in again."
	case 429:
		if e.Quota != nil {
			return fmt.Sprintf("You've used all %d AI generations for this month. Your quota resets on %s.",
				e.Quota.Limit, e.Quota.ResetDate)
		}
		return "You've reached your monthly AI generation limit."
	case 500:
		return "The AI service is misconfigured. Please contact support."
	case 504:
		return "The request timed out. Try again with a shorter prompt."
	default:
		return "Something went wrong generating content. Please try again."
	}
}

// UpstreamResponseError is a 2xx gateway response whose body does not
// contain a usable text block.
type UpstreamResponseError struct {
	Reason string
}

func (e *UpstreamResponseError) Error() string {
	return "invalid generation response: " + e.Reason
}

// UserMessage extracts a user-actionable message from any error the
// generation client can return.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	var respErr *UpstreamResponseError
	if errors.As(err, &respErr) {
		return "The AI service returned an unexpected response. Please try again."
	}
	if errors.Is(err, ErrNoAIConfig) {
		return "This task is a checklist and has no AI generation."
	}
	return "Something went wrong generating content. Please try again."
}
