// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes defines the gateway's request and response shapes.
package datatypes

// Generation parameter bounds. Out-of-range values are clamped rather
// than rejected; a slightly wrong slider in a client should not cost
// the user their request.
const (
	DefaultTemperature = 0.7
	MinTemperature     = 0.0
	MaxTemperature     = 1.0

	DefaultMaxTokens = 1500
	MinMaxTokens     = 1
	MaxMaxTokens     = 4096
)

// Message is one turn of the conversation sent upstream.
type Message struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

// GenerateRequest is the body of POST /v1/generate.
//
// Any userId field a client includes is deliberately absent here:
// accounting always uses the verified identity from the bearer token,
// never a client-supplied one.
type GenerateRequest struct {
	TaskID      string    `json:"taskId"`
	Messages    []Message `json:"messages" binding:"required,min=1,dive"`
	Temperature *float64  `json:"temperature"`
	MaxTokens   *int      `json:"max_tokens"`
}

// ClampedTemperature returns the request temperature forced into
// [MinTemperature, MaxTemperature], or DefaultTemperature when unset.
func (r *GenerateRequest) ClampedTemperature() float64 {
	if r.Temperature == nil {
		return DefaultTemperature
	}
	t := *r.Temperature
	if t < MinTemperature {
		return MinTemperature
	}
	if t > MaxTemperature {
		return MaxTemperature
	}
	return t
}

// ClampedMaxTokens returns the request max_tokens forced into
// [MinMaxTokens, MaxMaxTokens], or DefaultMaxTokens when unset.
func (r *GenerateRequest) ClampedMaxTokens() int {
	if r.MaxTokens == nil {
		return DefaultMaxTokens
	}
	n := *r.MaxTokens
	if n < MinMaxTokens {
		return MinMaxTokens
	}
	if n > MaxMaxTokens {
		return MaxMaxTokens
	}
	return n
}

// ErrorResponse is the uniform error body for non-2xx responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// QuotaState is the quota block nested inside the 429 body. ResetDate
// is the first day of the next calendar month in YYYY-MM-DD.
type QuotaState struct {
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Tier      string `json:"tier"`
	ResetDate string `json:"resetDate"`
}

// QuotaExceededResponse is the 429 body.
type QuotaExceededResponse struct {
	Error string     `json:"error"`
	Quota QuotaState `json:"quota"`
}

// UsageResponse is the body of GET /v1/usage.
type UsageResponse struct {
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Tier      string `json:"tier"`
	ResetDate string `json:"resetDate"`
}
