// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// TokenVerifier validates bearer tokens against the hosted identity
// service's user endpoint.
//
// A token is valid when `GET {baseURL}/auth/v1/user` with the token as
// bearer credential returns the owning user. The service API key is sent
// alongside, which is required by the identity service even for
// user-scoped lookups.
//
// Thread-safe: the underlying http.Client is safe for concurrent use.
type TokenVerifier struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// VerifierConfig configures a TokenVerifier.
type VerifierConfig struct {
	// BaseURL is the identity service origin, e.g.
	// "https://abcdefgh.supabase.co". Required.
	BaseURL string

	// ServiceKey is the server-held service key. Required.
	ServiceKey string

	// Timeout bounds a single verification call.
	// Default: 10 seconds.
	Timeout time.Duration
}

// NewTokenVerifier creates a TokenVerifier.
//
// Fails at construction time when required configuration is absent, so a
// misconfigured process refuses to start instead of failing on the first
// request.
func NewTokenVerifier(cfg VerifierConfig) (*TokenVerifier, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("identity: BaseURL is required")
	}
	if cfg.ServiceKey == "" {
		return nil, fmt.Errorf("identity: ServiceKey is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &TokenVerifier{
		baseURL:    cfg.BaseURL,
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// userResponse is the subset of the identity service's user payload we need.
type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Validate implements AuthProvider.
//
// Returns ErrUnauthorized for missing, malformed, or rejected tokens.
// Provider connectivity failures are returned as distinct errors; the
// middleware maps both to a generic 401 so callers cannot probe which
// part of auth failed.
func (v *TokenVerifier) Validate(ctx context.Context, token string) (*AuthInfo, error) {
	if token == "" {
		return nil, fmt.Errorf("missing bearer token: %w", ErrUnauthorized)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build verification request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", v.serviceKey)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity service unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("invalid or expired token: %w", ErrUnauthorized)
	default:
		return nil, fmt.Errorf("identity service returned status %d", resp.StatusCode)
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode user payload: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("no user found for token: %w", ErrUnauthorized)
	}

	return &AuthInfo{UserID: user.ID, Email: user.Email}, nil
}

var _ AuthProvider = (*TokenVerifier)(nil)
