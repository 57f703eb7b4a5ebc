// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package identity defines the authentication boundary for LaunchPilot
// services.
//
// The gateway never trusts a client-supplied user id. Every request's
// identity is resolved from its bearer credential through an AuthProvider,
// and the resolved id is the only one used for quota buckets and usage
// accounting.
//
// # Implementations
//
//   - TokenVerifier: validates tokens against the hosted identity service's
//     user endpoint (the production path).
//   - NopAuthProvider: accepts any token as a fixed local user, for
//     development and tests.
package identity

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned when authentication fails.
// Implementations should wrap this error with additional context:
//
//	if !validToken {
//	    return nil, fmt.Errorf("token expired: %w", identity.ErrUnauthorized)
//	}
var ErrUnauthorized = errors.New("unauthorized")

// AuthInfo contains identity information returned after successful
// authentication.
//
// Required fields (always populated):
//   - UserID: Unique identifier for the user
//
// Optional fields (may be empty):
//   - Email: User's email address
//   - Metadata: Arbitrary claims carried by the identity provider
type AuthInfo struct {
	// UserID uniquely identifies the user. Never empty on success.
	UserID string

	// Email is the user's email address, if the provider exposes it.
	Email string

	// Metadata holds additional provider-specific claims.
	Metadata map[string]any
}

// AuthProvider validates authentication tokens and returns user identity.
//
// Implementations must be safe for concurrent use by multiple goroutines.
//
// Error contract: return ErrUnauthorized (or a wrap of it) for invalid,
// expired, or missing credentials; any other error is treated by callers
// as a provider failure, which is still an authentication failure from
// the client's point of view.
type AuthProvider interface {
	// Validate checks if the token is valid and returns the user's identity.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - token: The bearer credential from the Authorization header
	//
	// Returns:
	//   - *AuthInfo: User identity information if valid
	//   - error: ErrUnauthorized (or wrapped) if invalid
	Validate(ctx context.Context, token string) (*AuthInfo, error)
}

// NopAuthProvider is the development authentication provider.
//
// It always returns a valid local user, enabling the gateway and CLI to
// function without identity infrastructure. Never use in production:
// every caller shares one quota bucket.
//
// Thread-safe: this implementation has no mutable state.
type NopAuthProvider struct{}

// Validate always returns a valid local user.
//
// The token parameter is ignored. Any value, including the empty
// string, results in successful authentication.
func (p *NopAuthProvider) Validate(_ context.Context, _ string) (*AuthInfo, error) {
	return &AuthInfo{
		UserID: "local-user",
		Email:  "",
	}, nil
}

// Compile-time interface compliance check.
var _ AuthProvider = (*NopAuthProvider)(nil)
