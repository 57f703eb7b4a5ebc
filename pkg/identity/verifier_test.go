// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenVerifier_RequiredConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  VerifierConfig
	}{
		{"missing base URL", VerifierConfig{ServiceKey: "sk"}},
		{"missing service key", VerifierConfig{BaseURL: "https://id.example.com"}},
		{"both missing", VerifierConfig{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenVerifier(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestTokenVerifier_Validate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "Bearer good-token", r.Header.Get("Authorization"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"user-123","email":"dev@example.com"}`))
	}))
	defer srv.Close()

	verifier, err := NewTokenVerifier(VerifierConfig{BaseURL: srv.URL, ServiceKey: "service-key"})
	require.NoError(t, err)

	info, err := verifier.Validate(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "user-123", info.UserID)
	assert.Equal(t, "dev@example.com", info.Email)
}

func TestTokenVerifier_Validate_EmptyToken(t *testing.T) {
	verifier, err := NewTokenVerifier(VerifierConfig{BaseURL: "https://id.example.com", ServiceKey: "sk"})
	require.NoError(t, err)

	_, err = verifier.Validate(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenVerifier_Validate_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		wantUn bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{"msg":"bad token"}`, true},
		{"forbidden", http.StatusForbidden, `{}`, true},
		{"server error", http.StatusInternalServerError, `{}`, false},
		{"user missing id", http.StatusOK, `{"email":"x@y.z"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			verifier, err := NewTokenVerifier(VerifierConfig{BaseURL: srv.URL, ServiceKey: "sk"})
			require.NoError(t, err)

			_, err = verifier.Validate(context.Background(), "some-token")
			require.Error(t, err)
			if tt.wantUn {
				assert.ErrorIs(t, err, ErrUnauthorized)
			}
		})
	}
}

func TestNopAuthProvider_Validate(t *testing.T) {
	provider := &NopAuthProvider{}

	info, err := provider.Validate(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "local-user", info.UserID)

	info2, err := provider.Validate(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, info.UserID, info2.UserID)
}
