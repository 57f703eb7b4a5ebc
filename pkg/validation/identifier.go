// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation utilities for values that
// end up inside storage key paths.
//
// Project, task, and field identifiers are concatenated into Badger keys
// with "/" separators. Validating them here keeps a hostile identifier
// from colliding with or shadowing another record's key space.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// identifierPattern matches valid storage identifiers.
// Allows: lowercase letters, digits, hyphens, underscores.
// Max length: 64 characters.
var identifierPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_\-]{0,63}$`)

// ValidateIdentifier validates a single key-path segment.
//
// Valid identifiers:
//   - 1-64 characters
//   - lowercase letters a-z and digits 0-9
//   - hyphens (-) and underscores (_) after the first character
//
// In particular "/" and ".." can never appear, so an identifier is safe
// to splice into a key path.
func ValidateIdentifier(id string) error {
	if id == "" {
		return fmt.Errorf("identifier cannot be empty")
	}
	if !identifierPattern.MatchString(id) {
		return fmt.Errorf("invalid identifier %q (must be 1-64 lowercase alphanumeric chars, hyphens, or underscores)", id)
	}
	return nil
}

// ValidateIdentifiers validates multiple identifiers.
// Returns an error listing all invalid ones if any fail validation.
func ValidateIdentifiers(ids []string) error {
	var invalid []string
	for _, id := range ids {
		if err := ValidateIdentifier(id); err != nil {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("invalid identifiers: %v", invalid)
	}
	return nil
}

// SanitizeIdentifier normalizes and validates an identifier.
// Returns the lowercase identifier if valid, or an error if invalid.
func SanitizeIdentifier(id string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(id))
	if err := ValidateIdentifier(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}
