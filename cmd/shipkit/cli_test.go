// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dizid/shipkit/pkg/tasks"
)

func TestParseFieldFlags(t *testing.T) {
	task, ok := tasks.ByID("phase1-2")
	require.True(t, ok)

	got, err := parseFieldFlags(task, []string{
		"target_audience=indie hackers",
		"channels=twitter, reddit,product hunt",
	})
	require.NoError(t, err)

	assert.Equal(t, "indie hackers", got["target_audience"])
	assert.Equal(t, []string{"twitter", "reddit", "product hunt"}, got["channels"])
}

func TestParseFieldFlags_Errors(t *testing.T) {
	task, ok := tasks.ByID("phase1-1")
	require.True(t, ok)

	_, err := parseFieldFlags(task, []string{"no-equals-sign"})
	assert.Error(t, err)

	_, err = parseFieldFlags(task, []string{"bogus_field=x"})
	assert.ErrorContains(t, err, "no field")
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.GatewayURL)
	assert.Equal(t, "default", cfg.Project)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "tasks", "generate", "usage"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}
