// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the CLI-side settings. Everything here has a working
// default so a fresh checkout runs against a local gateway without a
// config file.
type Config struct {
	// GatewayURL is the base URL of the generation gateway.
	GatewayURL string `mapstructure:"gateway_url"`

	// Token is the bearer token sent to the gateway. Empty means
	// anonymous, which the gateway's development auth provider accepts.
	Token string `mapstructure:"token"`

	// DataDir is where per-project task data (form fields, saved
	// items) lives on disk.
	DataDir string `mapstructure:"data_dir"`

	// Project names the checklist project the CLI operates on.
	Project string `mapstructure:"project"`
}

// loadConfig reads shipkit.yaml from the working directory or
// ~/.shipkit/, then lets SHIPKIT_* environment variables override it.
// A missing config file is not an error.
func loadConfig() (Config, error) {
	v := viper.New()
	v.SetConfigName("shipkit")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".shipkit"))
	}

	v.SetEnvPrefix("shipkit")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("gateway_url", "http://localhost:8080")
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("project", "default")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading shipkit.yaml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing shipkit.yaml: %w", err)
	}
	return cfg, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shipkit-data"
	}
	return filepath.Join(home, ".shipkit", "data")
}
