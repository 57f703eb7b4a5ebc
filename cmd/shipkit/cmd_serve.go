// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/dizid/shipkit/services/gateway"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the generation gateway",
	Long: `Starts the HTTP gateway that fronts Anthropic: authentication,
monthly quota enforcement, and usage accounting. Configured through
environment variables (ANTHROPIC_API_KEY, GATEWAY_PORT, GATEWAY_DATA_DIR,
IDENTITY_BASE_URL, ...).`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := gateway.ConfigFromEnv()

	srv, err := gateway.New(cfg)
	if err != nil {
		log.Fatalf("Error starting gateway: %v", err)
	}
	defer srv.Close()

	if err := srv.Run(); err != nil {
		log.Fatalf("Gateway exited: %v", err)
	}
}
