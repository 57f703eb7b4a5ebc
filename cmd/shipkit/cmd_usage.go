// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show this month's AI generation usage",
	Run:   runUsage,
}

func init() {
	rootCmd.AddCommand(usageCmd)
}

type usagePayload struct {
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Tier      string `json:"tier"`
	ResetDate string `json:"resetDate"`
}

func runUsage(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	url := strings.TrimRight(cfg.GatewayURL, "/") + "/v1/usage"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Fatalf("Error building request: %v", err)
	}
	if cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("Could not reach the gateway at %s: %v", cfg.GatewayURL, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<16))
	if err != nil {
		log.Fatalf("Error reading response: %v", err)
	}
	if res.StatusCode == http.StatusUnauthorized {
		log.Fatalf("The gateway rejected your token. Set token in shipkit.yaml or SHIPKIT_TOKEN.")
	}
	if res.StatusCode != http.StatusOK {
		log.Fatalf("Gateway returned %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload usagePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Fatalf("Unexpected response from gateway: %v", err)
	}

	fmt.Printf("Tier:       %s\n", payload.Tier)
	fmt.Printf("Used:       %d / %d generations\n", payload.Used, payload.Limit)
	fmt.Printf("Remaining:  %d\n", payload.Remaining)
	fmt.Printf("Resets on:  %s\n", payload.ResetDate)
}
