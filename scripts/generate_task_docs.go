// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

//go:build ignore

// generate_task_docs renders the launch checklist as a markdown reference.
//
// Usage:
//
//	go run scripts/generate_task_docs.go > docs/checklist-reference.md
//
// The generated documentation includes:
//   - Every task grouped by phase, with tier and time estimate
//   - Form fields for AI-enabled tasks
//   - Done criteria and common mistakes
package main

import (
	"fmt"
	"time"

	"github.com/dizid/shipkit/pkg/tasks"
)

func main() {
	fmt.Println("# Launch Checklist Reference")
	fmt.Printf("\n_Generated %s from the task registry. Do not edit by hand._\n", time.Now().UTC().Format("2006-01-02"))

	phase := 0
	for _, task := range tasks.All() {
		if task.Phase != phase {
			phase = task.Phase
			fmt.Printf("\n## Phase %d: %s\n", phase, task.PhaseLabel)
		}
		printTask(task)
	}
}

func printTask(task tasks.Task) {
	fmt.Printf("\n### %s — %s\n\n", task.ID, task.Title)
	fmt.Printf("- Tier: %s\n", task.Tier)
	if task.TimeEstimate != "" {
		fmt.Printf("- Time: %s\n", task.TimeEstimate)
	}
	if task.AI != nil {
		fmt.Println("- AI generation: yes")
	}
	fmt.Printf("\n%s\n", task.Description)

	if len(task.FormFields) > 0 {
		fmt.Println("\n| Field | Type | Required |")
		fmt.Println("|-------|------|----------|")
		for _, f := range task.FormFields {
			req := ""
			if f.Required {
				req = "yes"
			}
			fmt.Printf("| %s | %s | %s |\n", f.ID, f.Type, req)
		}
	}

	if len(task.DoneCriteria) > 0 {
		fmt.Println("\nDone when:")
		for _, c := range task.DoneCriteria {
			fmt.Printf("- %s\n", c)
		}
	}
	if len(task.CommonMistakes) > 0 {
		fmt.Println("\nCommon mistakes:")
		for _, m := range task.CommonMistakes {
			fmt.Printf("- %s\n", m)
		}
	}
}
