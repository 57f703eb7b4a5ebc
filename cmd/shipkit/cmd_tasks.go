// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/dizid/shipkit/pkg/tasks"
)

var (
	tasksPhase int

	tasksCmd = &cobra.Command{
		Use:   "tasks",
		Short: "List launch checklist tasks",
		Run:   runTasks,
	}

	taskShowCmd = &cobra.Command{
		Use:   "show [task-id]",
		Short: "Show one task in full: steps, form fields, templates",
		Args:  cobra.ExactArgs(1),
		Run:   runTaskShow,
	}
)

func init() {
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.Flags().IntVar(&tasksPhase, "phase", 0, "Only list tasks in this phase (1-4)")
	tasksCmd.AddCommand(taskShowCmd)
}

func runTasks(cmd *cobra.Command, args []string) {
	list := tasks.All()
	if tasksPhase > 0 {
		list = tasks.ByPhase(tasksPhase)
	}
	if len(list) == 0 {
		fmt.Println("No tasks found.")
		return
	}

	phase := 0
	for _, task := range list {
		if task.Phase != phase {
			phase = task.Phase
			fmt.Printf("\nPhase %d\n", phase)
		}
		marker := "  "
		if task.AI != nil {
			marker = "ai"
		}
		fmt.Printf("  [%s] %-10s %-35s (%s)\n", marker, task.ID, task.Title, task.Tier)
	}
}

func runTaskShow(cmd *cobra.Command, args []string) {
	task, ok := tasks.ByID(args[0])
	if !ok {
		log.Fatalf("Unknown task %q. Run 'shipkit tasks' to list them.", args[0])
	}

	fmt.Printf("%s: %s (phase %d, %s tier)\n\n", task.ID, task.Title, task.Phase, task.Tier)
	fmt.Println(task.Description)

	if len(task.Steps) > 0 {
		fmt.Println("\nSteps:")
		for i, step := range task.Steps {
			fmt.Printf("  %d. %s\n", i+1, step.Title)
			for _, sub := range step.Subtasks {
				fmt.Printf("     - %s\n", sub.Title)
			}
		}
	}

	if task.AI != nil {
		fmt.Println("\nForm fields for generation:")
		for _, f := range task.FormFields {
			req := ""
			if f.Required {
				req = " (required)"
			}
			fmt.Printf("  %-20s %s%s\n", f.ID, f.Type, req)
		}
		fmt.Printf("\nGenerate with: shipkit generate %s --field key=value ...\n", task.ID)
	} else {
		fmt.Println("\nChecklist-only task; no AI generation.")
	}
}
