// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/spf13/cobra"

	"github.com/dizid/shipkit/pkg/aigen"
	"github.com/dizid/shipkit/pkg/storage/badgerdb"
	"github.com/dizid/shipkit/pkg/taskdata"
	"github.com/dizid/shipkit/pkg/tasks"
	"github.com/dizid/shipkit/pkg/ux"
)

var (
	generateFields []string
	generateSave   bool

	generateCmd = &cobra.Command{
		Use:   "generate [task-id]",
		Short: "Generate AI content for a checklist task",
		Long: `Fills the task's prompt from saved form data plus any --field
overrides, sends it through the gateway, and prints the result. Form
values given here are persisted for next time.`,
		Args: cobra.ExactArgs(1),
		Run:  runGenerate,
	}
)

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringArrayVar(&generateFields, "field", nil,
		"Form field as key=value; repeat per field. Comma-separate checkbox values.")
	generateCmd.Flags().BoolVar(&generateSave, "save", false,
		"Save the generated content as a saved item on the task")
}

func runGenerate(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	task, ok := tasks.ByID(args[0])
	if !ok {
		log.Fatalf("Unknown task %q. Run 'shipkit tasks' to list them.", args[0])
	}
	if task.AI == nil {
		log.Fatalf("Task %q is checklist-only and has no AI generation.", task.ID)
	}

	store, db := openStore(cfg)
	defer db.Close()
	defer store.Close()

	ctx := context.Background()

	fields, _, err := store.Load(ctx, task.ID)
	if err != nil {
		log.Fatalf("Error loading saved form data: %v", err)
	}

	overrides, err := parseFieldFlags(task, generateFields)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	for k, v := range overrides {
		fields[k] = v
		store.UpdateField(task.ID, k, v)
	}

	for _, f := range task.FormFields {
		if !f.Required {
			continue
		}
		if v, ok := fields[f.ID]; !ok || v == "" || v == nil {
			log.Fatalf("Missing required field %q. Pass it with --field %s=...", f.ID, f.ID)
		}
	}

	client, err := aigen.NewClient(aigen.Config{
		BaseURL: cfg.GatewayURL,
		Token:   func() string { return cfg.Token },
	})
	if err != nil {
		log.Fatalf("Error creating gateway client: %v", err)
	}

	start := time.Now()
	var result *aigen.Result
	err = ux.WithSpinner(fmt.Sprintf("Generating %q ...", task.Title), func() error {
		var genErr error
		result, genErr = client.Generate(ctx, task, fields, projectContext(ctx, store))
		return genErr
	})
	if err != nil {
		log.Fatalf("%s", aigen.UserMessage(err))
	}

	printResult(result)
	fmt.Printf("\n(%s, %d in / %d out tokens)\n",
		time.Since(start).Round(time.Millisecond), result.InputTokens, result.OutputTokens)

	if generateSave {
		store.AddSavedItem(task.ID, result.Raw)
		fmt.Println("Saved to task.")
	}

	if err := store.SaveNow(ctx); err != nil {
		log.Printf("Warning: could not persist form data: %v", err)
	}
}

// openStore opens the local task-data store for the configured project.
func openStore(cfg Config) (*taskdata.Store, *badger.DB) {
	storageCfg := badgerdb.DefaultConfig()
	storageCfg.Path = cfg.DataDir
	db, err := badgerdb.Open(storageCfg)
	if err != nil {
		log.Fatalf("Error opening data directory %s: %v", cfg.DataDir, err)
	}

	backend, err := taskdata.NewBadgerBackend(db)
	if err != nil {
		log.Fatalf("Error creating task data backend: %v", err)
	}
	store, err := taskdata.NewStore(taskdata.Config{
		Backend:   backend,
		ProjectID: cfg.Project,
	})
	if err != nil {
		log.Fatalf("Error creating task data store: %v", err)
	}
	return store, db
}

// parseFieldFlags turns repeated key=value flags into form data, using
// the task's field types to decide which values are lists.
func parseFieldFlags(task tasks.Task, raw []string) (map[string]any, error) {
	fieldTypes := make(map[string]tasks.FieldType, len(task.FormFields))
	for _, f := range task.FormFields {
		fieldTypes[f.ID] = f.Type
	}

	out := make(map[string]any, len(raw))
	for _, kv := range raw {
		key, value, found := strings.Cut(kv, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --field %q, expected key=value", kv)
		}
		if _, known := fieldTypes[key]; !known {
			return nil, fmt.Errorf("task %s has no field %q", task.ID, key)
		}
		if fieldTypes[key] == tasks.FieldCheckboxes {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			out[key] = parts
		} else {
			out[key] = value
		}
	}
	return out, nil
}

// projectContext pulls the product basics captured in the first task so
// later prompts can reference them without re-entry.
func projectContext(ctx context.Context, store *taskdata.Store) map[string]string {
	fields, _, err := store.Load(ctx, "phase1-1")
	if err != nil {
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func printResult(result *aigen.Result) {
	if posts, ok := result.Parsed.([]string); ok {
		for i, post := range posts {
			fmt.Printf("--- post %d ---\n%s\n\n", i+1, post)
		}
		return
	}
	fmt.Println(result.Raw)
}
