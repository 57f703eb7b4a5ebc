// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package taskdata persists per-task form data and saved generations
// behind a debounced store.
package taskdata

import (
	"context"
	"time"
)

// SavedItem is one piece of generated content the user chose to keep.
// Order is dense (0..N-1) within a task; the full list is replaced on
// every write.
type SavedItem struct {
	ID      string    `json:"id"`
	Content string    `json:"content"`
	Order   int       `json:"order"`
	SavedAt time.Time `json:"savedAt"`
}

// Backend is the persistence contract for task data.
//
// Field writes are last-writer-wins upserts keyed by
// (project, task, field). Saved items are replaced as a whole list
// keyed by (project, task).
type Backend interface {
	// UpsertFields writes the given fields for one task. Fields absent
	// from the map are left untouched.
	UpsertFields(ctx context.Context, projectID, taskID string, fields map[string]any) error
	// LoadFields returns all stored fields for one task. A task with no
	// stored data returns an empty map and no error.
	LoadFields(ctx context.Context, projectID, taskID string) (map[string]any, error)
	// ReplaceSavedItems overwrites the task's saved-item list.
	ReplaceSavedItems(ctx context.Context, projectID, taskID string, items []SavedItem) error
	// LoadSavedItems returns the task's saved items in stored order.
	LoadSavedItems(ctx context.Context, projectID, taskID string) ([]SavedItem, error)
}
