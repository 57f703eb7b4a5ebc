// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package taskdata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dizid/shipkit/pkg/storage/badgerdb"
)

func newBadgerBackend(t *testing.T) *BadgerBackend {
	t.Helper()
	db, err := badgerdb.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	backend, err := NewBadgerBackend(db)
	require.NoError(t, err)
	return backend
}

func TestNewBadgerBackend_RequiresHandle(t *testing.T) {
	_, err := NewBadgerBackend(nil)
	assert.Error(t, err)
}

func TestBadgerBackend_FieldRoundTrip(t *testing.T) {
	backend := newBadgerBackend(t)
	ctx := context.Background()

	err := backend.UpsertFields(ctx, "proj-1", "phase1-1", map[string]any{
		"app_name": "ShipKit",
		"channels": []string{"twitter", "reddit"},
	})
	require.NoError(t, err)

	fields, err := backend.LoadFields(ctx, "proj-1", "phase1-1")
	require.NoError(t, err)
	assert.Equal(t, "ShipKit", fields["app_name"])
	// JSON round trip turns []string into []any.
	assert.Equal(t, []any{"twitter", "reddit"}, fields["channels"])
}

func TestBadgerBackend_UpsertIsFieldLevel(t *testing.T) {
	backend := newBadgerBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.UpsertFields(ctx, "proj-1", "phase1-1", map[string]any{
		"app_name": "ShipKit", "target_audience": "indie devs",
	}))
	// Second upsert touches one field; the other must survive.
	require.NoError(t, backend.UpsertFields(ctx, "proj-1", "phase1-1", map[string]any{
		"app_name": "ShipKit v2",
	}))

	fields, err := backend.LoadFields(ctx, "proj-1", "phase1-1")
	require.NoError(t, err)
	assert.Equal(t, "ShipKit v2", fields["app_name"])
	assert.Equal(t, "indie devs", fields["target_audience"])
}

func TestBadgerBackend_TaskIsolation(t *testing.T) {
	backend := newBadgerBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.UpsertFields(ctx, "proj-1", "phase1-1", map[string]any{"a": "1"}))
	require.NoError(t, backend.UpsertFields(ctx, "proj-1", "phase1-2", map[string]any{"b": "2"}))
	require.NoError(t, backend.UpsertFields(ctx, "proj-2", "phase1-1", map[string]any{"c": "3"}))

	fields, err := backend.LoadFields(ctx, "proj-1", "phase1-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "1"}, fields)

	empty, err := backend.LoadFields(ctx, "proj-3", "phase1-1")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestBadgerBackend_SavedItemsReplace(t *testing.T) {
	backend := newBadgerBackend(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	first := []SavedItem{
		{ID: "a", Content: "one", Order: 0, SavedAt: now},
		{ID: "b", Content: "two", Order: 1, SavedAt: now},
	}
	require.NoError(t, backend.ReplaceSavedItems(ctx, "proj-1", "phase1-1", first))

	items, err := backend.LoadSavedItems(ctx, "proj-1", "phase1-1")
	require.NoError(t, err)
	assert.Equal(t, first, items)

	// Replace is whole-list: the shorter list wins outright.
	second := []SavedItem{{ID: "c", Content: "three", Order: 0, SavedAt: now}}
	require.NoError(t, backend.ReplaceSavedItems(ctx, "proj-1", "phase1-1", second))

	items, err = backend.LoadSavedItems(ctx, "proj-1", "phase1-1")
	require.NoError(t, err)
	assert.Equal(t, second, items)
}

func TestBadgerBackend_SavedItemsEmptyListDeletes(t *testing.T) {
	backend := newBadgerBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.ReplaceSavedItems(ctx, "proj-1", "phase1-1",
		[]SavedItem{{ID: "a", Content: "one", Order: 0}}))
	require.NoError(t, backend.ReplaceSavedItems(ctx, "proj-1", "phase1-1", nil))

	items, err := backend.LoadSavedItems(ctx, "proj-1", "phase1-1")
	require.NoError(t, err)
	assert.Empty(t, items)

	// Deleting an absent list is fine.
	require.NoError(t, backend.ReplaceSavedItems(ctx, "proj-1", "phase9-9", nil))
}

func TestBadgerBackend_StoreIntegration(t *testing.T) {
	backend := newBadgerBackend(t)

	s, err := NewStore(Config{Backend: backend, ProjectID: "proj-1", Debounce: time.Hour})
	require.NoError(t, err)
	s.UpdateField("phase1-1", "app_name", "ShipKit")
	s.AddSavedItem("phase1-1", "saved copy")
	require.NoError(t, s.Close())

	// A fresh store sees what the first one flushed.
	s2, err := NewStore(Config{Backend: backend, ProjectID: "proj-1", Debounce: time.Hour})
	require.NoError(t, err)
	defer s2.Close()

	fields, items, err := s2.Load(context.Background(), "phase1-1")
	require.NoError(t, err)
	assert.Equal(t, "ShipKit", fields["app_name"])
	require.Len(t, items, 1)
	assert.Equal(t, "saved copy", items[0].Content)
}
