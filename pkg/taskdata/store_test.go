// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package taskdata

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBackend captures writes for assertion.
type recordingBackend struct {
	mu           sync.Mutex
	upserts      []map[string]any
	replaceCalls [][]SavedItem
	fields       map[string]any
	items        []SavedItem
	failWrites   error
}

func (b *recordingBackend) UpsertFields(ctx context.Context, projectID, taskID string, fields map[string]any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWrites != nil {
		return b.failWrites
	}
	snap := make(map[string]any, len(fields))
	for k, v := range fields {
		snap[k] = v
	}
	b.upserts = append(b.upserts, snap)
	return nil
}

func (b *recordingBackend) LoadFields(ctx context.Context, projectID, taskID string) (map[string]any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]any, len(b.fields))
	for k, v := range b.fields {
		out[k] = v
	}
	return out, nil
}

func (b *recordingBackend) ReplaceSavedItems(ctx context.Context, projectID, taskID string, items []SavedItem) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWrites != nil {
		return b.failWrites
	}
	snap := make([]SavedItem, len(items))
	copy(snap, items)
	b.replaceCalls = append(b.replaceCalls, snap)
	return nil
}

func (b *recordingBackend) LoadSavedItems(ctx context.Context, projectID, taskID string) ([]SavedItem, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]SavedItem, len(b.items))
	copy(out, b.items)
	return out, nil
}

func (b *recordingBackend) upsertCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.upserts)
}

func (b *recordingBackend) setFailWrites(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failWrites = err
}

func (b *recordingBackend) lastUpsert() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.upserts) == 0 {
		return nil
	}
	return b.upserts[len(b.upserts)-1]
}

func newTestStore(t *testing.T, backend Backend, debounce time.Duration) *Store {
	t.Helper()
	s, err := NewStore(Config{Backend: backend, ProjectID: "proj-1", Debounce: debounce})
	require.NoError(t, err)
	return s
}

func TestNewStore_Validation(t *testing.T) {
	_, err := NewStore(Config{ProjectID: "p"})
	assert.Error(t, err)
	_, err = NewStore(Config{Backend: &recordingBackend{}})
	assert.Error(t, err)
	// Identifiers that could escape the key path are rejected.
	_, err = NewStore(Config{Backend: &recordingBackend{}, ProjectID: "a/b"})
	assert.Error(t, err)
}

func TestUpdateField_DebounceCoalesces(t *testing.T) {
	backend := &recordingBackend{}
	s := newTestStore(t, backend, 40*time.Millisecond)
	defer s.Close()

	// Three rapid edits inside the window must land as one write.
	s.UpdateField("phase1-1", "app_name", "S")
	s.UpdateField("phase1-1", "app_name", "Sh")
	s.UpdateField("phase1-1", "app_name", "ShipKit")

	assert.Equal(t, 0, backend.upsertCount(), "nothing flushed inside the window")

	require.Eventually(t, func() bool {
		return backend.upsertCount() == 1
	}, time.Second, 5*time.Millisecond)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Equal(t, map[string]any{"app_name": "ShipKit"}, backend.upserts[0])
}

func TestUpdateField_EditRestartsWindow(t *testing.T) {
	backend := &recordingBackend{}
	s := newTestStore(t, backend, 60*time.Millisecond)
	defer s.Close()

	s.UpdateField("phase1-1", "app_name", "a")
	time.Sleep(35 * time.Millisecond)
	s.UpdateField("phase1-1", "app_name", "ab")
	time.Sleep(35 * time.Millisecond)
	// 70ms elapsed but the second edit rearmed the timer.
	assert.Equal(t, 0, backend.upsertCount())

	require.Eventually(t, func() bool {
		return backend.upsertCount() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestSaveNow_FlushesImmediately(t *testing.T) {
	backend := &recordingBackend{}
	s := newTestStore(t, backend, time.Hour)
	defer s.Close()

	s.UpdateField("phase1-1", "app_name", "ShipKit")
	require.NoError(t, s.SaveNow(context.Background()))
	assert.Equal(t, 1, backend.upsertCount())

	// Nothing dirty: SaveNow is a no-op.
	require.NoError(t, s.SaveNow(context.Background()))
	assert.Equal(t, 1, backend.upsertCount())
}

func TestSaveNow_SurfacesBackendError(t *testing.T) {
	backend := &recordingBackend{failWrites: errors.New("disk full")}
	s := newTestStore(t, backend, time.Hour)
	defer s.Close()

	s.UpdateField("phase1-1", "app_name", "ShipKit")
	err := s.SaveNow(context.Background())
	assert.ErrorContains(t, err, "disk full")
}

func TestSaveNow_FailedWriteRetriedOnNextFlush(t *testing.T) {
	backend := &recordingBackend{failWrites: errors.New("backend down")}
	s := newTestStore(t, backend, time.Hour)
	defer s.Close()

	s.UpdateField("phase1-1", "app_name", "ShipKit")
	require.Error(t, s.SaveNow(context.Background()))

	// The backend recovers; a later edit must not strand the failed one.
	backend.setFailWrites(nil)
	s.UpdateField("phase1-1", "tagline", "launch checklist")
	require.NoError(t, s.SaveNow(context.Background()))

	last := backend.lastUpsert()
	require.NotNil(t, last)
	assert.Equal(t, "ShipKit", last["app_name"])
	assert.Equal(t, "launch checklist", last["tagline"])
}

func TestSaveNow_FailedSavedItemsRetriedOnNextFlush(t *testing.T) {
	backend := &recordingBackend{failWrites: errors.New("backend down")}
	s := newTestStore(t, backend, time.Hour)
	defer s.Close()

	item := s.AddSavedItem("phase2-1", "thread draft")
	require.Error(t, s.SaveNow(context.Background()))

	// No new edits: the failed list is still dirty and flushes whole.
	backend.setFailWrites(nil)
	require.NoError(t, s.SaveNow(context.Background()))

	backend.mu.Lock()
	defer backend.mu.Unlock()
	require.Len(t, backend.replaceCalls, 1)
	require.Len(t, backend.replaceCalls[0], 1)
	assert.Equal(t, item.ID, backend.replaceCalls[0][0].ID)
}

func TestLoad_InMemoryWins(t *testing.T) {
	backend := &recordingBackend{fields: map[string]any{
		"app_name":        "StoredName",
		"target_audience": "stored audience",
	}}
	s := newTestStore(t, backend, time.Hour)
	defer s.Close()

	// Edit before load completes; the stored value must not roll it back.
	s.UpdateField("phase1-1", "app_name", "LiveName")

	fields, _, err := s.Load(context.Background(), "phase1-1")
	require.NoError(t, err)
	assert.Equal(t, "LiveName", fields["app_name"])
	assert.Equal(t, "stored audience", fields["target_audience"])
}

func TestLoad_SavedItemsFromBackend(t *testing.T) {
	backend := &recordingBackend{items: []SavedItem{
		{ID: "a", Content: "first", Order: 0},
		{ID: "b", Content: "second", Order: 1},
	}}
	s := newTestStore(t, backend, time.Hour)
	defer s.Close()

	_, items, err := s.Load(context.Background(), "phase1-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "first", items[0].Content)
}

func TestSavedItems_DenseOrderAfterRemove(t *testing.T) {
	backend := &recordingBackend{}
	s := newTestStore(t, backend, time.Hour)
	defer s.Close()

	a := s.AddSavedItem("phase1-1", "headline A")
	b := s.AddSavedItem("phase1-1", "headline B")
	c := s.AddSavedItem("phase1-1", "headline C")
	assert.Equal(t, []int{0, 1, 2}, orders(s.SavedItems("phase1-1")))

	require.True(t, s.RemoveSavedItem("phase1-1", b.ID))
	items := s.SavedItems("phase1-1")
	require.Len(t, items, 2)
	assert.Equal(t, []int{0, 1}, orders(items))
	assert.Equal(t, a.ID, items[0].ID)
	assert.Equal(t, c.ID, items[1].ID)

	assert.False(t, s.RemoveSavedItem("phase1-1", "missing"))
}

func TestSavedItems_FullListReplaceOnFlush(t *testing.T) {
	backend := &recordingBackend{}
	s := newTestStore(t, backend, time.Hour)
	defer s.Close()

	s.AddSavedItem("phase1-1", "one")
	s.AddSavedItem("phase1-1", "two")
	require.NoError(t, s.SaveNow(context.Background()))

	backend.mu.Lock()
	require.Len(t, backend.replaceCalls, 1)
	assert.Len(t, backend.replaceCalls[0], 2)
	backend.mu.Unlock()

	s.ClearSavedItems("phase1-1")
	require.NoError(t, s.SaveNow(context.Background()))

	backend.mu.Lock()
	require.Len(t, backend.replaceCalls, 2)
	assert.Empty(t, backend.replaceCalls[1])
	backend.mu.Unlock()
}

func TestClose_FlushesDirtyData(t *testing.T) {
	backend := &recordingBackend{}
	s := newTestStore(t, backend, time.Hour)

	s.UpdateField("phase1-1", "app_name", "ShipKit")
	require.NoError(t, s.Close())
	assert.Equal(t, 1, backend.upsertCount())

	// Edits after close are dropped.
	s.UpdateField("phase1-1", "app_name", "late")
	require.NoError(t, s.Close())
	assert.Equal(t, 1, backend.upsertCount())
}

func TestClose_SwallowsBackendError(t *testing.T) {
	backend := &recordingBackend{failWrites: errors.New("backend down")}
	s := newTestStore(t, backend, time.Hour)

	s.UpdateField("phase1-1", "app_name", "ShipKit")
	assert.NoError(t, s.Close())
}

func TestStore_ConcurrentEdits(t *testing.T) {
	backend := &recordingBackend{}
	s := newTestStore(t, backend, 20*time.Millisecond)
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.UpdateField("phase1-1", "app_name", n)
			s.AddSavedItem("phase1-1", "item")
		}(i)
	}
	wg.Wait()

	require.NoError(t, s.SaveNow(context.Background()))
	items := s.SavedItems("phase1-1")
	assert.Len(t, items, 10)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, orders(items))
}

func orders(items []SavedItem) []int {
	out := make([]int, len(items))
	for i, item := range items {
		out[i] = item.Order
	}
	return out
}
