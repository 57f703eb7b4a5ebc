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
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dizid/shipkit/pkg/logging"
	"github.com/dizid/shipkit/pkg/validation"
)

// DefaultDebounce is the quiet period after the last edit before a
// background flush runs.
const DefaultDebounce = 500 * time.Millisecond

// flushState tracks where the store is in its write cycle.
type flushState int

const (
	stateIdle flushState = iota
	statePending
	stateFlushing
)

// Config configures a Store.
type Config struct {
	Backend   Backend
	ProjectID string
	// Debounce overrides DefaultDebounce. Optional.
	Debounce time.Duration
	// Logger for background-flush failures. Optional.
	Logger *logging.Logger
}

// Store keeps a project's task form data in memory and flushes edits to
// the backend after a debounce window.
//
// # Description
// Every edit lands in memory synchronously and marks the task dirty.
// The first edit arms a timer (idle -> pending); further edits within
// the window rearm it. When the timer fires the dirty set is written
// out (pending -> flushing). Edits arriving during a flush stay dirty
// and rearm the timer when the flush finishes, so no edit is lost to
// the race. SaveNow skips the wait and flushes immediately.
//
// Background flush failures are logged, never surfaced; the data stays
// in memory and the next flush retries it. Only SaveNow reports errors
// to the caller.
//
// # Thread Safety
// Safe for concurrent use.
type Store struct {
	backend   Backend
	projectID string
	debounce  time.Duration
	logger    *logging.Logger
	now       func() time.Time

	// flushMu serializes flush executions; mu guards everything below.
	flushMu sync.Mutex
	mu      sync.Mutex
	state   flushState
	timer   *time.Timer
	closed  bool

	fields      map[string]map[string]any
	dirtyFields map[string]map[string]any
	saved       map[string][]SavedItem
	dirtySaved  map[string]bool
}

// NewStore validates the config and returns a ready store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Backend == nil {
		return nil, errors.New("taskdata: Backend is required")
	}
	if cfg.ProjectID == "" {
		return nil, errors.New("taskdata: ProjectID is required")
	}
	if err := validation.ValidateIdentifier(cfg.ProjectID); err != nil {
		return nil, fmt.Errorf("taskdata: %w", err)
	}
	s := &Store{
		backend:     cfg.Backend,
		projectID:   cfg.ProjectID,
		debounce:    cfg.Debounce,
		logger:      cfg.Logger,
		now:         time.Now,
		fields:      make(map[string]map[string]any),
		dirtyFields: make(map[string]map[string]any),
		saved:       make(map[string][]SavedItem),
		dirtySaved:  make(map[string]bool),
	}
	if s.debounce <= 0 {
		s.debounce = DefaultDebounce
	}
	if s.logger == nil {
		s.logger = logging.Default()
	}
	return s, nil
}

// ============================================================================
// SECTION 1: FIELD EDITS
// ============================================================================

// UpdateField records one field edit in memory and schedules a flush.
func (s *Store) UpdateField(taskID, fieldID string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.fields[taskID] == nil {
		s.fields[taskID] = make(map[string]any)
	}
	s.fields[taskID][fieldID] = value

	if s.dirtyFields[taskID] == nil {
		s.dirtyFields[taskID] = make(map[string]any)
	}
	s.dirtyFields[taskID][fieldID] = value

	s.scheduleLocked()
}

// Fields returns a snapshot of the task's in-memory fields.
func (s *Store) Fields(taskID string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any, len(s.fields[taskID]))
	for k, v := range s.fields[taskID] {
		out[k] = v
	}
	return out
}

// ============================================================================
// SECTION 2: SAVED ITEMS
// ============================================================================

// AddSavedItem appends generated content to the task's saved list.
func (s *Store) AddSavedItem(taskID, content string) SavedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := SavedItem{
		ID:      uuid.NewString(),
		Content: content,
		Order:   len(s.saved[taskID]),
		SavedAt: s.now(),
	}
	s.saved[taskID] = append(s.saved[taskID], item)
	s.dirtySaved[taskID] = true
	s.scheduleLocked()
	return item
}

// RemoveSavedItem deletes one saved item and renumbers the rest so
// order stays dense.
func (s *Store) RemoveSavedItem(taskID, itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.saved[taskID]
	idx := -1
	for i, item := range items {
		if item.ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	items = append(items[:idx], items[idx+1:]...)
	for i := range items {
		items[i].Order = i
	}
	s.saved[taskID] = items
	s.dirtySaved[taskID] = true
	s.scheduleLocked()
	return true
}

// ClearSavedItems removes every saved item for the task.
func (s *Store) ClearSavedItems(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[taskID] = []SavedItem{}
	s.dirtySaved[taskID] = true
	s.scheduleLocked()
}

// SavedItems returns a snapshot of the task's saved list in order.
func (s *Store) SavedItems(taskID string) []SavedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SavedItem, len(s.saved[taskID]))
	copy(out, s.saved[taskID])
	return out
}

// ============================================================================
// SECTION 3: LOAD AND FLUSH
// ============================================================================

// Load pulls the task's persisted state into memory. In-memory values
// win over stored ones, so an edit made before Load completes is never
// rolled back.
func (s *Store) Load(ctx context.Context, taskID string) (map[string]any, []SavedItem, error) {
	var (
		storedFields map[string]any
		storedItems  []SavedItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		storedFields, err = s.backend.LoadFields(gctx, s.projectID, taskID)
		return err
	})
	g.Go(func() error {
		var err error
		storedItems, err = s.backend.LoadSavedItems(gctx, s.projectID, taskID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fields[taskID] == nil {
		s.fields[taskID] = make(map[string]any)
	}
	for k, v := range storedFields {
		if _, exists := s.fields[taskID][k]; !exists {
			s.fields[taskID][k] = v
		}
	}

	if _, inMemory := s.saved[taskID]; !inMemory && !s.dirtySaved[taskID] {
		s.saved[taskID] = storedItems
	}

	fieldsOut := make(map[string]any, len(s.fields[taskID]))
	for k, v := range s.fields[taskID] {
		fieldsOut[k] = v
	}
	itemsOut := make([]SavedItem, len(s.saved[taskID]))
	copy(itemsOut, s.saved[taskID])
	return fieldsOut, itemsOut, nil
}

// SaveNow cancels any pending timer and flushes immediately.
func (s *Store) SaveNow(ctx context.Context) error {
	s.mu.Lock()
	s.stopTimerLocked()
	s.mu.Unlock()
	return s.flush(ctx)
}

// Close flushes whatever is dirty and shuts the store down. Flush
// failures on the way out are logged, never returned; this mirrors
// teardown in a UI where there is nobody left to show the error to.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.stopTimerLocked()
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.flush(ctx); err != nil {
		s.logger.Error("final flush failed on close", "project_id", s.projectID, "error", err)
	}
	return nil
}

// scheduleLocked arms or rearms the debounce timer. Caller holds mu.
func (s *Store) scheduleLocked() {
	switch s.state {
	case stateIdle:
		s.state = statePending
		s.timer = time.AfterFunc(s.debounce, s.timerFired)
	case statePending:
		s.timer.Reset(s.debounce)
	case stateFlushing:
		// The running flush rechecks the dirty set when it finishes.
	}
}

func (s *Store) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.state == statePending {
		s.state = stateIdle
	}
}

func (s *Store) timerFired() {
	if err := s.flush(context.Background()); err != nil {
		s.logger.Warn("background flush failed, data retained in memory",
			"project_id", s.projectID, "error", err)
	}
}

// flush writes the dirty set to the backend. Field batches and
// saved-item lists go out in parallel, one goroutine per dirty task.
func (s *Store) flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	dirtyFields := s.dirtyFields
	dirtySaved := make(map[string][]SavedItem, len(s.dirtySaved))
	for taskID := range s.dirtySaved {
		items := make([]SavedItem, len(s.saved[taskID]))
		copy(items, s.saved[taskID])
		dirtySaved[taskID] = items
	}
	s.dirtyFields = make(map[string]map[string]any)
	s.dirtySaved = make(map[string]bool)
	if len(dirtyFields) == 0 && len(dirtySaved) == 0 {
		s.state = stateIdle
		s.mu.Unlock()
		return nil
	}
	s.state = stateFlushing
	s.timer = nil
	s.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for taskID, fields := range dirtyFields {
		g.Go(func() error {
			return s.backend.UpsertFields(gctx, s.projectID, taskID, fields)
		})
	}
	for taskID, items := range dirtySaved {
		g.Go(func() error {
			return s.backend.ReplaceSavedItems(gctx, s.projectID, taskID, items)
		})
	}
	err := g.Wait()

	s.mu.Lock()
	if err != nil {
		// A failed write stays dirty so the next flush retries it.
		// Edits that arrived mid-flush win over the retried snapshot.
		for taskID, fields := range dirtyFields {
			if s.dirtyFields[taskID] == nil {
				s.dirtyFields[taskID] = make(map[string]any, len(fields))
			}
			for k, v := range fields {
				if _, newer := s.dirtyFields[taskID][k]; !newer {
					s.dirtyFields[taskID][k] = v
				}
			}
		}
		for taskID := range dirtySaved {
			s.dirtySaved[taskID] = true
		}
	}
	s.state = stateIdle
	if (len(s.dirtyFields) > 0 || len(s.dirtySaved) > 0) && !s.closed {
		// Retries and mid-flush edits restart the window.
		s.scheduleLocked()
	}
	s.mu.Unlock()
	return err
}
