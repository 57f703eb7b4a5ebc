// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package taskdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
)

const (
	fieldPrefix = "taskdata/fields/"
	savedPrefix = "taskdata/saved/"
)

// BadgerBackend stores task data in an embedded Badger database.
//
// # Thread Safety
// Safe for concurrent use; Badger transactions provide isolation.
type BadgerBackend struct {
	db *badger.DB
}

// NewBadgerBackend wraps an open Badger handle. The caller owns the
// handle's lifecycle.
func NewBadgerBackend(db *badger.DB) (*BadgerBackend, error) {
	if db == nil {
		return nil, errors.New("taskdata: badger handle is required")
	}
	return &BadgerBackend{db: db}, nil
}

func fieldKey(projectID, taskID, fieldID string) []byte {
	return []byte(fieldPrefix + projectID + "/" + taskID + "/" + fieldID)
}

func taskFieldPrefix(projectID, taskID string) []byte {
	return []byte(fieldPrefix + projectID + "/" + taskID + "/")
}

func savedKey(projectID, taskID string) []byte {
	return []byte(savedPrefix + projectID + "/" + taskID)
}

// UpsertFields writes each field as its own key so concurrent writers
// touching different fields never conflict.
func (b *BadgerBackend) UpsertFields(ctx context.Context, projectID, taskID string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	wb := b.db.NewWriteBatch()
	defer wb.Cancel()

	for fieldID, value := range fields {
		payload, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal field %s: %w", fieldID, err)
		}
		if err := wb.Set(fieldKey(projectID, taskID, fieldID), payload); err != nil {
			return fmt.Errorf("write field %s: %w", fieldID, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush fields for %s: %w", taskID, err)
	}
	return nil
}

func (b *BadgerBackend) LoadFields(ctx context.Context, projectID, taskID string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fields := make(map[string]any)
	prefix := taskFieldPrefix(projectID, taskID)

	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			fieldID := strings.TrimPrefix(string(item.Key()), string(prefix))
			err := item.Value(func(val []byte) error {
				var v any
				if err := json.Unmarshal(val, &v); err != nil {
					return fmt.Errorf("decode field %s: %w", fieldID, err)
				}
				fields[fieldID] = v
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

func (b *BadgerBackend) ReplaceSavedItems(ctx context.Context, projectID, taskID string, items []SavedItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := savedKey(projectID, taskID)
	if len(items) == 0 {
		return b.db.Update(func(txn *badger.Txn) error {
			err := txn.Delete(key)
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		})
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal saved items for %s: %w", taskID, err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, payload)
	})
}

func (b *BadgerBackend) LoadSavedItems(ctx context.Context, projectID, taskID string) ([]SavedItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var items []SavedItem
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(savedKey(projectID, taskID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &items)
		})
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
