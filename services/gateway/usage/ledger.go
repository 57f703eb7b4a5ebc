// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package usage records per-user generation accounting and answers
// quota-window counting queries.
package usage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// charsPerToken approximates Anthropic tokenization for accounting
// when the upstream response carries no usage block.
const charsPerToken = 3.5

// EstimateTokens approximates the token count of a text.
func EstimateTokens(text string) int {
	return EstimateTokensN(len(text))
}

// EstimateTokensN approximates the token count of n characters.
func EstimateTokensN(n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Ceil(float64(n) / charsPerToken))
}

// MonthWindow returns the start of now's calendar month (UTC) and the
// first day of the next month as YYYY-MM-DD. Quota windows are
// calendar months, not rolling 30-day periods.
func MonthWindow(now time.Time) (start time.Time, resetDate string) {
	now = now.UTC()
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0).Format("2006-01-02")
}

// Entry is one recorded generation.
type Entry struct {
	UserID       string    `json:"userId"`
	TaskID       string    `json:"taskId,omitempty"`
	Model        string    `json:"model"`
	InputTokens  int       `json:"inputTokens"`
	OutputTokens int       `json:"outputTokens"`
	// Estimated marks token counts derived from text length rather
	// than the upstream usage block.
	Estimated bool      `json:"estimated"`
	At        time.Time `json:"at"`
}

// Counter is the quota checker's view of the ledger.
type Counter interface {
	// CountSince returns how many generations the user recorded at or
	// after the given instant.
	CountSince(ctx context.Context, userID string, since time.Time) (int, error)
}

// Ledger stores usage entries in Badger, keyed so a user's entries
// sort chronologically and window queries are a prefix seek.
//
// # Thread Safety
// Safe for concurrent use.
type Ledger struct {
	db *badger.DB
}

// NewLedger wraps an open Badger handle. The caller owns the handle.
func NewLedger(db *badger.DB) (*Ledger, error) {
	if db == nil {
		return nil, errors.New("usage: badger handle is required")
	}
	return &Ledger{db: db}, nil
}

// keyTimeFormat is fixed-width so lexicographic order matches time
// order.
const keyTimeFormat = "2006-01-02T15:04:05.000000000Z"

func userPrefix(userID string) []byte {
	return []byte("usage/" + userID + "/")
}

func entryKey(userID string, at time.Time) []byte {
	return []byte("usage/" + userID + "/" + at.UTC().Format(keyTimeFormat) + "/" + uuid.NewString())
}

// Record appends one usage entry. Entries are immutable once written.
func (l *Ledger) Record(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entry.UserID == "" {
		return errors.New("usage: entry UserID is required")
	}
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal usage entry: %w", err)
	}
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(entry.UserID, entry.At), payload)
	})
}

// CountSince counts the user's entries at or after since. Key order is
// chronological, so this seeks straight to the window start.
func (l *Ledger) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count := 0
	prefix := userPrefix(userID)
	seek := []byte("usage/" + userID + "/" + since.UTC().Format(keyTimeFormat))

	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(seek); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Entries returns the user's entries at or after since, oldest first.
func (l *Ledger) Entries(ctx context.Context, userID string, since time.Time) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var entries []Entry
	prefix := userPrefix(userID)
	seek := []byte("usage/" + userID + "/" + since.UTC().Format(keyTimeFormat))

	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(seek); it.Valid(); it.Next() {
			var entry Entry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
