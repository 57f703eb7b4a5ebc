// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package usage

import (
	"context"
	"errors"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/dizid/shipkit/pkg/tasks"
)

// SubscriptionStore resolves a user's subscription tier.
type SubscriptionStore interface {
	// TierFor returns the user's tier. Users with no subscription
	// record are free tier; that is the default, not an error.
	TierFor(ctx context.Context, userID string) (tasks.Tier, error)
}

// BadgerSubscriptionStore keeps tier records in Badger under one key
// per user.
type BadgerSubscriptionStore struct {
	db *badger.DB
}

// NewSubscriptionStore wraps an open Badger handle.
func NewSubscriptionStore(db *badger.DB) (*BadgerSubscriptionStore, error) {
	if db == nil {
		return nil, errors.New("usage: badger handle is required")
	}
	return &BadgerSubscriptionStore{db: db}, nil
}

func subscriptionKey(userID string) []byte {
	return []byte("subscription/" + userID)
}

func (s *BadgerSubscriptionStore) TierFor(ctx context.Context, userID string) (tasks.Tier, error) {
	if err := ctx.Err(); err != nil {
		return tasks.TierFree, err
	}
	tier := tasks.TierFree
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(subscriptionKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			tier = tasks.ParseTier(string(val))
			return nil
		})
	})
	if err != nil {
		return tasks.TierFree, err
	}
	return tier, nil
}

// SetTier records a user's tier. Unknown tier strings normalize to
// free via ParseTier on read, so writes are stored as given.
func (s *BadgerSubscriptionStore) SetTier(ctx context.Context, userID string, tier tasks.Tier) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(subscriptionKey(userID), []byte(tier))
	})
}

// StaticSubscriptionStore returns the same tier for every user. Used
// in tests and single-user local deployments.
type StaticSubscriptionStore struct {
	Tier tasks.Tier
}

func (s StaticSubscriptionStore) TierFor(ctx context.Context, userID string) (tasks.Tier, error) {
	if s.Tier == "" {
		return tasks.TierFree, nil
	}
	return s.Tier, nil
}
