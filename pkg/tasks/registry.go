// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tasks

import "sort"

// registry holds every playbook task, indexed at package init.
var (
	registry []Task
	byID     map[string]Task
)

func init() {
	registry = append(registry, phase1Tasks...)
	registry = append(registry, phase2Tasks...)
	registry = append(registry, phase3Tasks...)
	registry = append(registry, phase4Tasks...)

	byID = make(map[string]Task, len(registry))
	for _, t := range registry {
		byID[t.ID] = t
	}
}

// All returns every task in phase order. The returned slice is a copy;
// callers may not mutate registry content (Task values share backing
// arrays for steps and fields).
func All() []Task {
	out := make([]Task, len(registry))
	copy(out, registry)
	return out
}

// ByID returns the task with the given id.
func ByID(id string) (Task, bool) {
	t, ok := byID[id]
	return t, ok
}

// ByPhase returns all tasks for a phase, in registry order.
func ByPhase(phase int) []Task {
	var out []Task
	for _, t := range registry {
		if t.Phase == phase {
			out = append(out, t)
		}
	}
	return out
}

// ByTier returns all tasks accessible at the given tier level,
// sorted by phase then id.
func ByTier(tier Tier) []Task {
	var out []Task
	for _, t := range registry {
		if tier.AtLeast(t.Tier) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Phase != out[j].Phase {
			return out[i].Phase < out[j].Phase
		}
		return out[i].ID < out[j].ID
	})
	return out
}
