// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package tasks defines the LaunchPilot playbook: the static registry of
// launch tasks that drives the checklist UI and the AI generation
// pipeline.
//
// Task definitions are immutable configuration, not user data. User
// entities (form data, saved items, usage records) reference a task by
// its stable id and look the definition up here at use time; they never
// hold a copy.
//
// This is the single source of truth for task structure. Never add
// fields that aren't defined here.
package tasks

import (
	"fmt"
	"strings"
)

// =============================================================================
// Tiers
// =============================================================================

// Tier is a subscription level determining which tasks are accessible
// and how many AI generations a user gets per calendar month.
type Tier string

const (
	// TierFree is the default tier for users without a subscription.
	TierFree Tier = "free"

	// TierLauncher is the paid entry tier.
	TierLauncher Tier = "launcher"

	// TierPro is the highest tier.
	TierPro Tier = "pro"
)

// rank orders tiers: free < launcher < pro.
func (t Tier) rank() int {
	switch t {
	case TierLauncher:
		return 1
	case TierPro:
		return 2
	default:
		return 0
	}
}

// AtLeast reports whether t grants access to content requiring min.
func (t Tier) AtLeast(min Tier) bool {
	return t.rank() >= min.rank()
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierLauncher, TierPro:
		return true
	default:
		return false
	}
}

// ParseTier converts a stored tier string to a Tier, defaulting to
// TierFree for unknown or empty values. Absence of a subscription
// record always means free.
func ParseTier(s string) Tier {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return TierFree
	}
	return t
}

// =============================================================================
// Form Fields
// =============================================================================

// FieldType enumerates the input kinds a task form can collect.
type FieldType string

const (
	FieldText       FieldType = "text"       // single-line text
	FieldTextarea   FieldType = "textarea"   // multi-line text
	FieldSelect     FieldType = "select"     // single choice
	FieldCheckboxes FieldType = "checkboxes" // multiple choice, value is a list
)

// Option is one selectable choice for select/checkboxes fields.
type Option struct {
	Value string
	Label string
}

// FormField describes one typed input collected before AI generation.
// The snake_case ID doubles as the placeholder name in the task's
// prompt template.
type FormField struct {
	ID          string
	Type        FieldType
	Label       string
	Placeholder string
	Required    bool
	Options     []Option // select/checkboxes only
}

// =============================================================================
// AI Configuration
// =============================================================================

// ContextProvider supplies additional prompt placeholders at generation
// time, beyond form data and project context. Its keys substitute
// unconditionally, even when the value is empty.
type ContextProvider func() map[string]string

// ResponseParser transforms raw AI output into structured content.
// A failing parser never fails generation; the client falls back to
// the raw text.
type ResponseParser func(raw string) (any, error)

// AIConfig holds a task's AI generation settings.
type AIConfig struct {
	// PromptTemplate is the template string with {field_id} placeholders.
	// Unresolved placeholders remain literal in the final prompt.
	PromptTemplate string

	// Temperature in 0.0-1.0; higher is more creative.
	// The gateway clamps this again server-side.
	Temperature float64

	// MaxTokens caps the response length. Clamped server-side to 4096.
	MaxTokens int

	// ContextProvider optionally supplies extra placeholders.
	ContextProvider ContextProvider

	// ParseResponse optionally structures the raw output.
	ParseResponse ResponseParser
}

// =============================================================================
// Task Definition
// =============================================================================

// Subtask is one concrete action within a step.
type Subtask struct {
	Title       string
	Description string
}

// Step is one heading-level unit of work within a task.
type Step struct {
	Title       string
	Description string
	Subtasks    []Subtask
}

// Template is a copy-paste ready text block with [PLACEHOLDER] markers.
type Template struct {
	Title   string
	Content string
}

// Tool is a recommended third-party tool for a task.
type Tool struct {
	Name        string
	URL         string // no trailing slash
	FreeDetails string
}

// Task is one entry in the launch playbook.
//
// IDs follow the format "phase{N}-{number}" (e.g. "phase1-1") and are
// referenced by form data, saved items, and usage records.
type Task struct {
	ID           string
	Phase        int // 1-4
	PhaseLabel   string
	Tier         Tier // minimum subscription tier required
	Title        string
	Description  string
	TimeEstimate string
	Icon         string
	Category     string

	Steps      []Step
	FormFields []FormField

	// AI is nil for checklist-only tasks without generation support.
	AI *AIConfig

	Templates      []Template
	Tools          []Tool
	DoneCriteria   []string
	CommonMistakes []string
}

// Validate checks structural invariants of a task definition.
// Called from registry tests so a malformed definition fails CI, not
// production.
func (t Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task has empty id")
	}
	if t.Phase < 1 || t.Phase > 4 {
		return fmt.Errorf("task %s: phase %d out of range 1-4", t.ID, t.Phase)
	}
	if !t.Tier.Valid() {
		return fmt.Errorf("task %s: unknown tier %q", t.ID, t.Tier)
	}
	seen := make(map[string]bool, len(t.FormFields))
	for _, f := range t.FormFields {
		if f.ID == "" {
			return fmt.Errorf("task %s: form field with empty id", t.ID)
		}
		if seen[f.ID] {
			return fmt.Errorf("task %s: duplicate form field %q", t.ID, f.ID)
		}
		seen[f.ID] = true
	}
	if t.AI != nil {
		if t.AI.PromptTemplate == "" {
			return fmt.Errorf("task %s: AI config without prompt template", t.ID)
		}
		if t.AI.Temperature < 0 || t.AI.Temperature > 1 {
			return fmt.Errorf("task %s: temperature %v out of range", t.ID, t.AI.Temperature)
		}
		if t.AI.MaxTokens < 1 {
			return fmt.Errorf("task %s: max tokens %d below 1", t.ID, t.AI.MaxTokens)
		}
	}
	return nil
}
