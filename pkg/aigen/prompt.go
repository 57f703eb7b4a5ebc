// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package aigen builds prompts from task templates and runs them
// through the generation gateway.
package aigen

import (
	"fmt"
	"strings"

	"github.com/dizid/shipkit/pkg/tasks"
)

// BuildPrompt interpolates a task prompt template with the user's form
// data, the project context, and an optional per-task context provider.
//
// # Description
// Substitution happens in three passes, and placeholders already
// resolved by an earlier pass are no longer present for later ones:
//
//  1. Form data. Every {key} is replaced by the field's value; slice
//     values additionally synthesize a {key_list} placeholder joined
//     with ", ". Empty values substitute as empty strings.
//  2. Project context. Only non-empty values substitute, so a blank
//     project field cannot blank out a placeholder the provider could
//     still fill.
//  3. Context provider. Values substitute unconditionally. A panicking
//     provider is isolated: its contribution is skipped and the prompt
//     from the first two passes is returned.
//
// Placeholders no pass resolves are left literal in the output.
//
// # Thread Safety
// Pure function; safe for concurrent use.
func BuildPrompt(template string, formData map[string]any, projectCtx map[string]string, provider tasks.ContextProvider) string {
	prompt := template

	for key, value := range formData {
		if items, ok := asStringSlice(value); ok {
			prompt = strings.ReplaceAll(prompt, "{"+key+"_list}", strings.Join(items, ", "))
		}
		prompt = strings.ReplaceAll(prompt, "{"+key+"}", stringify(value))
	}

	for key, value := range projectCtx {
		if value == "" {
			continue
		}
		prompt = strings.ReplaceAll(prompt, "{"+key+"}", value)
	}

	if provider != nil {
		if extra := safeProvide(provider); extra != nil {
			for key, value := range extra {
				prompt = strings.ReplaceAll(prompt, "{"+key+"}", value)
			}
		}
	}

	return prompt
}

// safeProvide calls the provider and swallows panics; a broken provider
// must not take the whole generation down.
func safeProvide(provider tasks.ContextProvider) (out map[string]string) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	return provider()
}

func asStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, stringify(item))
		}
		return items, true
	default:
		return nil, false
	}
}

// stringify renders a form value for direct {key} substitution. Slices
// under a bare {key} render with fmt's default formatting; templates
// that want a readable list use {key_list}.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
