// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer makes bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_RendersFramesAndClears(t *testing.T) {
	buf := &syncBuffer{}
	s := NewSpinnerWithWriter(buf, "working")

	s.Start()
	time.Sleep(250 * time.Millisecond)
	s.Stop()

	out := buf.String()
	assert.Contains(t, out, "working")
	// Stop clears the line.
	assert.True(t, strings.HasSuffix(out, "\r\033[K"))
}

func TestSpinner_StartStopIdempotent(t *testing.T) {
	buf := &syncBuffer{}
	s := NewSpinnerWithWriter(buf, "working")

	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinner_UpdateMessage(t *testing.T) {
	buf := &syncBuffer{}
	s := NewSpinnerWithWriter(buf, "first")

	s.Start()
	time.Sleep(120 * time.Millisecond)
	s.UpdateMessage("second")
	time.Sleep(120 * time.Millisecond)
	s.Stop()

	out := buf.String()
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "second")
}

func TestWithSpinner_PropagatesError(t *testing.T) {
	sentinel := errors.New("boom")
	err := WithSpinner("working", func() error { return sentinel })
	require.ErrorIs(t, err, sentinel)

	require.NoError(t, WithSpinner("working", func() error { return nil }))
}
