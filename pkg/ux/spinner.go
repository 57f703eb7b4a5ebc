// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal presentation helpers for the CLI.
package ux

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const frameInterval = 80 * time.Millisecond

// Spinner animates a loading indicator on a terminal. On a non-terminal
// writer it prints the message once and stays quiet, keeping piped
// output clean.
type Spinner struct {
	w       io.Writer
	animate bool

	mu         sync.Mutex
	message    string
	running    bool
	stop       chan struct{}
	done       chan struct{}
	frameIndex int
}

// NewSpinner creates a spinner writing to stderr.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		w:       os.Stderr,
		animate: isatty.IsTerminal(os.Stderr.Fd()),
		message: message,
	}
}

// NewSpinnerWithWriter creates a spinner on an arbitrary writer.
// Used in tests; animation is always on.
func NewSpinnerWithWriter(w io.Writer, message string) *Spinner {
	return &Spinner{w: w, animate: true, message: message}
}

// Start begins the animation. Calling Start on a running spinner is a
// no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	if !s.animate {
		fmt.Fprintf(s.w, "%s\n", s.message)
		return
	}

	go s.run()
}

func (s *Spinner) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			fmt.Fprint(s.w, "\r\033[K")
			close(s.done)
			return
		case <-ticker.C:
			s.mu.Lock()
			frame := spinnerFrames[s.frameIndex%len(spinnerFrames)]
			fmt.Fprintf(s.w, "\r%s %s", frame, s.message)
			s.frameIndex++
			s.mu.Unlock()
		}
	}
}

// UpdateMessage changes the message while the spinner runs.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop halts the animation and clears the line. Safe to call twice.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	if !s.animate {
		return
	}
	close(s.stop)
	<-s.done
}

// WithSpinner runs fn behind a spinner and stops it either way.
func WithSpinner(message string, fn func() error) error {
	spin := NewSpinner(message)
	spin.Start()
	defer spin.Stop()
	return fn()
}
