// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/frame/manual.go
// Summary: Deterministic frame scheduler with a controllable clock.
// Usage: Gesture replay steps frames at a fixed interval instead of real time.

package frame

import "github.com/framegrace/texelscroll/texelui/scroll"

// Manual queues frame callbacks until Advance is called. Time only moves
// when the caller says so, which makes decay output reproducible.
type Manual struct {
	now   float64
	queue []*manualFrame
}

type manualFrame struct {
	fn       func()
	canceled bool
}

// NewManual returns a scheduler whose clock starts at start milliseconds.
func NewManual(start float64) *Manual {
	return &Manual{now: start}
}

// Now reads the manual clock; it satisfies scroll.Clock.
func (m *Manual) Now() float64 { return m.now }

// Set moves the clock to now without running frames.
func (m *Manual) Set(now float64) { m.now = now }

// RequestFrame implements scroll.FrameScheduler.
func (m *Manual) RequestFrame(fn func()) scroll.CancelFunc {
	f := &manualFrame{fn: fn}
	m.queue = append(m.queue, f)
	return func() { f.canceled = true }
}

// Pending returns the number of queued, uncancelled callbacks.
func (m *Manual) Pending() int {
	n := 0
	for _, f := range m.queue {
		if !f.canceled {
			n++
		}
	}
	return n
}

// Advance moves the clock by ms and runs the callbacks that were queued
// before the call. Callbacks requested while running wait for the next
// Advance. It returns the number of callbacks run.
func (m *Manual) Advance(ms float64) int {
	m.now += ms
	batch := m.queue
	m.queue = nil
	ran := 0
	for _, f := range batch {
		if f.canceled {
			continue
		}
		f.canceled = true
		f.fn()
		ran++
	}
	return ran
}

// RunUntilIdle advances frame by frame until nothing is pending or limit
// frames have been stepped. It returns the number of frames stepped.
func (m *Manual) RunUntilIdle(step float64, limit int) int {
	frames := 0
	for m.Pending() > 0 && frames < limit {
		m.Advance(step)
		frames++
	}
	return frames
}
