// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/scroll/event.go
// Summary: Touch input, scroll output and scheduling contracts for Scroller.

package scroll

import "time"

// Point is a contact position in screen coordinates.
type Point struct {
	X, Y float64
}

// ScrollFlags is the arbitration record carried by a single touch event.
// A false flag means a scroller that handled the event earlier holds that
// axis; later scrollers on the same axis yield the gesture.
type ScrollFlags struct {
	X bool
	Y bool
}

// TouchEvent is one pointer sample delivered to every scroller on the
// dispatch path. Timestamp is in milliseconds and must be monotonic.
type TouchEvent struct {
	Touches   map[string]Point
	Timestamp float64

	// Scroll is nil until a scroller signs the event.
	Scroll *ScrollFlags
}

// firstContact returns the smallest contact id so the choice is stable
// regardless of map iteration order.
func (e *TouchEvent) firstContact() (string, bool) {
	var (
		id    string
		found bool
	)
	for k := range e.Touches {
		if !found || k < id {
			id, found = k, true
		}
	}
	return id, found
}

// Event is emitted to the listener on every drag sample and decay tick.
type Event struct {
	X, Y      float64
	VX, VY    float64
	Timestamp float64
}

// Listener receives scroll events synchronously.
type Listener func(Event)

// CancelFunc aborts a pending frame callback. Calling it after the callback
// ran, or more than once, is a no-op.
type CancelFunc func()

// FrameScheduler runs a callback once before the next display refresh.
type FrameScheduler interface {
	RequestFrame(fn func()) CancelFunc
}

// Clock returns the current time in milliseconds.
type Clock func() float64

// WallClock reads the system clock.
func WallClock() float64 {
	return Millis(time.Now())
}

// Millis converts a time to fractional milliseconds since the Unix epoch.
func Millis(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Millisecond)
}
