// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/touch/touch.go
// Summary: Turns tcell mouse drags into single-contact touch events.
// Usage: The viewer translates every mouse event and hands the result to a Router.
// Notes: A terminal has one pointer, so every gesture uses the same contact id.

package touch

import (
	"github.com/framegrace/texelscroll/texelui/scroll"
	"github.com/gdamore/tcell/v2"
)

// ContactID identifies the mouse contact in TouchEvent.Touches.
const ContactID = "mouse"

// MinSampleInterval is the smallest gap in milliseconds between two samples.
// Terminals can stamp a burst of motion reports with the same time.
const MinSampleInterval = 1.0

// Phase is the lifecycle step a mouse event maps to.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseStart
	PhaseMove
	PhaseEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseMove:
		return "move"
	case PhaseEnd:
		return "end"
	default:
		return "none"
	}
}

// Tracker follows the drag button across mouse events.
type Tracker struct {
	// Button is the button that acts as the finger. Zero means Button1.
	Button tcell.ButtonMask
	// Clock stamps samples when set. Otherwise the event time is used.
	Clock scroll.Clock

	active bool
	last   float64
	x, y   int
}

// Active reports whether a drag is in progress.
func (t *Tracker) Active() bool { return t.active }

// Translate maps ev to a touch phase. The returned event is nil for PhaseNone.
func (t *Tracker) Translate(ev *tcell.EventMouse) (Phase, *scroll.TouchEvent) {
	if ev == nil {
		return PhaseNone, nil
	}
	button := t.Button
	if button == 0 {
		button = tcell.Button1
	}
	x, y := ev.Position()
	pressed := ev.Buttons()&button != 0

	var phase Phase
	switch {
	case pressed && !t.active:
		phase = PhaseStart
		t.active = true
	case pressed && x == t.x && y == t.y:
		return PhaseNone, nil
	case pressed:
		phase = PhaseMove
	case t.active:
		phase = PhaseEnd
		t.active = false
	default:
		return PhaseNone, nil
	}

	ts := scroll.Millis(ev.When())
	if t.Clock != nil {
		ts = t.Clock()
	}
	if phase != PhaseStart && ts < t.last+MinSampleInterval {
		ts = t.last + MinSampleInterval
	}
	t.last = ts
	t.x, t.y = x, y

	return phase, &scroll.TouchEvent{
		Touches:   map[string]scroll.Point{ContactID: {X: float64(x), Y: float64(y)}},
		Timestamp: ts,
	}
}

// Reset forgets an in-progress drag, e.g. after the screen lost focus.
func (t *Tracker) Reset() {
	t.active = false
}
