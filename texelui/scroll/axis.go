// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/scroll/axis.go
// Summary: Single-axis offset/velocity state machine (drag, decay, idle).

package scroll

import "math"

const (
	// SettleVelocity is the speed (units/ms) at or below which decay stops.
	SettleVelocity = 0.05
	// Friction is the per-millisecond velocity loss factor applied during decay.
	Friction = 0.004
)

// AxisState describes what is currently driving an axis.
type AxisState int

const (
	// AxisIdle means no contact is tracked and no inertial motion is running.
	AxisIdle AxisState = iota
	// AxisDragging means a live contact feeds positions into the axis.
	AxisDragging
	// AxisDecaying means the contact was released and velocity is decaying.
	AxisDecaying
)

func (s AxisState) String() string {
	switch s {
	case AxisIdle:
		return "idle"
	case AxisDragging:
		return "dragging"
	case AxisDecaying:
		return "decaying"
	default:
		return "unknown"
	}
}

// Axis holds offset and velocity for one scroll dimension.
// The zero value is an idle axis with no scroll range.
type Axis struct {
	offset   float64
	velocity float64
	max      float64
	state    AxisState
	anchor   float64 // last contact position, valid only while dragging
}

// NewAxis returns an idle axis bounded by max.
func NewAxis(max float64) *Axis {
	return &Axis{max: max}
}

func (a *Axis) Offset() float64   { return a.offset }
func (a *Axis) Velocity() float64 { return a.velocity }
func (a *Axis) Max() float64      { return a.max }
func (a *Axis) State() AxisState  { return a.state }

// SetMax updates the upper bound. The offset is not re-clamped until the
// next change or Clamp so content growth during a drag does not jump the view.
func (a *Axis) SetMax(max float64) {
	a.max = max
}

// Clamp pulls an offset left outside the range by SetMax back inside it.
// Velocity and state are kept, so a running decay carries on from the new
// bound. It reports whether the offset moved.
func (a *Axis) Clamp() bool {
	offset := clamp(a.offset, 0, math.Max(a.max, 0))
	if offset == a.offset {
		return false
	}
	a.offset = offset
	return true
}

// Scrollable reports whether the axis has a positive range.
func (a *Axis) Scrollable() bool {
	return a.max > 0
}

// AtBoundary reports whether the offset sits at 0 or max.
func (a *Axis) AtBoundary() bool {
	return !(a.offset > 0 && a.offset < a.max)
}

// Capture starts tracking a contact at position. Only the first call of a
// gesture seeds the anchor; later calls are ignored until End.
func (a *Axis) Capture(position float64) {
	if a.state == AxisDragging {
		return
	}
	a.state = AxisDragging
	a.anchor = position
}

// Move feeds a new contact position observed duration ms after the previous
// one. Dragging the contact towards lower coordinates increases the offset.
func (a *Axis) Move(position, duration float64) {
	if a.state != AxisDragging {
		return
	}
	move := a.anchor - position
	if duration > 0 {
		a.velocity = move / duration
	} else {
		a.velocity = 0
	}
	a.anchor = position
	a.change(move)
}

// End releases the tracked contact and makes the axis eligible for decay.
func (a *Axis) End() {
	if a.state != AxisDragging {
		return
	}
	a.state = AxisDecaying
}

// Step advances inertial motion by duration ms. It reports whether the axis
// is still moving and another step should be scheduled.
func (a *Axis) Step(duration float64) bool {
	if a.state == AxisDragging {
		return false
	}
	if math.Abs(a.velocity) <= SettleVelocity {
		a.velocity = 0
		a.state = AxisIdle
		return false
	}
	a.velocity -= duration * Friction * a.velocity
	a.change(a.velocity * duration)
	if a.velocity == 0 {
		a.state = AxisIdle
		return false
	}
	a.state = AxisDecaying
	return true
}

// Jump applies a programmatic delta outside of a drag and stops any decay.
// It reports whether the offset changed.
func (a *Axis) Jump(delta float64) bool {
	if a.state == AxisDragging {
		return false
	}
	a.velocity = 0
	a.state = AxisIdle
	before := a.offset
	a.change(delta)
	return a.offset != before
}

func (a *Axis) change(move float64) {
	offset := clamp(a.offset+move, 0, math.Max(a.max, 0))
	if offset != a.offset {
		a.offset = offset
	} else if a.state != AxisDragging {
		// Saturated at a bound with no live contact: inertia ends here.
		a.velocity = 0
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
