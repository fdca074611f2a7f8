// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/scroll/scroller.go
// Summary: Touch-driven scroller with inertial decay and boundary hand-off.
// Usage: Feed TouchStart/TouchMove/TouchEnd from the pointer source; the
// scroller drives its decay loop through the FrameScheduler.
// Notes: Not safe for concurrent use. All calls, including frame callbacks,
// must happen on the UI goroutine.

package scroll

// Scroller turns a single-contact touch stream into a bounded offset on one
// axis. Both axes are kept so the emitted Event is symmetric, but only the
// axis selected by the orientation is driven by touches.
type Scroller struct {
	x, y       Axis
	horizontal bool

	contact   string // empty when idle
	timestamp float64

	listener Listener
	frames   FrameScheduler
	clock    Clock
	cancel   CancelFunc // pending decay tick, nil when settled
}

// NewScroller returns a vertical scroller with no scroll range.
// A nil listener is allowed.
func NewScroller(listener Listener, frames FrameScheduler) *Scroller {
	return &Scroller{
		x:        Axis{max: -1},
		y:        Axis{max: -1},
		listener: listener,
		frames:   frames,
		clock:    WallClock,
	}
}

// SetClock replaces the wall clock used after release.
func (s *Scroller) SetClock(c Clock) {
	if c == nil {
		c = WallClock
	}
	s.clock = c
}

func (s *Scroller) SetHorizontal(h bool) { s.horizontal = h }
func (s *Scroller) Horizontal() bool     { return s.horizontal }

func (s *Scroller) SetMaxX(v float64) { s.x.SetMax(v) }
func (s *Scroller) MaxX() float64     { return s.x.Max() }
func (s *Scroller) SetMaxY(v float64) { s.y.SetMax(v) }
func (s *Scroller) MaxY() float64     { return s.y.Max() }

// X returns the horizontal axis.
func (s *Scroller) X() *Axis { return &s.x }

// Y returns the vertical axis.
func (s *Scroller) Y() *Axis { return &s.y }

// Offset returns the offset of the active axis.
func (s *Scroller) Offset() float64 { return s.active().Offset() }

// Dragging reports whether a contact currently owns the gesture.
func (s *Scroller) Dragging() bool { return s.contact != "" }

// Settling reports whether a decay tick is pending.
func (s *Scroller) Settling() bool { return s.cancel != nil }

// Event returns the current state as a scroll event.
func (s *Scroller) Event() Event {
	return Event{
		X: s.x.offset, VX: s.x.velocity,
		Y: s.y.offset, VY: s.y.velocity,
		Timestamp: s.timestamp,
	}
}

func (s *Scroller) active() *Axis {
	if s.horizontal {
		return &s.x
	}
	return &s.y
}

func (s *Scroller) coordinate(p Point) float64 {
	if s.horizontal {
		return p.X
	}
	return p.Y
}

// TouchStart begins tracking the first contact of e when idle. A decay loop
// still running from the previous gesture is cancelled first.
func (s *Scroller) TouchStart(e *TouchEvent) {
	if s.contact != "" || e == nil {
		return
	}
	id, ok := e.firstContact()
	if !ok {
		return
	}
	s.stopDecay()
	s.contact = id
	s.timestamp = e.Timestamp
	s.active().Capture(s.coordinate(e.Touches[id]))
}

// TouchMove feeds the tracked contact's new position, emits, and signs the
// event for scrollers further along the dispatch path.
func (s *Scroller) TouchMove(e *TouchEvent) {
	if s.contact == "" || e == nil {
		return
	}
	p, ok := e.Touches[s.contact]
	if !ok || !s.check(e) {
		return
	}
	duration := e.Timestamp - s.timestamp
	s.timestamp = e.Timestamp
	s.active().Move(s.coordinate(p), duration)
	s.emit()
	s.sign(e)
}

// TouchEnd releases the contact and starts the decay loop.
func (s *Scroller) TouchEnd() {
	if s.contact == "" {
		return
	}
	s.contact = ""
	s.timestamp = s.clock()
	s.x.End()
	s.y.End()
	s.schedule()
}

// Step runs one decay tick. It is the frame callback of the decay loop and
// reschedules itself while either axis is still moving.
func (s *Scroller) Step() {
	s.cancel = nil
	now := s.clock()
	duration := now - s.timestamp
	s.timestamp = now
	movingX := s.x.Step(duration)
	movingY := s.y.Step(duration)
	if movingX || movingY {
		s.emit()
		s.schedule()
	}
}

// ScrollBy moves the active axis by delta outside of a drag, stopping any
// inertial motion. It is a no-op while a contact is tracked.
func (s *Scroller) ScrollBy(delta float64) {
	if s.contact != "" {
		return
	}
	s.stopDecay()
	s.timestamp = s.clock()
	if s.active().Jump(delta) {
		s.emit()
	}
}

// Clamp applies the current ranges to both offsets without stopping a drag
// or a decay in progress. Call it after SetMaxX/SetMaxY shrink a range.
func (s *Scroller) Clamp() {
	movedX := s.x.Clamp()
	movedY := s.y.Clamp()
	if movedX || movedY {
		s.emit()
	}
}

// Stop cancels a pending decay tick and zeroes both velocities.
func (s *Scroller) Stop() {
	s.stopDecay()
	if s.contact == "" {
		s.x.Jump(0)
		s.y.Jump(0)
	}
}

func (s *Scroller) schedule() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.frames == nil {
		return
	}
	s.cancel = s.frames.RequestFrame(s.Step)
}

func (s *Scroller) stopDecay() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// sign records this scroller's claim on e. The orthogonal axis is always
// held; the own axis is held only while the offset is strictly inside its
// range, so a scroller at a boundary lets the next one take over.
func (s *Scroller) sign(e *TouchEvent) {
	flags := &ScrollFlags{X: s.horizontal, Y: !s.horizontal}
	if !s.active().AtBoundary() {
		if s.horizontal {
			flags.X = false
		} else {
			flags.Y = false
		}
	}
	e.Scroll = flags
}

// check reports whether this scroller may process e. When an earlier
// scroller holds this axis the gesture is released instead.
func (s *Scroller) check(e *TouchEvent) bool {
	if e.Scroll == nil {
		return true
	}
	held := !e.Scroll.Y
	if s.horizontal {
		held = !e.Scroll.X
	}
	if held {
		s.TouchEnd()
		return false
	}
	return true
}

func (s *Scroller) emit() {
	if s.listener != nil {
		s.listener(s.Event())
	}
}
