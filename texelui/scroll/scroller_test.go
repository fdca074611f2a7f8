// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package scroll

import (
	"testing"
)

// fakeFrames queues frame callbacks until run is called.
type fakeFrames struct {
	pending []*fakeFrame
}

type fakeFrame struct {
	fn       func()
	canceled bool
}

func (f *fakeFrames) RequestFrame(fn func()) CancelFunc {
	fr := &fakeFrame{fn: fn}
	f.pending = append(f.pending, fr)
	return func() { fr.canceled = true }
}

// run executes the callbacks queued before the call and reports how many ran.
func (f *fakeFrames) run() int {
	batch := f.pending
	f.pending = nil
	ran := 0
	for _, fr := range batch {
		if fr.canceled {
			continue
		}
		fr.canceled = true
		fr.fn()
		ran++
	}
	return ran
}

func (f *fakeFrames) live() int {
	n := 0
	for _, fr := range f.pending {
		if !fr.canceled {
			n++
		}
	}
	return n
}

type fakeClock struct{ now float64 }

func (c *fakeClock) read() float64 { return c.now }

func touch(id string, x, y, ts float64) *TouchEvent {
	return &TouchEvent{
		Touches:   map[string]Point{id: {X: x, Y: y}},
		Timestamp: ts,
	}
}

func newTestScroller(horizontal bool, max float64) (*Scroller, *fakeFrames, *fakeClock, *[]Event) {
	frames := &fakeFrames{}
	clock := &fakeClock{}
	var events []Event
	s := NewScroller(func(e Event) { events = append(events, e) }, frames)
	s.SetClock(clock.read)
	s.SetHorizontal(horizontal)
	if horizontal {
		s.SetMaxX(max)
	} else {
		s.SetMaxY(max)
	}
	return s, frames, clock, &events
}

func TestScrollerDragAndFling(t *testing.T) {
	s, frames, clock, events := newTestScroller(false, 200)

	s.TouchStart(touch("1", 0, 50, 0))
	s.TouchMove(touch("1", 0, 40, 16))

	if len(*events) != 1 {
		t.Fatalf("events = %d, want 1", len(*events))
	}
	want := Event{X: 0, Y: 10, VX: 0, VY: 0.625, Timestamp: 16}
	if got := (*events)[0]; got != want {
		t.Fatalf("event = %+v, want %+v", got, want)
	}

	clock.now = 16
	s.TouchEnd()
	if s.Dragging() {
		t.Fatalf("still dragging after TouchEnd")
	}
	if !s.Settling() {
		t.Fatalf("expected a pending decay frame")
	}

	lastVY := (*events)[0].VY
	for i := 0; frames.live() > 0; i++ {
		if i > 200 {
			t.Fatalf("decay loop did not settle")
		}
		clock.now += 16
		frames.run()
	}

	decay := (*events)[1:]
	if len(decay) == 0 {
		t.Fatalf("expected decay events")
	}
	for i, e := range decay {
		if e.VY >= lastVY {
			t.Fatalf("decay event %d: vy %v did not decrease from %v", i, e.VY, lastVY)
		}
		if e.Y > 200 || e.Y < 0 {
			t.Fatalf("decay event %d: y %v out of range", i, e.Y)
		}
		lastVY = e.VY
	}
	if s.Y().Velocity() != 0 {
		t.Errorf("velocity = %v after settling, want 0", s.Y().Velocity())
	}
	if s.Settling() {
		t.Errorf("scroller still settling")
	}
	if got := s.Offset(); got <= 10 || got > 200 {
		t.Errorf("final offset = %v, want in (10,200]", got)
	}
}

func TestScrollerHorizontalDrivesX(t *testing.T) {
	s, _, _, events := newTestScroller(true, 100)

	s.TouchStart(touch("a", 80, 5, 0))
	s.TouchMove(touch("a", 60, 90, 10))

	e := (*events)[0]
	if e.X != 20 || e.VX != 2 {
		t.Errorf("x=%v vx=%v, want 20 and 2", e.X, e.VX)
	}
	if e.Y != 0 || e.VY != 0 {
		t.Errorf("vertical axis moved: y=%v vy=%v", e.Y, e.VY)
	}
}

func TestScrollerIgnoresOtherContacts(t *testing.T) {
	s, _, _, events := newTestScroller(false, 100)

	s.TouchStart(touch("1", 0, 50, 0))
	s.TouchStart(touch("2", 0, 10, 1))
	s.TouchMove(touch("2", 0, 0, 5))
	if len(*events) != 0 {
		t.Fatalf("move from untracked contact emitted %d events", len(*events))
	}

	s.TouchMove(touch("1", 0, 45, 5))
	if s.Offset() != 5 {
		t.Errorf("offset = %v, want 5", s.Offset())
	}
}

func TestScrollerIdleMoveIgnored(t *testing.T) {
	s, frames, _, events := newTestScroller(false, 100)
	s.TouchMove(touch("1", 0, 10, 5))
	s.TouchEnd()
	if len(*events) != 0 || frames.live() != 0 {
		t.Fatalf("idle scroller reacted: events=%d frames=%d", len(*events), frames.live())
	}

	s.TouchStart(nil)
	s.TouchStart(&TouchEvent{Timestamp: 3})
	if s.Dragging() {
		t.Errorf("start without contacts should stay idle")
	}
}

func TestScrollerSignFlags(t *testing.T) {
	tests := []struct {
		name       string
		horizontal bool
		from, to   float64
		want       ScrollFlags
	}{
		{"vertical mid-range holds both axes", false, 50, 40, ScrollFlags{X: false, Y: false}},
		{"vertical at top releases y", false, 50, 60, ScrollFlags{X: false, Y: true}},
		{"vertical at bottom releases y", false, 500, 0, ScrollFlags{X: false, Y: true}},
		{"horizontal mid-range holds both axes", true, 50, 40, ScrollFlags{X: false, Y: false}},
		{"horizontal at start releases x", true, 50, 60, ScrollFlags{X: true, Y: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _, _ := newTestScroller(tt.horizontal, 100)
			s.TouchStart(touch("1", tt.from, tt.from, 0))
			e := touch("1", tt.to, tt.to, 16)
			s.TouchMove(e)
			if e.Scroll == nil {
				t.Fatalf("event was not signed")
			}
			if *e.Scroll != tt.want {
				t.Errorf("flags = %+v, want %+v", *e.Scroll, tt.want)
			}
		})
	}
}

func TestScrollerYieldsToInnerMidRange(t *testing.T) {
	inner, _, _, innerEvents := newTestScroller(false, 100)
	outer, outerFrames, _, outerEvents := newTestScroller(false, 100)

	start := touch("1", 0, 50, 0)
	inner.TouchStart(start)
	outer.TouchStart(start)

	move := touch("1", 0, 40, 16)
	inner.TouchMove(move)
	outer.TouchMove(move)

	if len(*innerEvents) != 1 {
		t.Fatalf("inner events = %d, want 1", len(*innerEvents))
	}
	if len(*outerEvents) != 0 {
		t.Fatalf("outer emitted %d events, want 0", len(*outerEvents))
	}
	if outer.Dragging() {
		t.Errorf("outer should have released the gesture")
	}
	if outer.Offset() != 0 {
		t.Errorf("outer offset = %v, want 0", outer.Offset())
	}
	// Released without velocity: the single decay tick settles immediately.
	outerFrames.run()
	if len(*outerEvents) != 0 {
		t.Errorf("outer emitted after settling")
	}

	// Further moves go only to the inner scroller.
	next := touch("1", 0, 30, 32)
	inner.TouchMove(next)
	outer.TouchMove(next)
	if inner.Offset() != 20 || outer.Offset() != 0 {
		t.Errorf("offsets inner=%v outer=%v, want 20 and 0", inner.Offset(), outer.Offset())
	}
}

func TestScrollerHandsOffAtBoundary(t *testing.T) {
	inner, _, _, _ := newTestScroller(false, 0)
	outer, _, _, outerEvents := newTestScroller(false, 100)

	start := touch("1", 0, 50, 0)
	inner.TouchStart(start)
	outer.TouchStart(start)

	move := touch("1", 0, 40, 16)
	inner.TouchMove(move)
	if move.Scroll == nil || !move.Scroll.Y {
		t.Fatalf("inner at boundary should leave y free, got %+v", move.Scroll)
	}
	outer.TouchMove(move)

	if !outer.Dragging() {
		t.Fatalf("outer should keep the gesture")
	}
	if len(*outerEvents) != 1 || outer.Offset() != 10 {
		t.Errorf("outer events=%d offset=%v, want 1 and 10", len(*outerEvents), outer.Offset())
	}
}

func TestScrollerOrthogonalYields(t *testing.T) {
	inner, _, _, _ := newTestScroller(true, 100)
	outer, _, _, outerEvents := newTestScroller(false, 100)

	start := touch("1", 50, 50, 0)
	inner.TouchStart(start)
	outer.TouchStart(start)

	move := touch("1", 40, 40, 16)
	inner.TouchMove(move)
	outer.TouchMove(move)

	if outer.Dragging() || len(*outerEvents) != 0 {
		t.Errorf("vertical outer should yield to a horizontal scroller that signed first")
	}
}

func TestScrollerTouchStartCancelsDecay(t *testing.T) {
	s, frames, clock, events := newTestScroller(false, 1000)

	s.TouchStart(touch("1", 0, 500, 0))
	s.TouchMove(touch("1", 0, 400, 10))
	clock.now = 10
	s.TouchEnd()
	if frames.live() != 1 {
		t.Fatalf("pending frames = %d, want 1", frames.live())
	}

	s.TouchStart(touch("2", 0, 300, 20))
	if frames.live() != 0 {
		t.Fatalf("decay frame survived a new touch start")
	}
	if s.Settling() {
		t.Errorf("scroller still settling after touch start")
	}

	n := len(*events)
	clock.now = 26
	if ran := frames.run(); ran != 0 {
		t.Errorf("ran %d cancelled frames", ran)
	}
	if len(*events) != n {
		t.Errorf("cancelled decay emitted events")
	}

	s.TouchMove(touch("2", 0, 290, 30))
	if got := s.Offset(); got != 110 {
		t.Errorf("offset = %v, want 110", got)
	}
}

func TestScrollerScrollBy(t *testing.T) {
	s, frames, clock, events := newTestScroller(false, 30)
	clock.now = 5

	s.ScrollBy(20)
	s.ScrollBy(20)
	if s.Offset() != 30 {
		t.Fatalf("offset = %v, want 30", s.Offset())
	}
	if len(*events) != 2 {
		t.Fatalf("events = %d, want 2", len(*events))
	}
	s.ScrollBy(5)
	if len(*events) != 2 {
		t.Errorf("saturated ScrollBy emitted an event")
	}

	s.TouchStart(touch("1", 0, 10, 6))
	s.ScrollBy(-10)
	if s.Offset() != 30 {
		t.Errorf("ScrollBy applied during drag")
	}
	if frames.live() != 0 {
		t.Errorf("ScrollBy scheduled frames")
	}
}

func TestScrollerStop(t *testing.T) {
	s, frames, clock, _ := newTestScroller(false, 1000)
	s.TouchStart(touch("1", 0, 500, 0))
	s.TouchMove(touch("1", 0, 400, 10))
	clock.now = 10
	s.TouchEnd()

	s.Stop()
	if frames.live() != 0 || s.Settling() {
		t.Fatalf("Stop left a pending frame")
	}
	if s.Y().Velocity() != 0 {
		t.Errorf("velocity = %v, want 0", s.Y().Velocity())
	}
}

func TestScrollerMaxAccessors(t *testing.T) {
	s := NewScroller(nil, nil)
	if s.MaxX() != -1 || s.MaxY() != -1 {
		t.Fatalf("default bounds = %v,%v, want -1,-1", s.MaxX(), s.MaxY())
	}
	s.SetMaxX(10)
	s.SetMaxY(20)
	if s.MaxX() != 10 || s.MaxY() != 20 {
		t.Errorf("bounds = %v,%v, want 10,20", s.MaxX(), s.MaxY())
	}

	// Without a scheduler the release simply stops.
	s.TouchStart(touch("1", 0, 10, 0))
	s.TouchMove(touch("1", 0, 5, 5))
	s.TouchEnd()
	if s.Settling() {
		t.Errorf("settling without a scheduler")
	}
}

func TestScrollerClampKeepsDecay(t *testing.T) {
	s, frames, clock, events := newTestScroller(false, 200)
	s.TouchStart(touch("1", 0, 50, 0))
	s.TouchMove(touch("1", 0, 40, 16))
	clock.now = 16
	s.TouchEnd()
	clock.now = 32
	frames.run()
	vy := s.Y().Velocity()
	n := len(*events)

	s.Clamp()
	if len(*events) != n {
		t.Errorf("clamp inside range emitted an event")
	}
	if !s.Settling() || s.Y().Velocity() != vy {
		t.Fatalf("clamp stopped the decay")
	}

	s.SetMaxY(15)
	s.Clamp()
	if len(*events) != n+1 {
		t.Fatalf("events = %d, want %d", len(*events), n+1)
	}
	if e := (*events)[n]; e.Y != 15 || e.VY != vy {
		t.Errorf("event = %+v, want Y 15 VY %v", e, vy)
	}
	if !s.Settling() {
		t.Errorf("clamp cancelled the pending frame")
	}

	clock.now = 48
	frames.run()
	if frames.live() != 0 || s.Offset() != 15 {
		t.Errorf("decay past new bound: live=%d offset=%v", frames.live(), s.Offset())
	}
}
