// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/trace/replay.go
// Summary: Deterministic replay of a recorded gesture through a fresh scroller.

package trace

import (
	"github.com/framegrace/texelscroll/internal/frame"
	"github.com/framegrace/texelscroll/texelui/scroll"
	"github.com/framegrace/texelscroll/texelui/touch"
)

// MaxReplayFrames bounds the decay loop of a replay.
const MaxReplayFrames = 10000

// Replay feeds g's samples to a new scroller configured like the recorded
// one and steps decay frames every frameMs until it settles. It returns
// every event the scroller emitted. Decay starts at the release sample's
// timestamp rather than the live release time.
func Replay(g *Gesture, frameMs float64) []scroll.Event {
	if frameMs <= 0 {
		frameMs = 16
	}
	start := 0.0
	if len(g.Samples) > 0 {
		start = g.Samples[0].Timestamp
	}
	frames := frame.NewManual(start)

	var events []scroll.Event
	s := scroll.NewScroller(func(e scroll.Event) { events = append(events, e) }, frames)
	s.SetClock(frames.Now)
	s.SetHorizontal(g.Horizontal)
	s.SetMaxX(g.MaxX)
	s.SetMaxY(g.MaxY)
	s.X().Jump(g.OffsetX)
	s.Y().Jump(g.OffsetY)

	for _, smp := range g.Samples {
		frames.Set(smp.Timestamp)
		ev := &scroll.TouchEvent{
			Touches:   map[string]scroll.Point{smp.Contact: {X: smp.X, Y: smp.Y}},
			Timestamp: smp.Timestamp,
		}
		switch smp.Phase {
		case touch.PhaseStart:
			s.TouchStart(ev)
		case touch.PhaseMove:
			s.TouchMove(ev)
		case touch.PhaseEnd:
			s.TouchEnd()
		}
	}
	// A recording cut short still flings from its last sample.
	s.TouchEnd()

	n := frames.RunUntilIdle(frameMs, MaxReplayFrames)
	debugLog.Printf("Trace: replayed gesture %d: %d events, %d frames", g.ID, len(events), n)
	return events
}
