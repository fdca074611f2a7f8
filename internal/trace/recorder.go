// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/trace/recorder.go
// Summary: Buffers the samples of the gesture in progress and saves it on release.

package trace

import (
	"fmt"

	"github.com/framegrace/texelscroll/texelui/scroll"
	"github.com/framegrace/texelscroll/texelui/touch"
)

// Recorder captures one gesture at a time for a single scroller.
type Recorder struct {
	store   *Store
	keep    int
	current *Gesture
}

// NewRecorder records into store. When keep > 0 older gestures are pruned
// after each save so at most keep remain.
func NewRecorder(store *Store, keep int) *Recorder {
	return &Recorder{store: store, keep: keep}
}

// Recording reports whether a gesture is being captured.
func (r *Recorder) Recording() bool { return r.current != nil }

// Begin snapshots the scroller configuration for a new gesture. A gesture
// that was never ended is discarded.
func (r *Recorder) Begin(label string, s *scroll.Scroller) {
	r.current = &Gesture{
		Label:      label,
		Horizontal: s.Horizontal(),
		MaxX:       s.MaxX(),
		MaxY:       s.MaxY(),
		OffsetX:    s.X().Offset(),
		OffsetY:    s.Y().Offset(),
	}
}

// Sample appends ev under phase. Events without the tracked contact are
// recorded with an empty position.
func (r *Recorder) Sample(phase touch.Phase, ev *scroll.TouchEvent) {
	if r.current == nil || ev == nil || phase == touch.PhaseNone {
		return
	}
	p := ev.Touches[touch.ContactID]
	r.current.Samples = append(r.current.Samples, Sample{
		Phase:     phase,
		Contact:   touch.ContactID,
		X:         p.X,
		Y:         p.Y,
		Timestamp: ev.Timestamp,
	})
}

// End saves the gesture in progress and returns its id. Gestures without a
// move are dropped and report id 0.
func (r *Recorder) End() (int64, error) {
	g := r.current
	r.current = nil
	if g == nil || !hasMove(g) {
		return 0, nil
	}
	id, err := r.store.Save(g)
	if err != nil {
		return 0, fmt.Errorf("record gesture: %w", err)
	}
	if r.keep > 0 {
		if _, err := r.store.Prune(r.keep); err != nil {
			return id, err
		}
	}
	return id, nil
}

func hasMove(g *Gesture) bool {
	for _, s := range g.Samples {
		if s.Phase == touch.PhaseMove {
			return true
		}
	}
	return false
}
