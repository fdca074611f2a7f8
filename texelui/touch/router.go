// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/touch/router.go
// Summary: Delivers one touch event to an ordered chain of scroll targets.

package touch

import "github.com/framegrace/texelscroll/texelui/scroll"

// Target receives touch lifecycle callbacks. *scroll.Scroller implements it.
type Target interface {
	TouchStart(e *scroll.TouchEvent)
	TouchMove(e *scroll.TouchEvent)
	TouchEnd()
}

var _ Target = (*scroll.Scroller)(nil)

// Router holds the dispatch chain of the current gesture, innermost first.
// Every target sees the same *TouchEvent, so a target's scroll flags are
// visible to the ones after it.
type Router struct {
	chain []Target
}

// Begin fixes the chain for the next gesture, ending any gesture in flight.
func (r *Router) Begin(targets ...Target) {
	r.Cancel()
	r.chain = append(r.chain[:0], targets...)
}

// Active reports whether a gesture chain is set.
func (r *Router) Active() bool { return len(r.chain) > 0 }

// Dispatch delivers ev for phase to the chain. PhaseEnd clears the chain.
func (r *Router) Dispatch(phase Phase, ev *scroll.TouchEvent) {
	switch phase {
	case PhaseStart:
		for _, t := range r.chain {
			t.TouchStart(ev)
		}
	case PhaseMove:
		for _, t := range r.chain {
			t.TouchMove(ev)
		}
	case PhaseEnd:
		r.Cancel()
	}
}

// Cancel ends the gesture on every target and clears the chain.
func (r *Router) Cancel() {
	for _, t := range r.chain {
		t.TouchEnd()
	}
	r.chain = r.chain[:0]
}
