// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/frame/loop.go
// Summary: Real-time frame scheduler that runs callbacks on a single UI goroutine.
// Usage: The viewer posts input handling and frame callbacks here so scroller
// state is only ever touched from Run.

package frame

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/framegrace/texelscroll/texelui/scroll"
)

// DefaultInterval approximates one display refresh.
const DefaultInterval = 16 * time.Millisecond

// Loop serialises work onto the goroutine that calls Run. Frame requests are
// armed with time.AfterFunc and posted back to that goroutine when they fire.
type Loop struct {
	interval time.Duration
	work     chan func()
	stopped  chan struct{}
	stopOnce sync.Once
	pending  atomic.Int64
	idle     func()
}

type request struct {
	fn    func()
	timer *time.Timer
	done  atomic.Bool
}

// NewLoop creates a loop whose frames fire interval after being requested.
func NewLoop(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		interval: interval,
		work:     make(chan func(), 64),
		stopped:  make(chan struct{}),
	}
}

// Interval returns the frame interval.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// RequestFrame implements scroll.FrameScheduler.
func (l *Loop) RequestFrame(fn func()) scroll.CancelFunc {
	r := &request{fn: fn}
	l.pending.Add(1)
	r.timer = time.AfterFunc(l.interval, func() {
		l.Post(func() {
			if r.done.CompareAndSwap(false, true) {
				l.pending.Add(-1)
				r.fn()
			}
		})
	})
	return func() {
		if r.done.CompareAndSwap(false, true) {
			l.pending.Add(-1)
			r.timer.Stop()
		}
	}
}

// Pending returns the number of frame callbacks neither run nor cancelled.
func (l *Loop) Pending() int {
	return int(l.pending.Load())
}

// Post queues fn to run on the loop goroutine. It reports false once the
// loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stopped:
		return false
	default:
	}
	select {
	case l.work <- fn:
		return true
	case <-l.stopped:
		return false
	}
}

// SetIdle registers fn to run on the loop goroutine whenever the work queue
// drains. The viewer redraws from here so a burst of events costs one frame.
// Must be called before Run.
func (l *Loop) SetIdle(fn func()) {
	l.idle = fn
}

// Run executes posted work until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stopped:
			return nil
		case fn := <-l.work:
			fn()
			if l.idle != nil && len(l.work) == 0 {
				l.idle()
			}
		}
	}
}

// Stop makes Run return and rejects further posts.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopped) })
}
