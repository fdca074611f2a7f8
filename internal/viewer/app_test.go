// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewer

import (
	"context"
	"testing"
	"time"

	"github.com/framegrace/texelscroll/internal/frame"
	"github.com/gdamore/tcell/v2"
)

func TestAppRunQuitsOnKey(t *testing.T) {
	screen := newStubScreen(40, 10)
	loop := frame.NewLoop(time.Millisecond)
	app := NewApp(screen, loop, []*Document{makeDoc("a.txt", 50)}, Options{Indicators: true})

	screen.events <- tcell.NewEventMouse(2, 5, tcell.WheelDown, tcell.ModNone)
	screen.events <- tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after q")
	}

	if !screen.mouse || !screen.focus {
		t.Errorf("mouse=%v focus=%v reporting not enabled", screen.mouse, screen.focus)
	}
	if screen.showCount == 0 {
		t.Errorf("screen never drawn")
	}
	if w, h := app.View().Size(); w != 40 || h != 10 {
		t.Errorf("view size = %dx%d", w, h)
	}
	if got := app.View().Section(0).Offset(); got != 3 {
		t.Errorf("offset after wheel = %v, want 3", got)
	}
}

func TestAppRunStopsOnCancel(t *testing.T) {
	screen := newStubScreen(40, 10)
	loop := frame.NewLoop(time.Millisecond)
	app := NewApp(screen, loop, []*Document{makeDoc("a.txt", 5)}, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
