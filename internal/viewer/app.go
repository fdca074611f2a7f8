// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/viewer/app.go
// Summary: Runs the pager: terminal setup, event polling and redraw coalescing.

package viewer

import (
	"context"
	"errors"
	"fmt"

	"github.com/framegrace/texelscroll/internal/frame"
	"github.com/gdamore/tcell/v2"
)

// App drives a View on a screen. All View and Scroller access happens on the
// frame loop goroutine.
type App struct {
	screen ScreenDriver
	loop   *frame.Loop
	view   *View
}

// NewApp builds the pager for docs. Decay frames run on loop.
func NewApp(screen ScreenDriver, loop *frame.Loop, docs []*Document, opts Options) *App {
	return &App{
		screen: screen,
		loop:   loop,
		view:   NewView(docs, loop, opts),
	}
}

// View returns the pager state.
func (a *App) View() *View { return a.view }

// Run initialises the screen and processes events until the user quits or
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer a.screen.Fini()

	a.screen.SetStyle(a.view.base)
	a.screen.HideCursor()
	a.screen.EnableMouse()
	a.screen.EnableFocus()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.loop.SetIdle(func() {
		if a.view.Dirty() {
			a.view.Draw(a.screen)
		}
	})
	a.loop.Post(func() {
		w, h := a.screen.Size()
		a.view.Resize(w, h)
	})

	go a.poll(ctx, cancel)

	err := a.loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// poll forwards terminal events to the loop. PollEvent returns nil once the
// screen is finalised, which ends the goroutine.
func (a *App) poll(ctx context.Context, quit context.CancelFunc) {
	for {
		ev := a.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return
		}
		posted := a.loop.Post(func() {
			if _, ok := ev.(*tcell.EventResize); ok {
				a.screen.Sync()
			}
			if a.view.HandleEvent(ev) {
				quit()
			}
		})
		if !posted {
			return
		}
	}
}
