// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/viewer/driver.go
// Summary: Screen abstraction the pager renders to, with a tcell-backed implementation.
// Usage: cmd/texelscroll wraps tcell.NewScreen; tests substitute an in-memory grid.

package viewer

import "github.com/gdamore/tcell/v2"

// ScreenDriver is the subset of tcell.Screen the pager needs.
type ScreenDriver interface {
	Init() error
	Fini()
	Size() (int, int)
	SetStyle(style tcell.Style)
	HideCursor()
	EnableMouse()
	EnableFocus()
	Show()
	Sync()
	PollEvent() tcell.Event
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
}

// TcellScreenDriver adapts a tcell.Screen to ScreenDriver.
type TcellScreenDriver struct {
	screen tcell.Screen
}

// NewTcellScreenDriver wraps the provided screen.
func NewTcellScreenDriver(screen tcell.Screen) *TcellScreenDriver {
	return &TcellScreenDriver{screen: screen}
}

func (d *TcellScreenDriver) Init() error {
	return d.screen.Init()
}

func (d *TcellScreenDriver) Fini() {
	d.screen.Fini()
}

func (d *TcellScreenDriver) Size() (int, int) {
	return d.screen.Size()
}

func (d *TcellScreenDriver) SetStyle(style tcell.Style) {
	d.screen.SetStyle(style)
}

func (d *TcellScreenDriver) HideCursor() {
	d.screen.HideCursor()
}

// EnableMouse turns on button and drag reporting.
func (d *TcellScreenDriver) EnableMouse() {
	d.screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
}

// EnableFocus reports focus changes so a drag interrupted by a window switch
// can be ended.
func (d *TcellScreenDriver) EnableFocus() {
	d.screen.EnableFocus()
}

func (d *TcellScreenDriver) Show() {
	d.screen.Show()
}

func (d *TcellScreenDriver) Sync() {
	d.screen.Sync()
}

func (d *TcellScreenDriver) PollEvent() tcell.Event {
	return d.screen.PollEvent()
}

func (d *TcellScreenDriver) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	d.screen.SetContent(x, y, mainc, combc, style)
}
