// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/viewer/indicators.go
// Summary: ▲/▼ glyphs marking content hidden above or below a scroll region.

package viewer

import (
	"github.com/framegrace/texelscroll/texelui/scroll"
	"github.com/gdamore/tcell/v2"
)

// IndicatorPosition specifies the edge indicators are drawn on.
type IndicatorPosition int

const (
	IndicatorRight IndicatorPosition = iota
	IndicatorLeft
)

const (
	DefaultUpGlyph   = '▲'
	DefaultDownGlyph = '▼'
)

// IndicatorConfig configures the appearance of scroll indicators.
type IndicatorConfig struct {
	Position  IndicatorPosition
	Style     tcell.Style
	UpGlyph   rune
	DownGlyph rune
}

// DefaultIndicatorConfig returns a right-edge configuration with the
// standard glyphs.
func DefaultIndicatorConfig(style tcell.Style) IndicatorConfig {
	return IndicatorConfig{
		Position:  IndicatorRight,
		Style:     style,
		UpGlyph:   DefaultUpGlyph,
		DownGlyph: DefaultDownGlyph,
	}
}

// rect is a screen region in cells.
type rect struct {
	X, Y, W, H int
}

func (r rect) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// indicatorState reports which directions of an axis have hidden content.
type indicatorState struct {
	up, down bool
}

func axisIndicators(a *scroll.Axis) indicatorState {
	return indicatorState{
		up:   a.Offset() > 0,
		down: a.Offset() < a.Max(),
	}
}

// drawIndicators puts the up glyph on the first row of r and the down glyph
// on its last row when the state calls for them.
func drawIndicators(screen ScreenDriver, r rect, state indicatorState, config IndicatorConfig) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	x := r.X + r.W - 1
	if config.Position == IndicatorLeft {
		x = r.X
	}
	if state.up {
		glyph := config.UpGlyph
		if glyph == 0 {
			glyph = DefaultUpGlyph
		}
		screen.SetContent(x, r.Y, glyph, nil, config.Style)
	}
	if state.down {
		glyph := config.DownGlyph
		if glyph == 0 {
			glyph = DefaultDownGlyph
		}
		screen.SetContent(x, r.Y+r.H-1, glyph, nil, config.Style)
	}
}
