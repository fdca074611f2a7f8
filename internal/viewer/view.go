// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/viewer/view.go
// Summary: Pager layout, input routing and rendering for stacked documents.
// Usage: App owns a View and feeds it tcell events on the frame loop goroutine.
// Notes: Every section has its own vertical Scroller nested inside the outer
// document Scroller. Drags are dispatched innermost first so a section that
// can still scroll keeps the gesture and the outer scroller takes over once
// the section sits at a boundary.

package viewer

import (
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/framegrace/texelscroll/internal/trace"
	"github.com/framegrace/texelscroll/texelui/scroll"
	"github.com/framegrace/texelscroll/texelui/touch"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

var debugLog = log.New(io.Discard, "", log.LstdFlags)

// SetVerboseLogging toggles viewer debug output. Enabled output goes wherever
// the standard logger writes at the time of the call.
func SetVerboseLogging(enable bool) {
	if enable {
		debugLog.SetOutput(log.Writer())
	} else {
		debugLog.SetOutput(io.Discard)
	}
}

// outerLabel names the document scroller in recorded gestures.
const outerLabel = "document"

// Options configures layout and input handling.
type Options struct {
	// SectionHeight is the number of text rows shown per file when more
	// than one file is open.
	SectionHeight int
	// WheelStep is the number of rows one wheel notch scrolls.
	WheelStep  int
	Indicators bool
	// DragButton is the mouse button that acts as the finger.
	DragButton tcell.ButtonMask
}

type section struct {
	doc      *Document
	scroller *scroll.Scroller
	top      int // content row of the header
	window   int // text rows below the header
	gutter   int
}

// View lays out documents and routes input to their scrollers.
type View struct {
	opts     Options
	sections []*section
	outer    *scroll.Scroller

	width, height int
	content       int
	base          tcell.Style
	indicator     IndicatorConfig

	tracker  touch.Tracker
	router   touch.Router
	recorder *trace.Recorder
	dirty    bool
}

// NewView stacks docs and schedules decay on frames.
func NewView(docs []*Document, frames scroll.FrameScheduler, opts Options) *View {
	if opts.SectionHeight < 1 {
		opts.SectionHeight = 12
	}
	if opts.WheelStep <= 0 {
		opts.WheelStep = 3
	}
	v := &View{opts: opts, base: tcell.StyleDefault}
	if len(docs) > 0 {
		v.base = docs[0].Base
	}
	v.indicator = DefaultIndicatorConfig(v.base.Bold(true))
	v.tracker.Button = opts.DragButton

	listener := func(scroll.Event) { v.dirty = true }
	v.outer = scroll.NewScroller(listener, frames)
	for _, d := range docs {
		v.sections = append(v.sections, &section{
			doc:      d,
			scroller: scroll.NewScroller(listener, frames),
			gutter:   len(strconv.Itoa(len(d.Lines))) + 2,
		})
	}
	return v
}

// SetRecorder records every drag gesture into r. Nil disables recording.
func (v *View) SetRecorder(r *trace.Recorder) {
	v.recorder = r
}

// SetClock replaces the clock of every scroller and stamps drag samples
// with it instead of the mouse event time.
func (v *View) SetClock(c scroll.Clock) {
	v.tracker.Clock = c
	v.outer.SetClock(c)
	for _, s := range v.sections {
		s.scroller.SetClock(c)
	}
}

// Outer returns the scroller that moves the whole stack.
func (v *View) Outer() *scroll.Scroller { return v.outer }

// Sections returns the number of stacked documents.
func (v *View) Sections() int { return len(v.sections) }

// Section returns the scroller of the i-th document.
func (v *View) Section(i int) *scroll.Scroller { return v.sections[i].scroller }

// Dirty reports whether the view changed since the last Draw.
func (v *View) Dirty() bool { return v.dirty }

// Size returns the viewport size in cells.
func (v *View) Size() (int, int) { return v.width, v.height }

// Resize sets the viewport and recomputes every scroll range.
func (v *View) Resize(w, h int) {
	v.width, v.height = w, h
	v.layout()
}

func (v *View) layout() {
	top := 0
	for _, s := range v.sections {
		n := len(s.doc.Lines)
		s.window = min(v.opts.SectionHeight, n)
		if len(v.sections) == 1 {
			s.window = v.height - 1
		}
		if s.window < 1 {
			s.window = 1
		}
		s.top = top
		top += 1 + s.window
		s.scroller.SetMaxY(float64(n - s.window))
		s.scroller.Clamp()
	}
	v.content = top
	v.outer.SetMaxY(float64(top - v.height))
	v.outer.Clamp()
	v.dirty = true
}

// windowRect is the on-screen area of a section's text rows, unclipped.
func (v *View) windowRect(s *section) rect {
	return rect{X: 0, Y: s.top + 1 - int(v.outer.Offset()), W: v.width, H: s.window}
}

// hit returns the section whose text window contains the screen cell.
func (v *View) hit(x, y int) *section {
	for _, s := range v.sections {
		if v.windowRect(s).contains(x, y) {
			return s
		}
	}
	return nil
}

// HandleEvent dispatches one tcell event. It reports whether the user asked
// to quit.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		v.Resize(w, h)
	case *tcell.EventKey:
		return v.HandleKey(ev)
	case *tcell.EventMouse:
		v.HandleMouse(ev)
	case *tcell.EventFocus:
		if !ev.Focused {
			v.cancelGesture()
		}
	}
	return false
}

// cancelGesture ends a drag whose release will never be reported, as when
// the terminal loses focus with the button held. The scrollers fling from
// their last sample and the next press starts a fresh chain.
func (v *View) cancelGesture() {
	if !v.tracker.Active() && !v.router.Active() {
		return
	}
	debugLog.Printf("viewer: gesture cancelled")
	v.tracker.Reset()
	v.router.Cancel()
	v.saveGesture()
}

// HandleMouse turns wheel notches into programmatic scrolls and drags of
// the drag button into touch gestures.
func (v *View) HandleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	if btn := ev.Buttons(); btn&(tcell.WheelUp|tcell.WheelDown) != 0 {
		delta := float64(v.opts.WheelStep)
		if btn&tcell.WheelUp != 0 {
			delta = -delta
		}
		v.wheelTarget(x, y, delta).ScrollBy(delta)
		return
	}

	phase, te := v.tracker.Translate(ev)
	if phase == touch.PhaseNone {
		return
	}
	if phase == touch.PhaseStart {
		v.begin(x, y)
	}
	v.router.Dispatch(phase, te)
	v.record(phase, te)
}

// begin fixes the dispatch chain for a drag starting at the screen cell.
func (v *View) begin(x, y int) {
	chain := make([]touch.Target, 0, 2)
	inner, label := v.outer, outerLabel
	if s := v.hit(x, y); s != nil {
		chain = append(chain, s.scroller)
		inner, label = s.scroller, s.doc.Name
	}
	chain = append(chain, v.outer)
	v.router.Begin(chain...)
	debugLog.Printf("viewer: gesture on %s at %d,%d (%d targets)", label, x, y, len(chain))
	if v.recorder != nil {
		v.recorder.Begin(label, inner)
	}
}

func (v *View) record(phase touch.Phase, te *scroll.TouchEvent) {
	if v.recorder == nil {
		return
	}
	v.recorder.Sample(phase, te)
	if phase == touch.PhaseEnd {
		v.saveGesture()
	}
}

func (v *View) saveGesture() {
	if v.recorder == nil || !v.recorder.Recording() {
		return
	}
	id, err := v.recorder.End()
	if err != nil {
		log.Printf("viewer: %v", err)
		return
	}
	if id != 0 {
		debugLog.Printf("viewer: recorded gesture %d", id)
	}
}

// wheelTarget picks the section under the pointer while it can still move
// in the wheel direction, and the outer scroller otherwise.
func (v *View) wheelTarget(x, y int, delta float64) *scroll.Scroller {
	if s := v.hit(x, y); s != nil {
		a := s.scroller.Y()
		if (delta < 0 && a.Offset() > 0) || (delta > 0 && a.Offset() < a.Max()) {
			return s.scroller
		}
	}
	return v.outer
}

// keyTarget is the outer scroller, or the only section when the stack fits.
func (v *View) keyTarget() *scroll.Scroller {
	if !v.outer.Y().Scrollable() && len(v.sections) == 1 {
		return v.sections[0].scroller
	}
	return v.outer
}

// HandleKey applies navigation keys. It reports whether the key quits.
func (v *View) HandleKey(ev *tcell.EventKey) bool {
	t := v.keyTarget()
	page := float64(max(v.height-1, 1))
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		t.ScrollBy(-1)
	case tcell.KeyDown, tcell.KeyEnter:
		t.ScrollBy(1)
	case tcell.KeyPgUp:
		t.ScrollBy(-page)
	case tcell.KeyPgDn:
		t.ScrollBy(page)
	case tcell.KeyHome:
		t.ScrollBy(-t.Offset())
	case tcell.KeyEnd:
		t.ScrollBy(t.MaxY() - t.Offset())
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case 'k':
			t.ScrollBy(-1)
		case 'j':
			t.ScrollBy(1)
		case ' ':
			t.ScrollBy(page)
		case 'b':
			t.ScrollBy(-page)
		case 'g':
			t.ScrollBy(-t.Offset())
		case 'G':
			t.ScrollBy(t.MaxY() - t.Offset())
		}
	}
	return false
}

// Draw renders the visible part of the stack and shows the screen.
func (v *View) Draw(screen ScreenDriver) {
	v.dirty = false
	for y := 0; y < v.height; y++ {
		for x := 0; x < v.width; x++ {
			screen.SetContent(x, y, ' ', nil, v.base)
		}
	}

	outerTop := int(v.outer.Offset())
	for _, s := range v.sections {
		hy := s.top - outerTop
		if hy >= v.height {
			break
		}
		if hy+1+s.window <= 0 {
			continue
		}
		if hy >= 0 {
			v.drawHeader(screen, s, hy)
		}
		innerTop := int(s.scroller.Offset())
		for i := 0; i < s.window; i++ {
			y := hy + 1 + i
			if y < 0 {
				continue
			}
			if y >= v.height {
				break
			}
			v.drawRow(screen, s, innerTop+i, y)
		}
		if v.opts.Indicators {
			drawIndicators(screen, v.clip(v.windowRect(s)), axisIndicators(s.scroller.Y()), v.indicator)
		}
	}

	if v.opts.Indicators {
		cfg := v.indicator
		cfg.Position = IndicatorLeft
		drawIndicators(screen, rect{W: v.width, H: v.height}, axisIndicators(v.outer.Y()), cfg)
	}
	screen.Show()
}

func (v *View) clip(r rect) rect {
	if r.Y < 0 {
		r.H += r.Y
		r.Y = 0
	}
	if r.Y+r.H > v.height {
		r.H = v.height - r.Y
	}
	return r
}

func (v *View) drawHeader(screen ScreenDriver, s *section, y int) {
	st := v.base.Reverse(true).Bold(true)
	for x := 0; x < v.width; x++ {
		screen.SetContent(x, y, ' ', nil, st)
	}
	title := fmt.Sprintf(" %s  %s  %d lines", s.doc.Name, s.doc.Language, len(s.doc.Lines))
	if s.doc.Language == "" {
		title = fmt.Sprintf(" %s  %d lines", s.doc.Name, len(s.doc.Lines))
	}
	x := 0
	for _, r := range title {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > v.width {
			break
		}
		screen.SetContent(x, y, r, nil, st)
		x += w
	}
}

func (v *View) drawRow(screen ScreenDriver, s *section, li, y int) {
	if li < 0 || li >= len(s.doc.Lines) {
		return
	}
	num := strconv.Itoa(li + 1)
	gutterStyle := v.base.Dim(true)
	x := s.gutter - 1 - len(num)
	for _, r := range num {
		if x >= v.width {
			return
		}
		screen.SetContent(x, y, r, nil, gutterStyle)
		x++
	}
	x = s.gutter
	for _, c := range s.doc.Lines[li] {
		if x+c.Width > v.width {
			break
		}
		screen.SetContent(x, y, c.Ch, nil, c.Style)
		x += c.Width
	}
}
