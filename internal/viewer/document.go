// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/viewer/document.go
// Summary: Loads a file into syntax-highlighted rows of terminal cells.
// Usage: The pager stacks one Document per file argument.

package viewer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
	"github.com/go-enry/go-enry/v2"
	"github.com/mattn/go-runewidth"
)

const defaultStyleName = "catppuccin-mocha"

// Cell is one glyph of a rendered row. Width is the number of terminal
// columns the glyph occupies.
type Cell struct {
	Ch    rune
	Width int
	Style tcell.Style
}

// Line is one rendered row.
type Line []Cell

// Width returns the number of columns the row occupies.
func (l Line) Width() int {
	w := 0
	for _, c := range l {
		w += c.Width
	}
	return w
}

// Document is a highlighted file ready to draw.
type Document struct {
	Name     string
	Language string
	Lines    []Line
	// Base is the style of unhighlighted text and empty cells.
	Base tcell.Style
}

// RenderOptions controls how source text becomes cells.
type RenderOptions struct {
	Style    string
	TabWidth int
}

// LoadDocument reads path and highlights it.
func LoadDocument(path string, opts RenderOptions) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return NewDocument(path, src, opts), nil
}

// NewDocument highlights src. name is used for language detection and as
// the section title.
func NewDocument(name string, src []byte, opts RenderOptions) *Document {
	if opts.TabWidth <= 0 {
		opts.TabWidth = 4
	}
	style := chromaStyle(opts.Style)
	base := baseStyle(style)
	doc := &Document{Name: name, Base: base}

	if enry.IsBinary(src) {
		doc.Language = "binary"
		doc.Lines = []Line{plainLine(fmt.Sprintf("(binary file, %d bytes)", len(src)), base.Dim(true))}
		return doc
	}

	doc.Language = enry.GetLanguage(filepath.Base(name), src)
	text := string(src)
	lexer := chroma.Coalesce(getLexer(doc.Language, name, text))
	tokens, err := chroma.Tokenise(lexer, nil, text)
	if err != nil {
		debugLog.Printf("viewer: tokenise %s: %v", name, err)
		tokens = []chroma.Token{{Type: chroma.Text, Value: text}}
	}

	b := lineBuilder{tabWidth: opts.TabWidth}
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		st := tokenStyle(style.Get(tok.Type), base)
		for _, r := range tok.Value {
			b.add(r, st)
		}
	}
	doc.Lines = b.finish()
	return doc
}

// Width returns the widest row.
func (d *Document) Width() int {
	w := 0
	for _, l := range d.Lines {
		if lw := l.Width(); lw > w {
			w = lw
		}
	}
	return w
}

type lineBuilder struct {
	tabWidth int
	lines    []Line
	cur      Line
	col      int
}

func (b *lineBuilder) add(r rune, st tcell.Style) {
	switch r {
	case '\n':
		b.lines = append(b.lines, b.cur)
		b.cur = nil
		b.col = 0
		return
	case '\r':
		return
	case '\t':
		n := b.tabWidth - b.col%b.tabWidth
		for i := 0; i < n; i++ {
			b.cur = append(b.cur, Cell{Ch: ' ', Width: 1, Style: st})
		}
		b.col += n
		return
	}
	w := runewidth.RuneWidth(r)
	if w == 0 {
		// Combining marks and control characters have no cell of their own.
		return
	}
	b.cur = append(b.cur, Cell{Ch: r, Width: w, Style: st})
	b.col += w
}

func (b *lineBuilder) finish() []Line {
	if len(b.cur) > 0 || len(b.lines) == 0 {
		b.lines = append(b.lines, b.cur)
	}
	return b.lines
}

func plainLine(s string, st tcell.Style) Line {
	var l Line
	for _, r := range s {
		l = append(l, Cell{Ch: r, Width: runewidth.RuneWidth(r), Style: st})
	}
	return l
}

// chromaStyle resolves a style name, falling back to the default.
func chromaStyle(name string) *chroma.Style {
	if name == "" {
		name = defaultStyleName
	}
	return styles.Get(name)
}

// getLexer prefers the enry language, then the file name, then content
// analysis.
func getLexer(language, name, text string) chroma.Lexer {
	if language != "" {
		if l := lexers.Get(language); l != nil {
			return l
		}
	}
	if l := lexers.Match(filepath.Base(name)); l != nil {
		return l
	}
	if l := lexers.Analyse(text); l != nil {
		return l
	}
	return lexers.Fallback
}

func baseStyle(style *chroma.Style) tcell.Style {
	entry := style.Get(chroma.Background)
	st := tcell.StyleDefault
	if entry.Colour.IsSet() {
		st = st.Foreground(tcellColor(entry.Colour))
	}
	if entry.Background.IsSet() {
		st = st.Background(tcellColor(entry.Background))
	}
	return st
}

func tokenStyle(entry chroma.StyleEntry, base tcell.Style) tcell.Style {
	st := base
	if entry.Colour.IsSet() {
		st = st.Foreground(tcellColor(entry.Colour))
	}
	if entry.Bold == chroma.Yes {
		st = st.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		st = st.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		st = st.Underline(true)
	}
	return st
}

func tcellColor(c chroma.Colour) tcell.Color {
	return tcell.NewRGBColor(int32(c.Red()), int32(c.Green()), int32(c.Blue()))
}
