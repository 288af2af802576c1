// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package markup

import (
	"strings"

	"github.com/hashicorp/docworld/fonts"
	"github.com/hashicorp/docworld/layout"
)

const (
	pageMargin = 70.87 // 2.5cm

	defaultTextSize = 11.0
	lineSpacing     = 1.3
	paragraphGap    = 0.65 // in em
)

var headingScale = map[int]float64{
	1: 1.8,
	2: 1.4,
}

// textStyle is the style set by #set text(...) rules
type textStyle struct {
	family  string
	regular int // index into the font book or -1
	bold    int // index into the font book or -1
	size    float64
}

// FontLoader gives access to fonts by their index in the font book
type FontLoader interface {
	Font(index int) *fonts.Font
}

// typesetter lays out content top to bottom onto A4 pages
// with greedy line breaking
type typesetter struct {
	fonts FontLoader
	style textStyle

	doc  *layout.Document
	page *layout.Page
	y    float64

	para strings.Builder
}

func newTypesetter(fl FontLoader) *typesetter {
	ts := &typesetter{
		fonts: fl,
		style: textStyle{
			regular: -1,
			bold:    -1,
			size:    defaultTextSize,
		},
		doc: &layout.Document{
			Pages: make([]*layout.Page, 0),
		},
	}
	ts.newPage()
	return ts
}

func (ts *typesetter) document() *layout.Document {
	ts.endParagraph()
	return ts.doc
}

func (ts *typesetter) newPage() {
	ts.page = layout.NewPage(layout.A4Width, layout.A4Height)
	ts.doc.Pages = append(ts.doc.Pages, ts.page)
	ts.y = pageMargin
}

func (ts *typesetter) contentWidth() float64 {
	return ts.page.Width - 2*pageMargin
}

func (ts *typesetter) contentHeight() float64 {
	return ts.page.Height - 2*pageMargin
}

func (ts *typesetter) atTop() bool {
	return ts.y == pageMargin
}

// ensure starts a new page unless height fits onto the current one
func (ts *typesetter) ensure(height float64) {
	if ts.y+height > ts.page.Height-pageMargin && !ts.atTop() {
		ts.newPage()
	}
}

// addText appends text to the current paragraph
func (ts *typesetter) addText(text string) {
	ts.para.WriteString(text)
}

// endLine marks the end of a source line within a paragraph
func (ts *typesetter) endLine() {
	if ts.para.Len() > 0 {
		ts.para.WriteByte(' ')
	}
}

func (ts *typesetter) endParagraph() {
	words := strings.Fields(ts.para.String())
	ts.para.Reset()
	if len(words) == 0 {
		return
	}

	ts.setLines(words, ts.style.size, false)
	ts.y += ts.style.size * paragraphGap
}

func (ts *typesetter) heading(level int, title string) {
	ts.endParagraph()

	scale, ok := headingScale[level]
	if !ok {
		scale = 1.2
	}
	size := ts.style.size * scale

	if !ts.atTop() {
		ts.y += size * 0.5
	}
	words := strings.Fields(title)
	if len(words) == 0 {
		return
	}
	ts.setLines(words, size, true)
	ts.y += size * paragraphGap
}

func (ts *typesetter) pageBreak() {
	ts.endParagraph()
	ts.newPage()
}

func (ts *typesetter) image(format string, data []byte, pxWidth, pxHeight int) {
	ts.endParagraph()

	// pixels at 96 dpi
	w := float64(pxWidth) * 0.75
	h := float64(pxHeight) * 0.75
	if w <= 0 || h <= 0 {
		return
	}
	if maxW := ts.contentWidth(); w > maxW {
		h = h * maxW / w
		w = maxW
	}
	if maxH := ts.contentHeight(); h > maxH {
		w = w * maxH / h
		h = maxH
	}

	ts.ensure(h)
	ts.page.Add(&layout.Image{
		X:      pageMargin,
		Y:      ts.y,
		Width:  w,
		Height: h,
		Format: format,
		Data:   data,
	})
	ts.y += h + ts.style.size*paragraphGap
}

func (ts *typesetter) setLines(words []string, size float64, bold bool) {
	index, family := ts.face(bold)
	measure := ts.measurer(index)
	lineHeight := size * lineSpacing

	emit := func(line string) {
		ts.ensure(lineHeight)
		ts.page.Add(&layout.Text{
			X:         pageMargin,
			Y:         ts.y + size,
			Size:      size,
			Family:    family,
			Bold:      bold,
			FontIndex: index,
			Body:      line,
		})
		ts.y += lineHeight
	}

	maxWidth := ts.contentWidth()
	line := ""
	for _, word := range words {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if line != "" && measure(candidate, size) > maxWidth {
			emit(line)
			line = word
			continue
		}
		line = candidate
	}
	if line != "" {
		emit(line)
	}
}

// face returns the font book index and family of the face
// to set text in, or -1 if no face is loaded
func (ts *typesetter) face(bold bool) (int, string) {
	index := ts.style.regular
	if bold && ts.style.bold >= 0 {
		index = ts.style.bold
	}
	if index < 0 {
		return -1, ts.style.family
	}
	f := ts.fonts.Font(index)
	if f == nil {
		return -1, ts.style.family
	}
	return index, f.Info().Family
}

func (ts *typesetter) measurer(index int) func(string, float64) float64 {
	if index >= 0 {
		if f := ts.fonts.Font(index); f != nil {
			return f.Measure
		}
	}
	return fonts.MeasureFallback
}
