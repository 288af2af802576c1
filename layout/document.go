// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package layout describes a laid out document: a sequence of fixed-size
// pages with positioned text runs and images. All measures are in points
// and coordinates have their origin at the top-left corner of a page.
package layout

// A4 page dimensions in points
const (
	A4Width  = 595.28
	A4Height = 841.89
)

type Document struct {
	Pages []*Page
}

func (d *Document) PageCount() int {
	if d == nil {
		return 0
	}
	return len(d.Pages)
}

// Height returns the height of all pages stacked vertically
// with gap points in between
func (d *Document) Height(gap float64) float64 {
	h := 0.0
	for i, p := range d.Pages {
		if i > 0 {
			h += gap
		}
		h += p.Height
	}
	return h
}

// Width returns the width of the widest page
func (d *Document) Width() float64 {
	w := 0.0
	for _, p := range d.Pages {
		if p.Width > w {
			w = p.Width
		}
	}
	return w
}

type Page struct {
	Width  float64
	Height float64
	Items  []Item
}

func NewPage(width, height float64) *Page {
	return &Page{
		Width:  width,
		Height: height,
		Items:  make([]Item, 0),
	}
}

func (p *Page) Add(item Item) {
	p.Items = append(p.Items, item)
}

// Item is a positioned element of a page, i.e. *Text or *Image
type Item interface {
	isItem()
}

// Text is a single run of text set in one face and size.
// Y is the baseline.
type Text struct {
	X, Y float64
	Size float64

	// Family, Bold and FontIndex identify the face the run is set in.
	// FontIndex is -1 when no face from the font book was used.
	Family    string
	Bold      bool
	FontIndex int

	Body string
}

func (*Text) isItem() {}

// Image is a raster image placed in the box at (X, Y)
type Image struct {
	X, Y          float64
	Width, Height float64

	// Format is the image format name as reported by image.DecodeConfig
	Format string
	Data   []byte
}

func (*Image) isItem() {}
