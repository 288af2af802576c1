// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/docworld/fonts"
	"github.com/hashicorp/docworld/internal/fonttest"
	"github.com/hashicorp/docworld/layout"
)

type testFonts []*fonts.Font

func (tf testFonts) Font(index int) *fonts.Font {
	if index < 0 || index >= len(tf) {
		return nil
	}
	return tf[index]
}

func testPNG(t *testing.T) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.Black)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testDocument(t *testing.T) *layout.Document {
	p1 := layout.NewPage(layout.A4Width, layout.A4Height)
	p1.Add(&layout.Text{X: 70, Y: 90, Size: 22, Family: "Go", Bold: true, FontIndex: 0, Body: "Title"})
	p1.Add(&layout.Text{X: 70, Y: 120, Size: 11, FontIndex: -1, Body: "a < b & c"})
	p1.Add(&layout.Image{X: 70, Y: 140, Width: 40, Height: 40, Format: "png", Data: testPNG(t)})

	p2 := layout.NewPage(layout.A4Width, layout.A4Height)
	p2.Add(&layout.Text{X: 70, Y: 90, Size: 11, FontIndex: -1, Body: "second page"})

	return &layout.Document{Pages: []*layout.Page{p1, p2}}
}

func TestPDF(t *testing.T) {
	f, err := fonts.Decode(fonttest.Bold(), 0)
	if err != nil {
		t.Fatal(err)
	}
	doc := testDocument(t)
	ts := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

	out, err := PDF(doc, testFonts{f}, ts)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("expected PDF header, given %q", out[:8])
	}
}

func TestPDF_reproducible(t *testing.T) {
	doc := testDocument(t)
	ts := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

	first, err := PDF(doc, nil, ts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := PDF(doc, nil, ts)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("expected identical output for identical input")
	}
}

func TestPDF_empty(t *testing.T) {
	out, err := PDF(&layout.Document{}, nil, time.Unix(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("expected PDF header, given %q", out[:8])
	}
}

func TestSVGMerged(t *testing.T) {
	out := SVGMerged(testDocument(t), 5)

	if !strings.Contains(out, "<svg") {
		t.Fatalf("expected svg element, given %q", out)
	}
	// 2 * 841.89 + 5
	if !strings.Contains(out, `height="1689"`) {
		t.Fatalf("expected merged height, given %q", out)
	}
	if !strings.Contains(out, "a &lt; b &amp; c") {
		t.Fatalf("expected escaped text, given %q", out)
	}
	if !strings.Contains(out, "data:image/png;base64,") {
		t.Fatalf("expected inlined image, given %q", out)
	}
	if n := strings.Count(out, "<rect"); n != 2 {
		t.Fatalf("expected 2 page backgrounds, given %d", n)
	}
}

func TestSVGPages(t *testing.T) {
	pages := SVGPages(testDocument(t))
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, given %d", len(pages))
	}
	if !strings.Contains(pages[1], "second page") {
		t.Fatalf("unexpected second page: %q", pages[1])
	}
	if strings.Contains(pages[0], "second page") {
		t.Fatalf("first page contains second page content: %q", pages[0])
	}
}

func TestCSSFamily(t *testing.T) {
	testCases := []struct {
		family   string
		expected string
	}{
		{"", "sans-serif"},
		{"Go", "'Go',sans-serif"},
		{`Evil"; x:<y>`, "'Evil x:y',sans-serif"},
	}
	for _, tc := range testCases {
		if given := cssFamily(tc.family); given != tc.expected {
			t.Errorf("%q: expected %q, given %q", tc.family, tc.expected, given)
		}
	}
}
