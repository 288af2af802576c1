// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package compiler

import (
	"bytes"
	"context"
	"testing"

	"github.com/hashicorp/docworld/compiler/mock"
	"github.com/hashicorp/docworld/layout"
	"github.com/hashicorp/docworld/world"
	"github.com/hashicorp/hcl/v2"
	tmock "github.com/stretchr/testify/mock"
)

func testWorld(t *testing.T) *world.Provider {
	p, err := world.NewProvider()
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func onePageDocument(body string) *layout.Document {
	page := layout.NewPage(layout.A4Width, layout.A4Height)
	page.Add(&layout.Text{X: 70, Y: 80, Size: 11, FontIndex: -1, Body: body})
	return &layout.Document{Pages: []*layout.Page{page}}
}

func TestDriver_renderBeforeCompile(t *testing.T) {
	d := NewDriver(testWorld(t), mock.NewCompiler(t))

	pdf, err := d.RenderPDF()
	if err != nil {
		t.Fatal(err)
	}
	if len(pdf) != 0 {
		t.Fatalf("expected empty PDF, given %d bytes", len(pdf))
	}
	if svg := d.RenderSVG(); svg != `<pre class="typst-render-error">No document</pre>` {
		t.Fatalf("unexpected SVG: %q", svg)
	}
	if pages := d.RenderSVGPages(); len(pages) != 0 {
		t.Fatalf("expected no pages, given %d", len(pages))
	}
}

func TestDriver_Compile_success(t *testing.T) {
	w := testWorld(t)
	c := mock.NewCompiler(t)
	docA := onePageDocument("A")
	c.On("Compile", tmock.Anything, w).Return(docA, hcl.Diagnostics{
		{
			Severity: hcl.DiagWarning,
			Summary:  "Unknown font family",
			Detail:   `Family "Foo" is not available`,
			Subject: &hcl.Range{
				Filename: "/main.typ",
				Start:    hcl.Pos{Line: 1, Column: 2, Byte: 1},
				End:      hcl.Pos{Line: 1, Column: 10, Byte: 9},
			},
		},
		{
			Severity: hcl.DiagWarning,
			Summary:  "Second",
		},
	}).Once()

	d := NewDriver(w, c)
	result := d.Compile(context.Background())
	if !result.Success() {
		t.Fatalf("expected success, given %s", result.Text())
	}
	if result.ID == "" {
		t.Fatal("expected compilation ID")
	}

	expectedText := `warning: Unknown font family: Family "Foo" is not available (/main.typ:1,2-10)
warning: Second`
	if result.Text() != expectedText {
		t.Fatalf("unexpected text.\nexpected: %q\ngiven: %q", expectedText, result.Text())
	}
	if d.Document() != docA {
		t.Fatal("expected document to be retained")
	}

	pdf, err := d.RenderPDF()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Fatalf("expected PDF output, given %q", pdf)
	}
}

func TestDriver_Compile_failureRetainsDocument(t *testing.T) {
	w := testWorld(t)
	c := mock.NewCompiler(t)
	docA := onePageDocument("A")
	c.On("Compile", tmock.Anything, w).Return(docA, hcl.Diagnostics{}).Once()
	c.On("Compile", tmock.Anything, w).Return(nil, hcl.Diagnostics{
		{
			Severity: hcl.DiagWarning,
			Summary:  "Minor",
		},
		{
			Severity: hcl.DiagError,
			Summary:  "Unclosed delimiter",
			Subject: &hcl.Range{
				Filename: "/main.typ",
				Start:    hcl.Pos{Line: 3, Column: 1, Byte: 10},
				End:      hcl.Pos{Line: 3, Column: 4, Byte: 13},
			},
		},
	}).Once()

	d := NewDriver(w, c)
	if result := d.Compile(context.Background()); !result.Success() {
		t.Fatalf("expected first compilation to succeed: %s", result.Text())
	}
	svgA := d.RenderSVG()

	result := d.Compile(context.Background())
	if result.Success() {
		t.Fatal("expected failure")
	}
	expectedText := "warning: Minor\nerror: Unclosed delimiter (/main.typ:3,1-4)"
	if result.Text() != expectedText {
		t.Fatalf("unexpected text.\nexpected: %q\ngiven: %q", expectedText, result.Text())
	}
	if len(result.Errors()) != 1 || len(result.Warnings()) != 1 {
		t.Fatalf("unexpected diagnostics: %#v", result.Diagnostics)
	}

	if d.Document() != docA {
		t.Fatal("expected previous document to be kept")
	}
	if svg := d.RenderSVG(); svg != svgA {
		t.Fatal("expected rendering to reflect the previous document")
	}
}

func TestDriver_Compile_noDocument(t *testing.T) {
	w := testWorld(t)
	c := mock.NewCompiler(t)
	c.On("Compile", tmock.Anything, w).Return(nil, nil).Once()

	d := NewDriver(w, c)
	result := d.Compile(context.Background())
	if result.Success() {
		t.Fatal("expected failure without document")
	}
	if d.Document() != nil {
		t.Fatal("expected no document")
	}
}

func TestDriver_Compile_panic(t *testing.T) {
	w := testWorld(t)
	c := mock.NewCompiler(t)
	c.On("Compile", tmock.Anything, w).Run(func(args tmock.Arguments) {
		panic("boom")
	}).Once()

	d := NewDriver(w, c)
	result := d.Compile(context.Background())
	if result.Success() {
		t.Fatal("expected failure after panic")
	}
	if result.Text() != "error: Internal compiler error: boom" {
		t.Fatalf("unexpected text: %q", result.Text())
	}
}

func TestDriver_Compile_multilinePanic(t *testing.T) {
	w := testWorld(t)
	c := mock.NewCompiler(t)
	c.On("Compile", tmock.Anything, w).Run(func(args tmock.Arguments) {
		panic("first\nsecond")
	}).Once()

	d := NewDriver(w, c)
	result := d.Compile(context.Background())
	if result.Success() {
		t.Fatal("expected failure after panic")
	}
	if result.Text() != "error: Internal compiler error: first second" {
		t.Fatalf("unexpected text: %q", result.Text())
	}
}

func TestDriver_Compile_context(t *testing.T) {
	w := testWorld(t)
	c := mock.NewCompiler(t)

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "value")

	c.On("Compile", tmock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Value(ctxKey{}) == "value"
	}), w).Return(onePageDocument("A"), nil).Once()

	d := NewDriver(w, c)
	if result := d.Compile(ctx); !result.Success() {
		t.Fatalf("expected success: %s", result.Text())
	}
}
