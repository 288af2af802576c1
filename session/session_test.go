// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package session

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/docworld/compiler/mock"
	"github.com/hashicorp/docworld/internal/fonttest"
	"github.com/hashicorp/docworld/internal/settings"
	"github.com/hashicorp/docworld/layout"
	"github.com/hashicorp/docworld/world"
	"github.com/hashicorp/hcl/v2"
	tmock "github.com/stretchr/testify/mock"
)

func newTestSession(t *testing.T) *Session {
	s, err := NewSession()
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSession_renderBeforeCompile(t *testing.T) {
	s := newTestSession(t)

	pdf, err := s.RenderPDF()
	if err != nil {
		t.Fatal(err)
	}
	if len(pdf) != 0 {
		t.Fatalf("expected empty PDF, given %d bytes", len(pdf))
	}
	if svg := s.RenderSVG(); svg != `<pre class="typst-render-error">No document</pre>` {
		t.Fatalf("unexpected SVG: %q", svg)
	}
}

func TestSession_endToEnd(t *testing.T) {
	s := newTestSession(t)

	err := s.SetFonts([]world.FontInput{{Path: "go.ttf", Data: fonttest.Regular()}})
	if err != nil {
		t.Fatal(err)
	}
	s.SetInputs(map[string]string{"who": "host"})
	err = s.SetSourcesAndFiles([]world.SourceInput{
		{Path: "main.typ", Text: "#set text(font: \"Go\")\n= Report\n\nWritten by #sys.inputs.who.\n#include(\"appendix.typ\")"},
		{Path: "appendix.typ", Text: "#pagebreak()\nAppendix"},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	result := s.Compile(context.Background())
	if !result.Success() {
		t.Fatalf("expected success, given: %s", result.Text())
	}
	if result.Text() != "" {
		t.Fatalf("expected no warnings, given: %s", result.Text())
	}

	pdf, err := s.RenderPDF()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Fatalf("expected PDF, given %q", pdf)
	}

	svg := s.RenderSVG()
	if !strings.Contains(svg, "Written by host.") {
		t.Fatalf("expected rendered input in SVG: %s", svg)
	}
	if pages := s.RenderSVGPages(); len(pages) != 2 {
		t.Fatalf("expected 2 pages, given %d", len(pages))
	}
}

func TestSession_failureKeepsDocument(t *testing.T) {
	s := newTestSession(t)

	err := s.AddSource("main.typ", "Version A")
	if err != nil {
		t.Fatal(err)
	}
	if result := s.Compile(context.Background()); !result.Success() {
		t.Fatalf("expected success, given: %s", result.Text())
	}
	svgA := s.RenderSVG()

	err = s.AddSource("main.typ", "Version B #include(\"missing.typ\")")
	if err != nil {
		t.Fatal(err)
	}
	result := s.Compile(context.Background())
	if result.Success() {
		t.Fatal("expected failure")
	}
	if !strings.HasPrefix(result.Text(), "error: Failed to include file") {
		t.Fatalf("unexpected diagnostics: %s", result.Text())
	}

	if svg := s.RenderSVG(); svg != svgA {
		t.Fatal("expected render to reflect the last successful compilation")
	}
	if !strings.Contains(svgA, "Version A") {
		t.Fatalf("unexpected SVG: %s", svgA)
	}
}

func TestSession_Configure(t *testing.T) {
	s := newTestSession(t)

	err := s.Configure(&settings.Options{
		EntryPath: "docs/index.typ",
		Inputs:    map[string]string{"title": "Configured"},
	})
	if err != nil {
		t.Fatal(err)
	}

	err = s.AddSource("docs/index.typ", "#sys.inputs.title")
	if err != nil {
		t.Fatal(err)
	}
	if result := s.Compile(context.Background()); !result.Success() {
		t.Fatalf("expected success, given: %s", result.Text())
	}
	if svg := s.RenderSVG(); !strings.Contains(svg, "Configured") {
		t.Fatalf("expected configured input in SVG: %s", svg)
	}

	err = s.Configure(&settings.Options{EntryPath: "/abs.typ"})
	if err == nil {
		t.Fatal("expected invalid options to be rejected")
	}
}

func TestSession_mutationWaitsForCompile(t *testing.T) {
	c := mock.NewCompiler(t)
	s, err := NewSessionWithCompiler(c)
	if err != nil {
		t.Fatal(err)
	}

	started := make(chan struct{})
	release := make(chan struct{})
	c.On("Compile", tmock.Anything, tmock.Anything).Run(func(args tmock.Arguments) {
		close(started)
		<-release
	}).Return(func(ctx context.Context, w world.World) (*layout.Document, hcl.Diagnostics) {
		// the world must still hold the sources seen when compilation started
		if text := w.Main().Text; text != "before" {
			return nil, hcl.Diagnostics{{Severity: hcl.DiagError, Summary: "mutated: " + text}}
		}
		return &layout.Document{Pages: []*layout.Page{layout.NewPage(100, 100)}}, nil
	}, nil).Once()

	if err := s.AddSource("main.typ", "before"); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	var success bool
	var text string
	go func() {
		defer wg.Done()
		result := s.Compile(context.Background())
		success, text = result.Success(), result.Text()
	}()

	<-started
	mutated := make(chan struct{})
	go func() {
		if err := s.AddSource("main.typ", "after"); err != nil {
			t.Error(err)
		}
		close(mutated)
	}()

	select {
	case <-mutated:
		t.Fatal("mutation completed during compilation")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	wg.Wait()
	<-mutated

	if !success {
		t.Fatalf("expected success, given: %s", text)
	}
}

func TestSession_Fonts(t *testing.T) {
	s := newTestSession(t)

	err := s.SetFonts([]world.FontInput{
		{Data: fonttest.Regular()},
		{Data: fonttest.Collection(fonttest.Bold(), 2)},
	})
	if err != nil {
		t.Fatal(err)
	}

	infos := s.Fonts()
	if len(infos) != 3 {
		t.Fatalf("expected 3 faces, given %d", len(infos))
	}
	if !infos[1].IsBold() || !infos[2].IsBold() {
		t.Fatalf("expected bold faces from collection, given %#v", infos)
	}
}
