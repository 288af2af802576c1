// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package compiler

import (
	"context"
	"fmt"
	"io/ioutil"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/hashicorp/docworld/layout"
	"github.com/hashicorp/docworld/render"
	"github.com/hashicorp/docworld/world"
	"github.com/hashicorp/go-uuid"
	"github.com/hashicorp/hcl/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/hashicorp/docworld/compiler"

// SVGPageGap is the vertical gap (in points) between pages
// of a merged SVG
const SVGPageGap = 5.0

// NoDocumentSVG is rendered in place of an SVG when there is no document
const NoDocumentSVG = `<pre class="typst-render-error">No document</pre>`

var (
	defaultLogger = log.New(ioutil.Discard, "", 0)

	// pdfTimestamp is embedded in every PDF to keep output reproducible
	pdfTimestamp = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// Driver compiles the main source of a world and retains the last
// successfully compiled document for rendering.
type Driver struct {
	world    world.World
	compiler Compiler
	logger   *log.Logger

	docMu    sync.RWMutex
	document *layout.Document
}

func NewDriver(w world.World, c Compiler) *Driver {
	return &Driver{
		world:    w,
		compiler: c,
		logger:   defaultLogger,
	}
}

func (d *Driver) SetLogger(logger *log.Logger) {
	d.logger = logger
}

// Compile runs the compiler once. The retained document is replaced
// only when the compilation succeeds.
func (d *Driver) Compile(ctx context.Context) *Result {
	id, err := uuid.GenerateUUID()
	if err != nil {
		d.logger.Printf("failed to generate compilation ID: %s", err)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "compile",
		trace.WithAttributes(attribute.KeyValue{
			Key:   attribute.Key("CompilationID"),
			Value: attribute.StringValue(id),
		}))
	defer span.End()

	startTime := time.Now()
	doc, diags := d.compile(ctx)
	if doc == nil && !diags.HasErrors() {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "No document",
			Detail:   "Compiler returned no document",
		})
	}

	result := &Result{
		ID:          id,
		Diagnostics: diags,
		success:     !diags.HasErrors(),
	}

	span.SetAttributes(attribute.KeyValue{
		Key:   attribute.Key("Diagnostics"),
		Value: attribute.IntValue(len(diags)),
	})

	if !result.success {
		span.RecordError(diags)
		span.SetStatus(codes.Error, "compilation failed")
		d.logger.Printf("compilation %s failed in %s with %d errors",
			id, time.Since(startTime), len(result.Errors()))
		return result
	}

	d.docMu.Lock()
	d.document = doc
	d.docMu.Unlock()

	span.SetStatus(codes.Ok, "ok")
	d.logger.Printf("compilation %s finished in %s (%d pages, %d warnings)",
		id, time.Since(startTime), doc.PageCount(), len(result.Warnings()))

	return result
}

func (d *Driver) compile(ctx context.Context) (doc *layout.Document, diags hcl.Diagnostics) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Printf("compiler panicked: %v\n%s", r, debug.Stack())
			doc = nil
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Internal compiler error",
				Detail:   fmt.Sprintf("%v", r),
			})
		}
	}()

	return d.compiler.Compile(ctx, d.world)
}

// Document returns the last successfully compiled document or nil
func (d *Driver) Document() *layout.Document {
	d.docMu.RLock()
	defer d.docMu.RUnlock()
	return d.document
}

// RenderPDF renders the retained document as PDF.
// An empty slice is returned when there is no document.
func (d *Driver) RenderPDF() ([]byte, error) {
	doc := d.Document()
	if doc == nil {
		return []byte{}, nil
	}
	return render.PDF(doc, d.world, pdfTimestamp)
}

// RenderSVG renders all pages of the retained document
// into a single SVG image
func (d *Driver) RenderSVG() string {
	doc := d.Document()
	if doc == nil {
		return NoDocumentSVG
	}
	return render.SVGMerged(doc, SVGPageGap)
}

// RenderSVGPages renders every page of the retained document
// as a separate SVG image
func (d *Driver) RenderSVGPages() []string {
	doc := d.Document()
	if doc == nil {
		return []string{}
	}
	return render.SVGPages(doc)
}
