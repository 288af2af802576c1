// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package markup implements a small markup language compiler.
//
// Documents consist of headings (lines starting with "="), paragraphs
// separated by blank lines, and code introduced by "#":
//
//	#include("chapter.typ")
//	#image("logo.png")
//	#pagebreak()
//	#datetime.today()
//	#set text(font: "Go", size: 12)
//	#upper(sys.inputs.name)
//
// Any code other than the built-in calls above is an HCL expression
// evaluated against the standard library of the world.
package markup

import (
	"context"
	"io/ioutil"
	"log"

	"github.com/hashicorp/docworld/compiler"
	"github.com/hashicorp/docworld/document"
	"github.com/hashicorp/docworld/layout"
	"github.com/hashicorp/docworld/world"
	"github.com/hashicorp/hcl/v2"
)

var (
	_ compiler.Compiler = &Engine{}

	defaultLogger = log.New(ioutil.Discard, "", 0)
)

type Engine struct {
	logger *log.Logger
}

func NewEngine() *Engine {
	return &Engine{
		logger: defaultLogger,
	}
}

func (e *Engine) SetLogger(logger *log.Logger) {
	e.logger = logger
}

func (e *Engine) Compile(ctx context.Context, w world.World) (*layout.Document, hcl.Diagnostics) {
	lib := w.Library()
	c := &compilation{
		ctx:     ctx,
		world:   w,
		book:    w.Book(),
		evalCtx: lib.EvalContext(),
		ts:      newTypesetter(w),
		stack:   make([]document.FileID, 0),
		logger:  e.logger,
	}

	main := w.Main()
	e.logger.Printf("compiling %s (%d bytes, library %x)", main.ID, main.Len(), lib.Hash())

	c.processSource(main)

	if c.diags.HasErrors() {
		return nil, c.diags
	}
	return c.ts.document(), c.diags
}
