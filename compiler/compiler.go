// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package compiler drives a document compiler against a world
// and retains the last successfully compiled document.
package compiler

import (
	"context"

	"github.com/hashicorp/docworld/layout"
	"github.com/hashicorp/docworld/world"
	"github.com/hashicorp/hcl/v2"
)

//go:generate go run github.com/vektra/mockery/v2 --name Compiler --filename compiler.go --outpkg mock --output ./mock

// Compiler turns the main source of a world into a laid out document.
//
// A compilation is successful when it returns a document
// and no error diagnostics.
type Compiler interface {
	Compile(ctx context.Context, w world.World) (*layout.Document, hcl.Diagnostics)
}
