// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package world provides the in-memory resources a compiler
// can read while compiling a document.
package world

import (
	"time"

	"github.com/hashicorp/docworld/document"
	"github.com/hashicorp/docworld/fonts"
	"github.com/hashicorp/docworld/library"
)

// World is the read-only view of resources a compiler works against.
// All methods are safe to call concurrently and from within
// a running compilation.
type World interface {
	// Library returns the standard library configuration
	Library() *library.Library

	// Book returns the catalog of available font faces.
	// Indexes into the book are valid arguments for Font.
	Book() *fonts.Book

	// Main returns the entry source
	Main() *document.Source

	// Source returns the source registered under id
	// or *document.NotFoundError
	Source(id document.FileID) (*document.Source, error)

	// File returns the bytes registered under id
	// or *document.NotFoundError
	File(id document.FileID) ([]byte, error)

	// Font returns the face at index of the Book,
	// or nil if it does not exist or cannot be decoded.
	Font(index int) *fonts.Font

	// Today returns the current date. The offset (in hours from UTC)
	// is accepted for compatibility and otherwise ignored.
	Today(offset *int) (time.Time, bool)
}
