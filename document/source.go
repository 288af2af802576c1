// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package document

// Source is an immutable text source of the virtual project.
//
// Sources are shared between the provider and the compiler
// by pointer and must never be mutated after creation.
type Source struct {
	ID   FileID
	Text string

	// Lines contains Text separated into lines to enable byte offset
	// computation for any position-based operations, such as
	// reporting diagnostics against a particular range.
	Lines Lines
}

func NewSource(id FileID, text string) *Source {
	return &Source{
		ID:    id,
		Text:  text,
		Lines: MakeSourceLines(id.RootedPath(), []byte(text)),
	}
}

// Bytes returns a copy of the source text as bytes
func (s *Source) Bytes() []byte {
	return []byte(s.Text)
}

func (s *Source) Len() int {
	return len(s.Text)
}
