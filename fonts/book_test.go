// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package fonts

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testBook() *Book {
	return NewBook(
		Info{Family: "Go", Subfamily: "Regular", Weight: WeightRegular},
		Info{Family: "Go", Subfamily: "Bold Italic", Style: StyleItalic, Weight: WeightBold},
		Info{Family: "Go", Subfamily: "Bold", Weight: WeightBold},
		Info{Family: "Mono", Subfamily: "Regular", Weight: WeightRegular},
	)
}

func TestBook_SelectFamily(t *testing.T) {
	b := testBook()

	if diff := cmp.Diff([]int{0, 1, 2}, b.SelectFamily("go")); diff != "" {
		t.Fatalf("unexpected selection: %s", diff)
	}
	if diff := cmp.Diff([]int{}, b.SelectFamily("Unknown")); diff != "" {
		t.Fatalf("unexpected selection: %s", diff)
	}
}

func TestBook_Select(t *testing.T) {
	b := testBook()

	idx, ok := b.Select("Go", WeightBold)
	if !ok || idx != 2 {
		t.Fatalf("expected upright bold face (2), given %d (%t)", idx, ok)
	}
	idx, ok = b.Select("Go", WeightRegular)
	if !ok || idx != 0 {
		t.Fatalf("expected regular face (0), given %d (%t)", idx, ok)
	}
	if _, ok := b.Select("Unknown", WeightRegular); ok {
		t.Fatal("expected no face for unknown family")
	}
}

func TestBook_With_copyOnWrite(t *testing.T) {
	b := NewBook(Info{Family: "Go"})
	nb := b.With(Info{Family: "Mono"})

	if b.Len() != 1 {
		t.Fatalf("expected original book to stay unchanged, given %d entries", b.Len())
	}
	if nb.Len() != 2 {
		t.Fatalf("expected 2 entries, given %d", nb.Len())
	}
	if diff := cmp.Diff([]string{"Go", "Mono"}, nb.Families()); diff != "" {
		t.Fatalf("unexpected families: %s", diff)
	}
	if _, ok := nb.Info(5); ok {
		t.Fatal("expected out of range lookup to fail")
	}
}
