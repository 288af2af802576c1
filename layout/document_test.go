// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package layout

import "testing"

func TestDocument_Height(t *testing.T) {
	doc := &Document{
		Pages: []*Page{
			NewPage(100, 200),
			NewPage(120, 300),
		},
	}

	if h := doc.Height(5); h != 505 {
		t.Fatalf("expected height 505, given %f", h)
	}
	if w := doc.Width(); w != 120 {
		t.Fatalf("expected width 120, given %f", w)
	}
	if n := doc.PageCount(); n != 2 {
		t.Fatalf("expected 2 pages, given %d", n)
	}
}

func TestDocument_nil(t *testing.T) {
	var doc *Document
	if n := doc.PageCount(); n != 0 {
		t.Fatalf("expected 0 pages, given %d", n)
	}
}
