// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package state

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/docworld/document"
)

func TestSlotStore_Source_notFound(t *testing.T) {
	s, err := NewStateStore()
	if err != nil {
		t.Fatal(err)
	}

	id := document.NewFileID("not/found.typ")
	_, err = s.Slots.Source(id)
	expectedErr := &document.NotFoundError{Path: "/not/found.typ"}
	if err == nil {
		t.Fatalf("Expected error: %s", expectedErr)
	}
	if err.Error() != expectedErr.Error() {
		t.Fatalf("Unexpected error.\nexpected: %#v\ngiven: %#v",
			expectedErr, err)
	}

	_, err = s.Slots.File(id)
	if !document.IsNotFound(err) {
		t.Fatalf("expected not found error, given %#v", err)
	}
}

func TestSlotStore_PutSource_roundTrip(t *testing.T) {
	s, err := NewStateStore()
	if err != nil {
		t.Fatal(err)
	}

	id := document.NewFileID("main.typ")
	err = s.Slots.PutSource(id, "Hello world")
	if err != nil {
		t.Fatal(err)
	}

	src, err := s.Slots.Source(document.NewFileID("/main.typ"))
	if err != nil {
		t.Fatal(err)
	}
	if src.Text != "Hello world" {
		t.Fatalf("unexpected source text: %q", src.Text)
	}
	if src.ID != id {
		t.Fatalf("unexpected source ID: %s", src.ID)
	}
}

func TestSlotStore_PutSource_overwrites(t *testing.T) {
	s, err := NewStateStore()
	if err != nil {
		t.Fatal(err)
	}

	id := document.NewFileID("main.typ")
	for _, text := range []string{"first", "second"} {
		err = s.Slots.PutSource(id, text)
		if err != nil {
			t.Fatal(err)
		}
	}

	src, err := s.Slots.Source(id)
	if err != nil {
		t.Fatal(err)
	}
	if src.Text != "second" {
		t.Fatalf("unexpected source text: %q", src.Text)
	}
}

func TestSlotStore_merge(t *testing.T) {
	s, err := NewStateStore()
	if err != nil {
		t.Fatal(err)
	}

	id := document.NewFileID("data.csv")
	err = s.Slots.PutFile(id, []byte("a,b\n1,2"))
	if err != nil {
		t.Fatal(err)
	}
	err = s.Slots.PutSource(id, "a,b")
	if err != nil {
		t.Fatal(err)
	}

	slot, err := s.Slots.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if slot.Source == nil || slot.Source.Text != "a,b" {
		t.Fatalf("unexpected source: %#v", slot.Source)
	}
	if diff := cmp.Diff([]byte("a,b\n1,2"), slot.Data); diff != "" {
		t.Fatalf("expected file bytes to survive source registration: %s", diff)
	}
}

func TestSlotStore_fileOnly(t *testing.T) {
	s, err := NewStateStore()
	if err != nil {
		t.Fatal(err)
	}

	id := document.NewFileID("logo.png")
	data := []byte{0x89, 'P', 'N', 'G'}
	err = s.Slots.PutFile(id, data)
	if err != nil {
		t.Fatal(err)
	}
	data[0] = 0

	b, err := s.Slots.File(id)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0x89, 'P', 'N', 'G'}, b); diff != "" {
		t.Fatalf("expected stored bytes to be isolated from the caller: %s", diff)
	}

	src, err := s.Slots.Source(id)
	if err != nil {
		t.Fatal(err)
	}
	if src.Text != "" {
		t.Fatalf("expected empty source for file-only slot, given %q", src.Text)
	}
}

func TestSlotStore_sourceOnly_file(t *testing.T) {
	s, err := NewStateStore()
	if err != nil {
		t.Fatal(err)
	}

	id := document.NewFileID("notes.txt")
	err = s.Slots.PutSource(id, "plain text")
	if err != nil {
		t.Fatal(err)
	}

	b, err := s.Slots.File(id)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "plain text" {
		t.Fatalf("unexpected bytes: %q", b)
	}
}

func TestSlotStore_ReplaceAll(t *testing.T) {
	s, err := NewStateStore()
	if err != nil {
		t.Fatal(err)
	}

	err = s.Slots.ReplaceAll([]SourceEntry{
		{ID: document.NewFileID("main.typ"), Text: "old main"},
		{ID: document.NewFileID("old.typ"), Text: "old only"},
	}, []FileEntry{
		{ID: document.NewFileID("old.png"), Data: []byte("old")},
	})
	if err != nil {
		t.Fatal(err)
	}

	err = s.Slots.ReplaceAll([]SourceEntry{
		{ID: document.NewFileID("main.typ"), Text: "new main"},
		{ID: document.NewFileID("shared.typ"), Text: "text"},
	}, []FileEntry{
		{ID: document.NewFileID("shared.typ"), Data: []byte("bytes")},
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{"old.typ", "old.png"} {
		_, err := s.Slots.Source(document.NewFileID(path))
		if !document.IsNotFound(err) {
			t.Fatalf("%s: expected not found after replacement, given %#v", path, err)
		}
	}

	src, err := s.Slots.Source(document.NewFileID("main.typ"))
	if err != nil {
		t.Fatal(err)
	}
	if src.Text != "new main" {
		t.Fatalf("unexpected source text: %q", src.Text)
	}

	slot, err := s.Slots.Get(document.NewFileID("shared.typ"))
	if err != nil {
		t.Fatal(err)
	}
	if slot.Source == nil || slot.Source.Text != "text" || string(slot.Data) != "bytes" {
		t.Fatalf("expected source and file to merge into one slot, given %#v", slot)
	}

	n, err := s.Slots.Len()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 slots, given %d", n)
	}
}

func TestSlotStore_List(t *testing.T) {
	s, err := NewStateStore()
	if err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{"b.typ", "a.typ", "c/d.typ"} {
		err := s.Slots.Upsert(&FileSlot{
			ID:     document.NewFileID(path),
			Source: document.NewSource(document.NewFileID(path), path),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	slots, err := s.Slots.List()
	if err != nil {
		t.Fatal(err)
	}
	paths := make([]string, 0, len(slots))
	for _, slot := range slots {
		paths = append(paths, slot.ID.RootedPath())
	}
	sort.Strings(paths)

	if diff := cmp.Diff([]string{"/a.typ", "/b.typ", "/c/d.typ"}, paths); diff != "" {
		t.Fatalf("unexpected slots: %s", diff)
	}
}

func TestSlotStore_concurrentReadWrite(t *testing.T) {
	s, err := NewStateStore()
	if err != nil {
		t.Fatal(err)
	}

	id := document.NewFileID("main.typ")
	err = s.Slots.PutSource(id, "v0")
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			err := s.Slots.ReplaceAll([]SourceEntry{
				{ID: id, Text: fmt.Sprintf("v%d", i)},
			}, nil)
			if err != nil {
				t.Error(err)
			}
		}(i)
		go func() {
			defer wg.Done()
			// the table is never observed empty in between replacements
			_, err := s.Slots.Source(id)
			if err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
}
