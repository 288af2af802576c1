// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package fonts

import (
	"strings"
)

// Book is an ordered catalog of font faces.
//
// Position i in the book describes the face at position i
// of the accompanying slot collection. A Book is immutable,
// With returns a new Book instead of modifying the receiver.
type Book struct {
	infos []Info
}

func NewBook(infos ...Info) *Book {
	b := &Book{
		infos: make([]Info, len(infos)),
	}
	copy(b.infos, infos)
	return b
}

// With returns a new book with infos appended
func (b *Book) With(infos ...Info) *Book {
	nb := &Book{
		infos: make([]Info, 0, len(b.infos)+len(infos)),
	}
	nb.infos = append(nb.infos, b.infos...)
	nb.infos = append(nb.infos, infos...)
	return nb
}

func (b *Book) Len() int {
	return len(b.infos)
}

func (b *Book) Info(index int) (Info, bool) {
	if index < 0 || index >= len(b.infos) {
		return Info{}, false
	}
	return b.infos[index], true
}

// Infos returns a copy of all entries
func (b *Book) Infos() []Info {
	infos := make([]Info, len(b.infos))
	copy(infos, b.infos)
	return infos
}

// Families returns the distinct family names in catalog order
func (b *Book) Families() []string {
	seen := make(map[string]bool, 0)
	families := make([]string, 0)
	for _, info := range b.infos {
		key := strings.ToLower(info.Family)
		if seen[key] {
			continue
		}
		seen[key] = true
		families = append(families, info.Family)
	}
	return families
}

// SelectFamily returns indexes of all faces of the given family
// (case-insensitive) in catalog order
func (b *Book) SelectFamily(family string) []int {
	indexes := make([]int, 0)
	for i, info := range b.infos {
		if strings.EqualFold(info.Family, family) {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

// Select picks the face of a family which is closest to the requested
// weight, preferring upright faces.
func (b *Book) Select(family string, weight int) (int, bool) {
	best, bestScore := -1, 0
	for _, i := range b.SelectFamily(family) {
		info := b.infos[i]
		score := abs(info.Weight - weight)
		if info.Style != StyleNormal {
			score += 1000
		}
		if best == -1 || score < bestScore {
			best, bestScore = i, score
		}
	}
	return best, best != -1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
