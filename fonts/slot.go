// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package fonts

import (
	"sync"

	"github.com/spf13/afero"
)

// Slot holds a single font face which is decoded
// on first use and cached afterwards.
type Slot struct {
	path   string
	index  int
	read   func() ([]byte, error)
	decode DecodeFunc

	once sync.Once
	font *Font
}

// NewMemorySlot creates a slot for the face at index within data
func NewMemorySlot(path string, data []byte, index int, decode DecodeFunc) *Slot {
	return newSlot(path, index, func() ([]byte, error) {
		return data, nil
	}, decode)
}

// NewFileSlot creates a slot for the face at index within the font file
// at path. The file is read from fs only once the face is first needed.
func NewFileSlot(fs afero.Fs, path string, index int, decode DecodeFunc) *Slot {
	return newSlot(path, index, func() ([]byte, error) {
		return afero.ReadFile(fs, path)
	}, decode)
}

func newSlot(path string, index int, read func() ([]byte, error), decode DecodeFunc) *Slot {
	if decode == nil {
		decode = Decode
	}
	return &Slot{
		path:   path,
		index:  index,
		read:   read,
		decode: decode,
	}
}

func (s *Slot) Path() string {
	return s.path
}

func (s *Slot) Index() int {
	return s.index
}

// Get returns the decoded face or nil if it cannot be decoded.
//
// The bytes are read and decoded at most once, no matter how many
// goroutines call Get concurrently. A failure is cached as well
// and never retried.
func (s *Slot) Get() *Font {
	s.once.Do(func() {
		data, err := s.read()
		if err != nil {
			return
		}
		f, err := s.decode(data, s.index)
		if err != nil {
			return
		}
		s.font = f
	})
	return s.font
}
