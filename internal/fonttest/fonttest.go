// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package fonttest provides font fixtures for tests
package fonttest

import (
	"encoding/binary"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

func Regular() []byte {
	return clone(goregular.TTF)
}

func Bold() []byte {
	return clone(gobold.TTF)
}

func Italic() []byte {
	return clone(goitalic.TTF)
}

// Collection wraps a single TTF into a TrueType collection (TTC)
// whose n faces all point at the same table directory.
func Collection(ttf []byte, n int) []byte {
	hdrLen := 12 + 4*n
	out := make([]byte, hdrLen+len(ttf))

	copy(out[0:4], "ttcf")
	binary.BigEndian.PutUint32(out[4:], 0x00010000)
	binary.BigEndian.PutUint32(out[8:], uint32(n))
	for i := 0; i < n; i++ {
		binary.BigEndian.PutUint32(out[12+4*i:], uint32(hdrLen))
	}

	body := out[hdrLen:]
	copy(body, ttf)

	// table offsets in a collection are relative to the start of the file
	numTables := int(binary.BigEndian.Uint16(body[4:]))
	for i := 0; i < numTables; i++ {
		rec := body[12+16*i:]
		off := binary.BigEndian.Uint32(rec[8:])
		binary.BigEndian.PutUint32(rec[8:], off+uint32(hdrLen))
	}

	return out
}

func clone(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
