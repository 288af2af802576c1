// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package document

import (
	"path"
	"strings"
)

// FileID identifies a file in the virtual project
//
// It is derived from a root-relative virtual path and is comparable,
// so it can be used as a map key. Two IDs are equal iff their
// (cleaned) virtual paths are equal.
type FileID struct {
	vpath string
}

// NewFileID creates a FileID from a given virtual path.
//
// The path is interpreted relative to the project root regardless
// of whether it is given with a leading slash, i.e. "main.typ",
// "/main.typ" and "./main.typ" all produce the same ID.
func NewFileID(vpath string) FileID {
	return FileID{vpath: cleanPath(vpath)}
}

// ResolveFileID resolves a path as seen from the file identified by base.
// Paths starting with a slash are resolved against the project root.
func ResolveFileID(base FileID, rawPath string) FileID {
	if strings.HasPrefix(rawPath, "/") {
		return NewFileID(rawPath)
	}
	return NewFileID(path.Join(path.Dir(base.RootedPath()), rawPath))
}

func cleanPath(vpath string) string {
	vpath = strings.ReplaceAll(vpath, "\\", "/")
	return path.Clean("/" + vpath)
}

// RootedPath returns the virtual path with a leading slash
func (id FileID) RootedPath() string {
	if id.vpath == "" {
		return "/"
	}
	return id.vpath
}

// VirtualPath returns the root-relative virtual path (without leading slash)
func (id FileID) VirtualPath() string {
	return strings.TrimPrefix(id.RootedPath(), "/")
}

func (id FileID) Filename() string {
	return path.Base(id.RootedPath())
}

func (id FileID) Ext() string {
	return path.Ext(id.RootedPath())
}

func (id FileID) String() string {
	return id.RootedPath()
}
