// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package world

// FontInput is a font file (or collection) supplied by the host.
// Path is only used to identify the buffer in errors and logs.
type FontInput struct {
	Path string `json:"path,omitempty"`
	Data []byte `json:"data"`
}

type SourceInput struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

type FileInput struct {
	Path string `json:"path"`
	Data []byte `json:"data"`
}
