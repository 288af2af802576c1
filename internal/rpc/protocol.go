// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package rpc

import "github.com/hashicorp/docworld/world"

type SetInputsParams struct {
	Inputs map[string]interface{} `json:"inputs"`
}

type SetFontsParams struct {
	Fonts []world.FontInput `json:"fonts"`
}

type FontsResult struct {
	Faces  int      `json:"faces"`
	Errors []string `json:"errors,omitempty"`
}

type SetSourcesAndFilesParams struct {
	Sources []world.SourceInput `json:"sources"`
	Files   []world.FileInput   `json:"files"`
}

type ConfigureResult struct {
	UnusedKeys []string `json:"unusedKeys,omitempty"`
}

type CompileResult struct {
	ID       string `json:"id"`
	Success  bool   `json:"success"`
	Text     string `json:"text"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
}

type RenderPDFResult struct {
	// Data is base64 encoded in JSON
	Data []byte `json:"data"`
}

type FontInfo struct {
	Family    string `json:"family"`
	Subfamily string `json:"subfamily,omitempty"`
	FullName  string `json:"fullName,omitempty"`
	Style     string `json:"style"`
	Weight    int    `json:"weight"`
}
