// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package compiler

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// Result describes the outcome of a single compilation
type Result struct {
	// ID uniquely identifies the compilation run
	ID string

	Diagnostics hcl.Diagnostics

	success bool
}

func (r *Result) Success() bool {
	return r.success
}

func (r *Result) Warnings() hcl.Diagnostics {
	return filterDiags(r.Diagnostics, hcl.DiagWarning)
}

func (r *Result) Errors() hcl.Diagnostics {
	return filterDiags(r.Diagnostics, hcl.DiagError)
}

// Text renders the result as one line per diagnostic.
// A successful result only lists warnings.
func (r *Result) Text() string {
	diags := r.Diagnostics
	if r.success {
		diags = r.Warnings()
	}

	lines := make([]string, 0, len(diags))
	for _, diag := range diags {
		lines = append(lines, FormatDiagnostic(diag))
	}
	return strings.Join(lines, "\n")
}

// FormatDiagnostic formats diag as
//
//	<severity>: <summary>[: <detail>] (<file>:<line>,<col>-<col>)
func FormatDiagnostic(diag *hcl.Diagnostic) string {
	var b strings.Builder

	b.WriteString(severityName(diag.Severity))
	b.WriteString(": ")
	b.WriteString(singleLine(diag.Summary))
	if diag.Detail != "" {
		b.WriteString(": ")
		b.WriteString(singleLine(diag.Detail))
	}
	if rng := diag.Subject; rng != nil {
		fmt.Fprintf(&b, " (%s:%d,%d-%d)", rng.Filename,
			rng.Start.Line, rng.Start.Column, rng.End.Column)
	}

	return b.String()
}

func severityName(s hcl.DiagnosticSeverity) string {
	switch s {
	case hcl.DiagError:
		return "error"
	case hcl.DiagWarning:
		return "warning"
	}
	return "invalid"
}

func filterDiags(diags hcl.Diagnostics, severity hcl.DiagnosticSeverity) hcl.Diagnostics {
	filtered := make(hcl.Diagnostics, 0)
	for _, diag := range diags {
		if diag.Severity == severity {
			filtered = append(filtered, diag)
		}
	}
	return filtered
}

// singleLine joins the non-blank lines of s with spaces
func singleLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	lines := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == '\r'
	})
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}
