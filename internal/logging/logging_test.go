// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseRawPath(t *testing.T) {
	path, err := ParseRawPath("test", "/tmp/docworld-{{pid}}.log")
	if err != nil {
		t.Fatal(err)
	}
	expected := fmt.Sprintf("/tmp/docworld-%d.log", os.Getpid())
	if path != expected {
		t.Fatalf("expected %q, given %q", expected, path)
	}

	_, err = ParseRawPath("test", "/tmp/{{unknown}}.log")
	if err == nil {
		t.Fatal("expected error for unknown function")
	}
}

func TestNewFileLogger_relative(t *testing.T) {
	_, err := NewFileLogger("relative.log")
	if err == nil {
		t.Fatal("expected relative path to be rejected")
	}
}

func TestNewCommandLogger_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmd.log")

	logger, closeFunc, err := NewCommandLogger(path, false)
	if err != nil {
		t.Fatal(err)
	}
	logger.Printf("hello from test")
	if err := closeFunc(); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "hello from test") {
		t.Fatalf("expected message in log file, given %q", b)
	}
}
