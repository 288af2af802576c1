// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInputsFlag(t *testing.T) {
	f := make(inputsFlag)
	if err := f.Set("name=World"); err != nil {
		t.Fatal(err)
	}
	if err := f.Set("empty="); err != nil {
		t.Fatal(err)
	}
	if err := f.Set("eq=a=b"); err != nil {
		t.Fatal(err)
	}
	if err := f.Set("novalue"); err == nil {
		t.Fatal("expected error for missing =")
	}

	expected := inputsFlag{
		"name":  "World",
		"empty": "",
		"eq":    "a=b",
	}
	if diff := cmp.Diff(expected, f); diff != "" {
		t.Fatalf("unexpected inputs: %s", diff)
	}
	if f.String() != "empty=,eq=a=b,name=World" {
		t.Fatalf("unexpected string: %q", f.String())
	}
}

func TestReadInputs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inputs.env")
	err := os.WriteFile(path, []byte("name=File\nauthor=someone\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	inputs, err := readInputs(path, map[string]string{"name": "Flag"})
	if err != nil {
		t.Fatal(err)
	}
	expected := map[string]string{
		"name":   "Flag",
		"author": "someone",
	}
	if diff := cmp.Diff(expected, inputs); diff != "" {
		t.Fatalf("unexpected inputs: %s", diff)
	}
}

func TestReadInputs_missingFile(t *testing.T) {
	_, err := readInputs(filepath.Join(t.TempDir(), "missing.env"), nil)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
