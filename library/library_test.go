// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package library

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty-debug/ctydebug"
	"github.com/zclconf/go-cty/cty"
)

func TestLibrary_InputsValue(t *testing.T) {
	lib := NewBuilder().WithInputs(map[string]string{
		"name":  "World",
		"count": "3",
	}).Build()

	expected := cty.ObjectVal(map[string]cty.Value{
		"name":  cty.StringVal("World"),
		"count": cty.StringVal("3"),
	})
	if diff := cmp.Diff(expected, lib.InputsValue(), ctydebug.CmpOptions); diff != "" {
		t.Fatalf("unexpected inputs value: %s", diff)
	}

	if diff := cmp.Diff(cty.EmptyObjectVal, Default().InputsValue(), ctydebug.CmpOptions); diff != "" {
		t.Fatalf("unexpected empty inputs value: %s", diff)
	}
}

func TestLibrary_Hash(t *testing.T) {
	a := NewBuilder().WithInputs(map[string]string{"a": "1", "b": "2"}).Build()
	b := NewBuilder().WithInputs(map[string]string{"b": "2", "a": "1"}).Build()
	c := NewBuilder().WithInputs(map[string]string{"a": "1"}).Build()

	if a.Hash() != b.Hash() {
		t.Fatal("expected libraries with equal inputs to share a hash")
	}
	if a.Hash() == c.Hash() {
		t.Fatal("expected libraries with different inputs to differ in hash")
	}
}

func TestBuilder_WithInputs_replaces(t *testing.T) {
	lib := NewBuilder().
		WithInputs(map[string]string{"old": "x"}).
		WithInputs(map[string]string{"new": "y"}).
		Build()

	if diff := cmp.Diff([]string{"new"}, lib.InputNames()); diff != "" {
		t.Fatalf("unexpected inputs: %s", diff)
	}
}

func TestLibrary_Inputs_isolated(t *testing.T) {
	src := map[string]string{"name": "a"}
	lib := NewBuilder().WithInputs(src).Build()
	src["name"] = "b"

	inputs := lib.Inputs()
	inputs["name"] = "c"

	if lib.Inputs()["name"] != "a" {
		t.Fatalf("expected library to be immutable, given %q", lib.Inputs()["name"])
	}
}

func TestLibrary_EvalContext(t *testing.T) {
	lib := NewBuilder().WithInputs(map[string]string{"name": "world"}).Build()

	testCases := []struct {
		Expr     string
		Expected cty.Value
	}{
		{`sys.inputs.name`, cty.StringVal("world")},
		{`upper(sys.inputs.name)`, cty.StringVal("WORLD")},
		{`format("hello %s", sys.inputs.name)`, cty.StringVal("hello world")},
		{`sys.version`, cty.StringVal("0.11.0")},
	}

	for _, tc := range testCases {
		expr, diags := hclsyntax.ParseExpression([]byte(tc.Expr), "test", hcl.InitialPos)
		if diags.HasErrors() {
			t.Fatalf("%s: %s", tc.Expr, diags)
		}
		val, diags := expr.Value(lib.EvalContext())
		if diags.HasErrors() {
			t.Fatalf("%s: %s", tc.Expr, diags)
		}
		if diff := cmp.Diff(tc.Expected, val, ctydebug.CmpOptions); diff != "" {
			t.Fatalf("%s: unexpected value: %s", tc.Expr, diff)
		}
	}
}

func TestLibrary_EvalContext_missingInput(t *testing.T) {
	expr, diags := hclsyntax.ParseExpression([]byte(`sys.inputs.missing`), "test", hcl.InitialPos)
	if diags.HasErrors() {
		t.Fatal(diags)
	}
	_, diags = expr.Value(Default().EvalContext())
	if !diags.HasErrors() {
		t.Fatal("expected missing input to produce an error")
	}
}

func TestDecodeInputs(t *testing.T) {
	inputs, err := DecodeInputs(map[string]interface{}{
		"name":    "World",
		"count":   42,
		"enabled": true,
	})
	if err != nil {
		t.Fatal(err)
	}

	expected := map[string]string{
		"name":    "World",
		"count":   "42",
		"enabled": "1",
	}
	if diff := cmp.Diff(expected, inputs); diff != "" {
		t.Fatalf("unexpected inputs: %s", diff)
	}
}

func TestDecodeInputs_nil(t *testing.T) {
	inputs, err := DecodeInputs(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 0 {
		t.Fatalf("expected no inputs, given %#v", inputs)
	}
}

func TestDecodeInputs_invalid(t *testing.T) {
	_, err := DecodeInputs([]string{"not", "a", "map"})
	if err == nil {
		t.Fatal("expected error for non-map inputs")
	}
}

func TestDecodeInputsJSON(t *testing.T) {
	inputs, err := DecodeInputsJSON([]byte(`{"name": "World", "count": 42, "ratio": 1.5, "enabled": true}`))
	if err != nil {
		t.Fatal(err)
	}

	expected := map[string]string{
		"name":    "World",
		"count":   "42",
		"ratio":   "1.5",
		"enabled": "1",
	}
	if diff := cmp.Diff(expected, inputs); diff != "" {
		t.Fatalf("unexpected inputs: %s", diff)
	}
}

func TestDecodeInputsJSON_null(t *testing.T) {
	inputs, err := DecodeInputsJSON([]byte(`null`))
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 0 {
		t.Fatalf("expected no inputs, given %#v", inputs)
	}
}

func TestDecodeInputsJSON_invalid(t *testing.T) {
	_, err := DecodeInputsJSON([]byte(`["not", "a", "map"]`))
	if err == nil {
		t.Fatal("expected error for non-object inputs")
	}
}
