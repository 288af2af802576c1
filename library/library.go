// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package library

import (
	"sort"

	"github.com/hashicorp/go-version"
	"github.com/hashicorp/hcl/v2"
	"github.com/mitchellh/hashstructure/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Version is the version of the standard library exposed
// to documents as sys.version
var Version = version.Must(version.NewVersion("0.11.0"))

// Library is the immutable standard library configuration
// used by every compilation.
//
// Replacing the Library (rather than mutating it) is the only way
// to change inputs, which lets anything keyed on Hash be invalidated.
type Library struct {
	inputs  map[string]string
	version *version.Version
	hash    uint64
}

type hashable struct {
	Inputs  map[string]string
	Version string
}

// Inputs returns a copy of the named input variables
func (l *Library) Inputs() map[string]string {
	inputs := make(map[string]string, len(l.inputs))
	for k, v := range l.inputs {
		inputs[k] = v
	}
	return inputs
}

// InputNames returns sorted names of all input variables
func (l *Library) InputNames() []string {
	names := make([]string, 0, len(l.inputs))
	for k := range l.inputs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (l *Library) Version() *version.Version {
	return l.version
}

// Hash returns a hash of the library content. Two libraries
// with the same inputs and version share the same hash.
func (l *Library) Hash() uint64 {
	return l.hash
}

// InputsValue returns inputs as a cty object of strings
func (l *Library) InputsValue() cty.Value {
	if len(l.inputs) == 0 {
		return cty.EmptyObjectVal
	}
	attrs := make(map[string]cty.Value, len(l.inputs))
	for k, v := range l.inputs {
		attrs[k] = cty.StringVal(v)
	}
	return cty.ObjectVal(attrs)
}

// EvalContext returns the evaluation context exposing
// the library definitions to document expressions.
func (l *Library) EvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"sys": cty.ObjectVal(map[string]cty.Value{
				"inputs":  l.InputsValue(),
				"version": cty.StringVal(l.version.String()),
			}),
		},
		Functions: Functions(),
	}
}

// Functions returns the built-in functions available to documents
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"format":    stdlib.FormatFunc,
		"lower":     stdlib.LowerFunc,
		"strlen":    stdlib.StrlenFunc,
		"substr":    stdlib.SubstrFunc,
		"title":     stdlib.TitleFunc,
		"trimspace": stdlib.TrimSpaceFunc,
		"upper":     stdlib.UpperFunc,
	}
}

func computeHash(inputs map[string]string, v *version.Version) uint64 {
	h, err := hashstructure.Hash(hashable{
		Inputs:  inputs,
		Version: v.String(),
	}, hashstructure.FormatV2, nil)
	if err != nil {
		// maps of strings are always hashable
		panic(err)
	}
	return h
}
