// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package library

import (
	"github.com/hashicorp/go-version"
)

// Builder builds a Library
type Builder struct {
	inputs  map[string]string
	version *version.Version
}

func NewBuilder() *Builder {
	return &Builder{
		inputs:  make(map[string]string, 0),
		version: Version,
	}
}

// WithInputs sets input variables visible to documents
// as sys.inputs. Any previously set inputs are replaced.
func (b *Builder) WithInputs(inputs map[string]string) *Builder {
	b.inputs = make(map[string]string, len(inputs))
	for k, v := range inputs {
		b.inputs[k] = v
	}
	return b
}

func (b *Builder) WithVersion(v *version.Version) *Builder {
	b.version = v
	return b
}

func (b *Builder) Build() *Library {
	inputs := make(map[string]string, len(b.inputs))
	for k, v := range b.inputs {
		inputs[k] = v
	}

	return &Library{
		inputs:  inputs,
		version: b.version,
		hash:    computeHash(inputs, b.version),
	}
}

// Default returns a library without any inputs
func Default() *Library {
	return NewBuilder().Build()
}
