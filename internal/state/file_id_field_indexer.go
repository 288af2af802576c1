// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package state

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/hashicorp/docworld/document"
)

// FileIDFieldIndexer indexes a document.FileID field by its rooted path
type FileIDFieldIndexer struct {
	Field string
}

func (s *FileIDFieldIndexer) FromObject(obj interface{}) (bool, []byte, error) {
	v := reflect.ValueOf(obj)
	v = reflect.Indirect(v) // Dereference the pointer if any

	fv := v.FieldByName(s.Field)
	if !fv.IsValid() {
		return false, nil, fmt.Errorf("field '%s' for %#v is invalid", s.Field, obj)
	}

	id, ok := fv.Interface().(document.FileID)
	if !ok {
		return false, nil,
			fmt.Errorf("field '%s' for %#v is not a FileID", s.Field, obj)
	}

	// Add the null character as a terminator
	val := id.RootedPath() + "\x00"

	return true, []byte(val), nil
}

func (s *FileIDFieldIndexer) FromArgs(args ...interface{}) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("must provide only a single argument")
	}
	arg, ok := args[0].(document.FileID)
	if !ok {
		return nil, fmt.Errorf("argument must be a FileID: %#v", args[0])
	}

	// Add the null character as a terminator
	val := arg.RootedPath() + "\x00"

	return []byte(val), nil
}

func (s *FileIDFieldIndexer) PrefixFromArgs(args ...interface{}) ([]byte, error) {
	idx, err := s.FromArgs(args...)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(idx, []byte("\x00")), nil
}
