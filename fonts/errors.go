// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package fonts

import "fmt"

// NoFacesError is returned when a font buffer contains no decodable face
type NoFacesError struct {
	Path string
	Err  error
}

func (e *NoFacesError) Error() string {
	msg := "no font faces found"
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", msg, e.Err)
	}
	return msg
}

func (e *NoFacesError) Unwrap() error {
	return e.Err
}

func (e *NoFacesError) Is(err error) bool {
	_, ok := err.(*NoFacesError)
	return ok
}
