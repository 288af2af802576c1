// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package document

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when no file has been registered
// for a given virtual path.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	msg := "file not found"
	if e.Path != "" {
		return fmt.Sprintf("%s (searched at %s)", msg, e.Path)
	}

	return msg
}

func (e *NotFoundError) Is(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

func IsNotFound(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}
