// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

//go:build tools
// +build tools

package main

import (
	_ "github.com/mh-cbon/go-fmt-fail"
	_ "github.com/vektra/mockery/v2"
)
