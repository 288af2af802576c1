// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package render turns a laid out document into PDF and SVG
package render
