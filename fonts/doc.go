// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package fonts implements the font catalog (Book) and lazily
// materialized font faces (Slot) served to the compiler.
//
// - enumerates every face of a font file or collection in container order
// - decodes a face only when the compiler first asks for it
// - caches the outcome (including failures) for the lifetime of the slot
package fonts
