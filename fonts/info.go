// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package fonts

import (
	"strings"

	"golang.org/x/image/font/sfnt"
)

type Style int

const (
	StyleNormal Style = iota
	StyleItalic
	StyleOblique
)

func (s Style) String() string {
	switch s {
	case StyleItalic:
		return "italic"
	case StyleOblique:
		return "oblique"
	}
	return "normal"
}

const (
	WeightRegular = 400
	WeightBold    = 700
)

// Info describes a single font face
type Info struct {
	Family         string
	Subfamily      string
	FullName       string
	PostScriptName string

	Style  Style
	Weight int
}

func (i Info) IsBold() bool {
	return i.Weight >= WeightBold
}

func infoFromFont(f *sfnt.Font) Info {
	var buf sfnt.Buffer

	info := Info{
		Family:         nameOrEmpty(f, &buf, sfnt.NameIDTypographicFamily),
		Subfamily:      nameOrEmpty(f, &buf, sfnt.NameIDTypographicSubfamily),
		FullName:       nameOrEmpty(f, &buf, sfnt.NameIDFull),
		PostScriptName: nameOrEmpty(f, &buf, sfnt.NameIDPostScript),
	}
	if info.Family == "" {
		info.Family = nameOrEmpty(f, &buf, sfnt.NameIDFamily)
	}
	if info.Subfamily == "" {
		info.Subfamily = nameOrEmpty(f, &buf, sfnt.NameIDSubfamily)
	}
	if info.Family == "" {
		info.Family = familyFromPostScript(info.PostScriptName)
	}

	info.Style, info.Weight = variantFromSubfamily(info.Subfamily)

	return info
}

func nameOrEmpty(f *sfnt.Font, buf *sfnt.Buffer, id sfnt.NameID) string {
	name, err := f.Name(buf, id)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(name)
}

func familyFromPostScript(psName string) string {
	if psName == "" {
		return "unknown"
	}
	family, _, _ := strings.Cut(psName, "-")
	return family
}

func variantFromSubfamily(subfamily string) (Style, int) {
	sub := strings.ToLower(subfamily)

	style := StyleNormal
	switch {
	case strings.Contains(sub, "italic"):
		style = StyleItalic
	case strings.Contains(sub, "oblique"):
		style = StyleOblique
	}

	weight := WeightRegular
	switch {
	case strings.Contains(sub, "thin"):
		weight = 100
	case strings.Contains(sub, "extralight"), strings.Contains(sub, "extra light"):
		weight = 200
	case strings.Contains(sub, "light"):
		weight = 300
	case strings.Contains(sub, "medium"):
		weight = 500
	case strings.Contains(sub, "semibold"), strings.Contains(sub, "semi bold"):
		weight = 600
	case strings.Contains(sub, "extrabold"), strings.Contains(sub, "extra bold"):
		weight = 800
	case strings.Contains(sub, "black"), strings.Contains(sub, "heavy"):
		weight = 900
	case strings.Contains(sub, "bold"):
		weight = WeightBold
	}

	return style, weight
}
