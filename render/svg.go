// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/hashicorp/docworld/layout"
)

// SVGMerged renders all pages of doc into a single SVG image,
// stacked vertically with gap points between them
func SVGMerged(doc *layout.Document, gap float64) string {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(px(doc.Width()), px(doc.Height(gap)))

	y := 0.0
	for _, page := range doc.Pages {
		canvas.Translate(0, px(y))
		writePage(canvas, page)
		canvas.Gend()
		y += page.Height + gap
	}

	canvas.End()
	return buf.String()
}

// SVGPages renders every page of doc into its own SVG image
func SVGPages(doc *layout.Document) []string {
	pages := make([]string, 0, len(doc.Pages))
	for _, page := range doc.Pages {
		var buf bytes.Buffer
		canvas := svg.New(&buf)
		canvas.Start(px(page.Width), px(page.Height))
		writePage(canvas, page)
		canvas.End()
		pages = append(pages, buf.String())
	}
	return pages
}

func writePage(canvas *svg.SVG, page *layout.Page) {
	canvas.Rect(0, 0, px(page.Width), px(page.Height), "fill:white")

	for _, item := range page.Items {
		switch it := item.(type) {
		case *layout.Text:
			canvas.Text(px(it.X), px(it.Y), it.Body, textStyle(it))
		case *layout.Image:
			canvas.Image(px(it.X), px(it.Y), px(it.Width), px(it.Height), dataURI(it))
		}
	}
}

func textStyle(t *layout.Text) string {
	style := fmt.Sprintf("font-family:%s;font-size:%gpx;fill:black",
		cssFamily(t.Family), t.Size)
	if t.Bold {
		style += ";font-weight:bold"
	}
	return style
}

// cssFamily quotes a family name for use within a style attribute
func cssFamily(family string) string {
	if family == "" {
		return "sans-serif"
	}
	family = strings.Map(func(r rune) rune {
		switch r {
		case '\'', '"', '<', '>', '&', ';', '\\':
			return -1
		}
		return r
	}, family)
	return fmt.Sprintf("'%s',sans-serif", family)
}

func dataURI(img *layout.Image) string {
	return fmt.Sprintf("data:image/%s;base64,%s", img.Format,
		base64.StdEncoding.EncodeToString(img.Data))
}

func px(v float64) int {
	return int(math.Round(v))
}
