// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/hashicorp/docworld/fonts"
	"github.com/hashicorp/docworld/layout"
)

// fallbackFamily is one of the PDF core fonts, used for text
// whose face cannot be embedded
const fallbackFamily = "Helvetica"

// FontSource provides the faces referenced by layout.Text items
type FontSource interface {
	Font(index int) *fonts.Font
}

// PDF renders doc into a PDF file. Both the creation and modification
// dates are set to timestamp, so output is reproducible.
//
// Faces from fs which are plain TrueType files are embedded,
// any other text is set in a core font.
func PDF(doc *layout.Document, fs FontSource, timestamp time.Time) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           pageSize(firstPage(doc)),
	})
	pdf.SetCreationDate(timestamp)
	pdf.SetModificationDate(timestamp)
	pdf.SetCatalogSort(true)
	pdf.SetCreator("docworld", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)

	w := &pdfWriter{
		pdf:       pdf,
		fonts:     fs,
		embedded:  make(map[int]string, 0),
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}

	for _, page := range doc.Pages {
		pdf.AddPageFormat("P", pageSize(page))
		for _, item := range page.Items {
			switch it := item.(type) {
			case *layout.Text:
				w.text(it)
			case *layout.Image:
				w.image(it)
			}
		}
		if pdf.Err() {
			return nil, pdf.Error()
		}
	}

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type pdfWriter struct {
	pdf       *fpdf.Fpdf
	fonts     FontSource
	embedded  map[int]string
	translate func(string) string
	images    int
}

func (w *pdfWriter) text(t *layout.Text) {
	if family, ok := w.embed(t.FontIndex); ok {
		w.pdf.SetFont(family, "", t.Size)
		w.pdf.Text(t.X, t.Y, t.Body)
		return
	}

	style := ""
	if t.Bold {
		style = "B"
	}
	w.pdf.SetFont(fallbackFamily, style, t.Size)
	w.pdf.Text(t.X, t.Y, w.translate(t.Body))
}

// embed registers the face at index with the PDF once
// and returns its family name
func (w *pdfWriter) embed(index int) (string, bool) {
	if index < 0 || w.fonts == nil {
		return "", false
	}
	if family, ok := w.embedded[index]; ok {
		return family, family != ""
	}

	f := w.fonts.Font(index)
	if f == nil || f.Index() != 0 || !isTrueType(f.Data()) {
		w.embedded[index] = ""
		return "", false
	}

	family := fmt.Sprintf("F%d", index)
	w.pdf.AddUTF8FontFromBytes(family, "", f.Data())
	w.embedded[index] = family
	return family, true
}

func (w *pdfWriter) image(img *layout.Image) {
	w.images++
	name := fmt.Sprintf("img%d", w.images)
	opts := fpdf.ImageOptions{
		ImageType: strings.ToUpper(img.Format),
	}
	w.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	w.pdf.ImageOptions(name, img.X, img.Y, img.Width, img.Height, false, opts, 0, "")
}

func isTrueType(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	tag := string(data[:4])
	return tag == "\x00\x01\x00\x00" || tag == "true"
}

func firstPage(doc *layout.Document) *layout.Page {
	if len(doc.Pages) == 0 {
		return layout.NewPage(layout.A4Width, layout.A4Height)
	}
	return doc.Pages[0]
}

func pageSize(p *layout.Page) fpdf.SizeType {
	return fpdf.SizeType{Wd: p.Width, Ht: p.Height}
}
