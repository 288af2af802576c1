// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package fonts

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// fallbackAdvance is the advance (in em) assumed for runes
// which the face cannot measure
const fallbackAdvance = 0.5

// Font is a decoded font face. It is safe for concurrent use.
type Font struct {
	info  Info
	index int
	data  []byte
	face  *sfnt.Font
}

// DecodeFunc decodes the face at the given index of a font file
// or collection
type DecodeFunc func(data []byte, index int) (*Font, error)

// Decode is the default DecodeFunc
func Decode(data []byte, index int) (*Font, error) {
	c, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= c.NumFonts() {
		return nil, fmt.Errorf("face index %d out of range (%d faces)", index, c.NumFonts())
	}

	face, err := c.Font(index)
	if err != nil {
		return nil, err
	}

	return &Font{
		info:  infoFromFont(face),
		index: index,
		data:  data,
		face:  face,
	}, nil
}

// Scan enumerates all faces contained in a font file or collection
// in container order. Faces which fail to parse are skipped,
// so the returned indexes (Face.Index) may not be contiguous.
func Scan(data []byte) ([]Face, error) {
	c, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, &NoFacesError{Err: err}
	}

	faces := make([]Face, 0, c.NumFonts())
	for i := 0; i < c.NumFonts(); i++ {
		f, err := c.Font(i)
		if err != nil {
			continue
		}
		faces = append(faces, Face{
			Index: i,
			Info:  infoFromFont(f),
		})
	}

	if len(faces) == 0 {
		return nil, &NoFacesError{}
	}

	return faces, nil
}

// Face describes a face found by Scan
type Face struct {
	Index int
	Info  Info
}

func (f *Font) Info() Info {
	return f.info
}

// Index returns the index of the face within its font file
func (f *Font) Index() int {
	return f.index
}

// Data returns the whole font file the face was decoded from
func (f *Font) Data() []byte {
	return f.data
}

func (f *Font) UnitsPerEm() int {
	return int(f.face.UnitsPerEm())
}

// Measure returns the advance width of text set at size (in points)
func (f *Font) Measure(text string, size float64) float64 {
	var buf sfnt.Buffer

	upem := f.face.UnitsPerEm()
	if upem == 0 {
		return float64(len([]rune(text))) * fallbackAdvance * size
	}
	ppem := fixed.Int26_6(upem) << 6

	width := 0.0
	for _, r := range text {
		gi, err := f.face.GlyphIndex(&buf, r)
		if err != nil || gi == 0 {
			width += fallbackAdvance * size
			continue
		}
		adv, err := f.face.GlyphAdvance(&buf, gi, ppem, font.HintingNone)
		if err != nil {
			width += fallbackAdvance * size
			continue
		}
		width += float64(adv) / 64 / float64(upem) * size
	}

	return width
}

// MeasureFallback measures text without any face, assuming a fixed
// advance for every rune
func MeasureFallback(text string, size float64) float64 {
	return float64(len([]rune(text))) * fallbackAdvance * size
}
