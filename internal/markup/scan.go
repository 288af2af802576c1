// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package markup

import (
	"bytes"
	"strings"

	"github.com/apparentlymart/go-textseg/v13/textseg"
	"github.com/hashicorp/docworld/document"
	"github.com/hashicorp/hcl/v2"
)

type segmentKind int

const (
	textSegment segmentKind = iota
	codeSegment
)

// segment is either a run of literal text or a single code expression
// within one line. Offsets are in bytes relative to the line content.
type segment struct {
	kind segmentKind
	text string

	// code segments only
	name      string // callee or variable path, e.g. "include" or "sys.inputs.x"
	target    string // set rule target, e.g. "text"
	hasArgs   bool
	args      string
	argsStart int    // offset of the opening parenthesis
	expr      string // the whole expression without the leading hash
	exprStart int

	start, end int
}

// headingLevel returns the heading level of a line starting with
// one or more '=' followed by a space, and the offset of the title
func headingLevel(content []byte) (int, int, bool) {
	level := 0
	for level < len(content) && content[level] == '=' {
		level++
	}
	if level == 0 {
		return 0, 0, false
	}
	if level == len(content) {
		return level, level, true
	}
	if content[level] != ' ' && content[level] != '\t' {
		return 0, 0, false
	}
	return level, level + 1, true
}

// scanInline splits line content starting at offset from
// into text and code segments
func scanInline(line document.Line, from int) ([]segment, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	content := line.Content()
	segments := make([]segment, 0)

	var buf strings.Builder
	textStart := from
	flush := func(end int) {
		if buf.Len() > 0 {
			segments = append(segments, segment{
				kind:  textSegment,
				text:  buf.String(),
				start: textStart,
				end:   end,
			})
			buf.Reset()
		}
	}

	i := from
	for i < len(content) {
		ch := content[i]
		if ch == '\\' && i+1 < len(content) && content[i+1] == '#' {
			buf.WriteByte('#')
			i += 2
			continue
		}
		if ch == '#' && i+1 < len(content) && isIdentStart(content[i+1]) {
			flush(i)
			seg, next, segDiags := scanCode(line, content, i)
			diags = append(diags, segDiags...)
			if !segDiags.HasErrors() {
				segments = append(segments, seg)
			}
			i = next
			textStart = next
			continue
		}
		buf.WriteByte(ch)
		i++
	}
	flush(len(content))

	return segments, diags
}

func scanCode(line document.Line, content []byte, start int) (segment, int, hcl.Diagnostics) {
	seg := segment{
		kind:      codeSegment,
		start:     start,
		exprStart: start + 1,
	}

	j := scanIdent(content, start+1)
	seg.name = string(content[start+1 : j])

	if seg.name == "set" {
		k := j
		for k < len(content) && content[k] == ' ' {
			k++
		}
		end := scanIdent(content, k)
		seg.target = string(content[k:end])
		if seg.target == "" || end >= len(content) || content[end] != '(' {
			return seg, len(content), hcl.Diagnostics{
				{
					Severity: hcl.DiagError,
					Summary:  "Invalid set rule",
					Detail:   "A set rule must look like #set text(...)",
					Subject:  lineRange(line, start, len(content)).Ptr(),
				},
			}
		}
		j = end
	}

	if j < len(content) && content[j] == '(' {
		closing, ok := matchParen(content, j)
		if !ok {
			return seg, len(content), hcl.Diagnostics{
				{
					Severity: hcl.DiagError,
					Summary:  "Unclosed delimiter",
					Detail:   "Expected closing parenthesis",
					Subject:  lineRange(line, j, len(content)).Ptr(),
				},
			}
		}
		seg.hasArgs = true
		seg.argsStart = j
		seg.args = string(content[j+1 : closing])
		j = closing + 1
	}

	seg.end = j
	seg.expr = string(content[seg.exprStart:j])
	return seg, j, nil
}

// scanIdent returns the end of a dotted identifier starting at i.
// Trailing dots are not part of the identifier.
func scanIdent(content []byte, i int) int {
	j := i
	for j < len(content) && isIdentChar(content[j]) {
		j++
	}
	for j > i && content[j-1] == '.' {
		j--
	}
	return j
}

// matchParen returns the offset of the parenthesis closing the one at open,
// ignoring any within string literals
func matchParen(content []byte, open int) (int, bool) {
	depth := 0
	inString := false
	for i := open; i < len(content); i++ {
		ch := content[i]
		if inString {
			switch ch {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || ch == '.' || (ch >= '0' && ch <= '9')
}

// linePos returns the position of the byte at offset within the line.
// Columns count grapheme clusters.
func linePos(line document.Line, offset int) hcl.Pos {
	content := line.Content()
	if offset > len(content) {
		offset = len(content)
	}
	col, err := textseg.TokenCount(content[:offset], textseg.ScanGraphemeClusters)
	if err != nil {
		col = len(bytes.Runes(content[:offset]))
	}
	return hcl.Pos{
		Line:   line.Range.Start.Line,
		Column: col + 1,
		Byte:   line.Range.Start.Byte + offset,
	}
}

func lineRange(line document.Line, start, end int) hcl.Range {
	return hcl.Range{
		Filename: line.Range.Filename,
		Start:    linePos(line, start),
		End:      linePos(line, end),
	}
}
