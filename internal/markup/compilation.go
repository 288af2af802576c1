// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package markup

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"sort"
	"strings"

	// image formats supported by #image
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/hashicorp/docworld/document"
	"github.com/hashicorp/docworld/fonts"
	"github.com/hashicorp/docworld/world"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

const dateFormat = "2006-01-02"

// compilation holds the state of a single Engine.Compile call
type compilation struct {
	ctx     context.Context
	world   world.World
	book    *fonts.Book
	evalCtx *hcl.EvalContext
	ts      *typesetter
	logger  *log.Logger

	// stack of sources being processed, used to detect cyclic includes
	stack     []document.FileID
	diags     hcl.Diagnostics
	cancelled bool
}

func (c *compilation) processSource(src *document.Source) {
	c.stack = append(c.stack, src.ID)
	defer func() {
		c.stack = c.stack[:len(c.stack)-1]
	}()

	for _, line := range src.Lines {
		if c.cancelled {
			return
		}
		if err := c.ctx.Err(); err != nil {
			c.cancelled = true
			c.diags = append(c.diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Compilation cancelled",
				Detail:   err.Error(),
			})
			return
		}
		c.processLine(src, line)
	}
	c.ts.endParagraph()
}

func (c *compilation) processLine(src *document.Source, line document.Line) {
	content := line.Content()
	if len(bytes.TrimSpace(content)) == 0 {
		c.ts.endParagraph()
		return
	}

	if level, offset, ok := headingLevel(content); ok {
		c.ts.endParagraph()
		segments, diags := scanInline(line, offset)
		c.diags = append(c.diags, diags...)

		var title strings.Builder
		for _, seg := range segments {
			if seg.kind == textSegment {
				title.WriteString(seg.text)
				continue
			}
			text, ok := c.inlineCode(line, seg)
			if !ok {
				c.diags = append(c.diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Unexpected block in heading",
					Detail:   fmt.Sprintf("%q cannot be used within a heading", seg.name),
					Subject:  lineRange(line, seg.start, seg.end).Ptr(),
				})
				continue
			}
			title.WriteString(text)
		}
		c.ts.heading(level, title.String())
		return
	}

	segments, diags := scanInline(line, 0)
	c.diags = append(c.diags, diags...)
	for _, seg := range segments {
		if seg.kind == textSegment {
			c.ts.addText(seg.text)
			continue
		}
		if text, ok := c.inlineCode(line, seg); ok {
			c.ts.addText(text)
			continue
		}
		c.blockCode(src, line, seg)
	}
	c.ts.endLine()
}

// inlineCode evaluates code which produces text.
// It returns false for block level code.
func (c *compilation) inlineCode(line document.Line, seg segment) (string, bool) {
	switch seg.name {
	case "include", "image", "pagebreak", "set":
		return "", false
	case "datetime.today":
		if !c.expectNoArgs(line, seg) {
			return "", true
		}
		today, ok := c.world.Today(nil)
		if !ok {
			c.diags = append(c.diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Date unavailable",
				Subject:  lineRange(line, seg.start, seg.end).Ptr(),
			})
			return "", true
		}
		return today.Format(dateFormat), true
	}

	expr, diags := hclsyntax.ParseExpression([]byte(seg.expr), line.Range.Filename,
		linePos(line, seg.exprStart))
	c.diags = append(c.diags, diags...)
	if diags.HasErrors() {
		return "", true
	}

	val, diags := expr.Value(c.evalCtx)
	c.diags = append(c.diags, diags...)
	if diags.HasErrors() {
		return "", true
	}

	text, err := valueToString(val)
	if err != nil {
		c.diags = append(c.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid value",
			Detail:   fmt.Sprintf("Expression cannot be displayed as text: %s", err),
			Subject:  lineRange(line, seg.start, seg.end).Ptr(),
		})
		return "", true
	}
	return text, true
}

func (c *compilation) blockCode(src *document.Source, line document.Line, seg segment) {
	switch seg.name {
	case "include":
		path, ok := c.stringArg(line, seg)
		if !ok {
			return
		}
		c.include(src, line, seg, path)
	case "image":
		path, ok := c.stringArg(line, seg)
		if !ok {
			return
		}
		c.image(src, line, seg, path)
	case "pagebreak":
		if c.expectNoArgs(line, seg) {
			c.ts.pageBreak()
		}
	case "set":
		c.setRule(line, seg)
	}
}

func (c *compilation) include(src *document.Source, line document.Line, seg segment, path string) {
	id := document.ResolveFileID(src.ID, path)
	rng := lineRange(line, seg.start, seg.end)

	for _, parent := range c.stack {
		if parent == id {
			c.diags = append(c.diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Cyclic include",
				Detail:   fmt.Sprintf("%s is already being included", id),
				Subject:  &rng,
			})
			return
		}
	}

	included, err := c.world.Source(id)
	if err != nil {
		c.diags = append(c.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Failed to include file",
			Detail:   err.Error(),
			Subject:  &rng,
		})
		return
	}

	c.ts.endParagraph()
	c.processSource(included)
}

func (c *compilation) image(src *document.Source, line document.Line, seg segment, path string) {
	id := document.ResolveFileID(src.ID, path)
	rng := lineRange(line, seg.start, seg.end)

	data, err := c.world.File(id)
	if err != nil {
		c.diags = append(c.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Failed to load image",
			Detail:   err.Error(),
			Subject:  &rng,
		})
		return
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		c.diags = append(c.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Failed to decode image",
			Detail:   fmt.Sprintf("%s: %s", id, err),
			Subject:  &rng,
		})
		return
	}

	c.ts.image(format, data, cfg.Width, cfg.Height)
}

func (c *compilation) setRule(line document.Line, seg segment) {
	rng := lineRange(line, seg.start, seg.end)
	if seg.target != "text" {
		c.diags = append(c.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported set rule",
			Detail:   fmt.Sprintf("Only text can be set, given %q", seg.target),
			Subject:  &rng,
		})
		return
	}

	// The arguments are parsed as an object, with the opening
	// parenthesis replaced by a brace at the same position
	src := "{" + seg.args + "}"
	expr, diags := hclsyntax.ParseExpression([]byte(src), line.Range.Filename,
		linePos(line, seg.argsStart))
	c.diags = append(c.diags, diags...)
	if diags.HasErrors() {
		return
	}
	val, diags := expr.Value(c.evalCtx)
	c.diags = append(c.diags, diags...)
	if diags.HasErrors() {
		return
	}
	if !val.Type().IsObjectType() {
		return
	}

	args := val.AsValueMap()
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	c.ts.endParagraph()
	for _, name := range names {
		v := args[name]
		switch name {
		case "font":
			family, err := valueToString(v)
			if err != nil {
				c.diags = append(c.diags, invalidArgument(rng, name, err))
				continue
			}
			c.setFont(rng, family)
		case "size":
			var size float64
			err := gocty.FromCtyValue(v, &size)
			if err == nil && size <= 0 {
				err = fmt.Errorf("must be positive")
			}
			if err != nil {
				c.diags = append(c.diags, invalidArgument(rng, name, err))
				continue
			}
			c.ts.style.size = size
		default:
			c.diags = append(c.diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported argument",
				Detail:   fmt.Sprintf("An argument named %q is not expected here", name),
				Subject:  &rng,
			})
		}
	}
}

func (c *compilation) setFont(rng hcl.Range, family string) {
	regular, ok := c.book.Select(family, fonts.WeightRegular)
	if !ok {
		c.diags = append(c.diags, &hcl.Diagnostic{
			Severity: hcl.DiagWarning,
			Summary:  "Unknown font family",
			Detail:   fmt.Sprintf("Family %q is not available", family),
			Subject:  &rng,
		})
		return
	}
	if c.world.Font(regular) == nil {
		c.diags = append(c.diags, &hcl.Diagnostic{
			Severity: hcl.DiagWarning,
			Summary:  "Font could not be loaded",
			Detail:   fmt.Sprintf("Face %d of family %q failed to load", regular, family),
			Subject:  &rng,
		})
		return
	}

	bold, _ := c.book.Select(family, fonts.WeightBold)
	if bold >= 0 && c.world.Font(bold) == nil {
		bold = -1
	}

	c.ts.style.family = family
	c.ts.style.regular = regular
	c.ts.style.bold = bold
}

// stringArg evaluates the only argument of a call to a string
func (c *compilation) stringArg(line document.Line, seg segment) (string, bool) {
	rng := lineRange(line, seg.start, seg.end)

	expr, diags := hclsyntax.ParseExpression([]byte(seg.expr), line.Range.Filename,
		linePos(line, seg.exprStart))
	c.diags = append(c.diags, diags...)
	if diags.HasErrors() {
		return "", false
	}

	call, ok := expr.(*hclsyntax.FunctionCallExpr)
	if !ok || len(call.Args) != 1 {
		c.diags = append(c.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid arguments",
			Detail:   fmt.Sprintf("%s expects exactly one argument", seg.name),
			Subject:  &rng,
		})
		return "", false
	}

	val, diags := call.Args[0].Value(c.evalCtx)
	c.diags = append(c.diags, diags...)
	if diags.HasErrors() {
		return "", false
	}

	s, err := valueToString(val)
	if err != nil {
		c.diags = append(c.diags, invalidArgument(rng, "path", err))
		return "", false
	}
	return s, true
}

func (c *compilation) expectNoArgs(line document.Line, seg segment) bool {
	if !seg.hasArgs || strings.TrimSpace(seg.args) != "" {
		c.diags = append(c.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid arguments",
			Detail:   fmt.Sprintf("%s must be called with no arguments, e.g. #%s()", seg.name, seg.name),
			Subject:  lineRange(line, seg.start, seg.end).Ptr(),
		})
		return false
	}
	return true
}

func valueToString(val cty.Value) (string, error) {
	if val.IsNull() {
		return "", nil
	}
	if !val.IsKnown() {
		return "", fmt.Errorf("value is not known")
	}
	sv, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", err
	}
	return sv.AsString(), nil
}

func invalidArgument(rng hcl.Range, name string, err error) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Invalid argument",
		Detail:   fmt.Sprintf("Invalid value for %q: %s", name, err),
		Subject:  &rng,
	}
}
