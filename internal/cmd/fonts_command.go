// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"strings"

	"github.com/hashicorp/docworld/internal/logging"
	"github.com/hashicorp/docworld/internal/project"
	"github.com/hashicorp/docworld/session"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
)

type FontFace struct {
	Family    string `json:"family"`
	Subfamily string `json:"subfamily,omitempty"`
	Style     string `json:"style"`
	Weight    int    `json:"weight"`
}

type FontsCommand struct {
	Ui cli.Ui

	// flags
	fontDirs   stringSlice
	jsonOutput bool
	verbose    bool
}

func (c *FontsCommand) flags() *flag.FlagSet {
	fs := defaultFlagSet("fonts")

	fs.Var(&c.fontDirs, "font-dir", "directory to load fonts from (can be repeated)")
	fs.BoolVar(&c.jsonOutput, "json", false, "output the font faces as a JSON array")
	fs.BoolVar(&c.verbose, "verbose", false, "whether to log to stderr")

	fs.Usage = func() { c.Ui.Error(c.Help()) }

	return fs
}

func (c *FontsCommand) Run(args []string) int {
	f := c.flags()
	if err := f.Parse(args); err != nil {
		c.Ui.Error(fmt.Sprintf("Error parsing command-line flags: %s", err))
		return 1
	}

	logger, closeLog, err := logging.NewCommandLogger("", c.verbose)
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}
	defer closeLog()

	fontDirs, err := expandPaths(c.fontDirs)
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}

	sess, err := session.NewSession()
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Failed to create session: %s", err))
		return 1
	}
	sess.SetLogger(logger)

	loader := project.NewLoader(afero.NewOsFs())
	loader.SetLogger(logger)
	_, err = loader.LoadFonts(sess, fontDirs)
	if err != nil {
		c.Ui.Warn(err.Error())
	}

	infos := sess.Fonts()
	faces := make([]FontFace, 0, len(infos))
	for _, info := range infos {
		faces = append(faces, FontFace{
			Family:    info.Family,
			Subfamily: info.Subfamily,
			Style:     info.Style.String(),
			Weight:    info.Weight,
		})
	}

	if c.jsonOutput {
		out, err := json.MarshalIndent(faces, "", "  ")
		if err != nil {
			c.Ui.Error(fmt.Sprintf("Error marshalling JSON: %s", err))
			return 1
		}
		c.Ui.Output(string(out))
		return 0
	}

	if len(faces) == 0 {
		c.Ui.Output("No fonts found")
		return 0
	}
	for i, face := range faces {
		c.Ui.Output(fmt.Sprintf("%d: %s (%s, %d)", i, face.Family, face.Style, face.Weight))
	}
	return 0
}

func (c *FontsCommand) Help() string {
	helpText := `
Usage: docworld fonts [options]

` + c.Synopsis() + "\n\n" + helpForFlags(c.flags())

	return strings.TrimSpace(helpText)
}

func (c *FontsCommand) Synopsis() string {
	return "Lists font faces found in font directories"
}
