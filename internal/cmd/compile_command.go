// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"syscall"

	lsctx "github.com/hashicorp/docworld/internal/context"
	"github.com/hashicorp/docworld/internal/logging"
	"github.com/hashicorp/docworld/internal/project"
	"github.com/hashicorp/docworld/internal/settings"
	"github.com/hashicorp/docworld/session"
	"github.com/hashicorp/docworld/world"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
)

type CompileCommand struct {
	Ui cli.Ui

	// flags
	outPath     string
	format      string
	entryPath   string
	fontDirs    stringSlice
	inputs      inputsFlag
	inputsFile  string
	logFilePath string
	verbose     bool
}

func (c *CompileCommand) flags() *flag.FlagSet {
	fs := defaultFlagSet("compile")

	c.inputs = make(inputsFlag)

	fs.StringVar(&c.outPath, "out", "", "path of the output file, defaults to the entry file"+
		" with the extension of the format")
	fs.StringVar(&c.format, "format", "pdf", "output format (pdf or svg)")
	fs.StringVar(&c.entryPath, "entry", world.DefaultEntryPath, "path of the main source relative to the project")
	fs.Var(&c.fontDirs, "font-dir", "directory to load fonts from (can be repeated)")
	fs.Var(c.inputs, "input", "input as key=value exposed as sys.inputs (can be repeated)")
	fs.StringVar(&c.inputsFile, "inputs-file", "", "path to a file of KEY=value inputs,"+
		" overridden by -input")
	fs.StringVar(&c.logFilePath, "log-file", "", "path to a file to log into with support "+
		"for variables (e.g. timestamp, pid, ppid) via Go template syntax {{pid}}")
	fs.BoolVar(&c.verbose, "verbose", false, "whether to log to stderr")

	fs.Usage = func() { c.Ui.Error(c.Help()) }

	return fs
}

func (c *CompileCommand) Run(args []string) int {
	f := c.flags()
	if err := f.Parse(args); err != nil {
		c.Ui.Error(fmt.Sprintf("Error parsing command-line flags: %s", err))
		return 1
	}

	if f.NArg() > 1 {
		c.Ui.Error(fmt.Sprintf("expected at most one argument, %d given", f.NArg()))
		return 1
	}
	root := "."
	if f.NArg() == 1 {
		root = f.Arg(0)
	}
	root, err := filepath.Abs(root)
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}

	format := strings.ToLower(c.format)
	if format != "pdf" && format != "svg" {
		c.Ui.Error(fmt.Sprintf("unsupported format %q, expected pdf or svg", c.format))
		return 1
	}

	logger, closeLog, err := logging.NewCommandLogger(c.logFilePath, c.verbose)
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Failed to setup logging: %s", err))
		return 1
	}
	defer closeLog()

	ctx, cancelFunc := lsctx.WithSignalCancel(context.Background(), logger,
		syscall.SIGINT, syscall.SIGTERM)
	defer cancelFunc()

	inputs, err := readInputs(c.inputsFile, c.inputs)
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}
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

	err = sess.Configure(&settings.Options{
		EntryPath: c.entryPath,
		Inputs:    inputs,
		FontPaths: fontDirs,
	})
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}

	osFs := afero.NewOsFs()
	loader := project.NewLoader(osFs)
	loader.SetLogger(logger)

	if len(fontDirs) > 0 {
		n, err := loader.LoadFonts(sess, fontDirs)
		if err != nil {
			c.warnAll("font", err)
		}
		logger.Printf("loaded %d font files", n)
	}

	p, err := loader.Load(root)
	if p == nil {
		c.Ui.Error(fmt.Sprintf("Failed to load project: %s", err))
		return 1
	}
	if err != nil {
		c.warnAll("project", err)
	}

	err = sess.SetSourcesAndFiles(p.Sources, p.Files)
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Failed to register project files: %s", err))
		return 1
	}

	result := sess.Compile(ctx)
	if cause := context.Cause(ctx); cause != nil {
		var sigErr *lsctx.SignalError
		if errors.As(cause, &sigErr) {
			c.Ui.Error(fmt.Sprintf("Compilation %s", sigErr))
			return 1
		}
	}
	if text := result.Text(); text != "" {
		if result.Success() {
			c.Ui.Warn(text)
		} else {
			c.Ui.Error(text)
		}
	}
	if !result.Success() {
		return 1
	}

	outPath := c.outPath
	if outPath == "" {
		entry := filepath.Join(root, filepath.FromSlash(c.entryPath))
		outPath = strings.TrimSuffix(entry, filepath.Ext(entry)) + "." + format
	}

	var out []byte
	switch format {
	case "pdf":
		out, err = sess.RenderPDF()
		if err != nil {
			c.Ui.Error(fmt.Sprintf("Failed to render PDF: %s", err))
			return 1
		}
	case "svg":
		out = []byte(sess.RenderSVG())
	}

	err = afero.WriteFile(osFs, outPath, out, 0644)
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Failed to write output: %s", err))
		return 1
	}
	c.Ui.Output(fmt.Sprintf("Compiled %s into %s", c.entryPath, outPath))

	return 0
}

func (c *CompileCommand) warnAll(kind string, err error) {
	var me *multierror.Error
	if errors.As(err, &me) {
		for _, e := range me.Errors {
			c.Ui.Warn(fmt.Sprintf("Skipping %s: %s", kind, e))
		}
		return
	}
	c.Ui.Warn(fmt.Sprintf("Skipping %s: %s", kind, err))
}

func (c *CompileCommand) Help() string {
	helpText := `
Usage: docworld compile [options] [path]

` + c.Synopsis() + `

  The project is read from path, or the current directory
  if none is given.

` + helpForFlags(c.flags())

	return strings.TrimSpace(helpText)
}

func (c *CompileCommand) Synopsis() string {
	return "Compiles a document project into PDF or SVG"
}
