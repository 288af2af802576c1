// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"os"
	"runtime"
	"strings"

	"github.com/hashicorp/docworld/internal/cmd"
	"github.com/mitchellh/cli"
)

func main() {
	c := &cli.CLI{
		Name:    "docworld",
		Version: VersionString(),
		Args:    os.Args[1:],
	}

	ui := &cli.ColoredUi{
		ErrorColor: cli.UiColorRed,
		WarnColor:  cli.UiColorYellow,
		Ui: &cli.BasicUi{
			Writer:      os.Stdout,
			Reader:      os.Stdin,
			ErrorWriter: os.Stderr,
		},
	}

	c.Commands = map[string]cli.CommandFactory{
		"compile": func() (cli.Command, error) {
			return &cmd.CompileCommand{
				Ui: ui,
			}, nil
		},
		"fonts": func() (cli.Command, error) {
			return &cmd.FontsCommand{
				Ui: ui,
			}, nil
		},
		"serve": func() (cli.Command, error) {
			return &cmd.ServeCommand{
				Ui:      ui,
				Version: VersionString(),
			}, nil
		},
		"version": func() (cli.Command, error) {
			return &cmd.VersionCommand{
				Ui:      ui,
				Version: VersionString(),
				BuildInfo: &cmd.BuildInfo{
					GoVersion: strings.TrimPrefix(runtime.Version(), "go"),
					GoOS:      runtime.GOOS,
					GoArch:    runtime.GOARCH,
				},
			}, nil
		},
	}

	exitStatus, err := c.Run()
	if err != nil {
		ui.Error("Error: " + err.Error())
	}

	os.Exit(exitStatus)
}
