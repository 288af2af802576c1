// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

func NewLogger(w io.Writer) *log.Logger {
	return log.New(w, "", log.LstdFlags|log.Lshortfile)
}

type fileLogger struct {
	l *log.Logger
	f *os.File
}

func NewFileLogger(rawPath string) (*fileLogger, error) {
	path, err := ParseRawPath("log-file", rawPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse path: %w", err)
	}

	if !filepath.IsAbs(path) {
		return nil, fmt.Errorf("please provide absolute log path to prevent ambiguity (given: %q)",
			path)
	}

	mode := os.O_TRUNC | os.O_CREATE | os.O_WRONLY
	file, err := os.OpenFile(path, mode, 0600)
	if err != nil {
		return nil, err
	}

	return &fileLogger{
		l: NewLogger(file),
		f: file,
	}, nil
}

func (fl *fileLogger) Logger() *log.Logger {
	return fl.l
}

func (fl *fileLogger) Close() error {
	return fl.f.Close()
}

// NewCommandLogger returns the logger for a CLI command. Logs go
// to the file at the templated logFilePath if any, to stderr
// when verbose, and are discarded otherwise.
// The returned function closes the log file, if one was opened.
func NewCommandLogger(logFilePath string, verbose bool) (*log.Logger, func() error, error) {
	if logFilePath != "" {
		fl, err := NewFileLogger(logFilePath)
		if err != nil {
			return nil, nil, err
		}
		return fl.Logger(), fl.Close, nil
	}

	noop := func() error { return nil }
	if verbose {
		return NewLogger(os.Stderr), noop, nil
	}
	return NewLogger(ioutil.Discard), noop, nil
}

// ParseRawPath interpolates variables (timestamp, pid, ppid)
// in a path written in Go template syntax, e.g. /tmp/docworld-{{pid}}.log
func ParseRawPath(name string, rawPath string) (string, error) {
	tpl := template.New(name)
	tpl = tpl.Funcs(template.FuncMap{
		"timestamp": time.Now().Local().Unix,
		"pid":       os.Getpid,
		"ppid":      os.Getppid,
	})
	tpl, err := tpl.Parse(rawPath)
	if err != nil {
		return "", err
	}

	buf := &strings.Builder{}
	err = tpl.Execute(buf, nil)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
