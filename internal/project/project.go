// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package project reads a document project and fonts from a filesystem
// so that native hosts can push them into a world.
package project

import (
	"io/fs"
	"io/ioutil"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/docworld/world"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

var (
	discardLogger = log.New(ioutil.Discard, "", 0)

	// skipDirNames represent directory names which never
	// contain project files
	skipDirNames = map[string]bool{
		".git":         true,
		".idea":        true,
		".vscode":      true,
		"node_modules": true,
	}

	sourceExtensions = map[string]bool{
		".typ":  true,
		".txt":  true,
		".md":   true,
		".csv":  true,
		".json": true,
		".yaml": true,
		".yml":  true,
		".toml": true,
		".bib":  true,
		".xml":  true,
		".svg":  true,
	}

	fontExtensions = map[string]bool{
		".ttf": true,
		".otf": true,
		".ttc": true,
		".otc": true,
	}
)

type Project struct {
	Root    string
	Sources []world.SourceInput
	Files   []world.FileInput
}

type Loader struct {
	fs     afero.Fs
	logger *log.Logger
}

func NewLoader(fs afero.Fs) *Loader {
	return &Loader{
		fs:     fs,
		logger: discardLogger,
	}
}

func (l *Loader) SetLogger(logger *log.Logger) {
	l.logger = logger
}

// Load reads every file under root. Text files become sources,
// and every file (text or not) is also registered as bytes.
// Virtual paths are relative to root.
func (l *Loader) Load(root string) (*Project, error) {
	p := &Project{
		Root:    root,
		Sources: make([]world.SourceInput, 0),
		Files:   make([]world.FileInput, 0),
	}

	var errs *multierror.Error
	err := afero.Walk(l.fs, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			errs = multierror.Append(errs, err)
			return nil
		}
		if info.IsDir() {
			if path != root && skipDirNames[info.Name()] {
				l.logger.Printf("skipping ignored dir name: %s", path)
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			errs = multierror.Append(errs, err)
			return nil
		}
		vpath := filepath.ToSlash(rel)

		data, err := afero.ReadFile(l.fs, path)
		if err != nil {
			errs = multierror.Append(errs, err)
			return nil
		}

		if IsSourcePath(vpath) {
			p.Sources = append(p.Sources, world.SourceInput{
				Path: vpath,
				Text: string(data),
			})
		}
		p.Files = append(p.Files, world.FileInput{
			Path: vpath,
			Data: data,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Printf("loaded %d sources and %d files from %s",
		len(p.Sources), len(p.Files), root)

	return p, errs.ErrorOrNil()
}

// FindFonts returns paths of all font files within dirs
// in lexical order per directory
func (l *Loader) FindFonts(dirs []string) ([]string, error) {
	var errs *multierror.Error
	paths := make([]string, 0)

	for _, dir := range dirs {
		found := make([]string, 0)
		err := afero.Walk(l.fs, dir, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				errs = multierror.Append(errs, err)
				return nil
			}
			if !info.IsDir() && IsFontPath(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}

	return paths, errs.ErrorOrNil()
}

// FontRegistry accepts font files to be decoded lazily
type FontRegistry interface {
	AddFontFile(fs afero.Fs, path string) error
}

// LoadFonts registers all font files within dirs with r.
// Files which cannot be registered are reported in the returned error
// and the remaining ones are registered anyway.
func (l *Loader) LoadFonts(r FontRegistry, dirs []string) (int, error) {
	var errs *multierror.Error

	paths, err := l.FindFonts(dirs)
	if err != nil {
		errs = multierror.Append(errs, err)
	}

	count := 0
	for _, path := range paths {
		if err := r.AddFontFile(l.fs, path); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		count++
	}
	l.logger.Printf("registered %d of %d font files", count, len(paths))

	return count, errs.ErrorOrNil()
}

func IsSourcePath(path string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(path))]
}

func IsFontPath(path string) bool {
	return fontExtensions[strings.ToLower(filepath.Ext(path))]
}
