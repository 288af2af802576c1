// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package session exposes a world and its compilation driver
// as a single object owned by a host.
package session

import (
	"context"
	"fmt"
	"io/ioutil"
	"log"
	"sync"

	"github.com/hashicorp/docworld/compiler"
	"github.com/hashicorp/docworld/fonts"
	"github.com/hashicorp/docworld/internal/markup"
	"github.com/hashicorp/docworld/internal/settings"
	"github.com/hashicorp/docworld/world"
	"github.com/spf13/afero"
)

var discardLogs = log.New(ioutil.Discard, "", 0)

// Session serializes access of a host to a world and its driver.
//
// Mutations and compilation hold an exclusive lock, so resources
// cannot change while a compilation is in progress. Rendering
// only needs shared access. The compiler itself reads the world
// directly and never acquires the session lock.
type Session struct {
	mu       sync.RWMutex
	provider *world.Provider
	driver   *compiler.Driver
	logger   *log.Logger
}

// NewSession creates a session compiling with the built-in markup engine
func NewSession() (*Session, error) {
	return NewSessionWithCompiler(markup.NewEngine())
}

func NewSessionWithCompiler(c compiler.Compiler) (*Session, error) {
	p, err := world.NewProvider()
	if err != nil {
		return nil, err
	}

	return &Session{
		provider: p,
		driver:   compiler.NewDriver(p, c),
		logger:   discardLogs,
	}, nil
}

func (s *Session) SetLogger(logger *log.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger = logger
	s.provider.SetLogger(logger)
	s.driver.SetLogger(logger)
}

// World returns the underlying world. It must not be mutated
// directly while the session is in use.
func (s *Session) World() *world.Provider {
	return s.provider
}

// Configure applies host options
func (s *Session) Configure(opts *settings.Options) error {
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if opts.EntryPath != "" {
		s.provider.SetEntryPath(opts.EntryPath)
	}
	if opts.Inputs != nil {
		s.provider.SetInputs(opts.Inputs)
	}
	return nil
}

func (s *Session) SetInputs(inputs map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider.SetInputs(inputs)
}

func (s *Session) SetFonts(inputs []world.FontInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider.SetFonts(inputs)
}

func (s *Session) AddFont(input world.FontInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider.AddFont(input)
}

func (s *Session) AddFontFile(fs afero.Fs, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider.AddFontFile(fs, path)
}

func (s *Session) SetSourcesAndFiles(sources []world.SourceInput, files []world.FileInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider.SetSourcesAndFiles(sources, files)
}

func (s *Session) AddSource(path, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider.AddSource(path, text)
}

func (s *Session) AddFile(path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider.AddFile(path, data)
}

// Compile compiles the main source. On success the document
// is retained for subsequent renders.
func (s *Session) Compile(ctx context.Context) *compiler.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver.Compile(ctx)
}

func (s *Session) RenderPDF() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.driver.RenderPDF()
}

func (s *Session) RenderSVG() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.driver.RenderSVG()
}

func (s *Session) RenderSVGPages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.driver.RenderSVGPages()
}

// Fonts lists all faces in the font book
func (s *Session) Fonts() []fonts.Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider.Book().Infos()
}
