// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package world

import (
	"fmt"
	"io/ioutil"
	"log"
	"sync"
	"time"

	"github.com/hashicorp/docworld/document"
	"github.com/hashicorp/docworld/fonts"
	"github.com/hashicorp/docworld/internal/state"
	"github.com/hashicorp/docworld/library"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

const DefaultEntryPath = "main.typ"

const missingMainText = "= Error!\nCould not find %s file."

var (
	_ World = &Provider{}

	defaultLogger = log.New(ioutil.Discard, "", 0)

	epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// Provider is a World backed entirely by resources pushed by the host.
//
// The library, the font book and the font slots are immutable snapshots.
// Mutators publish new snapshots, so a compilation which already
// obtained a snapshot keeps seeing a consistent state.
type Provider struct {
	mu      sync.RWMutex
	library *library.Library
	book    *fonts.Book
	slots   []*fonts.Slot

	files *state.SlotStore

	entry  document.FileID
	decode fonts.DecodeFunc
	logger *log.Logger
}

func NewProvider() (*Provider, error) {
	ss, err := state.NewStateStore()
	if err != nil {
		return nil, err
	}
	ss.SetLogger(defaultLogger)

	return &Provider{
		library: library.Default(),
		book:    fonts.NewBook(),
		slots:   make([]*fonts.Slot, 0),
		files:   ss.Slots,
		entry:   document.NewFileID(DefaultEntryPath),
		decode:  fonts.Decode,
		logger:  defaultLogger,
	}, nil
}

func (p *Provider) SetLogger(logger *log.Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logger = logger
}

// SetEntryPath changes the path of the source returned by Main
func (p *Provider) SetEntryPath(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entry = document.NewFileID(path)
}

func (p *Provider) EntryPath() document.FileID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.entry
}

// SetFontDecoder replaces the function used to decode font faces.
// It only affects fonts registered afterwards.
func (p *Provider) SetFontDecoder(decode fonts.DecodeFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.decode = decode
}

// SetInputs replaces the library with one carrying the given inputs.
// Inputs are never merged with the previous ones.
func (p *Provider) SetInputs(inputs map[string]string) {
	lib := library.NewBuilder().WithInputs(inputs).Build()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.library = lib
	p.logger.Printf("library configured with %d inputs (hash %x)", len(inputs), lib.Hash())
}

// SetFonts replaces all fonts with faces found in the given buffers.
//
// Buffers which contain no usable face are skipped and reported
// in the returned error, all other faces are installed.
func (p *Provider) SetFonts(inputs []FontInput) error {
	decode := p.fontDecoder()

	var errs *multierror.Error
	infos := make([]fonts.Info, 0)
	slots := make([]*fonts.Slot, 0)
	for _, fi := range inputs {
		faces, err := fonts.Scan(fi.Data)
		if err != nil {
			errs = multierror.Append(errs, withFontPath(err, fi.Path))
			continue
		}
		for _, face := range faces {
			infos = append(infos, face.Info)
			slots = append(slots, fonts.NewMemorySlot(fi.Path, fi.Data, face.Index, decode))
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.book = fonts.NewBook(infos...)
	p.slots = slots
	p.logger.Printf("installed %d font faces from %d buffers", len(slots), len(inputs))

	return errs.ErrorOrNil()
}

// AddFont appends all faces found in a single buffer
// to the existing fonts
func (p *Provider) AddFont(fi FontInput) error {
	faces, err := fonts.Scan(fi.Data)
	if err != nil {
		return withFontPath(err, fi.Path)
	}

	decode := p.fontDecoder()
	infos := make([]fonts.Info, 0, len(faces))
	slots := make([]*fonts.Slot, 0, len(faces))
	for _, face := range faces {
		infos = append(infos, face.Info)
		slots = append(slots, fonts.NewMemorySlot(fi.Path, fi.Data, face.Index, decode))
	}

	p.appendFonts(infos, slots)
	return nil
}

// AddFontFile appends all faces of the font file at path in fs.
// The file is scanned once now, each face is then decoded
// from a fresh read of the file on first use.
func (p *Provider) AddFontFile(fs afero.Fs, path string) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return err
	}
	faces, err := fonts.Scan(data)
	if err != nil {
		return withFontPath(err, path)
	}

	decode := p.fontDecoder()
	infos := make([]fonts.Info, 0, len(faces))
	slots := make([]*fonts.Slot, 0, len(faces))
	for _, face := range faces {
		infos = append(infos, face.Info)
		slots = append(slots, fonts.NewFileSlot(fs, path, face.Index, decode))
	}

	p.appendFonts(infos, slots)
	return nil
}

func (p *Provider) appendFonts(infos []fonts.Info, slots []*fonts.Slot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	newSlots := make([]*fonts.Slot, 0, len(p.slots)+len(slots))
	newSlots = append(newSlots, p.slots...)
	newSlots = append(newSlots, slots...)

	p.book = p.book.With(infos...)
	p.slots = newSlots
	p.logger.Printf("added %d font faces (%d total)", len(slots), len(newSlots))
}

func (p *Provider) fontDecoder() fonts.DecodeFunc {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.decode
}

// SetSourcesAndFiles replaces all registered sources and files at once
func (p *Provider) SetSourcesAndFiles(sources []SourceInput, files []FileInput) error {
	se := make([]state.SourceEntry, 0, len(sources))
	for _, s := range sources {
		se = append(se, state.SourceEntry{
			ID:   document.NewFileID(s.Path),
			Text: s.Text,
		})
	}
	fe := make([]state.FileEntry, 0, len(files))
	for _, f := range files {
		fe = append(fe, state.FileEntry{
			ID:   document.NewFileID(f.Path),
			Data: f.Data,
		})
	}

	return p.files.ReplaceAll(se, fe)
}

// AddSource registers (or replaces) a single source,
// keeping bytes registered under the same path
func (p *Provider) AddSource(path, text string) error {
	return p.files.PutSource(document.NewFileID(path), text)
}

// AddFile registers (or replaces) the bytes of a single file,
// keeping a source registered under the same path
func (p *Provider) AddFile(path string, data []byte) error {
	return p.files.PutFile(document.NewFileID(path), data)
}

func (p *Provider) Library() *library.Library {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.library
}

func (p *Provider) Book() *fonts.Book {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.book
}

// Main returns the entry source. When there is none, a placeholder
// document reporting the problem is returned instead.
func (p *Provider) Main() *document.Source {
	entry := p.EntryPath()
	src, err := p.files.Source(entry)
	if err != nil {
		if !document.IsNotFound(err) {
			p.logger.Printf("failed to read main source %q: %s", entry, err)
		}
		return document.NewSource(entry, fmt.Sprintf(missingMainText, entry.VirtualPath()))
	}
	return src
}

func (p *Provider) Source(id document.FileID) (*document.Source, error) {
	return p.files.Source(id)
}

func (p *Provider) File(id document.FileID) ([]byte, error) {
	return p.files.File(id)
}

func (p *Provider) Font(index int) *fonts.Font {
	p.mu.RLock()
	slots := p.slots
	p.mu.RUnlock()

	if index < 0 || index >= len(slots) {
		return nil
	}
	return slots[index].Get()
}

func (p *Provider) Today(offset *int) (time.Time, bool) {
	return epoch, true
}

// Files lists paths of all registered sources and files
func (p *Provider) Files() ([]document.FileID, error) {
	slots, err := p.files.List()
	if err != nil {
		return nil, err
	}
	ids := make([]document.FileID, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

func withFontPath(err error, path string) error {
	if nf, ok := err.(*fonts.NoFacesError); ok && path != "" {
		return &fonts.NoFacesError{Path: path, Err: nf.Err}
	}
	if path != "" {
		return fmt.Errorf("%s: %w", path, err)
	}
	return err
}
