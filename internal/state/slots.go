// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package state

import (
	"log"

	"github.com/hashicorp/docworld/document"
	"github.com/hashicorp/go-memdb"
)

// FileSlot represents one logical file of the virtual project
//
// A slot may carry a text source, raw bytes, or both,
// depending on how the host registered it.
type FileSlot struct {
	ID document.FileID

	// Source is nil if the slot was only registered as a file
	Source *document.Source

	// Data is nil if the slot was only registered as a source
	Data []byte
}

func (fs *FileSlot) Copy() *FileSlot {
	return &FileSlot{
		ID:     fs.ID,
		Source: fs.Source,
		Data:   fs.Data,
	}
}

// SourceEntry and FileEntry describe slots registered in bulk
type SourceEntry struct {
	ID   document.FileID
	Text string
}

type FileEntry struct {
	ID   document.FileID
	Data []byte
}

type SlotStore struct {
	db        *memdb.MemDB
	tableName string
	logger    *log.Logger
}

// Upsert inserts the slot or replaces any existing slot with the same ID
func (s *SlotStore) Upsert(slot *FileSlot) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	err := txn.Insert(s.tableName, slot.Copy())
	if err != nil {
		return err
	}

	txn.Commit()
	return nil
}

// PutSource registers a text source, keeping any bytes
// previously registered for the same ID
func (s *SlotStore) PutSource(id document.FileID, text string) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	slot, err := copySlotOrNew(txn, id)
	if err != nil {
		return err
	}
	slot.Source = document.NewSource(id, text)

	err = txn.Insert(s.tableName, slot)
	if err != nil {
		return err
	}

	txn.Commit()
	return nil
}

// PutFile registers raw bytes, keeping any text source
// previously registered for the same ID
func (s *SlotStore) PutFile(id document.FileID, data []byte) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	slot, err := copySlotOrNew(txn, id)
	if err != nil {
		return err
	}
	slot.Data = cloneBytes(data)

	err = txn.Insert(s.tableName, slot)
	if err != nil {
		return err
	}

	txn.Commit()
	return nil
}

// ReplaceAll clears the table and inserts the given sources and files
// within a single transaction, so readers observe either the old
// or the new set of slots, never a partially populated table.
func (s *SlotStore) ReplaceAll(sources []SourceEntry, files []FileEntry) error {
	slots := make(map[document.FileID]*FileSlot, len(sources)+len(files))
	slotFor := func(id document.FileID) *FileSlot {
		slot, ok := slots[id]
		if !ok {
			slot = &FileSlot{ID: id}
			slots[id] = slot
		}
		return slot
	}

	for _, f := range files {
		slotFor(f.ID).Data = cloneBytes(f.Data)
	}
	for _, src := range sources {
		slotFor(src.ID).Source = document.NewSource(src.ID, src.Text)
	}

	txn := s.db.Txn(true)
	defer txn.Abort()

	_, err := txn.DeleteAll(s.tableName, "id")
	if err != nil {
		return err
	}

	for _, slot := range slots {
		err = txn.Insert(s.tableName, slot)
		if err != nil {
			return err
		}
	}

	txn.Commit()
	s.logger.Printf("replaced file slots (%d sources, %d files)", len(sources), len(files))
	return nil
}

// Source returns the text source registered for id.
//
// Slots registered only as files yield an empty source.
func (s *SlotStore) Source(id document.FileID) (*document.Source, error) {
	slot, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if slot.Source == nil {
		return document.NewSource(id, ""), nil
	}
	return slot.Source, nil
}

// File returns the raw bytes registered for id.
//
// Slots registered only as sources yield their text.
func (s *SlotStore) File(id document.FileID) ([]byte, error) {
	slot, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if slot.Data == nil && slot.Source != nil {
		return slot.Source.Bytes(), nil
	}
	return cloneBytes(slot.Data), nil
}

func (s *SlotStore) Get(id document.FileID) (*FileSlot, error) {
	txn := s.db.Txn(false)
	return getSlot(txn, id)
}

func (s *SlotStore) List() ([]*FileSlot, error) {
	txn := s.db.Txn(false)
	it, err := txn.Get(s.tableName, "id")
	if err != nil {
		return nil, err
	}

	slots := make([]*FileSlot, 0)
	for item := it.Next(); item != nil; item = it.Next() {
		slots = append(slots, item.(*FileSlot))
	}

	return slots, nil
}

func (s *SlotStore) Len() (int, error) {
	slots, err := s.List()
	if err != nil {
		return 0, err
	}
	return len(slots), nil
}

func getSlot(txn *memdb.Txn, id document.FileID) (*FileSlot, error) {
	obj, err := txn.First(slotsTableName, "id", id)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, &document.NotFoundError{
			Path: id.RootedPath(),
		}
	}
	return obj.(*FileSlot), nil
}

func copySlotOrNew(txn *memdb.Txn, id document.FileID) (*FileSlot, error) {
	slot, err := getSlot(txn, id)
	if err != nil {
		if document.IsNotFound(err) {
			return &FileSlot{ID: id}, nil
		}
		return nil, err
	}
	return slot.Copy(), nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
