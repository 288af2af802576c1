// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package state

import (
	"io/ioutil"
	"log"

	"github.com/hashicorp/go-memdb"
)

const (
	slotsTableName = "file_slots"
)

var dbSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		slotsTableName: {
			Name: slotsTableName,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &FileIDFieldIndexer{Field: "ID"},
				},
			},
		},
	},
}

type StateStore struct {
	Slots *SlotStore

	db *memdb.MemDB
}

func NewStateStore() (*StateStore, error) {
	db, err := memdb.NewMemDB(dbSchema)
	if err != nil {
		return nil, err
	}

	return &StateStore{
		db: db,
		Slots: &SlotStore{
			db:        db,
			tableName: slotsTableName,
			logger:    defaultLogger,
		},
	}, nil
}

func (s *StateStore) SetLogger(logger *log.Logger) {
	s.Slots.logger = logger
}

var defaultLogger = log.New(ioutil.Discard, "", 0)
