// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package chaintest

import (
	"errors"
	"path/filepath"

	"github.com/0xsoniclabs/receiptbridge/database/kv"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
)

// Options select the layout of a fixture database.
type Options struct {
	// Backend is the key/value engine, BackendAuto creates a Pebble store.
	Backend kv.Backend
	// AncientDir is the freezer root. If empty, frozen blocks are kept in
	// memory and dropped when the database is closed.
	AncientDir string
}

// Create creates a writable chain database in dir, fills it using the given
// function and closes it again.
func Create(dir string, opts Options, fill func(ethdb.Database) error) (err error) {
	store, err := kv.Open(dir, opts.Backend, kv.Options{})
	if err != nil {
		return err
	}
	db, err := rawdb.Open(store, rawdb.OpenOptions{Ancient: opts.AncientDir})
	if err != nil {
		return errors.Join(err, store.Close())
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()
	return fill(db)
}

// CreateDatabase writes the given chain into a fresh LevelDB database in dir.
// The first frozen blocks are placed in the freezer in <dir>/ancient.
func CreateDatabase(dir string, chain *Chain, frozen uint64) error {
	opts := Options{
		Backend:    kv.BackendLevelDB,
		AncientDir: AncientDir(dir),
	}
	return Create(dir, opts, func(db ethdb.Database) error {
		return chain.WriteTo(db, frozen)
	})
}

// NewMemoryDatabase writes the given chain into an in-memory database with
// an in-memory freezer holding the first frozen blocks.
func NewMemoryDatabase(chain *Chain, frozen uint64) (ethdb.Database, error) {
	db, err := rawdb.Open(memorydb.New(), rawdb.OpenOptions{})
	if err != nil {
		return nil, err
	}
	if err := chain.WriteTo(db, frozen); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return db, nil
}

// AncientDir is the default freezer root of a database in dir.
func AncientDir(dir string) string {
	return filepath.Join(dir, "ancient")
}
