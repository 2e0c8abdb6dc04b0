// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package chain provides read-only access to blocks and receipts kept in an
// already populated go-ethereum chain database.
package chain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"

	rcommon "github.com/0xsoniclabs/receiptbridge/common"
	"github.com/0xsoniclabs/receiptbridge/database/kv"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/params"
)

const (
	// ErrOpen is reported for databases that can not be opened.
	ErrOpen = rcommon.ConstError("failed to open chain database")
	// ErrNotFound is reported for blocks not present in the database.
	ErrNotFound = rcommon.ConstError("not found")
	// ErrDataIntegrity is reported for inconsistent database content.
	ErrDataIntegrity = rcommon.ConstError("data integrity violation")
	// ErrClosed is reported for any access to a closed database.
	ErrClosed = rcommon.ConstError("database closed")
)

// Database is a read-only handle on a chain database. It is safe for
// concurrent use by multiple goroutines and has to be closed explicitly to
// release the underlying files.
type Database struct {
	db      ethdb.Database // < key/value store combined with the freezer
	config  *params.ChainConfig
	version uint64
	backend kv.Backend
	logger  log.Logger
	closed  atomic.Bool
}

// Open opens the chain database in the given directory in read-only mode.
// All failures are reported as errors wrapping ErrOpen.
func Open(path string, config Config) (*Database, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrOpen)
	}
	if err := requireDirectory(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	backend := config.Backend
	if backend == kv.BackendAuto || backend == "" {
		detected, err := kv.DetectBackend(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOpen, err)
		}
		backend = detected
	}
	store, err := kv.Open(path, backend, kv.Options{
		CacheMiB: config.CacheMiB,
		Handles:  config.Handles,
		ReadOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s store in %s: %w", ErrOpen, backend, path, err)
	}

	ancients, err := ancientRoot(path, config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, errors.Join(err, store.Close()))
	}
	combined, err := rawdb.Open(store, rawdb.OpenOptions{
		Ancient:  ancients,
		ReadOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, errors.Join(err, store.Close()))
	}

	db, err := NewDatabase(combined, config)
	if err != nil {
		return nil, errors.Join(err, combined.Close())
	}
	db.backend = backend
	db.logger.Info("Opened chain database", "path", path, "backend", backend,
		"ancient", ancients, "version", db.version, "chainid", db.config.ChainID,
		"ancients", db.Ancients())
	return db, nil
}

// ancientRoot resolves the freezer directory handed to go-ethereum. An empty
// result selects an empty in-memory freezer, so no directories are created
// for databases that never froze any blocks.
func ancientRoot(path string, config Config) (string, error) {
	if config.DisableAncient {
		return "", nil
	}
	if config.AncientDir != "" {
		if err := requireDirectory(config.AncientDir); err != nil {
			return "", fmt.Errorf("freezer: %w", err)
		}
		return config.AncientDir, nil
	}
	if dir := filepath.Join(path, "ancient"); common.IsNonEmptyDir(dir) {
		return dir, nil
	}
	return "", nil
}

func requireDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// NewDatabase wraps an already opened go-ethereum database. The schema
// version and the chain configuration are validated. On success, the
// database takes ownership of db.
func NewDatabase(db ethdb.Database, config Config) (*Database, error) {
	supported := config.SupportedVersions
	if len(supported) == 0 {
		supported = DefaultSupportedVersions
	}
	version := rawdb.ReadDatabaseVersion(db)
	if version == nil {
		return nil, fmt.Errorf("%w: missing or invalid database version, not a chain database", ErrOpen)
	}
	if !slices.Contains(supported, *version) {
		return nil, fmt.Errorf("%w: unsupported database version %d, supported %v", ErrOpen, *version, supported)
	}

	res := &Database{
		db:      db,
		version: *version,
		backend: kv.BackendAuto,
		logger:  config.logger(),
	}
	res.config = config.ChainConfig
	if res.config == nil {
		genesis := rawdb.ReadCanonicalHash(db, 0)
		if genesis == (common.Hash{}) {
			return nil, fmt.Errorf("%w: failed to locate genesis block", ErrOpen)
		}
		res.config = rawdb.ReadChainConfig(db, genesis)
		if res.config == nil {
			return nil, fmt.Errorf("%w: missing or invalid chain configuration for genesis %v", ErrOpen, genesis)
		}
	}
	if res.config.ChainID == nil {
		return nil, fmt.Errorf("%w: chain configuration without chain id", ErrOpen)
	}
	return res, nil
}

// ChainConfig returns the chain configuration blocks are interpreted with.
func (db *Database) ChainConfig() *params.ChainConfig {
	return db.config
}

// Version returns the schema version of the database.
func (db *Database) Version() uint64 {
	return db.version
}

// Backend returns the key/value engine the database is hosted in.
func (db *Database) Backend() kv.Backend {
	return db.backend
}

// Ancients returns the number of blocks kept in the freezer.
func (db *Database) Ancients() uint64 {
	frozen, err := db.db.Ancients()
	if err != nil {
		return 0
	}
	return frozen
}

// Close releases all resources. Further calls are no-ops.
func (db *Database) Close() error {
	if db.closed.Swap(true) {
		return nil
	}
	return db.db.Close()
}

func (db *Database) checkOpen() error {
	if db.closed.Load() {
		return ErrClosed
	}
	return nil
}
