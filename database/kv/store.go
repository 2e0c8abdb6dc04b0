// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package kv opens the key/value engines go-ethereum keeps chain databases
// in.
package kv

import (
	"fmt"
	"os"
	"sort"

	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/ethdb"
	"golang.org/x/exp/maps"
)

// Backend names a key/value engine capable of hosting a chain database.
type Backend string

const (
	BackendAuto    = Backend("auto")
	BackendLevelDB = Backend(rawdb.DBLeveldb)
	BackendPebble  = Backend(rawdb.DBPebble)
)

// Options tune how a store is opened. Zero values select the engine
// defaults.
type Options struct {
	CacheMiB int  // < size of the block cache in MiB
	Handles  int  // < maximum number of open files
	ReadOnly bool // < if set, the store must exist and is never modified
}

type opener func(path string, opts Options) (ethdb.KeyValueStore, error)

var openers = map[Backend]opener{
	BackendLevelDB: OpenLevelDB,
	BackendPebble:  OpenPebble,
}

// Backends lists the names of all supported concrete backends.
func Backends() []string {
	keys := maps.Keys(openers)
	res := make([]string, 0, len(keys))
	for _, key := range keys {
		res = append(res, string(key))
	}
	sort.Strings(res)
	return res
}

// ParseBackend converts a user-supplied backend name.
func ParseBackend(name string) (Backend, error) {
	backend := Backend(name)
	if backend == BackendAuto || backend == "" {
		return BackendAuto, nil
	}
	if _, found := openers[backend]; !found {
		return "", fmt.Errorf("unsupported backend %q, supported: auto, %v", name, Backends())
	}
	return backend, nil
}

// DetectBackend determines the engine of the database in the given
// directory.
func DetectBackend(path string) (Backend, error) {
	switch kind := rawdb.PreexistingDatabase(path); kind {
	case rawdb.DBLeveldb, rawdb.DBPebble:
		return Backend(kind), nil
	default:
		return "", fmt.Errorf("no database found in %s", path)
	}
}

// Open opens the store at the given path using the given backend. With
// BackendAuto the engine of an existing database is detected; new databases
// are created with Pebble, as go-ethereum does. Read-only opens never create
// a database and fail if the backend does not match the existing one.
func Open(path string, backend Backend, opts Options) (ethdb.KeyValueStore, error) {
	if backend == "" {
		backend = BackendAuto
	}
	if opts.ReadOnly {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", path)
		}
	}
	detected, err := DetectBackend(path)
	switch {
	case err != nil && opts.ReadOnly:
		return nil, err
	case err != nil && backend == BackendAuto:
		backend = BackendPebble
	case err == nil && backend == BackendAuto:
		backend = detected
	case err == nil && backend != detected:
		return nil, fmt.Errorf("database in %s uses %s, not %s", path, detected, backend)
	}
	open, found := openers[backend]
	if !found {
		return nil, fmt.Errorf("unsupported backend %q", backend)
	}
	return open(path, opts)
}
