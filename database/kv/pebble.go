// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package kv

import (
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/pebble"
)

// OpenPebble opens a Pebble database, the default engine of recent
// go-ethereum releases.
func OpenPebble(path string, opts Options) (ethdb.KeyValueStore, error) {
	db, err := pebble.New(path, opts.CacheMiB, opts.Handles, "", opts.ReadOnly)
	if err != nil {
		return nil, err
	}
	return db, nil
}
