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
	"github.com/ethereum/go-ethereum/ethdb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// OpenLevelDB opens a LevelDB database. In read-only mode the database is
// never created, and opening fails while another process holds its lock.
func OpenLevelDB(path string, opts Options) (ethdb.KeyValueStore, error) {
	db, err := leveldb.NewCustom(path, "", func(options *opt.Options) {
		options.ReadOnly = opts.ReadOnly
		options.ErrorIfMissing = opts.ReadOnly
		if opts.CacheMiB > 0 {
			options.BlockCacheCapacity = opts.CacheMiB * opt.MiB
		}
		if opts.Handles > 0 {
			options.OpenFilesCacheCapacity = opts.Handles
		}
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}
