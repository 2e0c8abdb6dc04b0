// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package chain

import (
	"github.com/0xsoniclabs/receiptbridge/database/kv"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/params"
	"github.com/pbnjay/memory"
)

// Config summarizes the options for opening a chain database.
type Config struct {
	// Backend selects the key/value engine, BackendAuto detects it.
	Backend kv.Backend
	// AncientDir is the root of the freezer. If empty, <path>/ancient is
	// used when present. Its chain subdirectory takes precedence over the
	// legacy layout keeping the tables in the root itself.
	AncientDir string
	// DisableAncient skips opening the freezer entirely. Databases that
	// already moved blocks into a freezer are then rejected.
	DisableAncient bool
	// CacheMiB is the block cache size of the key/value store.
	CacheMiB int
	// Handles limits the number of files kept open by the key/value store.
	Handles int
	// SupportedVersions lists the accepted values of the schema version.
	SupportedVersions []uint64
	// ChainConfig overrides the chain configuration stored in the database.
	ChainConfig *params.ChainConfig
	// Logger receives diagnostic output, defaults to the root logger.
	Logger log.Logger
}

// DefaultSupportedVersions are the schema versions written by go-ethereum
// releases with the current block and receipt encoding.
var DefaultSupportedVersions = []uint64{8, 9}

const (
	minCacheMiB = 16
	maxCacheMiB = 512
)

// DefaultConfig returns a configuration sizing caches relative to the
// available system memory.
func DefaultConfig() Config {
	return Config{
		Backend:           kv.BackendAuto,
		CacheMiB:          defaultCacheMiB(memory.TotalMemory()),
		Handles:           256,
		SupportedVersions: DefaultSupportedVersions,
	}
}

// defaultCacheMiB dedicates 1/64 of the system memory to the block cache,
// bounded to [minCacheMiB, maxCacheMiB].
func defaultCacheMiB(totalBytes uint64) int {
	res := int(totalBytes / 64 >> 20)
	return min(max(res, minCacheMiB), maxCacheMiB)
}

func (c *Config) logger() log.Logger {
	if c.Logger == nil {
		return log.Root()
	}
	return c.Logger
}
