// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/0xsoniclabs/receiptbridge/database/chain"
	"github.com/0xsoniclabs/receiptbridge/database/kv"
	"github.com/0xsoniclabs/receiptbridge/receipts"
	"github.com/0xsoniclabs/receiptbridge/receipts/encoding"
	"github.com/0xsoniclabs/receiptbridge/scan"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
)

var (
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "log level, 0 (crit) to 5 (trace)",
		Value: 3,
	}
	backendFlag = cli.StringFlag{
		Name:  "backend",
		Usage: fmt.Sprintf("key/value engine of the database, one of %v", kv.Backends()),
		Value: string(kv.BackendAuto),
	}
	ancientFlag = cli.PathFlag{
		Name:  "ancient",
		Usage: "root of the freezer, defaults to <dir>/ancient",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Usage: "block cache size in MiB, derived from the system memory if 0",
	}
	encodingFlag = cli.StringFlag{
		Name:  "encoding",
		Usage: fmt.Sprintf("output encoding of receipts, one of %v", encoding.Names()),
		Value: encoding.Default.Name(),
	}
	revisionFlag = cli.StringFlag{
		Name:  "revision",
		Usage: "population of blob fields (blob-tx-only, block-wide, legacy)",
		Value: receipts.RevisionBlobTxOnly.String(),
	}
	workersFlag = cli.IntFlag{
		Name:  "workers",
		Usage: "number of blocks processed in parallel",
		Value: runtime.NumCPU(),
	}
)

var databaseFlags = []cli.Flag{
	&backendFlag,
	&ancientFlag,
	&cacheFlag,
}

// openDatabase opens the chain database named by the first argument using
// the database flags of the command.
func openDatabase(context *cli.Context) (*chain.Database, error) {
	dir := context.Args().Get(0)
	backend, err := kv.ParseBackend(context.String(backendFlag.Name))
	if err != nil {
		return nil, err
	}
	config := chain.DefaultConfig()
	config.Backend = backend
	config.AncientDir = context.Path(ancientFlag.Name)
	if cache := context.Int(cacheFlag.Name); cache > 0 {
		config.CacheMiB = cache
	}
	return chain.Open(dir, config)
}

func parseRevision(context *cli.Context) (receipts.Revision, error) {
	return receipts.ParseRevision(context.String(revisionFlag.Name))
}

func parseBlockHash(value string) (common.Hash, error) {
	data, err := hexutil.Decode(value)
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid block hash %q: %w", value, err)
	}
	if len(data) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid block hash %q: got %d bytes, want %d", value, len(data), common.HashLength)
	}
	return common.BytesToHash(data), nil
}

func parseBlockRange(context *cli.Context) (uint64, uint64, error) {
	from, err := strconv.ParseUint(context.Args().Get(1), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid first block: %w", err)
	}
	to, err := strconv.ParseUint(context.Args().Get(2), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid last block: %w", err)
	}
	return from, to, nil
}

func scanOptions(context *cli.Context) (scan.Options, error) {
	revision, err := parseRevision(context)
	if err != nil {
		return scan.Options{}, err
	}
	return scan.Options{
		Workers:  context.Int(workersFlag.Name),
		Revision: revision,
	}, nil
}
