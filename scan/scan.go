// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package scan derives the receipts of ranges of canonical blocks using a
// pool of workers.
package scan

//go:generate mockgen -source scan.go -destination scan_mocks.go -package scan

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/0xsoniclabs/receiptbridge/common"
	"github.com/0xsoniclabs/receiptbridge/common/future"
	"github.com/0xsoniclabs/receiptbridge/database/chain"
	"github.com/0xsoniclabs/receiptbridge/receipts"
	"github.com/0xsoniclabs/tracy"
	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/params"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidRange is reported for ranges with a start past their end.
const ErrInvalidRange = common.ConstError("invalid block range")

// Source provides canonical blocks by their height.
type Source interface {
	LocateBlockByNumber(number uint64) (*chain.Block, []chain.RawReceipt, error)
	ChainConfig() *params.ChainConfig
}

// Options tune a scan.
type Options struct {
	Workers  int // < number of parallel workers, defaults to the number of CPUs
	Batch    int // < blocks processed between deliveries, defaults to 8 per worker
	Revision receipts.Revision
	Logger   log.Logger // < defaults to the root logger
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Batch <= 0 {
		o.Batch = 8 * o.Workers
	}
	if o.Logger == nil {
		o.Logger = log.Root()
	}
	return o
}

// BlockReceipts are the receipts of a single block.
type BlockReceipts struct {
	Number   uint64
	Hash     gethcommon.Hash
	Receipts []*receipts.Receipt
}

// Range derives the receipts of all canonical blocks in [from, to] and
// passes them to visit in ascending block order. The scan stops at the first
// block that can not be processed, at the first error returned by visit, or
// when the context is cancelled. Errors of blocks are reported for the
// lowest failing block.
func Range(
	ctx context.Context,
	source Source,
	from, to uint64,
	opts Options,
	visit func(BlockReceipts) error,
) error {
	if from > to {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, from, to)
	}
	opts = opts.withDefaults()
	rules := receipts.Rules{Config: source.ChainConfig(), Revision: opts.Revision}

	start := time.Now()
	numReceipts := 0
	results := make([]future.Result[BlockReceipts], opts.Batch)
	for first := from; ; {
		last := min(to, first+uint64(opts.Batch)-1)
		if last < first { // overflow
			last = to
		}
		batch := results[:last-first+1]
		if err := processBatch(ctx, source, rules, first, batch, opts.Workers); err != nil {
			return err
		}
		for _, result := range batch {
			block, err := result.Get()
			if err != nil {
				return err
			}
			if err := visit(block); err != nil {
				return err
			}
			numReceipts += len(block.Receipts)
		}
		if last == to {
			break
		}
		first = last + 1
	}
	opts.Logger.Debug("Scanned block range", "from", from, "to", to,
		"receipts", numReceipts, "elapsed", time.Since(start))
	return nil
}

// processBatch fills results[i] with the receipts of block first+i. Workers
// claim blocks through a shared position counter.
func processBatch(
	ctx context.Context,
	source Source,
	rules receipts.Rules,
	first uint64,
	results []future.Result[BlockReceipts],
	workers int,
) error {
	zone := tracy.ZoneBegin("scan::batch")
	defer zone.End()

	pos := atomic.Int64{}
	group, ctx := errgroup.WithContext(ctx)
	for range min(workers, len(results)) {
		group.Go(func() error {
			zone := tracy.ZoneBegin("scan::worker")
			defer zone.End()
			for {
				next := pos.Add(1) - 1
				if int(next) >= len(results) {
					return nil
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				results[next] = hydrateBlock(source, rules, first+uint64(next))
			}
		})
	}
	return group.Wait()
}

func hydrateBlock(source Source, rules receipts.Rules, number uint64) future.Result[BlockReceipts] {
	block, raw, err := source.LocateBlockByNumber(number)
	if err != nil {
		return future.Err[BlockReceipts](fmt.Errorf("block %d: %w", number, err))
	}
	list, err := receipts.Hydrate(block, raw, rules)
	if err != nil {
		return future.Err[BlockReceipts](fmt.Errorf("block %d: %w", number, err))
	}
	return future.Ok(BlockReceipts{
		Number:   number,
		Hash:     block.Hash,
		Receipts: list,
	})
}
