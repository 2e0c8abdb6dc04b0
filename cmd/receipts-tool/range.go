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
	"errors"
	"fmt"

	"github.com/0xsoniclabs/receiptbridge/export/sqlite"
	"github.com/0xsoniclabs/receiptbridge/scan"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

var Range = cli.Command{
	Action:    scanRange,
	Name:      "range",
	Usage:     "derives the receipts of a range of canonical blocks",
	ArgsUsage: "<dir> <first-block> <last-block>",
	Flags:     append([]cli.Flag{&revisionFlag, &workersFlag}, databaseFlags...),
}

func scanRange(context *cli.Context) (err error) {
	if context.Args().Len() != 3 {
		return fmt.Errorf("expected the directory of the chain database and a block range")
	}
	from, to, err := parseBlockRange(context)
	if err != nil {
		return err
	}
	opts, err := scanOptions(context)
	if err != nil {
		return err
	}

	db, err := openDatabase(context)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()

	out := context.App.Writer
	totalReceipts, totalLogs := 0, 0
	err = scan.Range(context.Context, db, from, to, opts, func(block scan.BlockReceipts) error {
		gas, logs := uint64(0), 0
		for _, receipt := range block.Receipts {
			gas += receipt.GasUsed
			logs += len(receipt.Logs)
		}
		totalReceipts += len(block.Receipts)
		totalLogs += logs
		_, err := fmt.Fprintf(out, "%d %v receipts=%d logs=%d gas=%d\n",
			block.Number, block.Hash, len(block.Receipts), logs, gas)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Processed %d blocks with %d receipts and %d logs\n", to-from+1, totalReceipts, totalLogs)
	return nil
}

var Export = cli.Command{
	Action:    export,
	Name:      "export",
	Usage:     "exports the receipts of a range of canonical blocks into an SQLite database",
	ArgsUsage: "<dir> <first-block> <last-block> <sqlite-file>",
	Flags:     append([]cli.Flag{&revisionFlag, &workersFlag}, databaseFlags...),
}

func export(context *cli.Context) (err error) {
	if context.Args().Len() != 4 {
		return fmt.Errorf("expected the directory of the chain database, a block range and an output file")
	}
	from, to, err := parseBlockRange(context)
	if err != nil {
		return err
	}
	opts, err := scanOptions(context)
	if err != nil {
		return err
	}

	db, err := openDatabase(context)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()

	sink, err := sqlite.Create(context.Args().Get(3))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, sink.Close())
	}()

	logger := log.Root()
	err = scan.Range(context.Context, db, from, to, opts, func(block scan.BlockReceipts) error {
		if err := sink.Write(block.Receipts); err != nil {
			return fmt.Errorf("failed to export block %d: %w", block.Number, err)
		}
		if block.Number%10_000 == 0 {
			logger.Info("Exporting receipts", "block", block.Number, "last", to)
		}
		return nil
	})
	if err != nil {
		return err
	}
	numReceipts, numLogs, err := sink.Counts()
	if err != nil {
		return err
	}
	fmt.Fprintf(context.App.Writer, "Exported blocks [%d, %d]: database contains %d receipts and %d logs\n",
		from, to, numReceipts, numLogs)
	return nil
}
