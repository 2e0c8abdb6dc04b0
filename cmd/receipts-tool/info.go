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

	"github.com/0xsoniclabs/receiptbridge/database/chain"
	"github.com/0xsoniclabs/receiptbridge/receipts"
	"github.com/0xsoniclabs/receiptbridge/receipts/encoding"
	"github.com/urfave/cli/v2"
)

var Info = cli.Command{
	Action:    info,
	Name:      "info",
	Usage:     "prints summary information on a chain database",
	ArgsUsage: "<dir>",
	Flags:     databaseFlags,
}

func info(context *cli.Context) (err error) {
	if context.Args().Len() != 1 {
		return fmt.Errorf("missing directory of the chain database")
	}
	db, err := openDatabase(context)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()

	out := context.App.Writer
	fmt.Fprintf(out, "Backend:  %s\n", db.Backend())
	fmt.Fprintf(out, "Version:  %d\n", db.Version())
	fmt.Fprintf(out, "Chain ID: %v\n", db.ChainConfig().ChainID)
	fmt.Fprintf(out, "Ancients: %d\n", db.Ancients())
	head, err := db.HeadBlockNumber()
	if errors.Is(err, chain.ErrNotFound) {
		fmt.Fprintf(out, "Head:     -\n")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Head:     %d\n", head)
	return nil
}

var GetReceipts = cli.Command{
	Action:    getReceipts,
	Name:      "receipts",
	Usage:     "prints the encoded receipts of a block",
	ArgsUsage: "<dir> <block-hash>",
	Flags:     append([]cli.Flag{&encodingFlag, &revisionFlag}, databaseFlags...),
}

func getReceipts(context *cli.Context) (err error) {
	if context.Args().Len() != 2 {
		return fmt.Errorf("expected the directory of the chain database and a block hash")
	}
	hash, err := parseBlockHash(context.Args().Get(1))
	if err != nil {
		return err
	}
	codec, err := encoding.ByName(context.String(encodingFlag.Name))
	if err != nil {
		return err
	}
	revision, err := parseRevision(context)
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

	list, err := receipts.ForBlock(db, hash, revision)
	if err != nil {
		return err
	}
	data, err := codec.Encode(list)
	if err != nil {
		return err
	}
	if _, err := context.App.Writer.Write(data); err != nil {
		return err
	}
	_, err = fmt.Fprintln(context.App.Writer)
	return err
}
