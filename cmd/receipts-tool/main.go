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
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "receipts-tool",
		HelpName:  "receipts-tool",
		Usage:     "reads transaction receipts from go-ethereum chain databases",
		Copyright: "(c) 2025 Sonic Operations Ltd",
		Flags: []cli.Flag{
			&verbosityFlag,
		},
		Before: func(context *cli.Context) error {
			setupLogging(context.Int(verbosityFlag.Name))
			return nil
		},
		Commands: []*cli.Command{
			&Info,
			&GetReceipts,
			&Range,
			&Export,
		},
	}
}

func setupLogging(verbosity int) {
	color := isatty.IsTerminal(os.Stderr.Fd())
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, log.FromLegacyLevel(verbosity), color)
	log.SetDefault(log.NewLogger(handler))
}
