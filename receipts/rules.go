// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package receipts

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/consensus/misc/eip4844"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
)

// Revision selects which transactions get blob related receipt fields.
type Revision int

const (
	// RevisionBlobTxOnly populates blob fields for blob transactions in
	// blocks carrying blob gas information. This is what go-ethereum serves.
	RevisionBlobTxOnly Revision = iota
	// RevisionBlockWide populates blob fields for every transaction of a
	// block carrying blob gas information.
	RevisionBlockWide
	// RevisionLegacy never populates blob fields.
	RevisionLegacy
)

var revisionNames = map[Revision]string{
	RevisionBlobTxOnly: "blob-tx-only",
	RevisionBlockWide:  "block-wide",
	RevisionLegacy:     "legacy",
}

func (r Revision) String() string {
	if name, found := revisionNames[r]; found {
		return name
	}
	return fmt.Sprintf("Revision(%d)", int(r))
}

// ParseRevision resolves the name of a revision as produced by String.
func ParseRevision(name string) (Revision, error) {
	for revision, cur := range revisionNames {
		if cur == name {
			return revision, nil
		}
	}
	return 0, fmt.Errorf("unknown revision %q", name)
}

// defaultBlobSchedule applies to chain configurations stored before blob
// schedules became part of the configuration.
var defaultBlobSchedule = &params.BlobScheduleConfig{
	Cancun: params.DefaultCancunBlobConfig,
	Prague: params.DefaultPragueBlobConfig,
	Osaka:  params.DefaultOsakaBlobConfig,
}

// Rules captures the chain specific parameters receipts are derived with.
type Rules struct {
	Config   *params.ChainConfig
	Revision Revision
}

// NewRules creates rules for the given chain using the default revision.
func NewRules(config *params.ChainConfig) Rules {
	return Rules{Config: config}
}

func (r Rules) signer(header *types.Header) types.Signer {
	return types.MakeSigner(r.Config, header.Number, header.Time)
}

// BlobGasPrice computes the price of blob gas in the given block, or nil if
// the block carries no blob gas information.
func (r Rules) BlobGasPrice(header *types.Header) *big.Int {
	if header.ExcessBlobGas == nil || !r.Config.IsCancun(header.Number, header.Time) {
		return nil
	}
	config := r.Config
	if config.BlobScheduleConfig == nil {
		patched := *config
		patched.BlobScheduleConfig = defaultBlobSchedule
		config = &patched
	}
	return eip4844.CalcBlobFee(config, header)
}
