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

//go:generate mockgen -source hydrate.go -destination hydrate_mocks.go -package receipts

import (
	"fmt"
	"math/big"

	"github.com/0xsoniclabs/receiptbridge/common"
	"github.com/0xsoniclabs/receiptbridge/database/chain"
	"github.com/0xsoniclabs/tracy"
	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

// ErrSignatureRecovery is reported if the sender of a transaction can not be
// recovered from its signature.
const ErrSignatureRecovery = common.ConstError("failed to recover transaction sender")

// BlockSource provides blocks together with their stored receipts.
type BlockSource interface {
	LocateBlock(hash gethcommon.Hash) (*chain.Block, []chain.RawReceipt, error)
	ChainConfig() *params.ChainConfig
}

// ForBlock loads the block with the given hash from the source and derives
// its receipts.
func ForBlock(source BlockSource, hash gethcommon.Hash, revision Revision) ([]*Receipt, error) {
	block, raw, err := source.LocateBlock(hash)
	if err != nil {
		return nil, err
	}
	return Hydrate(block, raw, Rules{Config: source.ChainConfig(), Revision: revision})
}

// Hydrate derives the full receipts of a block from its stored receipts.
// Either all receipts are produced, or an error is returned. Stored receipts
// must be index-aligned with the block's transactions.
func Hydrate(block *chain.Block, raw []chain.RawReceipt, rules Rules) ([]*Receipt, error) {
	zone := tracy.ZoneBegin("receipts::hydrate")
	defer zone.End()

	header := block.Header
	number := block.Number()
	if len(raw) != len(block.Transactions) {
		return nil, fmt.Errorf("%w: block %d has %d transactions but %d receipts",
			chain.ErrDataIntegrity, number, len(block.Transactions), len(raw))
	}

	var blobGasPrice *big.Int
	if rules.Revision != RevisionLegacy {
		blobGasPrice = rules.BlobGasPrice(header)
	}

	signer := rules.signer(header)
	res := make([]*Receipt, len(block.Transactions))
	logIndex := uint(0)
	previous := uint64(0)
	for i, tx := range block.Transactions {
		stored := &raw[i]
		if stored.CumulativeGasUsed < previous {
			return nil, fmt.Errorf("%w: cumulative gas of transaction %d in block %d decreases from %d to %d",
				chain.ErrDataIntegrity, i, number, previous, stored.CumulativeGasUsed)
		}
		from, err := types.Sender(signer, tx)
		if err != nil {
			return nil, fmt.Errorf("%w: transaction %d (%v) of block %d: %w",
				ErrSignatureRecovery, i, tx.Hash(), number, err)
		}
		price, err := effectiveGasPrice(tx, header.BaseFee)
		if err != nil {
			return nil, fmt.Errorf("%w: transaction %d of block %d: %w", chain.ErrDataIntegrity, i, number, err)
		}

		receipt := &Receipt{
			Type:              tx.Type(),
			PostState:         stored.PostState,
			CumulativeGasUsed: stored.CumulativeGasUsed,
			TxHash:            tx.Hash(),
			TransactionIndex:  uint(i),
			From:              from,
			To:                tx.To(),
			GasUsed:           stored.CumulativeGasUsed - previous,
			EffectiveGasPrice: price,
			BlockHash:         block.Hash,
			BlockNumber:       number,
		}
		if stored.Success {
			receipt.Status = types.ReceiptStatusSuccessful
		}
		if receipt.To == nil {
			address := crypto.CreateAddress(from, tx.Nonce())
			receipt.ContractAddress = &address
		}
		if blobGasPrice != nil && (tx.Type() == types.BlobTxType || rules.Revision == RevisionBlockWide) {
			used := tx.BlobGas()
			receipt.BlobGasUsed = &used
			receipt.BlobGasPrice = new(big.Int).Set(blobGasPrice)
		}

		receipt.Logs = make([]*Log, len(stored.Logs))
		for j, log := range stored.Logs {
			receipt.Logs[j] = &Log{
				Address:     log.Address,
				Topics:      log.Topics,
				Data:        log.Data,
				BlockNumber: number,
				BlockHash:   block.Hash,
				TxHash:      receipt.TxHash,
				TxIndex:     uint(i),
				Index:       logIndex,
			}
			logIndex++
		}
		receipt.Bloom = LogsBloom(receipt.Logs)

		res[i] = receipt
		previous = stored.CumulativeGasUsed
	}
	return res, nil
}

// effectiveGasPrice computes the price per gas paid by the sender. For fee
// market transactions it is min(fee cap, base fee + tip cap).
func effectiveGasPrice(tx *types.Transaction, baseFee *big.Int) (*big.Int, error) {
	if tx.Type() < types.DynamicFeeTxType {
		return new(big.Int).Set(tx.GasPrice()), nil
	}
	feeCap, overflow := uint256.FromBig(tx.GasFeeCap())
	if overflow {
		return nil, fmt.Errorf("fee cap %v exceeds 256 bits", tx.GasFeeCap())
	}
	if baseFee == nil {
		return feeCap.ToBig(), nil
	}
	tip, overflow := uint256.FromBig(tx.GasTipCap())
	if overflow {
		return nil, fmt.Errorf("tip cap %v exceeds 256 bits", tx.GasTipCap())
	}
	base, overflow := uint256.FromBig(baseFee)
	if overflow {
		return nil, fmt.Errorf("base fee %v exceeds 256 bits", baseFee)
	}
	price, overflow := new(uint256.Int).AddOverflow(base, tip)
	if overflow || price.Gt(feeCap) {
		return feeCap.ToBig(), nil
	}
	return price.ToBig(), nil
}
