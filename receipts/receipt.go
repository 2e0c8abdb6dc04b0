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
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Receipt is the fully derived outcome of a transaction as served to
// clients. Fields only meaningful for some transactions are nil otherwise.
type Receipt struct {
	// Consensus fields.
	Type              uint8
	PostState         []byte // < pre-Byzantium state root, nil afterwards
	Status            uint64
	CumulativeGasUsed uint64
	Bloom             types.Bloom
	Logs              []*Log

	// Fields derived from the transaction.
	TxHash            common.Hash
	TransactionIndex  uint
	From              common.Address
	To                *common.Address // < nil for contract creations
	ContractAddress   *common.Address // < set for contract creations only
	GasUsed           uint64
	EffectiveGasPrice *big.Int
	BlobGasUsed       *uint64
	BlobGasPrice      *big.Int

	// Inclusion information.
	BlockHash   common.Hash
	BlockNumber uint64
}

// Log is an event emitted during the execution of a transaction, enriched
// with its position in the block.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte

	BlockNumber uint64
	BlockHash   common.Hash
	TxHash      common.Hash
	TxIndex     uint
	Index       uint // < position of the log within the block
}

// CreatesContract reports whether the receipt belongs to a contract creation.
func (r *Receipt) CreatesContract() bool {
	return r.ContractAddress != nil
}

// LogsBloom computes the bloom filter over the addresses and topics of the
// given logs.
func LogsBloom(logs []*Log) types.Bloom {
	var (
		bloom  types.Bloom
		buffer [6]byte
	)
	for _, log := range logs {
		bloom.AddWithBuffer(log.Address.Bytes(), &buffer)
		for _, topic := range log.Topics {
			bloom.AddWithBuffer(topic.Bytes(), &buffer)
		}
	}
	return bloom
}
