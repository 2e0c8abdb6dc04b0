// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package encoding

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"

	"github.com/0xsoniclabs/receiptbridge/receipts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// JSON encodes receipts as a JSON array using the field names and hex
// encoded quantities of the eth_getBlockReceipts RPC method.
type JSON struct{}

type jsonLog struct {
	Address     common.Address `json:"address"`
	Topics      []common.Hash  `json:"topics"`
	Data        hexutil.Bytes  `json:"data"`
	BlockNumber hexutil.Uint64 `json:"blockNumber"`
	TxHash      common.Hash    `json:"transactionHash"`
	TxIndex     hexutil.Uint   `json:"transactionIndex"`
	BlockHash   common.Hash    `json:"blockHash"`
	Index       hexutil.Uint   `json:"logIndex"`
	Removed     bool           `json:"removed"`
}

type jsonReceipt struct {
	BlockHash         common.Hash     `json:"blockHash"`
	BlockNumber       hexutil.Uint64  `json:"blockNumber"`
	ContractAddress   *common.Address `json:"contractAddress"`
	CumulativeGasUsed hexutil.Uint64  `json:"cumulativeGasUsed"`
	EffectiveGasPrice *hexutil.Big    `json:"effectiveGasPrice"`
	From              common.Address  `json:"from"`
	GasUsed           hexutil.Uint64  `json:"gasUsed"`
	Logs              []*jsonLog      `json:"logs"`
	LogsBloom         types.Bloom     `json:"logsBloom"`
	Root              hexutil.Bytes   `json:"root,omitempty"`
	Status            *hexutil.Uint64 `json:"status,omitempty"`
	To                *common.Address `json:"to"`
	TransactionHash   common.Hash     `json:"transactionHash"`
	TransactionIndex  hexutil.Uint    `json:"transactionIndex"`
	Type              hexutil.Uint64  `json:"type"`
	BlobGasUsed       *hexutil.Uint64 `json:"blobGasUsed,omitempty"`
	BlobGasPrice      *hexutil.Big    `json:"blobGasPrice,omitempty"`
}

func (JSON) Name() string {
	return "json"
}

func (JSON) Encode(list []*receipts.Receipt) ([]byte, error) {
	out := make([]*jsonReceipt, len(list))
	for i, receipt := range list {
		if receipt == nil {
			return nil, fmt.Errorf("%w: receipt %d is nil", ErrSerialization, i)
		}
		out[i] = toJsonReceipt(receipt)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return data, nil
}

func (JSON) Decode(data []byte) ([]*receipts.Receipt, error) {
	var in []*jsonReceipt
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	res := make([]*receipts.Receipt, len(in))
	for i, receipt := range in {
		if receipt == nil {
			return nil, fmt.Errorf("%w: receipt %d is null", ErrSerialization, i)
		}
		if receipt.Type > math.MaxUint8 {
			return nil, fmt.Errorf("%w: invalid transaction type %d", ErrSerialization, receipt.Type)
		}
		res[i] = fromJsonReceipt(receipt)
	}
	return res, nil
}

func toJsonReceipt(receipt *receipts.Receipt) *jsonReceipt {
	res := &jsonReceipt{
		BlockHash:         receipt.BlockHash,
		BlockNumber:       hexutil.Uint64(receipt.BlockNumber),
		ContractAddress:   receipt.ContractAddress,
		CumulativeGasUsed: hexutil.Uint64(receipt.CumulativeGasUsed),
		EffectiveGasPrice: (*hexutil.Big)(receipt.EffectiveGasPrice),
		From:              receipt.From,
		GasUsed:           hexutil.Uint64(receipt.GasUsed),
		Logs:              make([]*jsonLog, len(receipt.Logs)),
		LogsBloom:         receipt.Bloom,
		To:                receipt.To,
		TransactionHash:   receipt.TxHash,
		TransactionIndex:  hexutil.Uint(receipt.TransactionIndex),
		Type:              hexutil.Uint64(receipt.Type),
		BlobGasUsed:       (*hexutil.Uint64)(receipt.BlobGasUsed),
		BlobGasPrice:      (*hexutil.Big)(receipt.BlobGasPrice),
	}
	// Pre-Byzantium receipts carry the state root instead of a status.
	if len(receipt.PostState) > 0 {
		res.Root = receipt.PostState
	} else {
		status := hexutil.Uint64(receipt.Status)
		res.Status = &status
	}
	for i, log := range receipt.Logs {
		topics := log.Topics
		if topics == nil {
			topics = []common.Hash{}
		}
		res.Logs[i] = &jsonLog{
			Address:     log.Address,
			Topics:      topics,
			Data:        log.Data,
			BlockNumber: hexutil.Uint64(log.BlockNumber),
			TxHash:      log.TxHash,
			TxIndex:     hexutil.Uint(log.TxIndex),
			BlockHash:   log.BlockHash,
			Index:       hexutil.Uint(log.Index),
		}
	}
	return res
}

func fromJsonReceipt(receipt *jsonReceipt) *receipts.Receipt {
	res := &receipts.Receipt{
		Type:              uint8(receipt.Type),
		CumulativeGasUsed: uint64(receipt.CumulativeGasUsed),
		Bloom:             receipt.LogsBloom,
		Logs:              make([]*receipts.Log, len(receipt.Logs)),
		TxHash:            receipt.TransactionHash,
		TransactionIndex:  uint(receipt.TransactionIndex),
		From:              receipt.From,
		To:                receipt.To,
		ContractAddress:   receipt.ContractAddress,
		GasUsed:           uint64(receipt.GasUsed),
		EffectiveGasPrice: (*big.Int)(receipt.EffectiveGasPrice),
		BlobGasUsed:       (*uint64)(receipt.BlobGasUsed),
		BlobGasPrice:      (*big.Int)(receipt.BlobGasPrice),
		BlockHash:         receipt.BlockHash,
		BlockNumber:       uint64(receipt.BlockNumber),
	}
	if len(receipt.Root) > 0 {
		res.PostState = receipt.Root
	}
	if receipt.Status != nil {
		res.Status = uint64(*receipt.Status)
	}
	for i, log := range receipt.Logs {
		if log == nil {
			log = &jsonLog{}
		}
		res.Logs[i] = &receipts.Log{
			Address:     log.Address,
			Topics:      log.Topics,
			Data:        log.Data,
			BlockNumber: uint64(log.BlockNumber),
			BlockHash:   log.BlockHash,
			TxHash:      log.TxHash,
			TxIndex:     uint(log.TxIndex),
			Index:       uint(log.Index),
		}
	}
	return res
}
