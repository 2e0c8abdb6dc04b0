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
	"fmt"
	"math/big"

	"github.com/0xsoniclabs/receiptbridge/receipts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fxamacker/cbor/v2"
)

// CBOR encodes receipts using deterministic CBOR. The record layout mirrors
// the JSON encoding with binary values instead of hex strings.
type CBOR struct{}

type cborLog struct {
	Address     common.Address `cbor:"address"`
	Topics      []common.Hash  `cbor:"topics"`
	Data        []byte         `cbor:"data"`
	BlockNumber uint64         `cbor:"blockNumber"`
	TxHash      common.Hash    `cbor:"transactionHash"`
	TxIndex     uint           `cbor:"transactionIndex"`
	BlockHash   common.Hash    `cbor:"blockHash"`
	Index       uint           `cbor:"logIndex"`
}

type cborReceipt struct {
	BlockHash         common.Hash     `cbor:"blockHash"`
	BlockNumber       uint64          `cbor:"blockNumber"`
	ContractAddress   *common.Address `cbor:"contractAddress,omitempty"`
	CumulativeGasUsed uint64          `cbor:"cumulativeGasUsed"`
	EffectiveGasPrice *big.Int        `cbor:"effectiveGasPrice"`
	From              common.Address  `cbor:"from"`
	GasUsed           uint64          `cbor:"gasUsed"`
	Logs              []*cborLog      `cbor:"logs"`
	LogsBloom         []byte          `cbor:"logsBloom"`
	Root              []byte          `cbor:"root,omitempty"`
	Status            uint64          `cbor:"status"`
	To                *common.Address `cbor:"to,omitempty"`
	TransactionHash   common.Hash     `cbor:"transactionHash"`
	TransactionIndex  uint            `cbor:"transactionIndex"`
	Type              uint8           `cbor:"type"`
	BlobGasUsed       *uint64         `cbor:"blobGasUsed,omitempty"`
	BlobGasPrice      *big.Int        `cbor:"blobGasPrice,omitempty"`
}

var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	var err error
	if cborEncMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(fmt.Sprintf("invalid CBOR encoding options: %v", err))
	}
	if cborDecMode, err = (cbor.DecOptions{}).DecMode(); err != nil {
		panic(fmt.Sprintf("invalid CBOR decoding options: %v", err))
	}
}

func (CBOR) Name() string {
	return "cbor"
}

func (CBOR) Encode(list []*receipts.Receipt) ([]byte, error) {
	out := make([]*cborReceipt, len(list))
	for i, receipt := range list {
		if receipt == nil {
			return nil, fmt.Errorf("%w: receipt %d is nil", ErrSerialization, i)
		}
		out[i] = toCborReceipt(receipt)
	}
	data, err := cborEncMode.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return data, nil
}

func (CBOR) Decode(data []byte) ([]*receipts.Receipt, error) {
	var in []*cborReceipt
	if err := cborDecMode.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	res := make([]*receipts.Receipt, len(in))
	for i, receipt := range in {
		if receipt == nil {
			return nil, fmt.Errorf("%w: receipt %d is null", ErrSerialization, i)
		}
		cur, err := fromCborReceipt(receipt)
		if err != nil {
			return nil, fmt.Errorf("%w: receipt %d: %w", ErrSerialization, i, err)
		}
		res[i] = cur
	}
	return res, nil
}

func toCborReceipt(receipt *receipts.Receipt) *cborReceipt {
	res := &cborReceipt{
		BlockHash:         receipt.BlockHash,
		BlockNumber:       receipt.BlockNumber,
		ContractAddress:   receipt.ContractAddress,
		CumulativeGasUsed: receipt.CumulativeGasUsed,
		EffectiveGasPrice: receipt.EffectiveGasPrice,
		From:              receipt.From,
		GasUsed:           receipt.GasUsed,
		Logs:              make([]*cborLog, len(receipt.Logs)),
		LogsBloom:         receipt.Bloom.Bytes(),
		Root:              receipt.PostState,
		Status:            receipt.Status,
		To:                receipt.To,
		TransactionHash:   receipt.TxHash,
		TransactionIndex:  receipt.TransactionIndex,
		Type:              receipt.Type,
		BlobGasUsed:       receipt.BlobGasUsed,
		BlobGasPrice:      receipt.BlobGasPrice,
	}
	for i, log := range receipt.Logs {
		res.Logs[i] = &cborLog{
			Address:     log.Address,
			Topics:      log.Topics,
			Data:        log.Data,
			BlockNumber: log.BlockNumber,
			TxHash:      log.TxHash,
			TxIndex:     log.TxIndex,
			BlockHash:   log.BlockHash,
			Index:       log.Index,
		}
	}
	return res
}

func fromCborReceipt(receipt *cborReceipt) (*receipts.Receipt, error) {
	res := &receipts.Receipt{
		Type:              receipt.Type,
		Status:            receipt.Status,
		CumulativeGasUsed: receipt.CumulativeGasUsed,
		Logs:              make([]*receipts.Log, len(receipt.Logs)),
		TxHash:            receipt.TransactionHash,
		TransactionIndex:  receipt.TransactionIndex,
		From:              receipt.From,
		To:                receipt.To,
		ContractAddress:   receipt.ContractAddress,
		GasUsed:           receipt.GasUsed,
		EffectiveGasPrice: receipt.EffectiveGasPrice,
		BlobGasUsed:       receipt.BlobGasUsed,
		BlobGasPrice:      receipt.BlobGasPrice,
		BlockHash:         receipt.BlockHash,
		BlockNumber:       receipt.BlockNumber,
	}
	if len(receipt.Root) > 0 {
		res.PostState = receipt.Root
	}
	if len(receipt.LogsBloom) != len(res.Bloom) {
		return nil, fmt.Errorf("invalid bloom length %d", len(receipt.LogsBloom))
	}
	res.Bloom.SetBytes(receipt.LogsBloom)
	for i, log := range receipt.Logs {
		if log == nil {
			return nil, fmt.Errorf("log %d is null", i)
		}
		res.Logs[i] = &receipts.Log{
			Address:     log.Address,
			Topics:      log.Topics,
			Data:        log.Data,
			BlockNumber: log.BlockNumber,
			BlockHash:   log.BlockHash,
			TxHash:      log.TxHash,
			TxIndex:     log.TxIndex,
			Index:       log.Index,
		}
	}
	return res, nil
}
