// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package chain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
)

// Block is a canonical or side-chain block as kept in the database.
type Block struct {
	Hash         common.Hash
	Header       *types.Header
	Transactions []*types.Transaction
}

// Number returns the height of the block.
func (b *Block) Number() uint64 {
	return b.Header.Number.Uint64()
}

// RawReceipt is the stored outcome of a single transaction. Fields derived
// from the block context are not part of the stored form.
type RawReceipt struct {
	Type              uint8
	Success           bool
	PostState         []byte // < only set for pre-Byzantium receipts
	CumulativeGasUsed uint64
	Logs              []*types.Log
}

// storedBody is the stored form of a block body. Fields added by later
// protocol revisions, e.g. withdrawals, are not needed here and are kept
// opaque.
type storedBody struct {
	Transactions []*types.Transaction
	Uncles       []*types.Header
	Rest         []rlp.RawValue `rlp:"tail"`
}

// LocateBlock retrieves the block with the given hash together with its raw
// receipts. The receipt list is index-aligned with the block's transactions.
// ErrNotFound is returned if the block is unknown, ErrDataIntegrity if its
// receipts are missing or do not match the transactions.
func (db *Database) LocateBlock(hash common.Hash) (*Block, []RawReceipt, error) {
	if err := db.checkOpen(); err != nil {
		return nil, nil, err
	}
	number, err := db.ReadHeaderNumber(hash)
	if err != nil {
		return nil, nil, err
	}
	return db.locate(number, hash)
}

// LocateBlockByNumber retrieves the canonical block of the given height
// together with its raw receipts.
func (db *Database) LocateBlockByNumber(number uint64) (*Block, []RawReceipt, error) {
	if err := db.checkOpen(); err != nil {
		return nil, nil, err
	}
	hash, err := db.ReadCanonicalHash(number)
	if err != nil {
		return nil, nil, err
	}
	return db.locate(number, hash)
}

// The decoding accessors of rawdb drop decoding errors, so the raw
// encodings are fetched and decoded here to report corrupted entries.
func (db *Database) locate(number uint64, hash common.Hash) (*Block, []RawReceipt, error) {
	header, err := db.readHeader(number, hash)
	if err != nil {
		return nil, nil, err
	}
	body, err := db.readBody(number, hash)
	if err != nil {
		return nil, nil, err
	}
	receipts, err := db.readRawReceipts(number, hash)
	if err != nil {
		return nil, nil, err
	}
	if len(receipts) != len(body.Transactions) {
		return nil, nil, fmt.Errorf("%w: block %d (%v) has %d transactions but %d receipts",
			ErrDataIntegrity, number, hash, len(body.Transactions), len(receipts))
	}
	for i, tx := range body.Transactions {
		receipts[i].Type = tx.Type()
	}
	return &Block{
		Hash:         hash,
		Header:       header,
		Transactions: body.Transactions,
	}, receipts, nil
}

// ReadHeaderNumber returns the height of the block with the given hash.
func (db *Database) ReadHeaderNumber(hash common.Hash) (uint64, error) {
	number, found := rawdb.ReadHeaderNumber(db.db, hash)
	if !found {
		return 0, fmt.Errorf("%w: block %v", ErrNotFound, hash)
	}
	return number, nil
}

// ReadCanonicalHash returns the hash of the canonical block at the given
// height.
func (db *Database) ReadCanonicalHash(number uint64) (common.Hash, error) {
	hash := rawdb.ReadCanonicalHash(db.db, number)
	if hash == (common.Hash{}) {
		return common.Hash{}, fmt.Errorf("%w: no canonical block at height %d", ErrNotFound, number)
	}
	return hash, nil
}

// HeadBlockNumber returns the height of the current head block.
func (db *Database) HeadBlockNumber() (uint64, error) {
	if err := db.checkOpen(); err != nil {
		return 0, err
	}
	head := rawdb.ReadHeadBlockHash(db.db)
	if head == (common.Hash{}) {
		return 0, fmt.Errorf("%w: no head block", ErrNotFound)
	}
	return db.ReadHeaderNumber(head)
}

func (db *Database) readHeader(number uint64, hash common.Hash) (*types.Header, error) {
	data := rawdb.ReadHeaderRLP(db.db, hash, number)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: header of block %d (%v)", ErrNotFound, number, hash)
	}
	header := new(types.Header)
	if err := rlp.DecodeBytes(data, header); err != nil {
		return nil, fmt.Errorf("%w: invalid header of block %d: %w", ErrDataIntegrity, number, err)
	}
	if header.Number == nil || header.Number.Uint64() != number {
		return nil, fmt.Errorf("%w: header of block %v does not match height %d", ErrDataIntegrity, hash, number)
	}
	return header, nil
}

func (db *Database) readBody(number uint64, hash common.Hash) (*storedBody, error) {
	data := rawdb.ReadBodyRLP(db.db, hash, number)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: body of block %d (%v)", ErrNotFound, number, hash)
	}
	body := new(storedBody)
	if err := rlp.DecodeBytes(data, body); err != nil {
		return nil, fmt.Errorf("%w: invalid body of block %d: %w", ErrDataIntegrity, number, err)
	}
	return body, nil
}

func (db *Database) readRawReceipts(number uint64, hash common.Hash) ([]RawReceipt, error) {
	data := rawdb.ReadReceiptsRLP(db.db, hash, number)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: missing receipts of block %d (%v)", ErrDataIntegrity, number, hash)
	}
	var stored []*types.ReceiptForStorage
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: invalid receipts of block %d: %w", ErrDataIntegrity, number, err)
	}
	res := make([]RawReceipt, len(stored))
	for i, receipt := range stored {
		res[i] = RawReceipt{
			Success:           len(receipt.PostState) == 0 && receipt.Status == types.ReceiptStatusSuccessful,
			PostState:         receipt.PostState,
			CumulativeGasUsed: receipt.CumulativeGasUsed,
			Logs:              receipt.Logs,
		}
	}
	return res, nil
}
