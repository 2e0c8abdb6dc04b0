// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package chaintest builds chain databases in go-ethereum's on-disk format
// for tests. Blocks carry signed transactions and stored receipts matching a
// compact description of each transaction's outcome.
package chaintest

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// Version is the schema version written into fixture databases.
const Version = uint64(9)

// ChainConfig returns a configuration with all forks up to Cancun active
// from genesis on.
func ChainConfig() *params.ChainConfig {
	zero := uint64(0)
	return &params.ChainConfig{
		ChainID:                 big.NewInt(1337),
		HomesteadBlock:          big.NewInt(0),
		EIP150Block:             big.NewInt(0),
		EIP155Block:             big.NewInt(0),
		EIP158Block:             big.NewInt(0),
		ByzantiumBlock:          big.NewInt(0),
		ConstantinopleBlock:     big.NewInt(0),
		PetersburgBlock:         big.NewInt(0),
		IstanbulBlock:           big.NewInt(0),
		MuirGlacierBlock:        big.NewInt(0),
		BerlinBlock:             big.NewInt(0),
		LondonBlock:             big.NewInt(0),
		ArrowGlacierBlock:       big.NewInt(0),
		GrayGlacierBlock:        big.NewInt(0),
		MergeNetsplitBlock:      big.NewInt(0),
		TerminalTotalDifficulty: big.NewInt(0),
		ShanghaiTime:            &zero,
		CancunTime:              &zero,
		BlobScheduleConfig: &params.BlobScheduleConfig{
			Cancun: params.DefaultCancunBlobConfig,
		},
	}
}

// Tx describes a transaction and its execution outcome.
type Tx struct {
	Type    uint8           // < types.LegacyTxType, types.DynamicFeeTxType or types.BlobTxType
	To      *common.Address // < nil for contract creations, not supported for blob transactions
	GasUsed uint64
	Failed  bool
	Logs    int    // < number of logs emitted
	Price   uint64 // < gas price of legacy transactions
	TipCap  uint64
	FeeCap  uint64
	Blobs   int
}

// Block is a block of a fixture chain.
type Block struct {
	Header       *types.Header
	Transactions []*types.Transaction
	Receipts     []*types.ReceiptForStorage
}

func (b *Block) Hash() common.Hash {
	return b.Header.Hash()
}

func (b *Block) Number() uint64 {
	return b.Header.Number.Uint64()
}

// Chain is a linear sequence of blocks starting with a genesis block.
type Chain struct {
	Config *params.ChainConfig
	Key    *ecdsa.PrivateKey
	Blocks []*Block

	// BaseFee is placed in the headers of new blocks, nil for pre-London
	// headers.
	BaseFee *big.Int
	// ExcessBlobGas is placed in the headers of new blocks, nil for
	// pre-Cancun headers.
	ExcessBlobGas *uint64

	signer types.Signer
	nonce  uint64
}

// NewChain creates a chain containing an empty genesis block.
func NewChain() *Chain {
	key, err := crypto.HexToECDSA("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	if err != nil {
		panic(err)
	}
	config := ChainConfig()
	excess := uint64(0)
	res := &Chain{
		Config:        config,
		Key:           key,
		BaseFee:       big.NewInt(params.InitialBaseFee),
		ExcessBlobGas: &excess,
		signer:        types.LatestSigner(config),
	}
	res.AddBlock()
	return res
}

// Sender returns the address all fixture transactions are sent from.
func (c *Chain) Sender() common.Address {
	return crypto.PubkeyToAddress(c.Key.PublicKey)
}

// Nonce returns the nonce the next transaction will be sent with.
func (c *Chain) Nonce() uint64 {
	return c.nonce
}

// Head returns the last block of the chain.
func (c *Chain) Head() *Block {
	return c.Blocks[len(c.Blocks)-1]
}

// AddBlock appends a block containing the given transactions.
func (c *Chain) AddBlock(txs ...Tx) *Block {
	number := uint64(len(c.Blocks))
	header := &types.Header{
		Number:     new(big.Int).SetUint64(number),
		Time:       number * 12,
		Difficulty: big.NewInt(0),
		GasLimit:   30_000_000,
		Extra:      []byte{},
	}
	if number > 0 {
		header.ParentHash = c.Head().Hash()
	}
	if c.BaseFee != nil {
		header.BaseFee = new(big.Int).Set(c.BaseFee)
	}
	if c.ExcessBlobGas != nil {
		excess := *c.ExcessBlobGas
		blobGasUsed := uint64(0)
		for _, tx := range txs {
			blobGasUsed += uint64(tx.Blobs) * params.BlobTxBlobGasPerBlob
		}
		header.WithdrawalsHash = &types.EmptyWithdrawalsHash
		header.BlobGasUsed = &blobGasUsed
		header.ExcessBlobGas = &excess
	}

	block := &Block{Header: header}
	cumulative := uint64(0)
	for i, desc := range txs {
		block.Transactions = append(block.Transactions, c.sign(desc))
		cumulative += desc.GasUsed
		receipt := &types.ReceiptForStorage{
			Status:            types.ReceiptStatusSuccessful,
			CumulativeGasUsed: cumulative,
			Logs:              []*types.Log{},
		}
		if desc.Failed {
			receipt.Status = types.ReceiptStatusFailed
		}
		for j := 0; j < desc.Logs; j++ {
			receipt.Logs = append(receipt.Logs, &types.Log{
				Address: common.Address{byte(i + 1)},
				Topics:  []common.Hash{{byte(j + 1)}, {0xff, byte(i)}},
				Data:    []byte(fmt.Sprintf("tx-%d-log-%d", i, j)),
			})
		}
		block.Receipts = append(block.Receipts, receipt)
	}
	header.GasUsed = cumulative
	c.Blocks = append(c.Blocks, block)
	return block
}

func (c *Chain) sign(desc Tx) *types.Transaction {
	nonce := c.nonce
	c.nonce++
	gas := max(desc.GasUsed, params.TxGas)
	var data types.TxData
	switch desc.Type {
	case types.LegacyTxType:
		data = &types.LegacyTx{
			Nonce:    nonce,
			GasPrice: new(big.Int).SetUint64(desc.Price),
			Gas:      gas,
			To:       desc.To,
			Value:    big.NewInt(0),
		}
	case types.DynamicFeeTxType:
		data = &types.DynamicFeeTx{
			ChainID:   c.Config.ChainID,
			Nonce:     nonce,
			GasTipCap: new(big.Int).SetUint64(desc.TipCap),
			GasFeeCap: new(big.Int).SetUint64(desc.FeeCap),
			Gas:       gas,
			To:        desc.To,
			Value:     big.NewInt(0),
		}
	case types.BlobTxType:
		if desc.To == nil {
			panic("blob transactions can not create contracts")
		}
		hashes := make([]common.Hash, desc.Blobs)
		for i := range hashes {
			hashes[i] = common.Hash{0x01, byte(i)}
		}
		data = &types.BlobTx{
			ChainID:    uint256.MustFromBig(c.Config.ChainID),
			Nonce:      nonce,
			GasTipCap:  uint256.NewInt(desc.TipCap),
			GasFeeCap:  uint256.NewInt(desc.FeeCap),
			Gas:        gas,
			To:         *desc.To,
			Value:      uint256.NewInt(0),
			BlobFeeCap: uint256.NewInt(1_000_000),
			BlobHashes: hashes,
		}
	default:
		panic(fmt.Sprintf("unsupported transaction type %d", desc.Type))
	}
	return types.MustSignNewTx(c.Key, c.signer, data)
}

// WriteTo stores the chain in the given database. Blocks with a height
// below frozen are appended to the freezer of db, the others are kept in
// the key/value store. As go-ethereum does, the hash to number mappings of
// frozen blocks and the canonical hash of the genesis block stay in the
// key/value store.
func (c *Chain) WriteTo(db ethdb.Database, frozen uint64) error {
	frozen = min(frozen, uint64(len(c.Blocks)))
	WriteMeta(db, Version, c.Blocks[0].Hash(), c.Config)
	if frozen > 0 {
		blocks := make([]*types.Block, 0, frozen)
		receipts := make([]rlp.RawValue, 0, frozen)
		for _, block := range c.Blocks[:frozen] {
			blocks = append(blocks, block.toBlock())
			receipts = append(receipts, mustEncode(block.Receipts))
			rawdb.WriteHeaderNumber(db, block.Hash(), block.Number())
		}
		if _, err := rawdb.WriteAncientBlocks(db, blocks, receipts); err != nil {
			return err
		}
		rawdb.WriteCanonicalHash(db, c.Blocks[0].Hash(), 0)
	}
	for _, block := range c.Blocks[frozen:] {
		WriteBlock(db, block)
	}
	WriteHead(db, c.Head().Hash())
	return nil
}

// WriteMeta stores the schema version and, if config is not nil, the chain
// configuration of the given genesis block.
func WriteMeta(db ethdb.KeyValueWriter, version uint64, genesis common.Hash, config *params.ChainConfig) {
	rawdb.WriteDatabaseVersion(db, version)
	rawdb.WriteChainConfig(db, genesis, config)
}

// WriteBlock stores a block as part of the canonical chain.
func WriteBlock(db ethdb.KeyValueWriter, block *Block) {
	rawdb.WriteBlock(db, block.toBlock())
	rawdb.WriteRawReceipts(db, block.Hash(), block.Number(), mustEncode(block.Receipts))
	rawdb.WriteCanonicalHash(db, block.Hash(), block.Number())
}

// WriteHead marks the given block as the head of the chain.
func WriteHead(db ethdb.KeyValueWriter, hash common.Hash) {
	rawdb.WriteHeadHeaderHash(db, hash)
	rawdb.WriteHeadBlockHash(db, hash)
}

func (b *Block) toBlock() *types.Block {
	return types.NewBlockWithHeader(b.Header).WithBody(types.Body{Transactions: b.Transactions})
}

func mustEncode(value any) []byte {
	data, err := rlp.EncodeToBytes(value)
	if err != nil {
		panic(err)
	}
	return data
}
