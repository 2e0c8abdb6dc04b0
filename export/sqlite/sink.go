// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package sqlite exports derived receipts into an SQLite database with one
// row per receipt and one row per log.
package sqlite

//go:generate mockgen -source sink.go -destination sink_mocks.go -package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"math/big"

	"github.com/0xsoniclabs/receiptbridge/receipts"
	"github.com/ethereum/go-ethereum/common"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS receipts (
	tx_hash             BLOB PRIMARY KEY,
	block_number        INTEGER NOT NULL,
	block_hash          BLOB NOT NULL,
	tx_index            INTEGER NOT NULL,
	tx_type             INTEGER NOT NULL,
	sender              BLOB NOT NULL,
	recipient           BLOB,
	contract_address    BLOB,
	status              INTEGER NOT NULL,
	post_state          BLOB,
	cumulative_gas_used INTEGER NOT NULL,
	gas_used            INTEGER NOT NULL,
	effective_gas_price TEXT NOT NULL,
	blob_gas_used       INTEGER,
	blob_gas_price      TEXT,
	logs_bloom          BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS receipts_by_block ON receipts (block_number, tx_index);
CREATE TABLE IF NOT EXISTS logs (
	block_number INTEGER NOT NULL,
	log_index    INTEGER NOT NULL,
	tx_hash      BLOB NOT NULL,
	tx_index     INTEGER NOT NULL,
	address      BLOB NOT NULL,
	topics       BLOB NOT NULL,
	data         BLOB NOT NULL,
	PRIMARY KEY (block_number, log_index)
);
CREATE INDEX IF NOT EXISTS logs_by_address ON logs (address);
`

const (
	insertReceipt = `INSERT OR REPLACE INTO receipts (
		tx_hash, block_number, block_hash, tx_index, tx_type, sender, recipient,
		contract_address, status, post_state, cumulative_gas_used, gas_used,
		effective_gas_price, blob_gas_used, blob_gas_price, logs_bloom
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	insertLog = `INSERT OR REPLACE INTO logs (
		block_number, log_index, tx_hash, tx_index, address, topics, data
	) VALUES (?, ?, ?, ?, ?, ?, ?)`
)

// Sink writes receipts into an SQLite database file.
type Sink struct {
	db *sql.DB
}

// Create opens the SQLite database at the given path, creating the file and
// the tables if needed.
func Create(path string) (*Sink, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL", path))
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create tables in %s: %w", path, err), db.Close())
	}
	return &Sink{db: db}, nil
}

// Write inserts the receipts of a block and their logs in a single
// transaction. Receipts already present are replaced.
func (s *Sink) Write(list []*receipts.Receipt) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	return finish(tx, insert(tx, list))
}

// transaction is the part of *sql.Tx needed to complete a transaction.
type transaction interface {
	Commit() error
	Rollback() error
}

// finish commits tx if err is nil and rolls it back otherwise. A failed
// commit needs no rollback.
func finish(tx transaction, err error) error {
	if err != nil {
		return errors.Join(err, tx.Rollback())
	}
	return tx.Commit()
}

func insert(tx *sql.Tx, list []*receipts.Receipt) error {
	receiptStmt, err := tx.Prepare(insertReceipt)
	if err != nil {
		return err
	}
	defer receiptStmt.Close()
	logStmt, err := tx.Prepare(insertLog)
	if err != nil {
		return err
	}
	defer logStmt.Close()

	for _, receipt := range list {
		if _, err := receiptStmt.Exec(
			receipt.TxHash[:],
			int64(receipt.BlockNumber),
			receipt.BlockHash[:],
			int64(receipt.TransactionIndex),
			int64(receipt.Type),
			receipt.From[:],
			addressOrNil(receipt.To),
			addressOrNil(receipt.ContractAddress),
			int64(receipt.Status),
			receipt.PostState,
			int64(receipt.CumulativeGasUsed),
			int64(receipt.GasUsed),
			receipt.EffectiveGasPrice.String(),
			uint64OrNil(receipt.BlobGasUsed),
			bigOrNil(receipt.BlobGasPrice),
			receipt.Bloom[:],
		); err != nil {
			return fmt.Errorf("failed to insert receipt %v: %w", receipt.TxHash, err)
		}
		for _, log := range receipt.Logs {
			topics := make([]byte, 0, len(log.Topics)*common.HashLength)
			for _, topic := range log.Topics {
				topics = append(topics, topic[:]...)
			}
			data := log.Data
			if data == nil {
				data = []byte{}
			}
			if _, err := logStmt.Exec(
				int64(log.BlockNumber),
				int64(log.Index),
				log.TxHash[:],
				int64(log.TxIndex),
				log.Address[:],
				topics,
				data,
			); err != nil {
				return fmt.Errorf("failed to insert log %d of block %d: %w", log.Index, log.BlockNumber, err)
			}
		}
	}
	return nil
}

// Counts returns the number of receipts and logs stored.
func (s *Sink) Counts() (numReceipts, numLogs int, err error) {
	if err := s.db.QueryRow("SELECT COUNT(*) FROM receipts").Scan(&numReceipts); err != nil {
		return 0, 0, err
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM logs").Scan(&numLogs); err != nil {
		return 0, 0, err
	}
	return numReceipts, numLogs, nil
}

func (s *Sink) Close() error {
	return s.db.Close()
}

func addressOrNil(address *common.Address) any {
	if address == nil {
		return nil
	}
	return address[:]
}

func uint64OrNil(value *uint64) any {
	if value == nil {
		return nil
	}
	return int64(*value)
}

func bigOrNil(value *big.Int) any {
	if value == nil {
		return nil
	}
	return value.String()
}
