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
	"testing"

	"github.com/0xsoniclabs/receiptbridge/database/chain"
	"github.com/0xsoniclabs/receiptbridge/database/chain/chaintest"
	"github.com/0xsoniclabs/receiptbridge/receipts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

var allCodecs = []Codec{JSON{}, CBOR{}}

// hydratedReceipts produces the receipts of a block covering all
// transaction types, a contract creation, a failure and blob fields.
func hydratedReceipts(t *testing.T) []*receipts.Receipt {
	t.Helper()
	to := common.Address{0x42}
	c := chaintest.NewChain()
	block := c.AddBlock(
		chaintest.Tx{Type: types.LegacyTxType, To: &to, GasUsed: 21_000, Price: 2e9, Logs: 2},
		chaintest.Tx{Type: types.DynamicFeeTxType, GasUsed: 100_000, TipCap: 1e9, FeeCap: 3e9},
		chaintest.Tx{Type: types.DynamicFeeTxType, To: &to, GasUsed: 30_000, TipCap: 1e9, FeeCap: 3e9, Failed: true, Logs: 1},
		chaintest.Tx{Type: types.BlobTxType, To: &to, GasUsed: 42_000, TipCap: 1e9, FeeCap: 3e9, Blobs: 3},
	)
	store, err := chaintest.NewMemoryDatabase(c, 0)
	require.NoError(t, err)
	db, err := chain.NewDatabase(store, chain.Config{})
	require.NoError(t, err)
	defer db.Close()

	res, err := receipts.ForBlock(db, block.Hash(), receipts.RevisionBlobTxOnly)
	require.NoError(t, err)
	require.Len(t, res, 4)
	return res
}

func TestCodec_RoundTripIsExact(t *testing.T) {
	list := hydratedReceipts(t)
	for _, codec := range allCodecs {
		t.Run(codec.Name(), func(t *testing.T) {
			data, err := codec.Encode(list)
			require.NoError(t, err)
			restored, err := codec.Decode(data)
			require.NoError(t, err)
			require.Equal(t, list, restored)
		})
	}
}

func TestCodec_RoundTripOfPreByzantiumReceipts(t *testing.T) {
	list := hydratedReceipts(t)
	list[0].Status = types.ReceiptStatusFailed
	list[0].PostState = common.Hash{0xaa}.Bytes()
	for _, codec := range allCodecs {
		t.Run(codec.Name(), func(t *testing.T) {
			data, err := codec.Encode(list)
			require.NoError(t, err)
			restored, err := codec.Decode(data)
			require.NoError(t, err)
			require.Equal(t, list, restored)
		})
	}
}

func TestCodec_EmptyListRoundTrips(t *testing.T) {
	for _, codec := range allCodecs {
		t.Run(codec.Name(), func(t *testing.T) {
			data, err := codec.Encode([]*receipts.Receipt{})
			require.NoError(t, err)
			restored, err := codec.Decode(data)
			require.NoError(t, err)
			require.Empty(t, restored)
		})
	}
}

func TestCodec_NilReceiptsAreRejected(t *testing.T) {
	for _, codec := range allCodecs {
		t.Run(codec.Name(), func(t *testing.T) {
			_, err := codec.Encode([]*receipts.Receipt{nil})
			require.ErrorIs(t, err, ErrSerialization)
		})
	}
}

func TestCodec_InvalidInputIsRejected(t *testing.T) {
	for _, codec := range allCodecs {
		t.Run(codec.Name(), func(t *testing.T) {
			_, err := codec.Decode([]byte{0xff, 0x00, 0x12})
			require.ErrorIs(t, err, ErrSerialization)
			_, err = codec.Decode(nil)
			require.ErrorIs(t, err, ErrSerialization)
		})
	}
}

func TestJSON_UsesRpcFieldNames(t *testing.T) {
	list := hydratedReceipts(t)
	data, err := JSON{}.Encode(list)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, len(list))

	for _, field := range []string{
		"transactionHash", "transactionIndex", "blockHash", "blockNumber", "from", "to",
		"cumulativeGasUsed", "gasUsed", "contractAddress", "logs", "effectiveGasPrice",
		"type", "logsBloom", "status",
	} {
		require.Contains(t, decoded[0], field)
	}
	require.Equal(t, "0x5208", decoded[0]["gasUsed"])
	require.Equal(t, "0x1", decoded[0]["status"])
	require.Equal(t, "0x0", decoded[0]["type"])
	require.Nil(t, decoded[0]["contractAddress"])
	require.NotContains(t, decoded[0], "root")
	require.NotContains(t, decoded[0], "blobGasUsed")

	require.Nil(t, decoded[1]["to"])
	require.Equal(t, list[1].ContractAddress.Hex(), common.HexToAddress(decoded[1]["contractAddress"].(string)).Hex())
	require.Equal(t, "0x0", decoded[2]["status"])

	require.Equal(t, "0x3", decoded[3]["type"])
	require.Equal(t, "0x60000", decoded[3]["blobGasUsed"])
	require.Contains(t, decoded[3], "blobGasPrice")

	logs := decoded[2]["logs"].([]any)
	require.Len(t, logs, 1)
	log := logs[0].(map[string]any)
	for _, field := range []string{
		"address", "topics", "data", "logIndex", "transactionIndex", "transactionHash",
		"blockHash", "blockNumber",
	} {
		require.Contains(t, log, field)
	}
	require.Equal(t, "0x2", log["logIndex"])
	require.Equal(t, "0x2", log["transactionIndex"])
}

func TestJSON_PreByzantiumReceiptsCarryRootInsteadOfStatus(t *testing.T) {
	list := hydratedReceipts(t)[:1]
	list[0].Status = types.ReceiptStatusFailed
	list[0].PostState = common.Hash{0xaa}.Bytes()

	data, err := JSON{}.Encode(list)
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotContains(t, decoded[0], "status")
	require.Equal(t, common.Hash{0xaa}.Hex(), decoded[0]["root"])
}

func TestJSON_RejectsOversizedTransactionType(t *testing.T) {
	_, err := JSON{}.Decode([]byte(`[{"type":"0x100"}]`))
	require.ErrorIs(t, err, ErrSerialization)
}

func TestCBOR_EncodingIsDeterministic(t *testing.T) {
	list := hydratedReceipts(t)
	first, err := CBOR{}.Encode(list)
	require.NoError(t, err)
	for range 10 {
		next, err := CBOR{}.Encode(list)
		require.NoError(t, err)
		require.Equal(t, first, next)
	}
}

func TestCBOR_IsMoreCompactThanJSON(t *testing.T) {
	list := hydratedReceipts(t)
	jsonData, err := JSON{}.Encode(list)
	require.NoError(t, err)
	cborData, err := CBOR{}.Encode(list)
	require.NoError(t, err)
	require.Less(t, len(cborData), len(jsonData))
}

func TestByName_ResolvesCodecs(t *testing.T) {
	for _, name := range Names() {
		codec, err := ByName(name)
		require.NoError(t, err)
		require.Equal(t, name, codec.Name())
	}
	require.Equal(t, []string{"cbor", "json"}, Names())
	require.Equal(t, "json", Default.Name())

	_, err := ByName("xml")
	require.Error(t, err)
}
