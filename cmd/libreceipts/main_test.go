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
	"context"
	"math"
	"testing"
	"unsafe"

	"github.com/0xsoniclabs/receiptbridge/bridge"
	"github.com/0xsoniclabs/receiptbridge/database/chain/chaintest"
	"github.com/0xsoniclabs/receiptbridge/receipts/encoding"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_IsSilentByDefault(t *testing.T) {
	ctx := context.Background()
	for _, verbosity := range []string{"", "0", "-3", "noise"} {
		logger := newLogger(verbosity)
		require.False(t, logger.Enabled(ctx, log.LevelError), "verbosity %q", verbosity)
		require.True(t, logger.Enabled(ctx, log.LevelCrit), "verbosity %q", verbosity)
	}
}

func TestNewLogger_VerbosityEnablesLevels(t *testing.T) {
	ctx := context.Background()
	require.True(t, newLogger("1").Enabled(ctx, log.LevelError))
	require.False(t, newLogger("1").Enabled(ctx, log.LevelWarn))
	require.True(t, newLogger("3").Enabled(ctx, log.LevelInfo))
	require.False(t, newLogger("3").Enabled(ctx, log.LevelDebug))
	require.True(t, newLogger("5").Enabled(ctx, log.LevelTrace))
}

func openTestDatabase(t *testing.T) (*chaintest.Chain, uint64) {
	t.Helper()
	to := common.Address{0x42}
	c := chaintest.NewChain()
	c.AddBlock(
		chaintest.Tx{Type: types.LegacyTxType, To: &to, GasUsed: 21_000, Price: 2e9, Logs: 1},
		chaintest.Tx{Type: types.DynamicFeeTxType, GasUsed: 80_000, TipCap: 1e9, FeeCap: 3e9, Logs: 2},
	)
	c.AddBlock(
		chaintest.Tx{Type: types.BlobTxType, To: &to, GasUsed: 30_000, TipCap: 1e9, FeeCap: 3e9, Blobs: 1},
	)
	dir := t.TempDir()
	require.NoError(t, chaintest.CreateDatabase(dir, c, 2))

	path := cString(dir)
	defer cFree(unsafe.Pointer(path))
	out := newHandle()
	res := receipts_open(path, out)
	require.True(t, fromC(&res).Success, resultPtr(fromC(&res)).Error())
	receipts_release(&res)

	handle := uint64(*out)
	require.NotZero(t, handle)
	t.Cleanup(func() {
		res := receipts_close(cHandle(handle))
		receipts_release(&res)
	})
	return c, handle
}

func TestReceiptsOpen_NullArgumentsFail(t *testing.T) {
	res := receipts_open(nil, nil)
	got := fromC(&res)
	require.False(t, got.Success)
	require.Contains(t, got.Error(), bridge.ErrNullArgument.Error())
	receipts_release(&res)

	out := newHandle()
	res = receipts_open(nil, out)
	got = fromC(&res)
	require.False(t, got.Success)
	require.Contains(t, got.Error(), bridge.ErrNullArgument.Error())
	require.Zero(t, uint64(*out))
	receipts_release(&res)
}

func TestReceiptsOpen_MissingDatabaseFails(t *testing.T) {
	path := cString(t.TempDir())
	defer cFree(unsafe.Pointer(path))
	out := newHandle()
	res := receipts_open(path, out)
	defer receipts_release(&res)
	require.False(t, fromC(&res).Success)
	require.NotEmpty(t, resultPtr(fromC(&res)).Error())
	require.Zero(t, uint64(*out))
}

func TestReceiptsGetBlockReceipts_InvalidHashArgumentsFail(t *testing.T) {
	c, handle := openTestDatabase(t)
	hash := c.Head().Hash()
	ptr := cBytes(hash[:])
	defer cFree(unsafe.Pointer(ptr))

	res := receipts_get_block_receipts(cHandle(handle), nil, 31)
	require.False(t, fromC(&res).Success)
	require.Contains(t, resultPtr(fromC(&res)).Error(), bridge.ErrNullArgument.Error())
	receipts_release(&res)

	res = receipts_get_block_receipts(cHandle(handle), ptr, 31)
	require.False(t, fromC(&res).Success)
	require.Contains(t, resultPtr(fromC(&res)).Error(), bridge.ErrLengthMismatch.Error())
	receipts_release(&res)

	res = receipts_get_block_receipts(cHandle(handle), ptr, math.MaxUint64)
	require.False(t, fromC(&res).Success)
	require.Contains(t, resultPtr(fromC(&res)).Error(), bridge.ErrLengthMismatch.Error())
	receipts_release(&res)
}

func TestReceiptsGetBlockReceipts_UnknownHandleFails(t *testing.T) {
	hash := common.Hash{0x01}
	ptr := cBytes(hash[:])
	defer cFree(unsafe.Pointer(ptr))

	res := receipts_get_block_receipts(cHandle(math.MaxUint64), ptr, 32)
	defer receipts_release(&res)
	require.False(t, fromC(&res).Success)
	require.Contains(t, resultPtr(fromC(&res)).Error(), bridge.ErrUnknownHandle.Error())
}

func TestHashLength_LengthsBeyondIntAreInvalid(t *testing.T) {
	require.Equal(t, 32, hashLength(32))
	require.Equal(t, math.MaxInt, hashLength(math.MaxInt))
	require.Equal(t, -1, hashLength(math.MaxInt+1))
	require.Equal(t, -1, hashLength(math.MaxUint64))
}

func TestReceiptsRelease_NilIsIgnored(t *testing.T) {
	require.NotPanics(t, func() { receipts_release(nil) })
}

func TestReceiptsRelease_RepeatedReleaseIsNoOp(t *testing.T) {
	res := receipts_open(nil, nil)
	require.False(t, resultPtr(fromC(&res)).Empty())

	receipts_release(&res)
	require.Zero(t, res)
	require.True(t, resultPtr(fromC(&res)).Empty())

	receipts_release(&res)
	require.Zero(t, res)
}

func TestReceipts_RoundTripThroughExportedFunctions(t *testing.T) {
	c, handle := openTestDatabase(t)

	name := cString("cbor")
	defer cFree(unsafe.Pointer(name))
	res := receipts_set_encoding(cHandle(handle), name)
	require.True(t, fromC(&res).Success, resultPtr(fromC(&res)).Error())
	receipts_release(&res)

	codec, err := encoding.ByName("cbor")
	require.NoError(t, err)
	for _, block := range c.Blocks {
		hash := block.Hash()
		ptr := cBytes(hash[:])
		res := receipts_get_block_receipts(cHandle(handle), ptr, 32)
		cFree(unsafe.Pointer(ptr))

		got := fromC(&res)
		require.True(t, got.Success, got.Error())
		require.Empty(t, got.Error())
		list, err := codec.Decode(got.Bytes())
		require.NoError(t, err)
		require.Len(t, list, len(block.Transactions))
		for i, receipt := range list {
			require.Equal(t, block.Transactions[i].Hash(), receipt.TxHash)
			require.Equal(t, hash, receipt.BlockHash)
			require.Equal(t, uint(i), receipt.TransactionIndex)
		}

		receipts_release(&res)
		require.Zero(t, res)
	}

	res = receipts_close(cHandle(handle))
	require.True(t, fromC(&res).Success, resultPtr(fromC(&res)).Error())
	receipts_release(&res)

	hash := c.Head().Hash()
	ptr := cBytes(hash[:])
	defer cFree(unsafe.Pointer(ptr))
	res = receipts_get_block_receipts(cHandle(handle), ptr, 32)
	defer receipts_release(&res)
	require.False(t, fromC(&res).Success)
	require.Contains(t, resultPtr(fromC(&res)).Error(), bridge.ErrUnknownHandle.Error())
}

// resultPtr returns a pointer to a copy of v, so that pointer methods can be called
// on results returned by value.
func resultPtr[T any](v T) *T {
	return &v
}
