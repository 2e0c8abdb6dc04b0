// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Command libreceipts is built as a C shared library serving block receipts
// from go-ethereum chain databases:
//
//	go build -buildmode=c-shared -o libreceipts.so ./cmd/libreceipts
//
// Every function returning a ReceiptsResult transfers ownership of the
// result's memory to the caller, which has to pass it to receipts_release
// exactly once. Diagnostic output is disabled unless RECEIPTS_VERBOSITY is
// set to a level between 1 (error) and 5 (trace).
package main

/*
#include <stdint.h>
#include <stdlib.h>

typedef struct {
	uint8_t success;
	uint8_t* data;
	size_t length;
	char* error;
} ReceiptsResult;
*/
import "C"

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"unsafe"

	"github.com/0xsoniclabs/receiptbridge/bridge"
	"github.com/0xsoniclabs/receiptbridge/database/chain"
	"github.com/ethereum/go-ethereum/log"
)

// cAllocator places results on the C heap so that they outlive the call and
// can be handed to foreign code.
type cAllocator struct{}

func (cAllocator) Alloc(size int) unsafe.Pointer {
	return C.malloc(C.size_t(size))
}

func (cAllocator) Free(ptr unsafe.Pointer) {
	C.free(ptr)
}

var instance = bridge.New(cAllocator{}, bridge.Options{
	Config: chain.DefaultConfig(),
	Logger: newLogger(os.Getenv("RECEIPTS_VERBOSITY")),
})

func newLogger(verbosity string) log.Logger {
	level := log.LevelCrit
	if value, err := strconv.Atoi(verbosity); err == nil && value > 0 {
		level = log.FromLegacyLevel(value)
	}
	return log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, level, false))
}

func toC(res bridge.Result) C.ReceiptsResult {
	var out C.ReceiptsResult
	if res.Success {
		out.success = 1
	}
	out.data = (*C.uint8_t)(res.Data)
	out.length = C.size_t(res.Length)
	out.error = (*C.char)(res.Message)
	return out
}

func fromC(res *C.ReceiptsResult) bridge.Result {
	return bridge.Result{
		Success: res.success != 0,
		Data:    unsafe.Pointer(res.data),
		Length:  int(res.length),
		Message: unsafe.Pointer(res.error),
	}
}

//export receipts_open
func receipts_open(path *C.char, outHandle *C.uint64_t) C.ReceiptsResult {
	if outHandle == nil {
		return toC(instance.Failure(fmt.Errorf("%w: handle output", bridge.ErrNullArgument)))
	}
	handle, res := instance.Open(unsafe.Pointer(path))
	*outHandle = C.uint64_t(handle)
	return toC(res)
}

//export receipts_close
func receipts_close(handle C.uint64_t) C.ReceiptsResult {
	return toC(instance.Close(bridge.Handle(handle)))
}

//export receipts_set_encoding
func receipts_set_encoding(handle C.uint64_t, name *C.char) C.ReceiptsResult {
	return toC(instance.SetEncoding(bridge.Handle(handle), unsafe.Pointer(name)))
}

//export receipts_get_block_receipts
func receipts_get_block_receipts(handle C.uint64_t, hash *C.uint8_t, hashLen C.size_t) C.ReceiptsResult {
	return toC(instance.GetReceipts(bridge.Handle(handle), unsafe.Pointer(hash), hashLength(uint64(hashLen))))
}

// hashLength converts a foreign length, mapping values beyond the range of
// int to -1 so that they are rejected as mismatching lengths.
func hashLength(n uint64) int {
	if n > math.MaxInt {
		return -1
	}
	return int(n)
}

//export receipts_release
func receipts_release(res *C.ReceiptsResult) {
	if res == nil {
		return
	}
	cur := fromC(res)
	instance.Release(&cur)
	*res = C.ReceiptsResult{}
}

func main() {}
