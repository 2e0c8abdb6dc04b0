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

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import "unsafe"

// Helpers for Go callers of the exported functions, which have to provide
// arguments in C memory.

func cString(s string) *C.char {
	return C.CString(s)
}

func cBytes(data []byte) *C.uint8_t {
	return (*C.uint8_t)(C.CBytes(data))
}

func cFree(ptr unsafe.Pointer) {
	C.free(ptr)
}

func newHandle() *C.uint64_t {
	return new(C.uint64_t)
}

func cHandle(handle uint64) C.uint64_t {
	return C.uint64_t(handle)
}
