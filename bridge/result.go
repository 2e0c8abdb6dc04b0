// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package bridge

import (
	"unsafe"
)

// Allocator manages memory handed out to foreign callers. Memory obtained
// through Alloc is owned by the caller until it is passed to Free.
type Allocator interface {
	// Alloc returns a block of at least size bytes, never nil.
	Alloc(size int) unsafe.Pointer
	// Free releases a block obtained from Alloc.
	Free(ptr unsafe.Pointer)
}

// Result is the outcome of a call crossing the boundary. On success, Data
// points to Length bytes of payload; on failure, Message points to a
// NUL-terminated description of the problem. Both are owned by the receiver
// until passed to Release.
type Result struct {
	Success bool
	Data    unsafe.Pointer
	Length  int
	Message unsafe.Pointer
}

// Empty reports whether the result holds no memory.
func (r *Result) Empty() bool {
	return r == nil || (r.Data == nil && r.Message == nil)
}

// Bytes returns a copy of the payload of the result.
func (r *Result) Bytes() []byte {
	if r == nil || r.Data == nil {
		return nil
	}
	return append([]byte(nil), unsafe.Slice((*byte)(r.Data), r.Length)...)
}

// Error returns the failure message of the result, or an empty string for
// successful results.
func (r *Result) Error() string {
	if r == nil || r.Message == nil {
		return ""
	}
	return cString(r.Message)
}

func newSuccess(alloc Allocator, data []byte) Result {
	ptr := alloc.Alloc(max(len(data), 1))
	copy(unsafe.Slice((*byte)(ptr), len(data)), data)
	return Result{Success: true, Data: ptr, Length: len(data)}
}

func newFailure(alloc Allocator, err error) Result {
	msg := err.Error()
	ptr := alloc.Alloc(len(msg) + 1)
	buffer := unsafe.Slice((*byte)(ptr), len(msg)+1)
	copy(buffer, msg)
	buffer[len(msg)] = 0
	return Result{Message: ptr}
}

// release frees the memory held by the result and resets it, making
// repeated releases of the same value no-ops.
func release(alloc Allocator, r *Result) {
	if r == nil {
		return
	}
	if r.Data != nil {
		alloc.Free(r.Data)
	}
	if r.Message != nil {
		alloc.Free(r.Message)
	}
	*r = Result{}
}

// cString reads a NUL-terminated string from foreign memory.
func cString(ptr unsafe.Pointer) string {
	length := 0
	for *(*byte)(unsafe.Add(ptr, length)) != 0 {
		length++
	}
	return string(unsafe.Slice((*byte)(ptr), length))
}
