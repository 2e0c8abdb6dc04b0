// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package bridge implements the protocol by which chain databases and block
// receipts are served to foreign callers. Every call produces a Result owning
// memory obtained from an Allocator; callers have to hand each result back
// exactly once through Release.
package bridge

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"unsafe"

	"github.com/0xsoniclabs/receiptbridge/common"
	"github.com/0xsoniclabs/receiptbridge/database/chain"
	"github.com/0xsoniclabs/receiptbridge/receipts"
	"github.com/0xsoniclabs/receiptbridge/receipts/encoding"
	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

const (
	// ErrNullArgument is reported for nil pointers passed by the caller.
	ErrNullArgument = common.ConstError("null argument")
	// ErrLengthMismatch is reported for block hashes not having 32 bytes.
	ErrLengthMismatch = common.ConstError("invalid block hash length")
	// ErrUnknownHandle is reported for handles not referring to an open
	// database.
	ErrUnknownHandle = common.ConstError("unknown database handle")
	// ErrInternal is reported for unexpected failures of the implementation.
	ErrInternal = common.ConstError("internal error")
)

// Handle identifies an open database across the boundary. The zero value
// never refers to a database.
type Handle uint64

// Options configure the databases opened through a bridge.
type Options struct {
	Config   chain.Config
	Codec    encoding.Codec    // < defaults to encoding.Default
	Revision receipts.Revision // < blob field revision applied to receipts
	Logger   log.Logger        // < defaults to the root logger
}

type session struct {
	db       *chain.Database
	codec    encoding.Codec
	revision receipts.Revision
}

// Bridge keeps track of the databases opened by foreign callers. It is safe
// for concurrent use.
type Bridge struct {
	alloc    Allocator
	options  Options
	logger   log.Logger
	mutex    sync.Mutex
	next     Handle
	sessions map[Handle]*session
}

// New creates a bridge producing results in memory of the given allocator.
func New(alloc Allocator, options Options) *Bridge {
	if options.Codec == nil {
		options.Codec = encoding.Default
	}
	logger := options.Logger
	if logger == nil {
		logger = log.Root()
	}
	if options.Config.Logger == nil {
		options.Config.Logger = logger
	}
	return &Bridge{
		alloc:    alloc,
		options:  options,
		logger:   logger,
		sessions: map[Handle]*session{},
	}
}

// Open opens the chain database at the NUL-terminated path. On success, the
// returned handle refers to the database until it is passed to Close.
func (b *Bridge) Open(path unsafe.Pointer) (handle Handle, res Result) {
	defer b.recoverFailure("open", &res)
	if path == nil {
		return 0, b.failure(fmt.Errorf("%w: database path", ErrNullArgument))
	}
	db, err := chain.Open(cString(path), b.options.Config)
	if err != nil {
		return 0, b.failure(err)
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.next++
	b.sessions[b.next] = &session{
		db:       db,
		codec:    b.options.Codec,
		revision: b.options.Revision,
	}
	return b.next, Result{Success: true}
}

// Close closes the database referred to by the given handle. The handle is
// invalid afterwards, even if closing fails.
func (b *Bridge) Close(handle Handle) (res Result) {
	defer b.recoverFailure("close", &res)
	b.mutex.Lock()
	s, found := b.sessions[handle]
	delete(b.sessions, handle)
	b.mutex.Unlock()
	if !found {
		return b.failure(fmt.Errorf("%w: %d", ErrUnknownHandle, handle))
	}
	if err := s.db.Close(); err != nil {
		return b.failure(err)
	}
	return Result{Success: true}
}

// SetEncoding selects the codec receipts of the given database are encoded
// with. The name is a NUL-terminated string naming a codec.
func (b *Bridge) SetEncoding(handle Handle, name unsafe.Pointer) (res Result) {
	defer b.recoverFailure("set_encoding", &res)
	if name == nil {
		return b.failure(fmt.Errorf("%w: encoding name", ErrNullArgument))
	}
	codec, err := encoding.ByName(cString(name))
	if err != nil {
		return b.failure(err)
	}
	b.mutex.Lock()
	defer b.mutex.Unlock()
	s, found := b.sessions[handle]
	if !found {
		return b.failure(fmt.Errorf("%w: %d", ErrUnknownHandle, handle))
	}
	s.codec = codec
	return Result{Success: true}
}

// GetReceipts derives the receipts of the block with the hash stored in the
// hashLen bytes at hash. The encoded receipts of all transactions of the
// block are returned, or a failure if any of them can not be produced.
func (b *Bridge) GetReceipts(handle Handle, hash unsafe.Pointer, hashLen int) (res Result) {
	defer b.recoverFailure("get_receipts", &res)
	if hash == nil {
		return b.failure(fmt.Errorf("%w: block hash", ErrNullArgument))
	}
	if hashLen != gethcommon.HashLength {
		return b.failure(fmt.Errorf("%w: got %d bytes, want %d", ErrLengthMismatch, hashLen, gethcommon.HashLength))
	}
	blockHash := gethcommon.BytesToHash(unsafe.Slice((*byte)(hash), hashLen))

	s, err := b.session(handle)
	if err != nil {
		return b.failure(err)
	}
	list, err := receipts.ForBlock(s.db, blockHash, s.revision)
	if err != nil {
		b.logger.Debug("Failed to derive receipts", "handle", handle, "hash", blockHash, "err", err)
		return b.failure(err)
	}
	data, err := s.codec.Encode(list)
	if err != nil {
		return b.failure(err)
	}
	b.logger.Trace("Served block receipts", "handle", handle, "hash", blockHash,
		"receipts", len(list), "size", len(data), "encoding", s.codec.Name())
	return newSuccess(b.alloc, data)
}

// Release frees the memory held by a result and zeroes it. Releasing a zero
// result or one that has already been released through the same value is a
// no-op. Passing results not produced by this bridge is undefined.
func (b *Bridge) Release(res *Result) {
	release(b.alloc, res)
}

// OpenHandles returns the number of databases currently open.
func (b *Bridge) OpenHandles() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.sessions)
}

// Shutdown closes all databases still open.
func (b *Bridge) Shutdown() error {
	b.mutex.Lock()
	sessions := b.sessions
	b.sessions = map[Handle]*session{}
	b.mutex.Unlock()

	var errs []error
	for _, s := range sessions {
		errs = append(errs, s.db.Close())
	}
	return errors.Join(errs...)
}

func (b *Bridge) session(handle Handle) (session, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	s, found := b.sessions[handle]
	if !found {
		return session{}, fmt.Errorf("%w: %d", ErrUnknownHandle, handle)
	}
	return *s, nil
}

// Failure creates a failure result describing the given error, to be
// released like any other result.
func (b *Bridge) Failure(err error) Result {
	return newFailure(b.alloc, err)
}

func (b *Bridge) failure(err error) Result {
	return b.Failure(err)
}

// recoverFailure converts a panic of the current call into a failure result.
func (b *Bridge) recoverFailure(op string, res *Result) {
	if r := recover(); r != nil {
		b.logger.Error("Recovered from panic", "op", op, "panic", r, "stack", string(debug.Stack()))
		release(b.alloc, res)
		*res = newFailure(b.alloc, fmt.Errorf("%w: %v", ErrInternal, r))
	}
}
