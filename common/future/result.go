// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package future provides containers for the outcome of work carried out
// by concurrent workers, with slots filled in by whichever goroutine
// completes a task.
package future

// Result holds either the value produced by a task or the error the task
// failed with.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successfully produced value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err wraps the failure of a task.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}
