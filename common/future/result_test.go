// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package future

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResult_OkProvidesValue(t *testing.T) {
	value, err := Ok(12).Get()
	require.NoError(t, err)
	require.Equal(t, 12, value)
}

func TestResult_ErrProvidesError(t *testing.T) {
	injected := fmt.Errorf("injected")
	value, err := Err[string](injected).Get()
	require.ErrorIs(t, err, injected)
	require.Empty(t, value)
}

func TestResult_ZeroValueIsSuccessWithZeroValue(t *testing.T) {
	var result Result[*int]
	value, err := result.Get()
	require.NoError(t, err)
	require.Nil(t, value)
}
