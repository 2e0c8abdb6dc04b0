// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

const errTest = ConstError("test error")

func TestConstError_CanBeMatchedAfterWrapping(t *testing.T) {
	err := fmt.Errorf("context: %w", errTest)
	require.ErrorIs(t, err, errTest)
	require.Equal(t, "context: test error", err.Error())
}

func TestConstError_DistinctValuesDoNotMatch(t *testing.T) {
	other := ConstError("other error")
	require.False(t, errors.Is(errTest, other))
}
