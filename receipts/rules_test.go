// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package receipts

import (
	"math/big"
	"testing"

	"github.com/0xsoniclabs/receiptbridge/database/chain/chaintest"
	"github.com/ethereum/go-ethereum/consensus/misc/eip4844"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"
)

func TestBlobGasPrice_NilWithoutExcessBlobGas(t *testing.T) {
	rules := NewRules(chaintest.ChainConfig())
	require.Nil(t, rules.BlobGasPrice(&types.Header{Number: big.NewInt(1)}))
}

func TestBlobGasPrice_NilBeforeCancun(t *testing.T) {
	config := chaintest.ChainConfig()
	config.CancunTime = nil
	excess := uint64(0)
	require.Nil(t, NewRules(config).BlobGasPrice(&types.Header{Number: big.NewInt(1), ExcessBlobGas: &excess}))
}

func TestBlobGasPrice_MinimumForZeroExcess(t *testing.T) {
	rules := NewRules(chaintest.ChainConfig())
	excess := uint64(0)
	price := rules.BlobGasPrice(&types.Header{Number: big.NewInt(1), ExcessBlobGas: &excess})
	require.Equal(t, big.NewInt(params.BlobTxMinBlobGasprice), price)
}

func TestBlobGasPrice_FollowsMainnetBlobSchedule(t *testing.T) {
	config := params.MainnetChainConfig
	rules := NewRules(config)
	tests := map[string]struct {
		time uint64
		want int64
	}{
		"cancun": {*config.CancunTime + 1, 399},
		"prague": {*config.PragueTime + 1, 54},
		"osaka":  {*config.OsakaTime + 1, 54},
		"bpo1":   {*config.BPO1Time + 1, 10},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			excess := uint64(20_000_000)
			header := &types.Header{
				Number:        big.NewInt(22_000_000),
				Time:          test.time,
				ExcessBlobGas: &excess,
			}
			price := rules.BlobGasPrice(header)
			require.Equal(t, big.NewInt(test.want), price)
			require.Equal(t, eip4844.CalcBlobFee(config, header), price)
		})
	}
}

func TestBlobGasPrice_LaterBlobParameterForksAreCovered(t *testing.T) {
	config := params.MainnetChainConfig
	excess := uint64(20_000_000)
	header := &types.Header{
		Number:        big.NewInt(24_000_000),
		Time:          *config.BPO2Time + 1,
		ExcessBlobGas: &excess,
	}
	bpo1 := *header
	bpo1.Time = *config.BPO1Time + 1

	rules := NewRules(config)
	require.Equal(t, eip4844.CalcBlobFee(config, header), rules.BlobGasPrice(header))
	require.Equal(t, 1, rules.BlobGasPrice(&bpo1).Cmp(rules.BlobGasPrice(header)),
		"a larger update fraction must reduce the price")
}

func TestBlobGasPrice_ConfigurationsWithoutScheduleUseDefaults(t *testing.T) {
	config := chaintest.ChainConfig()
	config.BlobScheduleConfig = nil
	pragueTime := uint64(100)
	config.PragueTime = &pragueTime
	rules := NewRules(config)

	excess := uint64(20_000_000)
	cancun := &types.Header{Number: big.NewInt(1), Time: 99, ExcessBlobGas: &excess}
	prague := &types.Header{Number: big.NewInt(2), Time: 100, ExcessBlobGas: &excess}
	require.Equal(t, big.NewInt(399), rules.BlobGasPrice(cancun))
	require.Equal(t, big.NewInt(54), rules.BlobGasPrice(prague))
	require.Nil(t, config.BlobScheduleConfig, "configuration of the caller must not be modified")
}

func TestBlobGasPrice_ScheduleOfChainConfigTakesPrecedence(t *testing.T) {
	config := chaintest.ChainConfig()
	config.BlobScheduleConfig = &params.BlobScheduleConfig{
		Cancun: &params.BlobConfig{Target: 3, Max: 6, UpdateFraction: 2225652},
	}
	excess := uint64(50_000_000)
	price := NewRules(config).BlobGasPrice(&types.Header{Number: big.NewInt(1), ExcessBlobGas: &excess})
	require.Equal(t, big.NewInt(5709098764), price)
}

func TestRevision_NamesCanBeParsed(t *testing.T) {
	for _, revision := range []Revision{RevisionBlobTxOnly, RevisionBlockWide, RevisionLegacy} {
		parsed, err := ParseRevision(revision.String())
		require.NoError(t, err)
		require.Equal(t, revision, parsed)
	}
	_, err := ParseRevision("unknown")
	require.Error(t, err)
	require.Equal(t, "Revision(7)", Revision(7).String())
}
