package aaveclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeper-labs/liquidation-engine/profit"
)

// fakeCaller answers CallContract by matching the target contract and the
// 4-byte method selector.
type fakeCaller struct {
	responses map[string][]byte
	errs      map[string]error
}

func callKey(to common.Address, selector []byte) string {
	return to.Hex() + "/" + common.Bytes2Hex(selector)
}

func (f *fakeCaller) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	key := callKey(*call.To, call.Data[:4])
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	resp, ok := f.responses[key]
	if !ok {
		return nil, fmt.Errorf("unexpected call %s", key)
	}
	return resp, nil
}

func (f *fakeCaller) respond(t *testing.T, to common.Address, method string, data []byte) {
	t.Helper()
	if f.responses == nil {
		f.responses = make(map[string][]byte)
	}
	f.responses[callKey(to, selectorOf(t, method))] = data
}

func (f *fakeCaller) fail(t *testing.T, to common.Address, method string, err error) {
	t.Helper()
	if f.errs == nil {
		f.errs = make(map[string]error)
	}
	f.errs[callKey(to, selectorOf(t, method))] = err
}

func selectorOf(t *testing.T, method string) []byte {
	t.Helper()
	for _, a := range allABIs() {
		if m, ok := a.Methods[method]; ok {
			return m.ID
		}
	}
	t.Fatalf("no ABI defines method %s", method)
	return nil
}

func allABIs() []abi.ABI {
	return []abi.ABI{poolABI, uiPoolABI, oracleABI, factoryABI, quoterABI, adapterABI}
}

func TestAccountData(t *testing.T) {
	addrs := MainnetAddresses()
	user := common.BytesToAddress([]byte{0x01})

	outputs := poolABI.Methods["getUserAccountData"].Outputs
	packed, err := outputs.Pack(
		big.NewInt(12_000_000_000),
		big.NewInt(8_000_000_000),
		big.NewInt(1_000_000_000),
		big.NewInt(8500),
		big.NewInt(8000),
		big.NewInt(950_000_000_000_000_000),
	)
	require.NoError(t, err)

	caller := &fakeCaller{}
	caller.respond(t, addrs.Pool, "getUserAccountData", packed)
	client := New(caller, addrs)

	data, err := client.AccountData(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(12_000_000_000), data.TotalCollateralBase)
	assert.Equal(t, big.NewInt(8_000_000_000), data.TotalDebtBase)
	assert.Equal(t, big.NewInt(950_000_000_000_000_000), data.HealthFactor)
}

func TestAccountDataTransportError(t *testing.T) {
	addrs := MainnetAddresses()
	caller := &fakeCaller{}
	caller.fail(t, addrs.Pool, "getUserAccountData", fmt.Errorf("connection refused"))
	client := New(caller, addrs)

	_, err := client.AccountData(context.Background(), common.BytesToAddress([]byte{0x01}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "getUserAccountData")
}

func TestPositions(t *testing.T) {
	addrs := MainnetAddresses()
	weth := common.BytesToAddress([]byte{0xee})
	usdc := common.BytesToAddress([]byte{0xcc})

	outputs := uiPoolABI.Methods["getUserReservesData"].Outputs
	packed, err := outputs.Pack([]userReserveData{
		{
			UnderlyingAsset:                 weth,
			ScaledATokenBalance:             big.NewInt(5_000),
			UsageAsCollateralEnabledOnUser:  true,
			StableBorrowRate:                big.NewInt(0),
			ScaledVariableDebt:              big.NewInt(0),
			PrincipalStableDebt:             big.NewInt(0),
			StableBorrowLastUpdateTimestamp: big.NewInt(0),
		},
		{
			UnderlyingAsset:                 usdc,
			ScaledATokenBalance:             big.NewInt(0),
			UsageAsCollateralEnabledOnUser:  false,
			StableBorrowRate:                big.NewInt(0),
			ScaledVariableDebt:              big.NewInt(9_000),
			PrincipalStableDebt:             big.NewInt(0),
			StableBorrowLastUpdateTimestamp: big.NewInt(0),
		},
	}, uint8(4))
	require.NoError(t, err)

	caller := &fakeCaller{}
	caller.respond(t, addrs.UiPoolDataProvider, "getUserReservesData", packed)
	client := New(caller, addrs)

	positions, err := client.Positions(context.Background(), common.BytesToAddress([]byte{0x01}))
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, weth, positions[0].Asset)
	assert.True(t, positions[0].CountsAsCollateral())
	assert.False(t, positions[0].HasDebt())
	assert.Equal(t, usdc, positions[1].Asset)
	assert.True(t, positions[1].HasDebt())
	assert.Equal(t, big.NewInt(9_000), positions[1].ScaledVariableDebt)
}

func TestAssetPrice(t *testing.T) {
	addrs := MainnetAddresses()
	packed, err := oracleABI.Methods["getAssetPrice"].Outputs.Pack(big.NewInt(250_000_000_000))
	require.NoError(t, err)

	caller := &fakeCaller{}
	caller.respond(t, addrs.Oracle, "getAssetPrice", packed)
	client := New(caller, addrs)

	price, err := client.AssetPrice(context.Background(), common.BytesToAddress([]byte{0xee}))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(250_000_000_000), price)
}

func TestQuoteExactOutput(t *testing.T) {
	addrs := MainnetAddresses()
	pool := common.BytesToAddress([]byte{0xf0})

	poolPacked, err := factoryABI.Methods["getPool"].Outputs.Pack(pool)
	require.NoError(t, err)
	quotePacked, err := quoterABI.Methods["quoteExactOutputSingle"].Outputs.Pack(big.NewInt(1_005))
	require.NoError(t, err)

	caller := &fakeCaller{}
	caller.respond(t, addrs.SwapFactory, "getPool", poolPacked)
	caller.respond(t, addrs.SwapQuoter, "quoteExactOutputSingle", quotePacked)
	client := New(caller, addrs)

	quote, err := client.QuoteExactOutput(context.Background(),
		common.BytesToAddress([]byte{0x0a}), common.BytesToAddress([]byte{0x0b}), 3000, big.NewInt(1_000))
	require.NoError(t, err)
	assert.Equal(t, pool, quote.Pool)
	assert.Equal(t, big.NewInt(1_005), quote.AmountIn)
}

func TestQuoteExactOutputMissingPool(t *testing.T) {
	addrs := MainnetAddresses()
	poolPacked, err := factoryABI.Methods["getPool"].Outputs.Pack(common.Address{})
	require.NoError(t, err)

	caller := &fakeCaller{}
	caller.respond(t, addrs.SwapFactory, "getPool", poolPacked)
	client := New(caller, addrs)

	_, err = client.QuoteExactOutput(context.Background(),
		common.BytesToAddress([]byte{0x0a}), common.BytesToAddress([]byte{0x0b}), 100, big.NewInt(1_000))
	assert.True(t, errors.Is(err, profit.ErrPoolNotFound))
}

func TestAdapterAccessors(t *testing.T) {
	addrs := MainnetAddresses()
	adapter := common.BytesToAddress([]byte{0xad})
	upstream := common.BytesToAddress([]byte{0xaa})

	tests := []struct {
		method string
		read   func(*Client) (common.Address, error)
	}{
		{"ASSET_TO_USD_AGGREGATOR", func(c *Client) (common.Address, error) {
			return c.AssetToUSDAggregator(context.Background(), adapter)
		}},
		{"BASE_TO_USD_AGGREGATOR", func(c *Client) (common.Address, error) {
			return c.BaseToUSDAggregator(context.Background(), adapter)
		}},
		{"ASSET_TO_PEG", func(c *Client) (common.Address, error) {
			return c.AssetToPegAggregator(context.Background(), adapter)
		}},
		{"DAI_TO_USD", func(c *Client) (common.Address, error) {
			return c.UnderlyingToUSDAggregator(context.Background(), adapter)
		}},
	}
	for _, tc := range tests {
		t.Run(tc.method, func(t *testing.T) {
			packed, err := adapterABI.Methods[tc.method].Outputs.Pack(upstream)
			require.NoError(t, err)

			caller := &fakeCaller{}
			caller.respond(t, adapter, tc.method, packed)
			client := New(caller, addrs)

			got, err := tc.read(client)
			require.NoError(t, err)
			assert.Equal(t, upstream, got)
		})
	}
}

func TestSelectorsAreDistinct(t *testing.T) {
	seen := make(map[string]string)
	for _, a := range allABIs() {
		for name, m := range a.Methods {
			key := common.Bytes2Hex(m.ID)
			if prev, ok := seen[key]; ok && prev != name {
				t.Fatalf("selector collision: %s vs %s", prev, name)
			}
			seen[key] = name
			assert.False(t, bytes.Equal(m.ID, make([]byte, 4)))
		}
	}
}
