// Package aaveclient reads protocol state over JSON-RPC: account solvency
// and positions from the pool contracts, prices from the protocol oracle,
// and swap quotes from the on-chain pools.
package aaveclient

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/keeper-labs/liquidation-engine/aave"
	"github.com/keeper-labs/liquidation-engine/profit"
)

// ContractCaller is the slice of the RPC client the reads need. Satisfied
// by *ethclient.Client.
type ContractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Addresses locates the protocol and swap contracts on one chain.
type Addresses struct {
	Pool               common.Address
	AddressesProvider  common.Address
	UiPoolDataProvider common.Address
	Oracle             common.Address
	SwapFactory        common.Address
	SwapQuoter         common.Address
}

// MainnetAddresses returns the Ethereum mainnet deployment.
func MainnetAddresses() Addresses {
	return Addresses{
		Pool:               common.HexToAddress("0x87870Bca3F3fD6335C3F4ce8392D69350B4fA4E2"),
		AddressesProvider:  common.HexToAddress("0x2f39d218133AFaB8F2B819B1066c7E434Ad94E9e"),
		UiPoolDataProvider: common.HexToAddress("0x3F78BBD206e4D3c504Eb854232EdA7e47E9Fd8FC"),
		Oracle:             common.HexToAddress("0x54586bE62E3c3580375aE3723C145253060Ca0C2"),
		SwapFactory:        common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984"),
		SwapQuoter:         common.HexToAddress("0xb27308f9F90D607463bb33eA1BeBb41C27CE5AB6"),
	}
}

// Client implements the engine's reader interfaces against one chain.
type Client struct {
	caller ContractCaller
	addrs  Addresses
}

// New returns a client reading through the given caller.
func New(caller ContractCaller, addrs Addresses) *Client {
	return &Client{caller: caller, addrs: addrs}
}

func (c *Client) call(ctx context.Context, contract common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	raw, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	out, err := parsed.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return out, nil
}

// AccountData implements aave.AccountReader via the pool's
// getUserAccountData.
func (c *Client) AccountData(ctx context.Context, user common.Address) (aave.AccountData, error) {
	out, err := c.call(ctx, c.addrs.Pool, poolABI, "getUserAccountData", user)
	if err != nil {
		return aave.AccountData{}, err
	}
	if len(out) != 6 {
		return aave.AccountData{}, fmt.Errorf("getUserAccountData: expected 6 outputs, got %d", len(out))
	}
	return aave.AccountData{
		TotalCollateralBase:         out[0].(*big.Int),
		TotalDebtBase:               out[1].(*big.Int),
		AvailableBorrowsBase:        out[2].(*big.Int),
		CurrentLiquidationThreshold: out[3].(*big.Int),
		LTV:                         out[4].(*big.Int),
		HealthFactor:                out[5].(*big.Int),
	}, nil
}

type userReserveData struct {
	UnderlyingAsset                 common.Address
	ScaledATokenBalance             *big.Int
	UsageAsCollateralEnabledOnUser  bool
	StableBorrowRate                *big.Int
	ScaledVariableDebt              *big.Int
	PrincipalStableDebt             *big.Int
	StableBorrowLastUpdateTimestamp *big.Int
}

// Positions implements aave.PositionReader via the UI pool data provider's
// getUserReservesData.
func (c *Client) Positions(ctx context.Context, user common.Address) ([]aave.Position, error) {
	out, err := c.call(ctx, c.addrs.UiPoolDataProvider, uiPoolABI, "getUserReservesData", c.addrs.AddressesProvider, user)
	if err != nil {
		return nil, err
	}
	if len(out) < 1 {
		return nil, fmt.Errorf("getUserReservesData: empty response")
	}
	reserves := *abi.ConvertType(out[0], new([]userReserveData)).(*[]userReserveData)

	positions := make([]aave.Position, 0, len(reserves))
	for _, r := range reserves {
		positions = append(positions, aave.Position{
			Asset:              r.UnderlyingAsset,
			ScaledCollateral:   r.ScaledATokenBalance,
			CollateralEnabled:  r.UsageAsCollateralEnabledOnUser,
			ScaledVariableDebt: r.ScaledVariableDebt,
		})
	}
	return positions, nil
}

// AssetPrice implements aave.OracleReader via the protocol oracle.
func (c *Client) AssetPrice(ctx context.Context, asset common.Address) (*big.Int, error) {
	out, err := c.call(ctx, c.addrs.Oracle, oracleABI, "getAssetPrice", asset)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("getAssetPrice: expected 1 output, got %d", len(out))
	}
	return out[0].(*big.Int), nil
}

// QuoteExactOutput implements profit.SwapQuoteReader. The factory is asked
// for the pool first; a zero address means no pool exists at that tier.
func (c *Client) QuoteExactOutput(ctx context.Context, tokenIn, tokenOut common.Address, feeTier uint32, amountOut *big.Int) (profit.SwapQuote, error) {
	fee := big.NewInt(int64(feeTier))
	out, err := c.call(ctx, c.addrs.SwapFactory, factoryABI, "getPool", tokenIn, tokenOut, fee)
	if err != nil {
		return profit.SwapQuote{}, err
	}
	if len(out) != 1 {
		return profit.SwapQuote{}, fmt.Errorf("getPool: expected 1 output, got %d", len(out))
	}
	pool := out[0].(common.Address)
	if pool == (common.Address{}) {
		return profit.SwapQuote{}, profit.ErrPoolNotFound
	}

	out, err = c.call(ctx, c.addrs.SwapQuoter, quoterABI, "quoteExactOutputSingle",
		tokenIn, tokenOut, fee, amountOut, big.NewInt(0))
	if err != nil {
		return profit.SwapQuote{}, err
	}
	if len(out) != 1 {
		return profit.SwapQuote{}, fmt.Errorf("quoteExactOutputSingle: expected 1 output, got %d", len(out))
	}
	return profit.SwapQuote{Pool: pool, AmountIn: out[0].(*big.Int)}, nil
}

func (c *Client) adapterAddress(ctx context.Context, adapter common.Address, method string) (common.Address, error) {
	out, err := c.call(ctx, adapter, adapterABI, method)
	if err != nil {
		return common.Address{}, err
	}
	if len(out) != 1 {
		return common.Address{}, fmt.Errorf("%s: expected 1 output, got %d", method, len(out))
	}
	return out[0].(common.Address), nil
}

// AssetToUSDAggregator implements oracles.AdapterReader.
func (c *Client) AssetToUSDAggregator(ctx context.Context, adapter common.Address) (common.Address, error) {
	return c.adapterAddress(ctx, adapter, "ASSET_TO_USD_AGGREGATOR")
}

// BaseToUSDAggregator implements oracles.AdapterReader.
func (c *Client) BaseToUSDAggregator(ctx context.Context, adapter common.Address) (common.Address, error) {
	return c.adapterAddress(ctx, adapter, "BASE_TO_USD_AGGREGATOR")
}

// AssetToPegAggregator implements oracles.AdapterReader.
func (c *Client) AssetToPegAggregator(ctx context.Context, adapter common.Address) (common.Address, error) {
	return c.adapterAddress(ctx, adapter, "ASSET_TO_PEG")
}

// UnderlyingToUSDAggregator implements oracles.AdapterReader.
func (c *Client) UnderlyingToUSDAggregator(ctx context.Context, adapter common.Address) (common.Address, error) {
	return c.adapterAddress(ctx, adapter, "DAI_TO_USD")
}
