package aaveclient

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Minimal ABI surfaces, declared inline. Only the read methods the engine
// calls are present.
var (
	poolABI    abi.ABI
	uiPoolABI  abi.ABI
	oracleABI  abi.ABI
	factoryABI abi.ABI
	quoterABI  abi.ABI
	adapterABI abi.ABI
)

func init() {
	var err error

	poolABI, err = abi.JSON(strings.NewReader(`[
		{
			"name": "getUserAccountData",
			"type": "function",
			"stateMutability": "view",
			"inputs": [{"name": "user", "type": "address"}],
			"outputs": [
				{"name": "totalCollateralBase", "type": "uint256"},
				{"name": "totalDebtBase", "type": "uint256"},
				{"name": "availableBorrowsBase", "type": "uint256"},
				{"name": "currentLiquidationThreshold", "type": "uint256"},
				{"name": "ltv", "type": "uint256"},
				{"name": "healthFactor", "type": "uint256"}
			]
		}
	]`))
	if err != nil {
		panic("pool abi parse: " + err.Error())
	}

	uiPoolABI, err = abi.JSON(strings.NewReader(`[
		{
			"name": "getUserReservesData",
			"type": "function",
			"stateMutability": "view",
			"inputs": [
				{"name": "provider", "type": "address"},
				{"name": "user", "type": "address"}
			],
			"outputs": [
				{
					"name": "",
					"type": "tuple[]",
					"components": [
						{"name": "underlyingAsset", "type": "address"},
						{"name": "scaledATokenBalance", "type": "uint256"},
						{"name": "usageAsCollateralEnabledOnUser", "type": "bool"},
						{"name": "stableBorrowRate", "type": "uint256"},
						{"name": "scaledVariableDebt", "type": "uint256"},
						{"name": "principalStableDebt", "type": "uint256"},
						{"name": "stableBorrowLastUpdateTimestamp", "type": "uint256"}
					]
				},
				{"name": "", "type": "uint8"}
			]
		}
	]`))
	if err != nil {
		panic("ui pool abi parse: " + err.Error())
	}

	oracleABI, err = abi.JSON(strings.NewReader(`[
		{
			"name": "getAssetPrice",
			"type": "function",
			"stateMutability": "view",
			"inputs": [{"name": "asset", "type": "address"}],
			"outputs": [{"name": "", "type": "uint256"}]
		}
	]`))
	if err != nil {
		panic("oracle abi parse: " + err.Error())
	}

	factoryABI, err = abi.JSON(strings.NewReader(`[
		{
			"name": "getPool",
			"type": "function",
			"stateMutability": "view",
			"inputs": [
				{"name": "tokenA", "type": "address"},
				{"name": "tokenB", "type": "address"},
				{"name": "fee", "type": "uint24"}
			],
			"outputs": [{"name": "", "type": "address"}]
		}
	]`))
	if err != nil {
		panic("factory abi parse: " + err.Error())
	}

	quoterABI, err = abi.JSON(strings.NewReader(`[
		{
			"name": "quoteExactOutputSingle",
			"type": "function",
			"stateMutability": "nonpayable",
			"inputs": [
				{"name": "tokenIn", "type": "address"},
				{"name": "tokenOut", "type": "address"},
				{"name": "fee", "type": "uint24"},
				{"name": "amountOut", "type": "uint256"},
				{"name": "sqrtPriceLimitX96", "type": "uint160"}
			],
			"outputs": [{"name": "amountIn", "type": "uint256"}]
		}
	]`))
	if err != nil {
		panic("quoter abi parse: " + err.Error())
	}

	adapterABI, err = abi.JSON(strings.NewReader(`[
		{
			"name": "ASSET_TO_USD_AGGREGATOR",
			"type": "function",
			"stateMutability": "view",
			"inputs": [],
			"outputs": [{"name": "", "type": "address"}]
		},
		{
			"name": "BASE_TO_USD_AGGREGATOR",
			"type": "function",
			"stateMutability": "view",
			"inputs": [],
			"outputs": [{"name": "", "type": "address"}]
		},
		{
			"name": "ASSET_TO_PEG",
			"type": "function",
			"stateMutability": "view",
			"inputs": [],
			"outputs": [{"name": "", "type": "address"}]
		},
		{
			"name": "DAI_TO_USD",
			"type": "function",
			"stateMutability": "view",
			"inputs": [],
			"outputs": [{"name": "", "type": "address"}]
		}
	]`))
	if err != nil {
		panic("adapter abi parse: " + err.Error())
	}
}
