// Package profit turns an under-collateralized account into a concrete
// liquidation decision: which debt/collateral pair to act on, how much of
// each, and the expected net profit after the protocol's cut.
package profit

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/keeper-labs/liquidation-engine/aave"
	"github.com/keeper-labs/liquidation-engine/percentmath"
	"github.com/keeper-labs/liquidation-engine/pricecache"
)

// criticalHealthFactor is the boundary below which the protocol allows
// closing 100% of a position's debt instead of half, 0.95 scaled by 1e18.
var criticalHealthFactor = big.NewInt(950_000_000_000_000_000)

var (
	fullCloseFactorBps = big.NewInt(10_000)
	halfCloseFactorBps = big.NewInt(5_000)
)

// PairResult describes the most profitable liquidation found for one
// account. CollateralAmount is what the liquidator receives after the
// protocol fee; all amounts are raw token units except NetProfitBase,
// which is base currency at 1e8.
type PairResult struct {
	DebtAsset             common.Address
	DebtSymbol            string
	DebtAmount            *big.Int
	DebtInCollateralUnits *big.Int

	CollateralAsset   common.Address
	CollateralSymbol  string
	CollateralAmount  *big.Int
	ProtocolFeeAmount *big.Int

	// NetProfit is denominated in collateral token units; comparing pairs
	// in mixed denominations would rank garbage.
	NetProfit     *big.Int
	NetProfitBase *big.Int
}

// Printable renders the net profit in base currency, e.g. "50" for 5e9.
func (r PairResult) Printable() string {
	return decimal.NewFromBigInt(r.NetProfitBase, -8).String()
}

// Calculator evaluates debt/collateral pairs using trace-scoped prices.
type Calculator struct {
	assets map[common.Address]aave.Asset
	prices *pricecache.Cache
	oracle aave.OracleReader
	logger zerolog.Logger
}

// NewCalculator returns a calculator over the given reserve table. Prices
// are read through the cache so a speculative trace sees its overridden
// universe.
func NewCalculator(assets map[common.Address]aave.Asset, prices *pricecache.Cache, oracle aave.OracleReader, logger zerolog.Logger) *Calculator {
	return &Calculator{
		assets: assets,
		prices: prices,
		oracle: oracle,
		logger: logger.With().Str("component", "profit").Logger(),
	}
}

// BestPair enumerates every (borrowed, supplied) pair of the user's
// positions and returns the one with the strictly greatest net profit, or
// nil when no pair is profitable. A pair whose asset is not in the reserve
// table or whose price cannot be resolved is skipped, not fatal.
func (c *Calculator) BestPair(ctx context.Context, user common.Address, positions []aave.Position, healthFactor *big.Int, traceID string) *PairResult {
	log := c.logger.With().Str("user", user.Hex()).Str("trace_id", traceID).Logger()

	closeFactor := halfCloseFactorBps
	if healthFactor.Cmp(criticalHealthFactor) <= 0 {
		closeFactor = fullCloseFactorBps
	}

	var best *PairResult
	maxNetProfit := big.NewInt(0)
	for _, borrowed := range positions {
		if !borrowed.HasDebt() {
			continue
		}
		for _, supplied := range positions {
			if !supplied.CountsAsCollateral() {
				continue
			}
			debtAsset, ok := c.assets[borrowed.Asset]
			if !ok {
				log.Warn().Str("asset", borrowed.Asset.Hex()).Msg("debt asset missing from reserve table")
				continue
			}
			collAsset, ok := c.assets[supplied.Asset]
			if !ok {
				log.Warn().Str("asset", supplied.Asset.Hex()).Msg("collateral asset missing from reserve table")
				continue
			}

			debtPrice, err := c.prices.Get(ctx, borrowed.Asset, traceID, c.oracle)
			if err != nil {
				log.Warn().Str("symbol", debtAsset.Symbol).Err(err).Msg("debt price unavailable")
				continue
			}
			collPrice, err := c.prices.Get(ctx, supplied.Asset, traceID, c.oracle)
			if err != nil {
				log.Warn().Str("symbol", collAsset.Symbol).Err(err).Msg("collateral price unavailable")
				continue
			}

			result := evaluatePair(borrowed, supplied, debtAsset, collAsset, debtPrice, collPrice, closeFactor)
			if result == nil {
				log.Warn().
					Str("debt", debtAsset.Symbol).
					Str("collateral", collAsset.Symbol).
					Msg("pair profit would underflow, skipping")
				continue
			}
			if result.NetProfit.Cmp(maxNetProfit) > 0 {
				maxNetProfit = result.NetProfit
				best = result
			}
		}
	}
	return best
}

// evaluatePair runs the protocol's liquidation arithmetic for one
// (borrowed, supplied) pair. Returns nil when the pair's fee plus
// debt-in-collateral-units exceeds the liquidatable collateral, i.e. the
// subtraction would wrap under unsigned semantics.
func evaluatePair(borrowed, supplied aave.Position, debtAsset, collAsset aave.Asset, debtPrice, collPrice *big.Int, closeFactor *big.Int) *PairResult {
	debtUnit := debtAsset.Unit()
	collUnit := collAsset.Unit()

	debtToLiquidate := percentmath.Mul(borrowed.ScaledVariableDebt, closeFactor)

	// debt value re-expressed in collateral token units
	baseCollateral := mulDivScaled(debtPrice, debtToLiquidate, collUnit, collPrice, debtUnit)
	maxCollateral := percentmath.Mul(baseCollateral, collAsset.LiquidationBonusBps)

	collateralAmount := maxCollateral
	if maxCollateral.Cmp(supplied.ScaledCollateral) > 0 {
		collateralAmount = supplied.ScaledCollateral
		debtToLiquidate = percentmath.Div(
			mulDivScaled(collPrice, collateralAmount, debtUnit, debtPrice, collUnit),
			collAsset.LiquidationBonusBps,
		)
	}

	protocolFee := big.NewInt(0)
	if collAsset.ProtocolFeeBps != nil && collAsset.ProtocolFeeBps.Sign() > 0 {
		bonusCollateral := new(big.Int).Sub(
			collateralAmount,
			percentmath.Div(collateralAmount, collAsset.LiquidationBonusBps),
		)
		protocolFee = percentmath.Mul(bonusCollateral, collAsset.ProtocolFeeBps)
	}

	debtInCollateralUnits := mulDivScaled(debtToLiquidate, debtPrice, collUnit, collPrice, debtUnit)

	needed := new(big.Int).Add(protocolFee, debtInCollateralUnits)
	if collateralAmount.Cmp(needed) < 0 {
		return nil
	}

	received := new(big.Int).Sub(collateralAmount, protocolFee)
	netProfit := new(big.Int).Sub(received, debtInCollateralUnits)
	netProfitBase := new(big.Int).Mul(netProfit, collPrice)
	netProfitBase.Quo(netProfitBase, collUnit)

	return &PairResult{
		DebtAsset:             borrowed.Asset,
		DebtSymbol:            debtAsset.Symbol,
		DebtAmount:            debtToLiquidate,
		DebtInCollateralUnits: debtInCollateralUnits,
		CollateralAsset:       supplied.Asset,
		CollateralSymbol:      collAsset.Symbol,
		CollateralAmount:      received,
		ProtocolFeeAmount:     protocolFee,
		NetProfit:             netProfit,
		NetProfitBase:         netProfitBase,
	}
}

// mulDivScaled computes a*b*c / (d*e) without truncating intermediates.
func mulDivScaled(a, b, c, d, e *big.Int) *big.Int {
	num := new(big.Int).Mul(a, b)
	num.Mul(num, c)
	den := new(big.Int).Mul(d, e)
	return num.Quo(num, den)
}
