// Package aave holds the protocol domain types and the read-only client
// interfaces the engine consumes. All monetary quantities follow the
// on-chain convention: raw token amounts scaled by the asset's decimals,
// prices and base-currency values scaled by 1e8, and health factors scaled
// by 1e18.
package aave

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Asset describes one protocol reserve. The configuration is immutable for
// the lifetime of a process run except through an explicit table reload.
type Asset struct {
	Address  common.Address `json:"address"`
	Symbol   string         `json:"symbol"`
	Decimals uint8          `json:"decimals"`

	// LiquidationBonusBps is the basis-point surcharge paid to the
	// liquidator, e.g. 10500 for a 5% bonus.
	LiquidationBonusBps *big.Int `json:"liquidationBonusBps"`

	// ProtocolFeeBps is the basis-point cut of the bonus retained by the
	// protocol. Zero for most reserves.
	ProtocolFeeBps *big.Int `json:"protocolFeeBps"`

	// PriceSource is the oracle-readable contract the protocol prices this
	// reserve with.
	PriceSource common.Address `json:"priceSource"`
}

// Unit returns 10^decimals, the raw amount representing one whole token.
func (a Asset) Unit() *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(a.Decimals)), nil)
}

// Position is one user's holdings on one reserve. A user may hold nonzero
// collateral and nonzero debt on the same asset simultaneously.
type Position struct {
	Asset              common.Address `json:"asset"`
	ScaledCollateral   *big.Int       `json:"scaledCollateral"`
	CollateralEnabled  bool           `json:"collateralEnabled"`
	ScaledVariableDebt *big.Int       `json:"scaledVariableDebt"`
}

// HasDebt reports whether the position carries variable debt.
func (p Position) HasDebt() bool {
	return p.ScaledVariableDebt != nil && p.ScaledVariableDebt.Sign() > 0
}

// CountsAsCollateral reports whether the balance counts toward solvency.
func (p Position) CountsAsCollateral() bool {
	return p.CollateralEnabled && p.ScaledCollateral != nil && p.ScaledCollateral.Sign() > 0
}

// AccountData is the aggregate solvency snapshot returned by the pool for
// one user. HealthFactor below 1e18 means the account is liquidatable.
type AccountData struct {
	TotalCollateralBase         *big.Int `json:"totalCollateralBase"`
	TotalDebtBase               *big.Int `json:"totalDebtBase"`
	AvailableBorrowsBase        *big.Int `json:"availableBorrowsBase"`
	CurrentLiquidationThreshold *big.Int `json:"currentLiquidationThreshold"`
	LTV                         *big.Int `json:"ltv"`
	HealthFactor                *big.Int `json:"healthFactor"`
}

// AccountReader returns the aggregate solvency snapshot for a user.
type AccountReader interface {
	AccountData(ctx context.Context, user common.Address) (AccountData, error)
}

// PositionReader returns a user's positions across all reserves. The list
// may be empty for accounts with no protocol activity.
type PositionReader interface {
	Positions(ctx context.Context, user common.Address) ([]Position, error)
}

// OracleReader returns the current unit price of an asset in the base
// currency (1e8 scale).
type OracleReader interface {
	AssetPrice(ctx context.Context, asset common.Address) (*big.Int, error)
}
