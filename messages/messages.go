// Package messages defines the shapes that cross process boundaries: price
// update notifications from the mempool watcher, protocol event
// notifications from the log watcher, and underwater account alerts
// produced by the scanner. The transport carrying them is owned by the
// surrounding services; everything here round-trips through JSON.
package messages

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
)

// EventKind identifies the protocol log that triggered a notification.
type EventKind string

const (
	EventLiquidationCall EventKind = "LiquidationCall"
	EventBorrow          EventKind = "Borrow"
	EventSupply          EventKind = "Supply"
	EventRepay           EventKind = "Repay"
)

// PriceUpdate announces a pending oracle price transaction observed in the
// mempool, before inclusion.
type PriceUpdate struct {
	TraceID        string         `json:"traceId"`
	NewPrice       *big.Int       `json:"newPrice"`
	ForwardedTo    common.Address `json:"forwardedTo"`
	TxHash         common.Hash    `json:"txHash"`
	TxFrom         common.Address `json:"txFrom"`
	TxTo           common.Address `json:"txTo"`
	TxInput        hexutil.Bytes  `json:"txInput"`
	InclusionBlock uint64         `json:"inclusionBlock"`
}

// ProtocolEvent announces a confirmed protocol log that may change which
// reserves a user is borrowing or supplying. Args carries the event's
// positional arguments rendered as strings.
type ProtocolEvent struct {
	Kind        EventKind `json:"kind"`
	BlockNumber uint64    `json:"blockNumber"`
	TraceID     string    `json:"traceId"`
	Args        []string  `json:"args"`
}

// affectedUserIndex returns the positional argument holding the user whose
// positions the event changed. LiquidationCall emits (collateral, debt,
// user, ...); Borrow, Supply and Repay emit (reserve, user, ...).
func (e ProtocolEvent) affectedUserIndex() (int, bool) {
	switch e.Kind {
	case EventBorrow, EventSupply, EventRepay:
		return 1, true
	case EventLiquidationCall:
		return 2, true
	default:
		return 0, false
	}
}

// AffectedUser extracts the address of the user whose positions changed.
func (e ProtocolEvent) AffectedUser() (common.Address, error) {
	idx, ok := e.affectedUserIndex()
	if !ok {
		return common.Address{}, fmt.Errorf("event kind %q does not affect user positions", e.Kind)
	}
	if idx >= len(e.Args) {
		return common.Address{}, fmt.Errorf("event %q has %d args, affected user expected at index %d", e.Kind, len(e.Args), idx)
	}
	arg := e.Args[idx]
	if !common.IsHexAddress(arg) {
		return common.Address{}, fmt.Errorf("event %q arg %d is not an address: %q", e.Kind, idx, arg)
	}
	return common.HexToAddress(arg), nil
}

// AssetPrice is one (asset, price) entry of the speculative price context a
// trace was evaluated under.
type AssetPrice struct {
	Asset  common.Address `json:"asset"`
	Symbol string         `json:"symbol"`
	Price  *big.Int       `json:"price"`
}

// UnderwaterEvent is published once per scan for every account found under
// the health factor threshold with collateral above the reporting floor.
type UnderwaterEvent struct {
	Address             common.Address `json:"address"`
	TraceID             string         `json:"traceId"`
	TxHash              common.Hash    `json:"txHash"`
	InclusionBlock      uint64         `json:"inclusionBlock"`
	TotalCollateralBase *big.Int       `json:"totalCollateralBase"`

	// AccountData is the full solvency snapshot the decision was made on.
	AccountData AccountSnapshot `json:"accountData"`

	// AssetPrices is the price context the evaluation ran under, so the
	// consumer can reproduce the same view.
	AssetPrices []AssetPrice `json:"assetPrices"`
}

// AccountSnapshot mirrors the pool's aggregate account data at evaluation
// time.
type AccountSnapshot struct {
	TotalCollateralBase         *big.Int `json:"totalCollateralBase"`
	TotalDebtBase               *big.Int `json:"totalDebtBase"`
	AvailableBorrowsBase        *big.Int `json:"availableBorrowsBase"`
	CurrentLiquidationThreshold *big.Int `json:"currentLiquidationThreshold"`
	LTV                         *big.Int `json:"ltv"`
	HealthFactor                *big.Int `json:"healthFactor"`
}

// NewTraceID mints a trace id for analysis runs that were not triggered by
// an observed transaction, such as the bootstrap scan and interval rescans.
func NewTraceID() string {
	return uuid.NewString()
}
