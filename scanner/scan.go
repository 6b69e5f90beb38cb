// Package scanner evaluates candidate accounts against the pool's solvency
// view and raises underwater alerts. Buckets fan out across goroutines;
// addresses within a bucket are read sequentially so the number of
// outstanding queries per worker stays bounded.
package scanner

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/keeper-labs/liquidation-engine/aave"
	"github.com/keeper-labs/liquidation-engine/messages"
)

// HealthFactorThreshold is the protocol's liquidation boundary, 1.0 scaled
// by 1e18.
var HealthFactorThreshold = big.NewInt(1_000_000_000_000_000_000)

// Config carries the scan's alerting thresholds.
type Config struct {
	// Threshold is compared against each account's health factor;
	// accounts strictly below it are under threshold.
	Threshold *big.Int

	// MinReportableCollateral suppresses alerts for accounts whose total
	// collateral (base currency) is too small to liquidate profitably.
	MinReportableCollateral *big.Int
}

// DefaultConfig alerts on any account below a health factor of 1.0 with
// any nonzero collateral.
func DefaultConfig() Config {
	return Config{
		Threshold:               new(big.Int).Set(HealthFactorThreshold),
		MinReportableCollateral: big.NewInt(0),
	}
}

// Request is one scan invocation: the candidate buckets plus the trace
// context alerts should carry.
type Request struct {
	Buckets        [][]common.Address
	TraceID        string
	TxHash         common.Hash
	InclusionBlock uint64

	// AssetPrices is the speculative price context this evaluation runs
	// under, forwarded verbatim into any alert.
	AssetPrices []messages.AssetPrice
}

// Results holds the merged outcome of one scan. Addresses whose account
// query failed appear in neither map.
type Results struct {
	All            map[common.Address]*big.Int
	UnderThreshold map[common.Address]*big.Int
}

// Sink receives underwater alerts. Publish must not block.
type Sink interface {
	Publish(ev messages.UnderwaterEvent)
}

// Scan reads the account snapshot of every address across all buckets and
// returns the health factors found, split into all results and the
// under-threshold subset. A nil sink disables alert publication. Per
// address failures are logged and the address omitted; one bad address
// never aborts the scan.
func Scan(ctx context.Context, cfg Config, req Request, reader aave.AccountReader, sink Sink, logger zerolog.Logger) Results {
	log := logger.With().Str("component", "scanner").Str("trace_id", req.TraceID).Logger()

	bucketResults := make([]Results, len(req.Buckets))
	var g errgroup.Group
	for i, bucket := range req.Buckets {
		i, bucket := i, bucket
		g.Go(func() error {
			results := Results{
				All:            make(map[common.Address]*big.Int, len(bucket)),
				UnderThreshold: make(map[common.Address]*big.Int),
			}
			for _, user := range bucket {
				data, err := reader.AccountData(ctx, user)
				if err != nil {
					log.Warn().Str("user", user.Hex()).Err(err).Msg("account data query failed")
					continue
				}
				results.All[user] = data.HealthFactor
				if underThreshold(cfg, data) {
					results.UnderThreshold[user] = data.HealthFactor
					if sink != nil {
						sink.Publish(underwaterEvent(req, user, data))
					}
				}
			}
			bucketResults[i] = results
			return nil
		})
	}
	// bucket workers only report per-address failures, never errors
	_ = g.Wait()

	merged := Results{
		All:            make(map[common.Address]*big.Int),
		UnderThreshold: make(map[common.Address]*big.Int),
	}
	for _, results := range bucketResults {
		for user, hf := range results.All {
			merged.All[user] = hf
		}
		for user, hf := range results.UnderThreshold {
			merged.UnderThreshold[user] = hf
		}
	}
	return merged
}

func underThreshold(cfg Config, data aave.AccountData) bool {
	return data.HealthFactor.Cmp(cfg.Threshold) < 0 &&
		data.TotalCollateralBase.Cmp(cfg.MinReportableCollateral) > 0
}

func underwaterEvent(req Request, user common.Address, data aave.AccountData) messages.UnderwaterEvent {
	return messages.UnderwaterEvent{
		Address:             user,
		TraceID:             req.TraceID,
		TxHash:              req.TxHash,
		InclusionBlock:      req.InclusionBlock,
		TotalCollateralBase: data.TotalCollateralBase,
		AccountData: messages.AccountSnapshot{
			TotalCollateralBase:         data.TotalCollateralBase,
			TotalDebtBase:               data.TotalDebtBase,
			AvailableBorrowsBase:        data.AvailableBorrowsBase,
			CurrentLiquidationThreshold: data.CurrentLiquidationThreshold,
			LTV:                         data.LTV,
			HealthFactor:                data.HealthFactor,
		},
		AssetPrices: req.AssetPrices,
	}
}
