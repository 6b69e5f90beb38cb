package main

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/keeper-labs/liquidation-engine/aave"
	"github.com/keeper-labs/liquidation-engine/messages"
	"github.com/keeper-labs/liquidation-engine/pricecache"
	"github.com/keeper-labs/liquidation-engine/profit"
	"github.com/keeper-labs/liquidation-engine/reserveindex"
	"github.com/keeper-labs/liquidation-engine/scanner"
)

// ProtocolReader is the full read surface the service needs from the
// chain. *aaveclient.Client satisfies it.
type ProtocolReader interface {
	aave.AccountReader
	aave.PositionReader
	aave.OracleReader
	profit.SwapQuoteReader
}

// Service wires the index, price cache, scanner and calculator into the
// monitor's three entry points: price updates, protocol events, and
// interval rescans.
type Service struct {
	assets map[common.Address]aave.Asset
	feeds  map[common.Address][]common.Address

	index   *reserveindex.Index
	cache   *pricecache.Cache
	reader  ProtocolReader
	calc    *profit.Calculator
	bus     *scanner.Bus
	scanCfg scanner.Config
	logger  zerolog.Logger
}

func NewService(
	assets map[common.Address]aave.Asset,
	feeds map[common.Address][]common.Address,
	index *reserveindex.Index,
	cache *pricecache.Cache,
	reader ProtocolReader,
	calc *profit.Calculator,
	bus *scanner.Bus,
	scanCfg scanner.Config,
	logger zerolog.Logger,
) *Service {
	return &Service{
		assets:  assets,
		feeds:   feeds,
		index:   index,
		cache:   cache,
		reader:  reader,
		calc:    calc,
		bus:     bus,
		scanCfg: scanCfg,
		logger:  logger.With().Str("component", "service").Logger(),
	}
}

// Bootstrap seeds the index from a snapshot of known protocol users. Users
// whose positions cannot be read are skipped; the index can pick them up
// later from protocol events.
func (s *Service) Bootstrap(ctx context.Context, users []common.Address) {
	positionsByUser := make(map[common.Address][]aave.Position, len(users))
	for _, user := range users {
		positions, err := s.reader.Positions(ctx, user)
		if err != nil {
			s.logger.Warn().Str("user", user.Hex()).Err(err).Msg("bootstrap position read failed")
			continue
		}
		positionsByUser[user] = positions
	}
	s.index.RebuildFromSnapshot(positionsByUser)

	stats := s.index.Stats()
	s.logger.Info().
		Int("entries", stats.TotalEntries).
		Str("most_borrowed", stats.MostBorrowed.Hex()).
		Int("most_borrowed_count", stats.MostBorrowedCount).
		Str("most_supplied", stats.MostSupplied.Hex()).
		Int("most_supplied_count", stats.MostSuppliedCount).
		Msg("index bootstrapped")
}

// HandlePriceUpdate runs the speculative evaluation for one pending oracle
// transaction: snapshot current prices under the trace, override the
// affected assets with the pending price, and scan the narrowed candidate
// set under that universe.
func (s *Service) HandlePriceUpdate(ctx context.Context, update messages.PriceUpdate) scanner.Results {
	log := s.logger.With().Str("trace_id", update.TraceID).Logger()

	affected, ok := s.feeds[update.ForwardedTo]
	if !ok || len(affected) == 0 {
		log.Warn().Str("forwarded_to", update.ForwardedTo.Hex()).Msg("price update for unknown feed")
		return scanner.Results{}
	}

	overrides := make([]messages.AssetPrice, 0, len(affected))
	for _, asset := range affected {
		// the read pins the trace in the cache before the override lands
		if _, err := s.cache.Get(ctx, asset, update.TraceID, s.reader); err != nil {
			log.Warn().Str("asset", asset.Hex()).Err(err).Msg("baseline price read failed")
			continue
		}
		overrides = append(overrides, messages.AssetPrice{
			Asset:  asset,
			Symbol: s.assets[asset].Symbol,
			Price:  update.NewPrice,
		})
	}
	if len(overrides) == 0 {
		return scanner.Results{}
	}
	s.cache.Override(update.TraceID, overrides)

	buckets := s.index.ResolveCandidates(affected)
	return scanner.Scan(ctx, s.scanCfg, scanner.Request{
		Buckets:        buckets,
		TraceID:        update.TraceID,
		TxHash:         update.TxHash,
		InclusionBlock: update.InclusionBlock,
		AssetPrices:    overrides,
	}, s.reader, s.bus, s.logger)
}

// HandleProtocolEvent keeps the index current with confirmed borrow,
// supply, repay and liquidation logs.
func (s *Service) HandleProtocolEvent(ctx context.Context, ev messages.ProtocolEvent) error {
	return s.index.HandleProtocolEvent(ctx, ev, s.reader)
}

// RescanAll sweeps every indexed account at current prices. Used at
// startup and on the periodic interval, where no speculative trace exists.
func (s *Service) RescanAll(ctx context.Context) scanner.Results {
	allAssets := make([]common.Address, 0, len(s.assets))
	for asset := range s.assets {
		allAssets = append(allAssets, asset)
	}

	traceID := messages.NewTraceID()
	buckets := s.index.ResolveCandidates(allAssets)
	return scanner.Scan(ctx, s.scanCfg, scanner.Request{
		Buckets: buckets,
		TraceID: traceID,
	}, s.reader, s.bus, s.logger)
}

// RunProfitConsumer drains underwater events and logs the best liquidation
// found for each, including the swap route for the eventual execution.
func (s *Service) RunProfitConsumer(ctx context.Context, events <-chan messages.UnderwaterEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.evaluateCandidate(ctx, ev)
		}
	}
}

func (s *Service) evaluateCandidate(ctx context.Context, ev messages.UnderwaterEvent) {
	log := s.logger.With().Str("trace_id", ev.TraceID).Str("user", ev.Address.Hex()).Logger()

	positions, err := s.reader.Positions(ctx, ev.Address)
	if err != nil {
		log.Warn().Err(err).Msg("position read failed for underwater account")
		return
	}

	best := s.calc.BestPair(ctx, ev.Address, positions, ev.AccountData.HealthFactor, ev.TraceID)
	if best == nil {
		log.Info().Msg("no profitable pair for underwater account")
		return
	}

	tier := profit.BestSwapFeeTier(ctx, s.reader, best.CollateralAsset, best.DebtAsset, best.DebtAmount, s.logger)
	event := log.Info().
		Str("debt", best.DebtSymbol).
		Str("collateral", best.CollateralSymbol).
		Str("net_profit_usd", best.Printable())
	if tier != nil {
		event = event.Uint32("swap_fee_tier", tier.FeeTier).Str("swap_pool", tier.Pool.Hex())
	}
	event.Msg("liquidation opportunity")
}
