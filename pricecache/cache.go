// Package pricecache memoizes oracle price reads per analysis trace. Each
// trace owns an isolated price view, so a speculative price applied for one
// pending transaction never leaks into the evaluation of another. Traces
// are retired in FIFO creation order once the configured capacity is
// reached.
package pricecache

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/keeper-labs/liquidation-engine/aave"
	"github.com/keeper-labs/liquidation-engine/messages"
)

// Cache is safe for concurrent use. Oracle reads happen outside the lock;
// two goroutines racing to fill the same (trace, asset) slot both store a
// point-in-time oracle value, so last write wins harmlessly.
type Cache struct {
	mu         sync.Mutex
	capacity   int
	prices     map[string]map[common.Address]*big.Int
	order      []string
	overridden map[string]bool
	logger     zerolog.Logger
}

// New returns a cache retaining up to capacity live traces. A capacity of
// zero disables caching entirely: every Get reads through to the oracle.
func New(capacity int, logger zerolog.Logger) *Cache {
	return &Cache{
		capacity:   capacity,
		prices:     make(map[string]map[common.Address]*big.Int),
		overridden: make(map[string]bool),
		logger:     logger.With().Str("component", "pricecache").Logger(),
	}
}

// Get returns the price of asset under traceID, reading through the oracle
// on a miss and storing the result. An empty traceID bypasses the cache and
// always performs a fresh point-in-time read; bootstrap paths use this to
// see actual rather than speculative prices. Oracle failures are returned
// as-is and never cached.
func (c *Cache) Get(ctx context.Context, asset common.Address, traceID string, oracle aave.OracleReader) (*big.Int, error) {
	if traceID == "" || c.capacity == 0 {
		price, err := oracle.AssetPrice(ctx, asset)
		if err != nil {
			return nil, fmt.Errorf("fetching price for %s: %w", asset, err)
		}
		return price, nil
	}

	c.mu.Lock()
	if trace, ok := c.prices[traceID]; ok {
		if price, ok := trace[asset]; ok {
			c.mu.Unlock()
			return new(big.Int).Set(price), nil
		}
	}
	c.mu.Unlock()

	price, err := oracle.AssetPrice(ctx, asset)
	if err != nil {
		return nil, fmt.Errorf("fetching price for %s under trace %s: %w", asset, traceID, err)
	}

	c.mu.Lock()
	c.ensureTrace(traceID)[asset] = new(big.Int).Set(price)
	c.mu.Unlock()

	return price, nil
}

// Override replaces cached prices for a trace that has already produced at
// least one entry and marks the trace overridden. The marker makes the call
// idempotent: retries overlapping the first application return true without
// rewriting anything. An empty update list is a "no price change" signal
// and reports success. Overriding a trace with no prior entries reports
// false so the caller can tell the speculative view was not applied.
func (c *Cache) Override(traceID string, updates []messages.AssetPrice) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.overridden[traceID] {
		return true
	}
	if len(updates) == 0 {
		return true
	}

	trace, ok := c.prices[traceID]
	if !ok {
		c.logger.Warn().Str("trace_id", traceID).Msg("override requested for unknown trace")
		return false
	}

	for _, upd := range updates {
		trace[upd.Asset] = new(big.Int).Set(upd.Price)
		c.logger.Info().
			Str("trace_id", traceID).
			Str("symbol", upd.Symbol).
			Str("price", upd.Price.String()).
			Msg("price overridden")
	}
	c.overridden[traceID] = true
	return true
}

// TraceCount returns the number of live traces.
func (c *Cache) TraceCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// ensureTrace returns the price map for traceID, creating it and evicting
// the oldest trace if the cache is at capacity. Callers hold c.mu.
func (c *Cache) ensureTrace(traceID string) map[common.Address]*big.Int {
	if trace, ok := c.prices[traceID]; ok {
		return trace
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.prices, oldest)
		delete(c.overridden, oldest)
		c.logger.Debug().Str("trace_id", oldest).Msg("evicted oldest trace")
	}
	trace := make(map[common.Address]*big.Int)
	c.prices[traceID] = trace
	c.order = append(c.order, traceID)
	return trace
}
