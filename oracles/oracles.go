// Package oracles maps the protocol's price-feed contracts to the
// aggregator at the root of each feed's adapter hierarchy. Feeds come in a
// handful of adapter shapes; each shape exposes its upstream aggregator
// through a different accessor, so resolution is a category lookup plus
// one dispatch.
package oracles

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Category identifies the adapter shape of a price feed.
type Category int

const (
	// EACProxy feeds are plain aggregator proxies; the feed address is
	// already the root.
	EACProxy Category = iota

	// StableCapAdapter feeds cap a stablecoin's price and wrap an
	// asset-to-USD aggregator.
	StableCapAdapter

	// CapAdapter feeds cap a correlated asset (wstETH, rETH, cbETH and
	// kin) and wrap a base-to-USD aggregator.
	CapAdapter

	// PegAdapter feeds chain an asset-to-peg aggregator with a
	// peg-to-base one; the asset-to-peg leg is the root that transmits.
	PegAdapter

	// YieldAdapter feeds price a yield-bearing wrapper off its
	// underlying's USD aggregator.
	YieldAdapter

	// Passthrough feeds have no upstream to resolve; the protocol reads
	// them directly.
	Passthrough
)

func (c Category) String() string {
	switch c {
	case EACProxy:
		return "eac-proxy"
	case StableCapAdapter:
		return "stable-cap-adapter"
	case CapAdapter:
		return "cap-adapter"
	case PegAdapter:
		return "peg-adapter"
	case YieldAdapter:
		return "yield-adapter"
	case Passthrough:
		return "passthrough"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// AdapterReader reads an adapter contract's upstream aggregator. Each
// method corresponds to one adapter shape's accessor.
type AdapterReader interface {
	AssetToUSDAggregator(ctx context.Context, adapter common.Address) (common.Address, error)
	BaseToUSDAggregator(ctx context.Context, adapter common.Address) (common.Address, error)
	AssetToPegAggregator(ctx context.Context, adapter common.Address) (common.Address, error)
	UnderlyingToUSDAggregator(ctx context.Context, adapter common.Address) (common.Address, error)
}

// Table maps feed addresses to their adapter category. The table is a
// living structure: onboarding a new reserve means adding its feed here.
type Table map[common.Address]Category

// Resolve returns the root aggregator behind the given feed. Unknown
// feeds are an error; the caller cannot guess an adapter shape.
func (t Table) Resolve(ctx context.Context, reader AdapterReader, feed common.Address) (common.Address, error) {
	category, ok := t[feed]
	if !ok {
		return common.Address{}, fmt.Errorf("oracles: feed %s matches no known category", feed.Hex())
	}
	switch category {
	case EACProxy, Passthrough:
		return feed, nil
	case StableCapAdapter:
		return reader.AssetToUSDAggregator(ctx, feed)
	case CapAdapter:
		return reader.BaseToUSDAggregator(ctx, feed)
	case PegAdapter:
		return reader.AssetToPegAggregator(ctx, feed)
	case YieldAdapter:
		return reader.UnderlyingToUSDAggregator(ctx, feed)
	default:
		return common.Address{}, fmt.Errorf("oracles: feed %s has unhandled category %s", feed.Hex(), category)
	}
}

// ResolveRoots rewrites a feed-to-assets table so it is keyed by each
// feed's root aggregator, the address a pending price transmission is
// actually sent to. Feeds sharing a root have their asset lists merged.
func (t Table) ResolveRoots(ctx context.Context, reader AdapterReader, feeds map[common.Address][]common.Address) (map[common.Address][]common.Address, error) {
	out := make(map[common.Address][]common.Address, len(feeds))
	for feed, assets := range feeds {
		root, err := t.Resolve(ctx, reader, feed)
		if err != nil {
			return nil, err
		}
		out[root] = append(out[root], assets...)
	}
	return out, nil
}

// Category returns the category of a feed, if known.
func (t Table) Category(feed common.Address) (Category, bool) {
	category, ok := t[feed]
	return category, ok
}
