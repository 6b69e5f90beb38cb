package profit

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
)

// ErrPoolNotFound reports that no pool exists for a token pair at a fee
// tier. Tier enumeration treats it as a skip.
var ErrPoolNotFound = errors.New("swap pool does not exist")

// FeeTiers is the canonical set of pool fee tiers, in hundredths of a
// basis point, ascending. Iteration order doubles as the tie-break rule.
var FeeTiers = []uint32{100, 500, 3000, 10000}

// SwapQuote is one pool's answer to "how much tokenIn buys this much
// tokenOut".
type SwapQuote struct {
	Pool     common.Address
	AmountIn *big.Int
}

// SwapQuoteReader quotes the tokenIn required to receive amountOut of
// tokenOut through the pool at the given fee tier. Returns ErrPoolNotFound
// when the pair has no pool at that tier.
type SwapQuoteReader interface {
	QuoteExactOutput(ctx context.Context, tokenIn, tokenOut common.Address, feeTier uint32, amountOut *big.Int) (SwapQuote, error)
}

// TierQuote is the winning tier of a BestSwapFeeTier enumeration.
type TierQuote struct {
	FeeTier  uint32
	Pool     common.Address
	AmountIn *big.Int
}

// BestSwapFeeTier quotes every canonical fee tier and returns the one
// requiring the least input for the desired output, or nil when no tier
// has a usable pool. Missing pools and per-tier transport failures are
// skipped. Ties keep the lowest tier, since tiers are checked ascending.
func BestSwapFeeTier(ctx context.Context, quoter SwapQuoteReader, tokenIn, tokenOut common.Address, amountOut *big.Int, logger zerolog.Logger) *TierQuote {
	log := logger.With().
		Str("component", "profit").
		Str("token_in", tokenIn.Hex()).
		Str("token_out", tokenOut.Hex()).
		Logger()

	var best *TierQuote
	for _, tier := range FeeTiers {
		quote, err := quoter.QuoteExactOutput(ctx, tokenIn, tokenOut, tier, amountOut)
		if err != nil {
			if !errors.Is(err, ErrPoolNotFound) {
				log.Warn().Uint32("fee_tier", tier).Err(err).Msg("swap quote failed")
			}
			continue
		}
		if best == nil || quote.AmountIn.Cmp(best.AmountIn) < 0 {
			best = &TierQuote{FeeTier: tier, Pool: quote.Pool, AmountIn: quote.AmountIn}
		}
	}
	return best
}
