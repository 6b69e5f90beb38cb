// Package reserveindex maintains the asset to borrowers/suppliers mapping
// used to narrow the set of accounts worth re-checking after a price moves.
// The index is rebuilt once from a full snapshot at startup and then kept
// current incrementally from protocol event notifications.
package reserveindex

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/keeper-labs/liquidation-engine/aave"
	"github.com/keeper-labs/liquidation-engine/messages"
)

// DefaultBucketSize bounds how many candidate addresses one scan worker
// processes sequentially.
const DefaultBucketSize = 64

type addressSet map[common.Address]struct{}

// Index maps each reserve to the users borrowing it and the users supplying
// it as enabled collateral. A user appears in borrowers iff their last
// observed variable debt on that reserve was nonzero, and in suppliers iff
// their collateral is nonzero and enabled. All access goes through the
// embedded lock; updates are destructive then additive so a user can never
// appear under a reserve their fresh positions no longer imply.
type Index struct {
	mu         sync.RWMutex
	borrowers  map[common.Address]addressSet
	suppliers  map[common.Address]addressSet
	bucketSize int
	logger     zerolog.Logger
}

// New returns an empty index. bucketSize values below one fall back to
// DefaultBucketSize.
func New(bucketSize int, logger zerolog.Logger) *Index {
	if bucketSize < 1 {
		bucketSize = DefaultBucketSize
	}
	return &Index{
		borrowers:  make(map[common.Address]addressSet),
		suppliers:  make(map[common.Address]addressSet),
		bucketSize: bucketSize,
		logger:     logger.With().Str("component", "reserveindex").Logger(),
	}
}

// RebuildFromSnapshot replaces the index contents with the state implied by
// a full positions snapshot. Used at service start.
func (ix *Index) RebuildFromSnapshot(positionsByUser map[common.Address][]aave.Position) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.borrowers = make(map[common.Address]addressSet)
	ix.suppliers = make(map[common.Address]addressSet)
	for user, positions := range positionsByUser {
		ix.insertLocked(user, positions)
	}
}

// ApplyUserUpdate atomically removes user from every borrower and supplier
// set, then re-inserts them into exactly the sets implied by fresh.
func (ix *Index) ApplyUserUpdate(user common.Address, fresh []aave.Position) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for _, set := range ix.borrowers {
		delete(set, user)
	}
	for _, set := range ix.suppliers {
		delete(set, user)
	}
	ix.insertLocked(user, fresh)
}

// insertLocked adds user to the sets implied by positions. Callers hold the
// write lock.
func (ix *Index) insertLocked(user common.Address, positions []aave.Position) {
	for _, pos := range positions {
		if pos.HasDebt() {
			set, ok := ix.borrowers[pos.Asset]
			if !ok {
				set = make(addressSet)
				ix.borrowers[pos.Asset] = set
			}
			set[user] = struct{}{}
		}
		if pos.CountsAsCollateral() {
			set, ok := ix.suppliers[pos.Asset]
			if !ok {
				set = make(addressSet)
				ix.suppliers[pos.Asset] = set
			}
			set[user] = struct{}{}
		}
	}
}

// ResolveCandidates unions the borrower and supplier sets of every affected
// asset, deduplicates, and partitions the result into buckets of at most
// bucketSize addresses. An asset with no index entry contributes no
// candidates. The result always contains at least one bucket; a single
// empty bucket means no work. Bucket contents are not ordered and the
// partitioning is not stable across calls.
func (ix *Index) ResolveCandidates(affectedAssets []common.Address) [][]common.Address {
	ix.mu.RLock()
	candidates := make(addressSet)
	for _, asset := range affectedAssets {
		for user := range ix.borrowers[asset] {
			candidates[user] = struct{}{}
		}
		for user := range ix.suppliers[asset] {
			candidates[user] = struct{}{}
		}
	}
	ix.mu.RUnlock()

	if len(candidates) == 0 {
		return [][]common.Address{{}}
	}

	buckets := make([][]common.Address, 0, len(candidates)/ix.bucketSize+1)
	bucket := make([]common.Address, 0, ix.bucketSize)
	for user := range candidates {
		bucket = append(bucket, user)
		if len(bucket) == ix.bucketSize {
			buckets = append(buckets, bucket)
			bucket = make([]common.Address, 0, ix.bucketSize)
		}
	}
	if len(bucket) > 0 {
		buckets = append(buckets, bucket)
	}
	return buckets
}

// HandleProtocolEvent refreshes the index entry for the user affected by a
// confirmed protocol event: the user is resolved from the event's
// positional arguments, their positions re-read, and the update applied.
// Event kinds that cannot change index membership are skipped without
// error.
func (ix *Index) HandleProtocolEvent(ctx context.Context, ev messages.ProtocolEvent, positions aave.PositionReader) error {
	user, err := ev.AffectedUser()
	if err != nil {
		ix.logger.Warn().
			Str("kind", string(ev.Kind)).
			Str("trace_id", ev.TraceID).
			Err(err).
			Msg("skipping event without resolvable user")
		return nil
	}

	fresh, err := positions.Positions(ctx, user)
	if err != nil {
		return err
	}

	ix.ApplyUserUpdate(user, fresh)
	ix.logger.Info().
		Str("user", user.Hex()).
		Str("kind", string(ev.Kind)).
		Uint64("block", ev.BlockNumber).
		Msg("index entry refreshed")
	return nil
}
