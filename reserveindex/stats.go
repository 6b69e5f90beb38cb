package reserveindex

import "github.com/ethereum/go-ethereum/common"

// Stats summarizes index occupancy for startup logging.
type Stats struct {
	TotalEntries      int
	MostBorrowed      common.Address
	MostBorrowedCount int
	MostSupplied      common.Address
	MostSuppliedCount int
}

// Stats walks the index under the read lock and reports which reserves
// carry the largest borrower and supplier populations.
func (ix *Index) Stats() Stats {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var s Stats
	for asset, set := range ix.borrowers {
		s.TotalEntries += len(set)
		if len(set) > s.MostBorrowedCount {
			s.MostBorrowed = asset
			s.MostBorrowedCount = len(set)
		}
	}
	for asset, set := range ix.suppliers {
		s.TotalEntries += len(set)
		if len(set) > s.MostSuppliedCount {
			s.MostSupplied = asset
			s.MostSuppliedCount = len(set)
		}
	}
	return s
}
