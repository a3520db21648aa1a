package domain

// MarketState is the latest known top-of-book snapshot for a MarketKey.
// Fields are pointers so that "absent" and "zero" are distinguishable —
// the cache's upsert never overwrites a present field with an absent
// one.
type MarketState struct {
	BestBid   *float64
	BestAsk   *float64
	Volume24h *float64
}

// Merge overwrites only the fields present (non-nil) in update, leaving
// the receiver's existing fields untouched where update has nothing to
// say. Merge never mutates update.
func (s MarketState) Merge(update MarketState) MarketState {
	merged := s
	if update.BestBid != nil {
		merged.BestBid = update.BestBid
	}
	if update.BestAsk != nil {
		merged.BestAsk = update.BestAsk
	}
	if update.Volume24h != nil {
		merged.Volume24h = update.Volume24h
	}
	return merged
}
