package domain

import "time"

// MarketEventKind distinguishes the payload carried by a MarketEvent.
type MarketEventKind string

const (
	// MarketEventHeartbeat carries a REST-seeded warm-up snapshot rather
	// than a live diff.
	MarketEventHeartbeat MarketEventKind = "heartbeat"
	// MarketEventPriceChange carries a live top-of-book update.
	MarketEventPriceChange MarketEventKind = "price_change"
)

// MarketEvent is the unit the adapter emits onto the ingest queue. It is
// immutable once constructed and is discarded once a MarketWorker has
// applied it to the cache.
type MarketEvent struct {
	Venue     Venue
	TokenID   string
	MarketID  string
	Kind      MarketEventKind

	// Optional fields; only those actually observed are set. Consumers
	// treat an unset field as "no information", never as zero.
	BestBid        *float64
	BestAsk        *float64
	Volume24h      *float64
	LastTradePrice *float64
	Liquidity      *float64

	ExchangeTime time.Time // wall clock, diagnostics only
	ReceivedAt   time.Time // monotonic-ish receive instant, used for latency
}
