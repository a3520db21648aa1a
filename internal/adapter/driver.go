// Package adapter implements the venue-agnostic VenueAdapter: startup
// catalog discovery, bounded-concurrency REST warm-up, and the live
// subscription reconnect/backoff state machine. A concrete venue speaks
// through the Driver interface; internal/adapter/polymarket provides one.
package adapter

import (
	"context"
	"time"
)

// CatalogMarket is one entry from a venue's market catalog, carrying
// exactly the fields the eligibility predicate and MarketInfo need.
type CatalogMarket struct {
	ID            string
	Question      string
	Active        bool
	Closed        bool
	Archived      bool
	ClobTokenIDs  []string // exactly 2 when well-formed
	OutcomePrices []string // numeric strings, same cardinality as ClobTokenIDs
	Volume24hr    float64
	Liquidity     float64
	NegRisk       bool
}

// PriceChangeMsg is one leg update from a venue's WS price-change
// payload: an asset id, the side that moved, and the new price.
// ExchangeTime is the venue's own timestamp for the change, used to
// compute adapter_event_latency_ms; it is the zero Time when a driver
// cannot supply one.
type PriceChangeMsg struct {
	AssetID      string
	Side         string // "BUY" or "SELL"
	Price        float64
	ExchangeTime time.Time
}

// Driver is required of every venue implementation (spec §6.2).
type Driver interface {
	// FetchCatalog returns the venue's full market catalog in one call.
	FetchCatalog(ctx context.Context) ([]CatalogMarket, error)

	// GetPrice fetches the current top-of-book price for one token and
	// side via REST.
	GetPrice(ctx context.Context, tokenID string, side string) (float64, error)

	// Subscribe opens (or reopens) a streaming WS subscription to the
	// given token ids. It returns a channel of price-change batches and
	// blocks until the initial handshake succeeds or ctx is cancelled.
	// The returned channel is closed when the stream ends, by error or
	// otherwise; the caller reconnects by calling Subscribe again.
	Subscribe(ctx context.Context, tokenIDs []string) (<-chan []PriceChangeMsg, error)
}
