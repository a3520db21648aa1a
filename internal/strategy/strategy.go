// Package strategy drives pluggable strategies against the market cache
// on every change notification.
package strategy

import (
	"time"

	"github.com/simrat12/Prediction-Engine/internal/cache"
	"github.com/simrat12/Prediction-Engine/internal/domain"
)

// EvalContext is what an evaluation exposes to a Strategy: the key and
// state that just changed, a read handle on the full cache, the
// immutable market metadata, and the propagated receive instant.
type EvalContext struct {
	UpdatedKey   domain.MarketKey
	UpdatedState domain.MarketState
	Cache        *cache.MarketCache
	MarketMap    domain.MarketMap
	TokenToMkt   domain.TokenToMarket
	WSReceivedAt time.Time
}

// Strategy is synchronous, side-effect-free, and infallible: it reads
// only from the snapshot exposed by ctx, never performs I/O, and
// returns nil when it finds no opportunity.
type Strategy interface {
	Name() string
	Evaluate(ctx EvalContext) *domain.TradeSignal
}
