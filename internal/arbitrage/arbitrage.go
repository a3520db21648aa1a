// Package arbitrage implements the canonical cross-outcome arbitrage
// strategy for binary prediction markets.
//
// Sell arb: yes_bid + no_bid > 1.0 — sell both outcomes for a
// guaranteed profit.
// Buy arb: yes_ask + no_ask < 1.0 — buy both outcomes for a guaranteed
// profit.
package arbitrage

import (
	"time"

	"github.com/simrat12/Prediction-Engine/internal/domain"
	"github.com/simrat12/Prediction-Engine/internal/strategy"
)

// Strategy detects intra-market two-sided arbitrage on binary outcome
// markets. It is the reference strategy named in the spec.
type Strategy struct {
	minEdge     float64
	defaultSize float64
}

// New constructs an ArbitrageStrategy with the given minimum edge
// (fraction, e.g. 0.01 = 1%) and default per-leg size.
func New(minEdge, defaultSize float64) *Strategy {
	return &Strategy{minEdge: minEdge, defaultSize: defaultSize}
}

// Name identifies this strategy in signals, metrics, and logs.
func (s *Strategy) Name() string { return "arbitrage" }

// Evaluate implements strategy.Strategy. It resolves the market the
// updated token belongs to, reads both the yes and no token states from
// the cache, and emits a sell-arb or buy-arb signal when either clears
// the minimum edge. Sell-arb takes precedence when both would fire.
func (s *Strategy) Evaluate(ctx strategy.EvalContext) *domain.TradeSignal {
	tokenID := ctx.UpdatedKey.TokenID
	venue := ctx.UpdatedKey.Venue

	marketID, ok := ctx.TokenToMkt[tokenID]
	if !ok {
		return nil
	}
	info, ok := ctx.MarketMap[marketID]
	if !ok {
		return nil
	}

	yesKey := domain.MarketKey{Venue: venue, TokenID: info.YesTokenID}
	noKey := domain.MarketKey{Venue: venue, TokenID: info.NoTokenID}

	yesState, ok := ctx.Cache.Get(yesKey)
	if !ok {
		return nil
	}
	noState, ok := ctx.Cache.Get(noKey)
	if !ok {
		return nil
	}

	if yesState.BestBid == nil || noState.BestBid == nil || yesState.BestAsk == nil || noState.BestAsk == nil {
		return nil
	}

	yesBid, noBid := *yesState.BestBid, *noState.BestBid
	yesAsk, noAsk := *yesState.BestAsk, *noState.BestAsk

	now := time.Now()

	if sellEdge := yesBid + noBid - 1.0; sellEdge >= s.minEdge {
		return &domain.TradeSignal{
			StrategyName: s.Name(),
			Venue:        venue,
			MarketID:     marketID,
			Legs: []domain.SignalLeg{
				{TokenID: info.YesTokenID, Side: domain.SideSell, Price: yesBid, Size: s.defaultSize},
				{TokenID: info.NoTokenID, Side: domain.SideSell, Price: noBid, Size: s.defaultSize},
			},
			NegRisk:      info.NegRisk,
			Edge:         sellEdge,
			GeneratedAt:  now,
			WSReceivedAt: ctx.WSReceivedAt,
		}
	}

	if buyEdge := 1.0 - (yesAsk + noAsk); buyEdge >= s.minEdge {
		return &domain.TradeSignal{
			StrategyName: s.Name(),
			Venue:        venue,
			MarketID:     marketID,
			Legs: []domain.SignalLeg{
				{TokenID: info.YesTokenID, Side: domain.SideBuy, Price: yesAsk, Size: s.defaultSize},
				{TokenID: info.NoTokenID, Side: domain.SideBuy, Price: noAsk, Size: s.defaultSize},
			},
			NegRisk:      info.NegRisk,
			Edge:         buyEdge,
			GeneratedAt:  now,
			WSReceivedAt: ctx.WSReceivedAt,
		}
	}

	return nil
}
