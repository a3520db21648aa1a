// Package worker implements the per-venue MarketWorker.
package worker

import (
	"context"
	"log/slog"

	"github.com/simrat12/Prediction-Engine/internal/cache"
	"github.com/simrat12/Prediction-Engine/internal/domain"
	"github.com/simrat12/Prediction-Engine/internal/strategy"
)

// Worker drains a single venue's event lane, projects each event into a
// partial MarketState, merges it into the cache, and fires a lossy
// change notification downstream.
type Worker struct {
	venue    domain.Venue
	cache    *cache.MarketCache
	notifyCh chan<- strategy.Notify
	logger   *slog.Logger
}

// New constructs a MarketWorker for one venue. notifyCh is the shared,
// bounded, try-send-drop notify queue feeding the strategy engine.
func New(venue domain.Venue, c *cache.MarketCache, notifyCh chan<- strategy.Notify, logger *slog.Logger) *Worker {
	return &Worker{
		venue:    venue,
		cache:    c,
		notifyCh: notifyCh,
		logger:   logger.With(slog.String("component", "market_worker"), slog.String("venue", string(venue))),
	}
}

// Run drains lane until it closes or ctx is cancelled.
func (w *Worker) Run(ctx context.Context, lane <-chan domain.MarketEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-lane:
			if !ok {
				w.logger.Info("lane closed, market worker shutting down")
				return nil
			}
			w.apply(ev)
		}
	}
}

func (w *Worker) apply(ev domain.MarketEvent) {
	key := domain.MarketKey{Venue: ev.Venue, TokenID: ev.TokenID}

	update := domain.MarketState{
		BestBid:   ev.BestBid,
		BestAsk:   ev.BestAsk,
		Volume24h: ev.Volume24h,
	}
	w.cache.UpsertPartial(key, update)

	// Non-blocking forward: strategy is lossy on updates, never lossy
	// on data. A full notify queue means the engine is behind; the
	// next applied event will re-notify.
	select {
	case w.notifyCh <- strategy.Notify{Key: key, ReceivedAt: ev.ReceivedAt}:
	default:
		w.logger.Debug("notify queue full, dropping notification", slog.Any("key", key))
	}
}
