// Package router demultiplexes the single ingest queue into per-venue
// lanes, spawning a MarketWorker on first sight of each venue.
package router

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/simrat12/Prediction-Engine/internal/cache"
	"github.com/simrat12/Prediction-Engine/internal/domain"
	"github.com/simrat12/Prediction-Engine/internal/strategy"
	"github.com/simrat12/Prediction-Engine/internal/worker"
)

const laneCapacity = 1024

// Router owns the Venue -> lane mapping. It is a single task; the map
// needs no lock because only Run's goroutine ever touches it.
type Router struct {
	cache    *cache.MarketCache
	notifyCh chan<- strategy.Notify
	logger   *slog.Logger

	lanes map[domain.Venue]chan domain.MarketEvent
}

// New constructs a Router.
func New(c *cache.MarketCache, notifyCh chan<- strategy.Notify, logger *slog.Logger) *Router {
	return &Router{
		cache:    c,
		notifyCh: notifyCh,
		logger:   logger.With(slog.String("component", "router")),
		lanes:    make(map[domain.Venue]chan domain.MarketEvent),
	}
}

// Run drains ingestCh, routing each event to its venue's lane, spawning
// a MarketWorker under g the first time a venue is observed. Run
// returns when ingestCh closes or ctx is cancelled; all spawned workers
// are tracked by g and awaited by the caller.
func (r *Router) Run(ctx context.Context, g *errgroup.Group, ingestCh <-chan domain.MarketEvent) error {
	for {
		select {
		case <-ctx.Done():
			r.closeLanes()
			return ctx.Err()
		case ev, ok := <-ingestCh:
			if !ok {
				r.logger.Info("ingest queue closed, router shutting down")
				r.closeLanes()
				return nil
			}

			lane, exists := r.lanes[ev.Venue]
			if !exists {
				lane = make(chan domain.MarketEvent, laneCapacity)
				r.lanes[ev.Venue] = lane

				w := worker.New(ev.Venue, r.cache, r.notifyCh, r.logger)
				g.Go(func() error {
					return w.Run(ctx, lane)
				})
			}

			select {
			case lane <- ev:
			case <-ctx.Done():
				r.closeLanes()
				return ctx.Err()
			}
		}
	}
}

func (r *Router) closeLanes() {
	for venue, lane := range r.lanes {
		close(lane)
		delete(r.lanes, venue)
	}
}
