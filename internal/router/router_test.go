package router

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/simrat12/Prediction-Engine/internal/cache"
	"github.com/simrat12/Prediction-Engine/internal/domain"
	"github.com/simrat12/Prediction-Engine/internal/strategy"
)

func ptr(v float64) *float64 { return &v }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRouterSpawnsOneWorkerPerVenueAndForwardsEvents(t *testing.T) {
	c := cache.New()
	notifyCh := make(chan strategy.Notify, 4)
	r := New(c, notifyCh, discardLogger())

	ingestCh := make(chan domain.MarketEvent, 4)
	ingestCh <- domain.MarketEvent{Venue: domain.VenuePolymarket, TokenID: "tok-1", BestBid: ptr(0.3)}
	ingestCh <- domain.MarketEvent{Venue: domain.VenuePolymarket, TokenID: "tok-2", BestBid: ptr(0.6)}
	close(ingestCh)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.Run(gctx, g, ingestCh) })

	if err := g.Wait(); err != nil {
		t.Fatalf("router/worker group returned error: %v", err)
	}

	if _, ok := c.Get(domain.MarketKey{Venue: domain.VenuePolymarket, TokenID: "tok-1"}); !ok {
		t.Error("expected tok-1 to reach the cache via the spawned worker")
	}
	if _, ok := c.Get(domain.MarketKey{Venue: domain.VenuePolymarket, TokenID: "tok-2"}); !ok {
		t.Error("expected tok-2 to reach the cache via the spawned worker")
	}
}

func TestRouterShutsDownCleanlyOnContextCancel(t *testing.T) {
	c := cache.New()
	notifyCh := make(chan strategy.Notify, 1)
	r := New(c, notifyCh, discardLogger())

	ingestCh := make(chan domain.MarketEvent)

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.Run(gctx, g, ingestCh) })

	cancel()

	if err := g.Wait(); err == nil {
		t.Error("expected context.Canceled propagated from Run")
	}
}
