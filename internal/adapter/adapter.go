package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/simrat12/Prediction-Engine/internal/domain"
	"github.com/simrat12/Prediction-Engine/internal/metrics"
)

const warmUpFanOut = 10

// Handle is returned by Start: the immutable lookup tables. It carries
// no handle on the background ingest task; that work runs inside Run,
// which blocks until it finishes.
type Handle struct {
	MarketMap     domain.MarketMap
	TokenToMarket domain.TokenToMarket
}

// Adapter is the venue-agnostic core described by spec §4.1. It drives
// a Driver through catalog discovery, warm-up, and a WS reconnect state
// machine, emitting MarketEvents onto ingestCh.
type Adapter struct {
	venue   domain.Venue
	driver  Driver
	metrics *metrics.Facade
	logger  *slog.Logger

	priceChanges  atomic.Int64
	unknownAssets atomic.Int64
}

// New constructs an Adapter for one venue/driver pair.
func New(venue domain.Venue, driver Driver, m *metrics.Facade, logger *slog.Logger) *Adapter {
	return &Adapter{
		venue:   venue,
		driver:  driver,
		metrics: m,
		logger:  logger.With(slog.String("component", "venue_adapter"), slog.String("venue", string(venue))),
	}
}

// Start performs catalog discovery and returns the immutable lookup
// tables. The caller then calls Run to begin warm-up and live
// streaming. A catalog fetch failure is startup-fatal.
func (a *Adapter) Start(ctx context.Context) (Handle, error) {
	catalog, err := a.driver.FetchCatalog(ctx)
	if err != nil {
		return Handle{}, fmt.Errorf("adapter: fetch catalog: %w: %v", domain.ErrCatalogFetch, err)
	}

	marketMap, tokenToMarket := buildLookups(catalog)
	a.logger.Info("catalog discovered",
		slog.Int("total", len(catalog)),
		slog.Int("eligible_markets", len(marketMap)),
		slog.Int("eligible_tokens", len(tokenToMarket)),
	)

	return Handle{MarketMap: marketMap, TokenToMarket: tokenToMarket}, nil
}

// Run fans out the warm-up REST fetches and drives the live WS
// reconnect state machine concurrently, emitting MarketEvents onto
// ingestCh with a blocking send. Run returns when the state machine
// reaches GaveUp, ctx is cancelled, or the ingest receiver has gone
// away (send fails because ctx is done).
func (a *Adapter) Run(ctx context.Context, h Handle, ingestCh chan<- domain.MarketEvent) error {
	var wg sync.WaitGroup
	wg.Add(2)

	var warmUpErr error
	go func() {
		defer wg.Done()
		warmUpErr = a.warmUp(ctx, h, ingestCh)
	}()

	var streamErr error
	go func() {
		defer wg.Done()
		streamErr = a.runSubscription(ctx, h, ingestCh)
	}()

	stop := a.heartbeatLoop(ctx)
	wg.Wait()
	stop()

	if streamErr != nil {
		return streamErr
	}
	return warmUpErr
}

// warmUp fetches current top-of-book for every eligible token with
// bounded concurrency (fan-out limit = 10 in flight). Each successful
// fetch becomes a Heartbeat event. Fetch failures are logged but never
// abort the adapter.
func (a *Adapter) warmUp(ctx context.Context, h Handle, ingestCh chan<- domain.MarketEvent) error {
	sem := make(chan struct{}, warmUpFanOut)
	var wg sync.WaitGroup

	for tokenID, marketID := range h.TokenToMarket {
		tokenID, marketID := tokenID, marketID

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			a.warmUpToken(ctx, marketID, tokenID, ingestCh)
		}()
	}

	wg.Wait()
	return nil
}

func (a *Adapter) warmUpToken(ctx context.Context, marketID, tokenID string, ingestCh chan<- domain.MarketEvent) {
	bid, errBid := a.driver.GetPrice(ctx, tokenID, "BUY")
	ask, errAsk := a.driver.GetPrice(ctx, tokenID, "SELL")

	if errBid != nil && errAsk != nil {
		a.logger.Warn("warm-up price fetch failed", slog.String("token_id", tokenID), slog.Any("bid_err", errBid), slog.Any("ask_err", errAsk))
		return
	}

	ev := domain.MarketEvent{
		Venue:      a.venue,
		TokenID:    tokenID,
		MarketID:   marketID,
		Kind:       domain.MarketEventHeartbeat,
		ReceivedAt: time.Now(),
	}
	if errBid == nil {
		ev.BestBid = &bid
	}
	if errAsk == nil {
		ev.BestAsk = &ask
	}

	a.emit(ctx, ingestCh, ev)
	a.metrics.AdapterEventsTotal.WithLabelValues(string(a.venue), string(domain.MarketEventHeartbeat)).Inc()
}

// emit performs the bounded, blocking send to the ingest queue. If the
// downstream receiver has gone away (ctx cancelled), the adapter exits
// cleanly rather than leaking the goroutine.
func (a *Adapter) emit(ctx context.Context, ingestCh chan<- domain.MarketEvent, ev domain.MarketEvent) {
	select {
	case ingestCh <- ev:
	case <-ctx.Done():
	}
}

// heartbeatLoop flushes price_changes/unknown summary counters to the
// log every 30s, returning a stop function.
func (a *Adapter) heartbeatLoop(ctx context.Context) func() {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.logger.Info("heartbeat summary",
					slog.Int64("price_changes", a.priceChanges.Load()),
					slog.Int64("unknown", a.unknownAssets.Load()),
				)
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
