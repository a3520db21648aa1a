package adapter

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/simrat12/Prediction-Engine/internal/domain"
	"github.com/simrat12/Prediction-Engine/internal/metrics"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeDriver is a minimal, hand-written Driver fake: no mocking framework,
// matching the style of the rest of this codebase's tests.
type fakeDriver struct {
	mu       sync.Mutex
	catalog  []CatalogMarket
	prices   map[string]float64
	streamCh chan []PriceChangeMsg

	subscribeCalls int
	subscribeErr   error
}

func (f *fakeDriver) FetchCatalog(ctx context.Context) ([]CatalogMarket, error) {
	return f.catalog, nil
}

func (f *fakeDriver) GetPrice(ctx context.Context, tokenID string, side string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prices[tokenID+side], nil
}

func (f *fakeDriver) Subscribe(ctx context.Context, tokenIDs []string) (<-chan []PriceChangeMsg, error) {
	f.mu.Lock()
	f.subscribeCalls++
	err := f.subscribeErr
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return f.streamCh, nil
}

func TestAdapterStartDiscoversEligibleMarkets(t *testing.T) {
	driver := &fakeDriver{
		catalog: []CatalogMarket{validMarket()},
		prices:  map[string]float64{},
	}
	a := New(domain.VenuePolymarket, driver, metrics.New(), discardLogger())

	h, err := a.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(h.MarketMap) != 1 {
		t.Fatalf("got %d markets, want 1", len(h.MarketMap))
	}
	if len(h.TokenToMarket) != 2 {
		t.Fatalf("got %d tokens, want 2", len(h.TokenToMarket))
	}
}

func TestAdapterWarmUpEmitsHeartbeatEvents(t *testing.T) {
	driver := &fakeDriver{
		prices: map[string]float64{
			"yes-tokBUY":  0.45,
			"yes-tokSELL": 0.47,
			"no-tokBUY":   0.52,
			"no-tokSELL":  0.55,
		},
	}
	h := Handle{
		TokenToMarket: domain.TokenToMarket{"yes-tok": "mkt-1", "no-tok": "mkt-1"},
	}
	a := New(domain.VenuePolymarket, driver, metrics.New(), discardLogger())

	ingestCh := make(chan domain.MarketEvent, 4)
	if err := a.warmUp(context.Background(), h, ingestCh); err != nil {
		t.Fatalf("warmUp: %v", err)
	}
	close(ingestCh)

	count := 0
	for ev := range ingestCh {
		if ev.Kind != domain.MarketEventHeartbeat {
			t.Errorf("event kind = %v, want Heartbeat", ev.Kind)
		}
		count++
	}
	if count != 2 {
		t.Errorf("got %d heartbeat events, want 2", count)
	}
}

func TestAdapterStartPropagatesCatalogFetchError(t *testing.T) {
	driver := &failingCatalogDriver{}
	a := New(domain.VenuePolymarket, driver, metrics.New(), discardLogger())

	if _, err := a.Start(context.Background()); err == nil {
		t.Error("expected catalog fetch failure to surface from Start")
	}
}

type failingCatalogDriver struct{}

func (failingCatalogDriver) FetchCatalog(ctx context.Context) ([]CatalogMarket, error) {
	return nil, errCatalogBoom
}
func (failingCatalogDriver) GetPrice(ctx context.Context, tokenID, side string) (float64, error) {
	return 0, nil
}
func (failingCatalogDriver) Subscribe(ctx context.Context, tokenIDs []string) (<-chan []PriceChangeMsg, error) {
	return nil, nil
}

var errCatalogBoom = &boomError{"catalog fetch boom"}

type boomError struct{ msg string }

func (e *boomError) Error() string { return e.msg }

func TestAdapterRunReturnsOnContextCancel(t *testing.T) {
	driver := &fakeDriver{streamCh: make(chan []PriceChangeMsg)}
	a := New(domain.VenuePolymarket, driver, metrics.New(), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	ingestCh := make(chan domain.MarketEvent, 1)

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx, Handle{}, ingestCh) }()

	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected non-nil error (context cancellation) from Run")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
