package adapter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/simrat12/Prediction-Engine/internal/domain"
	"github.com/simrat12/Prediction-Engine/internal/metrics"
)

// flakyDriver fails Subscribe a fixed number of times before succeeding,
// handing back a stream that blocks (simulating a live connection) so
// runSubscription stays Subscribed until ctx is cancelled.
type flakyDriver struct {
	mu         sync.Mutex
	failUntil  int
	calls      int
	streamCh   chan []PriceChangeMsg
	alwaysFail bool
}

func (f *flakyDriver) FetchCatalog(ctx context.Context) ([]CatalogMarket, error) { return nil, nil }
func (f *flakyDriver) GetPrice(ctx context.Context, tokenID, side string) (float64, error) {
	return 0, nil
}

func (f *flakyDriver) Subscribe(ctx context.Context, tokenIDs []string) (<-chan []PriceChangeMsg, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.alwaysFail || f.calls <= f.failUntil {
		return nil, errors.New("dial failed")
	}
	return f.streamCh, nil
}

// withFastBackoff swaps the package's reconnect backoff for a near-zero
// wait for the duration of a test, restoring it on cleanup.
func withFastBackoff(t *testing.T) {
	t.Helper()
	prev := backoffDuration
	backoffDuration = func(attempt int) time.Duration { return time.Millisecond }
	t.Cleanup(func() { backoffDuration = prev })
}

func TestRunSubscriptionReconnectsAfterTransientFailures(t *testing.T) {
	withFastBackoff(t)

	driver := &flakyDriver{failUntil: 2, streamCh: make(chan []PriceChangeMsg)}
	a := New(domain.VenuePolymarket, driver, metrics.New(), discardLogger())
	h := Handle{TokenToMarket: domain.TokenToMarket{"tok-1": "mkt-1"}}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ingestCh := make(chan domain.MarketEvent, 1)
	done := make(chan error, 1)
	go func() { done <- a.runSubscription(ctx, h, ingestCh) }()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected context error once the deadline is reached")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("runSubscription did not return after its context deadline")
	}

	driver.mu.Lock()
	calls := driver.calls
	driver.mu.Unlock()
	if calls < 3 {
		t.Errorf("expected at least 3 Subscribe calls (2 failures + 1 success), got %d", calls)
	}
}

// closeThenFailDriver succeeds once, handing back a stream that is
// already closed (an instant disconnect), then fails every subsequent
// Subscribe call. It lets a test observe the backoff attempt number
// used for the very first reconnect after a clean stream closure.
type closeThenFailDriver struct {
	mu    sync.Mutex
	calls int
}

func (d *closeThenFailDriver) FetchCatalog(ctx context.Context) ([]CatalogMarket, error) {
	return nil, nil
}
func (d *closeThenFailDriver) GetPrice(ctx context.Context, tokenID, side string) (float64, error) {
	return 0, nil
}

func (d *closeThenFailDriver) Subscribe(ctx context.Context, tokenIDs []string) (<-chan []PriceChangeMsg, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.calls == 1 {
		ch := make(chan []PriceChangeMsg)
		close(ch)
		return ch, nil
	}
	return nil, errors.New("dial failed")
}

func TestRunSubscriptionUsesAttemptOneBackoffAfterStreamCloses(t *testing.T) {
	var mu sync.Mutex
	var observedAttempts []int

	prev := backoffDuration
	backoffDuration = func(attempt int) time.Duration {
		mu.Lock()
		observedAttempts = append(observedAttempts, attempt)
		mu.Unlock()
		return time.Millisecond
	}
	t.Cleanup(func() { backoffDuration = prev })

	driver := &closeThenFailDriver{}
	a := New(domain.VenuePolymarket, driver, metrics.New(), discardLogger())
	h := Handle{TokenToMarket: domain.TokenToMarket{"tok-1": "mkt-1"}}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_ = a.runSubscription(ctx, h, make(chan domain.MarketEvent, 1))

	mu.Lock()
	defer mu.Unlock()
	if len(observedAttempts) == 0 {
		t.Fatal("expected at least one backoff observation after the stream closed and reconnect failed")
	}
	if observedAttempts[0] != 1 {
		t.Errorf("first post-closure backoff attempt = %d, want 1 (backoffDuration(1) = 500ms, the spec-correct first retry)", observedAttempts[0])
	}
}

func TestRunSubscriptionGivesUpAfterMaxAttempts(t *testing.T) {
	withFastBackoff(t)

	driver := &flakyDriver{alwaysFail: true}
	a := New(domain.VenuePolymarket, driver, metrics.New(), discardLogger())
	h := Handle{TokenToMarket: domain.TokenToMarket{"tok-1": "mkt-1"}}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := a.runSubscription(ctx, h, make(chan domain.MarketEvent, 1))

	if !errors.Is(err, domain.ErrGaveUp) {
		t.Errorf("runSubscription() = %v, want ErrGaveUp", err)
	}
	if driver.calls != maxReconnectAttempts {
		t.Errorf("got %d Subscribe calls, want exactly %d before giving up", driver.calls, maxReconnectAttempts)
	}
}
