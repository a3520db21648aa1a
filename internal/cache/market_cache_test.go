package cache

import (
	"sync"
	"testing"

	"github.com/simrat12/Prediction-Engine/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func TestMarketCacheUpsertPartialMergesFields(t *testing.T) {
	c := New()
	key := domain.MarketKey{Venue: domain.VenuePolymarket, TokenID: "tok-1"}

	c.UpsertPartial(key, domain.MarketState{BestBid: ptr(0.40), BestAsk: ptr(0.60)})
	c.UpsertPartial(key, domain.MarketState{BestBid: ptr(0.42)})

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected entry present")
	}
	if *got.BestBid != 0.42 {
		t.Errorf("BestBid = %v, want 0.42", *got.BestBid)
	}
	if *got.BestAsk != 0.60 {
		t.Errorf("BestAsk = %v, want unchanged 0.60", *got.BestAsk)
	}
}

func TestMarketCacheGetMissing(t *testing.T) {
	c := New()
	_, ok := c.Get(domain.MarketKey{Venue: domain.VenuePolymarket, TokenID: "nope"})
	if ok {
		t.Error("expected absent key to report not found")
	}
}

func TestMarketCacheScanByVenueFiltersVenue(t *testing.T) {
	c := New()
	c.UpsertPartial(domain.MarketKey{Venue: domain.VenuePolymarket, TokenID: "a"}, domain.MarketState{BestBid: ptr(0.1)})
	c.UpsertPartial(domain.MarketKey{Venue: domain.Venue("other"), TokenID: "b"}, domain.MarketState{BestBid: ptr(0.2)})

	got := c.ScanByVenue(domain.VenuePolymarket)
	if len(got) != 1 {
		t.Fatalf("ScanByVenue returned %d entries, want 1", len(got))
	}
	if got[0].Key.TokenID != "a" {
		t.Errorf("got token %q, want %q", got[0].Key.TokenID, "a")
	}
}

func TestMarketCacheConcurrentWritesDoNotRace(t *testing.T) {
	c := New()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := domain.MarketKey{Venue: domain.VenuePolymarket, TokenID: string(rune('a' + i%26))}
			c.UpsertPartial(key, domain.MarketState{BestBid: ptr(float64(i))})
		}()
	}
	wg.Wait()

	got := c.ScanByVenue(domain.VenuePolymarket)
	if len(got) == 0 {
		t.Error("expected some entries after concurrent writes")
	}
}
