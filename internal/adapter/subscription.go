package adapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/simrat12/Prediction-Engine/internal/domain"
)

// runSubscription drives the live subscription state machine:
// Connecting -> Subscribed -> (stream end) -> Connecting -> ... ->
// GaveUp. It returns ErrGaveUp once the reconnect attempt counter
// reaches maxReconnectAttempts without a successful connect.
func (a *Adapter) runSubscription(ctx context.Context, h Handle, ingestCh chan<- domain.MarketEvent) error {
	tokenIDs := make([]string, 0, len(h.TokenToMarket))
	for tokenID := range h.TokenToMarket {
		tokenIDs = append(tokenIDs, tokenID)
	}

	state := StateConnecting
	attempt := 0

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		switch state {
		case StateConnecting:
			attempt++
			stream, err := a.driver.Subscribe(ctx, tokenIDs)
			if err != nil {
				if attempt >= maxReconnectAttempts {
					state = StateGaveUp
					continue
				}
				// Past the halfway point of the retry budget the
				// connection is considered degraded rather than merely
				// retrying; this only affects the logged state label.
				logState := StateConnecting
				if attempt > maxReconnectAttempts/2 {
					logState = StateDegraded
				}
				wait := backoffDuration(attempt)
				a.logger.Warn("subscribe failed, retrying",
					slog.String("state", string(logState)),
					slog.Int("attempt", attempt), slog.Duration("backoff", wait), slog.Any("err", err))
				select {
				case <-time.After(wait):
				case <-ctx.Done():
					return ctx.Err()
				}
				continue
			}

			attempt = 0
			state = StateSubscribed
			a.logger.Info("subscribed", slog.Int("tokens", len(tokenIDs)))

			if err := a.drainStream(ctx, h, stream, ingestCh); err != nil {
				return err
			}
			// stream ended (closed); attempt is already 0 from the
			// successful connect above, so the next attempt++ at the top
			// of StateConnecting produces 1, matching a fresh reconnect.
			state = StateConnecting

		case StateGaveUp:
			a.logger.Error("websocket reconnect attempts exhausted, giving up")
			return domain.ErrGaveUp

		default:
			state = StateConnecting
		}
	}
}

// drainStream consumes price-change batches from the driver's stream
// channel, translating each into MarketEvents, until the stream closes
// or ctx is cancelled. It returns nil when the stream closes normally
// (the caller reconnects); it returns a non-nil error only on ctx
// cancellation.
func (a *Adapter) drainStream(ctx context.Context, h Handle, stream <-chan []PriceChangeMsg, ingestCh chan<- domain.MarketEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case batch, ok := <-stream:
			if !ok {
				a.logger.Warn("stream closed")
				return nil
			}
			a.translate(ctx, h, batch, ingestCh)
		}
	}
}

// translate implements the event-translation rule of spec §4.1: a
// payload's asset id resolves market_id via TokenToMarket; unknown
// asset ids are counted and dropped. best_bid comes from the Buy-side
// change, best_ask from the Sell-side change; either may be absent.
func (a *Adapter) translate(ctx context.Context, h Handle, batch []PriceChangeMsg, ingestCh chan<- domain.MarketEvent) {
	byToken := make(map[string]*domain.MarketEvent)

	for _, change := range batch {
		marketID, ok := h.TokenToMarket[change.AssetID]
		if !ok {
			a.unknownAssets.Inc()
			continue
		}

		ev, exists := byToken[change.AssetID]
		if !exists {
			ev = &domain.MarketEvent{
				Venue:      a.venue,
				TokenID:    change.AssetID,
				MarketID:   marketID,
				Kind:       domain.MarketEventPriceChange,
				ReceivedAt: time.Now(),
			}
			byToken[change.AssetID] = ev
		}

		price := change.Price
		switch change.Side {
		case "BUY":
			ev.BestBid = &price
		case "SELL":
			ev.BestAsk = &price
		}
		if !change.ExchangeTime.IsZero() {
			ev.ExchangeTime = change.ExchangeTime
		}
	}

	for _, ev := range byToken {
		a.priceChanges.Inc()
		a.emit(ctx, ingestCh, *ev)
		a.metrics.AdapterEventsTotal.WithLabelValues(string(a.venue), string(domain.MarketEventPriceChange)).Inc()
		if !ev.ExchangeTime.IsZero() {
			latencyMs := float64(ev.ReceivedAt.Sub(ev.ExchangeTime)) / float64(time.Millisecond)
			a.metrics.AdapterEventLatencyMs.WithLabelValues(string(a.venue), string(domain.MarketEventPriceChange)).Observe(latencyMs)
		}
	}
}
