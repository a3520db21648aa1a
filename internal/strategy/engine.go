package strategy

import (
	"context"
	"log/slog"
	"time"

	"github.com/simrat12/Prediction-Engine/internal/cache"
	"github.com/simrat12/Prediction-Engine/internal/domain"
	"github.com/simrat12/Prediction-Engine/internal/metrics"
)

// Notify is what a MarketWorker forwards on every cache update: the key
// that changed and the receive instant of the triggering event.
type Notify struct {
	Key        domain.MarketKey
	ReceivedAt time.Time
}

// Engine consumes cache-change notifications, runs every registered
// strategy against the updated state, and forwards resulting signals.
type Engine struct {
	registry   *Registry
	cache      *cache.MarketCache
	marketMap  domain.MarketMap
	tokenToMkt domain.TokenToMarket
	metrics    *metrics.Facade
	logger     *slog.Logger
}

// NewEngine builds a StrategyEngine.
func NewEngine(
	registry *Registry,
	c *cache.MarketCache,
	marketMap domain.MarketMap,
	tokenToMkt domain.TokenToMarket,
	m *metrics.Facade,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		registry:   registry,
		cache:      c,
		marketMap:  marketMap,
		tokenToMkt: tokenToMkt,
		metrics:    m,
		logger:     logger.With(slog.String("component", "strategy_engine")),
	}
}

// Run drains notifyCh, evaluates every registered strategy on each
// notification, and forwards resulting signals onto signalCh with a
// blocking send. Run returns when notifyCh closes or ctx is cancelled.
func (e *Engine) Run(ctx context.Context, notifyCh <-chan Notify, signalCh chan<- domain.TradeSignal) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n, ok := <-notifyCh:
			if !ok {
				e.logger.Info("notify channel closed, strategy engine shutting down")
				return nil
			}
			if err := e.handle(ctx, n, signalCh); err != nil {
				return err
			}
		}
	}
}

func (e *Engine) handle(ctx context.Context, n Notify, signalCh chan<- domain.TradeSignal) error {
	state, ok := e.cache.Get(n.Key)
	if !ok {
		e.logger.Debug("notification for missing cache key", slog.Any("key", n.Key))
		return nil
	}

	evalCtx := EvalContext{
		UpdatedKey:   n.Key,
		UpdatedState: state,
		Cache:        e.cache,
		MarketMap:    e.marketMap,
		TokenToMkt:   e.tokenToMkt,
		WSReceivedAt: n.ReceivedAt,
	}

	for _, s := range e.registry.List() {
		signal := s.Evaluate(evalCtx)
		if signal == nil {
			continue
		}

		e.metrics.StrategySignalsTotal.WithLabelValues(signal.StrategyName, string(signal.Venue)).Inc()
		e.metrics.StrategySignalEdge.WithLabelValues(signal.StrategyName).Observe(signal.Edge)

		select {
		case signalCh <- *signal:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
