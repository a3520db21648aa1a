package execution

import (
	"context"
	"log/slog"
	"time"

	"github.com/simrat12/Prediction-Engine/internal/domain"
	"github.com/simrat12/Prediction-Engine/internal/metrics"
)

// executorName labels metrics by which Executor implementation produced
// a report, without the executor itself needing to know about metrics.
type executorName string

// Bridge converts TradeSignals into ExecutionIntents, dispatches them to
// an Executor, and records the post-execution metrics of §6.4.
type Bridge struct {
	executor     Executor
	executorName executorName
	metrics      *metrics.Facade
	logger       *slog.Logger
}

// NewBridge constructs a Bridge. name labels the "executor" metric
// dimension (e.g. "paper" or "live").
func NewBridge(executor Executor, name string, m *metrics.Facade, logger *slog.Logger) *Bridge {
	return &Bridge{
		executor:     executor,
		executorName: executorName(name),
		metrics:      m,
		logger:       logger.With(slog.String("component", "execution_bridge")),
	}
}

// Run consumes signals until signalCh is closed or ctx is cancelled.
func (b *Bridge) Run(ctx context.Context, signalCh <-chan domain.TradeSignal) error {
	b.logger.Info("execution bridge started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case signal, ok := <-signalCh:
			if !ok {
				b.logger.Info("signal channel closed, execution bridge shutting down")
				return nil
			}
			b.handle(ctx, signal)
		}
	}
}

func (b *Bridge) handle(ctx context.Context, signal domain.TradeSignal) {
	intent := toIntent(signal)

	report := b.executor.Execute(ctx, intent)

	completedAt := report.CompletedAt
	if !signal.GeneratedAt.IsZero() {
		b.metrics.ExecutionSignalToFillUs.WithLabelValues(signal.StrategyName).
			Observe(float64(completedAt.Sub(signal.GeneratedAt).Microseconds()))
	}
	if !signal.WSReceivedAt.IsZero() {
		b.metrics.ExecutionE2ELatencyUs.WithLabelValues(signal.StrategyName).
			Observe(float64(completedAt.Sub(signal.WSReceivedAt).Microseconds()))
	}

	if report.FullyFilled() {
		b.metrics.ExecutionFillsTotal.WithLabelValues(signal.StrategyName, string(b.executorName)).Inc()
		b.logger.Info("execution complete — all legs filled",
			slog.String("strategy", report.StrategyName),
			slog.String("market_id", report.MarketID),
			slog.Int("legs", len(report.LegResults)),
		)
		return
	}

	if report.AnyRejected() {
		b.metrics.ExecutionRejectionsTotal.WithLabelValues(signal.StrategyName, string(b.executorName)).Inc()
	}
	b.logger.Warn("execution incomplete — partial or rejected fills",
		slog.String("strategy", report.StrategyName),
		slog.String("market_id", report.MarketID),
		slog.Any("leg_results", report.LegResults),
	)
}

func toIntent(signal domain.TradeSignal) domain.ExecutionIntent {
	legs := make([]domain.OrderLeg, len(signal.Legs))
	for i, leg := range signal.Legs {
		legs[i] = domain.OrderLeg{
			TokenID: leg.TokenID,
			Side:    leg.Side,
			Price:   leg.Price,
			Size:    leg.Size,
		}
	}

	return domain.ExecutionIntent{
		Venue:        signal.Venue,
		MarketID:     signal.MarketID,
		StrategyName: signal.StrategyName,
		Legs:         legs,
		Edge:         signal.Edge,
		NegRisk:      signal.NegRisk,
		CreatedAt:    time.Now(),
	}
}
