package execution

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"go.uber.org/atomic"

	"github.com/simrat12/Prediction-Engine/internal/domain"
)

// PaperExecutor assigns monotonically increasing order ids and fills
// every leg at its requested price and size. It never rejects.
type PaperExecutor struct {
	nextOrderID atomic.Uint64
	logger      *slog.Logger
}

// NewPaperExecutor constructs a PaperExecutor.
func NewPaperExecutor(logger *slog.Logger) *PaperExecutor {
	return &PaperExecutor{logger: logger.With(slog.String("component", "paper_executor"))}
}

// Execute implements Executor.
func (p *PaperExecutor) Execute(ctx context.Context, intent domain.ExecutionIntent) domain.ExecutionReport {
	results := make([]domain.LegFillStatus, 0, len(intent.Legs))

	for _, leg := range intent.Legs {
		orderID := p.nextOrderID.Inc()

		p.logger.Info("paper fill",
			slog.Uint64("order_id", orderID),
			slog.String("token_id", leg.TokenID),
			slog.String("side", string(leg.Side)),
			slog.Float64("price", leg.Price),
			slog.Float64("size", leg.Size),
			slog.String("market_id", intent.MarketID),
		)

		results = append(results, domain.FilledLeg(strconv.FormatUint(orderID, 10), leg.Price, leg.Size))
	}

	return domain.ExecutionReport{
		MarketID:     intent.MarketID,
		StrategyName: intent.StrategyName,
		LegResults:   results,
		CompletedAt:  time.Now(),
	}
}
