// Package supervisor wires the venue adapter, router, strategy engine,
// and execution bridge into the single pipeline described by spec §5,
// and runs it under one errgroup with signal-driven cancellation.
package supervisor

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/simrat12/Prediction-Engine/internal/adapter"
	"github.com/simrat12/Prediction-Engine/internal/adapter/polymarket"
	"github.com/simrat12/Prediction-Engine/internal/arbitrage"
	"github.com/simrat12/Prediction-Engine/internal/cache"
	"github.com/simrat12/Prediction-Engine/internal/config"
	"github.com/simrat12/Prediction-Engine/internal/domain"
	"github.com/simrat12/Prediction-Engine/internal/execution"
	"github.com/simrat12/Prediction-Engine/internal/metrics"
	"github.com/simrat12/Prediction-Engine/internal/router"
	"github.com/simrat12/Prediction-Engine/internal/strategy"
)

const (
	ingestCapacity = 4096
	notifyCapacity = 512
	signalCapacity = 64
)

// Supervisor owns every long-running goroutine of the pipeline and the
// queues connecting them.
type Supervisor struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Facade
}

// New constructs a Supervisor from a validated Config.
func New(cfg *config.Config, logger *slog.Logger) *Supervisor {
	return &Supervisor{
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "supervisor")),
		metrics: metrics.New(),
	}
}

// Metrics exposes the facade's registry so main can optionally mount an
// HTTP exporter over it.
func (s *Supervisor) Metrics() *metrics.Facade { return s.metrics }

// Run wires the pipeline and blocks until ctx is cancelled or any
// component returns a non-nil error (other than context.Canceled).
func (s *Supervisor) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	marketCache := cache.New()

	ingestCh := make(chan domain.MarketEvent, ingestCapacity)
	notifyCh := make(chan strategy.Notify, notifyCapacity)
	signalCh := make(chan domain.TradeSignal, signalCapacity)

	driver := polymarket.New(
		s.logger,
		polymarket.WithGammaBaseURL(s.cfg.Polymarket.GammaHost),
		polymarket.WithCLOBBaseURL(s.cfg.Polymarket.ClobHost),
		polymarket.WithWSURL(s.cfg.Polymarket.WsHost+"/ws/market"),
	)
	venueAdapter := adapter.New(domain.VenuePolymarket, driver, s.metrics, s.logger)

	handle, err := venueAdapter.Start(ctx)
	if err != nil {
		return fmt.Errorf("supervisor: adapter start: %w", err)
	}

	g.Go(func() error {
		return venueAdapter.Run(ctx, handle, ingestCh)
	})

	rt := router.New(marketCache, notifyCh, s.logger)
	g.Go(func() error {
		return rt.Run(ctx, g, ingestCh)
	})

	registry := strategy.NewRegistry()
	registry.Register(arbitrage.New(s.cfg.Arbitrage.MinEdge, s.cfg.Arbitrage.DefaultSize))

	engine := strategy.NewEngine(registry, marketCache, handle.MarketMap, handle.TokenToMarket, s.metrics, s.logger)
	g.Go(func() error {
		return engine.Run(ctx, notifyCh, signalCh)
	})

	executor, err := s.buildExecutor()
	if err != nil {
		return fmt.Errorf("supervisor: build executor: %w", err)
	}
	bridge := execution.NewBridge(executor, s.cfg.Execution.Mode, s.metrics, s.logger)
	g.Go(func() error {
		return bridge.Run(ctx, signalCh)
	})

	s.logger.Info("pipeline started",
		slog.String("venue", string(domain.VenuePolymarket)),
		slog.String("execution_mode", s.cfg.Execution.Mode),
		slog.Int("eligible_markets", len(handle.MarketMap)),
	)

	return g.Wait()
}

func (s *Supervisor) buildExecutor() (execution.Executor, error) {
	switch s.cfg.Execution.Mode {
	case "live":
		return execution.NewLiveExecutor(s.cfg.Wallet.PrivateKey, s.cfg.Execution.ClobHost, s.logger)
	default:
		return execution.NewPaperExecutor(s.logger), nil
	}
}
