package supervisor

import (
	"io"
	"log/slog"
	"testing"

	"github.com/simrat12/Prediction-Engine/internal/config"
	"github.com/simrat12/Prediction-Engine/internal/execution"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildExecutorDefaultsToPaper(t *testing.T) {
	cfg := config.Defaults()
	cfg.Execution.Mode = "paper"
	s := New(&cfg, discardLogger())

	exec, err := s.buildExecutor()
	if err != nil {
		t.Fatalf("buildExecutor: %v", err)
	}
	if _, ok := exec.(*execution.PaperExecutor); !ok {
		t.Errorf("got %T, want *execution.PaperExecutor", exec)
	}
}

func TestBuildExecutorLiveRequiresValidKey(t *testing.T) {
	cfg := config.Defaults()
	cfg.Execution.Mode = "live"
	cfg.Wallet.PrivateKey = "not-a-valid-hex-key"
	s := New(&cfg, discardLogger())

	if _, err := s.buildExecutor(); err == nil {
		t.Error("expected error constructing a live executor from an invalid private key")
	}
}

func TestBuildExecutorLiveWithValidKey(t *testing.T) {
	cfg := config.Defaults()
	cfg.Execution.Mode = "live"
	cfg.Wallet.PrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	s := New(&cfg, discardLogger())

	exec, err := s.buildExecutor()
	if err != nil {
		t.Fatalf("buildExecutor: %v", err)
	}
	if _, ok := exec.(*execution.LiveExecutor); !ok {
		t.Errorf("got %T, want *execution.LiveExecutor", exec)
	}
}

func TestMetricsReturnsNonNilFacade(t *testing.T) {
	cfg := config.Defaults()
	s := New(&cfg, discardLogger())
	if s.Metrics() == nil {
		t.Error("expected Metrics() to return a non-nil facade")
	}
}
