package execution

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/simrat12/Prediction-Engine/internal/domain"
)

// testPrivateKeyHex is a well-known publicly documented test key (Hardhat
// account #0); it never holds real funds and is safe to embed in tests.
const testPrivateKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func newTestLiveExecutor(t *testing.T, baseURL string) *LiveExecutor {
	t.Helper()
	e, err := NewLiveExecutor(testPrivateKeyHex, baseURL, discardLogger())
	if err != nil {
		t.Fatalf("NewLiveExecutor: %v", err)
	}
	return e
}

func TestLiveExecutorFillsAllLegsOnSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Idempotency-Key") == "" {
			t.Error("expected Idempotency-Key header on every submission")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(orderAck{Success: true, OrderID: "order-1"})
	}))
	defer srv.Close()

	e := newTestLiveExecutor(t, srv.URL)
	intent := domain.ExecutionIntent{
		MarketID: "mkt-1",
		Legs: []domain.OrderLeg{
			{TokenID: "123", Side: domain.SideSell, Price: 0.55, Size: 5},
			{TokenID: "456", Side: domain.SideSell, Price: 0.50, Size: 5},
		},
	}

	report := e.Execute(t.Context(), intent)

	if !report.FullyFilled() {
		t.Fatalf("expected fully filled report, got %+v", report.LegResults)
	}
}

func TestLiveExecutorRejectsRemainingLegsAfterFirstFailure(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(orderAck{Success: false, ErrorMsg: "insufficient liquidity"})
	}))
	defer srv.Close()

	e := newTestLiveExecutor(t, srv.URL)
	intent := domain.ExecutionIntent{
		MarketID: "mkt-1",
		Legs: []domain.OrderLeg{
			{TokenID: "123", Side: domain.SideSell, Price: 0.55, Size: 5},
			{TokenID: "456", Side: domain.SideSell, Price: 0.50, Size: 5},
		},
	}

	report := e.Execute(t.Context(), intent)

	if len(report.LegResults) != 2 {
		t.Fatalf("got %d leg results, want 2", len(report.LegResults))
	}
	if report.LegResults[0].Kind != domain.LegRejected {
		t.Errorf("leg 0 kind = %v, want Rejected", report.LegResults[0].Kind)
	}
	if report.LegResults[1].Kind != domain.LegNotAttempted {
		t.Errorf("leg 1 kind = %v, want NotAttempted", report.LegResults[1].Kind)
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 HTTP call (fail-fast), got %d", calls)
	}
}

func TestLiveExecutorRejectsLegWithInvalidTokenID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("expected no HTTP call for a leg that fails to build")
	}))
	defer srv.Close()

	e := newTestLiveExecutor(t, srv.URL)
	intent := domain.ExecutionIntent{
		MarketID: "mkt-1",
		Legs:     []domain.OrderLeg{{TokenID: "not-a-number", Side: domain.SideBuy, Price: 0.5, Size: 1}},
	}

	report := e.Execute(t.Context(), intent)

	if len(report.LegResults) != 1 || report.LegResults[0].Kind != domain.LegRejected {
		t.Fatalf("expected single Rejected leg result, got %+v", report.LegResults)
	}
}
