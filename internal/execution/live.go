package execution

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/simrat12/Prediction-Engine/internal/domain"
)

// PolygonChainID is the chain id the CLOB exchange contract is deployed
// on (Polygon mainnet).
const PolygonChainID = 137

const (
	defaultExpirySeconds = 60
	orderSizeScale       = 1e6 // fixed-point scale for on-chain amounts
)

// LiveExecutor signs and submits orders against the venue's CLOB order
// endpoint. It follows the fail-fast multi-leg protocol: a leg that
// fails to construct, sign, or submit is marked Rejected and every
// remaining leg is marked NotAttempted without being attempted.
type LiveExecutor struct {
	signer *orderSigner
	http   *resty.Client
	logger *slog.Logger
}

// NewLiveExecutor constructs a LiveExecutor from a hex-encoded private
// key and the CLOB REST base URL.
func NewLiveExecutor(privateKeyHex, clobBaseURL string, logger *slog.Logger) (*LiveExecutor, error) {
	signer, err := newOrderSigner(privateKeyHex, PolygonChainID)
	if err != nil {
		return nil, fmt.Errorf("execution: live executor: %w", err)
	}

	client := resty.New().
		SetBaseURL(clobBaseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})

	return &LiveExecutor{
		signer: signer,
		http:   client,
		logger: logger.With(slog.String("component", "live_executor")),
	}, nil
}

// orderAck is the CLOB order-submission response shape.
type orderAck struct {
	Success      bool   `json:"success"`
	OrderID      string `json:"orderID"`
	ErrorMsg     string `json:"errorMsg"`
	MakingAmount string `json:"makingAmount"`
	TakingAmount string `json:"takingAmount"`
}

// Execute implements Executor.
func (e *LiveExecutor) Execute(ctx context.Context, intent domain.ExecutionIntent) domain.ExecutionReport {
	results := make([]domain.LegFillStatus, 0, len(intent.Legs))

	for i, leg := range intent.Legs {
		var keepGoing bool
		results, keepGoing = e.attemptLeg(ctx, results, leg)
		if !keepGoing {
			for j := i + 1; j < len(intent.Legs); j++ {
				results = append(results, domain.NotAttemptedLeg())
			}
			break
		}
	}

	return domain.ExecutionReport{
		MarketID:     intent.MarketID,
		StrategyName: intent.StrategyName,
		LegResults:   results,
		CompletedAt:  time.Now(),
	}
}

// attemptLeg builds, signs, and submits a single leg. It returns the
// updated results slice and whether execution should continue to the
// next leg.
func (e *LiveExecutor) attemptLeg(ctx context.Context, results []domain.LegFillStatus, leg domain.OrderLeg) ([]domain.LegFillStatus, bool) {
	payload, err := e.buildOrderPayload(leg)
	if err != nil {
		e.logger.Warn("order construction failed", slog.String("token_id", leg.TokenID), slog.Any("err", err))
		return append(results, domain.RejectedLeg(err.Error())), false
	}

	signature, err := e.signer.SignOrder(payload)
	if err != nil {
		e.logger.Warn("order signing failed", slog.String("token_id", leg.TokenID), slog.Any("err", err))
		return append(results, domain.RejectedLeg(err.Error())), false
	}

	requestID := uuid.New().String()

	var ack orderAck
	resp, err := e.http.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", requestID).
		SetBody(map[string]any{"order": payload, "signature": signature, "orderType": "FOK"}).
		SetResult(&ack).
		Post("/order")

	if err != nil {
		return append(results, domain.RejectedLeg(fmt.Sprintf("submit error: %v", err))), false
	}
	if resp.StatusCode() != http.StatusOK || !ack.Success {
		reason := ack.ErrorMsg
		if reason == "" {
			reason = fmt.Sprintf("status %d", resp.StatusCode())
		}
		return append(results, domain.RejectedLeg(reason)), false
	}

	return append(results, domain.FilledLeg(ack.OrderID, leg.Price, leg.Size)), true
}

// buildOrderPayload converts a leg into the 12-field EIP-712 order
// struct, scaling price/size into on-chain integer amounts.
func (e *LiveExecutor) buildOrderPayload(leg domain.OrderLeg) (OrderPayload, error) {
	salt, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	if err != nil {
		return OrderPayload{}, fmt.Errorf("generate salt: %w", err)
	}

	addr := e.signer.Address().Hex()

	makerAmount := int64(leg.Price * leg.Size * orderSizeScale)
	takerAmount := int64(leg.Size * orderSizeScale)

	side := 0
	if leg.Side == domain.SideSell {
		side = 1
	}

	tokenID, ok := new(big.Int).SetString(leg.TokenID, 10)
	if !ok {
		return OrderPayload{}, fmt.Errorf("invalid token id %q", leg.TokenID)
	}

	return OrderPayload{
		Salt:          salt.String(),
		Maker:         addr,
		Signer:        addr,
		Taker:         "0x0000000000000000000000000000000000000000",
		TokenID:       tokenID.String(),
		MakerAmount:   fmt.Sprintf("%d", makerAmount),
		TakerAmount:   fmt.Sprintf("%d", takerAmount),
		Expiration:    fmt.Sprintf("%d", time.Now().Add(defaultExpirySeconds*time.Second).Unix()),
		Nonce:         "0",
		FeeRateBps:    "0",
		Side:          side,
		SignatureType: 0, // EOA
	}, nil
}
