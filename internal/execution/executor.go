// Package execution implements the ExecutionBridge and the Executor
// contract (spec §4.7, §6.3): paper and live order placement under the
// fail-fast multi-leg protocol.
package execution

import (
	"context"

	"github.com/simrat12/Prediction-Engine/internal/domain"
)

// Executor places an ExecutionIntent and returns one ExecutionReport.
// Implementations must respect the fail-fast leg protocol: legs are
// attempted sequentially; once a leg is Rejected, every remaining leg
// is reported NotAttempted without being attempted.
type Executor interface {
	Execute(ctx context.Context, intent domain.ExecutionIntent) domain.ExecutionReport
}
