package adapter

import "time"

// State is the live subscription state machine (spec §4.1).
type State string

const (
	StateConnecting State = "connecting"
	StateSubscribed State = "subscribed"
	StateDegraded   State = "degraded"
	StateGaveUp     State = "gave_up"
)

const (
	initialBackoff       = 500   // ms
	maxBackoff           = 30000 // ms
	maxReconnectAttempts = 10
)

// backoffDuration is the reconnect wait applied between attempts,
// overridable in tests to avoid waiting out real backoff windows.
var backoffDuration = func(attempt int) time.Duration {
	return time.Duration(backoffMs(attempt)) * time.Millisecond
}

// backoffMs implements min(INITIAL * 2^(attempt-1), MAX) for attempt >= 1.
func backoffMs(attempt int) int {
	if attempt < 1 {
		attempt = 1
	}
	wait := initialBackoff
	for i := 1; i < attempt; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	if wait > maxBackoff {
		wait = maxBackoff
	}
	return wait
}
