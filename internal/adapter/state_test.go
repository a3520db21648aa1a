package adapter

import "testing"

func TestBackoffMsDoublesUpToCap(t *testing.T) {
	tests := []struct {
		attempt int
		want    int
	}{
		{0, initialBackoff},
		{1, initialBackoff},
		{2, initialBackoff * 2},
		{3, initialBackoff * 4},
	}
	for _, tt := range tests {
		if got := backoffMs(tt.attempt); got != tt.want {
			t.Errorf("backoffMs(%d) = %d, want %d", tt.attempt, got, tt.want)
		}
	}
}

func TestBackoffMsCapsAtMax(t *testing.T) {
	got := backoffMs(20)
	if got != maxBackoff {
		t.Errorf("backoffMs(20) = %d, want capped at %d", got, maxBackoff)
	}
}
