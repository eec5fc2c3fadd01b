package domain

import (
	"testing"
	"time"
)

func TestExportJobID(t *testing.T) {
	j := ExportJob{WorkspaceID: "ws-1", ItemID: "item-9"}
	if j.ID() != "ws-1/item-9" {
		t.Errorf("Expected job id 'ws-1/item-9', got %q", j.ID())
	}
}

func TestRetryPolicyDelayFor(t *testing.T) {
	p := RetryPolicy{MaxRetries: 3, BaseDelay: 30 * time.Second, BackoffMultiplier: 2}

	testCases := []struct {
		retry    int
		expected time.Duration
	}{
		{1, 30 * time.Second},
		{2, 60 * time.Second},
		{3, 120 * time.Second},
	}

	for _, tc := range testCases {
		got := p.DelayFor(tc.retry)
		if got != tc.expected {
			t.Errorf("DelayFor(%d) = %v; expected %v", tc.retry, got, tc.expected)
		}
	}
}

func TestRetryPolicyDelayForClamps(t *testing.T) {
	p := RetryPolicy{BaseDelay: time.Second, BackoffMultiplier: 0.5}

	// multiplier below 1 must never shrink the delay
	if got := p.DelayFor(3); got != time.Second {
		t.Errorf("Expected delay clamped to base, got %v", got)
	}

	// retry below 1 behaves like the first retry
	if got := p.DelayFor(0); got != time.Second {
		t.Errorf("Expected base delay for retry 0, got %v", got)
	}
}
