package throttle

import (
	"runtime"
	"testing"
)

func TestResolveOverrideWins(t *testing.T) {
	if got := Resolve(4, 8); got != 4 {
		t.Errorf("Expected override 4 to win, got %d", got)
	}
}

func TestResolveConfiguredWins(t *testing.T) {
	if got := Resolve(0, 8); got != 8 {
		t.Errorf("Expected configured 8, got %d", got)
	}
}

func TestResolveAutoCapped(t *testing.T) {
	got := Resolve(0, 0)

	if got < 1 {
		t.Errorf("Expected at least 1 worker, got %d", got)
	}
	if got > MaxAutoWorkers {
		t.Errorf("Expected auto value capped at %d, got %d", MaxAutoWorkers, got)
	}

	expected := runtime.NumCPU()
	if expected > MaxAutoWorkers {
		expected = MaxAutoWorkers
	}
	if got != expected {
		t.Errorf("Expected %d (NumCPU capped), got %d", expected, got)
	}
}

func TestResolveNegativeValuesIgnored(t *testing.T) {
	got := Resolve(-3, -1)
	if got < 1 || got > MaxAutoWorkers {
		t.Errorf("Expected auto fallback in [1,%d], got %d", MaxAutoWorkers, got)
	}
}
