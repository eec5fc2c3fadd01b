package concurrency

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestProcessParallelEmptyInput(t *testing.T) {
	results, errs := ProcessParallel(context.Background(), []int{}, ParallelOptions{MaxWorkers: 4}, func(ctx context.Context, index int, item int) (string, error) {
		return "", nil
	})
	if len(results) != 0 {
		t.Errorf("Expected empty results for empty input, got %d items", len(results))
	}
	if errs != nil {
		t.Errorf("Expected nil errors for empty input, got %v", errs)
	}
}

func TestProcessParallelPreservesInputOrder(t *testing.T) {
	input := []int{5, 3, 1, 4, 2}

	results, errs := ProcessParallel(context.Background(), input, ParallelOptions{MaxWorkers: 4}, func(ctx context.Context, index int, item int) (int, error) {
		// vary processing time so completion order differs from input order
		time.Sleep(time.Duration(item) * 5 * time.Millisecond)
		return item * 10, nil
	})

	if len(errs) != 0 {
		t.Errorf("Expected no errors, got %d", len(errs))
	}
	for i, res := range results {
		if res != input[i]*10 {
			t.Errorf("Expected result at index %d to be %d, got %d", i, input[i]*10, res)
		}
	}
}

func TestProcessParallelCollectsErrors(t *testing.T) {
	input := []int{1, 2, 3, 4, 5}

	_, errs := ProcessParallel(context.Background(), input, ParallelOptions{MaxWorkers: 3}, func(ctx context.Context, index int, item int) (int, error) {
		if item%2 == 0 {
			return 0, errors.New("even number error")
		}
		return item, nil
	})

	if len(errs) != 2 {
		t.Errorf("Expected 2 errors, got %d", len(errs))
	}
}

func TestProcessParallelInvalidMaxWorkers(t *testing.T) {
	input := []int{1, 2, 3}

	results, errs := ProcessParallel(context.Background(), input, ParallelOptions{MaxWorkers: -1}, func(ctx context.Context, index int, item int) (int, error) {
		return item, nil
	})

	if len(errs) != 0 {
		t.Errorf("Expected no errors, got %d", len(errs))
	}
	if len(results) != len(input) {
		t.Errorf("Expected %d results, got %d", len(input), len(results))
	}
}

func TestProcessParallelNeverExceedsWorkerLimit(t *testing.T) {
	for _, limit := range []int{1, 4, 12} {
		var current, peak int64
		var mu sync.Mutex

		input := make([]int, 40)
		for i := range input {
			input[i] = i
		}

		_, errs := ProcessParallel(context.Background(), input, ParallelOptions{MaxWorkers: limit}, func(ctx context.Context, index int, item int) (int, error) {
			n := atomic.AddInt64(&current, 1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt64(&current, -1)
			return item, nil
		})

		if len(errs) != 0 {
			t.Errorf("limit=%d: expected no errors, got %d", limit, len(errs))
		}
		if peak > int64(limit) {
			t.Errorf("limit=%d: observed %d concurrent executions", limit, peak)
		}
	}
}

func TestProcessParallelContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := []int{1, 2, 3, 4, 5}
	results, _ := ProcessParallel(ctx, input, ParallelOptions{MaxWorkers: 2}, func(ctx context.Context, index int, item int) (int, error) {
		time.Sleep(50 * time.Millisecond)
		return item, nil
	})

	// slice stays fully allocated; unprocessed slots hold zero values
	if len(results) != len(input) {
		t.Errorf("Expected %d result slots, got %d", len(input), len(results))
	}
}
