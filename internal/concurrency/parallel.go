package concurrency

import (
	"context"
	"sync"
)

// ParallelOptions configura el comportamiento del procesamiento paralelo
type ParallelOptions struct {
	// MaxWorkers es el número máximo de trabajadores en paralelo
	MaxWorkers int
}

// ProcessParallel runs itemFunc over items with at most MaxWorkers in
// flight. Results come back in input order, not completion order; a slow
// item never blocks workers from picking up the next one. If itemFunc
// blocks (e.g. a retry backoff sleep), only its own worker waits.
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if maxWorkers > len(items) {
		maxWorkers = len(items)
	}

	type outcome struct {
		index  int
		result R
		err    error
	}

	jobs := make(chan int, len(items))
	results := make(chan outcome, len(items))

	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for jobIndex := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
					result, err := itemFunc(ctx, jobIndex, items[jobIndex])
					results <- outcome{jobIndex, result, err}
				}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	// resultados indexados por posición de entrada; el canal es el único
	// punto de acumulación, así no se pierden incrementos concurrentes
	resultList := make([]R, len(items))
	var errs []error
	for i := 0; i < len(items); i++ {
		res, ok := <-results
		if !ok {
			break
		}
		if res.err != nil {
			errs = append(errs, res.err)
		}
		resultList[res.index] = res.result
	}

	return resultList, errs
}
