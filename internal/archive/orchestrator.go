package archive

import (
	"context"
	"log"

	"fabric-archiver/internal/concurrency"
	"fabric-archiver/internal/domain"
	"fabric-archiver/internal/executor"
)

// Runner executes a flattened job queue through a bounded worker pool.
type Runner struct {
	API          API
	Workers      int
	Policy       domain.RetryPolicy
	TargetFolder string
}

// Run exports every job and returns one JobResult per job plus the run
// summary. Each job gets its own executor-wrapped call and its own retry
// budget; a job's failure is recorded and never cancels or blocks the
// others. A backoff sleep only parks the worker that owns the job.
//
// After every job is terminal, Run makes a sequential finishing pass that
// writes a per-workspace manifest from the results.
func (r Runner) Run(ctx context.Context, jobs []domain.ExportJob) ([]domain.JobResult, domain.RunSummary) {
	results, _ := concurrency.ProcessParallel(ctx, jobs, concurrency.ParallelOptions{MaxWorkers: r.Workers},
		func(ctx context.Context, index int, job domain.ExportJob) (domain.JobResult, error) {
			res := r.runOne(ctx, job)
			// failures live in the result, never in the pool's error path
			return res, nil
		})

	// a canceled context can leave zero-value slots behind; key them back
	// to their jobs so aggregation never loses a (workspace, item) pair
	for i := range results {
		if results[i].JobID == "" && i < len(jobs) {
			results[i] = domain.JobResult{
				JobID:       jobs[i].ID(),
				WorkspaceID: jobs[i].WorkspaceID,
				Succeeded:   false,
				Attempts:    0,
				Err:         ctx.Err(),
			}
		}
	}

	summary := summarize(results)
	log.Printf("run: %d jobs, %d succeeded, %d failed", summary.TotalJobs, summary.Succeeded, summary.Failed)

	if r.TargetFolder != "" {
		if err := writeManifests(r.TargetFolder, jobs, results); err != nil {
			log.Printf("run: manifest pass failed: %v", err)
		}
	}

	return results, summary
}

func (r Runner) runOne(ctx context.Context, job domain.ExportJob) domain.JobResult {
	attempts, err := executor.Execute(ctx, "export "+job.ItemDisplayName, r.Policy, func(ctx context.Context) error {
		return r.API.ExportItem(ctx, job.WorkspaceID, job.ItemID, job.DestinationPath)
	})

	if err != nil {
		log.Printf("export failed: %s/%s after %d attempt(s): %v",
			job.WorkspaceDisplayName, job.ItemDisplayName, attempts, err)
		return domain.JobResult{
			JobID:       job.ID(),
			WorkspaceID: job.WorkspaceID,
			Succeeded:   false,
			Attempts:    attempts,
			Err:         err,
		}
	}

	log.Printf("exported %s/%s (%s, %d attempt(s))",
		job.WorkspaceDisplayName, job.ItemDisplayName, job.ItemType, attempts)
	return domain.JobResult{
		JobID:       job.ID(),
		WorkspaceID: job.WorkspaceID,
		Succeeded:   true,
		Attempts:    attempts,
	}
}

// summarize is the single accumulation point for the run: it runs after the
// pool has drained, over the fully-populated result slice, keyed by
// workspace id rather than completion order.
func summarize(results []domain.JobResult) domain.RunSummary {
	s := domain.RunSummary{
		TotalJobs:    len(results),
		PerWorkspace: make(map[string]domain.WorkspaceCounts),
	}
	for _, res := range results {
		counts := s.PerWorkspace[res.WorkspaceID]
		if res.Succeeded {
			s.Succeeded++
			counts.Succeeded++
		} else {
			s.Failed++
			counts.Failed++
		}
		s.PerWorkspace[res.WorkspaceID] = counts
	}
	return s
}
