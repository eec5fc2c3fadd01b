package domain

import "time"

// ExportJob is the unit of concurrent work: one item to export into one
// destination folder. Immutable once built; owned by a single worker while
// it runs.
type ExportJob struct {
	WorkspaceID          string
	WorkspaceDisplayName string
	ItemID               string
	ItemDisplayName      string
	ItemType             string
	DestinationPath      string
}

// ID identifies the job across result aggregation. Completion order is
// non-deterministic, so everything downstream keys on this, never on
// arrival order.
func (j ExportJob) ID() string {
	return j.WorkspaceID + "/" + j.ItemID
}

// RetryPolicy controls the executor's retry loop.
// Delay for the n-th rate-limited retry = BaseDelay × BackoffMultiplier^(n-1).
type RetryPolicy struct {
	MaxRetries        int
	BaseDelay         time.Duration
	BackoffMultiplier float64
}

// DelayFor returns the backoff delay for the n-th retry (1-indexed).
func (p RetryPolicy) DelayFor(retry int) time.Duration {
	if retry < 1 {
		retry = 1
	}
	mult := p.BackoffMultiplier
	if mult < 1 {
		mult = 1
	}
	d := float64(p.BaseDelay)
	for i := 1; i < retry; i++ {
		d *= mult
	}
	return time.Duration(d)
}

// JobResult records the terminal outcome of one ExportJob. Written exactly
// once by the worker that owned the job.
type JobResult struct {
	JobID       string
	WorkspaceID string
	Succeeded   bool
	Attempts    int
	Err         error
}

// WorkspaceCounts is the per-workspace slice of a RunSummary.
type WorkspaceCounts struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// RunSummary aggregates every JobResult of a run.
type RunSummary struct {
	TotalJobs    int                        `json:"totalJobs"`
	Succeeded    int                        `json:"succeeded"`
	Failed       int                        `json:"failed"`
	PerWorkspace map[string]WorkspaceCounts `json:"perWorkspace"`
}
