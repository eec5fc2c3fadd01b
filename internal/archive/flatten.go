package archive

import (
	"path/filepath"

	"fabric-archiver/internal/domain"
)

// Flatten turns the nested discovery result into one flat job queue, one
// ExportJob per (workspace, item) pair. Parallelizing per workspace would
// starve on skewed item counts: a workspace with 200 items bottlenecks one
// worker while the rest drain small workspaces and idle. With a flat queue,
// pool utilization depends only on the total item count.
func Flatten(discovered []WorkspaceItems, targetFolder string) []domain.ExportJob {
	total := 0
	for _, wi := range discovered {
		total += len(wi.Items)
	}

	jobs := make([]domain.ExportJob, 0, total)
	for _, wi := range discovered {
		wsFolder := filepath.Join(targetFolder, domain.SanitizeName(wi.Workspace.DisplayName))
		for _, it := range wi.Items {
			jobs = append(jobs, domain.ExportJob{
				WorkspaceID:          wi.Workspace.ID,
				WorkspaceDisplayName: wi.Workspace.DisplayName,
				ItemID:               it.ID,
				ItemDisplayName:      it.DisplayName,
				ItemType:             it.Type,
				DestinationPath:      filepath.Join(wsFolder, domain.SanitizeName(it.DisplayName)+"."+it.Type),
			})
		}
	}
	return jobs
}
