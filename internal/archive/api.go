// Package archive is the export orchestrator core: sequential discovery of
// workspaces and items, flattening into one job queue, and a bounded worker
// pool that retries every remote call through the executor.
package archive

import (
	"context"

	"fabric-archiver/internal/domain"
)

// API is the remote discovery/export collaborator. The core treats all
// three calls as black-box remote operations under the same retry taxonomy;
// it never depends on their transport.
type API interface {
	ListWorkspaces(ctx context.Context) ([]domain.Workspace, error)
	ListItems(ctx context.Context, workspaceID string) ([]domain.Item, error)
	ExportItem(ctx context.Context, workspaceID, itemID, destinationPath string) error
}
