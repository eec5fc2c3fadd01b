package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fabric-archiver/internal/domain"
)

// ManifestFileName is written into each workspace's destination folder by
// the orchestrator's finishing pass.
const ManifestFileName = "manifest.json"

type manifestItem struct {
	ItemID   string `json:"itemId"`
	ItemName string `json:"itemName"`
	ItemType string `json:"itemType"`
	Exported bool   `json:"exported"`
	Attempts int    `json:"attempts"`
	Error    string `json:"error,omitempty"`
}

type workspaceManifest struct {
	WorkspaceID   string         `json:"workspaceId"`
	WorkspaceName string         `json:"workspaceName"`
	Succeeded     int            `json:"succeeded"`
	Failed        int            `json:"failed"`
	Items         []manifestItem `json:"items"`
}

// writeManifests aggregates each workspace's job results into a
// manifest.json next to its exported items. Sequential on purpose; results
// are matched to jobs by job id, never by completion order.
func writeManifests(targetFolder string, jobs []domain.ExportJob, results []domain.JobResult) error {
	byID := make(map[string]domain.JobResult, len(results))
	for _, res := range results {
		byID[res.JobID] = res
	}

	manifests := make(map[string]*workspaceManifest)
	order := make([]string, 0)
	for _, job := range jobs {
		m, ok := manifests[job.WorkspaceID]
		if !ok {
			m = &workspaceManifest{
				WorkspaceID:   job.WorkspaceID,
				WorkspaceName: job.WorkspaceDisplayName,
			}
			manifests[job.WorkspaceID] = m
			order = append(order, job.WorkspaceID)
		}

		res := byID[job.ID()]
		entry := manifestItem{
			ItemID:   job.ItemID,
			ItemName: job.ItemDisplayName,
			ItemType: job.ItemType,
			Exported: res.Succeeded,
			Attempts: res.Attempts,
		}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		}
		if res.Succeeded {
			m.Succeeded++
		} else {
			m.Failed++
		}
		m.Items = append(m.Items, entry)
	}

	for _, wsID := range order {
		m := manifests[wsID]
		dir := filepath.Join(targetFolder, domain.SanitizeName(m.WorkspaceName))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("manifest: create folder %s: %w", dir, err)
		}

		b, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return fmt.Errorf("manifest: encode workspace %s: %w", wsID, err)
		}
		if err := os.WriteFile(filepath.Join(dir, ManifestFileName), b, 0o644); err != nil {
			return fmt.Errorf("manifest: write workspace %s: %w", wsID, err)
		}
	}

	return nil
}
