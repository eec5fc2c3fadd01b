package archive

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"fabric-archiver/internal/domain"
	"fabric-archiver/internal/executor"
	"fabric-archiver/internal/filter"
)

// Options is the validated configuration slice the discovery stage needs.
type Options struct {
	Filter             string
	SupportedItemTypes []string
	TargetFolder       string
	Retry              domain.RetryPolicy
}

// WorkspaceItems pairs one surviving workspace with its exportable items.
type WorkspaceItems struct {
	Workspace domain.Workspace
	Items     []domain.Item
}

// Discover lists workspaces, applies the filter, then lists and filters
// items per surviving workspace and creates its destination folder.
// Discovery runs sequentially: folder creation and metadata listing are
// cheap next to export, and sequential progress output stays readable.
//
// An empty result is not an error. A terminal failure listing workspaces is:
// without a workspace list there is nothing to export, so that error aborts
// the run. A terminal failure listing one workspace's items only skips that
// workspace (reported in warnings) so the rest of the run can proceed.
func Discover(ctx context.Context, api API, opts Options) ([]WorkspaceItems, []string, error) {
	expr, warnings := filter.Parse(opts.Filter)
	for _, w := range warnings {
		log.Printf("filter: %s", w)
	}

	var workspaces []domain.Workspace
	_, err := executor.Execute(ctx, "list workspaces", opts.Retry, func(ctx context.Context) error {
		var lerr error
		workspaces, lerr = api.ListWorkspaces(ctx)
		return lerr
	})
	if err != nil {
		return nil, warnings, fmt.Errorf("discovery: %w", err)
	}

	matched := expr.Apply(workspaces)
	log.Printf("discovery: %d of %d workspaces match filter %q", len(matched), len(workspaces), opts.Filter)
	if len(matched) == 0 {
		return nil, warnings, nil
	}

	allowed := allowSet(opts.SupportedItemTypes)

	var out []WorkspaceItems
	for _, ws := range matched {
		var items []domain.Item
		_, err := executor.Execute(ctx, "list items "+ws.DisplayName, opts.Retry, func(ctx context.Context) error {
			var lerr error
			items, lerr = api.ListItems(ctx, ws.ID)
			return lerr
		})
		if err != nil {
			w := fmt.Sprintf("workspace %q skipped: %v", ws.DisplayName, err)
			log.Printf("discovery: %s", w)
			warnings = append(warnings, w)
			continue
		}

		kept := items[:0:0]
		for _, it := range items {
			if allowed == nil || allowed[it.Type] {
				kept = append(kept, it)
			}
		}

		if opts.TargetFolder != "" {
			dir := filepath.Join(opts.TargetFolder, domain.SanitizeName(ws.DisplayName))
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, warnings, fmt.Errorf("discovery: create workspace folder %s: %w", dir, err)
			}
		}

		log.Printf("discovery: workspace %q: %d of %d items supported", ws.DisplayName, len(kept), len(items))
		out = append(out, WorkspaceItems{Workspace: ws, Items: kept})
	}

	return out, warnings, nil
}

// allowSet returns nil for an empty list: no configured allow-list means
// every item type is exportable.
func allowSet(types []string) map[string]bool {
	if len(types) == 0 {
		return nil
	}
	m := make(map[string]bool, len(types))
	for _, t := range types {
		m[t] = true
	}
	return m
}
