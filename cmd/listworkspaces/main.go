package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"fabric-archiver/internal/archive"
	"fabric-archiver/internal/config"
	"fabric-archiver/internal/fabric"
)

// listworkspaces prints the workspaces (and item counts) a run would pick
// up, without creating folders or exporting anything. Handy for tuning the
// filter expression.
func main() {
	var (
		configPath = flag.String("config", "", "path to JSON config file (optional)")
		filterExpr = flag.String("filter", "", "workspace filter expression (overrides config)")
	)
	flag.Parse()

	if err := run(*configPath, *filterExpr); err != nil {
		log.Fatalf("listworkspaces failed: %v", err)
	}
}

func run(configPath, filterExpr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if filterExpr != "" {
		cfg.WorkspaceFilter = filterExpr
	}
	if cfg.APIToken == "" {
		return errors.New("missing env FABRIC_API_TOKEN")
	}

	client := fabric.New(cfg.APIBaseURL, cfg.APIToken)

	discovered, warnings, err := archive.Discover(context.Background(), client, archive.Options{
		Filter:             cfg.WorkspaceFilter,
		SupportedItemTypes: cfg.SupportedItemTypes,
		Retry:              cfg.RetryPolicy(),
	})
	if err != nil {
		return err
	}

	for _, w := range warnings {
		fmt.Println("warning:", w)
	}
	fmt.Printf("%d workspace(s) match filter %q:\n", len(discovered), cfg.WorkspaceFilter)
	for _, wi := range discovered {
		fmt.Printf("  %s  %s  (%d supported items)\n", wi.Workspace.ID, wi.Workspace.DisplayName, len(wi.Items))
	}
	return nil
}
