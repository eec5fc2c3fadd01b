package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"fabric-archiver/internal/archive"
	"fabric-archiver/internal/config"
	"fabric-archiver/internal/domain"
	"fabric-archiver/internal/fabric"
	"fabric-archiver/internal/sftpclient"
	"fabric-archiver/internal/throttle"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to JSON config file (optional)")
		filterExpr = flag.String("filter", "", "workspace filter expression (overrides config)")
		target     = flag.String("target", "", "target folder (overrides config)")
		workers    = flag.Int("throttle", 0, "max parallel exports (0 = config, then auto)")
		dryRun     = flag.Bool("dry-run", false, "run discovery and print matches without exporting anything")
		upload     = flag.Bool("upload", false, "upload run summary and manifests over SFTP afterwards")
	)
	flag.Parse()

	start := time.Now()

	err := run(*configPath, *filterExpr, *target, *workers, *dryRun, *upload)

	log.Printf("Execution finished in %s", time.Since(start))

	if err != nil {
		// only setup/discovery failures reach here; per-job failures are
		// part of a completed run and keep exit code 0
		log.Fatalf("Run failed: %v", err)
	}
}

func run(configPath, filterExpr, target string, workersFlag int, dryRun, upload bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if filterExpr != "" {
		cfg.WorkspaceFilter = filterExpr
	}
	if target != "" {
		cfg.TargetFolder = target
	}
	if cfg.APIToken == "" {
		return errors.New("missing env FABRIC_API_TOKEN")
	}

	ctx := context.Background()

	client := fabric.New(cfg.APIBaseURL, cfg.APIToken)
	client.Compress = cfg.CompressPayloads

	opts := archive.Options{
		Filter:             cfg.WorkspaceFilter,
		SupportedItemTypes: cfg.SupportedItemTypes,
		TargetFolder:       cfg.TargetFolder,
		Retry:              cfg.RetryPolicy(),
	}
	if dryRun {
		// dry runs must not touch the filesystem either
		opts.TargetFolder = ""
	}

	discovered, _, err := archive.Discover(ctx, client, opts)
	if err != nil {
		return err
	}

	if dryRun {
		printDryRun(discovered)
		return nil
	}

	if len(discovered) == 0 {
		log.Printf("Nothing to archive")
		return nil
	}

	jobs := archive.Flatten(discovered, cfg.TargetFolder)
	poolSize := throttle.Resolve(workersFlag, cfg.ThrottleLimit)
	log.Printf("Exporting %d items with %d workers", len(jobs), poolSize)

	runner := archive.Runner{
		API:          client,
		Workers:      poolSize,
		Policy:       cfg.RetryPolicy(),
		TargetFolder: cfg.TargetFolder,
	}
	_, summary := runner.Run(ctx, jobs)

	summaryPath, err := writeSummary(cfg.TargetFolder, summary)
	if err != nil {
		log.Printf("Could not write run summary: %v", err)
	}

	if upload {
		if err := uploadOutput(ctx, cfg, summaryPath, discovered); err != nil {
			log.Printf("Upload failed: %v", err)
		}
	}

	if summary.Failed > 0 {
		log.Printf("Run completed with %d failed of %d jobs (see manifests)", summary.Failed, summary.TotalJobs)
	}
	return nil
}

func printDryRun(discovered []archive.WorkspaceItems) {
	fmt.Printf("Would archive %d workspace(s):\n", len(discovered))
	total := 0
	for _, wi := range discovered {
		fmt.Printf("  %s (%s): %d item(s)\n", wi.Workspace.DisplayName, wi.Workspace.ID, len(wi.Items))
		for _, it := range wi.Items {
			fmt.Printf("    - %s [%s]\n", it.DisplayName, it.Type)
		}
		total += len(wi.Items)
	}
	fmt.Printf("Total: %d export job(s)\n", total)
}

func writeSummary(targetFolder string, summary domain.RunSummary) (string, error) {
	b, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", err
	}
	p := filepath.Join(targetFolder, "run-summary.json")
	if err := os.WriteFile(p, b, 0o644); err != nil {
		return "", err
	}
	return p, nil
}

func uploadOutput(ctx context.Context, cfg config.Config, summaryPath string, discovered []archive.WorkspaceItems) error {
	paths := make([]string, 0, len(discovered)+1)
	if summaryPath != "" {
		paths = append(paths, summaryPath)
	}
	for _, wi := range discovered {
		p := filepath.Join(cfg.TargetFolder, domain.SanitizeName(wi.Workspace.DisplayName), archive.ManifestFileName)
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil
	}

	return sftpclient.UploadFiles(ctx, sftpclient.Config{
		Host:      cfg.SFTP.Host,
		Port:      cfg.SFTP.Port,
		User:      cfg.SFTP.User,
		Pass:      cfg.SFTP.Pass,
		RemoteDir: cfg.SFTP.RemoteDir,
	}, paths)
}
