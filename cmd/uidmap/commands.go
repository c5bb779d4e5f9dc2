package main

import (
	"fmt"
	"time"

	"github.com/poiesic/uidmap"
	"github.com/poiesic/uidmap/ingestion"
	"github.com/urfave/cli/v2"
)

func importCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(c)
	defer cancel()

	out := c.App.ErrWriter
	fmt.Fprintf(out, "Store: %s (%s)\n", cfg.StorePath, cfg.Backend)
	fmt.Fprintf(out, "Source: %s/%s\n", cfg.SourceDir, cfg.Pattern)
	fmt.Fprintf(out, "Batch size: %d\n", cfg.BatchSize)
	fmt.Fprintln(out)

	report, err := uidmap.Import(ctx, cfg, ingestion.WithProgressWriter(out))
	if report != nil && len(report.SkippedFiles) > 0 {
		for _, skipped := range report.SkippedFiles {
			fmt.Fprintf(out, "Skipped %s: %v\n", skipped.Path, skipped.Err)
		}
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(out, "Total records imported: %d (%d files, %s)\n",
		report.TotalRecords, len(report.Files), report.Elapsed.Round(time.Millisecond))
	return nil
}

func lookupCommand(c *cli.Context) error {
	ids := c.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("at least one ID is required")
	}
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	resolver, err := db.NewResolver()
	if err != nil {
		return err
	}
	results, err := resolver.ResolveAll(c.Context, ids)
	if err != nil {
		return err
	}
	writeLookupTable(c.App.Writer, resolver, results)
	return nil
}

func statusCommand(c *cli.Context) error {
	ids := c.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("at least one ID is required")
	}
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	resolver, err := db.NewResolver()
	if err != nil {
		return err
	}
	results, err := resolver.ResolveAll(c.Context, ids)
	if err != nil {
		return err
	}
	writeStatusTable(c.App.Writer, results)
	return nil
}

func statsCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	count, err := db.Store().Count(c.Context)
	if err != nil {
		return fmt.Errorf("count mappings: %w", err)
	}
	writeStatsTable(c.App.Writer, db.Config(), count)
	return nil
}

func openDatabase(c *cli.Context) (*uidmap.Database, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	db, err := uidmap.NewDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Queries against a store that was never imported into should report
	// not found rather than a missing table.
	if err := db.Store().EnsureSchema(c.Context); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
