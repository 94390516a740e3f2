package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rootforge/internal/export"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the loaded data to an export target",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "db",
		Short: "Replace the contents of the configured SQL database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(func(ctx context.Context, p *project) (export.Target, func(context.Context) error, error) {
				db, err := openDB(ctx, p.cfg.Database.DSN)
				if err != nil {
					return nil, nil, err
				}
				return db, db.Close, nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "graph",
		Short: "Replace the contents of the configured Neo4j database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(func(ctx context.Context, p *project) (export.Target, func(context.Context) error, error) {
				client, err := openGraph(ctx, p.cfg)
				if err != nil {
					return nil, nil, err
				}
				return client, client.Close, nil
			})
		},
	})
	return cmd
}

type openTarget func(ctx context.Context, p *project) (export.Target, func(context.Context) error, error)

func runExport(open openTarget) error {
	ctx := context.Background()

	p, err := openProject()
	if err != nil {
		return err
	}
	idx, result, err := p.load(ctx, true)
	if err != nil {
		return err
	}
	if err := reportFailures(result); err != nil {
		return fmt.Errorf("refusing to export a partial load: %w", err)
	}

	target, closeTarget, err := open(ctx, p)
	if err != nil {
		return err
	}
	defer closeTarget(ctx)

	summary, err := export.Run(ctx, idx, target)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Export complete.")
	fmt.Fprintf(os.Stdout, "  Stats written:     %d\n", summary.Stats)
	fmt.Fprintf(os.Stdout, "  Templates written: %d\n", summary.Templates)
	fmt.Fprintf(os.Stdout, "  Stats removed:     %d\n", summary.StatsRemoved)
	fmt.Fprintf(os.Stdout, "  Templates removed: %d\n", summary.TemplatesRemoved)
	return nil
}
