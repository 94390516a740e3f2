package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"rootforge/internal/snapshot"
)

func snapshotCmd() *cobra.Command {
	var output string
	var compression string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Decode every source and save the index for faster loads",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(output, compression)
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "Snapshot path (defaults to the configured snapshot)")
	cmd.Flags().StringVar(&compression, "compression", "zstd", "Compression: none, lz4 or zstd")
	return cmd
}

func runSnapshot(output, compressionName string) error {
	ctx := context.Background()

	compression, err := snapshot.ParseCompression(compressionName)
	if err != nil {
		return err
	}

	p, err := openProject()
	if err != nil {
		return err
	}
	if output == "" {
		if p.cfg.Snapshot == "" {
			return fmt.Errorf("--output is required when no snapshot path is configured")
		}
		output = p.path(p.cfg.Snapshot)
	}

	idx, result, err := p.load(ctx, false)
	if err != nil {
		return err
	}
	// a snapshot cannot record per-file failures
	if err := reportFailures(result); err != nil {
		return fmt.Errorf("refusing to snapshot a partial load: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	tmp := output + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := snapshot.Save(f, idx.Snapshot(), compression); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(tmp, output); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Wrote %s (%s, %d files).\n", output, compression, len(result.Files))
	return nil
}
