package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"rootforge/internal/config"
	"rootforge/internal/diag"
	"rootforge/internal/ingest"
	"rootforge/internal/snapshot"
)

type project struct {
	cfg    *config.ProjectConfig
	dir    string
	logger *slog.Logger
}

// openProject reads the config and sets up logging. Source paths resolve
// against the directory holding the config.
func openProject() (*project, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return nil, err
	}
	level := cfg.Level()
	if logLevel != "" {
		if err := level.UnmarshalText([]byte(logLevel)); err != nil {
			return nil, fmt.Errorf("invalid --log-level: %w", err)
		}
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return &project{cfg: cfg, dir: filepath.Dir(configPath), logger: logger}, nil
}

func (p *project) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.dir, rel)
}

// load decodes every source. When useSnapshot is set and the configured
// snapshot exists, it is offered to the loader.
func (p *project) load(ctx context.Context, useSnapshot bool) (*ingest.Index, *ingest.Result, error) {
	opts := ingest.Options{
		FS:   os.DirFS(p.dir),
		Sink: diag.NewSlogSink(p.logger),
	}
	if useSnapshot && p.cfg.Snapshot != "" {
		snap, err := readSnapshot(p.path(p.cfg.Snapshot))
		switch {
		case err == nil:
			opts.Snapshot = snap
		case errors.Is(err, fs.ErrNotExist):
		default:
			p.logger.Warn("ignoring unreadable snapshot", "path", p.cfg.Snapshot, "error", err)
		}
	}

	idx, result, err := ingest.Load(ctx, p.cfg, opts)
	if err != nil {
		return nil, nil, err
	}
	p.logger.Debug("load finished",
		"files", len(result.Files),
		"failed", len(result.Failed()),
		"snapshot", result.FromSnapshot,
	)
	return idx, result, nil
}

func readSnapshot(path string) (*snapshot.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return snapshot.Load(f)
}
