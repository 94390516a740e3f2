package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProjectConfig(t *testing.T) {
	t.Run("valid config loads", func(t *testing.T) {
		cfg, err := LoadProjectConfig(filepath.Join("testdata", "valid_config.yaml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Project != "test-project" {
			t.Fatalf("expected project name, got %q", cfg.Project)
		}
		if len(cfg.Sources) != 2 || cfg.Sources[1].Name != "Gustav" {
			t.Fatalf("unexpected sources: %#v", cfg.Sources)
		}
		if cfg.Assembly.Orphans != OrphansPromote {
			t.Fatalf("expected promote, got %q", cfg.Assembly.Orphans)
		}
		if cfg.Workers != 4 {
			t.Fatalf("expected 4 workers, got %d", cfg.Workers)
		}
		if cfg.Level() != slog.LevelDebug {
			t.Fatalf("expected debug level, got %v", cfg.Level())
		}
	})

	t.Run("scaffold is valid", func(t *testing.T) {
		path := writeTempConfig(t, Scaffold("demo"))
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Project != "demo" || cfg.Level() != slog.LevelInfo {
			t.Fatalf("unexpected scaffold config: %#v", cfg)
		}
	})

	invalid := map[string]string{
		"missing project name":   "version: 1\nsources:\n  - name: Shared\n    stats: [./s]\n",
		"unsupported version":    "project: t\nversion: 2\nsources:\n  - name: Shared\n    stats: [./s]\n",
		"no sources":             "project: t\nversion: 1\n",
		"source missing name":    "project: t\nversion: 1\nsources:\n  - stats: [./s]\n",
		"source without paths":   "project: t\nversion: 1\nsources:\n  - name: Shared\n",
		"duplicate source names": "project: t\nversion: 1\nsources:\n  - name: Shared\n    stats: [./a]\n  - name: shared\n    stats: [./b]\n",
		"bad orphan policy":      "project: t\nversion: 1\nsources:\n  - name: Shared\n    stats: [./s]\nassembly:\n  orphans: keep\n",
		"bad dsn":                "project: t\nversion: 1\nsources:\n  - name: Shared\n    stats: [./s]\ndatabase:\n  dsn: mysql://x\n",
		"negative workers":       "project: t\nversion: 1\nsources:\n  - name: Shared\n    stats: [./s]\nworkers: -1\n",
		"bad log level":          "project: t\nversion: 1\nsources:\n  - name: Shared\n    stats: [./s]\nlog_level: loud\n",
		"invalid yaml":           "project: [\n",
	}
	for name, contents := range invalid {
		t.Run(name, func(t *testing.T) {
			path := writeTempConfig(t, contents)
			if _, err := LoadProjectConfig(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	t.Run("file not found", func(t *testing.T) {
		if _, err := LoadProjectConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
