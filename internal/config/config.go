package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "rootforge.yaml"

type ProjectConfig struct {
	Project  string         `yaml:"project"`
	Version  int            `yaml:"version"`
	Sources  []Source       `yaml:"sources"`
	Exclude  []string       `yaml:"exclude"`
	Assembly AssemblyConfig `yaml:"assembly"`
	Database DatabaseConfig `yaml:"database"`
	Neo4j    Neo4jConfig    `yaml:"neo4j"`
	Snapshot string         `yaml:"snapshot"`
	Workers  int            `yaml:"workers"`
	LogLevel string         `yaml:"log_level"`
}

// Source is one unpacked pak. Sources are merged in declaration order, so a
// later source overrides stats and templates of an earlier one.
type Source struct {
	Name         string   `yaml:"name"`
	Stats        []string `yaml:"stats"`
	Templates    []string `yaml:"templates"`
	Localization []string `yaml:"localization"`
}

type AssemblyConfig struct {
	Orphans string `yaml:"orphans"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

const (
	OrphansDrop    = "drop"
	OrphansPromote = "promote"
)

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}
	return ParseProjectConfig(data)
}

func ParseProjectConfig(data []byte) (*ProjectConfig, error) {
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}

	seen := make(map[string]struct{})
	for i, source := range cfg.Sources {
		if strings.TrimSpace(source.Name) == "" {
			return fmt.Errorf("source %d name is required", i)
		}
		if len(source.Stats)+len(source.Templates)+len(source.Localization) == 0 {
			return fmt.Errorf("source %s has no paths", source.Name)
		}
		key := strings.ToLower(source.Name)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("duplicate source name: %s", source.Name)
		}
		seen[key] = struct{}{}
	}

	switch cfg.Assembly.Orphans {
	case "", OrphansDrop, OrphansPromote:
	default:
		return fmt.Errorf("assembly.orphans must be %q or %q, got %q", OrphansDrop, OrphansPromote, cfg.Assembly.Orphans)
	}

	if dsn := cfg.Database.DSN; dsn != "" && !isSupportedDSN(dsn) {
		return fmt.Errorf("unsupported database dsn: %s", dsn)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return err
	}

	return nil
}

func isSupportedDSN(dsn string) bool {
	for _, prefix := range []string{"sqlite://", "postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return true
		}
	}
	return false
}

// Level returns the configured log level, info when unset.
func (c *ProjectConfig) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level: %s", name)
}

// Scaffold renders a starter config for init.
func Scaffold(project string) string {
	return fmt.Sprintf(`project: %s
version: 1

sources:
  - name: Shared
    stats:
      - ./Shared/Public/Shared/Stats/Generated/Data/
    templates:
      - ./Shared/Public/Shared/RootTemplates/
    localization:
      - ./English/Localization/English/
  - name: Gustav
    stats:
      - ./Gustav/Public/Gustav/Stats/Generated/Data/
    templates:
      - ./Gustav/Public/Gustav/RootTemplates/

exclude:
  - ./Shared/Public/Shared/Stats/Generated/Data/Unused/

assembly:
  orphans: drop

database:
  dsn: sqlite://rootforge.db

neo4j:
  uri: bolt://localhost:7687
  username: neo4j
  password: changeme
  database: neo4j

snapshot: .rootforge/index.snap
workers: 0
log_level: info
`, project)
}
