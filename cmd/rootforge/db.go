package main

import (
	"context"
	"fmt"
	"strings"

	"rootforge/internal/config"
	"rootforge/internal/graph"
	"rootforge/internal/store"
	"rootforge/internal/store/postgres"
	"rootforge/internal/store/sqlite"
)

func openDB(ctx context.Context, dsn string) (store.Store, error) {
	switch {
	case dsn == "":
		return nil, fmt.Errorf("database.dsn is not configured")
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite.New(ctx, dsn)
	default:
		return postgres.New(ctx, dsn)
	}
}

func openGraph(ctx context.Context, cfg *config.ProjectConfig) (*graph.Client, error) {
	if cfg.Neo4j.URI == "" {
		return nil, fmt.Errorf("neo4j.uri is not configured")
	}
	return graph.NewClient(ctx, cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, cfg.Neo4j.Database)
}
