package main

import (
	"context"

	"github.com/spf13/cobra"
)

func querySQLCmd() *cobra.Command {
	return rawQueryCmd("sql", "Execute a raw SQL query against the export database",
		"Positional parameter as n=value, numbered from 1 (repeatable)",
		func(ctx context.Context, p *project, query string, params map[string]any) ([]map[string]any, error) {
			db, err := openDB(ctx, p.cfg.Database.DSN)
			if err != nil {
				return nil, err
			}
			defer db.Close(ctx)
			return db.RunSQL(ctx, query, params)
		})
}
