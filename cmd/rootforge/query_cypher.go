package main

import (
	"context"

	"github.com/spf13/cobra"
)

func queryCypherCmd() *cobra.Command {
	return rawQueryCmd("cypher", "Execute a raw Cypher query against the export graph",
		"Query parameter as key=value (repeatable)",
		func(ctx context.Context, p *project, query string, params map[string]any) ([]map[string]any, error) {
			client, err := openGraph(ctx, p.cfg)
			if err != nil {
				return nil, err
			}
			defer client.Close(ctx)
			return client.RunCypher(ctx, query, params)
		})
}
