package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// RunCypher runs an ad-hoc read query routed to readers. Nodes and
// relationships in the result are flattened to their properties plus
// identifying metadata.
func (c *Client) RunCypher(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	result, err := neo4j.ExecuteQuery(ctx, c.driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.database),
		neo4j.ExecuteQueryWithReadersRouting())
	if err != nil {
		return nil, fmt.Errorf("run cypher: %w", err)
	}

	rows := make([]map[string]any, 0, len(result.Records))
	for _, record := range result.Records {
		row := make(map[string]any, len(record.Keys))
		for i, key := range record.Keys {
			row[key] = plainValue(record.Values[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func plainValue(v any) any {
	switch v := v.(type) {
	case neo4j.Node:
		return map[string]any{"labels": v.Labels, "properties": v.Props}
	case neo4j.Relationship:
		return map[string]any{"type": v.Type, "properties": v.Props}
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = plainValue(item)
		}
		return out
	default:
		return v
	}
}
