//go:build integration

package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	client, err := NewClient(ctx, "bolt://localhost:7687", "neo4j", "changeme", "neo4j")
	require.NoError(t, err, "connecting to test neo4j")
	t.Cleanup(func() { _ = client.Close(ctx) })
	return client
}

func TestNewClientBadCredentials(t *testing.T) {
	ctx := context.Background()
	client, err := NewClient(ctx, "bolt://localhost:7687", "neo4j", "wrong", "neo4j")
	if err == nil {
		_ = client.Close(ctx)
	}
	require.Error(t, err)
}

func TestEnsureSchema(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)

	require.NoError(t, client.EnsureSchema(ctx))
	require.NoError(t, client.EnsureSchema(ctx), "second run must be a no-op")

	indexes := showNames(t, client, "SHOW INDEXES YIELD name RETURN name")
	constraints := showNames(t, client, "SHOW CONSTRAINTS YIELD name RETURN name")
	for _, obj := range schemaObjects {
		if obj.constraint {
			require.Contains(t, constraints, obj.name)
		} else {
			require.Contains(t, indexes, obj.name)
		}
	}
}

func showNames(t *testing.T, client *Client, query string) []string {
	t.Helper()
	rows, err := client.RunCypher(context.Background(), query, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if name, ok := row["name"].(string); ok {
			names = append(names, name)
		}
	}
	return names
}
