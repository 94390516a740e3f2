package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type Client struct {
	driver   neo4j.DriverWithContext
	database string
}

func NewClient(ctx context.Context, uri, username, password, database string) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verifying neo4j connectivity: %w", err)
	}

	return &Client{driver: driver, database: database}, nil
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.driver == nil {
		return nil
	}
	return c.driver.Close(ctx)
}

// schemaObject is a named constraint or index created by EnsureSchema.
type schemaObject struct {
	name       string
	constraint bool
	ddl        string
}

var schemaObjects = []schemaObject{
	{name: "template_key", constraint: true, ddl: "FOR (t:Template) REQUIRE t.key IS UNIQUE"},
	{name: "stat_entry_id", constraint: true, ddl: "FOR (s:Stat) REQUIRE s.entry_id IS UNIQUE"},
	{name: "template_pak", ddl: "FOR (t:Template) ON (t.pak_origin)"},
	{name: "template_name", ddl: "FOR (t:Template) ON (t.name)"},
	{name: "stat_kind", ddl: "FOR (s:Stat) ON (s.kind)"},
}

func (o schemaObject) statement() string {
	kind := "INDEX"
	if o.constraint {
		kind = "CONSTRAINT"
	}
	return fmt.Sprintf("CREATE %s %s IF NOT EXISTS %s", kind, o.name, o.ddl)
}

// EnsureSchema creates the uniqueness constraints and lookup indexes.
func (c *Client) EnsureSchema(ctx context.Context) error {
	for _, obj := range schemaObjects {
		if err := c.write(ctx, obj.statement(), nil); err != nil {
			return fmt.Errorf("ensuring %s: %w", obj.name, err)
		}
	}
	return nil
}

func (c *Client) write(ctx context.Context, query string, params map[string]any) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, query, params)
		return nil, err
	})
	return err
}

// writeCount runs a write query returning a single count column.
func (c *Client) writeCount(ctx context.Context, query string, params map[string]any) (int64, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database})
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		if res.Next(ctx) {
			value, _ := res.Record().Get("n")
			if count, ok := value.(int64); ok {
				return count, nil
			}
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return int64(0), nil
	})
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}
