package graph

import (
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
)

func TestPlainValueFlattensNodes(t *testing.T) {
	node := neo4j.Node{Labels: []string{"Template"}, Props: map[string]any{"key": "abc"}}
	rel := neo4j.Relationship{Type: "CHILD_OF", Props: map[string]any{}}

	got := plainValue([]any{node, rel, "x"})

	assert.Equal(t, []any{
		map[string]any{"labels": []string{"Template"}, "properties": map[string]any{"key": "abc"}},
		map[string]any{"type": "CHILD_OF", "properties": map[string]any{}},
		"x",
	}, got)
}

func TestSchemaStatements(t *testing.T) {
	assert.Equal(t,
		"CREATE CONSTRAINT template_key IF NOT EXISTS FOR (t:Template) REQUIRE t.key IS UNIQUE",
		schemaObjects[0].statement())
	assert.Equal(t,
		"CREATE INDEX stat_kind IF NOT EXISTS FOR (s:Stat) ON (s.kind)",
		schemaObjects[len(schemaObjects)-1].statement())
}
