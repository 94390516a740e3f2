package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"1=Base_Club", " kind = Weapon ", "", "expr=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"1": "Base_Club", "kind": "Weapon", "expr": "a=b"}, params)

	_, err = parseParams([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseParams([]string{"=x"})
	assert.Error(t, err)
}

func TestPrintRowsJSON(t *testing.T) {
	var out bytes.Buffer
	err := printRows(&out, []map[string]any{{"entry_id": "Base_Club"}}, "json")
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"entry_id": "Base_Club"`)
}

func TestPrintRowsTable(t *testing.T) {
	var out bytes.Buffer
	rows := []map[string]any{
		{"entry_id": "Base_Club", "kind": "Weapon"},
		{"entry_id": "Special_Club", "fields": map[string]any{"Damage": "1d6"}},
	}
	require.NoError(t, printRows(&out, rows, "table"))

	text := out.String()
	for _, want := range []string{"entry_id", "fields", "kind", "Base_Club", "Special_Club", `{"Damage":"1d6"}`} {
		assert.Contains(t, text, want)
	}
	assert.Less(t, strings.Index(text, "entry_id"), strings.Index(text, "kind"))
}

func TestPrintRowsRejectsUnknownFormat(t *testing.T) {
	assert.Error(t, printRows(&bytes.Buffer{}, nil, "csv"))
}

func TestRowColumnsUnion(t *testing.T) {
	cols := rowColumns([]map[string]any{{"b": 1}, {"a": 2, "b": 3}})
	assert.Equal(t, []string{"a", "b"}, cols)
}
