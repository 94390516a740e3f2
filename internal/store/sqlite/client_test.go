package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rootforge/internal/store"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	c, err := New(ctx, "sqlite://"+filepath.Join(t.TempDir(), "export.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(ctx) })
	require.NoError(t, c.EnsureSchema(ctx))
	return c
}

func count(t *testing.T, c *Client, query string, params map[string]any) int64 {
	t.Helper()
	rows, err := c.RunSQL(context.Background(), query, params)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	n, ok := rows[0]["n"].(int64)
	require.True(t, ok, "count column has type %T", rows[0]["n"])
	return n
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	c := newTestClient(t)
	require.NoError(t, c.EnsureSchema(context.Background()))
}

func TestUpsertStats(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	rows := []store.StatRow{
		{EntryID: "Base_Club", Kind: "Weapon", Source: "Weapon.txt", Fields: map[string]any{"Damage": "1d4"}},
		{EntryID: "Special_Club", Kind: "Weapon", Using: "Base_Club", Source: "Weapon.txt",
			Fields: map[string]any{"Damage": "1d6", "Weapon Properties": []string{"Light", "Melee"}}},
	}
	require.NoError(t, c.UpsertStats(ctx, rows))

	got, err := c.RunSQL(ctx, `SELECT using_entry, json_extract(fields, '$.Damage') AS damage FROM stats WHERE entry_id = ?`,
		map[string]any{"1": "Special_Club"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Base_Club", got[0]["using_entry"])
	assert.Equal(t, "1d6", got[0]["damage"])

	rows[1].Fields["Damage"] = "2d6"
	require.NoError(t, c.UpsertStats(ctx, rows))
	assert.Equal(t, int64(2), count(t, c, `SELECT count(*) AS n FROM stats`, nil))

	got, err = c.RunSQL(ctx, `SELECT json_extract(fields, '$.Damage') AS damage FROM stats WHERE entry_id = ?`,
		map[string]any{"1": "Special_Club"})
	require.NoError(t, err)
	assert.Equal(t, "2d6", got[0]["damage"])
}

func TestUpsertTemplatesFoldsKeys(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	require.NoError(t, c.UpsertTemplates(ctx, []store.TemplateRow{
		{MapKey: "AAAA", PakOrigin: "Shared", Type: "item", Name: "Root", RootKey: "AAAA"},
	}))
	require.NoError(t, c.UpsertTemplates(ctx, []store.TemplateRow{
		{MapKey: "aaaa", PakOrigin: "Shared", Type: "item", Name: "Renamed", RootKey: "aaaa"},
	}))

	got, err := c.RunSQL(ctx, `SELECT map_key, name FROM templates`, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "aaaa", got[0]["map_key"])
	assert.Equal(t, "Renamed", got[0]["name"])
}

func TestRemoveStaleTemplatesIsScopedToPak(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	require.NoError(t, c.UpsertTemplates(ctx, []store.TemplateRow{
		{MapKey: "a", PakOrigin: "Shared", Type: "item"},
		{MapKey: "b", PakOrigin: "Shared", Type: "item"},
		{MapKey: "c", PakOrigin: "Gustav", Type: "item"},
	}))

	removed, err := c.RemoveStaleTemplates(ctx, "Shared", []string{"A"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, int64(2), count(t, c, `SELECT count(*) AS n FROM templates`, nil))

	paks, err := c.Paks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gustav", "Shared"}, paks)

	removed, err = c.RemoveStaleTemplates(ctx, "Gustav", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestRemoveStaleStats(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	require.NoError(t, c.UpsertStats(ctx, []store.StatRow{
		{EntryID: "A", Kind: "Object"},
		{EntryID: "B", Kind: "Object"},
	}))
	removed, err := c.RemoveStaleStats(ctx, []string{"B"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, int64(0), count(t, c, `SELECT count(*) AS n FROM stats WHERE entry_id = ?`, map[string]any{"1": "A"}))
}

func TestParseDSN(t *testing.T) {
	tests := []struct {
		dsn     string
		want    string
		wantErr bool
	}{
		{dsn: "sqlite://:memory:", want: ":memory:"},
		{dsn: "sqlite:///var/lib/export.db", want: "/var/lib/export.db"},
		{dsn: "sqlite://./export.db", want: "./export.db"},
		{dsn: "sqlite://export.db", want: "./export.db"},
		{dsn: "sqlite://my%20data.db?cache=shared", want: "./my data.db?cache=shared"},
		{dsn: "postgres://localhost/db", wantErr: true},
		{dsn: "sqlite://", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			got, err := parseDSN(tt.dsn)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
