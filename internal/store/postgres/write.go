package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"rootforge/internal/store"
)

const upsertStat = `
INSERT INTO stats (entry_id, kind, using_entry, source_file, fields, exported_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (entry_id) DO UPDATE SET
    kind = EXCLUDED.kind,
    using_entry = EXCLUDED.using_entry,
    source_file = EXCLUDED.source_file,
    fields = EXCLUDED.fields,
    exported_at = EXCLUDED.exported_at
`

const upsertTemplate = `
INSERT INTO templates (key_normalized, map_key, parent_key, pak_origin, type, name,
    display_name, description, icon, stats_ref, character_visual_resource_id,
    visual_template, depth, root_key, exported_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now())
ON CONFLICT (key_normalized) DO UPDATE SET
    map_key = EXCLUDED.map_key,
    parent_key = EXCLUDED.parent_key,
    pak_origin = EXCLUDED.pak_origin,
    type = EXCLUDED.type,
    name = EXCLUDED.name,
    display_name = EXCLUDED.display_name,
    description = EXCLUDED.description,
    icon = EXCLUDED.icon,
    stats_ref = EXCLUDED.stats_ref,
    character_visual_resource_id = EXCLUDED.character_visual_resource_id,
    visual_template = EXCLUDED.visual_template,
    depth = EXCLUDED.depth,
    root_key = EXCLUDED.root_key,
    exported_at = EXCLUDED.exported_at
`

func (c *Client) UpsertStats(ctx context.Context, rows []store.StatRow) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		fields, err := r.FieldsJSON()
		if err != nil {
			return err
		}
		batch.Queue(upsertStat, r.EntryID, r.Kind, r.Using, r.Source, fields)
	}
	return c.sendBatch(ctx, batch, "stats")
}

func (c *Client) UpsertTemplates(ctx context.Context, rows []store.TemplateRow) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(upsertTemplate,
			store.NormalizeKey(r.MapKey), r.MapKey, r.ParentTemplateID, r.PakOrigin, r.Type, r.Name,
			r.DisplayName, r.Description, r.Icon, r.StatsRef, r.CharacterVisualResourceID,
			r.VisualTemplate, r.Depth, r.RootKey,
		)
	}
	return c.sendBatch(ctx, batch, "templates")
}

// sendBatch runs batch inside one transaction.
func (c *Client) sendBatch(ctx context.Context, batch *pgx.Batch, what string) error {
	if batch.Len() == 0 {
		return nil
	}
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("upserting %s: %w", what, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("closing batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing %s: %w", what, err)
	}
	return nil
}

func (c *Client) RemoveStaleStats(ctx context.Context, current []string) (int64, error) {
	if current == nil {
		current = []string{}
	}
	tag, err := c.pool.Exec(ctx, `DELETE FROM stats WHERE NOT (entry_id = ANY($1))`, current)
	if err != nil {
		return 0, fmt.Errorf("removing stale stats: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (c *Client) RemoveStaleTemplates(ctx context.Context, pak string, current []string) (int64, error) {
	normalized := make([]string, len(current))
	for i, k := range current {
		normalized[i] = store.NormalizeKey(k)
	}
	tag, err := c.pool.Exec(ctx, `
DELETE FROM templates
WHERE pak_origin = $1
  AND NOT (key_normalized = ANY($2))
`, pak, normalized)
	if err != nil {
		return 0, fmt.Errorf("removing stale templates of %s: %w", pak, err)
	}
	return tag.RowsAffected(), nil
}

func (c *Client) Paks(ctx context.Context) ([]string, error) {
	rows, err := c.pool.Query(ctx, `SELECT DISTINCT pak_origin FROM templates ORDER BY pak_origin`)
	if err != nil {
		return nil, fmt.Errorf("listing paks: %w", err)
	}
	paks, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning paks: %w", err)
	}
	return paks, nil
}
