package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"rootforge/internal/store"
)

const upsertStat = `
INSERT INTO stats (entry_id, kind, using_entry, source_file, fields, exported_at)
VALUES (?, ?, ?, ?, ?, datetime('now'))
ON CONFLICT(entry_id) DO UPDATE SET
	kind = excluded.kind,
	using_entry = excluded.using_entry,
	source_file = excluded.source_file,
	fields = excluded.fields,
	exported_at = excluded.exported_at
`

const upsertTemplate = `
INSERT INTO templates (key_normalized, map_key, parent_key, pak_origin, type, name,
	display_name, description, icon, stats_ref, character_visual_resource_id,
	visual_template, depth, root_key, exported_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
ON CONFLICT(key_normalized) DO UPDATE SET
	map_key = excluded.map_key,
	parent_key = excluded.parent_key,
	pak_origin = excluded.pak_origin,
	type = excluded.type,
	name = excluded.name,
	display_name = excluded.display_name,
	description = excluded.description,
	icon = excluded.icon,
	stats_ref = excluded.stats_ref,
	character_visual_resource_id = excluded.character_visual_resource_id,
	visual_template = excluded.visual_template,
	depth = excluded.depth,
	root_key = excluded.root_key,
	exported_at = excluded.exported_at
`

func (c *Client) UpsertStats(ctx context.Context, rows []store.StatRow) error {
	return c.inTx(ctx, upsertStat, func(stmt *sql.Stmt) error {
		for _, r := range rows {
			fields, err := r.FieldsJSON()
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, r.EntryID, r.Kind, r.Using, r.Source, string(fields)); err != nil {
				return fmt.Errorf("upserting stat %s: %w", r.EntryID, err)
			}
		}
		return nil
	})
}

func (c *Client) UpsertTemplates(ctx context.Context, rows []store.TemplateRow) error {
	return c.inTx(ctx, upsertTemplate, func(stmt *sql.Stmt) error {
		for _, r := range rows {
			_, err := stmt.ExecContext(ctx,
				store.NormalizeKey(r.MapKey), r.MapKey, r.ParentTemplateID, r.PakOrigin, r.Type, r.Name,
				r.DisplayName, r.Description, r.Icon, r.StatsRef, r.CharacterVisualResourceID,
				r.VisualTemplate, r.Depth, r.RootKey,
			)
			if err != nil {
				return fmt.Errorf("upserting template %s: %w", r.MapKey, err)
			}
		}
		return nil
	})
}

// inTx runs fn with query prepared inside a single transaction.
func (c *Client) inTx(ctx context.Context, query string, fn func(*sql.Stmt) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	if err := fn(stmt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// RemoveStaleStats deletes every stat whose id is not in current.
func (c *Client) RemoveStaleStats(ctx context.Context, current []string) (int64, error) {
	keys, err := jsonList(current)
	if err != nil {
		return 0, err
	}
	result, err := c.db.ExecContext(ctx, `
	DELETE FROM stats
	WHERE entry_id NOT IN (SELECT value FROM json_each(?))
	`, keys)
	if err != nil {
		return 0, fmt.Errorf("removing stale stats: %w", err)
	}
	return rowsAffected(result)
}

// RemoveStaleTemplates deletes templates of pak whose map key is not in
// current. Keys compare case-insensitively.
func (c *Client) RemoveStaleTemplates(ctx context.Context, pak string, current []string) (int64, error) {
	normalized := make([]string, len(current))
	for i, k := range current {
		normalized[i] = store.NormalizeKey(k)
	}
	keys, err := jsonList(normalized)
	if err != nil {
		return 0, err
	}
	result, err := c.db.ExecContext(ctx, `
	DELETE FROM templates
	WHERE pak_origin = ?
	  AND key_normalized NOT IN (SELECT value FROM json_each(?))
	`, pak, keys)
	if err != nil {
		return 0, fmt.Errorf("removing stale templates of %s: %w", pak, err)
	}
	return rowsAffected(result)
}

func (c *Client) Paks(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT DISTINCT pak_origin FROM templates ORDER BY pak_origin`)
	if err != nil {
		return nil, fmt.Errorf("listing paks: %w", err)
	}
	defer rows.Close()

	var paks []string
	for rows.Next() {
		var pak string
		if err := rows.Scan(&pak); err != nil {
			return nil, fmt.Errorf("scanning pak: %w", err)
		}
		paks = append(paks, pak)
	}
	return paks, rows.Err()
}

func jsonList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encoding key list: %w", err)
	}
	return string(data), nil
}

func rowsAffected(result sql.Result) (int64, error) {
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return affected, nil
}
