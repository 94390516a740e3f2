package sqlite

import (
	"context"
	"fmt"
	"strings"
)

const ddl = `
CREATE TABLE IF NOT EXISTS stats (
	entry_id    TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	using_entry TEXT NOT NULL DEFAULT '',
	source_file TEXT NOT NULL DEFAULT '',
	fields      TEXT NOT NULL DEFAULT '{}',
	exported_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS templates (
	key_normalized               TEXT PRIMARY KEY,
	map_key                      TEXT NOT NULL,
	parent_key                   TEXT NOT NULL DEFAULT '',
	pak_origin                   TEXT NOT NULL,
	type                         TEXT NOT NULL,
	name                         TEXT NOT NULL DEFAULT '',
	display_name                 TEXT NOT NULL DEFAULT '',
	description                  TEXT NOT NULL DEFAULT '',
	icon                         TEXT NOT NULL DEFAULT '',
	stats_ref                    TEXT NOT NULL DEFAULT '',
	character_visual_resource_id TEXT NOT NULL DEFAULT '',
	visual_template              TEXT NOT NULL DEFAULT '',
	depth                        INTEGER NOT NULL DEFAULT 0,
	root_key                     TEXT NOT NULL DEFAULT '',
	exported_at                  TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_stats_kind ON stats (kind);
CREATE INDEX IF NOT EXISTS idx_stats_using ON stats (using_entry);
CREATE INDEX IF NOT EXISTS idx_templates_pak ON templates (pak_origin);
CREATE INDEX IF NOT EXISTS idx_templates_parent ON templates (parent_key);
CREATE INDEX IF NOT EXISTS idx_templates_root ON templates (root_key);
CREATE INDEX IF NOT EXISTS idx_templates_stats_ref ON templates (stats_ref);
CREATE INDEX IF NOT EXISTS idx_templates_name ON templates (name);
`

func (c *Client) EnsureSchema(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning schema transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w\nstatement: %s", err, stmt)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema: %w", err)
	}
	return nil
}

func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		statements = append(statements, current.String())
	}

	return statements
}
