package graph

import (
	"context"
	"fmt"

	"rootforge/internal/store"
)

// batchSize bounds the rows sent with one UNWIND.
const batchSize = 1000

const mergeStats = `
UNWIND $rows AS row
MERGE (s:Stat {entry_id: row.entry_id})
SET s.kind = row.kind,
    s.using = row.using,
    s.source_file = row.source_file,
    s.fields = row.fields,
    s.exported_at = datetime()
WITH s
OPTIONAL MATCH (s)-[r:INHERITS_FROM]->()
DELETE r
`

const linkStats = `
UNWIND $rows AS row
WITH row WHERE row.using <> ''
MATCH (s:Stat {entry_id: row.entry_id})
MATCH (b:Stat {entry_id: row.using})
MERGE (s)-[:INHERITS_FROM]->(b)
`

const mergeTemplates = `
UNWIND $rows AS row
MERGE (t:Template {key: row.key})
SET t.map_key = row.map_key,
    t.parent_key = row.parent_key,
    t.pak_origin = row.pak_origin,
    t.type = row.type,
    t.name = row.name,
    t.display_name = row.display_name,
    t.description = row.description,
    t.icon = row.icon,
    t.stats_ref = row.stats_ref,
    t.character_visual_resource_id = row.character_visual_resource_id,
    t.visual_template = row.visual_template,
    t.depth = row.depth,
    t.root_key = row.root_key,
    t.exported_at = datetime()
WITH t
OPTIONAL MATCH (t)-[r:CHILD_OF|USES_STATS]->()
DELETE r
`

const linkParents = `
UNWIND $rows AS row
WITH row WHERE row.parent_key <> ''
MATCH (t:Template {key: row.key})
MATCH (p:Template {key: toLower(row.parent_key)})
MERGE (t)-[:CHILD_OF]->(p)
`

const linkStatsRefs = `
UNWIND $rows AS row
WITH row WHERE row.stats_ref <> ''
MATCH (t:Template {key: row.key})
MATCH (s:Stat {entry_id: row.stats_ref})
MERGE (t)-[:USES_STATS]->(s)
`

// UpsertStats merges Stat nodes, then rebuilds their INHERITS_FROM edges
// once every node of rows exists.
func (c *Client) UpsertStats(ctx context.Context, rows []store.StatRow) error {
	params := make([]map[string]any, len(rows))
	for i, r := range rows {
		fields, err := r.FieldsJSON()
		if err != nil {
			return err
		}
		params[i] = map[string]any{
			"entry_id":    r.EntryID,
			"kind":        r.Kind,
			"using":       r.Using,
			"source_file": r.Source,
			"fields":      string(fields),
		}
	}
	if err := c.inBatches(ctx, mergeStats, params); err != nil {
		return fmt.Errorf("upserting stats: %w", err)
	}
	if err := c.inBatches(ctx, linkStats, params); err != nil {
		return fmt.Errorf("linking stats: %w", err)
	}
	return nil
}

// UpsertTemplates merges Template nodes, then links CHILD_OF to parents
// and USES_STATS to Stat nodes already present.
func (c *Client) UpsertTemplates(ctx context.Context, rows []store.TemplateRow) error {
	params := make([]map[string]any, len(rows))
	for i, r := range rows {
		params[i] = map[string]any{
			"key":                          store.NormalizeKey(r.MapKey),
			"map_key":                      r.MapKey,
			"parent_key":                   r.ParentTemplateID,
			"pak_origin":                   r.PakOrigin,
			"type":                         r.Type,
			"name":                         r.Name,
			"display_name":                 r.DisplayName,
			"description":                  r.Description,
			"icon":                         r.Icon,
			"stats_ref":                    r.StatsRef,
			"character_visual_resource_id": r.CharacterVisualResourceID,
			"visual_template":              r.VisualTemplate,
			"depth":                        int64(r.Depth),
			"root_key":                     r.RootKey,
		}
	}
	if err := c.inBatches(ctx, mergeTemplates, params); err != nil {
		return fmt.Errorf("upserting templates: %w", err)
	}
	if err := c.inBatches(ctx, linkParents, params); err != nil {
		return fmt.Errorf("linking template parents: %w", err)
	}
	if err := c.inBatches(ctx, linkStatsRefs, params); err != nil {
		return fmt.Errorf("linking template stats: %w", err)
	}
	return nil
}

func (c *Client) inBatches(ctx context.Context, query string, rows []map[string]any) error {
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		if err := c.write(ctx, query, map[string]any{"rows": rows[start:end]}); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) RemoveStaleStats(ctx context.Context, current []string) (int64, error) {
	if current == nil {
		current = []string{}
	}
	n, err := c.writeCount(ctx, `
MATCH (s:Stat)
WHERE NOT s.entry_id IN $current
DETACH DELETE s
RETURN count(s) AS n
`, map[string]any{"current": current})
	if err != nil {
		return 0, fmt.Errorf("removing stale stats: %w", err)
	}
	return n, nil
}

func (c *Client) RemoveStaleTemplates(ctx context.Context, pak string, current []string) (int64, error) {
	keys := make([]string, len(current))
	for i, k := range current {
		keys[i] = store.NormalizeKey(k)
	}
	n, err := c.writeCount(ctx, `
MATCH (t:Template {pak_origin: $pak})
WHERE NOT t.key IN $current
DETACH DELETE t
RETURN count(t) AS n
`, map[string]any{"pak": pak, "current": keys})
	if err != nil {
		return 0, fmt.Errorf("removing stale templates of %s: %w", pak, err)
	}
	return n, nil
}

func (c *Client) Paks(ctx context.Context) ([]string, error) {
	rows, err := c.RunCypher(ctx, `
MATCH (t:Template)
RETURN DISTINCT t.pak_origin AS pak
ORDER BY pak
`, nil)
	if err != nil {
		return nil, fmt.Errorf("listing paks: %w", err)
	}
	paks := make([]string, 0, len(rows))
	for _, row := range rows {
		if pak, ok := row["pak"].(string); ok {
			paks = append(paks, pak)
		}
	}
	return paks, nil
}
