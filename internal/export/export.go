// Package export writes a loaded index to a relational or graph target.
package export

import (
	"context"
	"maps"
	"slices"

	"rootforge/internal/forest"
	"rootforge/internal/ingest"
	"rootforge/internal/store"
)

// Target receives exported rows. store.Store and graph.Client both
// satisfy it.
type Target interface {
	EnsureSchema(ctx context.Context) error
	UpsertStats(ctx context.Context, rows []store.StatRow) error
	UpsertTemplates(ctx context.Context, rows []store.TemplateRow) error
	RemoveStaleStats(ctx context.Context, current []string) (int64, error)
	RemoveStaleTemplates(ctx context.Context, pak string, current []string) (int64, error)
	Paks(ctx context.Context) ([]string, error)
}

type Summary struct {
	Stats            int
	Templates        int
	StatsRemoved     int64
	TemplatesRemoved int64
}

// Run replaces the target's content with idx. Stats go first so template
// rows can link to them. Templates are replaced per pak origin; a pak no
// longer loaded loses all its rows.
func Run(ctx context.Context, idx *ingest.Index, target Target) (*Summary, error) {
	if err := target.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	statRows := StatRows(idx)
	templateRows := TemplateRows(idx.Forest)
	summary := &Summary{Stats: len(statRows), Templates: len(templateRows)}

	if err := target.UpsertStats(ctx, statRows); err != nil {
		return nil, err
	}
	if err := target.UpsertTemplates(ctx, templateRows); err != nil {
		return nil, err
	}

	byPak := make(map[string][]string)
	for _, r := range templateRows {
		byPak[r.PakOrigin] = append(byPak[r.PakOrigin], r.MapKey)
	}
	existing, err := target.Paks(ctx)
	if err != nil {
		return nil, err
	}
	for _, pak := range existing {
		if _, ok := byPak[pak]; !ok {
			byPak[pak] = nil
		}
	}
	for _, pak := range slices.Sorted(maps.Keys(byPak)) {
		n, err := target.RemoveStaleTemplates(ctx, pak, byPak[pak])
		if err != nil {
			return nil, err
		}
		summary.TemplatesRemoved += n
	}

	ids := make([]string, len(statRows))
	for i, r := range statRows {
		ids[i] = r.EntryID
	}
	n, err := target.RemoveStaleStats(ctx, ids)
	if err != nil {
		return nil, err
	}
	summary.StatsRemoved = n

	return summary, nil
}

// StatRows converts every stat of idx in load order. Fields that failed
// coercion are left out.
func StatRows(idx *ingest.Index) []store.StatRow {
	raw := idx.StatRecords()
	rows := make([]store.StatRow, 0, len(raw))
	for _, rec := range raw {
		row := store.StatRow{
			EntryID: rec.EntryID,
			Kind:    rec.Kind,
			Using:   rec.Prototype,
			Source:  idx.StatOrigin(rec.EntryID),
			Fields:  map[string]any{},
		}
		if typed, ok := idx.Stat(rec.EntryID); ok && typed != nil {
			for key, value := range typed.Fields {
				row.Fields[key] = value.Interface()
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// TemplateRows converts every template reachable from a root, in preorder.
// Dropped orphans and cycle members are not exported.
func TemplateRows(f *forest.Forest) []store.TemplateRow {
	rows := make([]store.TemplateRow, 0, f.Len())
	var rootKey string
	f.Walk(func(id forest.NodeID, depth int) bool {
		rec := f.Record(id)
		if depth == 0 {
			rootKey = rec.MapKey
		}
		rows = append(rows, store.TemplateRow{
			MapKey:                    rec.MapKey,
			ParentTemplateID:          rec.ParentTemplateID,
			PakOrigin:                 rec.PakOrigin,
			Type:                      string(rec.Type),
			Name:                      rec.Name,
			DisplayName:               rec.DisplayName,
			Description:               rec.Description,
			Icon:                      rec.Icon,
			StatsRef:                  rec.StatsRef,
			CharacterVisualResourceID: rec.CharacterVisualResourceID,
			VisualTemplate:            rec.VisualTemplate,
			Depth:                     depth,
			RootKey:                   rootKey,
		})
		return true
	})
	return rows
}
