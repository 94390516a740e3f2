package store

import (
	"context"
)

// Store is a relational export target.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	UpsertStats(ctx context.Context, rows []StatRow) error
	UpsertTemplates(ctx context.Context, rows []TemplateRow) error
	RemoveStaleStats(ctx context.Context, current []string) (int64, error)
	RemoveStaleTemplates(ctx context.Context, pak string, current []string) (int64, error)
	Paks(ctx context.Context) ([]string, error)

	RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}
