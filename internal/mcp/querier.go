package mcp

import (
	"rootforge/internal/forest"
	"rootforge/internal/ingest"
	"rootforge/internal/stats"
	"rootforge/internal/templates"
)

// Querier answers tool calls. Template keys compare case-insensitively.
type Querier interface {
	Stat(id string) (*stats.Structure, bool)
	Template(key string) (templates.Record, bool)
	Children(key string) ([]templates.Record, bool)
	Roots() []templates.Record
	Search(m forest.Matcher) []Hit
}

// Hit is one node of a search view with its depth in the view.
type Hit struct {
	Record templates.Record
	Depth  int
}

// IndexQuerier answers from a loaded index.
func IndexQuerier(idx *ingest.Index) Querier { return indexQuerier{idx} }

type indexQuerier struct {
	idx *ingest.Index
}

func (q indexQuerier) Stat(id string) (*stats.Structure, bool) { return q.idx.Stat(id) }

func (q indexQuerier) Template(key string) (templates.Record, bool) {
	id, ok := q.idx.Forest.Lookup(key)
	if !ok {
		return templates.Record{}, false
	}
	return q.idx.Forest.Record(id), true
}

func (q indexQuerier) Children(key string) ([]templates.Record, bool) {
	id, ok := q.idx.Forest.Lookup(key)
	if !ok {
		return nil, false
	}
	return q.records(q.idx.Forest.Children(id)), true
}

func (q indexQuerier) Roots() []templates.Record {
	return q.records(q.idx.Forest.Roots())
}

func (q indexQuerier) Search(m forest.Matcher) []Hit {
	view := forest.Search(q.idx.Forest, m)
	hits := make([]Hit, 0, view.Len())
	view.Walk(func(id forest.NodeID, depth int) bool {
		hits = append(hits, Hit{Record: q.idx.Forest.Record(id), Depth: depth})
		return true
	})
	return hits
}

func (q indexQuerier) records(ids []forest.NodeID) []templates.Record {
	out := make([]templates.Record, len(ids))
	for i, id := range ids {
		out[i] = q.idx.Forest.Record(id)
	}
	return out
}
