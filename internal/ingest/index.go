package ingest

import (
	"maps"
	"slices"

	"rootforge/internal/diag"
	"rootforge/internal/forest"
	"rootforge/internal/loca"
	"rootforge/internal/snapshot"
	"rootforge/internal/stats"
	"rootforge/internal/templates"
)

// Index is the merged result of one load. It is read-only once Load
// returns.
type Index struct {
	Forest       *forest.Forest
	Translations *loca.Table

	stats     map[string]*stats.Structure
	raw       []stats.RawRecord
	rawPos    map[string]int
	origin    map[string]string
	templates []templates.Record
	digests   map[string]string
	sink      diag.Sink
}

func newIndex(table *loca.Table, sink diag.Sink) *Index {
	return &Index{
		Translations: table,
		stats:        make(map[string]*stats.Structure),
		rawPos:       make(map[string]int),
		origin:       make(map[string]string),
		sink:         sink,
	}
}

// addStat merges one decoded record. A later definition of an id replaces
// the earlier one.
func (i *Index) addStat(raw stats.RawRecord, typed *stats.Structure, path string) {
	if pos, ok := i.rawPos[raw.EntryID]; ok {
		diag.Reportf(i.sink, diag.SeverityWarning, "stat %q from %s replaces the definition from %s",
			raw.EntryID, path, i.origin[raw.EntryID])
		i.raw[pos] = raw
	} else {
		i.rawPos[raw.EntryID] = len(i.raw)
		i.raw = append(i.raw, raw)
	}
	i.stats[raw.EntryID] = typed
	i.origin[raw.EntryID] = path
}

func (i *Index) Stat(id string) (*stats.Structure, bool) {
	s, ok := i.stats[id]
	return s, ok
}

// StatsFor resolves the cascaded stats reference of a template node.
func (i *Index) StatsFor(id forest.NodeID) (*stats.Structure, bool) {
	ref := i.Forest.Record(id).StatsRef
	if ref == "" {
		return nil, false
	}
	return i.Stat(ref)
}

// StatOrigin returns the file that supplied the winning definition of id.
func (i *Index) StatOrigin(id string) string { return i.origin[id] }

// StatIDs returns every stat entry id, sorted.
func (i *Index) StatIDs() []string {
	return slices.Sorted(maps.Keys(i.stats))
}

// StatRecords returns the resolved text form of every stat in load order.
func (i *Index) StatRecords() []stats.RawRecord {
	return slices.Clone(i.raw)
}

// Templates returns the template records in load order, before assembly.
func (i *Index) Templates() []templates.Record {
	return slices.Clone(i.templates)
}

func (i *Index) Digests() map[string]string { return maps.Clone(i.digests) }

// Snapshot captures the index for a later Load.
func (i *Index) Snapshot() *snapshot.Snapshot {
	return snapshot.New(i.digests, i.Translations, i.raw, i.templates)
}
