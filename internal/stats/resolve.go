package stats

import (
	"fmt"

	"rootforge/internal/diag"
)

// Resolver materializes using-inheritance. Records must be fed in file
// order; a base is looked up among the records resolved so far.
type Resolver struct {
	sink     diag.Sink
	resolved map[string]RawRecord
}

func NewResolver(sink diag.Sink) *Resolver {
	return &Resolver{sink: sink, resolved: make(map[string]RawRecord)}
}

// Resolve returns rec with its base fields cloned in and its own fields
// patched over them. The base record is never modified.
func (r *Resolver) Resolve(rec RawRecord) (RawRecord, error) {
	out := rec.clone()
	if rec.Base != "" {
		base, ok := r.resolved[rec.Base]
		if !ok {
			return RawRecord{}, &SyntaxError{Line: rec.Line, Err: fmt.Errorf("%w: %q", ErrUnknownBase, rec.Base)}
		}
		out = patch(base, rec)
	}

	if _, dup := r.resolved[out.EntryID]; dup {
		diag.Reportf(r.sink, diag.SeverityWarning, "line %d: entry %q redefined, later definition wins", rec.Line, out.EntryID)
	}
	r.resolved[out.EntryID] = out.clone()
	return out, nil
}

// ResolveAll resolves records in order and stops at the first fatal error.
func (r *Resolver) ResolveAll(records []RawRecord) ([]RawRecord, error) {
	out := make([]RawRecord, 0, len(records))
	for _, rec := range records {
		resolved, err := r.Resolve(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

// Lookup returns a copy of an already resolved record.
func (r *Resolver) Lookup(id string) (RawRecord, bool) {
	rec, ok := r.resolved[id]
	if !ok {
		return RawRecord{}, false
	}
	return rec.clone(), true
}

func patch(base, own RawRecord) RawRecord {
	fields := make([]Field, len(base.Fields), len(base.Fields)+len(own.Fields))
	copy(fields, base.Fields)
	pos := make(map[string]int, len(fields))
	for i, f := range fields {
		pos[f.Key] = i
	}
	for _, f := range own.Fields {
		if i, ok := pos[f.Key]; ok {
			fields[i].Value = f.Value
			continue
		}
		pos[f.Key] = len(fields)
		fields = append(fields, f)
	}
	return RawRecord{
		EntryID:   own.EntryID,
		Kind:      own.Kind,
		Fields:    fields,
		Prototype: own.Base,
		Line:      own.Line,
	}
}
