// Package loca loads localization files into an immutable handle→text table.
package loca

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformed wraps XML that cannot be tokenized.
var ErrMalformed = errors.New("malformed localization XML")

// Table maps translation handles to text. It is never mutated after
// construction and may be shared between goroutines.
type Table struct {
	entries map[string]string
}

// Empty returns a table with no entries. Lookups on it yield "".
func Empty() *Table {
	return &Table{entries: map[string]string{}}
}

// FromMap copies m into a new table.
func FromMap(m map[string]string) *Table {
	entries := make(map[string]string, len(m))
	for k, v := range m {
		entries[k] = v
	}
	return &Table{entries: entries}
}

// Load reads <content contentuid="..."> elements. Repeated ids keep the
// last text seen.
func Load(r io.Reader) (*Table, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	entries := make(map[string]string)

	var (
		current string
		inside  bool
		text    strings.Builder
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "content" {
				continue
			}
			current = attr(t, "contentuid")
			inside = true
			text.Reset()
		case xml.CharData:
			if inside {
				text.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local != "content" || !inside {
				continue
			}
			if current != "" {
				entries[current] = text.String()
			}
			inside = false
		}
	}

	return &Table{entries: entries}, nil
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// Lookup returns the text for handle, or "" when the handle is unknown.
func (t *Table) Lookup(handle string) string {
	if t == nil {
		return ""
	}
	return t.entries[handle]
}

// Has reports whether handle is present.
func (t *Table) Has(handle string) bool {
	if t == nil {
		return false
	}
	_, ok := t.entries[handle]
	return ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of the mapping.
func (t *Table) Entries() map[string]string {
	out := make(map[string]string, t.Len())
	if t == nil {
		return out
	}
	for k, v := range t.entries {
		out[k] = v
	}
	return out
}

// Merge combines tables in order; later tables win on shared handles.
func Merge(tables ...*Table) *Table {
	size := 0
	for _, t := range tables {
		size += t.Len()
	}
	entries := make(map[string]string, size)
	for _, t := range tables {
		if t == nil {
			continue
		}
		for k, v := range t.entries {
			entries[k] = v
		}
	}
	return &Table{entries: entries}
}
