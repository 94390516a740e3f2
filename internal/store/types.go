package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StatRow is one exported stat entry. Fields holds the typed values in
// their plain JSON form.
type StatRow struct {
	EntryID string
	Kind    string
	Using   string
	Source  string
	Fields  map[string]any
}

// FieldsJSON encodes Fields for a JSON column.
func (r StatRow) FieldsJSON() ([]byte, error) {
	if r.Fields == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(r.Fields)
	if err != nil {
		return nil, fmt.Errorf("marshaling fields of %s: %w", r.EntryID, err)
	}
	return data, nil
}

// TemplateRow is one exported template after cascade. Depth and RootKey
// place it in the forest; both are zero values for unplaced rows.
type TemplateRow struct {
	MapKey                    string
	ParentTemplateID          string
	PakOrigin                 string
	Type                      string
	Name                      string
	DisplayName               string
	Description               string
	Icon                      string
	StatsRef                  string
	CharacterVisualResourceID string
	VisualTemplate            string
	Depth                     int
	RootKey                   string
}

// NormalizeKey folds a map key the way the forest indexes it.
func NormalizeKey(key string) string { return strings.ToLower(key) }

// PositionalArgs orders RunSQL params keyed "1".."n". Numbering stops at the
// first missing key.
func PositionalArgs(params map[string]any) []any {
	args := make([]any, 0, len(params))
	for i := 1; ; i++ {
		val, ok := params[strconv.Itoa(i)]
		if !ok {
			return args
		}
		args = append(args, val)
	}
}

// PlainValue converts a driver value into something that encodes readably
// as JSON. Byte slices become strings.
func PlainValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
