package stats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"

	"rootforge/internal/diag"
)

var (
	ErrNoEntry        = errors.New("directive before first new entry")
	ErrMissingID      = errors.New("new entry without an id")
	ErrUnknownBase    = errors.New("using references an undefined entry")
	ErrDuplicateUsing = errors.New("using declared more than once")
)

// SyntaxError is a fatal structural error in a stat file.
type SyntaxError struct {
	Line int
	Text string
	Err  error
}

func (e *SyntaxError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %v: %s", e.Line, e.Err, e.Text)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Field is one raw key/value pair as written in the file.
type Field struct {
	Key   string
	Value string
}

// RawRecord is a stat entry before type coercion. Base is the name given by
// a using directive; Prototype records it after resolution.
type RawRecord struct {
	EntryID   string
	Kind      string
	Fields    []Field
	Base      string
	Prototype string
	Line      int
}

// Get returns the raw value of key.
func (r RawRecord) Get(key string) (string, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

func (r RawRecord) clone() RawRecord {
	r.Fields = append([]Field(nil), r.Fields...)
	return r
}

// set replaces key in place or appends it.
func (r *RawRecord) set(key, value string) {
	for i := range r.Fields {
		if r.Fields[i].Key == key {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{Key: key, Value: value})
}

const (
	directiveEntry = "new entry"
	directiveType  = "type"
	directiveUsing = "using"
	directiveData  = "data"
)

// Parse lexes one stat file into records in file order. Lines without a
// quoted key/value pair are reported to sink and skipped.
func Parse(src []byte, sink diag.Sink) ([]RawRecord, error) {
	var (
		records []RawRecord
		current *RawRecord
		emitted = make(map[string]struct{})
	)

	flush := func() {
		if current == nil {
			return
		}
		records = append(records, *current)
		emitted[current.EntryID] = struct{}{}
		current = nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		if rest, ok := cutDirective(line, directiveEntry); ok {
			flush()
			id := unquote(rest)
			if id == "" {
				return nil, &SyntaxError{Line: lineNo, Text: line, Err: ErrMissingID}
			}
			current = &RawRecord{EntryID: id, Line: lineNo}
			continue
		}

		if current == nil {
			return nil, &SyntaxError{Line: lineNo, Text: line, Err: ErrNoEntry}
		}

		if rest, ok := cutDirective(line, directiveType); ok {
			current.Kind = unquote(rest)
			continue
		}

		if rest, ok := cutDirective(line, directiveUsing); ok {
			if current.Base != "" {
				return nil, &SyntaxError{Line: lineNo, Text: line, Err: ErrDuplicateUsing}
			}
			base := unquote(rest)
			if _, ok := emitted[base]; !ok {
				return nil, &SyntaxError{Line: lineNo, Text: line, Err: fmt.Errorf("%w: %q", ErrUnknownBase, base)}
			}
			current.Base = base
			continue
		}

		key, value, ok := splitPair(line)
		if !ok {
			diag.Reportf(sink, diag.SeverityWarning, "line %d: skipping line without key/value pair: %s", lineNo, line)
			continue
		}
		current.set(key, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan stat file: %w", err)
	}
	flush()
	return records, nil
}

// cutDirective matches a keyword followed by whitespace or a quote.
func cutDirective(line, keyword string) (string, bool) {
	if !strings.HasPrefix(line, keyword) || len(line) == len(keyword) {
		return "", false
	}
	switch line[len(keyword)] {
	case ' ', '\t', '"':
		return strings.TrimSpace(line[len(keyword):]), true
	}
	return "", false
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if start := strings.IndexByte(s, '"'); start >= 0 {
		if end := strings.IndexByte(s[start+1:], '"'); end >= 0 {
			return s[start+1 : start+1+end]
		}
		return strings.TrimSpace(s[start+1:])
	}
	return s
}

// splitPair reads `data "key" "value"` or `key "value"`.
func splitPair(line string) (string, string, bool) {
	if rest, ok := cutDirective(line, directiveData); ok {
		quoted := quotedParts(rest, 2)
		if len(quoted) < 2 || quoted[0] == "" {
			return "", "", false
		}
		return quoted[0], quoted[1], true
	}

	open := strings.IndexByte(line, '"')
	if open <= 0 {
		return "", "", false
	}
	key := strings.TrimSpace(line[:open])
	quoted := quotedParts(line[open:], 1)
	if key == "" || len(quoted) < 1 {
		return "", "", false
	}
	return key, quoted[0], true
}

func quotedParts(s string, n int) []string {
	parts := make([]string, 0, n)
	for len(parts) < n {
		open := strings.IndexByte(s, '"')
		if open < 0 {
			break
		}
		s = s[open+1:]
		end := strings.IndexByte(s, '"')
		if end < 0 {
			break
		}
		parts = append(parts, s[:end])
		s = s[end+1:]
	}
	return parts
}
