// Package snapshot persists a decoded load so that an unchanged source tree
// can skip parsing. Snapshots hold resolved stat records and raw template
// records; typing and tree assembly are redone on restore.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"rootforge/internal/loca"
	"rootforge/internal/stats"
	"rootforge/internal/templates"
)

// FormatVersion changes whenever the encoded layout changes.
const FormatVersion = 1

var (
	ErrVersion = errors.New("unsupported snapshot version")
	ErrFormat  = errors.New("malformed snapshot")
)

type Snapshot struct {
	Version      int                `cbor:"1,keyasint"`
	Digests      map[string]string  `cbor:"2,keyasint"`
	Translations map[string]string  `cbor:"3,keyasint"`
	Stats        []Stat             `cbor:"4,keyasint"`
	Templates    []templates.Record `cbor:"5,keyasint"`
}

// Stat is a resolved stat record as text.
type Stat struct {
	EntryID   string        `cbor:"1,keyasint"`
	Kind      string        `cbor:"2,keyasint"`
	Prototype string        `cbor:"3,keyasint,omitempty"`
	Fields    []stats.Field `cbor:"4,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("snapshot: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("snapshot: CBOR decoder initialization failed: " + err.Error())
	}
}

// New captures a load. digests maps source path to content digest.
func New(digests map[string]string, table *loca.Table, raw []stats.RawRecord, records []templates.Record) *Snapshot {
	s := &Snapshot{
		Version:      FormatVersion,
		Digests:      maps.Clone(digests),
		Translations: table.Entries(),
		Stats:        make([]Stat, len(raw)),
		Templates:    append([]templates.Record(nil), records...),
	}
	for i, rec := range raw {
		s.Stats[i] = Stat{
			EntryID:   rec.EntryID,
			Kind:      rec.Kind,
			Prototype: rec.Prototype,
			Fields:    append([]stats.Field(nil), rec.Fields...),
		}
	}
	return s
}

// Matches reports whether the snapshot was taken from exactly these files.
func (s *Snapshot) Matches(digests map[string]string) bool {
	return s != nil && maps.Equal(s.Digests, digests)
}

func (s *Snapshot) Table() *loca.Table {
	return loca.FromMap(s.Translations)
}

// Records returns the stored stat records ready for coercion.
func (s *Snapshot) Records() []stats.RawRecord {
	out := make([]stats.RawRecord, len(s.Stats))
	for i, st := range s.Stats {
		out[i] = stats.RawRecord{
			EntryID:   st.EntryID,
			Kind:      st.Kind,
			Prototype: st.Prototype,
			Fields:    append([]stats.Field(nil), st.Fields...),
		}
	}
	return out
}

// Save writes the snapshot with the given compression.
func Save(w io.Writer, s *Snapshot, compression Compression) error {
	payload, err := encMode.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	framed, err := compress(payload, compression)
	if err != nil {
		return err
	}
	if _, err := w.Write(framed); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func Load(r io.Reader) (*Snapshot, error) {
	framed, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	payload, err := decompress(framed)
	if err != nil {
		return nil, err
	}
	var s Snapshot
	if err := decMode.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if s.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, s.Version)
	}
	return &s, nil
}
