package templates

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"rootforge/internal/diag"
	"rootforge/internal/loca"
)

// Element depths of the root-template layout, counting the document
// element as 0:
//
//	save > region > node(Templates) > children > node(GameObjects) > attribute
const (
	GameObjectDepth      = 4
	ObjectAttributeDepth = 5
)

const gameObjectsID = "GameObjects"

// ErrStructure reports an element found at a depth the layout forbids.
var ErrStructure = errors.New("unexpected template structure")

// DecodeError is a fatal error in one template document.
type DecodeError struct {
	Pak    string
	Line   int
	Column int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %v", e.Pak, e.Line, e.Column, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Read streams a root-template document into records. DisplayName and
// Description handles are resolved through table as they are read.
func Read(r io.Reader, pak string, table *loca.Table, sink diag.Sink) ([]Record, error) {
	dec := xml.NewDecoder(r)

	fail := func(err error) error {
		line, col := dec.InputPos()
		return &DecodeError{Pak: pak, Line: line, Column: col, Err: err}
	}

	var (
		records []Record
		current *Record
		depth   int
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fail(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "node" && attr(t, "id") == gameObjectsID:
				if depth != GameObjectDepth {
					return nil, fail(fmt.Errorf("%w: GameObjects node at depth %d, want %d", ErrStructure, depth, GameObjectDepth))
				}
				current = &Record{PakOrigin: pak}
			case t.Name.Local == "attribute" && depth == ObjectAttributeDepth:
				if current == nil {
					return nil, fail(fmt.Errorf("%w: attribute %q outside a GameObjects node", ErrStructure, attr(t, "id")))
				}
				if err := apply(current, t, table); err != nil {
					return nil, fail(err)
				}
			}
			depth++

		case xml.EndElement:
			depth--
			if t.Name.Local == "node" && depth == GameObjectDepth && current != nil {
				if current.MapKey == "" {
					diag.Reportf(sink, diag.SeverityWarning, "%s: dropping GameObjects node %q without MapKey", pak, current.Name)
				} else {
					records = append(records, *current)
				}
				current = nil
			}
		}
	}
	if depth != 0 {
		return nil, fail(fmt.Errorf("%w: document ended at depth %d", ErrStructure, depth))
	}
	return records, nil
}

func apply(rec *Record, el xml.StartElement, table *loca.Table) error {
	value := attr(el, "value")
	if value == "" {
		value = attr(el, "handle")
	}

	switch attr(el, "id") {
	case "MapKey":
		rec.MapKey = value
	case "ParentTemplateId":
		rec.ParentTemplateID = value
	case "Name":
		rec.Name = value
	case "Type":
		t, err := ParseGameObjectType(value)
		if err != nil {
			return err
		}
		rec.Type = t
	case "DisplayName":
		rec.DisplayNameHandle = value
		rec.DisplayName = table.Lookup(value)
	case "Description":
		rec.DescriptionHandle = value
		rec.Description = table.Lookup(value)
	case "Icon":
		rec.Icon = value
	case "Stats":
		rec.StatsRef = value
	case "CharacterVisualResourceID":
		rec.CharacterVisualResourceID = value
	case "VisualTemplate":
		rec.VisualTemplate = value
	}
	return nil
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
