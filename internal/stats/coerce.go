package stats

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"rootforge/internal/diag"
)

// ErrInvalidValue marks a field whose text does not fit its declared type.
var ErrInvalidValue = errors.New("invalid value")

// Structure is a resolved stat entry with typed fields. Fields that failed
// coercion or have no schema entry are absent.
type Structure struct {
	EntryID string
	Kind    EntityKind
	Fields  map[string]Value
	Using   string
}

func (s *Structure) Get(key string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	v, ok := s.Fields[key]
	return v, ok
}

// coerceFunc decodes raw for spec. bad receives element-level failures of
// list types that still produce a value.
type coerceFunc func(spec FieldSpec, raw string, bad func(error)) (Value, error)

var coercers = map[ValueType]coerceFunc{
	TypeInt8:             coerceInt(8),
	TypeInt16:            coerceInt(16),
	TypeInt32:            coerceInt(32),
	TypeInt64:            coerceInt(64),
	TypeUInt8:            coerceUint(8),
	TypeUInt16:           coerceUint(16),
	TypeUInt32:           coerceUint(32),
	TypeUInt64:           coerceUint(64),
	TypeFloat32:          coerceFloat(32),
	TypeFloat64:          coerceFloat(64),
	TypeBool:             coerceBool,
	TypeGuid:             coerceGuid,
	TypeFixedString:      coerceString,
	TypeLSString:         coerceString,
	TypeTranslatedString: coerceTranslated,
	TypeVec2:             coerceVector,
	TypeVec3:             coerceVector,
	TypeVec4:             coerceVector,
	TypeMat4x4:           coerceVector,
	TypeEnum:             coerceEnum,
	TypeEnumList:         coerceEnumList,
	TypeStringList:       coerceStringList,
}

// Coerce converts a resolved record into a Structure. Only an unknown kind
// is fatal; per-field failures are reported to sink and the field dropped.
func Coerce(rec RawRecord, sink diag.Sink) (*Structure, error) {
	kind, err := ParseEntityKind(rec.Kind)
	if err != nil {
		return nil, &SyntaxError{Line: rec.Line, Err: fmt.Errorf("entry %q: %w", rec.EntryID, err)}
	}

	out := &Structure{
		EntryID: rec.EntryID,
		Kind:    kind,
		Fields:  make(map[string]Value, len(rec.Fields)),
		Using:   rec.Prototype,
	}
	for _, f := range rec.Fields {
		spec, ok := LookupField(kind, f.Key)
		if !ok {
			diag.Reportf(sink, diag.SeverityDebug, "%s %q: no schema entry for field %q", kind, rec.EntryID, f.Key)
			continue
		}
		value, err := CoerceValue(spec, f.Value, func(err error) {
			diag.Reportf(sink, diag.SeverityWarning, "%s %q: field %q: %v", kind, rec.EntryID, f.Key, err)
		})
		if err != nil {
			diag.Reportf(sink, diag.SeverityWarning, "%s %q: field %q: %v", kind, rec.EntryID, f.Key, err)
			continue
		}
		out.Fields[f.Key] = value
	}
	return out, nil
}

// CoerceValue decodes one raw value. bad may be nil.
func CoerceValue(spec FieldSpec, raw string, bad func(error)) (Value, error) {
	fn, ok := coercers[spec.Type]
	if !ok {
		return Value{}, fmt.Errorf("%w: unsupported type %s", ErrInvalidValue, spec.Type)
	}
	if bad == nil {
		bad = func(error) {}
	}
	return fn(spec, raw, bad)
}

func invalid(t ValueType, raw string) error {
	return fmt.Errorf("%w: %q is not a valid %s", ErrInvalidValue, raw, t)
}

// finite rejects NaN and infinities, which have no JSON form.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func coerceInt(bits int) coerceFunc {
	return func(spec FieldSpec, raw string, _ func(error)) (Value, error) {
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, bits)
		if err != nil {
			return Value{}, invalid(spec.Type, raw)
		}
		return IntValue(spec.Type, n), nil
	}
}

func coerceUint(bits int) coerceFunc {
	return func(spec FieldSpec, raw string, _ func(error)) (Value, error) {
		n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, bits)
		if err != nil {
			return Value{}, invalid(spec.Type, raw)
		}
		return UintValue(spec.Type, n), nil
	}
}

func coerceFloat(bits int) coerceFunc {
	return func(spec FieldSpec, raw string, _ func(error)) (Value, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), bits)
		if err != nil || !finite(f) {
			return Value{}, invalid(spec.Type, raw)
		}
		return FloatValue(spec.Type, f), nil
	}
}

func coerceBool(spec FieldSpec, raw string, _ func(error)) (Value, error) {
	switch raw {
	case "Yes":
		return BoolValue(true), nil
	case "No":
		return BoolValue(false), nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return Value{}, invalid(spec.Type, raw)
	}
	return BoolValue(b), nil
}

func coerceGuid(spec FieldSpec, raw string, _ func(error)) (Value, error) {
	if len(raw) != 36 {
		return Value{}, invalid(spec.Type, raw)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return Value{}, invalid(spec.Type, raw)
	}
	return GuidValue(id), nil
}

func coerceString(spec FieldSpec, raw string, _ func(error)) (Value, error) {
	return StringValue(spec.Type, raw), nil
}

// coerceTranslated reads "handle;version". A missing version is 0.
func coerceTranslated(spec FieldSpec, raw string, _ func(error)) (Value, error) {
	handle, version, found := strings.Cut(raw, ";")
	if handle == "" {
		return Value{}, invalid(spec.Type, raw)
	}
	if !found {
		return TranslatedValue(handle, 0), nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(version), 10, 32)
	if err != nil {
		return Value{}, invalid(spec.Type, raw)
	}
	return TranslatedValue(handle, v), nil
}

func coerceVector(spec FieldSpec, raw string, _ func(error)) (Value, error) {
	parts := strings.Fields(raw)
	if len(parts) != spec.Type.Width() {
		return Value{}, fmt.Errorf("%w: %s needs %d components, got %d", ErrInvalidValue, spec.Type, spec.Type.Width(), len(parts))
	}
	components := make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 32)
		if err != nil || !finite(f) {
			return Value{}, invalid(spec.Type, raw)
		}
		components[i] = float32(f)
	}
	return VectorValue(spec.Type, components), nil
}

func coerceEnum(spec FieldSpec, raw string, _ func(error)) (Value, error) {
	if spec.Enum == nil || !spec.Enum.Has(raw) {
		return Value{}, fmt.Errorf("%w: %q is not a member of %s", ErrInvalidValue, raw, enumName(spec))
	}
	return EnumValue(spec.Enum.Name, raw), nil
}

func coerceEnumList(spec FieldSpec, raw string, bad func(error)) (Value, error) {
	members := make([]string, 0, strings.Count(raw, ";")+1)
	for _, token := range splitList(raw) {
		if spec.Enum == nil || !spec.Enum.Has(token) {
			bad(fmt.Errorf("%w: %q is not a member of %s", ErrInvalidValue, token, enumName(spec)))
			continue
		}
		members = append(members, token)
	}
	return EnumListValue(enumName(spec), members), nil
}

func coerceStringList(_ FieldSpec, raw string, _ func(error)) (Value, error) {
	return StringListValue(splitList(raw)), nil
}

func splitList(raw string) []string {
	var out []string
	for _, token := range strings.Split(raw, ";") {
		if token = strings.TrimSpace(token); token != "" {
			out = append(out, token)
		}
	}
	return out
}

func enumName(spec FieldSpec) string {
	if spec.Enum == nil {
		return "enum"
	}
	return spec.Enum.Name
}
