package stats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ValueType tags a Value. The tag of a decoded field always comes from the
// schema, never from the shape of the text.
type ValueType uint8

const (
	TypeInt8 ValueType = iota + 1
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUInt8
	TypeUInt16
	TypeUInt32
	TypeUInt64
	TypeFloat32
	TypeFloat64
	TypeBool
	TypeGuid
	TypeFixedString
	TypeLSString
	TypeTranslatedString
	TypeVec2
	TypeVec3
	TypeVec4
	TypeMat4x4
	TypeEnum
	TypeEnumList
	TypeStringList
)

var typeNames = [...]string{
	TypeInt8:             "int8",
	TypeInt16:            "int16",
	TypeInt32:            "int32",
	TypeInt64:            "int64",
	TypeUInt8:            "uint8",
	TypeUInt16:           "uint16",
	TypeUInt32:           "uint32",
	TypeUInt64:           "uint64",
	TypeFloat32:          "float",
	TypeFloat64:          "double",
	TypeBool:             "bool",
	TypeGuid:             "guid",
	TypeFixedString:      "FixedString",
	TypeLSString:         "LSString",
	TypeTranslatedString: "TranslatedString",
	TypeVec2:             "fvec2",
	TypeVec3:             "fvec3",
	TypeVec4:             "fvec4",
	TypeMat4x4:           "mat4x4",
	TypeEnum:             "enum",
	TypeEnumList:         "enum list",
	TypeStringList:       "string list",
}

func (t ValueType) String() string {
	if t == 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("ValueType(%d)", t)
	}
	return typeNames[t]
}

// Width returns the component count of vector and matrix types, 0 otherwise.
func (t ValueType) Width() int {
	switch t {
	case TypeVec2:
		return 2
	case TypeVec3:
		return 3
	case TypeVec4:
		return 4
	case TypeMat4x4:
		return 16
	}
	return 0
}

// Value is a decoded stat field. Only the payload matching Type is set.
type Value struct {
	typ  ValueType
	i    int64
	u    uint64
	f    float64
	b    bool
	s    string
	enum string
	list []string
	vec  []float32
	guid uuid.UUID
}

func IntValue(t ValueType, v int64) Value     { return Value{typ: t, i: v} }
func UintValue(t ValueType, v uint64) Value   { return Value{typ: t, u: v} }
func FloatValue(t ValueType, v float64) Value { return Value{typ: t, f: v} }
func BoolValue(v bool) Value                  { return Value{typ: TypeBool, b: v} }
func GuidValue(v uuid.UUID) Value             { return Value{typ: TypeGuid, guid: v} }

// StringValue builds a FixedString or LSString value.
func StringValue(t ValueType, s string) Value { return Value{typ: t, s: s} }

// TranslatedValue holds a translation handle and its version.
func TranslatedValue(handle string, version int64) Value {
	return Value{typ: TypeTranslatedString, s: handle, i: version}
}

func VectorValue(t ValueType, components []float32) Value {
	return Value{typ: t, vec: append([]float32(nil), components...)}
}

func EnumValue(enum, member string) Value {
	return Value{typ: TypeEnum, enum: enum, s: member}
}

func EnumListValue(enum string, members []string) Value {
	return Value{typ: TypeEnumList, enum: enum, list: append([]string{}, members...)}
}

func StringListValue(items []string) Value {
	return Value{typ: TypeStringList, list: append([]string{}, items...)}
}

func (v Value) Type() ValueType { return v.typ }

func (v Value) AsInt() (int64, bool) {
	switch v.typ {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		return v.i, true
	}
	return 0, false
}

func (v Value) AsUint() (uint64, bool) {
	switch v.typ {
	case TypeUInt8, TypeUInt16, TypeUInt32, TypeUInt64:
		return v.u, true
	}
	return 0, false
}

func (v Value) AsFloat() (float64, bool) {
	if v.typ == TypeFloat32 || v.typ == TypeFloat64 {
		return v.f, true
	}
	return 0, false
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.typ == TypeBool
}

func (v Value) AsGUID() (uuid.UUID, bool) {
	return v.guid, v.typ == TypeGuid
}

// AsString returns the text of string-like values: FixedString, LSString,
// the handle of a TranslatedString and the member of an Enum.
func (v Value) AsString() (string, bool) {
	switch v.typ {
	case TypeFixedString, TypeLSString, TypeTranslatedString, TypeEnum:
		return v.s, true
	}
	return "", false
}

// Version is the TranslatedString handle version.
func (v Value) Version() int64 {
	if v.typ != TypeTranslatedString {
		return 0
	}
	return v.i
}

func (v Value) AsVector() ([]float32, bool) {
	if v.typ.Width() == 0 {
		return nil, false
	}
	return append([]float32(nil), v.vec...), true
}

func (v Value) AsList() ([]string, bool) {
	if v.typ != TypeEnumList && v.typ != TypeStringList {
		return nil, false
	}
	return append([]string{}, v.list...), true
}

// EnumName names the enumeration of Enum and EnumList values.
func (v Value) EnumName() string { return v.enum }

// String renders the value in the stat text format.
func (v Value) String() string {
	switch v.typ {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		return strconv.FormatInt(v.i, 10)
	case TypeUInt8, TypeUInt16, TypeUInt32, TypeUInt64:
		return strconv.FormatUint(v.u, 10)
	case TypeFloat32:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case TypeFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case TypeBool:
		if v.b {
			return "Yes"
		}
		return "No"
	case TypeGuid:
		return v.guid.String()
	case TypeTranslatedString:
		return v.s + ";" + strconv.FormatInt(v.i, 10)
	case TypeVec2, TypeVec3, TypeVec4, TypeMat4x4:
		parts := make([]string, len(v.vec))
		for i, c := range v.vec {
			parts[i] = strconv.FormatFloat(float64(c), 'g', -1, 32)
		}
		return strings.Join(parts, " ")
	case TypeEnumList, TypeStringList:
		return strings.Join(v.list, ";")
	default:
		return v.s
	}
}

// Interface returns the payload as a plain Go value for JSON-style export.
func (v Value) Interface() any {
	switch v.typ {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		return v.i
	case TypeUInt8, TypeUInt16, TypeUInt32, TypeUInt64:
		return v.u
	case TypeFloat32, TypeFloat64:
		return v.f
	case TypeBool:
		return v.b
	case TypeGuid:
		return v.guid.String()
	case TypeVec2, TypeVec3, TypeVec4, TypeMat4x4:
		return append([]float32(nil), v.vec...)
	case TypeEnumList, TypeStringList:
		return append([]string{}, v.list...)
	default:
		return v.String()
	}
}
