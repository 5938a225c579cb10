package op

import (
	"fmt"
	"slices"

	"github.com/ripple-ml/ripple/internal/desc"
)

// AttrType re-exports the wire-level attribute type tag.
type AttrType = desc.AttrType

// AttrData constrains the Go types an attribute value can hold. The set is
// closed; every consumption site switches exhaustively over it.
type AttrData interface {
	int | float32 | string | []int | []float32 | []string
}

// Attribute is a tagged union over the attribute value kinds. It is immutable
// once constructed: slice values are copied in and copied out.
type Attribute struct {
	typ     AttrType
	i       int
	f       float32
	s       string
	ints    []int
	floats  []float32
	strings []string
}

// Make constructs an attribute value.
func Make[T AttrData](v T) Attribute {
	switch v := any(v).(type) {
	case int:
		return Attribute{typ: desc.AttrTypeInt, i: v}
	case float32:
		return Attribute{typ: desc.AttrTypeFloat, f: v}
	case string:
		return Attribute{typ: desc.AttrTypeString, s: v}
	case []int:
		return Attribute{typ: desc.AttrTypeInts, ints: slices.Clone(v)}
	case []float32:
		return Attribute{typ: desc.AttrTypeFloats, floats: slices.Clone(v)}
	case []string:
		return Attribute{typ: desc.AttrTypeStrings, strings: slices.Clone(v)}
	default:
		panic(fmt.Sprintf("op: unreachable attribute type %T", v))
	}
}

// Get extracts a typed value from an attribute. It fails if the attribute
// holds a different kind.
func Get[T AttrData](a Attribute) (T, error) {
	var zero T
	switch p := any(&zero).(type) {
	case *int:
		if a.typ != desc.AttrTypeInt {
			return zero, typeMismatch(desc.AttrTypeInt, a.typ)
		}
		*p = a.i
	case *float32:
		if a.typ != desc.AttrTypeFloat {
			return zero, typeMismatch(desc.AttrTypeFloat, a.typ)
		}
		*p = a.f
	case *string:
		if a.typ != desc.AttrTypeString {
			return zero, typeMismatch(desc.AttrTypeString, a.typ)
		}
		*p = a.s
	case *[]int:
		if a.typ != desc.AttrTypeInts {
			return zero, typeMismatch(desc.AttrTypeInts, a.typ)
		}
		*p = slices.Clone(a.ints)
	case *[]float32:
		if a.typ != desc.AttrTypeFloats {
			return zero, typeMismatch(desc.AttrTypeFloats, a.typ)
		}
		*p = slices.Clone(a.floats)
	case *[]string:
		if a.typ != desc.AttrTypeStrings {
			return zero, typeMismatch(desc.AttrTypeStrings, a.typ)
		}
		*p = slices.Clone(a.strings)
	}
	return zero, nil
}

// Type returns the attribute's type tag.
func (a Attribute) Type() AttrType { return a.typ }

// Equal reports whether two attribute values are identical in type and value.
func (a Attribute) Equal(b Attribute) bool {
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case desc.AttrTypeInt:
		return a.i == b.i
	case desc.AttrTypeFloat:
		return a.f == b.f
	case desc.AttrTypeString:
		return a.s == b.s
	case desc.AttrTypeInts:
		return slices.Equal(a.ints, b.ints)
	case desc.AttrTypeFloats:
		return slices.Equal(a.floats, b.floats)
	case desc.AttrTypeStrings:
		return slices.Equal(a.strings, b.strings)
	}
	return false
}

func typeMismatch(want, got AttrType) error {
	return fmt.Errorf("attribute holds type %d, want %d", got, want)
}

// AttributeMap binds attribute names to values on one operator node.
type AttributeMap map[string]Attribute

// Clone returns a copy of the map. Attribute values are immutable, so a
// shallow copy suffices.
func (m AttributeMap) Clone() AttributeMap {
	out := make(AttributeMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// attrFromDesc reconstructs an attribute value from its wire record.
// The type switch is exhaustive over the closed attribute kind set.
func attrFromDesc(a *desc.AttrDesc) (Attribute, error) {
	switch a.Type {
	case desc.AttrTypeInt:
		return Make(int(a.I)), nil
	case desc.AttrTypeFloat:
		return Make(a.F), nil
	case desc.AttrTypeString:
		return Make(a.S), nil
	case desc.AttrTypeInts:
		ints := make([]int, len(a.Ints))
		for i, v := range a.Ints {
			ints[i] = int(v)
		}
		return Make(ints), nil
	case desc.AttrTypeFloats:
		return Make(slices.Clone(a.Floats)), nil
	case desc.AttrTypeStrings:
		return Make(slices.Clone(a.Strings)), nil
	default:
		return Attribute{}, fmt.Errorf("%w: attr %q has unknown type tag %d",
			desc.ErrDecode, a.Name, a.Type)
	}
}
