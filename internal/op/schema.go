package op

import (
	"fmt"

	"github.com/ripple-ml/ripple/internal/desc"
)

// Maker declares one operator kind's schema: its input and output slots, its
// attributes and their checkers, and a free-text comment. A maker is bound to
// one proto record and one checker; the registry runs the kind's maker
// function against a fresh pair and then freezes the result with Validate.
type Maker struct {
	proto   *desc.OpProto
	checker *OpAttrChecker

	validated          bool
	hasMultipleInput   bool
	hasMultipleOutput  bool
	hasTemporaryOutput bool
}

// NewMaker binds a maker to an empty proto record and checker.
func NewMaker(proto *desc.OpProto, checker *OpAttrChecker) *Maker {
	return &Maker{proto: proto, checker: checker}
}

// AddInput declares an input slot bound to exactly one variable.
func (m *Maker) AddInput(name, comment string) {
	m.addInput(name, comment, false)
}

// AddInputs declares an input slot bound to a contiguous run of variables,
// described at instantiation time by the input_format attribute.
func (m *Maker) AddInputs(name, comment string) {
	m.addInput(name, comment, true)
}

// AddOutput declares an output slot bound to exactly one variable.
func (m *Maker) AddOutput(name, comment string) {
	m.addOutput(name, comment, false, false)
}

// AddOutputs declares a variable-length output slot.
func (m *Maker) AddOutputs(name, comment string) {
	m.addOutput(name, comment, true, false)
}

// AddTempOutput declares an output slot holding internal scratch state not
// intended for external consumption.
func (m *Maker) AddTempOutput(name, comment string) {
	m.addOutput(name, comment, false, true)
}

// AddTempOutputs declares a variable-length temporary output slot.
func (m *Maker) AddTempOutputs(name, comment string) {
	m.addOutput(name, comment, true, true)
}

// AddComment sets the kind's free-text comment.
func (m *Maker) AddComment(comment string) {
	m.mustMutable()
	m.proto.Comment = comment
}

// AddAttr declares an attribute of type T and returns its checker for
// chaining defaults and predicates.
func AddAttr[T AttrData](m *Maker, name, comment string) *TypedChecker[T] {
	return addAttr[T](m, name, comment, false)
}

// Validate freezes the schema. It must be called exactly once, after all
// declarations; it fails if any name is duplicated across the kind's inputs,
// outputs, and attributes.
func (m *Maker) Validate() error {
	m.validated = true
	seen := make(map[string]struct{})
	check := func(name string) error {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: name %q is duplicated in op %q schema",
				ErrValidation, name, m.proto.Type)
		}
		seen[name] = struct{}{}
		return nil
	}
	for i := range m.proto.Attrs {
		if err := check(m.proto.Attrs[i].Name); err != nil {
			return err
		}
	}
	for i := range m.proto.Inputs {
		if err := check(m.proto.Inputs[i].Name); err != nil {
			return err
		}
	}
	for i := range m.proto.Outputs {
		if err := check(m.proto.Outputs[i].Name); err != nil {
			return err
		}
	}
	return nil
}

// Validated reports whether the schema has been frozen.
func (m *Maker) Validated() bool { return m.validated }

func (m *Maker) addInput(name, comment string, multiple bool) {
	m.mustMutable()
	m.proto.Inputs = append(m.proto.Inputs, desc.VarProto{
		Name:     name,
		Comment:  comment,
		Multiple: multiple,
	})
	if multiple {
		m.setHasMultipleInput()
	}
}

func (m *Maker) addOutput(name, comment string, multiple, temporary bool) {
	m.mustMutable()
	m.proto.Outputs = append(m.proto.Outputs, desc.VarProto{
		Name:      name,
		Comment:   comment,
		Multiple:  multiple,
		Temporary: temporary,
	})
	if multiple {
		m.setHasMultipleOutput()
	}
	if temporary {
		m.setHasTemporaryOutput()
	}
}

func addAttr[T AttrData](m *Maker, name, comment string, generated bool) *TypedChecker[T] {
	m.mustMutable()
	m.proto.Attrs = append(m.proto.Attrs, desc.AttrProto{
		Name:      name,
		Comment:   comment,
		Type:      attrTypeOf[T](),
		Generated: generated,
	})
	return addAttrChecker[T](m.checker, name)
}

// setHasMultiple* inject the bookkeeping format attributes at most once per
// schema; a second injection would trip the duplicate-name check.

func (m *Maker) setHasMultipleInput() {
	if m.hasMultipleInput {
		return
	}
	m.hasMultipleInput = true
	m.addFormatAttr("input")
}

func (m *Maker) setHasMultipleOutput() {
	if m.hasMultipleOutput {
		return
	}
	m.hasMultipleOutput = true
	m.addFormatAttr("output")
}

func (m *Maker) addFormatAttr(inOut string) {
	comment := fmt.Sprintf(`The multiple index of %[1]s.

A variable-length %[1]s slot binds a contiguous run of variables in the flat
%[1]s list. The format is an offset array of length (slots + 1): slot i owns
positions [format[i], format[i+1]).

e.g.
  %[1]s        = ["a", "b", "c", "d", "e", "f"]
  %[1]s_format = [0, 4, 5, 6]

means three slots: %[1]s[0:4], %[1]s[4:5] and %[1]s[5:6].

An empty format means one slot per position.`, inOut)
	addAttr[[]int](m, inOut+"_format", comment, true).SetDefault(nil)
}

func (m *Maker) setHasTemporaryOutput() {
	if m.hasTemporaryOutput {
		return
	}
	m.hasTemporaryOutput = true
	addAttr[[]int](m, "temporary_index", `The temporary index of output.

Not every output is meant for external consumption. Marking which outputs are
internal scratch lets later passes skip or reclaim them.`, true).
		SetDefault(nil)
}

func (m *Maker) mustMutable() {
	if m.validated {
		panic("op: schema mutated after Validate")
	}
}

// attrTypeOf maps a Go attribute type onto its wire tag.
func attrTypeOf[T AttrData]() AttrType {
	var zero T
	switch any(zero).(type) {
	case int:
		return desc.AttrTypeInt
	case float32:
		return desc.AttrTypeFloat
	case string:
		return desc.AttrTypeString
	case []int:
		return desc.AttrTypeInts
	case []float32:
		return desc.AttrTypeFloats
	case []string:
		return desc.AttrTypeStrings
	default:
		panic(fmt.Sprintf("op: unreachable attribute type %T", zero))
	}
}
