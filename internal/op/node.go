package op

import (
	"fmt"
	"strings"
)

// Reserved names. Neither may appear in user-chosen variable names.
const (
	// TempVarName is the sentinel output name requesting a fresh, globally
	// unique temporary variable at instantiation time.
	TempVarName = "@TEMP@"

	// GradVarSuffix appended to a variable name denotes the gradient signal
	// for that variable.
	GradVarSuffix = "@GRAD"
)

// Scope is the externally supplied variable store. The core reads and writes
// values by name only and never manages the store's lifecycle.
type Scope interface {
	Get(name string) (any, bool)
	Set(name string, value any)
}

// DeviceContext is the opaque execution-environment handle passed through
// unmodified to each node's Run call.
type DeviceContext any

// VarIndex maps slot names to positions. One read-only instance is shared by
// every node of a kind; gradient nodes get their own freshly computed index.
//
// Forward kinds use two independent zero-based ranges in one map: inputs
// first, then outputs, each restarting at 0. Gradient indices instead use a
// single continuous range over the concatenated gradient input layout, plus a
// separate zero-based range for the gradient outputs; the key sets of the two
// ranges are disjoint, so one map serves both.
type VarIndex map[string]int

// OpNode is the instantiated, runtime representation of one operator: its
// kind name, bound variable names, bound attributes, and its kind's index.
// Concrete operator kinds embed OpNode, which supplies Base and a no-op Init.
type OpNode struct {
	Type    string
	Inputs  []string
	Outputs []string
	Attrs   AttributeMap

	idx VarIndex
}

// Base returns the node itself; it satisfies part of the Operator interface
// for kinds that embed OpNode.
func (o *OpNode) Base() *OpNode { return o }

// Init is the default post-construction hook.
func (o *OpNode) Init() error { return nil }

// Pos returns the position of a named slot (or gradient-suffixed name) in the
// node's index.
func (o *OpNode) Pos(name string) (int, error) {
	pos, ok := o.idx[name]
	if !ok {
		return 0, fmt.Errorf("op %s: no slot named %q", o.Type, name)
	}
	return pos, nil
}

// Input resolves the single variable bound to a named input slot.
func (o *OpNode) Input(name string) (string, error) {
	vars, err := o.InputList(name)
	if err != nil {
		return "", err
	}
	if len(vars) != 1 {
		return "", fmt.Errorf("op %s: input %q binds %d variables, want exactly one",
			o.Type, name, len(vars))
	}
	return vars[0], nil
}

// InputList resolves the variables bound to a named input slot, honoring the
// input_format offsets when the kind declares variable-length inputs.
func (o *OpNode) InputList(name string) ([]string, error) {
	return o.span(name, "input_format", o.Inputs)
}

// Output resolves the single variable bound to a named output slot.
func (o *OpNode) Output(name string) (string, error) {
	vars, err := o.OutputList(name)
	if err != nil {
		return "", err
	}
	if len(vars) != 1 {
		return "", fmt.Errorf("op %s: output %q binds %d variables, want exactly one",
			o.Type, name, len(vars))
	}
	return vars[0], nil
}

// OutputList resolves the variables bound to a named output slot.
func (o *OpNode) OutputList(name string) ([]string, error) {
	return o.span(name, "output_format", o.Outputs)
}

// Attr returns the raw bound attribute value.
func (o *OpNode) Attr(name string) (Attribute, bool) {
	a, ok := o.Attrs[name]
	return a, ok
}

// GetAttr returns a typed bound attribute value.
func GetAttr[T AttrData](o *OpNode, name string) (T, error) {
	a, ok := o.Attrs[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("op %s: no attribute named %q", o.Type, name)
	}
	v, err := Get[T](a)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("op %s: attribute %q: %w", o.Type, name, err)
	}
	return v, nil
}

// span maps a slot name to its variables within the flat bound-name list.
// An absent or empty format means one slot per position.
func (o *OpNode) span(name, formatAttr string, names []string) ([]string, error) {
	pos, err := o.Pos(name)
	if err != nil {
		return nil, err
	}
	format := o.format(formatAttr)
	if len(format) == 0 {
		if pos >= len(names) {
			return nil, fmt.Errorf("op %s: slot %q at position %d, but only %d variables bound",
				o.Type, name, pos, len(names))
		}
		return names[pos : pos+1], nil
	}
	if pos+1 >= len(format) {
		return nil, fmt.Errorf("op %s: %s has %d offsets, too few for slot %q at position %d",
			o.Type, formatAttr, len(format), name, pos)
	}
	lo, hi := format[pos], format[pos+1]
	if lo < 0 || hi < lo || hi > len(names) {
		return nil, fmt.Errorf("op %s: %s range [%d, %d) out of bounds for %d variables",
			o.Type, formatAttr, lo, hi, len(names))
	}
	return names[lo:hi], nil
}

func (o *OpNode) format(name string) []int {
	a, ok := o.Attrs[name]
	if !ok {
		return nil
	}
	format, err := Get[[]int](a)
	if err != nil {
		return nil
	}
	return format
}

// String renders the node for diagnostics.
func (o *OpNode) String() string {
	var b strings.Builder
	b.WriteString("Op(")
	b.WriteString(o.Type)
	b.WriteString("), inputs:[")
	b.WriteString(strings.Join(o.Inputs, ", "))
	b.WriteString("], outputs:[")
	b.WriteString(strings.Join(o.Outputs, ", "))
	b.WriteString("]")
	return b.String()
}

// Operator is one instantiated operator node. InferShape and Run walk the
// shared variable store; Init is the kind-specific post-construction hook.
type Operator interface {
	Base() *OpNode
	Init() error
	InferShape(scope Scope) error
	Run(scope Scope, dev DeviceContext) error
}

// Constructor builds a bare, unwired node of one kind.
type Constructor func() Operator
