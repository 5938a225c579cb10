package op

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/ripple-ml/ripple/internal/desc"
)

// kindEntry bundles everything the registry knows about one operator kind.
type kindEntry struct {
	proto   *desc.OpProto
	checker *OpAttrChecker
	create  Constructor
	index   VarIndex
}

// Registry maps operator kind names to their schemas, checkers, constructors
// and indices, plus gradient constructors keyed by the forward kind's name.
//
// Registration happens during single-threaded startup; afterwards the tables
// are read-only and may be read concurrently without locking. The temporary
// name counter is the sole synchronized state, so NewOp is safe to call
// concurrently once registration has finished.
type Registry struct {
	kinds map[string]*kindEntry
	grads map[string]Constructor
	tmpID atomic.Uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		kinds: make(map[string]*kindEntry),
		grads: make(map[string]Constructor),
	}
}

var global = sync.OnceValue(NewRegistry)

// Global returns the process-wide default registry.
func Global() *Registry { return global() }

// Register declares an operator kind: it runs the maker function against a
// fresh schema, validates it, and records the kind's constructor and index.
// Registering a name twice is a configuration defect and is rejected.
func (r *Registry) Register(kind string, maker func(*Maker), create Constructor) error {
	if _, ok := r.kinds[kind]; ok {
		return fmt.Errorf("%w: kind %q registered twice", ErrValidation, kind)
	}
	proto := &desc.OpProto{Type: kind}
	checker := &OpAttrChecker{}
	m := NewMaker(proto, checker)
	maker(m)
	if err := m.Validate(); err != nil {
		return fmt.Errorf("register %q: %w", kind, err)
	}

	index := make(VarIndex, len(proto.Inputs)+len(proto.Outputs))
	idx := 0
	for i := range proto.Inputs {
		index[proto.Inputs[i].Name] = idx
		idx++
	}
	idx = 0
	for i := range proto.Outputs {
		index[proto.Outputs[i].Name] = idx
		idx++
	}

	r.kinds[kind] = &kindEntry{
		proto:   proto,
		checker: checker,
		create:  create,
		index:   index,
	}
	return nil
}

// MustRegister is Register that panics on error, for startup wiring.
func (r *Registry) MustRegister(kind string, maker func(*Maker), create Constructor) {
	if err := r.Register(kind, maker, create); err != nil {
		panic(err)
	}
}

// RegisterGradient records the gradient constructor for a forward kind.
func (r *Registry) RegisterGradient(kind string, create Constructor) error {
	if _, ok := r.grads[kind]; ok {
		return fmt.Errorf("%w: gradient for kind %q registered twice", ErrValidation, kind)
	}
	r.grads[kind] = create
	return nil
}

// MustRegisterGradient is RegisterGradient that panics on error.
func (r *Registry) MustRegisterGradient(kind string, create Constructor) {
	if err := r.RegisterGradient(kind, create); err != nil {
		panic(err)
	}
}

// Proto returns a kind's schema record.
func (r *Registry) Proto(kind string) (*desc.OpProto, error) {
	e, ok := r.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKindNotFound, kind)
	}
	return e.proto, nil
}

// Kinds returns all registered kind names, sorted.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.kinds))
	for k := range r.kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// NewOp instantiates an operator node: it binds the variable name lists and
// attribute map, validates the attributes, materializes temporary outputs,
// attaches the kind's shared index, and runs the kind's Init hook.
func (r *Registry) NewOp(kind string, inputs, outputs []string, attrs AttributeMap) (Operator, error) {
	e, ok := r.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKindNotFound, kind)
	}

	o := e.create()
	b := o.Base()
	b.Type = kind
	b.Inputs = slices.Clone(inputs)
	b.Outputs = slices.Clone(outputs)
	if attrs == nil {
		b.Attrs = AttributeMap{}
	} else {
		b.Attrs = attrs.Clone()
	}

	if err := e.checker.Check(b.Attrs); err != nil {
		return nil, fmt.Errorf("create %q: %w", kind, err)
	}
	r.materializeTempOutputs(b)
	b.idx = e.index

	if err := o.Init(); err != nil {
		return nil, fmt.Errorf("create %q: init: %w", kind, err)
	}
	return o, nil
}

// NewOpFromDesc instantiates an operator node from a decoded descriptor.
func (r *Registry) NewOpFromDesc(d *desc.OpDesc) (Operator, error) {
	attrs := make(AttributeMap, len(d.Attrs))
	for i := range d.Attrs {
		a, err := attrFromDesc(&d.Attrs[i])
		if err != nil {
			return nil, err
		}
		attrs[d.Attrs[i].Name] = a
	}
	return r.NewOp(d.Type, d.Inputs, d.Outputs, attrs)
}

// NewGradOp derives the gradient operator node for a forward node. No
// execution is involved: the gradient wiring is computed from the forward
// kind's schema and the forward node's bound names and attributes alone.
//
// The gradient node's inputs are the forward inputs, then the forward
// outputs, then the gradients of the forward outputs; its outputs are the
// gradients of the forward inputs.
func (r *Registry) NewGradOp(fwd Operator) (Operator, error) {
	fb := fwd.Base()
	create, ok := r.grads[fb.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotDifferentiable, fb.Type)
	}
	e, ok := r.kinds[fb.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKindNotFound, fb.Type)
	}

	g := create()
	gb := g.Base()
	gb.Type = fb.Type
	assembleGradInOut(fb, gb)
	gb.idx = gradVarIndex(e.proto)
	generateGradAttrs(fb, gb)

	if err := g.Init(); err != nil {
		return nil, fmt.Errorf("grad of %q: init: %w", fb.Type, err)
	}
	return g, nil
}

// materializeTempOutputs rewrites every output bound to the temporary
// sentinel into a fresh globally unique name. The counter is atomic and never
// reused, so names stay unique under concurrent instantiation.
func (r *Registry) materializeTempOutputs(b *OpNode) {
	for i, name := range b.Outputs {
		if name == TempVarName {
			id := r.tmpID.Add(1) - 1
			b.Outputs[i] = TempVarName + b.Type + "@" + strconv.FormatUint(id, 10)
		}
	}
}

func assembleGradInOut(fb, gb *OpNode) {
	gb.Inputs = make([]string, 0, len(fb.Inputs)+2*len(fb.Outputs))
	gb.Inputs = append(gb.Inputs, fb.Inputs...)
	gb.Inputs = append(gb.Inputs, fb.Outputs...)
	for _, name := range fb.Outputs {
		gb.Inputs = append(gb.Inputs, name+GradVarSuffix)
	}
	gb.Outputs = make([]string, 0, len(fb.Inputs))
	for _, name := range fb.Inputs {
		gb.Outputs = append(gb.Outputs, name+GradVarSuffix)
	}
}

// gradVarIndex builds the gradient node's index: a single continuous range
// over forward inputs, forward outputs, and gradient-suffixed outputs
// (matching the assembled gradient input list), and a separate zero-based
// range for the gradient-suffixed inputs (matching the gradient output list).
func gradVarIndex(proto *desc.OpProto) VarIndex {
	index := make(VarIndex, 2*len(proto.Inputs)+2*len(proto.Outputs))
	idx := 0
	for i := range proto.Inputs {
		index[proto.Inputs[i].Name] = idx
		idx++
	}
	for i := range proto.Outputs {
		index[proto.Outputs[i].Name] = idx
		idx++
	}
	for i := range proto.Outputs {
		index[proto.Outputs[i].Name+GradVarSuffix] = idx
		idx++
	}
	idx = 0
	for i := range proto.Inputs {
		index[proto.Inputs[i].Name+GradVarSuffix] = idx
		idx++
	}
	return index
}

// generateGradAttrs copies the forward attributes, strips the forward format
// attributes, and recomputes formats for the gradient node's concatenated
// layout when the forward kind used variable-length slots.
func generateGradAttrs(fb, gb *OpNode) {
	gb.Attrs = fb.Attrs.Clone()
	delete(gb.Attrs, "input_format")
	delete(gb.Attrs, "output_format")

	oldIn := fb.format("input_format")
	oldOut := fb.format("output_format")
	hasIn, hasOut := len(oldIn) > 0, len(oldOut) > 0
	if !hasIn && !hasOut {
		// No grouping anywhere: positional correspondence stays implicit.
		return
	}
	if !hasIn {
		oldIn = identityOffsets(len(fb.Inputs))
	}
	if !hasOut {
		oldOut = identityOffsets(len(fb.Outputs))
	}

	// The gradient inputs are three concatenated segments: forward inputs,
	// forward outputs, gradients of forward outputs. Shift each segment's
	// offsets past the bound names of the segments before it.
	inFormat := make([]int, 0, len(oldIn)+2*len(oldOut))
	base := 0
	for _, off := range oldIn {
		inFormat = append(inFormat, off+base)
	}
	base += len(fb.Inputs)
	for _, off := range oldOut {
		inFormat = append(inFormat, off+base)
	}
	base += len(fb.Outputs)
	for _, off := range oldIn {
		inFormat = append(inFormat, off+base)
	}
	gb.Attrs["input_format"] = Make(inFormat)

	// The gradient outputs mirror the forward inputs one for one, so they
	// need a format only when the forward inputs had one.
	if hasIn {
		gb.Attrs["output_format"] = Make(slices.Clone(oldIn))
	}
}

// identityOffsets builds [0, 1, ..., n-1] for an ungrouped side.
func identityOffsets(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
