package ops

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/ripple-ml/ripple/internal/op"
)

// identityOp copies its input.
type identityOp struct{ op.OpNode }

func (o *identityOp) InferShape(s op.Scope) error {
	return inferUnary(&o.OpNode, s)
}

func (o *identityOp) Run(s op.Scope, _ op.DeviceContext) error {
	x, out, err := unaryArgs(&o.OpNode, s)
	if err != nil {
		return err
	}
	copy(out, x)
	return nil
}

// scaleOp multiplies its input by the scale attribute.
type scaleOp struct{ op.OpNode }

func (o *scaleOp) InferShape(s op.Scope) error {
	return inferUnary(&o.OpNode, s)
}

func (o *scaleOp) Run(s op.Scope, _ op.DeviceContext) error {
	x, out, err := unaryArgs(&o.OpNode, s)
	if err != nil {
		return err
	}
	scale, err := op.GetAttr[float32](&o.OpNode, "scale")
	if err != nil {
		return err
	}
	copy(out, x)
	floats.Scale(float64(scale), out)
	return nil
}

// addOp adds its two inputs elementwise.
type addOp struct{ op.OpNode }

func (o *addOp) InferShape(s op.Scope) error {
	x, err := inputVec(&o.OpNode, s, "X")
	if err != nil {
		return err
	}
	y, err := inputVec(&o.OpNode, s, "Y")
	if err != nil {
		return err
	}
	if len(x) != len(y) {
		return fmt.Errorf("add: X has %d elements, Y has %d", len(x), len(y))
	}
	return allocOutput(&o.OpNode, s, "Out", len(x))
}

func (o *addOp) Run(s op.Scope, _ op.DeviceContext) error {
	x, err := inputVec(&o.OpNode, s, "X")
	if err != nil {
		return err
	}
	y, err := inputVec(&o.OpNode, s, "Y")
	if err != nil {
		return err
	}
	out, err := outputVec(&o.OpNode, s, "Out")
	if err != nil {
		return err
	}
	floats.AddTo(out, x, y)
	return nil
}

// sumOp adds a variable-length group of inputs elementwise.
type sumOp struct{ op.OpNode }

func (o *sumOp) InferShape(s op.Scope) error {
	names, err := o.InputList("X")
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("sum: no inputs bound")
	}
	n := -1
	for _, name := range names {
		x, err := vec(s, name)
		if err != nil {
			return err
		}
		if n >= 0 && len(x) != n {
			return fmt.Errorf("sum: input %q has %d elements, want %d", name, len(x), n)
		}
		n = len(x)
	}
	return allocOutput(&o.OpNode, s, "Out", n)
}

func (o *sumOp) Run(s op.Scope, _ op.DeviceContext) error {
	names, err := o.InputList("X")
	if err != nil {
		return err
	}
	out, err := outputVec(&o.OpNode, s, "Out")
	if err != nil {
		return err
	}
	clear(out)
	for _, name := range names {
		x, err := vec(s, name)
		if err != nil {
			return err
		}
		floats.Add(out, x)
	}
	return nil
}

// Gradient kinds. Their wiring is derived by the registry: inputs are the
// forward inputs, forward outputs, and gradients of forward outputs; outputs
// are the gradients of the forward inputs.

// identityGradOp: X@GRAD = Out@GRAD.
type identityGradOp struct{ op.OpNode }

func (o *identityGradOp) InferShape(s op.Scope) error {
	return inferGradFromOutGrad(&o.OpNode, s, "X"+op.GradVarSuffix)
}

func (o *identityGradOp) Run(s op.Scope, _ op.DeviceContext) error {
	g, dst, err := gradArgs(&o.OpNode, s, "X"+op.GradVarSuffix)
	if err != nil {
		return err
	}
	copy(dst, g)
	return nil
}

// scaleGradOp: X@GRAD = scale * Out@GRAD.
type scaleGradOp struct{ op.OpNode }

func (o *scaleGradOp) InferShape(s op.Scope) error {
	return inferGradFromOutGrad(&o.OpNode, s, "X"+op.GradVarSuffix)
}

func (o *scaleGradOp) Run(s op.Scope, _ op.DeviceContext) error {
	g, dst, err := gradArgs(&o.OpNode, s, "X"+op.GradVarSuffix)
	if err != nil {
		return err
	}
	scale, err := op.GetAttr[float32](&o.OpNode, "scale")
	if err != nil {
		return err
	}
	copy(dst, g)
	floats.Scale(float64(scale), dst)
	return nil
}

// addGradOp: X@GRAD = Y@GRAD = Out@GRAD.
type addGradOp struct{ op.OpNode }

func (o *addGradOp) InferShape(s op.Scope) error {
	if err := inferGradFromOutGrad(&o.OpNode, s, "X"+op.GradVarSuffix); err != nil {
		return err
	}
	return inferGradFromOutGrad(&o.OpNode, s, "Y"+op.GradVarSuffix)
}

func (o *addGradOp) Run(s op.Scope, _ op.DeviceContext) error {
	for _, out := range []string{"X" + op.GradVarSuffix, "Y" + op.GradVarSuffix} {
		g, dst, err := gradArgs(&o.OpNode, s, out)
		if err != nil {
			return err
		}
		copy(dst, g)
	}
	return nil
}

// sumGradOp: every addend receives the output gradient unchanged.
type sumGradOp struct{ op.OpNode }

// outGrad resolves Out@GRAD positionally: the derived gradient input list is
// the forward addends, then Out, then Out@GRAD, so it is always last.
func (o *sumGradOp) outGrad(s op.Scope) ([]float64, error) {
	if len(o.Inputs) < 2 {
		return nil, fmt.Errorf("sum: gradient node has %d inputs", len(o.Inputs))
	}
	return vec(s, o.Inputs[len(o.Inputs)-1])
}

func (o *sumGradOp) InferShape(s op.Scope) error {
	g, err := o.outGrad(s)
	if err != nil {
		return err
	}
	names, err := o.OutputList("X" + op.GradVarSuffix)
	if err != nil {
		return err
	}
	for _, name := range names {
		alloc(s, name, len(g))
	}
	return nil
}

func (o *sumGradOp) Run(s op.Scope, _ op.DeviceContext) error {
	g, err := o.outGrad(s)
	if err != nil {
		return err
	}
	names, err := o.OutputList("X" + op.GradVarSuffix)
	if err != nil {
		return err
	}
	for _, name := range names {
		dst, err := vec(s, name)
		if err != nil {
			return err
		}
		copy(dst, g)
	}
	return nil
}

// Shared plumbing.

func inputVec(b *op.OpNode, s op.Scope, slot string) ([]float64, error) {
	name, err := b.Input(slot)
	if err != nil {
		return nil, err
	}
	return vec(s, name)
}

func outputVec(b *op.OpNode, s op.Scope, slot string) ([]float64, error) {
	name, err := b.Output(slot)
	if err != nil {
		return nil, err
	}
	return vec(s, name)
}

func allocOutput(b *op.OpNode, s op.Scope, slot string, n int) error {
	name, err := b.Output(slot)
	if err != nil {
		return err
	}
	alloc(s, name, n)
	return nil
}

// inferUnary shapes a single-input, single-output kind: Out gets X's length.
func inferUnary(b *op.OpNode, s op.Scope) error {
	x, err := inputVec(b, s, "X")
	if err != nil {
		return err
	}
	return allocOutput(b, s, "Out", len(x))
}

// unaryArgs resolves X and Out for a unary kernel.
func unaryArgs(b *op.OpNode, s op.Scope) (x, out []float64, err error) {
	if x, err = inputVec(b, s, "X"); err != nil {
		return nil, nil, err
	}
	if out, err = outputVec(b, s, "Out"); err != nil {
		return nil, nil, err
	}
	if len(out) != len(x) {
		return nil, nil, fmt.Errorf("%s: output has %d elements, input has %d",
			b.Type, len(out), len(x))
	}
	return x, out, nil
}

// inferGradFromOutGrad shapes one gradient output to match Out@GRAD.
func inferGradFromOutGrad(b *op.OpNode, s op.Scope, gradSlot string) error {
	g, err := inputVec(b, s, "Out"+op.GradVarSuffix)
	if err != nil {
		return err
	}
	return allocOutput(b, s, gradSlot, len(g))
}

// gradArgs resolves Out@GRAD and one gradient output for a kernel.
func gradArgs(b *op.OpNode, s op.Scope, gradSlot string) (g, dst []float64, err error) {
	if g, err = inputVec(b, s, "Out"+op.GradVarSuffix); err != nil {
		return nil, nil, err
	}
	if dst, err = outputVec(b, s, gradSlot); err != nil {
		return nil, nil, err
	}
	if len(dst) != len(g) {
		return nil, nil, fmt.Errorf("%s: gradient output has %d elements, want %d",
			b.Type, len(dst), len(g))
	}
	return g, dst, nil
}
