// Package ops registers the built-in operator kinds: identity, scale, add,
// and sum, together with their gradients. Kernels operate on []float64
// variables in the scope; they exist to exercise the registry machinery end
// to end, not to be a tensor engine.
package ops

import (
	"fmt"

	"github.com/ripple-ml/ripple/internal/op"
)

// Register declares all built-in kinds and their gradients on the given
// registry. Call once during startup, before any instantiation.
func Register(r *op.Registry) error {
	type reg struct {
		kind   string
		maker  func(*op.Maker)
		create op.Constructor
		grad   op.Constructor
	}
	regs := []reg{
		{
			kind: "identity",
			maker: func(m *op.Maker) {
				m.AddInput("X", "The input")
				m.AddOutput("Out", "A copy of the input")
				m.AddComment("Out = X")
			},
			create: func() op.Operator { return &identityOp{} },
			grad:   func() op.Operator { return &identityGradOp{} },
		},
		{
			kind: "scale",
			maker: func(m *op.Maker) {
				m.AddInput("X", "The input")
				m.AddOutput("Out", "The input multiplied by scale")
				op.AddAttr[float32](m, "scale", "The scaling factor").
					SetDefault(1).
					AddChecker(op.LargerThan[float32](0))
				m.AddComment("Out = scale * X")
			},
			create: func() op.Operator { return &scaleOp{} },
			grad:   func() op.Operator { return &scaleGradOp{} },
		},
		{
			kind: "add",
			maker: func(m *op.Maker) {
				m.AddInput("X", "The first addend")
				m.AddInput("Y", "The second addend")
				m.AddOutput("Out", "The elementwise sum")
				m.AddComment("Out = X + Y")
			},
			create: func() op.Operator { return &addOp{} },
			grad:   func() op.Operator { return &addGradOp{} },
		},
		{
			kind: "sum",
			maker: func(m *op.Maker) {
				m.AddInputs("X", "The addends; any number of them")
				m.AddOutput("Out", "The elementwise sum over all addends")
				m.AddComment("Out = X[0] + X[1] + ...")
			},
			create: func() op.Operator { return &sumOp{} },
			grad:   func() op.Operator { return &sumGradOp{} },
		},
	}
	for _, g := range regs {
		if err := r.Register(g.kind, g.maker, g.create); err != nil {
			return err
		}
		if err := r.RegisterGradient(g.kind, g.grad); err != nil {
			return err
		}
	}
	return nil
}

// vec fetches a []float64 variable from the scope.
func vec(s op.Scope, name string) ([]float64, error) {
	v, ok := s.Get(name)
	if !ok {
		return nil, fmt.Errorf("variable %q is not in scope", name)
	}
	data, ok := v.([]float64)
	if !ok {
		return nil, fmt.Errorf("variable %q holds %T, want []float64", name, v)
	}
	return data, nil
}

// alloc binds a zeroed []float64 of length n to name.
func alloc(s op.Scope, name string, n int) {
	s.Set(name, make([]float64, n))
}
