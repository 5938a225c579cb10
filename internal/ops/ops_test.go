package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripple-ml/ripple/internal/graph"
	"github.com/ripple-ml/ripple/internal/op"
	"github.com/ripple-ml/ripple/internal/scope"
)

func newRegistry(t *testing.T) *op.Registry {
	t.Helper()
	r := op.NewRegistry()
	require.NoError(t, Register(r))
	return r
}

func TestRegisterDeclaresAllKinds(t *testing.T) {
	r := newRegistry(t)
	assert.Equal(t, []string{"add", "identity", "scale", "sum"}, r.Kinds())
}

func TestIdentityForward(t *testing.T) {
	r := newRegistry(t)
	o, err := r.NewOp("identity", []string{"x"}, []string{"y"}, nil)
	require.NoError(t, err)

	s := scope.New()
	s.Set("x", []float64{1, -2, 3})
	require.NoError(t, o.InferShape(s))
	require.NoError(t, o.Run(s, nil))

	y, _ := s.Get("y")
	assert.Equal(t, []float64{1, -2, 3}, y)
}

func TestScaleForward(t *testing.T) {
	r := newRegistry(t)
	o, err := r.NewOp("scale", []string{"x"}, []string{"y"},
		op.AttributeMap{"scale": op.Make(float32(2.5))})
	require.NoError(t, err)

	s := scope.New()
	s.Set("x", []float64{2, 4})
	require.NoError(t, o.InferShape(s))
	require.NoError(t, o.Run(s, nil))

	y, _ := s.Get("y")
	assert.Equal(t, []float64{5, 10}, y)
}

func TestScaleRejectsNonPositiveFactor(t *testing.T) {
	r := newRegistry(t)
	_, err := r.NewOp("scale", []string{"x"}, []string{"y"},
		op.AttributeMap{"scale": op.Make(float32(0))})
	assert.ErrorIs(t, err, op.ErrValidation)
}

func TestSumForward(t *testing.T) {
	r := newRegistry(t)
	o, err := r.NewOp("sum", []string{"a", "b", "c"}, []string{"out"},
		op.AttributeMap{"input_format": op.Make([]int{0, 3})})
	require.NoError(t, err)

	s := scope.New()
	s.Set("a", []float64{1, 1})
	s.Set("b", []float64{2, 2})
	s.Set("c", []float64{3, 3})
	require.NoError(t, o.InferShape(s))
	require.NoError(t, o.Run(s, nil))

	out, _ := s.Get("out")
	assert.Equal(t, []float64{6, 6}, out)
}

func TestSumRejectsLengthMismatch(t *testing.T) {
	r := newRegistry(t)
	o, err := r.NewOp("sum", []string{"a", "b"}, []string{"out"},
		op.AttributeMap{"input_format": op.Make([]int{0, 2})})
	require.NoError(t, err)

	s := scope.New()
	s.Set("a", []float64{1, 2})
	s.Set("b", []float64{1, 2, 3})
	assert.Error(t, o.InferShape(s))
}

func TestAddThroughNet(t *testing.T) {
	r := newRegistry(t)
	scaled, err := r.NewOp("scale", []string{"x"}, []string{"sx"},
		op.AttributeMap{"scale": op.Make(float32(3))})
	require.NoError(t, err)
	added, err := r.NewOp("add", []string{"sx", "y"}, []string{"out"}, nil)
	require.NoError(t, err)

	n := graph.New([]op.Operator{scaled, added}, nil)
	s := scope.New()
	s.Set("x", []float64{1, 2})
	s.Set("y", []float64{10, 20})
	require.NoError(t, n.InferShape(s))
	require.NoError(t, n.Run(s, nil))

	out, _ := s.Get("out")
	assert.Equal(t, []float64{13, 26}, out)
}

func TestScaleBackward(t *testing.T) {
	r := newRegistry(t)
	fwd, err := r.NewOp("scale", []string{"x"}, []string{"y"},
		op.AttributeMap{"scale": op.Make(float32(4))})
	require.NoError(t, err)
	bwd, err := r.NewGradOp(fwd)
	require.NoError(t, err)

	s := scope.New()
	s.Set("x", []float64{1, 2})
	require.NoError(t, fwd.InferShape(s))
	require.NoError(t, fwd.Run(s, nil))
	s.Set("y"+op.GradVarSuffix, []float64{1, 1})
	require.NoError(t, bwd.InferShape(s))
	require.NoError(t, bwd.Run(s, nil))

	dx, _ := s.Get("x" + op.GradVarSuffix)
	assert.Equal(t, []float64{4, 4}, dx)
}

func TestAddBackward(t *testing.T) {
	r := newRegistry(t)
	fwd, err := r.NewOp("add", []string{"x", "y"}, []string{"out"}, nil)
	require.NoError(t, err)
	bwd, err := r.NewGradOp(fwd)
	require.NoError(t, err)

	s := scope.New()
	s.Set("x", []float64{1, 2})
	s.Set("y", []float64{3, 4})
	require.NoError(t, fwd.InferShape(s))
	require.NoError(t, fwd.Run(s, nil))
	s.Set("out"+op.GradVarSuffix, []float64{5, 6})
	require.NoError(t, bwd.InferShape(s))
	require.NoError(t, bwd.Run(s, nil))

	dx, _ := s.Get("x" + op.GradVarSuffix)
	dy, _ := s.Get("y" + op.GradVarSuffix)
	assert.Equal(t, []float64{5, 6}, dx)
	assert.Equal(t, []float64{5, 6}, dy)
}

func TestSumBackward(t *testing.T) {
	r := newRegistry(t)
	fwd, err := r.NewOp("sum", []string{"a", "b", "c"}, []string{"out"},
		op.AttributeMap{"input_format": op.Make([]int{0, 3})})
	require.NoError(t, err)
	bwd, err := r.NewGradOp(fwd)
	require.NoError(t, err)

	// The derived node fans the output gradient back to every addend.
	assert.Equal(t, []string{"a" + op.GradVarSuffix, "b" + op.GradVarSuffix,
		"c" + op.GradVarSuffix}, bwd.Base().Outputs)

	s := scope.New()
	s.Set("a", []float64{1})
	s.Set("b", []float64{2})
	s.Set("c", []float64{3})
	require.NoError(t, fwd.InferShape(s))
	require.NoError(t, fwd.Run(s, nil))
	s.Set("out"+op.GradVarSuffix, []float64{9})
	require.NoError(t, bwd.InferShape(s))
	require.NoError(t, bwd.Run(s, nil))

	for _, name := range []string{"a", "b", "c"} {
		g, ok := s.Get(name + op.GradVarSuffix)
		require.True(t, ok, name)
		assert.Equal(t, []float64{9}, g, name)
	}
}

func TestForwardBackwardNet(t *testing.T) {
	r := newRegistry(t)
	fwd, err := r.NewOp("scale", []string{"x"}, []string{"y"},
		op.AttributeMap{"scale": op.Make(float32(2))})
	require.NoError(t, err)
	bwd, err := r.NewGradOp(fwd)
	require.NoError(t, err)

	n := graph.New([]op.Operator{fwd, bwd}, nil)
	s := scope.New()
	s.Set("x", []float64{3})
	s.Set("y"+op.GradVarSuffix, []float64{1})
	require.NoError(t, n.InferShape(s))
	require.NoError(t, n.Run(s, nil))

	y, _ := s.Get("y")
	dx, _ := s.Get("x" + op.GradVarSuffix)
	assert.Equal(t, []float64{6}, y)
	assert.Equal(t, []float64{2}, dx)
}
