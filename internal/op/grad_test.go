package op

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newGradRegistry registers "mul": inputs [A, B], outputs [Out], plus a
// gradient kind, and "relu" without one.
func newGradRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.Register("mul", func(m *Maker) {
		m.AddInput("A", "The first factor")
		m.AddInput("B", "The second factor")
		m.AddOutput("Out", "The product")
	}, mockConstructor))
	require.NoError(t, r.RegisterGradient("mul", mockConstructor))
	require.NoError(t, r.Register("relu", func(m *Maker) {
		m.AddInput("X", "")
		m.AddOutput("Out", "")
	}, mockConstructor))
	return r
}

func TestGradWiringUngrouped(t *testing.T) {
	r := newGradRegistry(t)
	fwd, err := r.NewOp("mul", []string{"a", "b"}, []string{"c"}, nil)
	require.NoError(t, err)

	grad, err := r.NewGradOp(fwd)
	require.NoError(t, err)

	gb := grad.Base()
	assert.Equal(t, []string{"a", "b", "c", "c" + GradVarSuffix}, gb.Inputs)
	assert.Equal(t, []string{"a" + GradVarSuffix, "b" + GradVarSuffix}, gb.Outputs)
}

func TestGradIndexDualSpace(t *testing.T) {
	r := newGradRegistry(t)
	fwd, err := r.NewOp("mul", []string{"a", "b"}, []string{"c"}, nil)
	require.NoError(t, err)
	grad, err := r.NewGradOp(fwd)
	require.NoError(t, err)

	gb := grad.Base()
	// Continuous input space: A=0, B=1, Out=2, Out@GRAD=3.
	wantIn := map[string]int{
		"A": 0, "B": 1, "Out": 2, "Out" + GradVarSuffix: 3,
	}
	for name, want := range wantIn {
		pos, err := gb.Pos(name)
		require.NoError(t, err)
		assert.Equal(t, want, pos, "input-space offset of %s", name)
	}
	// Output space restarts at zero: A@GRAD=0, B@GRAD=1.
	for i, name := range []string{"A" + GradVarSuffix, "B" + GradVarSuffix} {
		pos, err := gb.Pos(name)
		require.NoError(t, err)
		assert.Equal(t, i, pos, "output-space offset of %s", name)
	}

	// Name resolution through both spaces.
	v, err := gb.Input("Out" + GradVarSuffix)
	require.NoError(t, err)
	assert.Equal(t, "c"+GradVarSuffix, v)
	v, err = gb.Output("A" + GradVarSuffix)
	require.NoError(t, err)
	assert.Equal(t, "a"+GradVarSuffix, v)
}

func TestGradSharedIndexNotMutated(t *testing.T) {
	r := newGradRegistry(t)
	fwd, err := r.NewOp("mul", []string{"a", "b"}, []string{"c"}, nil)
	require.NoError(t, err)
	grad, err := r.NewGradOp(fwd)
	require.NoError(t, err)

	// The forward node keeps its own two-range index.
	pos, err := fwd.Base().Pos("Out")
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
	// The gradient node sees Out in the continuous space.
	pos, err = grad.Base().Pos("Out")
	require.NoError(t, err)
	assert.Equal(t, 2, pos)
}

func TestGradNotDifferentiable(t *testing.T) {
	r := newGradRegistry(t)
	fwd, err := r.NewOp("relu", []string{"x"}, []string{"y"}, nil)
	require.NoError(t, err)

	grad, err := r.NewGradOp(fwd)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotDifferentiable)
	assert.Nil(t, grad)
}

func TestGradAttrsCopiedWithoutFormats(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("scaled", func(m *Maker) {
		m.AddInput("X", "")
		m.AddOutput("Out", "")
		AddAttr[float32](m, "scale", "").SetDefault(2)
	}, mockConstructor))
	require.NoError(t, r.RegisterGradient("scaled", mockConstructor))

	fwd, err := r.NewOp("scaled", []string{"x"}, []string{"y"}, nil)
	require.NoError(t, err)
	grad, err := r.NewGradOp(fwd)
	require.NoError(t, err)

	gb := grad.Base()
	scale, err := GetAttr[float32](gb, "scale")
	require.NoError(t, err)
	assert.Equal(t, float32(2), scale)

	// No grouping anywhere: no format attributes on the gradient node.
	_, hasIn := gb.Attr("input_format")
	_, hasOut := gb.Attr("output_format")
	assert.False(t, hasIn)
	assert.False(t, hasOut)
}

func TestGradFormatGroupedInputs(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("concat", func(m *Maker) {
		m.AddInputs("X", "Grouped inputs")
		m.AddOutput("Out", "The output")
	}, mockConstructor))
	require.NoError(t, r.RegisterGradient("concat", mockConstructor))

	// Two input groups of sizes 2 and 3, one ungrouped output.
	fwd, err := r.NewOp("concat",
		[]string{"x0", "x1", "x2", "x3", "x4"}, []string{"out"},
		AttributeMap{"input_format": Make([]int{0, 2, 5})})
	require.NoError(t, err)

	grad, err := r.NewGradOp(fwd)
	require.NoError(t, err)
	gb := grad.Base()

	// Gradient inputs: 5 forward inputs, 1 forward output, 1 output gradient.
	// The format concatenates the forward input offsets, the (synthesized)
	// output offsets shifted by the input count, and the input offsets
	// shifted by input count + output count.
	inFormat, err := GetAttr[[]int](gb, "input_format")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 5, 5, 6, 8, 11}, inFormat)

	// Gradient outputs mirror the grouped forward inputs one for one.
	outFormat, err := GetAttr[[]int](gb, "output_format")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 5}, outFormat)

	// Resolving the grouped slots through the derived formats.
	xs, err := gb.InputList("X")
	require.NoError(t, err)
	assert.Equal(t, []string{"x0", "x1"}, xs)
	gxs, err := gb.OutputList("X" + GradVarSuffix)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"x0" + GradVarSuffix, "x1" + GradVarSuffix},
		gxs)
}

func TestGradFormatGroupedOutputsOnly(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("split", func(m *Maker) {
		m.AddInput("X", "The input")
		m.AddOutputs("Out", "Grouped outputs")
	}, mockConstructor))
	require.NoError(t, r.RegisterGradient("split", mockConstructor))

	fwd, err := r.NewOp("split",
		[]string{"x"}, []string{"o0", "o1", "o2"},
		AttributeMap{"output_format": Make([]int{0, 3})})
	require.NoError(t, err)

	grad, err := r.NewGradOp(fwd)
	require.NoError(t, err)
	gb := grad.Base()

	// input offsets synthesized as [0]; output offsets [0, 3] shifted by 1;
	// input offsets shifted by 1 + 3.
	inFormat, err := GetAttr[[]int](gb, "input_format")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 4, 4}, inFormat)

	// The forward inputs were ungrouped, so no output_format is emitted.
	_, hasOut := gb.Attr("output_format")
	assert.False(t, hasOut)
}

func TestGradDegenerateNoOutputs(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("sink", func(m *Maker) {
		m.AddInput("X", "Consumed, never produced")
	}, mockConstructor))
	require.NoError(t, r.RegisterGradient("sink", mockConstructor))

	fwd, err := r.NewOp("sink", []string{"x"}, nil, nil)
	require.NoError(t, err)
	grad, err := r.NewGradOp(fwd)
	require.NoError(t, err)

	gb := grad.Base()
	assert.Equal(t, []string{"x"}, gb.Inputs)
	assert.Equal(t, []string{"x" + GradVarSuffix}, gb.Outputs)
}

func TestGradDegenerateNoInputs(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("source", func(m *Maker) {
		m.AddOutput("Out", "Produced from nothing")
	}, mockConstructor))
	require.NoError(t, r.RegisterGradient("source", mockConstructor))

	fwd, err := r.NewOp("source", nil, []string{"y"}, nil)
	require.NoError(t, err)
	grad, err := r.NewGradOp(fwd)
	require.NoError(t, err)

	gb := grad.Base()
	assert.Equal(t, []string{"y", "y" + GradVarSuffix}, gb.Inputs)
	assert.Empty(t, gb.Outputs)
}
