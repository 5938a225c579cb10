package op

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckerFillsDefault(t *testing.T) {
	c := &OpAttrChecker{}
	addAttrChecker[float32](c, "scale").SetDefault(1)

	attrs := AttributeMap{}
	require.NoError(t, c.Check(attrs))

	v, err := Get[float32](attrs["scale"])
	require.NoError(t, err)
	assert.Equal(t, float32(1), v)
}

func TestCheckerRequiredMissing(t *testing.T) {
	c := &OpAttrChecker{}
	addAttrChecker[int](c, "axis")

	err := c.Check(AttributeMap{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckerWrongType(t *testing.T) {
	c := &OpAttrChecker{}
	addAttrChecker[int](c, "axis")

	err := c.Check(AttributeMap{"axis": Make("zero")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckerPredicates(t *testing.T) {
	c := &OpAttrChecker{}
	addAttrChecker[float32](c, "scale").AddChecker(LargerThan[float32](0))

	assert.NoError(t, c.Check(AttributeMap{"scale": Make[float32](0.5)}))

	err := c.Check(AttributeMap{"scale": Make[float32](0)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestInEnum(t *testing.T) {
	c := &OpAttrChecker{}
	addAttrChecker[string](c, "mode").
		SetDefault("mean").
		AddChecker(InEnum("mean", "sum"))

	assert.NoError(t, c.Check(AttributeMap{}))
	assert.NoError(t, c.Check(AttributeMap{"mode": Make("sum")}))
	assert.ErrorIs(t, c.Check(AttributeMap{"mode": Make("max")}), ErrValidation)
}
