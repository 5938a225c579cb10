package op

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeRoundTrip(t *testing.T) {
	a := Make(42)
	v, err := Get[int](a)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	f := Make[float32](1.5)
	fv, err := Get[float32](f)
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), fv)

	s := Make("name")
	sv, err := Get[string](s)
	require.NoError(t, err)
	assert.Equal(t, "name", sv)

	ints := Make([]int{0, 2, 5})
	iv, err := Get[[]int](ints)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 5}, iv)
}

func TestAttributeTypeMismatch(t *testing.T) {
	a := Make(7)
	_, err := Get[float32](a)
	assert.Error(t, err)

	_, err = Get[[]int](a)
	assert.Error(t, err)
}

func TestAttributeImmutable(t *testing.T) {
	src := []int{1, 2, 3}
	a := Make(src)
	src[0] = 99

	got, err := Get[[]int](a)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got, "constructing must copy the slice")

	got[1] = 99
	again, err := Get[[]int](a)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, again, "reading must copy the slice")
}

func TestAttributeEqual(t *testing.T) {
	assert.True(t, Make(3).Equal(Make(3)))
	assert.False(t, Make(3).Equal(Make(4)))
	assert.False(t, Make(3).Equal(Make[float32](3)))
	assert.True(t, Make([]string{"a"}).Equal(Make([]string{"a"})))
	assert.False(t, Make([]string{"a"}).Equal(Make([]string{"b"})))
}

func TestAttributeMapClone(t *testing.T) {
	m := AttributeMap{"k": Make(1)}
	c := m.Clone()
	c["k"] = Make(2)
	c["extra"] = Make(3)

	v, err := Get[int](m["k"])
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Len(t, m, 1)
}
