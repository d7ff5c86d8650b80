package functions

import (
	"testing"

	"github.com/rooc-lang/rooc/internal/primitives"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLenFn(t *testing.T) {
	m := NewMap()
	f, ok := m.Lookup("len")
	require.True(t, ok)

	it := primitives.NewNumberIterable([]float64{1, 2, 3})
	kind, err := f.Check([]primitives.KindInfo{it.Kind()})
	require.NoError(t, err)
	assert.Equal(t, primitives.Of(primitives.KindNumber), kind)

	result, err := f.Call([]Parameter{{Value: it}})
	require.NoError(t, err)
	assert.Equal(t, primitives.Number(3), result)
}

func TestLenFnRejectsNonIterable(t *testing.T) {
	m := NewMap()
	f, _ := m.Lookup("len")
	_, err := f.Check([]primitives.KindInfo{primitives.Of(primitives.KindNumber)})
	require.Error(t, err)
}

func TestEnumerateFn(t *testing.T) {
	m := NewMap()
	f, _ := m.Lookup("enumerate")
	it := primitives.NewStringIterable([]string{"a", "b"})

	kind, err := f.Check([]primitives.KindInfo{it.Kind()})
	require.NoError(t, err)
	assert.True(t, kind.IsIterable())

	result, err := f.Call([]Parameter{{Value: it}})
	require.NoError(t, err)
	out := result.(primitives.Iterable)
	require.Len(t, out.Values, 2)
	tup := out.Values[1].(primitives.Tuple)
	assert.Equal(t, primitives.String("b"), tup.Elements[0])
	assert.Equal(t, primitives.Number(1), tup.Elements[1])
}

func TestEdgesFn(t *testing.T) {
	m := NewMap()
	f, _ := m.Lookup("edges")
	g := primitives.NewGraph()
	w := 5.0
	g.AddEdge("A", "B", &w)

	kind, err := f.Check([]primitives.KindInfo{primitives.Of(primitives.KindGraph)})
	require.NoError(t, err)
	assert.Equal(t, primitives.KindGraphEdge, kind.Of.Tag)

	result, err := f.Call([]Parameter{{Value: primitives.GraphValue{Value: g}}})
	require.NoError(t, err)
	out := result.(primitives.Iterable)
	require.Len(t, out.Values, 1)
	edge := out.Values[0].(primitives.Edge)
	assert.Equal(t, "A", edge.Value.From)
	assert.Equal(t, "B", edge.Value.To)
}

func TestRangeFnExclusiveAndInclusive(t *testing.T) {
	m := NewMap()
	f, _ := m.Lookup("range")

	result, err := f.Call([]Parameter{{Value: primitives.Number(0)}, {Value: primitives.Number(3)}, {Value: primitives.Boolean(false)}})
	require.NoError(t, err)
	assert.Len(t, result.(primitives.Iterable).Values, 3)

	result, err = f.Call([]Parameter{{Value: primitives.Number(0)}, {Value: primitives.Number(3)}, {Value: primitives.Boolean(true)}})
	require.NoError(t, err)
	assert.Len(t, result.(primitives.Iterable).Values, 4)
}

func TestRegisterUserDefinedFunctionShadowsBuiltin(t *testing.T) {
	m := NewMap()
	m.Register(constFn{})
	f, ok := m.Lookup("len")
	require.True(t, ok)
	result, err := f.Call(nil)
	require.NoError(t, err)
	assert.Equal(t, primitives.Number(5), result)
}

type constFn struct{}

func (constFn) Name() string { return "len" }
func (constFn) Check([]primitives.KindInfo) (primitives.KindInfo, error) {
	return primitives.Of(primitives.KindNumber), nil
}
func (constFn) Call([]Parameter) (primitives.Primitive, error) {
	return primitives.Number(5), nil
}
