package primitives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindInfoEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  KindInfo
		equal bool
	}{
		{"number==number", Of(KindNumber), Of(KindNumber), true},
		{"number==integer", Of(KindNumber), Of(KindInteger), true},
		{"number!=string", Of(KindNumber), Of(KindString), false},
		{"iterable(number)==iterable(number)", IterableOf(Of(KindNumber)), IterableOf(Of(KindNumber)), true},
		{"iterable(number)!=iterable(string)", IterableOf(Of(KindNumber)), IterableOf(Of(KindString)), false},
		{"any matches anything", Of(KindAny), Of(KindGraph), true},
		{
			"tuple shapes must match",
			TupleOf(Of(KindString), Of(KindNumber)),
			TupleOf(Of(KindString), Of(KindNumber)),
			true,
		},
		{
			"tuple arity mismatch",
			TupleOf(Of(KindString), Of(KindNumber)),
			TupleOf(Of(KindString)),
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equal(tt.b))
		})
	}
}

func TestSpreadTuple(t *testing.T) {
	tup := NewTuple(String("a"), Number(1))
	values, err := Spread(tup)
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, String("a"), values[0])
	assert.Equal(t, Number(1), values[1])
}

func TestSpreadEdgeCanonicalOrder(t *testing.T) {
	weight := 3.0
	edge := Edge{Value: GraphEdge{From: "A", To: "B", Weight: &weight}}
	values, err := Spread(edge)
	require.NoError(t, err)
	require.Len(t, values, 3)
	// Canonical order is (from, to, weight); NOT (from, weight, to).
	assert.Equal(t, String("A"), values[0])
	assert.Equal(t, String("B"), values[1])
	assert.Equal(t, Number(3), values[2])
}

func TestSpreadEdgeDefaultWeight(t *testing.T) {
	edge := Edge{Value: GraphEdge{From: "A", To: "B"}}
	values, err := Spread(edge)
	require.NoError(t, err)
	assert.Equal(t, Number(1), values[2])
}

func TestSpreadNonSpreadable(t *testing.T) {
	_, err := Spread(Number(1))
	require.Error(t, err)
}

func TestGraphDeterministicOrder(t *testing.T) {
	g := NewGraph()
	g.AddEdge("A", "B", nil)
	g.AddEdge("B", "C", nil)
	g.AddEdge("A", "C", nil)

	nodes := g.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, "A", nodes[0].Name)
	assert.Equal(t, "B", nodes[1].Name)
	assert.Equal(t, "C", nodes[2].Name)

	edges := g.Edges()
	require.Len(t, edges, 3)
	assert.Equal(t, "A", edges[0].From)
	assert.Equal(t, "C", edges[2].To)
}
