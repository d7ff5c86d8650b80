package linearizer

import (
	"strings"
	"testing"

	"github.com/rooc-lang/rooc/internal/functions"
	"github.com/rooc-lang/rooc/internal/parser"
	"github.com/rooc-lang/rooc/internal/transformer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLinearize(t *testing.T, src string) *LinearModel {
	t.Helper()
	prob, perrs := parser.Parse(src)
	require.Empty(t, perrs)
	model, err := transformer.Transform(prob, functions.NewMap())
	require.NoError(t, err)
	lm, err := Linearize(model)
	require.NoError(t, err)
	return lm
}

func mustFailLinearize(t *testing.T, src string) error {
	t.Helper()
	prob, perrs := parser.Parse(src)
	require.Empty(t, perrs)
	model, err := transformer.Transform(prob, functions.NewMap())
	require.NoError(t, err)
	_, err = Linearize(model)
	require.Error(t, err)
	return err
}

func TestLinearizeKnapsackIsAlreadyLinear(t *testing.T) {
	src := `
max sum(i in 0..len(weights)) { prices[i] * x_i }
s.t.
    sum(i in 0..len(weights)) { weights[i] * x_i } <= capacity
where
    let weights = [10, 60, 30]
    let prices = [1, 10, 15]
    let capacity = 50
define
    x_i as Boolean for i in 0..len(weights)
`
	lm := mustLinearize(t, src)
	assert.Len(t, lm.VariableOrder, 3)
	assert.Len(t, lm.ObjectiveCoeffs, 3)
	assert.ElementsMatch(t, []float64{1, 10, 15}, lm.ObjectiveCoeffs)
	require.Len(t, lm.Constraints, 1)
	assert.Equal(t, 50.0, lm.Constraints[0].Rhs)
}

func TestLinearizeAbsObjective(t *testing.T) {
	lm := mustLinearize(t, "min |x - 3|\ns.t.\n x >= 0\n x <= 10")

	auxIdx := -1
	for i, name := range lm.VariableOrder {
		if strings.HasPrefix(name, "__aux_abs_") {
			auxIdx = i
		}
	}
	require.GreaterOrEqual(t, auxIdx, 0)
	xIdx := lm.IndexOf("x")
	require.GreaterOrEqual(t, xIdx, 0)

	// Objective is just the auxiliary variable.
	for i, c := range lm.ObjectiveCoeffs {
		if i == auxIdx {
			assert.Equal(t, 1.0, c)
		} else {
			assert.Equal(t, 0.0, c)
		}
	}

	require.Len(t, lm.Constraints, 4) // x>=0, x<=10, plus the two lifted |.| constraints
	var sawPlus, sawMinus bool
	for _, c := range lm.Constraints {
		if c.Coeffs[xIdx] == 1 && c.Coeffs[auxIdx] == -1 && c.Rhs == 3 {
			sawPlus = true // x - t <= 3  <=>  t >= x - 3
		}
		if c.Coeffs[xIdx] == -1 && c.Coeffs[auxIdx] == -1 && c.Rhs == -3 {
			sawMinus = true // -x - t <= -3  <=>  t >= -(x-3)
		}
	}
	assert.True(t, sawPlus, "expected a lifted t >= x-3 constraint")
	assert.True(t, sawMinus, "expected a lifted t >= -(x-3) constraint")
}

func TestLinearizeMinObjective(t *testing.T) {
	lm := mustLinearize(t, "max min(x, 5 - x)\ns.t.\n x >= 0\n x <= 5")

	auxIdx := -1
	for i, name := range lm.VariableOrder {
		if strings.HasPrefix(name, "__aux_min_") {
			auxIdx = i
		}
	}
	require.GreaterOrEqual(t, auxIdx, 0)
	xIdx := lm.IndexOf("x")

	require.Len(t, lm.Constraints, 4) // x>=0, x<=5, t<=x, t<=5-x
	var sawTLeX, sawTLe5MinusX bool
	for _, c := range lm.Constraints {
		if c.Coeffs[auxIdx] == 1 && c.Coeffs[xIdx] == -1 && c.Rhs == 0 {
			sawTLeX = true // t - x <= 0  <=>  t <= x
		}
		if c.Coeffs[auxIdx] == 1 && c.Coeffs[xIdx] == 1 && c.Rhs == 5 {
			sawTLe5MinusX = true // t + x <= 5  <=>  t <= 5-x
		}
	}
	assert.True(t, sawTLeX)
	assert.True(t, sawTLe5MinusX)
}

func TestLinearizeAbsConstraintDirect(t *testing.T) {
	lm := mustLinearize(t, "min x\ns.t.\n |x - 2| <= 3")
	// No auxiliary variable: the direct rule applies.
	for _, name := range lm.VariableOrder {
		assert.False(t, strings.HasPrefix(name, "__aux_"))
	}
	require.Len(t, lm.Constraints, 2)
}

func TestLinearizeMinConstraintRequiresAuxOnGe(t *testing.T) {
	lm := mustLinearize(t, "min x\ns.t.\n min(x, y) >= 3")
	var sawAux bool
	for _, name := range lm.VariableOrder {
		if strings.HasPrefix(name, "__aux_min_") {
			sawAux = true
		}
	}
	assert.True(t, sawAux)
	require.Len(t, lm.Constraints, 3) // t<=x, t<=y, t>=3
}

func TestLinearizeMaxConstraintDirectOnGe(t *testing.T) {
	lm := mustLinearize(t, "min x\ns.t.\n max(x, y) >= 3")
	for _, name := range lm.VariableOrder {
		assert.False(t, strings.HasPrefix(name, "__aux_"))
	}
	require.Len(t, lm.Constraints, 2) // x>=3, y>=3
}

func TestLinearizeConstantQuotient(t *testing.T) {
	lm := mustLinearize(t, "min x / 2\ns.t.\n x <= 10")
	xIdx := lm.IndexOf("x")
	assert.Equal(t, 0.5, lm.ObjectiveCoeffs[xIdx])
}

func TestLinearizeRejectsAbsEquality(t *testing.T) {
	mustFailLinearize(t, "min x\ns.t.\n |x - 2| = 3")
}

func TestLinearizeRejectsNonlinearProduct(t *testing.T) {
	mustFailLinearize(t, "min x * y\ns.t.\n x <= 1")
}
