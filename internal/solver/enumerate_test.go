package solver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/wave-optimizer-service/internal/domain"
)

func solveInstance(t *testing.T, orders, aisles []map[int]int64, items int, lower, upper int64) (*domain.Instance, *Model, *Result) {
	t.Helper()

	inst, err := domain.NewInstance(orders, aisles, items, lower, upper)
	require.NoError(t, err)

	m, err := Build(inst)
	require.NoError(t, err)

	r, err := NewEnumerationEngine().Solve(context.Background(), m, Options{TimeBudget: 30 * time.Second})
	require.NoError(t, err)

	return inst, m, r
}

// TestSolveSingleOrderSingleAisle tests the smallest feasible instance
func TestSolveSingleOrderSingleAisle(t *testing.T) {
	inst, m, r := solveInstance(t,
		[]map[int]int64{{0: 5}},
		[]map[int]int64{{0: 5}},
		1, 1, 10)

	assert.Equal(t, StatusOptimal, r.Status)

	s, err := Extract(m, r)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, s.Orders)
	assert.Equal(t, []int{0}, s.Aisles)
	assert.True(t, inst.IsFeasible(s))
	assert.InDelta(t, 5.0, inst.Objective(s), 1e-9)
}

// TestSolveInsufficientStock tests that a short aisle makes the model infeasible
func TestSolveInsufficientStock(t *testing.T) {
	_, _, r := solveInstance(t,
		[]map[int]int64{{0: 5}},
		[]map[int]int64{{0: 3}},
		1, 1, 10)

	assert.Equal(t, StatusInfeasible, r.Status)
	assert.False(t, r.Status.HasAssignment())
}

// TestSolveRespectsWaveBand tests that only the order fitting the band is taken
func TestSolveRespectsWaveBand(t *testing.T) {
	inst, m, r := solveInstance(t,
		[]map[int]int64{{0: 4}, {0: 6}},
		[]map[int]int64{{0: 10}},
		1, 5, 8)

	assert.Equal(t, StatusOptimal, r.Status)

	s, err := Extract(m, r)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, s.Orders)
	assert.True(t, inst.IsFeasible(s))
	assert.InDelta(t, 6.0, inst.Objective(s), 1e-9)
}

// TestSolvePrefersFewerAisles tests that the ratio objective favors a single
// aisle when either aisle alone can satisfy the order
func TestSolvePrefersFewerAisles(t *testing.T) {
	inst, m, r := solveInstance(t,
		[]map[int]int64{{0: 5}},
		[]map[int]int64{{0: 5}, {0: 5}},
		1, 1, 10)

	assert.Equal(t, StatusOptimal, r.Status)

	s, err := Extract(m, r)
	require.NoError(t, err)
	assert.Len(t, s.Aisles, 1)
	assert.True(t, inst.IsFeasible(s))
	assert.InDelta(t, 5.0, inst.Objective(s), 1e-9)
}

// TestSolveUnreachableBand tests the no-solution case: the band demands far
// more units than the whole warehouse stocks
func TestSolveUnreachableBand(t *testing.T) {
	_, _, r := solveInstance(t,
		[]map[int]int64{{0: 5}, {0: 5}},
		[]map[int]int64{{0: 5}, {0: 5}},
		1, 100, 200)

	assert.Equal(t, StatusInfeasible, r.Status)
}

// TestSolveBestRatioAcrossCombinations tests that the optimum is found over
// a mix of orders and aisles
func TestSolveBestRatioAcrossCombinations(t *testing.T) {
	// Orders: 3 units of item 0, 3 of item 1. Aisle 0 stocks both items,
	// aisle 1 stocks only item 1. Picking both orders from aisle 0 alone
	// gives 6 units in 1 aisle.
	inst, m, r := solveInstance(t,
		[]map[int]int64{{0: 3}, {1: 3}},
		[]map[int]int64{{0: 3, 1: 3}, {1: 3}},
		2, 1, 10)

	assert.Equal(t, StatusOptimal, r.Status)

	s, err := Extract(m, r)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1}, s.Orders)
	assert.Equal(t, []int{0}, s.Aisles)
	assert.True(t, inst.IsFeasible(s))
	assert.InDelta(t, 6.0, inst.Objective(s), 1e-9)
}

// TestEnumerationRefusesLargeModels tests the search-space guardrail
func TestEnumerationRefusesLargeModels(t *testing.T) {
	m := &Model{}
	for i := 0; i < 40; i++ {
		m.addVariable(Variable{Kind: Binary, Upper: 1})
	}

	engine := NewEnumerationEngine()
	_, err := engine.Solve(context.Background(), m, Options{TimeBudget: time.Second})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search space")
}

// TestEnumerationEmptyDomain tests the empty-domain guard
func TestEnumerationEmptyDomain(t *testing.T) {
	m := &Model{}
	m.addVariable(Variable{Name: "broken", Kind: Integer, Lower: 5, Upper: 2})

	_, err := NewEnumerationEngine().Solve(context.Background(), m, Options{TimeBudget: time.Second})
	assert.Error(t, err)
}
