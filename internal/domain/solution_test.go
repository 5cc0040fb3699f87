package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInstance(t *testing.T, orders, aisles []map[int]int64, items int, lower, upper int64) *Instance {
	t.Helper()
	inst, err := NewInstance(orders, aisles, items, lower, upper)
	require.NoError(t, err)
	return inst
}

// TestIsFeasible tests the independent feasibility re-check
func TestIsFeasible(t *testing.T) {
	tests := []struct {
		name     string
		instance func(t *testing.T) *Instance
		solution WaveSolution
		feasible bool
	}{
		{
			name: "Single order fully covered by single aisle",
			instance: func(t *testing.T) *Instance {
				return mustInstance(t,
					[]map[int]int64{{0: 5}},
					[]map[int]int64{{0: 5}},
					1, 1, 10)
			},
			solution: WaveSolution{Orders: []int{0}, Aisles: []int{0}},
			feasible: true,
		},
		{
			name: "Aisle stock short of the requested units",
			instance: func(t *testing.T) *Instance {
				return mustInstance(t,
					[]map[int]int64{{0: 5}},
					[]map[int]int64{{0: 3}},
					1, 1, 10)
			},
			solution: WaveSolution{Orders: []int{0}, Aisles: []int{0}},
			feasible: false,
		},
		{
			name: "Wave within band",
			instance: func(t *testing.T) *Instance {
				return mustInstance(t,
					[]map[int]int64{{0: 4}, {0: 6}},
					[]map[int]int64{{0: 10}},
					1, 5, 8)
			},
			solution: WaveSolution{Orders: []int{1}, Aisles: []int{0}},
			feasible: true,
		},
		{
			name: "Wave above upper bound",
			instance: func(t *testing.T) *Instance {
				return mustInstance(t,
					[]map[int]int64{{0: 4}, {0: 6}},
					[]map[int]int64{{0: 10}},
					1, 5, 8)
			},
			solution: WaveSolution{Orders: []int{0, 1}, Aisles: []int{0}},
			feasible: false,
		},
		{
			name: "Wave below lower bound",
			instance: func(t *testing.T) *Instance {
				return mustInstance(t,
					[]map[int]int64{{0: 4}, {0: 6}},
					[]map[int]int64{{0: 10}},
					1, 5, 8)
			},
			solution: WaveSolution{Orders: []int{0}, Aisles: []int{0}},
			feasible: false,
		},
		{
			name: "Stock pooled across multiple aisles",
			instance: func(t *testing.T) *Instance {
				return mustInstance(t,
					[]map[int]int64{{0: 6}},
					[]map[int]int64{{0: 3}, {0: 3}},
					1, 1, 10)
			},
			solution: WaveSolution{Orders: []int{0}, Aisles: []int{0, 1}},
			feasible: true,
		},
		{
			name: "Duplicate order index",
			instance: func(t *testing.T) *Instance {
				return mustInstance(t,
					[]map[int]int64{{0: 2}},
					[]map[int]int64{{0: 10}},
					1, 1, 10)
			},
			solution: WaveSolution{Orders: []int{0, 0}, Aisles: []int{0}},
			feasible: false,
		},
		{
			name: "Duplicate aisle index",
			instance: func(t *testing.T) *Instance {
				return mustInstance(t,
					[]map[int]int64{{0: 5}},
					[]map[int]int64{{0: 3}},
					1, 1, 10)
			},
			solution: WaveSolution{Orders: []int{0}, Aisles: []int{0, 0}},
			feasible: false,
		},
		{
			name: "Order index out of range",
			instance: func(t *testing.T) *Instance {
				return mustInstance(t,
					[]map[int]int64{{0: 5}},
					[]map[int]int64{{0: 5}},
					1, 1, 10)
			},
			solution: WaveSolution{Orders: []int{3}, Aisles: []int{0}},
			feasible: false,
		},
		{
			name: "Aisle index out of range",
			instance: func(t *testing.T) *Instance {
				return mustInstance(t,
					[]map[int]int64{{0: 5}},
					[]map[int]int64{{0: 5}},
					1, 1, 10)
			},
			solution: WaveSolution{Orders: []int{0}, Aisles: []int{-1}},
			feasible: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := tt.instance(t)
			assert.Equal(t, tt.feasible, inst.IsFeasible(tt.solution))
		})
	}
}

// TestIsFeasibleRejectsEmptySelections tests that either empty side is
// rejected regardless of quantities and bounds
func TestIsFeasibleRejectsEmptySelections(t *testing.T) {
	inst := mustInstance(t,
		[]map[int]int64{{0: 5}},
		[]map[int]int64{{0: 5}},
		1, 0, 10)

	assert.False(t, inst.IsFeasible(WaveSolution{}))
	assert.False(t, inst.IsFeasible(WaveSolution{Orders: []int{0}}))
	assert.False(t, inst.IsFeasible(WaveSolution{Aisles: []int{0}}))
}

// TestObjective tests the true ratio objective
func TestObjective(t *testing.T) {
	t.Run("Units picked over aisles visited", func(t *testing.T) {
		inst := mustInstance(t,
			[]map[int]int64{{0: 5}},
			[]map[int]int64{{0: 5}},
			1, 1, 10)

		s := WaveSolution{Orders: []int{0}, Aisles: []int{0}}
		assert.InDelta(t, 5.0, inst.Objective(s), 1e-9)
	})

	t.Run("More aisles lowers the score", func(t *testing.T) {
		inst := mustInstance(t,
			[]map[int]int64{{0: 6}},
			[]map[int]int64{{0: 6}, {0: 6}},
			1, 1, 10)

		oneAisle := WaveSolution{Orders: []int{0}, Aisles: []int{0}}
		twoAisles := WaveSolution{Orders: []int{0}, Aisles: []int{0, 1}}
		assert.InDelta(t, 6.0, inst.Objective(oneAisle), 1e-9)
		assert.InDelta(t, 3.0, inst.Objective(twoAisles), 1e-9)
	})

	t.Run("Empty solution scores zero", func(t *testing.T) {
		inst := mustInstance(t,
			[]map[int]int64{{0: 5}},
			[]map[int]int64{{0: 5}},
			1, 1, 10)

		assert.Equal(t, 0.0, inst.Objective(WaveSolution{}))
	})
}

// TestValidatorIdempotence tests that re-checking the same solution yields
// identical results
func TestValidatorIdempotence(t *testing.T) {
	inst := mustInstance(t,
		[]map[int]int64{{0: 4}, {0: 6}},
		[]map[int]int64{{0: 10}},
		1, 5, 8)

	s := WaveSolution{Orders: []int{1}, Aisles: []int{0}}
	for i := 0; i < 3; i++ {
		assert.True(t, inst.IsFeasible(s))
		assert.InDelta(t, 6.0, inst.Objective(s), 1e-9)
	}
}

// TestIsFeasibleAgainstBruteForce fuzzes random instances and solutions and
// checks the validator against a naive dense recomputation
func TestIsFeasibleAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		items := 1 + rng.Intn(4)
		numOrders := 1 + rng.Intn(4)
		numAisles := 1 + rng.Intn(3)

		orders := make([]map[int]int64, numOrders)
		for i := range orders {
			orders[i] = randomQuantities(rng, items)
		}
		aisles := make([]map[int]int64, numAisles)
		for j := range aisles {
			aisles[j] = randomQuantities(rng, items)
		}

		lower := int64(rng.Intn(5))
		upper := lower + int64(rng.Intn(10))

		inst, err := NewInstance(orders, aisles, items, lower, upper)
		require.NoError(t, err)

		s := WaveSolution{
			Orders: randomSubset(rng, numOrders),
			Aisles: randomSubset(rng, numAisles),
		}

		want := bruteForceFeasible(orders, aisles, items, lower, upper, s)
		assert.Equal(t, want, inst.IsFeasible(s),
			"trial %d: orders=%v aisles=%v band=[%d,%d] solution=%+v",
			trial, orders, aisles, lower, upper, s)
	}
}

func randomQuantities(rng *rand.Rand, items int) map[int]int64 {
	m := map[int]int64{rng.Intn(items): 1 + int64(rng.Intn(5))}
	if rng.Intn(2) == 0 {
		m[rng.Intn(items)] = 1 + int64(rng.Intn(5))
	}
	return m
}

func randomSubset(rng *rand.Rand, n int) []int {
	var subset []int
	for i := 0; i < n; i++ {
		if rng.Intn(2) == 0 {
			subset = append(subset, i)
		}
	}
	return subset
}

func bruteForceFeasible(orders, aisles []map[int]int64, items int, lower, upper int64, s WaveSolution) bool {
	if len(s.Orders) == 0 || len(s.Aisles) == 0 {
		return false
	}

	picked := make([]int64, items)
	available := make([]int64, items)

	var total int64
	for _, i := range s.Orders {
		for item, qty := range orders[i] {
			picked[item] += qty
			total += qty
		}
	}
	for _, j := range s.Aisles {
		for item, qty := range aisles[j] {
			available[item] += qty
		}
	}

	if total < lower || total > upper {
		return false
	}
	for item := 0; item < items; item++ {
		if picked[item] > available[item] {
			return false
		}
	}
	return true
}
