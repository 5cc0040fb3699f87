package solver

import (
	"errors"
	"fmt"

	"github.com/wms-platform/wave-optimizer-service/internal/domain"
)

// ErrNilInstance is returned when Build is called without an instance
var ErrNilInstance = errors.New("instance is required")

// Build translates an instance into a ratio-maximizing selection model.
//
// Variables: one binary per order and per aisle, an integer N for total
// units picked bounded by the wave-size band, an integer D for aisles
// visited, and an integer surrogate Z that stands in for the ratio
// objective. With upperBound as UB:
//
//	per item:  Σ requested·orderVar − Σ available·aisleVar ≤ 0
//	linkage:   Σ aisleVar = D
//	linkage:   Σ orderUnits·orderVar = N
//	surrogate: Z − N + UB·D ≤ UB·numAisles
//	maximize Z
//
// The surrogate cut is a relaxation, not an exact reformulation of N/D;
// the engine's objective value is therefore never reported to callers,
// the true ratio is recomputed from the extracted solution instead.
//
// Item capacity rows are accumulated sparsely over the items that actually
// appear in some order or aisle mapping, so construction cost is
// proportional to the number of (order,item) and (aisle,item) entries.
func Build(inst *domain.Instance) (*Model, error) {
	if inst == nil {
		return nil, ErrNilInstance
	}

	numOrders := inst.NumOrders()
	numAisles := inst.NumAisles()
	lower, upper := inst.Bounds()

	m := &Model{
		OrderVars: make([]int, numOrders),
		AisleVars: make([]int, numAisles),
	}

	for i := 0; i < numOrders; i++ {
		m.OrderVars[i] = m.addVariable(Variable{
			Name:  fmt.Sprintf("order[%d]", i),
			Kind:  Binary,
			Upper: 1,
		})
	}
	for j := 0; j < numAisles; j++ {
		m.AisleVars[j] = m.addVariable(Variable{
			Name:  fmt.Sprintf("aisle[%d]", j),
			Kind:  Binary,
			Upper: 1,
		})
	}

	m.UnitsVar = m.addVariable(Variable{
		Name:  "unitsPicked",
		Kind:  Integer,
		Lower: lower,
		Upper: upper,
	})
	m.AislesVar = m.addVariable(Variable{
		Name:  "aislesVisited",
		Kind:  Integer,
		Lower: 1,
		Upper: int64(numAisles),
	})

	// All coefficients are integral, so the maximal surrogate value is
	// integral too; an integer Z loses nothing against a continuous one.
	m.ScoreVar = m.addVariable(Variable{
		Name:  "ratioSurrogate",
		Kind:  Integer,
		Lower: 0,
		Upper: upper * int64(numAisles),
	})

	// Per-item capacity, accumulated sparsely.
	capacity := make(map[int][]Term)
	for i := 0; i < numOrders; i++ {
		for item, qty := range inst.OrderItems(i) {
			capacity[item] = append(capacity[item], Term{Var: m.OrderVars[i], Coef: qty})
		}
	}
	for j := 0; j < numAisles; j++ {
		for item, qty := range inst.AisleItems(j) {
			capacity[item] = append(capacity[item], Term{Var: m.AisleVars[j], Coef: -qty})
		}
	}
	for item, terms := range capacity {
		m.addConstraint(Constraint{
			Name:  fmt.Sprintf("capacity[%d]", item),
			Terms: terms,
			Sense: LessOrEqual,
			RHS:   0,
		})
	}

	// Aisle count linkage: Σ aisleVar − D = 0.
	aisleTerms := make([]Term, 0, numAisles+1)
	for j := 0; j < numAisles; j++ {
		aisleTerms = append(aisleTerms, Term{Var: m.AisleVars[j], Coef: 1})
	}
	aisleTerms = append(aisleTerms, Term{Var: m.AislesVar, Coef: -1})
	m.addConstraint(Constraint{Name: "aisleCount", Terms: aisleTerms, Sense: Equal})

	// Units linkage: Σ orderUnits·orderVar − N = 0.
	unitTerms := make([]Term, 0, numOrders+1)
	for i := 0; i < numOrders; i++ {
		unitTerms = append(unitTerms, Term{Var: m.OrderVars[i], Coef: inst.OrderUnits(i)})
	}
	unitTerms = append(unitTerms, Term{Var: m.UnitsVar, Coef: -1})
	m.addConstraint(Constraint{Name: "unitCount", Terms: unitTerms, Sense: Equal})

	// Surrogate cut: Z − N + UB·D ≤ UB·numAisles.
	m.addConstraint(Constraint{
		Name: "ratioCut",
		Terms: []Term{
			{Var: m.ScoreVar, Coef: 1},
			{Var: m.UnitsVar, Coef: -1},
			{Var: m.AislesVar, Coef: upper},
		},
		Sense: LessOrEqual,
		RHS:   upper * int64(numAisles),
	})

	m.Objective = []Term{{Var: m.ScoreVar, Coef: 1}}

	return m, nil
}
