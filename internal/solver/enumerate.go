package solver

import (
	"context"
	"fmt"
	"time"
)

// defaultMaxStates caps the search space the enumeration engine accepts.
const defaultMaxStates = 5_000_000

// EnumerationEngine solves a model by exhaustive search over the variable
// domains. It proves optimality or infeasibility outright, which makes it
// the reference engine for small instances; it refuses models whose search
// space exceeds MaxStates.
type EnumerationEngine struct {
	MaxStates int64
}

// NewEnumerationEngine creates an enumeration engine with the default cap
func NewEnumerationEngine() *EnumerationEngine {
	return &EnumerationEngine{MaxStates: defaultMaxStates}
}

// Name returns the engine identifier
func (e *EnumerationEngine) Name() string {
	return "enumeration"
}

// Solve exhaustively enumerates assignments and keeps the best feasible one
func (e *EnumerationEngine) Solve(ctx context.Context, m *Model, opts Options) (*Result, error) {
	states := int64(1)
	for _, v := range m.Variables {
		size := v.Upper - v.Lower + 1
		if size <= 0 {
			return nil, fmt.Errorf("variable %q has empty domain [%d,%d]", v.Name, v.Lower, v.Upper)
		}
		states *= size
		if states > e.MaxStates {
			return nil, fmt.Errorf("search space exceeds %d states", e.MaxStates)
		}
	}

	deadline := time.Now().Add(opts.TimeBudget)
	if opts.TimeBudget <= 0 {
		deadline = time.Now().Add(time.Hour)
	}
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	start := time.Now()
	search := &enumeration{
		model:    m,
		values:   make([]int64, len(m.Variables)),
		deadline: deadline,
	}
	search.walk(0)

	r := &Result{WallTime: time.Since(start)}
	switch {
	case search.found && !search.stopped:
		r.Status = StatusOptimal
	case search.found:
		r.Status = StatusFeasible
	case search.stopped:
		r.Status = StatusNoSolution
	default:
		r.Status = StatusInfeasible
	}
	r.EngineStatus = r.Status.String()

	if search.found {
		r.Values = make([]float64, len(search.best))
		for i, v := range search.best {
			r.Values[i] = float64(v)
		}
		r.Objective = float64(search.bestObjective)
	}

	return r, nil
}

type enumeration struct {
	model    *Model
	values   []int64
	deadline time.Time

	found         bool
	best          []int64
	bestObjective int64

	stopped bool
	visited int
}

func (s *enumeration) walk(depth int) {
	if s.stopped {
		return
	}
	if depth == len(s.values) {
		s.visited++
		if s.visited%4096 == 0 && time.Now().After(s.deadline) {
			s.stopped = true
			return
		}
		s.evaluate()
		return
	}

	v := s.model.Variables[depth]
	for x := v.Lower; x <= v.Upper; x++ {
		s.values[depth] = x
		s.walk(depth + 1)
		if s.stopped {
			return
		}
	}
}

func (s *enumeration) evaluate() {
	for _, c := range s.model.Constraints {
		var sum int64
		for _, t := range c.Terms {
			sum += t.Coef * s.values[t.Var]
		}
		switch c.Sense {
		case LessOrEqual:
			if sum > c.RHS {
				return
			}
		case Equal:
			if sum != c.RHS {
				return
			}
		}
	}

	var objective int64
	for _, t := range s.model.Objective {
		objective += t.Coef * s.values[t.Var]
	}

	if !s.found || objective > s.bestObjective {
		s.found = true
		s.bestObjective = objective
		s.best = append(s.best[:0], s.values...)
	}
}
