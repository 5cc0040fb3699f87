package solver

import (
	"context"
	"time"
)

// Status classifies the outcome of one engine run
type Status int

const (
	// StatusOptimal means the engine proved optimality within the gap tolerance.
	StatusOptimal Status = iota
	// StatusFeasible means the engine returned an incumbent without an
	// optimality certificate, typically because the time budget elapsed.
	StatusFeasible
	// StatusInfeasible means the engine certified the model has no feasible point.
	StatusInfeasible
	// StatusNoSolution means the search stopped without an incumbent and
	// without an infeasibility certificate.
	StatusNoSolution
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusNoSolution:
		return "no_solution"
	}
	return "unknown"
}

// HasAssignment reports whether the outcome carries a variable assignment
func (s Status) HasAssignment() bool {
	return s == StatusOptimal || s == StatusFeasible
}

// Options are the per-solve engine knobs, passed through unchanged
type Options struct {
	// TimeBudget is the wall-clock budget for the engine call. The engine
	// must return its best incumbent (or a definitive signal) when the
	// budget elapses rather than blocking indefinitely.
	TimeBudget time.Duration

	// GapTolerance is the relative optimality-gap tolerance.
	GapTolerance float64

	// Workers is the engine thread-count hint; 0 means use all available.
	Workers int
}

// DefaultOptions mirrors the production solve configuration: a 540s engine
// budget inside the 600s overall budget, a near-exact gap demand, and all
// available threads.
func DefaultOptions() Options {
	return Options{
		TimeBudget:   540 * time.Second,
		GapTolerance: 1e-15,
		Workers:      0,
	}
}

// Result is one engine outcome. Values holds an assignment for every model
// variable when Status.HasAssignment() is true, indexed like Model.Variables.
type Result struct {
	Status       Status
	EngineStatus string
	Values       []float64
	Objective    float64
	WallTime     time.Duration
}

// Engine solves a Model. Implementations construct all engine state per
// call; a single Engine value is safe for concurrent solves of independent
// models. Exactly one solve attempt is made per call, retries are the
// caller's business.
type Engine interface {
	Name() string
	Solve(ctx context.Context, m *Model, opts Options) (*Result, error)
}
