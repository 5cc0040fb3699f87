// Package cpsat adapts the CP-SAT solver to the engine contract.
package cpsat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"
	"google.golang.org/protobuf/proto"

	"github.com/wms-platform/wave-optimizer-service/internal/solver"
)

// Engine is the production solver backend. It builds a fresh CP-SAT model
// per call, so one Engine value is safe for concurrent solves.
type Engine struct{}

// New creates a CP-SAT engine
func New() *Engine {
	return &Engine{}
}

// Name returns the engine identifier
func (e *Engine) Name() string {
	return "cpsat"
}

// Solve translates the model into CP-SAT form and runs a single solve
// within the time budget. When the budget elapses CP-SAT returns its best
// incumbent, surfaced as a feasible-but-not-proven-optimal result.
func (e *Engine) Solve(ctx context.Context, m *solver.Model, opts solver.Options) (*solver.Result, error) {
	builder := cpmodel.NewCpModelBuilder()

	vars := make([]cpmodel.LinearArgument, len(m.Variables))
	for i, v := range m.Variables {
		if v.Kind == solver.Binary {
			vars[i] = builder.NewBoolVar()
		} else {
			vars[i] = builder.NewIntVar(v.Lower, v.Upper)
		}
	}

	for _, c := range m.Constraints {
		expr := cpmodel.NewLinearExpr()
		for _, t := range c.Terms {
			expr.AddTerm(vars[t.Var], t.Coef)
		}
		rhs := cpmodel.NewConstant(c.RHS)
		if c.Sense == solver.Equal {
			builder.AddEquality(expr, rhs)
		} else {
			builder.AddLessOrEqual(expr, rhs)
		}
	}

	objective := cpmodel.NewLinearExpr()
	for _, t := range m.Objective {
		objective.AddTerm(vars[t.Var], t.Coef)
	}
	builder.Maximize(objective)

	pb, err := builder.Model()
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate the CP model: %w", err)
	}

	params := &sppb.SatParameters{
		RelativeGapLimit: proto.Float64(opts.GapTolerance),
	}
	if budget := effectiveBudget(ctx, opts.TimeBudget); budget > 0 {
		params.MaxTimeInSeconds = proto.Float64(budget.Seconds())
	}
	if opts.Workers > 0 {
		params.NumWorkers = proto.Int32(int32(opts.Workers))
	}

	response, err := cpmodel.SolveCpModelWithParameters(pb, params)
	if err != nil {
		return nil, fmt.Errorf("failed to solve the model: %w", err)
	}

	r := &solver.Result{
		EngineStatus: response.GetStatus().String(),
		WallTime:     time.Duration(response.GetWallTime() * float64(time.Second)),
	}

	switch response.GetStatus() {
	case cmpb.CpSolverStatus_OPTIMAL:
		r.Status = solver.StatusOptimal
	case cmpb.CpSolverStatus_FEASIBLE:
		r.Status = solver.StatusFeasible
	case cmpb.CpSolverStatus_INFEASIBLE:
		r.Status = solver.StatusInfeasible
	case cmpb.CpSolverStatus_UNKNOWN:
		r.Status = solver.StatusNoSolution
	default:
		return nil, fmt.Errorf("engine reported %s", response.GetStatus())
	}

	if r.Status.HasAssignment() {
		r.Values = make([]float64, len(vars))
		for i, v := range vars {
			r.Values[i] = float64(cpmodel.SolutionIntegerValue(response, v))
		}
		r.Objective = response.GetObjectiveValue()
	}

	return r, nil
}

// effectiveBudget clamps the configured budget to the context deadline so
// CP-SAT stops before the caller gives up on it. An expired deadline is
// floored to a small positive limit: handing CP-SAT a non-positive budget
// would be read as "no limit" and let the solve run unbounded.
func effectiveBudget(ctx context.Context, budget time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining < time.Millisecond {
			remaining = time.Millisecond
		}
		if budget <= 0 || remaining < budget {
			return remaining
		}
	}
	return budget
}
