package application

import (
	"context"
	"fmt"
	"time"

	"github.com/wms-platform/wave-optimizer-service/internal/domain"
	"github.com/wms-platform/wave-optimizer-service/internal/solver"
	"github.com/wms-platform/wave-optimizer-service/pkg/logging"
	"github.com/wms-platform/wave-optimizer-service/pkg/metrics"
)

// OptimizerConfig holds the solve budgets and engine knobs
type OptimizerConfig struct {
	// OverallBudget bounds one whole optimize call: model construction,
	// the engine run, extraction, validation and scoring.
	OverallBudget time.Duration

	// EngineBudget is the sub-budget handed to the engine, leaving
	// headroom under OverallBudget for the post-solve steps.
	EngineBudget time.Duration

	// GapTolerance is the relative optimality-gap tolerance passed
	// through to the engine unchanged.
	GapTolerance float64

	// Workers is the engine thread-count hint; 0 means use all available.
	Workers int
}

// DefaultOptimizerConfig returns the production budgets
func DefaultOptimizerConfig() OptimizerConfig {
	return OptimizerConfig{
		OverallBudget: 600 * time.Second,
		EngineBudget:  540 * time.Second,
		GapTolerance:  1e-15,
		Workers:       0,
	}
}

// Optimizer runs ratio-maximizing solves against a pluggable engine. It
// performs exactly one engine attempt per call and never retries; every
// extracted candidate is re-validated against the instance before it is
// accepted, and the reported score is always recomputed from the candidate
// rather than taken from the engine.
type Optimizer struct {
	engine  solver.Engine
	config  OptimizerConfig
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewOptimizer creates an Optimizer
func NewOptimizer(engine solver.Engine, config OptimizerConfig, logger *logging.Logger, m *metrics.Metrics) *Optimizer {
	return &Optimizer{
		engine:  engine,
		config:  config,
		logger:  logger.WithComponent("optimizer"),
		metrics: m,
	}
}

// Name identifies the backing engine
func (o *Optimizer) Name() string {
	return o.engine.Name()
}

// Optimize builds the selection model for the instance, solves it once and
// post-processes the result. The returned outcome distinguishes an accepted
// wave, a legitimately empty result and an engine or modeling defect; an
// error is returned only when no solve could be attempted at all.
func (o *Optimizer) Optimize(ctx context.Context, inst *domain.Instance) (*domain.OptimizeOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.OverallBudget)
	defer cancel()

	m, err := solver.Build(inst)
	if err != nil {
		return nil, fmt.Errorf("failed to build model: %w", err)
	}

	opts := solver.Options{
		TimeBudget:   o.config.EngineBudget,
		GapTolerance: o.config.GapTolerance,
		Workers:      o.config.Workers,
	}

	start := time.Now()
	result, err := o.engine.Solve(ctx, m, opts)
	elapsed := time.Since(start)

	if err != nil {
		o.logger.WithError(err).Error("Engine failed", "engine", o.engine.Name())
		o.metrics.RecordSolve(string(domain.FailureReasonEngineFailure), elapsed)
		return &domain.OptimizeOutcome{
			Reason: domain.FailureReasonEngineFailure,
			Detail: err.Error(),
			Report: domain.SolveReport{
				Engine:        o.engine.Name(),
				EngineStatus:  "ERROR",
				SolveDuration: elapsed,
			},
		}, nil
	}

	report := domain.SolveReport{
		Engine:        o.engine.Name(),
		EngineStatus:  result.EngineStatus,
		ProvenOptimal: result.Status == solver.StatusOptimal,
		SolveDuration: elapsed,
	}

	switch result.Status {
	case solver.StatusInfeasible:
		o.logger.Info("No feasible wave exists", "engine", o.engine.Name(), "engineStatus", result.EngineStatus)
		o.metrics.RecordSolve(string(domain.FailureReasonNoFeasibleAssignment), elapsed)
		return &domain.OptimizeOutcome{
			Reason: domain.FailureReasonNoFeasibleAssignment,
			Report: report,
		}, nil

	case solver.StatusNoSolution:
		o.logger.Warn("Time budget elapsed without an incumbent", "engine", o.engine.Name(), "budget", opts.TimeBudget)
		o.metrics.RecordSolve(string(domain.FailureReasonTimeBudgetExhausted), elapsed)
		return &domain.OptimizeOutcome{
			Reason: domain.FailureReasonTimeBudgetExhausted,
			Report: report,
		}, nil
	}

	// Optimal or a best-effort incumbent: extract and independently
	// re-check before accepting.
	candidate, err := solver.Extract(m, result)
	if err != nil {
		o.metrics.RecordSolve(string(domain.FailureReasonEngineFailure), elapsed)
		return &domain.OptimizeOutcome{
			Reason: domain.FailureReasonEngineFailure,
			Detail: err.Error(),
			Report: report,
		}, nil
	}

	if !inst.IsFeasible(candidate) {
		// The relaxed model and the true feasibility definition diverged.
		// This is a modeling-correctness concern, not an absence of
		// solutions, so it is logged at error level and surfaced apart
		// from the infeasible case.
		o.logger.Error("Extracted solution failed the feasibility re-check",
			"engine", o.engine.Name(),
			"engineStatus", result.EngineStatus,
			"orders", len(candidate.Orders),
			"aisles", len(candidate.Aisles))
		o.metrics.RecordSolve(string(domain.FailureReasonPostSolveInfeasible), elapsed)
		return &domain.OptimizeOutcome{
			Reason: domain.FailureReasonPostSolveInfeasible,
			Detail: fmt.Sprintf("candidate with %d orders and %d aisles rejected", len(candidate.Orders), len(candidate.Aisles)),
			Report: report,
		}, nil
	}

	score := inst.Objective(candidate)
	o.logger.SolverRun(ctx, o.engine.Name(), result.EngineStatus, elapsed, score, report.ProvenOptimal)
	o.metrics.RecordSolve("solved", elapsed)
	o.metrics.RecordWave(len(candidate.Orders), len(candidate.Aisles), score)
	o.metrics.RecordOptimality(o.engine.Name(), report.ProvenOptimal)

	return &domain.OptimizeOutcome{
		Solution:      candidate,
		UnitsPicked:   inst.UnitsPicked(candidate),
		UnitsPerAisle: score,
		Solved:        true,
		Report:        report,
	}, nil
}
