package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors
var (
	ErrPlanNotPending     = errors.New("wave plan is not pending")
	ErrPlanNotSolving     = errors.New("wave plan is not being solved")
	ErrPlanAlreadyFinal   = errors.New("wave plan already reached a final status")
	ErrInvalidOutcome     = errors.New("invalid outcome for this transition")
	ErrSolutionInfeasible = errors.New("solution is infeasible for the instance")
)

// WavePlanStatus represents the lifecycle status of a wave plan
type WavePlanStatus string

const (
	WavePlanStatusPending    WavePlanStatus = "pending"     // Plan accepted, solve not started
	WavePlanStatusSolving    WavePlanStatus = "solving"     // Engine is running
	WavePlanStatusSolved     WavePlanStatus = "solved"      // Feasible wave found and validated
	WavePlanStatusNoSolution WavePlanStatus = "no_solution" // Legitimate empty outcome
	WavePlanStatusFailed     WavePlanStatus = "failed"      // Engine or model defect
)

// FailureReason classifies why a solve produced no accepted wave
type FailureReason string

const (
	FailureReasonNone                 FailureReason = ""
	FailureReasonNoFeasibleAssignment FailureReason = "no_feasible_assignment"
	FailureReasonTimeBudgetExhausted  FailureReason = "time_budget_exhausted"
	FailureReasonPostSolveInfeasible  FailureReason = "post_solve_infeasible"
	FailureReasonEngineFailure        FailureReason = "engine_failure"
)

// PlanSolution is the accepted wave stored on a solved plan
type PlanSolution struct {
	Orders        []int   `bson:"orders" json:"orders"`
	Aisles        []int   `bson:"aisles" json:"aisles"`
	UnitsPicked   int64   `bson:"unitsPicked" json:"unitsPicked"`
	UnitsPerAisle float64 `bson:"unitsPerAisle" json:"unitsPerAisle"`
}

// SolveReport holds engine telemetry for one solve attempt
type SolveReport struct {
	Engine        string        `bson:"engine" json:"engine"`
	EngineStatus  string        `bson:"engineStatus" json:"engineStatus"`
	ProvenOptimal bool          `bson:"provenOptimal" json:"provenOptimal"`
	SolveDuration time.Duration `bson:"solveDuration" json:"solveDuration"`
}

// WavePlan is the aggregate root for one wave optimization request
type WavePlan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	PlanID        string             `bson:"planId"`
	Status        WavePlanStatus     `bson:"status"`
	Instance      InstanceSummary    `bson:"instance"`
	Solution      *PlanSolution      `bson:"solution,omitempty"`
	Report        SolveReport        `bson:"report"`
	FailureReason FailureReason      `bson:"failureReason,omitempty"`
	FailureDetail string             `bson:"failureDetail,omitempty"`
	RequestedBy   string             `bson:"requestedBy,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
	SolvedAt      *time.Time         `bson:"solvedAt,omitempty"`
	DomainEvents  []DomainEvent      `bson:"-"` // Transient
}

// NewWavePlan creates a new WavePlan aggregate in pending status
func NewWavePlan(planID string, instance InstanceSummary) *WavePlan {
	now := time.Now()
	plan := &WavePlan{
		PlanID:       planID,
		Status:       WavePlanStatusPending,
		Instance:     instance,
		CreatedAt:    now,
		UpdatedAt:    now,
		DomainEvents: make([]DomainEvent, 0),
	}

	plan.AddDomainEvent(&WavePlanRequestedEvent{
		PlanID:      planID,
		NumOrders:   instance.NumOrders,
		NumAisles:   instance.NumAisles,
		NumItems:    instance.NumItems,
		LowerBound:  instance.LowerBound,
		UpperBound:  instance.UpperBound,
		RequestedAt: now,
	})

	return plan
}

// StartSolving marks the plan as being solved by the named engine
func (p *WavePlan) StartSolving(engine string) error {
	if p.Status != WavePlanStatusPending {
		return ErrPlanNotPending
	}

	p.Status = WavePlanStatusSolving
	p.Report.Engine = engine
	p.UpdatedAt = time.Now()

	return nil
}

// MarkSolved records an accepted wave and its telemetry
func (p *WavePlan) MarkSolved(solution PlanSolution, report SolveReport) error {
	if p.Status != WavePlanStatusSolving {
		return ErrPlanNotSolving
	}

	now := time.Now()
	p.Status = WavePlanStatusSolved
	p.Solution = &solution
	p.Report = report
	p.FailureReason = FailureReasonNone
	p.SolvedAt = &now
	p.UpdatedAt = now

	p.AddDomainEvent(&WavePlanSolvedEvent{
		PlanID:        p.PlanID,
		Orders:        solution.Orders,
		Aisles:        solution.Aisles,
		UnitsPicked:   solution.UnitsPicked,
		UnitsPerAisle: solution.UnitsPerAisle,
		ProvenOptimal: report.ProvenOptimal,
		SolvedAt:      now,
	})

	return nil
}

// MarkNoSolution records a legitimate empty outcome: either the model is
// proven infeasible or the time budget elapsed without an incumbent.
func (p *WavePlan) MarkNoSolution(reason FailureReason, report SolveReport) error {
	if p.Status != WavePlanStatusSolving {
		return ErrPlanNotSolving
	}
	if reason != FailureReasonNoFeasibleAssignment && reason != FailureReasonTimeBudgetExhausted {
		return ErrInvalidOutcome
	}

	now := time.Now()
	p.Status = WavePlanStatusNoSolution
	p.Report = report
	p.FailureReason = reason
	p.UpdatedAt = now

	p.AddDomainEvent(&WavePlanNoSolutionEvent{
		PlanID:     p.PlanID,
		Reason:     string(reason),
		ResolvedAt: now,
	})

	return nil
}

// MarkFailed records an engine failure or a post-solve validation rejection
func (p *WavePlan) MarkFailed(reason FailureReason, report SolveReport, detail string) error {
	if p.Status != WavePlanStatusSolving {
		return ErrPlanNotSolving
	}
	if reason != FailureReasonEngineFailure && reason != FailureReasonPostSolveInfeasible {
		return ErrInvalidOutcome
	}

	now := time.Now()
	p.Status = WavePlanStatusFailed
	p.Report = report
	p.FailureReason = reason
	p.FailureDetail = detail
	p.UpdatedAt = now

	p.AddDomainEvent(&WavePlanFailedEvent{
		PlanID:   p.PlanID,
		Reason:   string(reason),
		Detail:   detail,
		FailedAt: now,
	})

	return nil
}

// IsFinal reports whether the plan reached a terminal status
func (p *WavePlan) IsFinal() bool {
	switch p.Status {
	case WavePlanStatusSolved, WavePlanStatusNoSolution, WavePlanStatusFailed:
		return true
	}
	return false
}

// Score returns the true ratio score of the accepted wave, 0.0 when absent
func (p *WavePlan) Score() float64 {
	if p.Solution == nil {
		return 0.0
	}
	return p.Solution.UnitsPerAisle
}

// AddDomainEvent adds a domain event
func (p *WavePlan) AddDomainEvent(event DomainEvent) {
	p.DomainEvents = append(p.DomainEvents, event)
}

// ClearDomainEvents clears all domain events
func (p *WavePlan) ClearDomainEvents() {
	p.DomainEvents = make([]DomainEvent, 0)
}

// GetDomainEvents returns all domain events
func (p *WavePlan) GetDomainEvents() []DomainEvent {
	return p.DomainEvents
}
