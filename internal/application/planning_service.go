package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wms-platform/wave-optimizer-service/internal/domain"
	"github.com/wms-platform/wave-optimizer-service/pkg/errors"
	"github.com/wms-platform/wave-optimizer-service/pkg/logging"
)

// PlanningApplicationService handles wave plan use cases
type PlanningApplicationService struct {
	repo      domain.WavePlanRepository
	optimizer domain.WaveOptimizer
	publisher domain.EventPublisher
	logger    *logging.Logger
}

// NewPlanningApplicationService creates a new PlanningApplicationService
func NewPlanningApplicationService(
	repo domain.WavePlanRepository,
	optimizer domain.WaveOptimizer,
	publisher domain.EventPublisher,
	logger *logging.Logger,
) *PlanningApplicationService {
	return &PlanningApplicationService{
		repo:      repo,
		optimizer: optimizer,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateWavePlan validates the instance, runs one solve and persists the
// outcome. A malformed instance is rejected before any solve is attempted;
// a legitimately empty result is recorded on the plan, not returned as an
// error.
func (s *PlanningApplicationService) CreateWavePlan(ctx context.Context, cmd CreateWavePlanCommand) (*WavePlanDTO, error) {
	inst, err := domain.NewInstance(cmd.Orders, cmd.Aisles, cmd.Items, cmd.LowerBound, cmd.UpperBound)
	if err != nil {
		return nil, errors.ErrModelConstruction(err.Error())
	}

	planID := uuid.New().String()
	plan := domain.NewWavePlan(planID, inst.Summary())
	plan.RequestedBy = cmd.RequestedBy

	if err := plan.StartSolving(s.optimizer.Name()); err != nil {
		return nil, fmt.Errorf("failed to start solving: %w", err)
	}

	if err := s.repo.Save(ctx, plan); err != nil {
		s.logger.WithError(err).Error("Failed to save wave plan", "planId", planID)
		return nil, fmt.Errorf("failed to save wave plan: %w", err)
	}

	outcome, err := s.optimizer.Optimize(ctx, inst)
	if err != nil {
		s.logger.WithError(err).Error("Optimize call failed", "planId", planID)
		return nil, fmt.Errorf("failed to optimize: %w", err)
	}

	if err := s.applyOutcome(plan, outcome); err != nil {
		return nil, fmt.Errorf("failed to record outcome: %w", err)
	}

	if err := s.repo.Save(ctx, plan); err != nil {
		s.logger.WithError(err).Error("Failed to save wave plan outcome", "planId", planID)
		return nil, fmt.Errorf("failed to save wave plan: %w", err)
	}

	s.publishEvents(ctx, plan)

	s.logger.Info("Wave plan resolved",
		"planId", planID,
		"status", plan.Status,
		"engine", plan.Report.Engine,
		"engineStatus", plan.Report.EngineStatus)

	return ToWavePlanDTO(plan), nil
}

func (s *PlanningApplicationService) applyOutcome(plan *domain.WavePlan, outcome *domain.OptimizeOutcome) error {
	if outcome.Solved {
		return plan.MarkSolved(domain.PlanSolution{
			Orders:        outcome.Solution.Orders,
			Aisles:        outcome.Solution.Aisles,
			UnitsPicked:   outcome.UnitsPicked,
			UnitsPerAisle: outcome.UnitsPerAisle,
		}, outcome.Report)
	}

	switch outcome.Reason {
	case domain.FailureReasonNoFeasibleAssignment, domain.FailureReasonTimeBudgetExhausted:
		return plan.MarkNoSolution(outcome.Reason, outcome.Report)
	default:
		return plan.MarkFailed(outcome.Reason, outcome.Report, outcome.Detail)
	}
}

// publishEvents publishes the plan's domain events. Publishing is
// best-effort: the resolved plan is already persisted, so a broker outage
// must not fail the request.
func (s *PlanningApplicationService) publishEvents(ctx context.Context, plan *domain.WavePlan) {
	events := plan.GetDomainEvents()
	if len(events) == 0 {
		return
	}

	if err := s.publisher.PublishAll(ctx, events); err != nil {
		s.logger.WithError(err).Warn("Failed to publish wave plan events", "planId", plan.PlanID, "count", len(events))
		return
	}

	plan.ClearDomainEvents()
}

// GetWavePlan retrieves a wave plan by ID
func (s *PlanningApplicationService) GetWavePlan(ctx context.Context, query GetWavePlanQuery) (*WavePlanDTO, error) {
	plan, err := s.repo.FindByID(ctx, query.PlanID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get wave plan", "planId", query.PlanID)
		return nil, fmt.Errorf("failed to get wave plan: %w", err)
	}

	if plan == nil {
		return nil, errors.ErrNotFoundWithID("wave plan", query.PlanID)
	}

	return ToWavePlanDTO(plan), nil
}

// GetWavePlansByStatus retrieves wave plans by status
func (s *PlanningApplicationService) GetWavePlansByStatus(ctx context.Context, query GetWavePlansByStatusQuery) ([]WavePlanListDTO, error) {
	status := domain.WavePlanStatus(query.Status)
	plans, err := s.repo.FindByStatus(ctx, status)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get wave plans by status", "status", status)
		return nil, fmt.Errorf("failed to get wave plans by status: %w", err)
	}

	return ToWavePlanListDTOs(plans), nil
}

// GetWavePlansByDateRange retrieves wave plans created within a time window
func (s *PlanningApplicationService) GetWavePlansByDateRange(ctx context.Context, query GetWavePlansByDateRangeQuery) ([]WavePlanListDTO, error) {
	plans, err := s.repo.FindByDateRange(ctx, query.Start, query.End)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get wave plans by date range", "start", query.Start, "end", query.End)
		return nil, fmt.Errorf("failed to get wave plans by date range: %w", err)
	}

	return ToWavePlanListDTOs(plans), nil
}

// ListRecentWavePlans lists the most recently created wave plans
func (s *PlanningApplicationService) ListRecentWavePlans(ctx context.Context, query ListRecentWavePlansQuery) ([]WavePlanListDTO, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 50
	}

	plans, err := s.repo.FindRecent(ctx, limit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list wave plans")
		return nil, fmt.Errorf("failed to list wave plans: %w", err)
	}

	return ToWavePlanListDTOs(plans), nil
}

// DeleteWavePlan deletes a wave plan
func (s *PlanningApplicationService) DeleteWavePlan(ctx context.Context, cmd DeleteWavePlanCommand) error {
	if err := s.repo.Delete(ctx, cmd.PlanID); err != nil {
		s.logger.WithError(err).Error("Failed to delete wave plan", "planId", cmd.PlanID)
		return fmt.Errorf("failed to delete wave plan: %w", err)
	}

	s.logger.Info("Deleted wave plan", "planId", cmd.PlanID)
	return nil
}
