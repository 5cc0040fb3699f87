package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/wave-optimizer-service/internal/domain"
	apperrors "github.com/wms-platform/wave-optimizer-service/pkg/errors"
	"github.com/wms-platform/wave-optimizer-service/pkg/logging"
)

type MockWavePlanRepository struct {
	mock.Mock
}

func (m *MockWavePlanRepository) Save(ctx context.Context, plan *domain.WavePlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockWavePlanRepository) FindByID(ctx context.Context, planID string) (*domain.WavePlan, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WavePlan), args.Error(1)
}

func (m *MockWavePlanRepository) FindByStatus(ctx context.Context, status domain.WavePlanStatus) ([]*domain.WavePlan, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WavePlan), args.Error(1)
}

func (m *MockWavePlanRepository) FindRecent(ctx context.Context, limit int64) ([]*domain.WavePlan, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WavePlan), args.Error(1)
}

func (m *MockWavePlanRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]*domain.WavePlan, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WavePlan), args.Error(1)
}

func (m *MockWavePlanRepository) Delete(ctx context.Context, planID string) error {
	args := m.Called(ctx, planID)
	return args.Error(0)
}

func (m *MockWavePlanRepository) Count(ctx context.Context, status domain.WavePlanStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

type MockWaveOptimizer struct {
	mock.Mock
}

func (m *MockWaveOptimizer) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockWaveOptimizer) Optimize(ctx context.Context, inst *domain.Instance) (*domain.OptimizeOutcome, error) {
	args := m.Called(ctx, inst)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OptimizeOutcome), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func newTestService(repo *MockWavePlanRepository, optimizer *MockWaveOptimizer, publisher *MockEventPublisher) *PlanningApplicationService {
	logger := logging.New(logging.DefaultConfig("wave-optimizer-test"))
	return NewPlanningApplicationService(repo, optimizer, publisher, logger)
}

func validCommand() CreateWavePlanCommand {
	return CreateWavePlanCommand{
		Orders:      []map[int]int64{{0: 5}},
		Aisles:      []map[int]int64{{0: 5}},
		Items:       1,
		LowerBound:  1,
		UpperBound:  10,
		RequestedBy: "planner@wms",
	}
}

func solvedOutcome() *domain.OptimizeOutcome {
	return &domain.OptimizeOutcome{
		Solution:      domain.WaveSolution{Orders: []int{0}, Aisles: []int{0}},
		UnitsPicked:   5,
		UnitsPerAisle: 5.0,
		Solved:        true,
		Report: domain.SolveReport{
			Engine:        "cpsat",
			EngineStatus:  "OPTIMAL",
			ProvenOptimal: true,
			SolveDuration: 100 * time.Millisecond,
		},
	}
}

// TestCreateWavePlan tests the full create-and-solve use case
func TestCreateWavePlan(t *testing.T) {
	t.Run("Solved plan", func(t *testing.T) {
		repo := new(MockWavePlanRepository)
		optimizer := new(MockWaveOptimizer)
		publisher := new(MockEventPublisher)
		service := newTestService(repo, optimizer, publisher)

		optimizer.On("Name").Return("cpsat")
		optimizer.On("Optimize", mock.Anything, mock.Anything).Return(solvedOutcome(), nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil).Twice()
		publisher.On("PublishAll", mock.Anything, mock.Anything).Return(nil)

		dto, err := service.CreateWavePlan(context.Background(), validCommand())
		require.NoError(t, err)
		require.NotNil(t, dto)

		assert.NotEmpty(t, dto.PlanID)
		assert.Equal(t, string(domain.WavePlanStatusSolved), dto.Status)
		require.NotNil(t, dto.Solution)
		assert.Equal(t, []int{0}, dto.Solution.Orders)
		assert.InDelta(t, 5.0, dto.Solution.UnitsPerAisle, 1e-9)
		assert.Equal(t, "cpsat", dto.Report.Engine)
		assert.True(t, dto.Report.ProvenOptimal)
		assert.Equal(t, "planner@wms", dto.RequestedBy)

		repo.AssertExpectations(t)
		optimizer.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("Malformed instance is rejected before solving", func(t *testing.T) {
		repo := new(MockWavePlanRepository)
		optimizer := new(MockWaveOptimizer)
		publisher := new(MockEventPublisher)
		service := newTestService(repo, optimizer, publisher)

		cmd := validCommand()
		cmd.Orders = []map[int]int64{{5: 1}} // item index out of range

		dto, err := service.CreateWavePlan(context.Background(), cmd)
		assert.Nil(t, dto)
		require.Error(t, err)

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.CodeModelConstruction, appErr.Code)

		repo.AssertNotCalled(t, "Save")
		optimizer.AssertNotCalled(t, "Optimize")
	})

	t.Run("No feasible assignment is recorded, not an error", func(t *testing.T) {
		repo := new(MockWavePlanRepository)
		optimizer := new(MockWaveOptimizer)
		publisher := new(MockEventPublisher)
		service := newTestService(repo, optimizer, publisher)

		optimizer.On("Name").Return("cpsat")
		optimizer.On("Optimize", mock.Anything, mock.Anything).Return(&domain.OptimizeOutcome{
			Reason: domain.FailureReasonNoFeasibleAssignment,
			Report: domain.SolveReport{Engine: "cpsat", EngineStatus: "INFEASIBLE"},
		}, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil).Twice()
		publisher.On("PublishAll", mock.Anything, mock.Anything).Return(nil)

		dto, err := service.CreateWavePlan(context.Background(), validCommand())
		require.NoError(t, err)

		assert.Equal(t, string(domain.WavePlanStatusNoSolution), dto.Status)
		assert.Equal(t, string(domain.FailureReasonNoFeasibleAssignment), dto.FailureReason)
		assert.Nil(t, dto.Solution)
	})

	t.Run("Engine failure marks the plan failed", func(t *testing.T) {
		repo := new(MockWavePlanRepository)
		optimizer := new(MockWaveOptimizer)
		publisher := new(MockEventPublisher)
		service := newTestService(repo, optimizer, publisher)

		optimizer.On("Name").Return("cpsat")
		optimizer.On("Optimize", mock.Anything, mock.Anything).Return(&domain.OptimizeOutcome{
			Reason: domain.FailureReasonEngineFailure,
			Detail: "licensing exhausted",
			Report: domain.SolveReport{Engine: "cpsat", EngineStatus: "ERROR"},
		}, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil).Twice()
		publisher.On("PublishAll", mock.Anything, mock.Anything).Return(nil)

		dto, err := service.CreateWavePlan(context.Background(), validCommand())
		require.NoError(t, err)

		assert.Equal(t, string(domain.WavePlanStatusFailed), dto.Status)
		assert.Equal(t, string(domain.FailureReasonEngineFailure), dto.FailureReason)
		assert.Equal(t, "licensing exhausted", dto.FailureDetail)
	})

	t.Run("Publish failure does not fail the request", func(t *testing.T) {
		repo := new(MockWavePlanRepository)
		optimizer := new(MockWaveOptimizer)
		publisher := new(MockEventPublisher)
		service := newTestService(repo, optimizer, publisher)

		optimizer.On("Name").Return("cpsat")
		optimizer.On("Optimize", mock.Anything, mock.Anything).Return(solvedOutcome(), nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil).Twice()
		publisher.On("PublishAll", mock.Anything, mock.Anything).Return(errors.New("broker unavailable"))

		dto, err := service.CreateWavePlan(context.Background(), validCommand())
		require.NoError(t, err)
		assert.Equal(t, string(domain.WavePlanStatusSolved), dto.Status)
	})

	t.Run("Repository failure surfaces", func(t *testing.T) {
		repo := new(MockWavePlanRepository)
		optimizer := new(MockWaveOptimizer)
		publisher := new(MockEventPublisher)
		service := newTestService(repo, optimizer, publisher)

		optimizer.On("Name").Return("cpsat")
		repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		dto, err := service.CreateWavePlan(context.Background(), validCommand())
		assert.Nil(t, dto)
		assert.Error(t, err)
	})
}

// TestGetWavePlan tests plan retrieval
func TestGetWavePlan(t *testing.T) {
	t.Run("Existing plan", func(t *testing.T) {
		repo := new(MockWavePlanRepository)
		service := newTestService(repo, new(MockWaveOptimizer), new(MockEventPublisher))

		plan := domain.NewWavePlan("PLAN-001", domain.InstanceSummary{NumOrders: 1, NumItems: 1, NumAisles: 1, LowerBound: 1, UpperBound: 10})
		repo.On("FindByID", mock.Anything, "PLAN-001").Return(plan, nil)

		dto, err := service.GetWavePlan(context.Background(), GetWavePlanQuery{PlanID: "PLAN-001"})
		require.NoError(t, err)
		assert.Equal(t, "PLAN-001", dto.PlanID)
		assert.Equal(t, string(domain.WavePlanStatusPending), dto.Status)
	})

	t.Run("Missing plan", func(t *testing.T) {
		repo := new(MockWavePlanRepository)
		service := newTestService(repo, new(MockWaveOptimizer), new(MockEventPublisher))

		repo.On("FindByID", mock.Anything, "PLAN-404").Return(nil, nil)

		dto, err := service.GetWavePlan(context.Background(), GetWavePlanQuery{PlanID: "PLAN-404"})
		assert.Nil(t, dto)
		require.Error(t, err)

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
	})

	t.Run("Repository error", func(t *testing.T) {
		repo := new(MockWavePlanRepository)
		service := newTestService(repo, new(MockWaveOptimizer), new(MockEventPublisher))

		repo.On("FindByID", mock.Anything, "PLAN-001").Return(nil, errors.New("timeout"))

		_, err := service.GetWavePlan(context.Background(), GetWavePlanQuery{PlanID: "PLAN-001"})
		assert.Error(t, err)
	})
}

// TestListRecentWavePlans tests the recent-plans query and its default limit
func TestListRecentWavePlans(t *testing.T) {
	repo := new(MockWavePlanRepository)
	service := newTestService(repo, new(MockWaveOptimizer), new(MockEventPublisher))

	plans := []*domain.WavePlan{
		domain.NewWavePlan("PLAN-001", domain.InstanceSummary{NumOrders: 2, NumAisles: 1}),
		domain.NewWavePlan("PLAN-002", domain.InstanceSummary{NumOrders: 3, NumAisles: 2}),
	}
	repo.On("FindRecent", mock.Anything, int64(50)).Return(plans, nil)

	dtos, err := service.ListRecentWavePlans(context.Background(), ListRecentWavePlansQuery{})
	require.NoError(t, err)
	require.Len(t, dtos, 2)
	assert.Equal(t, "PLAN-001", dtos[0].PlanID)
	assert.Equal(t, 2, dtos[0].NumOrders)
}

// TestGetWavePlansByStatus tests the status query
func TestGetWavePlansByStatus(t *testing.T) {
	repo := new(MockWavePlanRepository)
	service := newTestService(repo, new(MockWaveOptimizer), new(MockEventPublisher))

	repo.On("FindByStatus", mock.Anything, domain.WavePlanStatusSolved).Return([]*domain.WavePlan{}, nil)

	dtos, err := service.GetWavePlansByStatus(context.Background(), GetWavePlansByStatusQuery{Status: "solved"})
	require.NoError(t, err)
	assert.Empty(t, dtos)
}

// TestGetWavePlansByDateRange tests the date-range query
func TestGetWavePlansByDateRange(t *testing.T) {
	repo := new(MockWavePlanRepository)
	service := newTestService(repo, new(MockWaveOptimizer), new(MockEventPublisher))

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)
	plans := []*domain.WavePlan{
		domain.NewWavePlan("PLAN-001", domain.InstanceSummary{NumOrders: 2, NumAisles: 1}),
	}
	repo.On("FindByDateRange", mock.Anything, start, end).Return(plans, nil)

	dtos, err := service.GetWavePlansByDateRange(context.Background(), GetWavePlansByDateRangeQuery{Start: start, End: end})
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "PLAN-001", dtos[0].PlanID)
	repo.AssertExpectations(t)
}

// TestDeleteWavePlan tests plan deletion
func TestDeleteWavePlan(t *testing.T) {
	repo := new(MockWavePlanRepository)
	service := newTestService(repo, new(MockWaveOptimizer), new(MockEventPublisher))

	repo.On("Delete", mock.Anything, "PLAN-001").Return(nil)

	err := service.DeleteWavePlan(context.Background(), DeleteWavePlanCommand{PlanID: "PLAN-001"})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
