package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/wave-optimizer-service/internal/domain"
)

func samplePlan() *domain.WavePlan {
	plan := domain.NewWavePlan("PLAN-001", domain.InstanceSummary{
		NumOrders:  3,
		NumItems:   2,
		NumAisles:  2,
		LowerBound: 1,
		UpperBound: 10,
	})
	plan.RequestedBy = "planner@wms"
	return plan
}

// TestToWavePlanDTO tests full plan conversion
func TestToWavePlanDTO(t *testing.T) {
	t.Run("Solved plan with solution", func(t *testing.T) {
		plan := samplePlan()
		require.NoError(t, plan.StartSolving("cpsat"))
		require.NoError(t, plan.MarkSolved(domain.PlanSolution{
			Orders:        []int{0, 2},
			Aisles:        []int{1},
			UnitsPicked:   7,
			UnitsPerAisle: 7.0,
		}, domain.SolveReport{
			Engine:        "cpsat",
			EngineStatus:  "OPTIMAL",
			ProvenOptimal: true,
			SolveDuration: 250 * time.Millisecond,
		}))

		dto := ToWavePlanDTO(plan)
		require.NotNil(t, dto)

		assert.Equal(t, "PLAN-001", dto.PlanID)
		assert.Equal(t, "solved", dto.Status)
		assert.Equal(t, 3, dto.Instance.NumOrders)
		assert.Equal(t, int64(10), dto.Instance.UpperBound)
		require.NotNil(t, dto.Solution)
		assert.Equal(t, []int{0, 2}, dto.Solution.Orders)
		assert.Equal(t, int64(7), dto.Solution.UnitsPicked)
		assert.Equal(t, "cpsat", dto.Report.Engine)
		assert.Equal(t, "250ms", dto.Report.SolveDuration)
		assert.Equal(t, "planner@wms", dto.RequestedBy)
		assert.NotNil(t, dto.SolvedAt)
	})

	t.Run("Failed plan carries reason and detail", func(t *testing.T) {
		plan := samplePlan()
		require.NoError(t, plan.StartSolving("cpsat"))
		require.NoError(t, plan.MarkFailed(domain.FailureReasonPostSolveInfeasible,
			domain.SolveReport{Engine: "cpsat", EngineStatus: "OPTIMAL"},
			"candidate rejected"))

		dto := ToWavePlanDTO(plan)
		require.NotNil(t, dto)

		assert.Equal(t, "failed", dto.Status)
		assert.Equal(t, "post_solve_infeasible", dto.FailureReason)
		assert.Equal(t, "candidate rejected", dto.FailureDetail)
		assert.Nil(t, dto.Solution)
		assert.Nil(t, dto.SolvedAt)
	})

	t.Run("Nil plan", func(t *testing.T) {
		assert.Nil(t, ToWavePlanDTO(nil))
	})
}

// TestToWavePlanListDTO tests the simplified list conversion
func TestToWavePlanListDTO(t *testing.T) {
	plan := samplePlan()
	require.NoError(t, plan.StartSolving("cpsat"))
	require.NoError(t, plan.MarkSolved(domain.PlanSolution{
		Orders:        []int{0},
		Aisles:        []int{0},
		UnitsPicked:   5,
		UnitsPerAisle: 5.0,
	}, domain.SolveReport{Engine: "cpsat", EngineStatus: "OPTIMAL", ProvenOptimal: true}))

	dto := ToWavePlanListDTO(plan)
	require.NotNil(t, dto)
	assert.Equal(t, "PLAN-001", dto.PlanID)
	assert.Equal(t, "solved", dto.Status)
	assert.Equal(t, 3, dto.NumOrders)
	assert.InDelta(t, 5.0, dto.UnitsPerAisle, 1e-9)
}

// TestFromCreateWavePlanRequest tests request-to-command conversion
func TestFromCreateWavePlanRequest(t *testing.T) {
	req := CreateWavePlanRequest{
		Orders: [][]QuantityDTO{
			{{Item: 0, Quantity: 3}, {Item: 1, Quantity: 2}},
			{{Item: 1, Quantity: 1}, {Item: 1, Quantity: 4}}, // duplicate item accumulates
		},
		Aisles: [][]QuantityDTO{
			{{Item: 0, Quantity: 10}},
		},
		Items:       2,
		LowerBound:  1,
		UpperBound:  10,
		RequestedBy: "planner@wms",
	}

	cmd := FromCreateWavePlanRequest(req)

	require.Len(t, cmd.Orders, 2)
	assert.Equal(t, map[int]int64{0: 3, 1: 2}, cmd.Orders[0])
	assert.Equal(t, map[int]int64{1: 5}, cmd.Orders[1])
	require.Len(t, cmd.Aisles, 1)
	assert.Equal(t, map[int]int64{0: 10}, cmd.Aisles[0])
	assert.Equal(t, 2, cmd.Items)
	assert.Equal(t, int64(1), cmd.LowerBound)
	assert.Equal(t, int64(10), cmd.UpperBound)
	assert.Equal(t, "planner@wms", cmd.RequestedBy)
}
