package application

import "github.com/wms-platform/wave-optimizer-service/internal/domain"

// ToWavePlanDTO converts a domain WavePlan to WavePlanDTO
func ToWavePlanDTO(plan *domain.WavePlan) *WavePlanDTO {
	if plan == nil {
		return nil
	}

	dto := &WavePlanDTO{
		PlanID: plan.PlanID,
		Status: string(plan.Status),
		Instance: InstanceSummaryDTO{
			NumOrders:  plan.Instance.NumOrders,
			NumItems:   plan.Instance.NumItems,
			NumAisles:  plan.Instance.NumAisles,
			LowerBound: plan.Instance.LowerBound,
			UpperBound: plan.Instance.UpperBound,
		},
		Report: SolveReportDTO{
			Engine:        plan.Report.Engine,
			EngineStatus:  plan.Report.EngineStatus,
			ProvenOptimal: plan.Report.ProvenOptimal,
		},
		FailureReason: string(plan.FailureReason),
		FailureDetail: plan.FailureDetail,
		RequestedBy:   plan.RequestedBy,
		CreatedAt:     plan.CreatedAt,
		UpdatedAt:     plan.UpdatedAt,
		SolvedAt:      plan.SolvedAt,
	}

	if plan.Report.SolveDuration > 0 {
		dto.Report.SolveDuration = plan.Report.SolveDuration.String()
	}

	if plan.Solution != nil {
		dto.Solution = &WavePlanResultDTO{
			Orders:        plan.Solution.Orders,
			Aisles:        plan.Solution.Aisles,
			UnitsPicked:   plan.Solution.UnitsPicked,
			UnitsPerAisle: plan.Solution.UnitsPerAisle,
		}
	}

	return dto
}

// ToWavePlanDTOs converts a slice of domain WavePlans to WavePlanDTOs
func ToWavePlanDTOs(plans []*domain.WavePlan) []WavePlanDTO {
	dtos := make([]WavePlanDTO, 0, len(plans))
	for _, plan := range plans {
		if dto := ToWavePlanDTO(plan); dto != nil {
			dtos = append(dtos, *dto)
		}
	}
	return dtos
}

// ToWavePlanListDTO converts a domain WavePlan to WavePlanListDTO (simplified)
func ToWavePlanListDTO(plan *domain.WavePlan) *WavePlanListDTO {
	if plan == nil {
		return nil
	}

	dto := &WavePlanListDTO{
		PlanID:        plan.PlanID,
		Status:        string(plan.Status),
		NumOrders:     plan.Instance.NumOrders,
		NumAisles:     plan.Instance.NumAisles,
		FailureReason: string(plan.FailureReason),
		CreatedAt:     plan.CreatedAt,
		UpdatedAt:     plan.UpdatedAt,
	}

	if plan.Solution != nil {
		dto.UnitsPerAisle = plan.Solution.UnitsPerAisle
	}

	return dto
}

// ToWavePlanListDTOs converts a slice of domain WavePlans to WavePlanListDTOs
func ToWavePlanListDTOs(plans []*domain.WavePlan) []WavePlanListDTO {
	dtos := make([]WavePlanListDTO, 0, len(plans))
	for _, plan := range plans {
		if dto := ToWavePlanListDTO(plan); dto != nil {
			dtos = append(dtos, *dto)
		}
	}
	return dtos
}

// FromCreateWavePlanRequest converts the API request into a command,
// folding each item-quantity list into a sparse mapping. Duplicate item
// entries accumulate.
func FromCreateWavePlanRequest(req CreateWavePlanRequest) CreateWavePlanCommand {
	return CreateWavePlanCommand{
		Orders:      toQuantityMaps(req.Orders),
		Aisles:      toQuantityMaps(req.Aisles),
		Items:       req.Items,
		LowerBound:  req.LowerBound,
		UpperBound:  req.UpperBound,
		RequestedBy: req.RequestedBy,
	}
}

func toQuantityMaps(lists [][]QuantityDTO) []map[int]int64 {
	maps := make([]map[int]int64, len(lists))
	for i, list := range lists {
		m := make(map[int]int64, len(list))
		for _, q := range list {
			m[q.Item] += q.Quantity
		}
		maps[i] = m
	}
	return maps
}
