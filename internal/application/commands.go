package application

import "time"

// CreateWavePlanCommand represents the command to plan a new wave
type CreateWavePlanCommand struct {
	Orders      []map[int]int64
	Aisles      []map[int]int64
	Items       int
	LowerBound  int64
	UpperBound  int64
	RequestedBy string
}

// DeleteWavePlanCommand represents the command to delete a wave plan
type DeleteWavePlanCommand struct {
	PlanID string
}

// GetWavePlanQuery represents the query to get a wave plan by ID
type GetWavePlanQuery struct {
	PlanID string
}

// GetWavePlansByStatusQuery represents the query to get wave plans by status
type GetWavePlansByStatusQuery struct {
	Status string
}

// ListRecentWavePlansQuery represents the query for the most recent wave plans
type ListRecentWavePlansQuery struct {
	Limit int64
}

// GetWavePlansByDateRangeQuery represents the query for wave plans created
// within a time window
type GetWavePlansByDateRangeQuery struct {
	Start time.Time
	End   time.Time
}
