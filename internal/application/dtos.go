package application

import "time"

// WavePlanDTO represents a wave plan in responses
type WavePlanDTO struct {
	PlanID        string              `json:"planId"`
	Status        string              `json:"status"`
	Instance      InstanceSummaryDTO  `json:"instance"`
	Solution      *WavePlanResultDTO  `json:"solution,omitempty"`
	Report        SolveReportDTO      `json:"report"`
	FailureReason string              `json:"failureReason,omitempty"`
	FailureDetail string              `json:"failureDetail,omitempty"`
	RequestedBy   string              `json:"requestedBy,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
	SolvedAt      *time.Time          `json:"solvedAt,omitempty"`
}

// InstanceSummaryDTO describes the shape of the solved instance
type InstanceSummaryDTO struct {
	NumOrders  int   `json:"numOrders"`
	NumItems   int   `json:"numItems"`
	NumAisles  int   `json:"numAisles"`
	LowerBound int64 `json:"lowerBound"`
	UpperBound int64 `json:"upperBound"`
}

// WavePlanResultDTO represents the accepted wave of a solved plan
type WavePlanResultDTO struct {
	Orders        []int   `json:"orders"`
	Aisles        []int   `json:"aisles"`
	UnitsPicked   int64   `json:"unitsPicked"`
	UnitsPerAisle float64 `json:"unitsPerAisle"`
}

// SolveReportDTO represents engine telemetry for one solve attempt
type SolveReportDTO struct {
	Engine        string `json:"engine"`
	EngineStatus  string `json:"engineStatus"`
	ProvenOptimal bool   `json:"provenOptimal"`
	SolveDuration string `json:"solveDuration,omitempty"`
}

// WavePlanListDTO represents a simplified wave plan for list operations
type WavePlanListDTO struct {
	PlanID        string    `json:"planId"`
	Status        string    `json:"status"`
	NumOrders     int       `json:"numOrders"`
	NumAisles     int       `json:"numAisles"`
	UnitsPerAisle float64   `json:"unitsPerAisle,omitempty"`
	FailureReason string    `json:"failureReason,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// QuantityDTO is one item-quantity pair of an order or aisle mapping
type QuantityDTO struct {
	Item     int   `json:"item" binding:"min=0"`
	Quantity int64 `json:"quantity" binding:"required,min=1"`
}

// CreateWavePlanRequest is the API request for planning a wave
type CreateWavePlanRequest struct {
	Orders      [][]QuantityDTO `json:"orders" binding:"required,min=1"`
	Aisles      [][]QuantityDTO `json:"aisles" binding:"required,min=1"`
	Items       int             `json:"items" binding:"required,min=1"`
	LowerBound  int64           `json:"lowerBound" binding:"min=0"`
	UpperBound  int64           `json:"upperBound" binding:"required,min=0"`
	RequestedBy string          `json:"requestedBy"`
}
