package domain

import "time"

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// WavePlanRequestedEvent is published when a new wave plan is requested
type WavePlanRequestedEvent struct {
	PlanID      string    `json:"planId"`
	NumOrders   int       `json:"numOrders"`
	NumAisles   int       `json:"numAisles"`
	NumItems    int       `json:"numItems"`
	LowerBound  int64     `json:"lowerBound"`
	UpperBound  int64     `json:"upperBound"`
	RequestedAt time.Time `json:"requestedAt"`
}

func (e *WavePlanRequestedEvent) EventType() string     { return "wms.wave-plan.requested" }
func (e *WavePlanRequestedEvent) OccurredAt() time.Time { return e.RequestedAt }

// WavePlanSolvedEvent is published when a plan produced an accepted wave
type WavePlanSolvedEvent struct {
	PlanID        string    `json:"planId"`
	Orders        []int     `json:"orders"`
	Aisles        []int     `json:"aisles"`
	UnitsPicked   int64     `json:"unitsPicked"`
	UnitsPerAisle float64   `json:"unitsPerAisle"`
	ProvenOptimal bool      `json:"provenOptimal"`
	SolvedAt      time.Time `json:"solvedAt"`
}

func (e *WavePlanSolvedEvent) EventType() string     { return "wms.wave-plan.solved" }
func (e *WavePlanSolvedEvent) OccurredAt() time.Time { return e.SolvedAt }

// WavePlanNoSolutionEvent is published when a solve legitimately found no wave
type WavePlanNoSolutionEvent struct {
	PlanID     string    `json:"planId"`
	Reason     string    `json:"reason"`
	ResolvedAt time.Time `json:"resolvedAt"`
}

func (e *WavePlanNoSolutionEvent) EventType() string     { return "wms.wave-plan.no-solution" }
func (e *WavePlanNoSolutionEvent) OccurredAt() time.Time { return e.ResolvedAt }

// WavePlanFailedEvent is published when a solve failed for a non-legitimate reason
type WavePlanFailedEvent struct {
	PlanID   string    `json:"planId"`
	Reason   string    `json:"reason"`
	Detail   string    `json:"detail,omitempty"`
	FailedAt time.Time `json:"failedAt"`
}

func (e *WavePlanFailedEvent) EventType() string     { return "wms.wave-plan.failed" }
func (e *WavePlanFailedEvent) OccurredAt() time.Time { return e.FailedAt }
