package domain

import (
	"context"
	"time"
)

// WavePlanRepository defines the interface for wave plan persistence
type WavePlanRepository interface {
	// Save persists a wave plan (create or update)
	Save(ctx context.Context, plan *WavePlan) error

	// FindByID retrieves a wave plan by its plan ID
	FindByID(ctx context.Context, planID string) (*WavePlan, error)

	// FindByStatus retrieves wave plans by status
	FindByStatus(ctx context.Context, status WavePlanStatus) ([]*WavePlan, error)

	// FindRecent retrieves the most recently created wave plans
	FindRecent(ctx context.Context, limit int64) ([]*WavePlan, error)

	// FindByDateRange retrieves wave plans created within a date range
	FindByDateRange(ctx context.Context, start, end time.Time) ([]*WavePlan, error)

	// Delete removes a wave plan
	Delete(ctx context.Context, planID string) error

	// Count returns the total number of wave plans matching a status
	Count(ctx context.Context, status WavePlanStatus) (int64, error)
}

// OptimizeOutcome is the result of one ratio-maximizing solve
type OptimizeOutcome struct {
	// Solution is set only when Solved is true
	Solution      WaveSolution
	UnitsPicked   int64
	UnitsPerAisle float64

	Solved bool
	Reason FailureReason // set when Solved is false
	Detail string

	Report SolveReport
}

// WaveOptimizer runs a single ratio-maximizing solve over an instance.
// Implementations perform exactly one solve attempt; retries are the
// caller's business.
type WaveOptimizer interface {
	// Name identifies the backing engine for reporting.
	Name() string

	Optimize(ctx context.Context, inst *Instance) (*OptimizeOutcome, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish publishes a domain event
	Publish(ctx context.Context, event DomainEvent) error

	// PublishAll publishes multiple domain events
	PublishAll(ctx context.Context, events []DomainEvent) error
}
