package domain

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrNoOrders      = errors.New("instance must contain at least one order")
	ErrNoAisles      = errors.New("instance must contain at least one aisle")
	ErrNoItems       = errors.New("instance must contain at least one item")
	ErrInvalidBounds = errors.New("invalid wave-size band: bounds must be non-negative with lower <= upper")
)

// Instance is the immutable input of one wave-selection solve: the order
// catalog (item -> requested units), the aisle catalog (item -> available
// units) and the administrative wave-size band. Quantities are sparse; an
// item absent from a mapping means zero units.
type Instance struct {
	orders     []map[int]int64
	aisles     []map[int]int64
	items      int
	lowerBound int64
	upperBound int64

	// Per-order unit totals, precomputed once at construction.
	orderUnits []int64
}

// NewInstance validates and builds an Instance. Item indices must lie in
// [0, items) and all quantities must be strictly positive.
func NewInstance(orders, aisles []map[int]int64, items int, lowerBound, upperBound int64) (*Instance, error) {
	if len(orders) == 0 {
		return nil, ErrNoOrders
	}
	if len(aisles) == 0 {
		return nil, ErrNoAisles
	}
	if items < 1 {
		return nil, ErrNoItems
	}
	if lowerBound < 0 || lowerBound > upperBound {
		return nil, ErrInvalidBounds
	}

	inst := &Instance{
		orders:     make([]map[int]int64, len(orders)),
		aisles:     make([]map[int]int64, len(aisles)),
		items:      items,
		lowerBound: lowerBound,
		upperBound: upperBound,
		orderUnits: make([]int64, len(orders)),
	}

	for i, order := range orders {
		copied, total, err := copyQuantities(order, items)
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
		inst.orders[i] = copied
		inst.orderUnits[i] = total
	}

	for j, aisle := range aisles {
		copied, _, err := copyQuantities(aisle, items)
		if err != nil {
			return nil, fmt.Errorf("aisle %d: %w", j, err)
		}
		inst.aisles[j] = copied
	}

	return inst, nil
}

func copyQuantities(src map[int]int64, items int) (map[int]int64, int64, error) {
	dst := make(map[int]int64, len(src))
	var total int64
	for item, qty := range src {
		if item < 0 || item >= items {
			return nil, 0, fmt.Errorf("invalid item index %d (want [0, %d))", item, items)
		}
		if qty <= 0 {
			return nil, 0, fmt.Errorf("invalid quantity %d for item %d", qty, item)
		}
		dst[item] = qty
		total += qty
	}
	return dst, total, nil
}

// NumOrders returns the number of orders
func (inst *Instance) NumOrders() int {
	return len(inst.orders)
}

// NumAisles returns the number of aisles
func (inst *Instance) NumAisles() int {
	return len(inst.aisles)
}

// NumItems returns the item universe size
func (inst *Instance) NumItems() int {
	return inst.items
}

// Bounds returns the wave-size band
func (inst *Instance) Bounds() (lower, upper int64) {
	return inst.lowerBound, inst.upperBound
}

// OrderItems returns the requested quantities of order i. The returned map
// is owned by the instance and must not be mutated.
func (inst *Instance) OrderItems(i int) map[int]int64 {
	return inst.orders[i]
}

// AisleItems returns the available quantities of aisle j. The returned map
// is owned by the instance and must not be mutated.
func (inst *Instance) AisleItems(j int) map[int]int64 {
	return inst.aisles[j]
}

// OrderUnits returns the total requested units of order i
func (inst *Instance) OrderUnits(i int) int64 {
	return inst.orderUnits[i]
}

// TotalAvailableUnits returns the summed stock across all aisles
func (inst *Instance) TotalAvailableUnits() int64 {
	var total int64
	for _, aisle := range inst.aisles {
		for _, qty := range aisle {
			total += qty
		}
	}
	return total
}

// Summary returns the instance shape for persistence and reporting
func (inst *Instance) Summary() InstanceSummary {
	return InstanceSummary{
		NumOrders:  len(inst.orders),
		NumItems:   inst.items,
		NumAisles:  len(inst.aisles),
		LowerBound: inst.lowerBound,
		UpperBound: inst.upperBound,
	}
}

// InstanceSummary describes the shape of an instance without its mappings
type InstanceSummary struct {
	NumOrders  int   `bson:"numOrders" json:"numOrders"`
	NumItems   int   `bson:"numItems" json:"numItems"`
	NumAisles  int   `bson:"numAisles" json:"numAisles"`
	LowerBound int64 `bson:"lowerBound" json:"lowerBound"`
	UpperBound int64 `bson:"upperBound" json:"upperBound"`
}
