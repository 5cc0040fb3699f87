package domain

// WaveSolution is a candidate wave: the orders to pick and the aisles to
// visit, by index. Produced once per solve and never mutated afterwards.
type WaveSolution struct {
	Orders []int `bson:"orders" json:"orders"`
	Aisles []int `bson:"aisles" json:"aisles"`
}

// IsEmpty reports whether either side of the solution is empty
func (s WaveSolution) IsEmpty() bool {
	return len(s.Orders) == 0 || len(s.Aisles) == 0
}

// UnitsPicked returns the total requested units across the selected orders.
// Returns 0 for an out-of-range order index.
func (inst *Instance) UnitsPicked(s WaveSolution) int64 {
	var total int64
	for _, i := range s.Orders {
		if i < 0 || i >= len(inst.orders) {
			return 0
		}
		total += inst.orderUnits[i]
	}
	return total
}

// IsFeasible independently re-checks a candidate solution against the true
// problem definition: non-empty selections on both sides, total picked units
// within the wave-size band, and per-item picked units covered by the stock
// of the visited aisles. It deliberately does not trust the optimization
// model that produced the candidate.
func (inst *Instance) IsFeasible(s WaveSolution) bool {
	if s.IsEmpty() {
		return false
	}

	picked := make([]int64, inst.items)
	available := make([]int64, inst.items)

	var totalPicked int64
	seenOrders := make(map[int]bool, len(s.Orders))
	for _, i := range s.Orders {
		if i < 0 || i >= len(inst.orders) || seenOrders[i] {
			return false
		}
		seenOrders[i] = true
		for item, qty := range inst.orders[i] {
			picked[item] += qty
			totalPicked += qty
		}
	}

	seenAisles := make(map[int]bool, len(s.Aisles))
	for _, j := range s.Aisles {
		if j < 0 || j >= len(inst.aisles) || seenAisles[j] {
			return false
		}
		seenAisles[j] = true
		for item, qty := range inst.aisles[j] {
			available[item] += qty
		}
	}

	if totalPicked < inst.lowerBound || totalPicked > inst.upperBound {
		return false
	}

	for item := 0; item < inst.items; item++ {
		if picked[item] > available[item] {
			return false
		}
	}

	return true
}

// Objective returns the true ratio objective of a candidate solution: total
// units picked divided by aisles visited. Returns 0.0 when either side is
// empty. This is the number reported to callers; the engine's surrogate
// objective value is never used in its place.
func (inst *Instance) Objective(s WaveSolution) float64 {
	if s.IsEmpty() {
		return 0.0
	}
	return float64(inst.UnitsPicked(s)) / float64(len(s.Aisles))
}
