package sim

import "github.com/bookstore-sim/bookstore-sim/sim/facts"

// RestockPolicy decides whether a title should be replenished and by how
// much. Two interchangeable strategies exist, selected each step by the
// reasoner's availability. Whenever the fact snapshot agrees with the raw
// quantity/threshold comparison, both strategies must choose the same
// action; toggling the reasoner must not silently change simulation
// semantics.
type RestockPolicy interface {
	NeedsRestock(item *InventoryItem, snap facts.Snapshot) bool
	RestockAmount(item *InventoryItem) int
}

// RuleBackedRestockPolicy treats the reasoner's classification as the
// primary signal: only the low-stock label triggers a restock, letting
// externally authored rules override the numeric threshold.
type RuleBackedRestockPolicy struct {
	Amount int
}

func (p *RuleBackedRestockPolicy) NeedsRestock(item *InventoryItem, snap facts.Snapshot) bool {
	return snap.Has(item.ISBN, facts.LabelLowStock)
}

func (p *RuleBackedRestockPolicy) RestockAmount(_ *InventoryItem) int {
	return p.Amount
}

// ThresholdRestockPolicy is the heuristic fallback computed directly from
// the numeric fields. Used whenever the most recent reasoner sync failed.
type ThresholdRestockPolicy struct {
	Amount int
}

func (p *ThresholdRestockPolicy) NeedsRestock(item *InventoryItem, _ facts.Snapshot) bool {
	return item.Quantity < item.LowThreshold
}

func (p *ThresholdRestockPolicy) RestockAmount(_ *InventoryItem) int {
	return p.Amount
}
