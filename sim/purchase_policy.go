package sim

import (
	"fmt"
	"math/rand"

	"github.com/bookstore-sim/bookstore-sim/sim/facts"
)

// Valid purchase policy names.
const (
	PolicyRandom = "random"
	PolicyGreedy = "greedy"
)

// PurchasePolicy selects which book a customer buys, if any. Implementations
// are pure: deterministic given the observable state, the fact snapshot, and
// the RNG draw.
type PurchasePolicy interface {
	ChoosePurchase(items []*InventoryItem, budget float64, snap facts.Snapshot, reasonerActive bool, rng *rand.Rand) (*InventoryItem, bool)
}

// candidates returns the affordable in-stock items. When the reasoner is
// active and some affordable titles are not classified low-stock, those are
// preferred, steering demand away from titles already running out.
func candidates(items []*InventoryItem, budget float64, snap facts.Snapshot, reasonerActive bool) []*InventoryItem {
	var affordable []*InventoryItem
	for _, item := range items {
		if item.Price <= budget && item.Quantity > 0 {
			affordable = append(affordable, item)
		}
	}
	if !reasonerActive {
		return affordable
	}
	var preferred []*InventoryItem
	for _, item := range affordable {
		if !snap.Has(item.ISBN, facts.LabelLowStock) {
			preferred = append(preferred, item)
		}
	}
	if len(preferred) > 0 {
		return preferred
	}
	return affordable
}

// RandomPurchasePolicy picks a random affordable book to simulate browsing
// behaviour.
type RandomPurchasePolicy struct{}

func (p *RandomPurchasePolicy) ChoosePurchase(items []*InventoryItem, budget float64, snap facts.Snapshot, reasonerActive bool, rng *rand.Rand) (*InventoryItem, bool) {
	cands := candidates(items, budget, snap, reasonerActive)
	if len(cands) == 0 {
		return nil, false
	}
	return cands[rng.Intn(len(cands))], true
}

// GreedyPurchasePolicy picks the cheapest affordable in-stock book,
// tie-breaking by ISBN for determinism.
type GreedyPurchasePolicy struct{}

func (p *GreedyPurchasePolicy) ChoosePurchase(items []*InventoryItem, budget float64, snap facts.Snapshot, reasonerActive bool, _ *rand.Rand) (*InventoryItem, bool) {
	cands := candidates(items, budget, snap, reasonerActive)
	if len(cands) == 0 {
		return nil, false
	}
	best := cands[0]
	for _, item := range cands[1:] {
		if item.Price < best.Price || (item.Price == best.Price && item.ISBN < best.ISBN) {
			best = item
		}
	}
	return best, true
}

// IsValidPurchasePolicy reports whether name maps to a known policy.
// Empty string counts as valid (defaults to "random").
func IsValidPurchasePolicy(name string) bool {
	switch name {
	case "", PolicyRandom, PolicyGreedy:
		return true
	}
	return false
}

// NewPurchasePolicy creates a PurchasePolicy by name.
// Valid names: "random" (default), "greedy". Panics on unrecognized names.
func NewPurchasePolicy(name string) PurchasePolicy {
	switch name {
	case "", PolicyRandom:
		return &RandomPurchasePolicy{}
	case PolicyGreedy:
		return &GreedyPurchasePolicy{}
	default:
		panic(fmt.Sprintf("unknown purchase policy %q; valid policies: [random, greedy]", name))
	}
}
