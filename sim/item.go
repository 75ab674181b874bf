// Defines the InventoryItem struct that models a single title's stock in the
// simulation, and its purely descriptive stock state.

package sim

import (
	"fmt"

	"github.com/bookstore-sim/bookstore-sim/sim/facts"
)

// StockState is the descriptive state of an inventory item. It is derived
// each step from quantity vs. threshold and the latest fact snapshot; items
// are never independently activated.
type StockState string

const (
	StockNormal    StockState = "normal"
	StockLow       StockState = "low"
	StockRestocked StockState = "restocked"
)

// InventoryItem is a single title's live inventory record. Created at
// initialization from the seed snapshot, never destroyed; mutated only by
// purchase and restock effects.
type InventoryItem struct {
	ISBN         string  // unique key
	Title        string
	Author       string
	Genre        string
	Price        float64 // non-negative
	Quantity     int     // non-negative
	LowThreshold int     // non-negative

	State StockState // descriptive only, recomputed each step
}

// NeedsRestock reports whether the item should be replenished: the numeric
// threshold comparison is authoritative ground truth, the classification in
// the snapshot a best-effort overlay on top of it.
func (it *InventoryItem) NeedsRestock(snap facts.Snapshot) bool {
	return it.Quantity < it.LowThreshold || snap.Has(it.ISBN, facts.LabelLowStock)
}

// refreshState recomputes the descriptive state from the numeric fields.
// A restocked marker set during the previous step's drain is overwritten.
func (it *InventoryItem) refreshState() {
	if it.Quantity < it.LowThreshold {
		it.State = StockLow
	} else {
		it.State = StockNormal
	}
}

// clone returns an independent copy of the item.
func (it *InventoryItem) clone() *InventoryItem {
	cp := *it
	return &cp
}

// String returns a human-readable representation of the item.
func (it *InventoryItem) String() string {
	return fmt.Sprintf("InventoryItem: (ISBN: %s, Title: %s, Quantity: %d, Threshold: %d, State: %s)",
		it.ISBN, it.Title, it.Quantity, it.LowThreshold, it.State)
}
