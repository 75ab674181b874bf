package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bookstore-sim/bookstore-sim/sim/facts"
)

func snapshotWithLabels(step int, labels map[string][]string) facts.Snapshot {
	return facts.NewSnapshot(step, labels)
}

// When the fact snapshot agrees with the numeric comparison, the rule-backed
// and threshold strategies must choose the same restock action. Toggling the
// reasoner must not change simulation semantics in the agreeing cases.
func TestRestockPolicies_EquivalentWhenFactsAgree(t *testing.T) {
	ruleBacked := &RuleBackedRestockPolicy{Amount: 10}
	threshold := &ThresholdRestockPolicy{Amount: 10}

	tests := []struct {
		name     string
		item     InventoryItem
		labelled bool
		want     bool
	}{
		{"low and labelled", InventoryItem{ISBN: "a", Quantity: 1, LowThreshold: 5}, true, true},
		{"healthy and unlabelled", InventoryItem{ISBN: "a", Quantity: 9, LowThreshold: 5}, false, false},
		{"boundary quantity equals threshold", InventoryItem{ISBN: "a", Quantity: 5, LowThreshold: 5}, false, false},
		{"zero threshold never low", InventoryItem{ISBN: "a", Quantity: 0, LowThreshold: 0}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels := map[string][]string{}
			if tt.labelled {
				labels["a"] = []string{facts.LabelLowStock}
			}
			snap := snapshotWithLabels(1, labels)

			ruleDecision := ruleBacked.NeedsRestock(&tt.item, snap)
			heuristicDecision := threshold.NeedsRestock(&tt.item, snap)
			assert.Equal(t, tt.want, ruleDecision)
			assert.Equal(t, ruleDecision, heuristicDecision, "strategies diverged on agreeing inputs")
			assert.Equal(t, ruleBacked.RestockAmount(&tt.item), threshold.RestockAmount(&tt.item))
		})
	}
}

// When the snapshot disagrees with the numeric fields, the rule-backed
// strategy follows the classification and the heuristic follows the numbers.
func TestRestockPolicies_DivergeWhenFactsDisagree(t *testing.T) {
	ruleBacked := &RuleBackedRestockPolicy{Amount: 10}
	threshold := &ThresholdRestockPolicy{Amount: 10}

	// stale label on a numerically healthy item
	healthy := &InventoryItem{ISBN: "a", Quantity: 9, LowThreshold: 5}
	stale := snapshotWithLabels(1, map[string][]string{"a": {facts.LabelLowStock}})
	assert.True(t, ruleBacked.NeedsRestock(healthy, stale))
	assert.False(t, threshold.NeedsRestock(healthy, stale))

	// numerically low item the snapshot has not caught up with
	low := &InventoryItem{ISBN: "b", Quantity: 1, LowThreshold: 5}
	empty := facts.Snapshot{}
	assert.False(t, ruleBacked.NeedsRestock(low, empty))
	assert.True(t, threshold.NeedsRestock(low, empty))
}

func TestItem_NeedsRestockOverlay(t *testing.T) {
	snap := snapshotWithLabels(1, map[string][]string{"a": {facts.LabelLowStock}})

	labelledOnly := &InventoryItem{ISBN: "a", Quantity: 9, LowThreshold: 5}
	assert.True(t, labelledOnly.NeedsRestock(snap))

	numericOnly := &InventoryItem{ISBN: "b", Quantity: 1, LowThreshold: 5}
	assert.True(t, numericOnly.NeedsRestock(snap))

	neither := &InventoryItem{ISBN: "c", Quantity: 9, LowThreshold: 5}
	assert.False(t, neither.NeedsRestock(snap))
}
