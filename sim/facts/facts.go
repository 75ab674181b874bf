// Package facts holds the symbolic domain model pushed to the reasoning
// engine and the derived classifications it hands back.
//
// Entities are described as {subject, predicate, object} triples. The
// reasoner returns classification labels per entity key; a Snapshot freezes
// those labels together with the step they were computed at. The live
// numeric simulation state always remains the ground truth: a Snapshot is a
// best-effort, possibly-stale overlay.
package facts

import "sort"

// Well-known predicates for domain facts.
const (
	PredAvailableQuantity = "availableQuantity"
	PredLowThreshold      = "lowThreshold"
	PredHasPurchased      = "hasPurchased"
)

// Classification labels produced by the reasoner.
const (
	LabelLowStock      = "LowStockBook"
	LabelFrequentBuyer = "FrequentBuyer"
)

// Fact is a single symbolic assertion about an entity.
type Fact struct {
	Subject   string
	Predicate string
	Object    string
}

// Snapshot is an immutable set of derived classification labels per entity,
// stamped with the step it was computed at. The zero value is an empty
// snapshot that classifies nothing.
type Snapshot struct {
	step   int
	labels map[string]map[string]bool
}

// NewSnapshot builds a Snapshot from the reasoner's per-entity label sets.
func NewSnapshot(step int, classifications map[string][]string) Snapshot {
	labels := make(map[string]map[string]bool, len(classifications))
	for key, ls := range classifications {
		set := make(map[string]bool, len(ls))
		for _, l := range ls {
			set[l] = true
		}
		labels[key] = set
	}
	return Snapshot{step: step, labels: labels}
}

// Step returns the step the snapshot was computed at.
func (s Snapshot) Step() int {
	return s.step
}

// Has reports whether the entity carries the given classification label.
func (s Snapshot) Has(key, label string) bool {
	return s.labels[key][label]
}

// Labels returns the entity's classification labels in sorted order.
func (s Snapshot) Labels(key string) []string {
	set := s.labels[key]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Empty reports whether the snapshot carries no classifications at all.
func (s Snapshot) Empty() bool {
	return len(s.labels) == 0
}
