package facts

import (
	"context"
	"strconv"
)

// Reasoner computes derived classifications from a set of domain facts.
// Implementations may be an embedded rules engine or a call to an external
// service; only the result/error contract matters to the caller. Classify
// must honor ctx and return promptly once it is cancelled.
type Reasoner interface {
	Classify(ctx context.Context, fs []Fact) (map[string][]string, error)
}

// RuleReasoner is the in-process realization of the bookstore rule set:
//
//	availableQuantity(?i) < lowThreshold(?i)  -> LowStockBook(?i)
//	availableQuantity(?i) >= lowThreshold(?i) -> not LowStockBook(?i)
//	|distinct hasPurchased(?c)| >= FrequentBuyerMin -> FrequentBuyer(?c)
type RuleReasoner struct {
	// FrequentBuyerMin is the number of distinct purchased titles at which
	// a customer is classified as a frequent buyer.
	FrequentBuyerMin int
}

// NewRuleReasoner returns a RuleReasoner with the default rule parameters.
func NewRuleReasoner() *RuleReasoner {
	return &RuleReasoner{FrequentBuyerMin: 3}
}

// Classify evaluates the rule set over the supplied facts.
func (r *RuleReasoner) Classify(ctx context.Context, fs []Fact) (map[string][]string, error) {
	quantities := map[string]int{}
	thresholds := map[string]int{}
	purchases := map[string]map[string]bool{}

	for _, f := range fs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch f.Predicate {
		case PredAvailableQuantity:
			n, err := strconv.Atoi(f.Object)
			if err != nil {
				return nil, malformedFact(f, err)
			}
			quantities[f.Subject] = n
		case PredLowThreshold:
			n, err := strconv.Atoi(f.Object)
			if err != nil {
				return nil, malformedFact(f, err)
			}
			thresholds[f.Subject] = n
		case PredHasPurchased:
			set := purchases[f.Subject]
			if set == nil {
				set = map[string]bool{}
				purchases[f.Subject] = set
			}
			set[f.Object] = true
		}
	}

	classifications := map[string][]string{}
	for subject, qty := range quantities {
		threshold, ok := thresholds[subject]
		if !ok {
			continue
		}
		if qty < threshold {
			classifications[subject] = append(classifications[subject], LabelLowStock)
		}
	}
	min := r.FrequentBuyerMin
	if min <= 0 {
		min = 1
	}
	for subject, titles := range purchases {
		if len(titles) >= min {
			classifications[subject] = append(classifications[subject], LabelFrequentBuyer)
		}
	}
	return classifications, nil
}

func malformedFact(f Fact, err error) error {
	return &MalformedFactError{Fact: f, Err: err}
}

// MalformedFactError reports a fact whose object could not be interpreted.
type MalformedFactError struct {
	Fact Fact
	Err  error
}

func (e *MalformedFactError) Error() string {
	return "malformed fact " + e.Fact.Subject + " " + e.Fact.Predicate + " " + e.Fact.Object + ": " + e.Err.Error()
}

func (e *MalformedFactError) Unwrap() error {
	return e.Err
}
