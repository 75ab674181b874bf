// Report assembly: read-only projections over the live state and the
// externally visible aggregate report. The builder is stateless and called
// on demand.

package sim

import (
	"fmt"
	"sort"
	"strings"
)

// InventoryView is the externally visible state of one title. NeedsRestock
// combines the authoritative numeric comparison with the possibly-stale
// fact-store classification.
type InventoryView struct {
	ISBN         string  `json:"isbn"`
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	LowThreshold int     `json:"low_threshold"`
	NeedsRestock bool    `json:"needs_restock"`
}

// CustomerSummary lists a customer's distinct purchased titles, sorted.
type CustomerSummary struct {
	CustomerID     string   `json:"customer_id"`
	PurchasedBooks []string `json:"purchased_books"`
}

// StateSnapshot is a consistent read-only copy of the instance state,
// captured under the instance lock.
type StateSnapshot struct {
	StepCount      int               `json:"step_count"`
	ReasonerActive bool              `json:"reasoner_active"`
	Inventory      []InventoryView   `json:"inventory"`
	Customers      []CustomerSummary `json:"customers"`
	Orders         []OrderRecord     `json:"orders"`
	Restocks       []RestockRecord   `json:"restocks"`
	Summaries      []StepSummary     `json:"summaries"`
}

// Report is the aggregate view served to external callers.
type Report struct {
	StepsRun       int                 `json:"steps_run"`
	ReasonerActive bool                `json:"reasoner_active"`
	Inventory      []InventoryView     `json:"inventory"`
	Purchases      map[string][]string `json:"purchases"`
	Restocks       []RestockRecord     `json:"restocks"`
}

// Snapshot captures the current state. Read-only: no side effects.
func (m *Manager) Snapshot() StateSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() StateSnapshot {
	snap := StateSnapshot{
		StepCount:      m.clock.StepCount,
		ReasonerActive: m.clock.ReasonerActive,
		Orders:         append([]OrderRecord(nil), m.orders...),
		Restocks:       append([]RestockRecord(nil), m.restocks...),
		Summaries:      append([]StepSummary(nil), m.summaries...),
	}
	factSnap := m.facts.Current()
	for _, isbn := range m.itemOrder {
		item := m.items[isbn]
		snap.Inventory = append(snap.Inventory, InventoryView{
			ISBN:         item.ISBN,
			Title:        item.Title,
			Price:        item.Price,
			Quantity:     item.Quantity,
			LowThreshold: item.LowThreshold,
			NeedsRestock: item.NeedsRestock(factSnap),
		})
	}
	for _, id := range sortedKeys(m.customers) {
		snap.Customers = append(snap.Customers, CustomerSummary{
			CustomerID:     id,
			PurchasedBooks: distinctSorted(m.customers[id].Purchased),
		})
	}
	return snap
}

// Inventory is the read-only inventory projection.
func (m *Manager) Inventory() []InventoryView {
	return m.Snapshot().Inventory
}

// Orders is the read-only order-log projection.
func (m *Manager) Orders() []OrderRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]OrderRecord(nil), m.orders...)
}

// Customers is the read-only customer-summary projection.
func (m *Manager) Customers() []CustomerSummary {
	return m.Snapshot().Customers
}

// Restocks is the read-only restock-log projection.
func (m *Manager) Restocks() []RestockRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RestockRecord(nil), m.restocks...)
}

// Summaries returns the per-step summaries, including dropped messages.
func (m *Manager) Summaries() []StepSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]StepSummary(nil), m.summaries...)
}

// Report assembles the aggregate report from the current state.
func (m *Manager) Report() Report {
	return BuildReport(m.Snapshot())
}

// BuildReport derives the aggregate report from a state snapshot. Customers
// without purchases are omitted from the purchases map.
func BuildReport(snap StateSnapshot) Report {
	purchases := map[string][]string{}
	for _, c := range snap.Customers {
		if len(c.PurchasedBooks) > 0 {
			purchases[c.CustomerID] = c.PurchasedBooks
		}
	}
	return Report{
		StepsRun:       snap.StepCount,
		ReasonerActive: snap.ReasonerActive,
		Inventory:      snap.Inventory,
		Purchases:      purchases,
		Restocks:       snap.Restocks,
	}
}

// Print displays the report summary.
func (r Report) Print() {
	fmt.Println("=== Inventory Summary ===")
	for _, entry := range r.Inventory {
		fmt.Printf("%s | %s | price=%.2f | qty=%d | threshold=%d\n",
			entry.ISBN, entry.Title, entry.Price, entry.Quantity, entry.LowThreshold)
	}

	fmt.Println("\n=== Purchases by Customer ===")
	if len(r.Purchases) == 0 {
		fmt.Println("No purchases recorded.")
	} else {
		ids := make([]string, 0, len(r.Purchases))
		for id := range r.Purchases {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Printf("%s: %s\n", id, strings.Join(r.Purchases[id], ", "))
		}
	}

	fmt.Println("\n=== Restocks ===")
	if len(r.Restocks) == 0 {
		fmt.Println("No restocks performed.")
	} else {
		for _, entry := range r.Restocks {
			employee := "<system>"
			if entry.EmployeeID != nil {
				employee = *entry.EmployeeID
			}
			fmt.Printf("step=%d | isbn=%s | amount=%d | employee=%s\n",
				entry.Step, entry.ISBN, entry.Amount, employee)
		}
	}

	if !r.ReasonerActive {
		fmt.Println("[warning] reasoner inactive; restocks used the heuristic threshold policy.")
	}
}

func distinctSorted(values []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
