// sim/manager.go
//
// The Manager is the simulation scheduler: it owns the agent registry, the
// clock, the append-only order/restock logs, and drives the per-step loop of
// activation, bus draining, and reasoner syncs.

package sim

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bookstore-sim/bookstore-sim/sim/facts"
)

// Invalid-input errors, rejected synchronously with no state mutated.
var (
	ErrInvalidSteps        = errors.New("steps must be positive")
	ErrInvalidSyncInterval = errors.New("sync interval must be positive")
)

// OrderRecord is an immutable, append-only log entry created exactly once
// per successful purchase.
type OrderRecord struct {
	OrderID    string  `json:"order_id"`
	CustomerID string  `json:"customer_id"`
	ISBN       string  `json:"isbn"`
	Genre      string  `json:"genre"`
	Step       int     `json:"step"`
	Price      float64 `json:"price"`
}

// RestockRecord is an immutable, append-only log entry created exactly once
// per successful restock. EmployeeID is nil for system-triggered restocks.
type RestockRecord struct {
	Step       int     `json:"step"`
	ISBN       string  `json:"isbn"`
	Amount     int     `json:"amount"`
	EmployeeID *string `json:"employee_id"`
}

// DroppedMessage explains a message whose effect could not apply.
type DroppedMessage struct {
	Kind   MessageKind `json:"kind"`
	Reason string      `json:"reason"`
}

// StepSummary records what the bus dropped during one step.
type StepSummary struct {
	Step    int              `json:"step"`
	Dropped []DroppedMessage `json:"dropped,omitempty"`
}

// AdvanceOptions parameterizes a single Advance call.
type AdvanceOptions struct {
	// Steps is the number of steps to run. Must be >= 1.
	Steps int
	// SyncIntervalOverride, when positive, replaces the reasoner-sync
	// cadence for this and subsequent calls until changed again.
	SyncIntervalOverride int
	// Seed, when non-nil, reseeds the RNG streams before the first step,
	// enabling reproducible runs. Nil continues the existing streams.
	Seed *int64
}

// AdvanceResult reports how far a call actually advanced.
type AdvanceResult struct {
	StepsAdvanced int `json:"steps_advanced"`
	StepCount     int `json:"step_count"`
}

// ResetResult reports a completed reset.
type ResetResult struct {
	StepCount int    `json:"step_count"`
	Message   string `json:"message"`
}

// world is the mutable agent/inventory state owned by one Manager. Built as
// a unit from a seed snapshot so a failed reset never commits partial state.
type world struct {
	items           map[string]*InventoryItem
	itemOrder       []string // sorted ISBNs; survey and fact order
	customers       map[string]*Customer
	employees       map[string]*Employee
	agents          []Agent // registration order; permuted per step
	pendingRestocks map[string]bool
}

// Manager orchestrates one simulation instance. All exported methods are
// mutually exclusive: Advance and Reset on the same instance serialize, and
// a reset can never interleave with an in-flight step run. Instances share
// no mutable state with each other.
type Manager struct {
	mu sync.Mutex

	cfg    Config
	runID  string
	source SeedSource

	purchasePolicy   PurchasePolicy
	ruleRestock      *RuleBackedRestockPolicy
	thresholdRestock *ThresholdRestockPolicy

	rng   *PartitionedRNG
	clock Clock
	bus   MessageBus
	facts *facts.Store

	world

	orders       []OrderRecord
	restocks     []RestockRecord
	summaries    []StepSummary
	orderCounter int
}

// NewManager builds a simulation instance from the seed source. A nil
// reasoner runs the instance permanently on the heuristic policy.
func NewManager(cfg Config, source SeedSource, reasoner facts.Reasoner) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	snap, err := source.Load()
	if err != nil {
		return nil, fmt.Errorf("load seed snapshot: %w", err)
	}
	w, err := buildWorld(snap, cfg)
	if err != nil {
		return nil, err
	}
	store := facts.NewStore(reasoner, cfg.ReasonerTimeout)
	m := &Manager{
		cfg:              cfg,
		runID:            uuid.NewString(),
		source:           source,
		purchasePolicy:   NewPurchasePolicy(cfg.PurchasePolicy),
		ruleRestock:      &RuleBackedRestockPolicy{Amount: cfg.RestockAmount},
		thresholdRestock: &ThresholdRestockPolicy{Amount: cfg.RestockAmount},
		rng:              NewPartitionedRNG(NewSimulationKey(cfg.RandomSeed)),
		clock:            Clock{SyncInterval: cfg.ReasonerSyncInterval, ReasonerActive: store.Active()},
		facts:            store,
		world:            w,
	}
	logrus.WithFields(logrus.Fields{
		"run_id":    m.runID,
		"items":     len(m.items),
		"customers": len(m.customers),
		"employees": len(m.employees),
		"seed":      cfg.RandomSeed,
	}).Info("simulation instance created")
	return m, nil
}

// buildWorld validates a seed snapshot and assembles the agent registry.
// When the snapshot carries no customers or employees, the stock population
// (two customers, one employee) is created so the store is never deserted.
func buildWorld(snap SeedSnapshot, cfg Config) (world, error) {
	w := world{
		items:           make(map[string]*InventoryItem, len(snap.Items)),
		customers:       make(map[string]*Customer),
		employees:       make(map[string]*Employee),
		pendingRestocks: make(map[string]bool),
	}
	for _, s := range snap.Items {
		if s.ISBN == "" {
			return world{}, fmt.Errorf("seed item with empty isbn (title %q)", s.Title)
		}
		if _, dup := w.items[s.ISBN]; dup {
			return world{}, fmt.Errorf("duplicate seed isbn %s", s.ISBN)
		}
		if s.Quantity < 0 || s.LowThreshold < 0 || s.Price < 0 {
			return world{}, fmt.Errorf("seed item %s has negative quantity, threshold, or price", s.ISBN)
		}
		item := &InventoryItem{
			ISBN:         s.ISBN,
			Title:        s.Title,
			Author:       s.Author,
			Genre:        s.Genre,
			Price:        s.Price,
			Quantity:     s.Quantity,
			LowThreshold: s.LowThreshold,
		}
		item.refreshState()
		w.items[s.ISBN] = item
		w.itemOrder = append(w.itemOrder, s.ISBN)
	}
	sort.Strings(w.itemOrder)

	seedCustomers := snap.Customers
	if len(seedCustomers) == 0 {
		seedCustomers = []SeedCustomer{
			{ID: "customer_0", Budget: cfg.CustomerBudget},
			{ID: "customer_1", Budget: cfg.CustomerBudget},
		}
	}
	for _, s := range seedCustomers {
		if _, dup := w.customers[s.ID]; dup {
			return world{}, fmt.Errorf("duplicate seed customer %s", s.ID)
		}
		budget := s.Budget
		if budget <= 0 {
			budget = cfg.CustomerBudget
		}
		c := &Customer{id: s.ID, Budget: budget, State: AgentIdle}
		w.customers[s.ID] = c
		w.agents = append(w.agents, c)
	}

	seedEmployees := snap.Employees
	if len(seedEmployees) == 0 {
		seedEmployees = []SeedEmployee{{ID: "employee_0"}}
	}
	for _, s := range seedEmployees {
		if _, dup := w.employees[s.ID]; dup {
			return world{}, fmt.Errorf("duplicate seed employee %s", s.ID)
		}
		e := &Employee{id: s.ID, State: AgentIdle}
		w.employees[s.ID] = e
		w.agents = append(w.agents, e)
	}
	return w, nil
}

// RunID identifies this instance in logs.
func (m *Manager) RunID() string {
	return m.runID
}

// StepCount returns the number of completed steps.
func (m *Manager) StepCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clock.StepCount
}

// Advance runs opts.Steps simulation steps. It never fails for valid input:
// reasoner-sync failures are absorbed and stepping continues on the
// heuristic policy. The context is consulted only between steps; on
// cancellation the partial result is returned together with the context
// error. A step, once started, always runs to completion.
func (m *Manager) Advance(ctx context.Context, opts AdvanceOptions) (AdvanceResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if opts.Steps < 1 {
		return AdvanceResult{StepCount: m.clock.StepCount}, fmt.Errorf("%w, got %d", ErrInvalidSteps, opts.Steps)
	}
	if opts.SyncIntervalOverride < 0 {
		return AdvanceResult{StepCount: m.clock.StepCount}, fmt.Errorf("%w, got %d", ErrInvalidSyncInterval, opts.SyncIntervalOverride)
	}
	if opts.SyncIntervalOverride > 0 {
		m.cfg.ReasonerSyncInterval = opts.SyncIntervalOverride
		m.clock.SyncInterval = opts.SyncIntervalOverride
	}
	if opts.Seed != nil {
		m.cfg.RandomSeed = *opts.Seed
		m.rng = NewPartitionedRNG(NewSimulationKey(*opts.Seed))
		logrus.WithField("run_id", m.runID).Infof("rng reseeded with %d", *opts.Seed)
	}

	advanced := 0
	for i := 0; i < opts.Steps; i++ {
		if err := ctx.Err(); err != nil {
			return AdvanceResult{StepsAdvanced: advanced, StepCount: m.clock.StepCount}, err
		}
		m.step(ctx)
		advanced++
	}
	return AdvanceResult{StepsAdvanced: advanced, StepCount: m.clock.StepCount}, nil
}

// step runs one simulation tick: refresh descriptive item states, activate
// every agent in a seeded pseudo-random order, drain the bus in enqueue
// order, and sync the reasoner when the cadence is due.
func (m *Manager) step(ctx context.Context) {
	m.clock.StepCount++
	logrus.Debugf("[step %04d] starting", m.clock.StepCount)

	for _, isbn := range m.itemOrder {
		m.items[isbn].refreshState()
	}

	// A pseudo-random permutation, not registration order, so agents
	// created first carry no structural advantage.
	activationRNG := m.rng.ForSubsystem(SubsystemActivation)
	policyRNG := m.rng.ForSubsystem(SubsystemPolicy)
	for _, idx := range activationRNG.Perm(len(m.agents)) {
		agent := m.agents[idx]
		for _, msg := range agent.Act(m, policyRNG) {
			if rr, ok := msg.(*RestockRequested); ok {
				m.pendingRestocks[rr.ISBN] = true
			}
			m.bus.Publish(msg)
		}
	}

	summary := StepSummary{Step: m.clock.StepCount}
	m.drainBus(&summary)
	m.summaries = append(m.summaries, summary)

	if m.clock.SyncDue() {
		active := m.facts.Sync(ctx, m.domainFacts(), m.clock.StepCount)
		m.clock.MarkSync(active)
	}
}

// drainBus applies queued messages strictly in enqueue order. Two messages
// targeting the same item in one step are never reordered or batched, which
// keeps replay deterministic for a fixed seed. A message whose effect cannot
// apply is dropped with its reason recorded in the step summary.
func (m *Manager) drainBus(summary *StepSummary) {
	for msg := m.bus.Pop(); msg != nil; msg = m.bus.Pop() {
		if err := msg.Apply(m); err != nil {
			logrus.Debugf("[step %04d] dropped %s: %v", m.clock.StepCount, msg.Kind(), err)
			summary.Dropped = append(summary.Dropped, DroppedMessage{Kind: msg.Kind(), Reason: err.Error()})
		}
	}
}

// restockPolicy selects the strategy for the current reasoner state.
func (m *Manager) restockPolicy() RestockPolicy {
	if m.clock.ReasonerActive {
		return m.ruleRestock
	}
	return m.thresholdRestock
}

// itemList returns the live items in sorted-ISBN order.
func (m *Manager) itemList() []*InventoryItem {
	items := make([]*InventoryItem, 0, len(m.itemOrder))
	for _, isbn := range m.itemOrder {
		items = append(items, m.items[isbn])
	}
	return items
}

// domainFacts translates the live numeric state into symbolic facts for the
// reasoner, in a deterministic order.
func (m *Manager) domainFacts() []facts.Fact {
	var fs []facts.Fact
	for _, isbn := range m.itemOrder {
		item := m.items[isbn]
		fs = append(fs,
			facts.Fact{Subject: isbn, Predicate: facts.PredAvailableQuantity, Object: strconv.Itoa(item.Quantity)},
			facts.Fact{Subject: isbn, Predicate: facts.PredLowThreshold, Object: strconv.Itoa(item.LowThreshold)},
		)
	}
	for _, id := range sortedKeys(m.customers) {
		seen := map[string]bool{}
		for _, isbn := range m.customers[id].Purchased {
			if seen[isbn] {
				continue
			}
			seen[isbn] = true
			fs = append(fs, facts.Fact{Subject: id, Predicate: facts.PredHasPurchased, Object: isbn})
		}
	}
	return fs
}

func (m *Manager) recordOrder(customerID string, item *InventoryItem) {
	m.orders = append(m.orders, OrderRecord{
		OrderID:    fmt.Sprintf("order_%d", m.orderCounter),
		CustomerID: customerID,
		ISBN:       item.ISBN,
		Genre:      item.Genre,
		Step:       m.clock.StepCount,
		Price:      item.Price,
	})
	m.orderCounter++
}

func (m *Manager) recordRestock(isbn string, amount int, employeeID string) {
	rec := RestockRecord{Step: m.clock.StepCount, ISBN: isbn, Amount: amount}
	if employeeID != "" {
		rec.EmployeeID = &employeeID
	}
	m.restocks = append(m.restocks, rec)
}

// Reset restores the instance to the initial persisted snapshot, clears the
// logs, and resets the clock and fact store. This is the only operation that
// discards simulation history. A corrupt snapshot fails this call only; the
// in-memory state stays untouched until a valid snapshot is available.
func (m *Manager) Reset() (ResetResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, err := m.source.Load()
	if err != nil {
		return ResetResult{}, fmt.Errorf("load seed snapshot: %w", err)
	}
	w, err := buildWorld(snap, m.cfg)
	if err != nil {
		return ResetResult{}, err
	}

	m.world = w
	m.bus.Clear()
	m.orders = nil
	m.restocks = nil
	m.summaries = nil
	m.orderCounter = 0
	m.facts.Reset()
	m.clock = Clock{SyncInterval: m.cfg.ReasonerSyncInterval, ReasonerActive: m.facts.Active()}
	m.rng = NewPartitionedRNG(NewSimulationKey(m.cfg.RandomSeed))
	logrus.WithField("run_id", m.runID).Info("simulation reset")
	return ResetResult{StepCount: 0, Message: "simulation reset"}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
