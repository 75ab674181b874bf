// Agent definitions: the Customer and Employee state machines activated once
// per step, dispatched by kind through a common interface.

package sim

import "math/rand"

// AgentKind discriminates agent behavior without deep inheritance.
type AgentKind string

const (
	KindCustomer AgentKind = "customer"
	KindEmployee AgentKind = "employee"
)

// AgentState is the descriptive activation state of an agent. Agents have no
// blocking states: every activation returns to idle within the same tick.
type AgentState string

const (
	AgentIdle       AgentState = "idle"
	AgentEvaluating AgentState = "evaluating"
	AgentMonitoring AgentState = "monitoring"
)

// Agent is the common capability of the simulation population: observe the
// world through the Manager and emit zero or more messages. Customers emit
// at most one message per activation; employees emit one restock request per
// flagged title.
type Agent interface {
	ID() string
	Kind() AgentKind
	Act(m *Manager, rng *rand.Rand) []Message
}

// Customer may purchase a book each step, driven by the purchase policy.
type Customer struct {
	id string

	// Budget is debited when a purchase effect applies.
	Budget float64
	// Purchased is the append-only sequence of bought ISBNs.
	Purchased []string

	State AgentState
}

func (c *Customer) ID() string      { return c.id }
func (c *Customer) Kind() AgentKind { return KindCustomer }

// Act transitions Idle -> Evaluating -> Idle within the tick. The spawn
// draw and the policy's own randomness both come from the policy RNG stream
// so extra draws never perturb activation ordering.
func (c *Customer) Act(m *Manager, rng *rand.Rand) []Message {
	c.State = AgentEvaluating
	defer func() { c.State = AgentIdle }()

	if rng.Float64() > m.cfg.CustomerSpawnChance {
		return nil
	}
	snap := m.facts.Current()
	choice, ok := m.purchasePolicy.ChoosePurchase(m.itemList(), c.Budget, snap, m.clock.ReasonerActive, rng)
	if !ok {
		return nil
	}
	return []Message{&PurchaseRequested{CustomerID: c.id, ISBN: choice.ISBN}}
}

// Employee surveys the inventory for titles that need restocking.
type Employee struct {
	id string

	State AgentState
}

func (e *Employee) ID() string      { return e.id }
func (e *Employee) Kind() AgentKind { return KindEmployee }

// Act transitions Idle -> Monitoring -> Idle within the tick, emitting one
// RestockRequested per flagged title. Titles with an in-flight restock are
// skipped until the restock completes.
func (e *Employee) Act(m *Manager, _ *rand.Rand) []Message {
	e.State = AgentMonitoring
	defer func() { e.State = AgentIdle }()

	snap := m.facts.Current()
	policy := m.restockPolicy()
	var msgs []Message
	for _, item := range m.itemList() {
		if m.pendingRestocks[item.ISBN] {
			continue
		}
		if !policy.NeedsRestock(item, snap) {
			continue
		}
		msgs = append(msgs, &RestockRequested{
			ISBN:       item.ISBN,
			Amount:     policy.RestockAmount(item),
			EmployeeID: e.id,
		})
	}
	return msgs
}
