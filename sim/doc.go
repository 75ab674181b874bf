// Package sim provides the core discrete-step simulation engine for the
// bookstore multi-agent system.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - agent.go: the Customer and Employee state machines activated each step
//   - message.go: the bus message variants (purchase/restock) and their effects
//   - manager.go: the scheduler: activation ordering, bus draining, reasoner syncs
//
// # Architecture
//
// The sim package owns the step loop and the agent population; collaborators
// live in sub-packages and sibling packages:
//   - sim/facts: symbolic facts, the reasoner boundary, and the fact store
//   - sim/seed: validated JSON seed-file loading
//   - store: the SQLite snapshot store that Reset reloads from
//
// # Key Interfaces
//
// The extension points are small interfaces:
//   - Agent: observe the world, emit messages (dispatched by kind)
//   - PurchasePolicy: which book a customer buys, if any
//   - RestockPolicy: rule-backed vs. threshold-based replenishment
//   - SeedSource: where the initial snapshot comes from
//   - facts.Reasoner: the opaque classify-facts boundary
//
// Each simulation instance is driven by a single logical thread: steps are
// strictly sequential, and the Manager serializes Advance/Reset. Determinism
// for a fixed seed is load-bearing; every iteration over map-backed state
// goes through a sorted key order.
package sim
