package sim

// SeedSnapshot is the initial domain snapshot a simulation instance is built
// from. Reset reloads it through the SeedSource, so the source must keep
// returning the original seed state, not live state.
type SeedSnapshot struct {
	Items     []SeedItem
	Customers []SeedCustomer
	Employees []SeedEmployee
}

// SeedItem is one title's seed inventory record, fully resolved (the loader
// has already applied threshold defaults).
type SeedItem struct {
	ISBN         string
	Title        string
	Author       string
	Genre        string
	Price        float64
	Quantity     int
	LowThreshold int
}

// SeedCustomer seeds one customer agent.
type SeedCustomer struct {
	ID     string
	Budget float64
}

// SeedEmployee seeds one employee agent.
type SeedEmployee struct {
	ID string
}

// SeedSource loads the initial persisted snapshot. Implementations live
// outside the core: a validated JSON seed file (sim/seed) or the SQLite
// snapshot store (store).
type SeedSource interface {
	Load() (SeedSnapshot, error)
}

// StaticSeed is a SeedSource over an in-memory snapshot, handy for tests.
type StaticSeed struct {
	Snapshot SeedSnapshot
}

func (s *StaticSeed) Load() (SeedSnapshot, error) {
	return s.Snapshot, nil
}
