package sim

// Clock tracks simulation time and the reasoner-sync cadence.
// Owned exclusively by the Manager.
type Clock struct {
	// StepCount is the monotonic number of completed steps.
	StepCount int
	// SyncInterval is the cadence, in steps, between reasoner syncs.
	SyncInterval int
	// LastSyncStep is the step of the most recent sync attempt.
	LastSyncStep int
	// ReasonerActive mirrors the fact store's state after the most
	// recent sync attempt.
	ReasonerActive bool
}

// SyncDue reports whether a reasoner sync should be attempted now.
func (c *Clock) SyncDue() bool {
	return c.StepCount-c.LastSyncStep >= c.SyncInterval
}

// MarkSync records a sync attempt at the current step with its outcome.
// Failed attempts advance LastSyncStep too: retries happen on the regular
// cadence, not on every step.
func (c *Clock) MarkSync(active bool) {
	c.LastSyncStep = c.StepCount
	c.ReasonerActive = active
}
