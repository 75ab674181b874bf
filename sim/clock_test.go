package sim

import "testing"

func TestClockSyncCadence(t *testing.T) {
	c := &Clock{SyncInterval: 3}
	for step := 1; step <= 9; step++ {
		c.StepCount = step
		due := c.SyncDue()
		wantDue := step%3 == 0
		if due != wantDue {
			t.Errorf("step %d: SyncDue() = %v, want %v", step, due, wantDue)
		}
		if due {
			c.MarkSync(true)
		}
	}
	if c.LastSyncStep != 9 {
		t.Errorf("LastSyncStep = %d, want 9", c.LastSyncStep)
	}
}

func TestClockFailedSyncAdvancesCadence(t *testing.T) {
	c := &Clock{SyncInterval: 3, ReasonerActive: true}
	c.StepCount = 3
	if !c.SyncDue() {
		t.Fatal("sync should be due at step 3")
	}
	c.MarkSync(false)
	if c.ReasonerActive {
		t.Error("failed sync should deactivate the reasoner flag")
	}
	// the failed attempt still counts toward the cadence
	c.StepCount = 4
	if c.SyncDue() {
		t.Error("no retry before the next interval boundary")
	}
	c.StepCount = 6
	if !c.SyncDue() {
		t.Error("sync due again at the next boundary")
	}
}
