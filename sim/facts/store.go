package facts

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultSyncTimeout bounds a single reasoner call so that a stalled engine
// degrades to the fallback policy instead of stalling the simulation.
const DefaultSyncTimeout = 2 * time.Second

// Store owns the current FactSnapshot and tracks whether the reasoner
// produced classifications on the most recent sync attempt. A failed sync
// leaves the previous snapshot in place; liveness never depends on the
// reasoner being available.
type Store struct {
	reasoner Reasoner
	timeout  time.Duration

	snapshot Snapshot
	active   bool
	warned   bool
}

// NewStore wraps a reasoner. A nil reasoner is allowed and behaves as a
// permanently unavailable engine. timeout <= 0 selects DefaultSyncTimeout.
func NewStore(r Reasoner, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultSyncTimeout
	}
	return &Store{
		reasoner: r,
		timeout:  timeout,
		active:   r != nil,
	}
}

// Current returns the latest snapshot, possibly stale or empty.
func (s *Store) Current() Snapshot {
	return s.snapshot
}

// Active reports whether the most recent sync attempt succeeded.
func (s *Store) Active() bool {
	return s.active
}

// Sync pushes the current domain facts to the reasoner and, on success,
// replaces the snapshot. On failure the previous snapshot survives and the
// store is marked inactive until a later sync succeeds. Returns the new
// active state; never returns an error past this boundary.
func (s *Store) Sync(ctx context.Context, fs []Fact, step int) bool {
	if s.reasoner == nil {
		if !s.warned {
			logrus.Warn("reasoner unavailable; using heuristic restock detection")
			s.warned = true
		}
		s.active = false
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	classifications, err := s.classify(ctx, fs)
	if err != nil {
		logrus.Warnf("reasoner sync failed at step %d; falling back to heuristic policy (%v)", step, err)
		s.active = false
		return false
	}
	s.snapshot = NewSnapshot(step, classifications)
	s.active = true
	return true
}

// classify waits for the reasoner call or the deadline, whichever comes
// first. A reasoner that ignores cancellation keeps its goroutine, but the
// simulation stops waiting at the deadline regardless.
func (s *Store) classify(ctx context.Context, fs []Fact) (map[string][]string, error) {
	type result struct {
		classifications map[string][]string
		err             error
	}
	done := make(chan result, 1)
	go func() {
		c, err := s.reasoner.Classify(ctx, fs)
		done <- result{c, err}
	}()
	select {
	case res := <-done:
		return res.classifications, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Reset discards all classifications and restores the store's initial
// active state.
func (s *Store) Reset() {
	s.snapshot = Snapshot{}
	s.active = s.reasoner != nil
	s.warned = false
}
