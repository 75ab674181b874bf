package sim

import (
	"math"
	"math/rand"
	"testing"
)

// === SimulationKey Tests ===

func TestSimulationKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
		{"min int64", math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewSimulationKey(tt.seed)
			if int64(key) != tt.seed {
				t.Errorf("NewSimulationKey(%d) = %d, want %d", tt.seed, key, tt.seed)
			}
		})
	}
}

// === PartitionedRNG Tests ===

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// Same key+name produces the same sequence
	rng1 := NewPartitionedRNG(NewSimulationKey(42))
	rng2 := NewPartitionedRNG(NewSimulationKey(42))

	for i := 0; i < 3; i++ {
		v1 := rng1.ForSubsystem(SubsystemPolicy).Float64()
		v2 := rng2.ForSubsystem(SubsystemPolicy).Float64()
		if v1 != v2 {
			t.Errorf("Value %d: got %v and %v, want identical", i, v1, v2)
		}
	}
}

func TestPartitionedRNG_SubsystemIsolation(t *testing.T) {
	// Drawing from subsystem A doesn't affect subsystem B
	rngA := NewPartitionedRNG(NewSimulationKey(42))
	rngB := NewPartitionedRNG(NewSimulationKey(42))

	for i := 0; i < 10; i++ {
		rngA.ForSubsystem(SubsystemActivation).Float64()
	}
	for i := 0; i < 5; i++ {
		rngB.ForSubsystem(SubsystemPolicy).Float64()
	}

	aPolicyFirst := rngA.ForSubsystem(SubsystemPolicy).Float64()

	fresh := NewPartitionedRNG(NewSimulationKey(42))
	expectedFirst := fresh.ForSubsystem(SubsystemPolicy).Float64()

	if aPolicyFirst != expectedFirst {
		t.Errorf("A's policy first value = %v, want %v (isolation broken)", aPolicyFirst, expectedFirst)
	}
}

func TestPartitionedRNG_ActivationUsesMasterSeed(t *testing.T) {
	seed := int64(42)
	rng := NewPartitionedRNG(NewSimulationKey(seed))

	activationRNG := rng.ForSubsystem(SubsystemActivation)
	directRNG := rand.New(rand.NewSource(seed))

	for i := 0; i < 10; i++ {
		got := activationRNG.Float64()
		want := directRNG.Float64()
		if got != want {
			t.Errorf("Value %d: activation RNG = %v, direct RNG = %v", i, got, want)
		}
	}
}

func TestPartitionedRNG_CachesInstance(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))

	rng1 := rng.ForSubsystem(SubsystemPolicy)
	rng2 := rng.ForSubsystem(SubsystemPolicy)

	if rng1 != rng2 {
		t.Error("ForSubsystem returned different instances for the same name")
	}
	if rng.Key() != NewSimulationKey(42) {
		t.Errorf("Key() = %d, want 42", rng.Key())
	}
}

func TestPartitionedRNG_DifferentSeedsDiverge(t *testing.T) {
	rngA := NewPartitionedRNG(NewSimulationKey(1))
	rngB := NewPartitionedRNG(NewSimulationKey(2))

	same := true
	for i := 0; i < 10; i++ {
		if rngA.ForSubsystem(SubsystemPolicy).Float64() != rngB.ForSubsystem(SubsystemPolicy).Float64() {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical policy sequences")
	}
}
