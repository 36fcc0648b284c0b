package models

import "testing"

func TestObservationSetAggregates(t *testing.T) {
	set := ObservationSet{Obs: []Observation{
		{Time: 1, Status: 1},
		{Time: 2, Status: 0},
		{Time: 3, Status: 1},
	}}
	if set.N() != 3 {
		t.Fatalf("N: got %d want 3", set.N())
	}
	if set.EventCount() != 2 {
		t.Fatalf("EventCount: got %d want 2", set.EventCount())
	}
	if set.TotalTime() != 6 {
		t.Fatalf("TotalTime: got %v want 6", set.TotalTime())
	}
	if set.MaxTime() != 3 {
		t.Fatalf("MaxTime: got %v want 3", set.MaxTime())
	}
}

func TestObservationSetEmpty(t *testing.T) {
	var set ObservationSet
	if set.N() != 0 || set.EventCount() != 0 || set.TotalTime() != 0 || set.MaxTime() != 0 {
		t.Fatalf("expected all zero values for an empty set, got N=%d EventCount=%d TotalTime=%v MaxTime=%v",
			set.N(), set.EventCount(), set.TotalTime(), set.MaxTime())
	}
}

func TestSplitPartitionsByArm(t *testing.T) {
	obs := []ArmObservation{
		{Observation: Observation{Time: 1, Status: 1}, Arm: ArmTarget},
		{Observation: Observation{Time: 2, Status: 0}, Arm: ArmReference},
		{Observation: Observation{Time: 3, Status: 1}, Arm: ArmTarget},
	}
	target, reference := Split(obs)
	if target.N() != 2 {
		t.Fatalf("expected 2 target observations, got %d", target.N())
	}
	if reference.N() != 1 {
		t.Fatalf("expected 1 reference observation, got %d", reference.N())
	}
	if reference.Obs[0].Time != 2 {
		t.Fatalf("unexpected reference observation: %+v", reference.Obs[0])
	}
}

func TestThetaCloneIsIndependent(t *testing.T) {
	original := Theta{1, 2, 3}
	clone := original.Clone()
	clone[0] = 99
	if original[0] != 1 {
		t.Fatalf("expected cloning to be independent of the original, original mutated to %v", original[0])
	}
}

func TestMatrixAtSetAndSymmetric(t *testing.T) {
	m := NewMatrix(2)
	m.Set(0, 0, 1)
	m.Set(0, 1, 2)
	m.Set(1, 0, 2)
	m.Set(1, 1, 3)
	if !m.Symmetric(1e-12) {
		t.Fatalf("expected a symmetric matrix to report as symmetric")
	}
	if m.At(0, 1) != 2 {
		t.Fatalf("At: got %v want 2", m.At(0, 1))
	}

	asym := NewMatrix(2)
	asym.Set(0, 1, 1)
	asym.Set(1, 0, 5)
	if asym.Symmetric(1e-12) {
		t.Fatalf("expected an asymmetric matrix to report as asymmetric")
	}
}
