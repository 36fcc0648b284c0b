// Package models holds the domain record types for this engine: observation sets, parameter
// vectors, fit objects, and contrast objects (§3 of the spec). These replace the teacher's
// RCA-specific records (internal/models/correlation.go, pattern.go, requests.go) with the survival
// analysis equivalents; the enum-with-constants shape (Family, Arm) mirrors the teacher's
// DataType/Severity pattern.
package models

// Observation is a single right-censored time-to-event pair (uᵢ, δᵢ).
type Observation struct {
	Time   float64 // uᵢ > 0
	Status int     // δᵢ ∈ {0,1}; 1 = event observed, 0 = right-censored
}

// ObservationSet is a read-only input to an estimator: a finite, non-empty sequence of
// Observations. Callers build it once; estimators never mutate it.
type ObservationSet struct {
	Obs []Observation
}

// Arm distinguishes the two groups a contrast call compares.
type Arm int

const (
	ArmReference Arm = 0
	ArmTarget    Arm = 1
)

// ArmObservation adds an arm label to an observation for the two-sample contrast input (§6).
type ArmObservation struct {
	Observation
	Arm Arm
}

// N returns the number of observations.
func (o ObservationSet) N() int { return len(o.Obs) }

// EventCount returns D = Σδᵢ.
func (o ObservationSet) EventCount() int {
	d := 0
	for _, ob := range o.Obs {
		if ob.Status == 1 {
			d++
		}
	}
	return d
}

// TotalTime returns T = Σuᵢ.
func (o ObservationSet) TotalTime() float64 {
	t := 0.0
	for _, ob := range o.Obs {
		t += ob.Time
	}
	return t
}

// MaxTime returns the largest observed uᵢ, used to validate RMST truncation times (InvalidTau).
func (o ObservationSet) MaxTime() float64 {
	max := 0.0
	for _, ob := range o.Obs {
		if ob.Time > max {
			max = ob.Time
		}
	}
	return max
}

// Split partitions arm-labeled observations into two independent ObservationSets.
func Split(obs []ArmObservation) (target, reference ObservationSet) {
	for _, o := range obs {
		if o.Arm == ArmTarget {
			target.Obs = append(target.Obs, o.Observation)
		} else {
			reference.Obs = append(reference.Obs, o.Observation)
		}
	}
	return target, reference
}
