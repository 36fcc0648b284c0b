// Package distributions enumerates the survival families this engine can fit: their native
// parameter layout and domain constraints (default initial values live in internal/estimate's
// init.go). Every other layer resolves a
// family through this registry rather than matching on ad hoc strings, the way the reference
// service resolved signal types through its DataType/Severity enums
// (internal/models/correlation.go in the teacher).
package distributions

import "fmt"

// Family identifies a supported survival distribution by its external name (§6 of the spec).
type Family string

const (
	Exponential      Family = "exp"
	Gamma            Family = "gamma"
	GeneralizedGamma Family = "gen-gamma"
	LogNormal        Family = "log-normal"
	Weibull          Family = "weibull"
)

// Domain describes the constraint on a single native parameter.
type Domain int

const (
	// PositiveReal parameters are optimized on the log scale internally.
	PositiveReal Domain = iota
	// RealLine parameters are unconstrained.
	RealLine
)

// ParamSpec names one coordinate of the native parameter vector θ and its domain.
type ParamSpec struct {
	Symbol string
	Domain Domain
}

// Descriptor is the immutable family record from §3 (Family descriptor).
type Descriptor struct {
	Family Family
	Params []ParamSpec
}

// Arity returns the number of native parameters for the family.
func (d Descriptor) Arity() int { return len(d.Params) }

var registry = map[Family]Descriptor{
	Exponential: {
		Family: Exponential,
		Params: []ParamSpec{{Symbol: "lambda", Domain: PositiveReal}},
	},
	Gamma: {
		Family: Gamma,
		Params: []ParamSpec{{Symbol: "alpha", Domain: PositiveReal}, {Symbol: "lambda", Domain: PositiveReal}},
	},
	GeneralizedGamma: {
		Family: GeneralizedGamma,
		Params: []ParamSpec{
			{Symbol: "alpha", Domain: PositiveReal},
			{Symbol: "beta", Domain: PositiveReal},
			{Symbol: "lambda", Domain: PositiveReal},
		},
	},
	LogNormal: {
		Family: LogNormal,
		Params: []ParamSpec{{Symbol: "mu", Domain: RealLine}, {Symbol: "sigma", Domain: PositiveReal}},
	},
	Weibull: {
		Family: Weibull,
		Params: []ParamSpec{{Symbol: "alpha", Domain: PositiveReal}, {Symbol: "lambda", Domain: PositiveReal}},
	},
}

// Lookup resolves a family by name. An unregistered name yields a plain error; callers such as
// estimate.Fit wrap it with the apperr.UnknownDistribution kind.
func Lookup(name Family) (Descriptor, error) {
	desc, ok := registry[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("unknown distribution %q", name)
	}
	return desc, nil
}

// Known reports whether name is a registered family.
func Known(name Family) bool {
	_, ok := registry[name]
	return ok
}

// All returns every registered family name, sorted for deterministic iteration (CLI listing,
// diagnostics grouping).
func All() []Family {
	return []Family{Exponential, Gamma, GeneralizedGamma, LogNormal, Weibull}
}

// CheckArity validates that a supplied initial-value vector matches the family's native arity.
func CheckArity(name Family, got int) error {
	desc, err := Lookup(name)
	if err != nil {
		return err
	}
	if got != desc.Arity() {
		return fmt.Errorf("family %s expects %d parameters, got %d", name, desc.Arity(), got)
	}
	return nil
}
