package game

import (
	"fmt"
	"math"
)

// Transform maps a raw utility to the utility a player actually maximizes.
// It is applied to every entry of the table before any elimination round.
type Transform interface {
	Apply(u float64) float64
}

// Identity leaves utilities unchanged. It is the default Transform.
var Identity Transform = identity{}

type identity struct{}

func (identity) Apply(u float64) float64 { return u }
func (identity) String() string          { return "identity" }

// TransformFunc adapts an ordinary function to a Transform.
type TransformFunc func(u float64) float64

func (f TransformFunc) Apply(u float64) float64 { return f(u) }

// RiskAverse is the constant absolute risk aversion transform
// (1 - exp(-Alpha*u)) / Alpha. Alpha == 0 is the identity.
type RiskAverse struct {
	Alpha float64
}

func (r RiskAverse) Apply(u float64) float64 {
	if r.Alpha == 0 {
		return u
	}

	return -math.Expm1(-r.Alpha*u) / r.Alpha
}

func (r RiskAverse) String() string {
	return fmt.Sprintf("risk_averse(%g)", r.Alpha)
}

// Affine rescales utilities as Scale*u + Shift.
// A positive Scale leaves best responses unchanged.
type Affine struct {
	Scale float64
	Shift float64
}

func (a Affine) Apply(u float64) float64 {
	return a.Scale*u + a.Shift
}

func (a Affine) String() string {
	return fmt.Sprintf("affine(%g, %g)", a.Scale, a.Shift)
}
