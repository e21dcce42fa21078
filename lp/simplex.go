package lp

import (
	"context"
	"fmt"
	"math"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	convexlp "gonum.org/v1/gonum/optimize/convex/lp"
)

// DefaultSimplexTolerance is the pivot tolerance used by the simplex backend.
const DefaultSimplexTolerance = 1e-10

func init() {
	Register(DefaultBackend, func() Solver { return NewSimplex(DefaultSimplexTolerance) })
}

// Simplex solves problems with gonum's dense simplex implementation.
// It holds no state between solves.
type Simplex struct {
	Tol float64
}

func NewSimplex(tol float64) *Simplex {
	return &Simplex{Tol: tol}
}

// Solve implements Solver.
func (s *Simplex) Solve(ctx context.Context, p *Problem) (Solution, error) {
	if err := p.Validate(); err != nil {
		return Solution{}, err
	}
	if err := ctx.Err(); err != nil {
		return Solution{}, err
	}

	sf := toStandardForm(p)
	if sf.infeasible {
		return Solution{Status: Infeasible}, nil
	}
	if sf.rows == 0 {
		return solveUnconstrained(p), nil
	}
	if sf.rows > sf.cols {
		return Solution{
			Status: Error,
			Cause:  errors.Errorf("%d constraints exceed %d columns in standard form", sf.rows, sf.cols),
		}, nil
	}

	f, y, err := runSimplex(sf, s.Tol)
	switch {
	case err == nil:
	case errors.Is(err, convexlp.ErrInfeasible):
		return Solution{Status: Infeasible}, nil
	case errors.Is(err, convexlp.ErrUnbounded):
		return Solution{Status: Unbounded}, nil
	default:
		glog.V(2).Infof("Simplex failed on %d x %d problem: %v", sf.rows, sf.cols, err)
		return Solution{Status: Error, Cause: err}, nil
	}

	x := make([]float64, p.NumVars)
	for j := range x {
		x[j] = y[j] + p.lower(j)
	}

	return Solution{
		Status:    Optimal,
		X:         x,
		Objective: f + sf.offset,
	}, nil
}

// runSimplex converts panics from malformed inputs into errors, so a
// backend failure never takes down the caller.
func runSimplex(sf *standardForm, tol float64) (f float64, y []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("simplex panicked: %v", r)
		}
	}()

	a := mat.NewDense(sf.rows, sf.cols, sf.a)
	return convexlp.Simplex(sf.c, a, sf.b, tol, nil)
}

// standardForm is minimize c·y s.t. A y = b, y >= 0, with b >= 0.
// Columns are the shifted problem variables, then one slack per
// inequality, then one slack per finite upper bound.
type standardForm struct {
	rows, cols int
	a          []float64 // row-major
	b          []float64
	c          []float64
	// Objective value of the lower-bound shift.
	offset float64
	// Set when an all-zero equality row has a non-zero right-hand side.
	infeasible bool
}

func toStandardForm(p *Problem) *standardForm {
	nV := p.NumVars
	var bounded []int
	for j := 0; j < nV; j++ {
		if !math.IsInf(p.upper(j), 1) {
			bounded = append(bounded, j)
		}
	}

	// All-zero equality rows carry no information, and the backend rejects them.
	var equalities []Constraint
	for _, c := range p.Equalities {
		if isZero(c.Coeffs) {
			if c.RHS != 0 {
				return &standardForm{infeasible: true}
			}
			continue
		}
		equalities = append(equalities, c)
	}

	nE, nI, nU := len(equalities), len(p.Inequalities), len(bounded)
	sf := &standardForm{
		rows: nE + nI + nU,
		cols: nV + nI + nU,
	}
	sf.a = make([]float64, sf.rows*sf.cols)
	sf.b = make([]float64, sf.rows)
	sf.c = make([]float64, sf.cols)

	lower := make([]float64, nV)
	for j := range lower {
		lower[j] = p.lower(j)
	}
	if p.Objective != nil {
		copy(sf.c, p.Objective)
		sf.offset = floats.Dot(p.Objective, lower)
	}

	row := 0
	setRow := func(coeffs []float64, rhs float64) []float64 {
		r := sf.a[row*sf.cols : (row+1)*sf.cols]
		copy(r, coeffs)
		sf.b[row] = rhs - floats.Dot(coeffs, lower)
		return r
	}

	for _, c := range equalities {
		setRow(c.Coeffs, c.RHS)
		row++
	}
	for i, c := range p.Inequalities {
		r := setRow(c.Coeffs, c.RHS)
		r[nV+i] = 1
		row++
	}
	for k, j := range bounded {
		r := sf.a[row*sf.cols : (row+1)*sf.cols]
		r[j] = 1
		r[nV+nI+k] = 1
		sf.b[row] = p.upper(j) - lower[j]
		row++
	}

	for i := 0; i < sf.rows; i++ {
		if sf.b[i] < 0 {
			sf.b[i] = -sf.b[i]
			floats.Scale(-1, sf.a[i*sf.cols:(i+1)*sf.cols])
		}
	}

	return sf
}

func isZero(xs []float64) bool {
	for _, x := range xs {
		if x != 0 {
			return false
		}
	}

	return true
}

// solveUnconstrained handles problems with only lower bounds, which the
// backend cannot represent: every variable sits at its lower bound unless
// its objective coefficient is negative.
func solveUnconstrained(p *Problem) Solution {
	x := make([]float64, p.NumVars)
	for j := range x {
		x[j] = p.lower(j)
		if p.Objective != nil && p.Objective[j] < 0 {
			return Solution{Status: Unbounded}
		}
	}

	f := 0.0
	if p.Objective != nil {
		f = floats.Dot(p.Objective, x)
	}

	return Solution{Status: Optimal, X: x, Objective: f}
}
