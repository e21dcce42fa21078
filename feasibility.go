package netrat

import (
	"context"
	"expvar"
	"math"

	"github.com/pkg/errors"

	"github.com/timpalpant/netrat/lp"
	"github.com/timpalpant/netrat/profile"
)

var (
	lpSolves          = expvar.NewInt("netrat/lp_solves")
	pureBestResponses = expvar.NewInt("netrat/pure_best_responses")
)

// Conjecture weights may stray this far outside the simplex.
const weightTol = 1e-6

// IsFeasibleBestResponse reports whether some probability distribution over
// the opponent tuples in support makes action a best response for player.
// An empty support admits no distribution and is never feasible.
//
// A solve that is neither Optimal nor Infeasible returns an error matching
// ErrSolverAmbiguous; a solve that runs past Config.SolveTimeout returns an
// error matching ErrSolveTimeout.
func (r *Rationalizer) IsFeasibleBestResponse(ctx context.Context, player int, action profile.Action, support profile.Support) (bool, error) {
	if player < 0 || player >= r.space.NumPlayers() {
		return false, errors.Errorf("player %d outside [0, %d)", player, r.space.NumPlayers())
	}
	if action < 0 || int(action) >= r.space.NumActions() {
		return false, errors.Errorf("action %d outside [0, %d)", action, r.space.NumActions())
	}
	for _, opp := range support {
		if opp < 0 || opp >= r.space.NumOpponentTuples() {
			return false, errors.Errorf("opponent tuple %d outside [0, %d)", opp, r.space.NumOpponentTuples())
		}
	}

	support = profile.NewSupport(append([]int(nil), support...))
	return r.isFeasible(ctx, player, action, support)
}

// isFeasible expects a sorted, de-duplicated support.
func (r *Rationalizer) isFeasible(ctx context.Context, player int, action profile.Action, support profile.Support) (bool, error) {
	if len(support) == 0 {
		return false, nil
	}

	// A point mass on any tuple against which action is already a best
	// response is a valid conjecture.
	for _, opp := range support {
		if r.payoffs.IsPureBestResponse(player, action, opp, r.tol) {
			r.shortcuts.Add(1)
			pureBestResponses.Add(1)
			return true, nil
		}
	}

	verdict, hit, err := r.memo.do(memoKey(player, action, support), func() (bool, error) {
		return r.solveFeasibility(ctx, player, action, support)
	})
	if hit {
		r.cacheHits.Add(1)
	}

	return verdict, err
}

func (r *Rationalizer) solveFeasibility(ctx context.Context, player int, action profile.Action, support profile.Support) (bool, error) {
	problem := r.feasibilityProblem(player, action, support)
	solver := r.getSolver()
	defer r.putSolver(solver)

	r.solves.Add(1)
	lpSolves.Add(1)
	solution, err := solver.Solve(ctx, problem)
	if err != nil {
		return false, errors.Wrapf(err, "player %d action %d over %d opponent tuples", player, action, len(support))
	}

	switch solution.Status {
	case lp.Infeasible:
		return false, nil
	case lp.Optimal:
		if err := r.verifyConjecture(player, action, support, solution.X); err != nil {
			return false, &StatusError{Status: lp.Error, Cause: err}
		}
		return true, nil
	default:
		return false, &StatusError{Status: solution.Status, Cause: solution.Cause}
	}
}

// feasibilityProblem builds the LP over one weight per opponent tuple
// (variable j is the weight of support[j]):
//
//	sum_j x_j == 1,  0 <= x_j <= 1
//	sum_j x_j * (u(a, support[j]) - u(action, support[j])) <= 0  for every action a
func (r *Rationalizer) feasibilityProblem(player int, action profile.Action, support profile.Support) *lp.Problem {
	n := len(support)
	ones := make([]float64, n)
	upper := make([]float64, n)
	for j := range ones {
		ones[j] = 1
		upper[j] = 1
	}

	fixed := allocFloatSlice(n)
	defer freeFloatSlice(fixed)
	for j, opp := range support {
		fixed[j] = r.payoffs.Deviation(player, action, opp)
	}

	k := r.space.NumActions()
	inequalities := make([]lp.Constraint, k)
	for a := 0; a < k; a++ {
		coeffs := make([]float64, n)
		for j, opp := range support {
			coeffs[j] = r.payoffs.Deviation(player, profile.Action(a), opp) - fixed[j]
		}
		inequalities[a] = lp.Constraint{Coeffs: coeffs, RHS: 0}
	}

	return &lp.Problem{
		NumVars:      n,
		Equalities:   []lp.Constraint{{Coeffs: ones, RHS: 1}},
		Inequalities: inequalities,
		Upper:        upper,
	}
}

// verifyConjecture checks that the solver's weights form a distribution
// under which action is a best response.
func (r *Rationalizer) verifyConjecture(player int, action profile.Action, support profile.Support, x []float64) error {
	if len(x) != len(support) {
		return errors.Errorf("solution has %d weights for %d opponent tuples", len(x), len(support))
	}

	sum := 0.0
	for j, w := range x {
		if math.IsNaN(w) || w < -weightTol || w > 1+weightTol {
			return errors.Errorf("weight %d is %v", j, w)
		}
		sum += w
	}
	if math.Abs(sum-1) > weightTol {
		return errors.Errorf("weights sum to %v", sum)
	}

	utilities := r.payoffs.ExpectedUtilities(player, support, x, allocFloatSlice(r.space.NumActions()))
	defer freeFloatSlice(utilities)
	for a, u := range utilities {
		if u > utilities[action]+r.tol {
			return errors.Errorf("action %d earns %v > %v under the conjecture", a, u, utilities[action])
		}
	}

	return nil
}
