package profile

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// ErrSpaceTooLarge is returned when numActions^numPlayers does not fit in an int.
var ErrSpaceTooLarge = errors.New("profile space too large")

// Action is one player's choice, in [0, numActions).
type Action int

// Profile is one Action per player, in player order.
type Profile []Action

// String implements Stringer.
func (p Profile) String() string {
	result := make([]string, len(p))
	for i, a := range p {
		result[i] = fmt.Sprint(int(a))
	}

	return "(" + strings.Join(result, ",") + ")"
}

// Space describes the Cartesian product of numActions actions for each of
// numPlayers players.
//
// Profiles are addressed by their index in lexicographic order, with player 0
// as the most significant digit: index = sum_i p[i] * numActions^(n-1-i).
// Opponent tuples for a given player are addressed the same way over the
// remaining n-1 digits, preserving player order.
type Space struct {
	numPlayers int
	numActions int
	size       int
	// strides[i] is the place value of player i's digit.
	strides []int
}

func NewSpace(numPlayers, numActions int) (Space, error) {
	if numPlayers <= 0 {
		return Space{}, errors.Errorf("invalid number of players: %d", numPlayers)
	}
	if numActions <= 0 {
		return Space{}, errors.Errorf("invalid number of actions: %d", numActions)
	}

	strides := make([]int, numPlayers)
	size := 1
	for i := numPlayers - 1; i >= 0; i-- {
		strides[i] = size
		if size > math.MaxInt/numActions {
			return Space{}, errors.Wrapf(ErrSpaceTooLarge, "%d^%d profiles", numActions, numPlayers)
		}
		size *= numActions
	}

	return Space{
		numPlayers: numPlayers,
		numActions: numActions,
		size:       size,
		strides:    strides,
	}, nil
}

func (s Space) NumPlayers() int { return s.numPlayers }
func (s Space) NumActions() int { return s.numActions }

// Size is the number of profiles in the space.
func (s Space) Size() int { return s.size }

// NumOpponentTuples is the number of distinct opponent tuples for any one player.
func (s Space) NumOpponentTuples() int { return s.size / s.numActions }

// Index returns the index of the given Profile.
// Index panics if the Profile does not belong to this Space.
func (s Space) Index(p Profile) int {
	if len(p) != s.numPlayers {
		panic(fmt.Errorf("profile %v has %d actions, expected %d", p, len(p), s.numPlayers))
	}

	idx := 0
	for i, a := range p {
		if a < 0 || int(a) >= s.numActions {
			panic(fmt.Errorf("action %d of player %d out of range", a, i))
		}
		idx += int(a) * s.strides[i]
	}

	return idx
}

// Profile decodes the Profile at the given index.
func (s Space) Profile(idx int) Profile {
	result := make(Profile, s.numPlayers)
	for i := range result {
		result[i] = s.ActionOf(idx, i)
	}

	return result
}

// ActionOf returns the action of the given player in the profile at idx.
func (s Space) ActionOf(idx, player int) Action {
	return Action((idx / s.strides[player]) % s.numActions)
}

// OpponentIndex strips player's action from the profile at idx and returns
// the index of the remaining opponent tuple.
func (s Space) OpponentIndex(idx, player int) int {
	stride := s.strides[player]
	high := idx / (stride * s.numActions)
	low := idx % stride
	return high*stride + low
}

// Join reinserts the given action for player into an opponent tuple,
// returning the index of the full profile. It is the inverse of OpponentIndex.
func (s Space) Join(opp, player int, a Action) int {
	stride := s.strides[player]
	high := opp / stride
	low := opp % stride
	return high*stride*s.numActions + int(a)*stride + low
}

// OpponentTuple decodes an opponent tuple of the given player.
func (s Space) OpponentTuple(opp, player int) []Action {
	full := s.Profile(s.Join(opp, player, 0))
	return append(full[:player:player], full[player+1:]...)
}
