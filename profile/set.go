package profile

import (
	"encoding/binary"
	"sort"
	"strings"
)

// Set is an immutable set of profile indices.
//
// The indices are kept sorted, so iteration order is deterministic and
// membership is a binary search. Operations that would change the Set
// return a new one; a Set may be shared freely between goroutines.
type Set struct {
	indices []int
}

// Full returns the Set of every profile in the Space.
func Full(s Space) Set {
	indices := make([]int, s.Size())
	for i := range indices {
		indices[i] = i
	}

	return Set{indices}
}

// NewSet creates a new Set from the given profile indices.
// Duplicates are dropped.
func NewSet(indices ...int) Set {
	return Set{sortedUnique(append([]int(nil), indices...))}
}

// NewSetFromProfiles creates a new Set from the given Profiles.
func NewSetFromProfiles(s Space, profiles []Profile) Set {
	indices := make([]int, len(profiles))
	for i, p := range profiles {
		indices[i] = s.Index(p)
	}

	return Set{sortedUnique(indices)}
}

// IsEmpty returns whether this Set contains any profiles.
func (s Set) IsEmpty() bool {
	return len(s.indices) == 0
}

// Len gets the number of profiles in the Set.
func (s Set) Len() int {
	return len(s.indices)
}

// Contains returns whether the profile index is in the Set.
func (s Set) Contains(idx int) bool {
	i := sort.SearchInts(s.indices, idx)
	return i < len(s.indices) && s.indices[i] == idx
}

// At returns the i'th smallest profile index.
func (s Set) At(i int) int {
	return s.indices[i]
}

// Indices returns a copy of the profile indices in ascending order.
func (s Set) Indices() []int {
	return append([]int(nil), s.indices...)
}

// Iter calls cb for every profile index in ascending order.
func (s Set) Iter(cb func(idx int)) {
	for _, idx := range s.indices {
		cb(idx)
	}
}

// Profiles decodes every member of the Set.
func (s Set) Profiles(space Space) []Profile {
	result := make([]Profile, len(s.indices))
	for i, idx := range s.indices {
		result[i] = space.Profile(idx)
	}

	return result
}

// Equal returns whether both Sets contain exactly the same profiles.
func (s Set) Equal(other Set) bool {
	if len(s.indices) != len(other.indices) {
		return false
	}

	for i, idx := range s.indices {
		if other.indices[i] != idx {
			return false
		}
	}

	return true
}

// IsSubsetOf returns whether every member of s is also in other.
func (s Set) IsSubsetOf(other Set) bool {
	j := 0
	for _, idx := range s.indices {
		for j < len(other.indices) && other.indices[j] < idx {
			j++
		}
		if j == len(other.indices) || other.indices[j] != idx {
			return false
		}
	}

	return true
}

// Format renders the Set as a list of profiles.
func (s Set) Format(space Space) string {
	result := make([]string, len(s.indices))
	for i, idx := range s.indices {
		result[i] = space.Profile(idx).String()
	}

	return "{" + strings.Join(result, ", ") + "}"
}

// Support is a set of opponent-tuple indices for one player, in ascending
// order. The position of each tuple in the Support is the index of its
// weight in a conjecture.
type Support []int

// NewSupport sorts and de-duplicates the given opponent-tuple indices in place.
func NewSupport(opps []int) Support {
	return Support(sortedUnique(opps))
}

// Key returns a compact string encoding of the Support, suitable for use
// as a map or cache key.
func (s Support) Key() string {
	buf := make([]byte, 0, 2*len(s))
	prev := 0
	for _, opp := range s {
		// Delta encoding keeps keys short for dense supports.
		buf = binary.AppendUvarint(buf, uint64(opp-prev))
		prev = opp
	}

	return string(buf)
}

func sortedUnique(xs []int) []int {
	if len(xs) == 0 {
		return xs
	}

	sort.Ints(xs)
	n := 1
	for _, x := range xs[1:] {
		if x != xs[n-1] {
			xs[n] = x
			n++
		}
	}

	return xs[:n]
}
