package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSetSortsAndDedups(t *testing.T) {
	set := NewSet(5, 1, 3, 1, 5)
	assert.Equal(t, []int{1, 3, 5}, set.Indices())
	assert.Equal(t, 3, set.Len())
	assert.False(t, set.IsEmpty())
	assert.True(t, NewSet().IsEmpty())
}

func TestNewSetDoesNotAliasInput(t *testing.T) {
	input := []int{3, 2, 1}
	set := NewSet(input...)
	assert.Equal(t, []int{3, 2, 1}, input)

	indices := set.Indices()
	indices[0] = 100
	assert.Equal(t, 1, set.At(0))
}

func TestFull(t *testing.T) {
	s, err := NewSpace(2, 3)
	require.NoError(t, err)

	full := Full(s)
	assert.Equal(t, 9, full.Len())
	for i := 0; i < 9; i++ {
		assert.True(t, full.Contains(i))
	}
	assert.False(t, full.Contains(9))
}

func TestSetEqualAndSubset(t *testing.T) {
	a := NewSet(1, 2, 3)
	b := NewSet(3, 2, 1)
	c := NewSet(1, 3)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, c.IsSubsetOf(a))
	assert.False(t, a.IsSubsetOf(c))
	assert.True(t, NewSet().IsSubsetOf(c))
	assert.False(t, NewSet(4).IsSubsetOf(a))
}

func TestSetProfilesAndFormat(t *testing.T) {
	s, err := NewSpace(2, 2)
	require.NoError(t, err)

	set := NewSetFromProfiles(s, []Profile{{1, 1}, {0, 1}})
	assert.Equal(t, []Profile{{0, 1}, {1, 1}}, set.Profiles(s))
	assert.Equal(t, "{(0,1), (1,1)}", set.Format(s))
}

func TestSupportKey(t *testing.T) {
	a := NewSupport([]int{7, 3, 3, 1})
	assert.Equal(t, Support{1, 3, 7}, a)

	b := NewSupport([]int{1, 3, 7})
	c := NewSupport([]int{1, 3, 8})
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.NotEqual(t, Support{}.Key(), Support{0}.Key())
}
