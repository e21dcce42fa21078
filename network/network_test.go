package network

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEdge(t *testing.T) {
	g := New(4)
	require.NoError(t, g.AddEdge(2, 0))
	require.NoError(t, g.AddEdge(0, 3))
	require.NoError(t, g.AddEdge(0, 2))

	assert.Equal(t, []int{2, 3}, g.Neighbors(0))
	assert.Equal(t, []int{0}, g.Neighbors(2))
	assert.Empty(t, g.Neighbors(1))
	assert.Equal(t, 2, g.NumEdges())
	assert.Equal(t, [][2]int{{0, 2}, {0, 3}}, g.Edges())

	assert.True(t, errors.Is(g.AddEdge(1, 1), ErrInvalid))
	assert.True(t, errors.Is(g.AddEdge(1, 4), ErrInvalid))
	assert.True(t, errors.Is(g.AddEdge(-1, 0), ErrInvalid))
}

func TestNeighborsReturnsCopy(t *testing.T) {
	g := Complete(3)
	nbrs := g.Neighbors(0)
	nbrs[0] = 99
	assert.Equal(t, []int{1, 2}, g.Neighbors(0))
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, 0, Empty(5).NumEdges())
	assert.Equal(t, 10, Complete(5).NumEdges())
	assert.Equal(t, 4, Path(5).NumEdges())
	assert.Equal(t, []int{1, 3}, Path(5).Neighbors(2))

	g, err := FromEdges(3, [][2]int{{0, 1}, {1, 2}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, g.Neighbors(1))

	_, err = FromEdges(3, [][2]int{{0, 3}})
	assert.Error(t, err)
}

type adjacency [][]int

func (a adjacency) NumNodes() int              { return len(a) }
func (a adjacency) Neighbors(player int) []int { return a[player] }

func TestValidate(t *testing.T) {
	testCases := []struct {
		name       string
		nw         Network
		numPlayers int
		valid      bool
	}{
		{"complete", Complete(3), 3, true},
		{"empty", Empty(3), 3, true},
		{"nil", nil, 3, false},
		{"too few nodes", Empty(2), 3, false},
		{"too many nodes", Empty(4), 3, false},
		{"out of range", adjacency{{1}, {0, 3}, {}}, 3, false},
		{"negative", adjacency{{-1}, {}, {}}, 3, false},
		{"self-loop", adjacency{{0}, {}, {}}, 3, false},
		{"asymmetric", adjacency{{1}, {}, {}}, 3, false},
		{"symmetric", adjacency{{1}, {0}, {}}, 3, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.nw, tc.numPlayers)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalid), "got %v", err)
			}
		})
	}
}
