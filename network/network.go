// Package network describes which players can observe one another's actions.
package network

import (
	"sort"

	"github.com/pkg/errors"
)

// ErrInvalid is returned for networks that do not describe a symmetric,
// loop-free relation over exactly the players of the game.
var ErrInvalid = errors.New("invalid network")

// Network is an undirected graph over player indices 0..NumNodes()-1.
type Network interface {
	NumNodes() int
	// Neighbors returns the players whose actions the given player observes.
	Neighbors(player int) []int
}

// Graph is an adjacency-list Network.
type Graph struct {
	adj [][]int
}

// New creates a Graph with n players and no edges.
func New(n int) *Graph {
	return &Graph{adj: make([][]int, n)}
}

// Empty is the graph in which no player observes anyone.
func Empty(n int) *Graph {
	return New(n)
}

// Complete is the graph in which every player observes every other player.
func Complete(n int) *Graph {
	g := New(n)
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			g.mustAddEdge(u, v)
		}
	}

	return g
}

// Path connects player i to player i+1.
func Path(n int) *Graph {
	g := New(n)
	for u := 0; u+1 < n; u++ {
		g.mustAddEdge(u, u+1)
	}

	return g
}

// FromEdges builds a Graph with n players from an edge list.
func FromEdges(n int, edges [][2]int) (*Graph, error) {
	g := New(n)
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, err
		}
	}

	return g, nil
}

func (g *Graph) NumNodes() int {
	return len(g.adj)
}

// NumEdges returns the number of undirected edges.
func (g *Graph) NumEdges() int {
	n := 0
	for _, nbrs := range g.adj {
		n += len(nbrs)
	}

	return n / 2
}

// AddEdge connects u and v. Adding an existing edge is a no-op.
func (g *Graph) AddEdge(u, v int) error {
	if u < 0 || u >= len(g.adj) || v < 0 || v >= len(g.adj) {
		return errors.Wrapf(ErrInvalid, "edge (%d, %d) outside [0, %d)", u, v, len(g.adj))
	}
	if u == v {
		return errors.Wrapf(ErrInvalid, "self-loop on player %d", u)
	}

	if !g.HasEdge(u, v) {
		g.adj[u] = insertSorted(g.adj[u], v)
		g.adj[v] = insertSorted(g.adj[v], u)
	}

	return nil
}

func (g *Graph) mustAddEdge(u, v int) {
	if err := g.AddEdge(u, v); err != nil {
		panic(err)
	}
}

// HasEdge returns whether u and v are neighbors.
func (g *Graph) HasEdge(u, v int) bool {
	nbrs := g.adj[u]
	i := sort.SearchInts(nbrs, v)
	return i < len(nbrs) && nbrs[i] == v
}

// Neighbors returns the sorted neighbors of player.
func (g *Graph) Neighbors(player int) []int {
	return append([]int(nil), g.adj[player]...)
}

// Edges returns every edge once, as (u, v) with u < v, in ascending order.
func (g *Graph) Edges() [][2]int {
	var result [][2]int
	for u, nbrs := range g.adj {
		for _, v := range nbrs {
			if u < v {
				result = append(result, [2]int{u, v})
			}
		}
	}

	return result
}

func insertSorted(xs []int, x int) []int {
	i := sort.SearchInts(xs, x)
	xs = append(xs, 0)
	copy(xs[i+1:], xs[i:])
	xs[i] = x
	return xs
}

// Validate checks that nw has exactly numPlayers nodes, that every
// neighbor index is a player, and that the relation is symmetric and
// irreflexive.
func Validate(nw Network, numPlayers int) error {
	if nw == nil {
		return errors.Wrap(ErrInvalid, "nil network")
	}
	if nw.NumNodes() != numPlayers {
		return errors.Wrapf(ErrInvalid, "network has %d nodes, game has %d players", nw.NumNodes(), numPlayers)
	}

	adj := make([]map[int]bool, numPlayers)
	for u := range adj {
		adj[u] = make(map[int]bool)
		for _, v := range nw.Neighbors(u) {
			if v < 0 || v >= numPlayers {
				return errors.Wrapf(ErrInvalid, "player %d has neighbor %d outside [0, %d)", u, v, numPlayers)
			}
			if v == u {
				return errors.Wrapf(ErrInvalid, "self-loop on player %d", u)
			}
			adj[u][v] = true
		}
	}

	for u, nbrs := range adj {
		for v := range nbrs {
			if !adj[v][u] {
				return errors.Wrapf(ErrInvalid, "edge (%d, %d) is not symmetric", u, v)
			}
		}
	}

	return nil
}
