package gamefile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timpalpant/netrat/game"
	"github.com/timpalpant/netrat/profile"
)

func TestLoad(t *testing.T) {
	gf, err := Load("testdata/prisoners_dilemma.yaml")
	require.NoError(t, err)
	assert.Equal(t, "prisoners-dilemma", gf.Name)
	assert.Equal(t, 2, gf.Players)
	assert.Equal(t, 2, gf.Actions)

	table, err := gf.Game()
	require.NoError(t, err)
	u, err := table.Utility(profile.Profile{0, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 5}, u)

	g, err := gf.Graph()
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{0, 1}}, g.Edges())
}

func TestLoadComplete(t *testing.T) {
	gf, err := Load("testdata/matching_pennies.yaml")
	require.NoError(t, err)

	g, err := gf.Graph()
	require.NoError(t, err)
	assert.True(t, g.HasEdge(0, 1))
}

func TestLoadGzip(t *testing.T) {
	buf, err := os.ReadFile("testdata/prisoners_dilemma.yaml")
	require.NoError(t, err)

	filename := filepath.Join(t.TempDir(), "pd.yaml.gz")
	f, err := os.Create(filename)
	require.NoError(t, err)
	w := gzip.NewWriter(f)
	_, err = w.Write(buf)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	gf, err := Load(filename)
	require.NoError(t, err)
	assert.Equal(t, "prisoners-dilemma", gf.Name)
	assert.Len(t, gf.Payoffs, 4)
}

func TestParseRejectsInvalidFiles(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{"no players", "actions: 2\npayoffs:\n  - {profile: [0], utilities: [1]}\n"},
		{"no payoffs", "players: 1\nactions: 2\n"},
		{"negative action", "players: 1\nactions: 2\npayoffs:\n  - {profile: [-1], utilities: [1]}\n"},
		{"short profile", "players: 2\nactions: 2\npayoffs:\n  - {profile: [0], utilities: [1, 1]}\n"},
		{"short utilities", "players: 2\nactions: 2\npayoffs:\n  - {profile: [0, 0], utilities: [1]}\n"},
		{"bad edge", "players: 2\nactions: 2\nnetwork: {edges: [[0]]}\npayoffs:\n  - {profile: [0, 0], utilities: [1, 1]}\n"},
		{"unknown field", "players: 1\nactions: 1\nplayer_names: [a]\npayoffs:\n  - {profile: [0], utilities: [1]}\n"},
		{"not yaml", "players: [\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestGameRejectsDuplicates(t *testing.T) {
	gf, err := Parse(strings.NewReader(`
players: 1
actions: 2
payoffs:
  - {profile: [0], utilities: [1]}
  - {profile: [0], utilities: [2]}
`))
	require.NoError(t, err)

	_, err = gf.Game()
	assert.Error(t, err)
}

func TestGameOutOfRangeAction(t *testing.T) {
	gf, err := Parse(strings.NewReader(`
players: 1
actions: 2
payoffs:
  - {profile: [2], utilities: [1]}
`))
	require.NoError(t, err)

	_, err = gf.Game()
	assert.Error(t, err)
}

func TestMissingProfilesAreIncomplete(t *testing.T) {
	gf, err := Parse(strings.NewReader(`
players: 1
actions: 2
payoffs:
  - {profile: [0], utilities: [1]}
`))
	require.NoError(t, err)

	table, err := gf.Game()
	require.NoError(t, err)
	_, err = game.Tabulate(table, nil)
	assert.True(t, errors.Is(err, game.ErrIncomplete), "got %v", err)
}

func TestGraphRejectsSelfLoops(t *testing.T) {
	gf, err := Parse(strings.NewReader(`
players: 2
actions: 1
network: {edges: [[1, 1]]}
payoffs:
  - {profile: [0, 0], utilities: [0, 0]}
`))
	require.NoError(t, err)

	_, err = gf.Graph()
	assert.Error(t, err)
}
