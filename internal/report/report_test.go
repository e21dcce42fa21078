package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/timpalpant/netrat"
	"github.com/timpalpant/netrat/lp"
	"github.com/timpalpant/netrat/profile"
)

func fixedResult(t *testing.T) *netrat.Result {
	space, err := profile.NewSpace(2, 2)
	require.NoError(t, err)

	return &netrat.Result{
		RunID:    "test",
		Space:    space,
		Profiles: profile.NewSet(3),
		Rounds: []netrat.RoundStats{
			{RunID: "test", Round: 1, PreviousSize: 4, CurrentSize: 1, Shortcuts: 5, Ambiguities: 1, Elapsed: 500 * time.Millisecond},
			{RunID: "test", Round: 2, PreviousSize: 1, CurrentSize: 1, Shortcuts: 2, Elapsed: 250 * time.Millisecond},
		},
		Ambiguities: []*netrat.AmbiguityError{
			{Round: 1, Profile: profile.Profile{1, 1}, Player: 1, Err: &netrat.StatusError{Status: lp.Unbounded}},
		},
	}
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"))
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, fixedResult(t)))
	newGoldie(t).Assert(t, "text", buf.Bytes())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, fixedResult(t)))
	newGoldie(t).Assert(t, "json", buf.Bytes())
}

func TestWriteJSONEmptyResult(t *testing.T) {
	space, err := profile.NewSpace(2, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, &netrat.Result{RunID: "empty", Space: space}))
	require.JSONEq(t, `{"run_id": "empty", "players": 2, "actions": 2, "profiles": [], "rounds": [], "ambiguities": []}`, buf.String())
}
