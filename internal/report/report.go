// Package report renders a netrat.Result for people and for other programs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/timpalpant/netrat"
	"github.com/timpalpant/netrat/profile"
)

// WriteText writes a human-readable summary of result to w.
// Timings are omitted so that the output is reproducible.
func WriteText(w io.Writer, result *netrat.Result) error {
	space := result.Space
	fmt.Fprintf(w, "Run %s: %d players, %d actions, %d profiles\n",
		result.RunID, space.NumPlayers(), space.NumActions(), space.Size())

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Round\tFrom\tTo\tLP solves\tMemo hits\tPure BRs\tAmbiguous")
	for _, round := range result.Rounds {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t%d\n", round.Round, round.PreviousSize,
			round.CurrentSize, round.Solves, round.CacheHits, round.Shortcuts, round.Ambiguities)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	profiles := result.ProfileList()
	fmt.Fprintf(w, "Exited with %d profiles after %d rounds\n", len(profiles), len(result.Rounds))
	for _, p := range profiles {
		fmt.Fprintf(w, "  %v\n", p)
	}

	if result.Ambiguous() {
		fmt.Fprintf(w, "%d checks were undecided and eliminated nothing:\n", len(result.Ambiguities))
		for _, amb := range result.Ambiguities {
			fmt.Fprintf(w, "  %v\n", amb)
		}
	}

	return nil
}

type jsonResult struct {
	RunID       string          `json:"run_id"`
	Players     int             `json:"players"`
	Actions     int             `json:"actions"`
	Profiles    [][]int         `json:"profiles"`
	Rounds      []jsonRound     `json:"rounds"`
	Ambiguities []jsonAmbiguity `json:"ambiguities"`
}

type jsonRound struct {
	Round             int     `json:"round"`
	PreviousSize      int     `json:"previous_size"`
	CurrentSize       int     `json:"current_size"`
	LPSolves          int64   `json:"lp_solves"`
	MemoHits          int64   `json:"memo_hits"`
	PureBestResponses int64   `json:"pure_best_responses"`
	Ambiguities       int     `json:"ambiguities"`
	ElapsedSeconds    float64 `json:"elapsed_seconds"`
}

type jsonAmbiguity struct {
	Round   int    `json:"round"`
	Profile []int  `json:"profile"`
	Player  int    `json:"player"`
	Status  string `json:"status,omitempty"`
	Error   string `json:"error"`
}

// WriteJSON writes result to w as a single indented JSON document.
func WriteJSON(w io.Writer, result *netrat.Result) error {
	out := jsonResult{
		RunID:       result.RunID,
		Players:     result.Space.NumPlayers(),
		Actions:     result.Space.NumActions(),
		Profiles:    [][]int{},
		Rounds:      []jsonRound{},
		Ambiguities: []jsonAmbiguity{},
	}

	for _, p := range result.ProfileList() {
		out.Profiles = append(out.Profiles, actions(p))
	}

	for _, round := range result.Rounds {
		out.Rounds = append(out.Rounds, jsonRound{
			Round:             round.Round,
			PreviousSize:      round.PreviousSize,
			CurrentSize:       round.CurrentSize,
			LPSolves:          round.Solves,
			MemoHits:          round.CacheHits,
			PureBestResponses: round.Shortcuts,
			Ambiguities:       round.Ambiguities,
			ElapsedSeconds:    round.Elapsed.Seconds(),
		})
	}

	for _, amb := range result.Ambiguities {
		entry := jsonAmbiguity{
			Round:   amb.Round,
			Profile: actions(amb.Profile),
			Player:  amb.Player,
			Error:   amb.Err.Error(),
		}
		if status, ok := amb.Status(); ok {
			entry.Status = status.String()
		}
		out.Ambiguities = append(out.Ambiguities, entry)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(out), "encoding result")
}

func actions(p profile.Profile) []int {
	result := make([]int, len(p))
	for i, a := range p {
		result[i] = int(a)
	}

	return result
}
