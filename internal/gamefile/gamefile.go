// Package gamefile reads normal-form games and observation networks from
// YAML files, optionally gzip-compressed.
//
// A game file looks like:
//
//	name: prisoners-dilemma
//	players: 2
//	actions: 2
//	network:
//	  edges: [[0, 1]]
//	payoffs:
//	  - profile: [0, 0]
//	    utilities: [3, 3]
//	  ...
//
// Every profile must be listed exactly once. Setting network.complete
// connects every pair of players and ignores edges.
package gamefile

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/golang/glog"
	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/timpalpant/netrat/game"
	"github.com/timpalpant/netrat/network"
	"github.com/timpalpant/netrat/profile"
)

var validate = validator.New()

type File struct {
	Name    string   `yaml:"name"`
	Players int      `yaml:"players" validate:"required,gte=1"`
	Actions int      `yaml:"actions" validate:"required,gte=1"`
	Network Network  `yaml:"network"`
	Payoffs []Payoff `yaml:"payoffs" validate:"required,min=1,dive"`
}

type Network struct {
	Complete bool    `yaml:"complete"`
	Edges    [][]int `yaml:"edges" validate:"dive,len=2,dive,gte=0"`
}

// Payoff is the utility vector of one profile.
type Payoff struct {
	Profile   []int     `yaml:"profile" validate:"required,dive,gte=0"`
	Utilities []float64 `yaml:"utilities" validate:"required"`
}

// Load reads the named file. Names ending in .gz are decompressed.
func Load(filename string) (*File, error) {
	glog.V(1).Infof("Loading game from: %v", filename)
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	if strings.HasSuffix(filename, ".gz") {
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrapf(err, "opening %v", filename)
		}
		defer gzr.Close()
		r = gzr
	}

	gf, err := Parse(r)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %v", filename)
	}

	return gf, nil
}

// Parse decodes and validates a game file.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var gf File
	if err := dec.Decode(&gf); err != nil {
		return nil, errors.Wrap(err, "decoding game file")
	}

	if err := gf.Validate(); err != nil {
		return nil, err
	}

	return &gf, nil
}

// Validate checks the schema of gf. It does not check that the payoff
// table is complete; Game does.
func (gf *File) Validate() error {
	if err := validate.Struct(gf); err != nil {
		return errors.Wrap(err, "invalid game file")
	}

	for i, payoff := range gf.Payoffs {
		if len(payoff.Profile) != gf.Players {
			return errors.Errorf("payoff %d: profile %v has %d actions, expected %d",
				i, payoff.Profile, len(payoff.Profile), gf.Players)
		}
		if len(payoff.Utilities) != gf.Players {
			return errors.Errorf("payoff %d: %d utilities, expected %d",
				i, len(payoff.Utilities), gf.Players)
		}
	}

	return nil
}

// Game builds the payoff table. Profiles listed twice are rejected, and
// profiles never listed surface as game.ErrIncomplete when the table is
// tabulated.
func (gf *File) Game() (*game.Table, error) {
	table, err := game.NewTable(gf.Players, gf.Actions)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(gf.Payoffs))
	for i, payoff := range gf.Payoffs {
		p := make(profile.Profile, len(payoff.Profile))
		for j, a := range payoff.Profile {
			p[j] = profile.Action(a)
		}

		key := p.String()
		if seen[key] {
			return nil, errors.Errorf("payoff %d: duplicate profile %v", i, p)
		}
		seen[key] = true

		if err := table.Set(p, payoff.Utilities); err != nil {
			return nil, errors.Wrapf(err, "payoff %d", i)
		}
	}

	return table, nil
}

// Graph builds the observation network.
func (gf *File) Graph() (*network.Graph, error) {
	if gf.Network.Complete {
		return network.Complete(gf.Players), nil
	}

	edges := make([][2]int, len(gf.Network.Edges))
	for i, e := range gf.Network.Edges {
		edges[i] = [2]int{e[0], e[1]}
	}

	return network.FromEdges(gf.Players, edges)
}
