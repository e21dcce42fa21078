// Compute the network-consistent rationalizable profiles of a game file.
package main

import (
	"bufio"
	"context"
	_ "expvar"
	"flag"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strings"

	"github.com/golang/glog"
	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"

	"github.com/timpalpant/netrat"
	"github.com/timpalpant/netrat/game"
	"github.com/timpalpant/netrat/internal/gamefile"
	"github.com/timpalpant/netrat/internal/report"
	"github.com/timpalpant/netrat/lp"
)

func main() {
	gameFile := flag.String("game", "", "YAML game file (.gz for gzip'd)")
	backend := flag.String("backend", lp.DefaultBackend, "LP backend, one of: "+strings.Join(lp.Backends(), ", "))
	workers := flag.Int("workers", 0, "Concurrent feasibility checks (0 = number of CPUs)")
	timeout := flag.Duration("timeout", 0, "Time limit for each LP solve (0 = unbounded)")
	failFast := flag.Bool("fail_fast", false, "Abort on the first undecided LP instead of keeping the profile")
	riskAversion := flag.Float64("risk_aversion", 0, "Apply CARA utility with this coefficient before solving")
	tolerance := flag.Float64("tolerance", netrat.DefaultTolerance, "Tolerance relative to the largest utility")
	cacheSize := flag.Int("cache_size", netrat.DefaultCacheSize, "Feasibility verdicts to memoize (<0 disables)")
	format := flag.String("format", "text", "Output format: text or json")
	output := flag.String("output", "", "Output file (.gz for gzip'd; default stdout)")
	debugAddr := flag.String("debug_addr", "localhost:4123", "Address for pprof and expvar (empty disables)")
	flag.Parse()

	if *gameFile == "" {
		glog.Exit("-game is required")
	}
	if *format != "text" && *format != "json" {
		glog.Exitf("unknown -format %q", *format)
	}

	if *debugAddr != "" {
		go http.ListenAndServe(*debugAddr, nil)
	}

	gf, err := gamefile.Load(*gameFile)
	if err != nil {
		glog.Exit(err)
	}
	table, err := gf.Game()
	if err != nil {
		glog.Exit(err)
	}
	nw, err := gf.Graph()
	if err != nil {
		glog.Exit(err)
	}

	cfg := netrat.Config{
		NumPlayers:   gf.Players,
		NumActions:   gf.Actions,
		Network:      nw,
		Backend:      *backend,
		Workers:      *workers,
		SolveTimeout: *timeout,
		FailFast:     *failFast,
		Tolerance:    *tolerance,
		CacheSize:    *cacheSize,
	}
	if *riskAversion != 0 {
		cfg.Transform = game.RiskAverse{Alpha: *riskAversion}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	glog.Infof("Solving %q: %d players, %d actions, %d edges", gf.Name, gf.Players, gf.Actions, nw.NumEdges())
	result, err := netrat.Solve(ctx, cfg, table)
	if err != nil {
		glog.Exit(err)
	}

	if err := writeResult(*output, *format, result); err != nil {
		glog.Exit(err)
	}
}

func writeResult(filename, format string, result *netrat.Result) error {
	if filename == "" {
		return render(os.Stdout, format, result)
	}

	glog.Infof("Saving result to: %v", filename)
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	var w io.Writer = bw
	var gzw *gzip.Writer
	if strings.HasSuffix(filename, ".gz") {
		gzw = gzip.NewWriter(bw)
		w = gzw
	}

	if err := render(w, format, result); err != nil {
		return err
	}
	if gzw != nil {
		if err := gzw.Close(); err != nil {
			return errors.Wrap(err, "compressing result")
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	return f.Close()
}

func render(w io.Writer, format string, result *netrat.Result) error {
	if format == "json" {
		return report.WriteJSON(w, result)
	}

	return report.WriteText(w, result)
}
