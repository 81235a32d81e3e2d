// Command dispatchdemo runs a small game score scenario against the process-wide dispatch registry.
package main

import (
	"errors"
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/saylorsolutions/gevent/dispatch"
	"github.com/saylorsolutions/gevent/dispatch/metrics"
	flag "github.com/spf13/pflag"
	"io"
	"os"
	"slices"
	"strings"
)

const (
	gameNamespace = "Game"
	scoreChanged  = "ScoreChanged"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out, logOut io.Writer) error {
	flags := flag.NewFlagSet("dispatchdemo", flag.ContinueOnError)
	flags.SetOutput(logOut)
	strict := flags.Bool("strict", false, "Panic on the first listener failure (overrides DISPATCH_STRICT)")
	logLevel := flags.String("log-level", "", "Log level for the registry (overrides DISPATCH_LOG_LEVEL)")
	scores := flags.IntSliceP("score", "s", []int{100, 200}, "Scores to commit, the first before and the rest after the scoreboard is removed")
	mismatch := flags.Bool("mismatch", false, "Also register a listener that expects the wrong argument type")
	showMetrics := flags.Bool("metrics", false, "Print collected metrics after the run")
	if err := flags.Parse(args); err != nil {
		return err
	}

	conf, err := dispatch.ConfigFromEnv()
	if err != nil {
		return err
	}
	if flags.Changed("strict") {
		conf.Strict = *strict
	}
	if len(*logLevel) > 0 {
		if err := conf.LogLevel.UnmarshalText([]byte(*logLevel)); err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
	}

	promReg := prometheus.NewRegistry()
	collector, err := metrics.New(promReg)
	if err != nil {
		return err
	}
	dispatch.OnStart(
		dispatch.WithConfig(conf),
		dispatch.WithLogger(conf.NewLogger(logOut)),
		dispatch.WithInstrument(collector),
	)
	defer dispatch.OnStop()

	board := newScoreboard(out)
	dispatch.Register(board.owner, gameNamespace, scoreChanged, board.onScoreChanged)
	if *mismatch {
		dispatch.Register(board.owner, gameNamespace, scoreChanged, func(label string) {
			_, _ = fmt.Fprintf(out, "label: %s\n", label)
		})
	}

	for i, score := range *scores {
		if i == 1 {
			dispatch.RemoveAllForOwner(board.owner)
		}
		dispatch.Commit(gameNamespace, scoreChanged, score)
	}
	_, _ = fmt.Fprintf(out, "updates received: %d\n", board.updates)

	if *showMetrics {
		return printMetrics(out, promReg)
	}
	return nil
}

type scoreboard struct {
	owner   dispatch.Owner
	out     io.Writer
	updates int
}

func newScoreboard(out io.Writer) *scoreboard {
	return &scoreboard{owner: dispatch.NewOwner(), out: out}
}

func (s *scoreboard) onScoreChanged(newScore int) {
	s.updates++
	_, _ = fmt.Fprintf(s.out, "score changed: %d\n", newScore)
}

func printMetrics(out io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	var lines []string
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			var labels []string
			for _, label := range metric.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", label.GetName(), label.GetValue()))
			}
			var value float64
			switch {
			case metric.GetCounter() != nil:
				value = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				value = metric.GetGauge().GetValue()
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", family.GetName(), strings.Join(labels, ","), value))
		}
	}
	slices.Sort(lines)
	for _, line := range lines {
		_, _ = fmt.Fprintln(out, line)
	}
	return nil
}
