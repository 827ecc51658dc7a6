package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vango-store/pkg/metrics"
	"github.com/vango-dev/vango-store/pkg/store"
	"github.com/vango-dev/vango-store/pkg/storelog"
	storeslog "github.com/vango-dev/vango-store/pkg/storelog/slog"
	"github.com/vango-dev/vango-store/pkg/vango"
)

type demoConfig struct {
	Strategy string
	Readers  int
	Updates   int
	MaxPasses int
	Verbose   bool
	Metrics   bool
}

func demoCmd() *cobra.Command {
	cfg := demoConfig{}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Change a store mid-render and report torn commits",
		Long: `Mount one provider and several readers, then change the store
between reader renders for each update. A commit is torn when readers
committed different values for the same store state.

Examples:
  vango-store demo
  vango-store demo --strategy force_update --readers 8 --updates 20
  vango-store demo --metrics
  vango-store demo --max-passes 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.Strategy, "strategy", "all", "Strategy to run: tearing_safe, force_update or all")
	cmd.Flags().IntVarP(&cfg.Readers, "readers", "r", 3, "Number of consumers")
	cmd.Flags().IntVarP(&cfg.Updates, "updates", "u", 5, "Number of mid-render updates")
	cmd.Flags().IntVar(&cfg.MaxPasses, "max-passes", vango.DefaultMaxPasses, "Render passes allowed per flush")
	cmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log store events to stderr")
	cmd.Flags().BoolVar(&cfg.Metrics, "metrics", false, "Print collected metrics")

	return cmd
}

func runDemo(cfg demoConfig) error {
	strategies, err := parseStrategies(cfg.Strategy)
	if err != nil {
		return err
	}
	if cfg.Readers < 2 {
		return fmt.Errorf("need at least 2 readers, got %d", cfg.Readers)
	}

	reg := prometheus.NewRegistry()
	observers := []store.Observer{metrics.New(metrics.WithRegistry(reg))}
	if cfg.Verbose {
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		observers = append(observers, storelog.New(storeslog.Logger{L: slog.New(h)}, storelog.Options{
			SelectorEvery: 10,
			Publishes:     true,
		}))
	}

	for _, s := range strategies {
		res, err := simulate(s, cfg.Readers, cfg.Updates, cfg.MaxPasses, store.Observers(observers...))
		if err != nil {
			return fmt.Errorf("%s: %w", s, err)
		}

		if len(res.Torn) == 0 {
			success("%s: %d commits, none torn", s, res.Commits)
		} else {
			warn("%s: %d commits, %d torn", s, res.Commits, len(res.Torn))
			for _, c := range res.Torn {
				info("commit %d: %v", c, res.Values[c])
			}
		}
	}

	if cfg.Metrics {
		return printMetrics(reg)
	}
	return nil
}

func parseStrategies(name string) ([]store.Strategy, error) {
	switch name {
	case "all", "":
		return []store.Strategy{store.TearingSafe, store.ForceUpdate}, nil
	case store.TearingSafe.String():
		return []store.Strategy{store.TearingSafe}, nil
	case store.ForceUpdate.String():
		return []store.Strategy{store.ForceUpdate}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

type tick struct{ N int }

// demoResult holds what each commit's readers saw.
type demoResult struct {
	Commits uint64
	Values  map[uint64][]int
	Torn    []uint64
}

// simulate renders a provider with readers consumers and, for each update,
// changes the store after the first reader of a pass has rendered. Errors
// returned by a flush, such as exceeding maxPasses, are returned as is.
func simulate(strategy store.Strategy, readers, updates, maxPasses int, obs store.Observer) (*demoResult, error) {
	var midPass func()
	root := vango.NewRoot(
		vango.WithMaxPasses(maxPasses),
		vango.WithYield(func() {
			if midPass != nil {
				fn := midPass
				midPass = nil
				fn()
			}
		}),
	)
	defer root.Close()

	provider, consumer := store.New(func() *tick { return &tick{} },
		store.WithName("tick"),
		store.WithStrategy(strategy),
		store.WithObserver(obs),
	)

	res := &demoResult{Values: make(map[uint64][]int)}

	var st *store.Store[*tick]
	p := root.Mount(nil, "provider", func() {
		st = provider.Render(store.Props[struct{}]{})
	})

	comps := make([]*vango.Component, readers)
	for i := range comps {
		comps[i] = root.Mount(p, fmt.Sprintf("reader-%d", i), func() {
			n := store.Select(consumer, func(t *tick) int { return t.N })
			vango.UseEffect(func() vango.Cleanup {
				c := root.Commits()
				res.Values[c] = append(res.Values[c], n)
				return nil
			})
		})
	}
	if err := root.Flush(); err != nil {
		return nil, err
	}

	for i := 1; i <= updates; i++ {
		next := i
		midPass = func() {
			st.Update(&tick{N: next})
			st.Notify()
		}
		for _, c := range comps {
			c.MarkDirty()
		}
		if err := root.Flush(); err != nil {
			return nil, err
		}
	}

	res.Commits = root.Commits()
	for c, vs := range res.Values {
		for _, v := range vs[1:] {
			if v != vs[0] {
				res.Torn = append(res.Torn, c)
				break
			}
		}
	}
	sort.Slice(res.Torn, func(i, j int) bool { return res.Torn[i] < res.Torn[j] })

	return res, nil
}

func printMetrics(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}

	fmt.Println()
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fmt.Printf("  %s{%s} %g\n", mf.GetName(), labels(m), value(mf.GetType(), m))
		}
	}
	return nil
}

func labels(m *dto.Metric) string {
	parts := make([]string, 0, len(m.GetLabel()))
	for _, l := range m.GetLabel() {
		parts = append(parts, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
	}
	return strings.Join(parts, ",")
}

func value(t dto.MetricType, m *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	case dto.MetricType_HISTOGRAM:
		return float64(m.GetHistogram().GetSampleCount())
	default:
		return 0
	}
}
