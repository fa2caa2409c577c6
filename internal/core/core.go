// Package core wires configuration into a runnable sweep.
package core

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/daehyun-ko/feedsweep/internal/buffer"
	"github.com/daehyun-ko/feedsweep/internal/config"
	"github.com/daehyun-ko/feedsweep/internal/filter"
	"github.com/daehyun-ko/feedsweep/internal/logger"
	"github.com/daehyun-ko/feedsweep/internal/monitor"
	"github.com/daehyun-ko/feedsweep/internal/paginate"
	"github.com/daehyun-ko/feedsweep/internal/parser"
	"github.com/daehyun-ko/feedsweep/internal/pipeline"
	"github.com/daehyun-ko/feedsweep/internal/sink"
	"github.com/daehyun-ko/feedsweep/internal/source"
	"github.com/daehyun-ko/feedsweep/internal/tui"
	"github.com/daehyun-ko/feedsweep/internal/urlmatch"
)

// RunOptions selects the frontend and run behavior.
type RunOptions struct {
	TUI        bool
	AutoEngage bool
	ShowStats  bool
}

// Run validates the configuration, assembles the sweep, and executes it.
// A malformed configuration disables the run entirely and reports every
// violation at once.
func Run(ctx context.Context, cfg *config.Config, opts RunOptions) error {
	if problems := cfg.Validate(); len(problems) > 0 {
		return fmt.Errorf("configuration invalid, sweep disabled:\n  - %s",
			strings.Join(problems, "\n  - "))
	}

	logger.Configure(cfg.Logging.Level, cfg.Logging.Format, nil)
	log := logger.Get()

	if !urlmatch.Allowed(cfg.Feed.URL, cfg.RunOn) {
		log.Info("surface not allow-listed, sweep disabled",
			"url", cfg.Feed.URL, "surface", urlmatch.Surface(cfg.Feed.URL))
		return nil
	}

	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	fopts, err := cfg.FilterOptions()
	if err != nil {
		return err
	}
	evaluator, err := filter.NewEvaluator(rules, fopts)
	if err != nil {
		return err
	}

	src, err := buildSource(cfg)
	if err != nil {
		return err
	}

	// The replay source doubles as the scroll target so the controller's
	// passive-scroll loop can reveal lazily rendered controls.
	var scroller paginate.Scroller
	if s, ok := src.(paginate.Scroller); ok {
		scroller = s
	}

	affordance := paginate.Affordance(paginate.NopAffordance{})
	if !opts.TUI {
		affordance = paginate.AffordanceFunc{
			OnShow: func() { log.Info("cancel affordance shown") },
			OnHide: func() { log.Info("cancel affordance hidden") },
		}
	}

	controller := paginate.NewController(scroller, affordance, cfg.ScrollInterval())
	stats := monitor.NewStats()
	starve := monitor.NewStarveGuard(cfg.Options.StarveThreshold)

	pcfg := &pipeline.Config{
		Source:      src,
		Evaluator:   evaluator,
		Controller:  controller,
		TargetCount: cfg.Options.TargetCount,
		AutoEngage:  opts.AutoEngage,
		Stats:       stats,
		Starve:      starve,
		Log:         log,
	}

	if opts.TUI {
		// In dashboard mode stdout belongs to the TUI; only a file sink
		// makes sense.
		if cfg.Output.Path != "" {
			fs, err := sink.NewFileSink(cfg.Output.Path, cfg.Output.Format)
			if err != nil {
				return err
			}
			pcfg.Sinks = append(pcfg.Sinks, fs)
		}
		pcfg.Ring = buffer.NewRing(1024)
		return tui.Run(ctx, &tui.RunConfig{
			Pipeline: pcfg,
			Target:   cfg.Options.TargetCount,
		})
	}

	s, err := buildSink(cfg)
	if err != nil {
		return err
	}
	pcfg.Sinks = []sink.Sink{s}

	if err := pipeline.Run(ctx, pcfg); err != nil {
		return err
	}

	if opts.ShowStats {
		fmt.Println()
		fmt.Println(stats.Summary())
	}
	return nil
}

func buildSource(cfg *config.Config) (source.Source, error) {
	switch {
	case cfg.Feed.Path != "":
		return source.NewReplaySource(cfg.Feed.Path)
	case cfg.Feed.Stdin:
		p, err := parser.NewNodeParser(cfg.Feed.Pattern)
		if err != nil {
			return nil, err
		}
		return source.NewStdinSource(p), nil
	default:
		return nil, fmt.Errorf("no feed source configured: set feed.path or feed.stdin")
	}
}

func buildSink(cfg *config.Config) (sink.Sink, error) {
	if cfg.Output.Path != "" {
		return sink.NewFileSink(cfg.Output.Path, cfg.Output.Format)
	}
	if cfg.Output.Format == "json" {
		return sink.NewJSONSink(os.Stdout), nil
	}
	return sink.NewTerminalSink(os.Stdout, cfg.Output.Color), nil
}
