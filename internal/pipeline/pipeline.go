// Package pipeline coordinates the sweep: it consumes node batches from a
// source, routes entries to the evaluator and controls to the pagination
// controller, and decides after each batch whether to keep paginating.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/daehyun-ko/feedsweep/internal/buffer"
	"github.com/daehyun-ko/feedsweep/internal/entry"
	"github.com/daehyun-ko/feedsweep/internal/filter"
	"github.com/daehyun-ko/feedsweep/internal/monitor"
	"github.com/daehyun-ko/feedsweep/internal/paginate"
	"github.com/daehyun-ko/feedsweep/internal/sink"
	"github.com/daehyun-ko/feedsweep/internal/source"
)

// Config holds the collaborators of one sweep.
type Config struct {
	Source      source.Source
	Evaluator   *filter.Evaluator
	Controller  *paginate.Controller
	TargetCount int

	// AutoEngage stands in for the user's click on the first load-more
	// control that appears (headless runs have no one to click it).
	AutoEngage bool

	Stats  *monitor.Stats
	Starve *monitor.StarveGuard
	Sinks  []sink.Sink
	Ring   *buffer.Ring // optional, feeds the dashboard
	Log    *slog.Logger

	// OnRecord, OnControl, and OnStarve are optional hooks for a frontend
	// observing the sweep (the dashboard uses them to receive messages).
	OnRecord  func(filter.Record)
	OnControl func()
	OnStarve  func(streak int)
}

// Coordinator processes node batches one at a time. It is not safe for
// concurrent OnBatch calls; one consumer goroutine drives it.
type Coordinator struct {
	cfg     *Config
	engaged bool
}

// NewCoordinator validates the wiring and returns a batch coordinator.
func NewCoordinator(cfg *Config) (*Coordinator, error) {
	if cfg.Evaluator == nil {
		return nil, fmt.Errorf("pipeline: evaluator is required")
	}
	if cfg.Controller == nil {
		return nil, fmt.Errorf("pipeline: controller is required")
	}
	if cfg.TargetCount <= 0 {
		return nil, fmt.Errorf("pipeline: target count must be positive, got %d", cfg.TargetCount)
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &Coordinator{cfg: cfg}, nil
}

// OnBatch routes one notification batch and then decides whether to request
// another page or to reset the evaluator count and the controller together.
func (co *Coordinator) OnBatch(b source.Batch) error {
	cfg := co.cfg
	before := cfg.Evaluator.Survived()

	for _, n := range b.Nodes {
		switch node := n.(type) {
		case entry.Entry:
			if err := co.handleEntry(node); err != nil {
				return err
			}
		case paginate.Control:
			co.handleControl(node)
		default:
			cfg.Log.Warn("ignoring node of unknown type", "batch", b.Seq, "node", fmt.Sprintf("%T", n))
		}
	}

	survived := cfg.Evaluator.Survived()
	if survived < cfg.TargetCount && cfg.Controller.Active() {
		if cfg.Starve != nil && cfg.Starve.Record(survived-before) {
			streak := cfg.Starve.Streak()
			cfg.Log.Warn("no entries surviving while auto-continuing",
				"streak", streak, "survived", survived, "target", cfg.TargetCount)
			if cfg.OnStarve != nil {
				cfg.OnStarve(streak)
			}
		}
		if cfg.Stats != nil {
			cfg.Stats.RecordPage()
		}
		cfg.Log.Debug("auto-continue", "batch", b.Seq, "survived", survived, "target", cfg.TargetCount)
		cfg.Controller.TriggerContinue()
		return nil
	}

	cfg.Log.Debug("stopping pagination", "batch", b.Seq, "survived", survived, "target", cfg.TargetCount)
	cfg.Evaluator.ResetSurvived()
	cfg.Controller.Reset()
	if cfg.Starve != nil {
		cfg.Starve.Reset()
	}
	return nil
}

func (co *Coordinator) handleEntry(e entry.Entry) error {
	cfg := co.cfg
	if cfg.Stats != nil {
		cfg.Stats.RecordEntry()
	}

	d := cfg.Evaluator.Decide(e)
	if cfg.Stats != nil {
		if d.Verdict == filter.Remove {
			cfg.Stats.RecordRemoved()
		} else {
			cfg.Stats.RecordKept()
		}
	}

	rec := filter.Record{Time: time.Now(), Entry: e, Decision: d}
	if cfg.Ring != nil {
		cfg.Ring.Push(rec)
	}
	for _, s := range cfg.Sinks {
		if err := s.Write(rec); err != nil {
			return fmt.Errorf("pipeline: write to %s: %w", s.Name(), err)
		}
	}
	if cfg.OnRecord != nil {
		cfg.OnRecord(rec)
	}
	return nil
}

func (co *Coordinator) handleControl(ctl paginate.Control) {
	cfg := co.cfg
	cfg.Controller.OnControlAdded(ctl)
	if cfg.AutoEngage && !co.engaged {
		co.engaged = true
		cfg.Log.Info("auto-engaging pagination")
		cfg.Controller.Engage()
	}
	if cfg.OnControl != nil {
		cfg.OnControl()
	}
}

// Finish flushes and closes the sinks.
func (co *Coordinator) Finish() {
	for _, s := range co.cfg.Sinks {
		_ = s.Flush()
		_ = s.Close()
	}
}

// Run executes the sweep headlessly: reads batches from the source until it
// is exhausted or ctx is cancelled. Blocks for the duration of the sweep.
func Run(ctx context.Context, cfg *Config) error {
	if cfg.Source == nil {
		return fmt.Errorf("pipeline: source is required")
	}
	co, err := NewCoordinator(cfg)
	if err != nil {
		return err
	}

	ch, err := cfg.Source.Start(ctx)
	if err != nil {
		return fmt.Errorf("pipeline: start source: %w", err)
	}

	for b := range ch {
		if err := co.OnBatch(b); err != nil {
			co.Finish()
			return err
		}
	}

	co.Finish()
	cfg.Controller.Reset()
	return nil
}
