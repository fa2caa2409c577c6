package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/daehyun-ko/feedsweep/internal/filter"
	"github.com/daehyun-ko/feedsweep/internal/pipeline"
)

// RunConfig holds configuration for the dashboard pipeline.
type RunConfig struct {
	Pipeline *pipeline.Config
	Target   int
}

// Run starts the dashboard over a live sweep. Blocks until the user quits.
func Run(ctx context.Context, cfg *RunConfig) error {
	// Cancellable context so the source stops when the dashboard exits.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(cfg.Pipeline.Controller, cfg.Pipeline.Stats, cfg.Target, cfg.Pipeline.Source.Name())
	program := tea.NewProgram(model, tea.WithAltScreen())

	cfg.Pipeline.OnRecord = func(r filter.Record) {
		program.Send(RecordMsg(r))
	}
	cfg.Pipeline.OnControl = func() {
		program.Send(ControlMsg{})
	}
	cfg.Pipeline.OnStarve = func(streak int) {
		program.Send(StarveMsg{Streak: streak})
	}

	co, err := pipeline.NewCoordinator(cfg.Pipeline)
	if err != nil {
		return err
	}

	ch, err := cfg.Pipeline.Source.Start(ctx)
	if err != nil {
		return fmt.Errorf("tui: start source: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for b := range ch {
			if err := co.OnBatch(b); err != nil {
				cfg.Pipeline.Log.Error("batch processing failed", "error", err)
				break
			}
		}
		co.Finish()
		program.Send(DoneMsg{})
	}()

	_, err = program.Run()

	// Ensure the source is stopped and the consumer finishes.
	cancel()
	cfg.Pipeline.Controller.Reset()
	wg.Wait()

	return err
}
