package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daehyun-ko/feedsweep/internal/entry"
	"github.com/daehyun-ko/feedsweep/internal/filter"
	"github.com/daehyun-ko/feedsweep/internal/monitor"
	"github.com/daehyun-ko/feedsweep/internal/paginate"
	"github.com/daehyun-ko/feedsweep/internal/sink"
	"github.com/daehyun-ko/feedsweep/internal/source"
)

type fakeControl struct {
	invoked atomic.Int32
}

func (c *fakeControl) Invoke() bool {
	c.invoked.Add(1)
	return true
}

type memorySink struct {
	mu      sync.Mutex
	records []filter.Record
	flushed bool
	closed  bool
	err     error
}

func (s *memorySink) Write(r filter.Record) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	s.records = append(s.records, r)
	s.mu.Unlock()
	return nil
}

func (s *memorySink) Flush() error { s.flushed = true; return nil }
func (s *memorySink) Close() error { s.closed = true; return nil }
func (s *memorySink) Name() string { return "memory" }

func (s *memorySink) all() []filter.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]filter.Record(nil), s.records...)
}

var _ sink.Sink = (*memorySink)(nil)

func mustEvaluator(t *testing.T, rules filter.Rules, opts filter.Options) *filter.Evaluator {
	t.Helper()
	ev, err := filter.NewEvaluator(rules, opts)
	require.NoError(t, err)
	return ev
}

// quietController builds a controller whose scroll loop never ticks during
// the test.
func quietController() *paginate.Controller {
	return paginate.NewController(nil, nil, time.Hour)
}

func msg(body string, comments int) *entry.Item {
	return &entry.Item{Body: body, Comments: comments, Kind: entry.KindMessage}
}

func TestNewCoordinator_Validation(t *testing.T) {
	ev := mustEvaluator(t, filter.Rules{}, filter.Options{TargetCount: 1})
	ctrl := quietController()

	_, err := NewCoordinator(&Config{Controller: ctrl, TargetCount: 1})
	assert.Error(t, err, "missing evaluator must be rejected")

	_, err = NewCoordinator(&Config{Evaluator: ev, TargetCount: 1})
	assert.Error(t, err, "missing controller must be rejected")

	_, err = NewCoordinator(&Config{Evaluator: ev, Controller: ctrl, TargetCount: 0})
	assert.Error(t, err, "non-positive target must be rejected")
}

func TestOnBatch_AutoContinuesBelowTarget(t *testing.T) {
	ev := mustEvaluator(t, filter.Rules{Uncommented: true}, filter.Options{TargetCount: 2})
	ctrl := quietController()
	stats := monitor.NewStats()
	mem := &memorySink{}

	co, err := NewCoordinator(&Config{
		Evaluator:   ev,
		Controller:  ctrl,
		TargetCount: 2,
		AutoEngage:  true,
		Stats:       stats,
		Sinks:       []sink.Sink{mem},
	})
	require.NoError(t, err)

	ctl := &fakeControl{}
	batch := source.Batch{Seq: 1, Nodes: []source.Node{
		msg("first", 0),
		msg("second", 3),
		msg("third", 0),
		ctl,
	}}
	require.NoError(t, co.OnBatch(batch))

	// One survivor out of three, below target: the control must be invoked
	// and the survived count carried into the next batch.
	assert.Equal(t, int32(1), ctl.invoked.Load())
	assert.True(t, ctrl.Active())
	assert.Equal(t, 1, ev.Survived())

	assert.Equal(t, uint64(3), stats.Entries())
	assert.Equal(t, uint64(1), stats.Kept())
	assert.Equal(t, uint64(2), stats.Removed())
	assert.Equal(t, uint64(1), stats.Pages())

	require.Len(t, mem.all(), 3)
	assert.Equal(t, filter.Remove, mem.all()[0].Decision.Verdict)
	assert.Equal(t, filter.Keep, mem.all()[1].Decision.Verdict)
}

func TestOnBatch_TargetMetResetsBoth(t *testing.T) {
	ev := mustEvaluator(t, filter.Rules{Uncommented: true}, filter.Options{TargetCount: 2})
	ctrl := quietController()
	starve := monitor.NewStarveGuard(3)

	co, err := NewCoordinator(&Config{
		Evaluator:   ev,
		Controller:  ctrl,
		TargetCount: 2,
		AutoEngage:  true,
		Starve:      starve,
	})
	require.NoError(t, err)

	ctl := &fakeControl{}
	batch := source.Batch{Seq: 1, Nodes: []source.Node{
		msg("a", 1),
		msg("b", 2),
		ctl,
	}}
	require.NoError(t, co.OnBatch(batch))

	// Target reached: no continue, and both the survived count and the
	// controller state reset together.
	assert.Equal(t, int32(0), ctl.invoked.Load())
	assert.Equal(t, 0, ev.Survived())
	assert.False(t, ctrl.Active())
	assert.Equal(t, 0, starve.Streak())
}

func TestOnBatch_NoContinueWhenIdle(t *testing.T) {
	ev := mustEvaluator(t, filter.Rules{Uncommented: true}, filter.Options{TargetCount: 5})
	ctrl := quietController()

	co, err := NewCoordinator(&Config{
		Evaluator:   ev,
		Controller:  ctrl,
		TargetCount: 5,
	})
	require.NoError(t, err)

	ctl := &fakeControl{}
	batch := source.Batch{Seq: 1, Nodes: []source.Node{msg("a", 0), ctl}}
	require.NoError(t, co.OnBatch(batch))

	// Below target but the user never engaged: pagination stays idle and the
	// survived count resets.
	assert.Equal(t, int32(0), ctl.invoked.Load())
	assert.Equal(t, 0, ev.Survived())
	assert.False(t, ctrl.Active())
}

func TestOnBatch_StarveWarningFires(t *testing.T) {
	ev := mustEvaluator(t, filter.Rules{Uncommented: true}, filter.Options{TargetCount: 5})
	ctrl := quietController()

	var starved atomic.Int32
	co, err := NewCoordinator(&Config{
		Evaluator:   ev,
		Controller:  ctrl,
		TargetCount: 5,
		AutoEngage:  true,
		Starve:      monitor.NewStarveGuard(2),
		OnStarve: func(streak int) {
			starved.Store(int32(streak))
		},
	})
	require.NoError(t, err)

	for seq := 1; seq <= 2; seq++ {
		batch := source.Batch{Seq: seq, Nodes: []source.Node{
			msg("nope", 0),
			&fakeControl{},
		}}
		require.NoError(t, co.OnBatch(batch))
	}

	assert.Equal(t, int32(2), starved.Load(), "second zero-survivor batch must trip the guard")
}

func TestOnBatch_SinkErrorAborts(t *testing.T) {
	ev := mustEvaluator(t, filter.Rules{}, filter.Options{TargetCount: 1})
	ctrl := quietController()
	broken := &memorySink{err: errors.New("disk full")}

	co, err := NewCoordinator(&Config{
		Evaluator:   ev,
		Controller:  ctrl,
		TargetCount: 1,
		Sinks:       []sink.Sink{broken},
	})
	require.NoError(t, err)

	err = co.OnBatch(source.Batch{Seq: 1, Nodes: []source.Node{msg("a", 0)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memory")
}

func TestOnBatch_IgnoresUnknownNodes(t *testing.T) {
	ev := mustEvaluator(t, filter.Rules{}, filter.Options{TargetCount: 1})
	ctrl := quietController()
	stats := monitor.NewStats()

	co, err := NewCoordinator(&Config{Evaluator: ev, Controller: ctrl, TargetCount: 1, Stats: stats})
	require.NoError(t, err)

	err = co.OnBatch(source.Batch{Seq: 1, Nodes: []source.Node{42, "stray", msg("ok", 0)}})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.Entries(), "only the entry node is evaluated")
	assert.Equal(t, uint64(1), stats.Kept())
}

func TestRun_ReplayFeedEndToEnd(t *testing.T) {
	feed := source.FeedSpec{Pages: []source.PageSpec{
		{
			Entries: []source.ItemSpec{
				{Body: "quiet one", Comments: 0},
				{Body: "discussed", Comments: 4},
			},
			LoadMore: true,
		},
		{
			Entries: []source.ItemSpec{
				{Body: "last page", Comments: 2},
			},
		},
	}}

	ev := mustEvaluator(t, filter.Rules{Uncommented: true}, filter.Options{TargetCount: 5})
	ctrl := quietController()
	stats := monitor.NewStats()
	mem := &memorySink{}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := Run(ctx, &Config{
		Source:      source.NewReplayFeed("test", feed),
		Evaluator:   ev,
		Controller:  ctrl,
		TargetCount: 5,
		AutoEngage:  true,
		Stats:       stats,
		Sinks:       []sink.Sink{mem},
	})
	require.NoError(t, err)

	// Both pages consumed: the auto-continue invoked the first page's
	// control, the second page ends the feed.
	assert.Equal(t, uint64(3), stats.Entries())
	assert.Equal(t, uint64(2), stats.Kept())
	assert.Equal(t, uint64(1), stats.Removed())
	assert.False(t, ctrl.Active())

	records := mem.all()
	require.Len(t, records, 3)
	assert.Equal(t, "quiet one", records[0].Entry.Text())
	assert.Equal(t, filter.Remove, records[0].Decision.Verdict)
	assert.Equal(t, "last page", records[2].Entry.Text())

	assert.True(t, mem.flushed, "Run must flush sinks on exit")
	assert.True(t, mem.closed, "Run must close sinks on exit")
}

func TestRun_LazyControlRevealedByScrollLoop(t *testing.T) {
	feed := source.FeedSpec{Pages: []source.PageSpec{
		{
			Entries:  []source.ItemSpec{{Body: "page one", Comments: 0}},
			LoadMore: true,
			Lazy:     true,
		},
		{
			Entries: []source.ItemSpec{{Body: "page two", Comments: 0}},
		},
	}}

	src := source.NewReplayFeed("lazy", feed)
	ev := mustEvaluator(t, filter.Rules{Uncommented: true}, filter.Options{TargetCount: 5})
	ctrl := paginate.NewController(src, nil, 5*time.Millisecond)
	stats := monitor.NewStats()

	// The lazy page exposes its control only after a scroll signal, so the
	// sweep is engaged up front the way a user click would.
	ctrl.Engage()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := Run(ctx, &Config{
		Source:      src,
		Evaluator:   ev,
		Controller:  ctrl,
		TargetCount: 5,
		Stats:       stats,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(2), stats.Entries(), "both pages must be reached through the lazy control")
	assert.False(t, ctrl.Active())
}
