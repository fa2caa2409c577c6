package paginate

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeControl struct {
	invoked atomic.Int32
	stale   bool
}

func (c *fakeControl) Invoke() bool {
	c.invoked.Add(1)
	return !c.stale
}

type chanScroller struct {
	ch chan struct{}
}

func newChanScroller() *chanScroller {
	return &chanScroller{ch: make(chan struct{}, 128)}
}

func (s *chanScroller) Scroll() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

type fakeAffordance struct {
	mu    sync.Mutex
	shows int
	hides int
}

func (a *fakeAffordance) Show() {
	a.mu.Lock()
	a.shows++
	a.mu.Unlock()
}

func (a *fakeAffordance) Hide() {
	a.mu.Lock()
	a.hides++
	a.mu.Unlock()
}

func (a *fakeAffordance) counts() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.shows, a.hides
}

// quiet builds a controller whose scroll loop never fires during the test.
func quiet(aff Affordance) *Controller {
	return NewController(nil, aff, time.Hour)
}

func TestController_StartsIdle(t *testing.T) {
	c := quiet(nil)
	assert.False(t, c.Active())
	assert.False(t, c.HasPending())
	assert.False(t, c.CancelVisible())
}

func TestController_EngageShowsAffordanceOnce(t *testing.T) {
	aff := &fakeAffordance{}
	c := quiet(aff)

	c.Engage()
	assert.True(t, c.Active())
	assert.True(t, c.CancelVisible())

	// A second engage while continuing must not re-show the affordance.
	c.Engage()
	shows, hides := aff.counts()
	assert.Equal(t, 1, shows)
	assert.Equal(t, 0, hides)

	c.Cancel()
	assert.False(t, c.Active())
	assert.False(t, c.CancelVisible())
	shows, hides = aff.counts()
	assert.Equal(t, 1, shows)
	assert.Equal(t, 1, hides)
}

func TestController_TriggerContinueIsSingleUse(t *testing.T) {
	c := quiet(nil)
	ctl := &fakeControl{}

	c.OnControlAdded(ctl)
	require.True(t, c.HasPending())

	c.TriggerContinue()
	assert.Equal(t, int32(1), ctl.invoked.Load())
	assert.False(t, c.HasPending(), "the pending control must be cleared after use")

	// Without a fresh control nothing fires.
	c.TriggerContinue()
	assert.Equal(t, int32(1), ctl.invoked.Load())
}

func TestController_TriggerContinueWithoutPending(t *testing.T) {
	c := quiet(nil)
	c.TriggerContinue() // must not panic
	assert.False(t, c.HasPending())
}

func TestController_NewControlReplacesPending(t *testing.T) {
	c := quiet(nil)
	old := &fakeControl{}
	fresh := &fakeControl{}

	c.OnControlAdded(old)
	c.OnControlAdded(fresh)
	c.TriggerContinue()

	assert.Equal(t, int32(0), old.invoked.Load())
	assert.Equal(t, int32(1), fresh.invoked.Load())
}

func TestController_StaleControlIsSilent(t *testing.T) {
	c := quiet(nil)
	ctl := &fakeControl{stale: true}

	c.OnControlAdded(ctl)
	c.TriggerContinue() // stale result is swallowed, not an error

	assert.Equal(t, int32(1), ctl.invoked.Load())
	assert.False(t, c.HasPending())
}

func TestController_CancelKeepsPendingControl(t *testing.T) {
	c := quiet(nil)
	ctl := &fakeControl{}

	c.OnControlAdded(ctl)
	c.Engage()
	c.Cancel()

	assert.False(t, c.Active())
	assert.True(t, c.HasPending(), "cancel must not discard the control; the user can engage again")

	c.Engage()
	c.TriggerContinue()
	assert.Equal(t, int32(1), ctl.invoked.Load())
}

func TestController_ResetReturnsToIdle(t *testing.T) {
	aff := &fakeAffordance{}
	c := quiet(aff)

	c.Engage()
	c.Reset()
	assert.False(t, c.Active())
	assert.False(t, c.CancelVisible())

	// Redundant resets are safe.
	c.Reset()
	_, hides := aff.counts()
	assert.Equal(t, 1, hides)
}

func TestController_ScrollLoopEmitsWhileActive(t *testing.T) {
	scroller := newChanScroller()
	c := NewController(scroller, nil, 5*time.Millisecond)

	c.Engage()

	for i := 0; i < 3; i++ {
		select {
		case <-scroller.ch:
		case <-time.After(time.Second):
			t.Fatalf("no scroll signal %d within a second", i+1)
		}
	}

	c.Cancel()

	// Let the loop observe the cleared flag, then drain any in-flight signal.
	time.Sleep(50 * time.Millisecond)
	for {
		select {
		case <-scroller.ch:
			continue
		default:
		}
		break
	}

	select {
	case <-scroller.ch:
		t.Fatal("scroll signal after cancel")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestController_ScrollLoopRestartsAfterReengage(t *testing.T) {
	scroller := newChanScroller()
	c := NewController(scroller, nil, 5*time.Millisecond)

	c.Engage()
	select {
	case <-scroller.ch:
	case <-time.After(time.Second):
		t.Fatal("no scroll signal after first engage")
	}

	c.Cancel()
	time.Sleep(50 * time.Millisecond)
	for {
		select {
		case <-scroller.ch:
			continue
		default:
		}
		break
	}

	c.Engage()
	deadline := time.After(time.Second)
	for {
		select {
		case <-scroller.ch:
			return
		case <-deadline:
			t.Fatal("no scroll signal after re-engage")
		}
	}
}
