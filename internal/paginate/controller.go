// Package paginate drives the page's own "load more" control: it tracks the
// user's intent to keep paginating, emits passive scroll signals so lazily
// rendered controls keep appearing, and exposes the cancel affordance.
package paginate

import (
	"sync"
	"time"
)

// DefaultScrollInterval is the cadence of the passive scroll signal.
const DefaultScrollInterval = 100 * time.Millisecond

// Control is a handle to one "load more" control instance. Invoke triggers
// it and reports false when the control has gone stale (already used or
// removed from the page); staleness is expected under fast navigation and is
// never an error.
type Control interface {
	Invoke() bool
}

// Scroller receives the synthetic passive-scroll signal that keeps the host
// page's lazy rendering engaged.
type Scroller interface {
	Scroll()
}

// Affordance is the cancel control shown to the user while auto-continuing.
type Affordance interface {
	Show()
	Hide()
}

// NopAffordance ignores both signals.
type NopAffordance struct{}

func (NopAffordance) Show() {}
func (NopAffordance) Hide() {}

// AffordanceFunc adapts a pair of functions to the Affordance interface.
type AffordanceFunc struct {
	OnShow func()
	OnHide func()
}

func (a AffordanceFunc) Show() {
	if a.OnShow != nil {
		a.OnShow()
	}
}

func (a AffordanceFunc) Hide() {
	if a.OnHide != nil {
		a.OnHide()
	}
}

// Controller is the pagination state machine: Idle (inactive, no affordance)
// and Continuing (active, affordance shown, scroll loop ticking). Cancel
// moves Continuing back to Idle. State is shared between the coordinator
// goroutine, the scroll loop, and UI key handlers, so it is mutex-guarded.
type Controller struct {
	mu          sync.Mutex
	active      bool
	pending     Control
	cancelShown bool
	loopRunning bool

	interval   time.Duration
	scroller   Scroller
	affordance Affordance
}

// NewController creates an idle controller. A nil scroller disables the
// scroll loop's signal (ticks still run); a nil affordance is replaced by
// NopAffordance; a non-positive interval falls back to the default cadence.
func NewController(scroller Scroller, affordance Affordance, interval time.Duration) *Controller {
	if affordance == nil {
		affordance = NopAffordance{}
	}
	if interval <= 0 {
		interval = DefaultScrollInterval
	}
	return &Controller{
		interval:   interval,
		scroller:   scroller,
		affordance: affordance,
	}
}

// OnControlAdded records the newest "load more" control. Controls are
// single-use; each new page brings a fresh one.
func (c *Controller) OnControlAdded(ctl Control) {
	c.mu.Lock()
	c.pending = ctl
	c.mu.Unlock()
}

// Engage marks the user's own click on the load-more control: sets the
// active flag, shows the cancel affordance, and starts the scroll loop.
// Idempotent while already continuing.
func (c *Controller) Engage() {
	c.mu.Lock()
	c.active = true
	showAffordance := !c.cancelShown
	c.cancelShown = true
	startLoop := !c.loopRunning
	c.loopRunning = c.loopRunning || startLoop
	c.mu.Unlock()

	if showAffordance {
		c.affordance.Show()
	}
	if startLoop {
		go c.scrollLoop()
	}
}

// TriggerContinue invokes the pending control and clears it, so at most one
// continue fires per control instance. No-op without a pending control;
// silent when the control reports itself stale.
func (c *Controller) TriggerContinue() {
	c.mu.Lock()
	ctl := c.pending
	c.pending = nil
	c.mu.Unlock()

	if ctl != nil {
		ctl.Invoke()
	}
}

// Cancel handles the cancel affordance click: clears the active flag and
// hides the affordance. The pending control is kept so the user can engage
// again without waiting for a new one.
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.active = false
	hide := c.cancelShown
	c.cancelShown = false
	c.mu.Unlock()

	if hide {
		c.affordance.Hide()
	}
}

// Reset returns the controller to Idle. The scroll loop is left to observe
// the cleared flag on its next tick and stop itself, which makes Reset safe
// to call redundantly.
func (c *Controller) Reset() {
	c.Cancel()
}

// Active reports whether the user is still requesting more pages.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// HasPending reports whether an uninvoked control is held.
func (c *Controller) HasPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// CancelVisible reports whether the cancel affordance is currently shown.
func (c *Controller) CancelVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelShown
}

// scrollLoop emits one scroll signal per tick while active. The loop is
// self-cancelling: each tick checks the flag and the loop exits once it is
// cleared, instead of being stopped from outside.
func (c *Controller) scrollLoop() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		active := c.active
		if !active {
			c.loopRunning = false
		}
		c.mu.Unlock()

		if !active {
			return
		}
		if c.scroller != nil {
			c.scroller.Scroll()
		}
	}
}
