package monitor

import "sync"

// StarveGuard tracks consecutive auto-continued batches in which no entry
// survived. A long streak means the filter is discarding everything the
// feed produces, which the sweep surfaces as a warning; stopping remains
// the user's decision.
type StarveGuard struct {
	mu        sync.Mutex
	threshold int
	streak    int
}

// NewStarveGuard creates a guard that flags after threshold consecutive
// zero-survivor batches. A non-positive threshold defaults to 5.
func NewStarveGuard(threshold int) *StarveGuard {
	if threshold <= 0 {
		threshold = 5
	}
	return &StarveGuard{threshold: threshold}
}

// Record notes the survivor count of one batch.
// Returns true exactly when the streak reaches the threshold.
func (g *StarveGuard) Record(kept int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if kept > 0 {
		g.streak = 0
		return false
	}
	g.streak++
	return g.streak == g.threshold
}

// Streak returns the current zero-survivor streak.
func (g *StarveGuard) Streak() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.streak
}

// Reset clears the streak.
func (g *StarveGuard) Reset() {
	g.mu.Lock()
	g.streak = 0
	g.mu.Unlock()
}
