package filter

import (
	"time"

	"github.com/daehyun-ko/feedsweep/internal/entry"
)

// Record pairs an evaluated entry with its decision, as consumed by sinks
// and the dashboard's recent-decision buffer.
type Record struct {
	Time     time.Time
	Entry    entry.Entry
	Decision Decision
}
