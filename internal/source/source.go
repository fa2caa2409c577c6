// Package source defines the Source interface and implementations that
// deliver batches of newly discovered feed nodes.
package source

import (
	"context"
)

// Node is one discovered feed node: either an entry.Entry or a
// paginate.Control. The coordinator partitions a batch by type.
type Node any

// Batch is one change-notification delivery, nodes in discovery order.
type Batch struct {
	Seq   int
	Nodes []Node
}

// Source observes a feed and emits node batches on a channel.
// Implementations must close the returned channel when the feed is
// exhausted or the context is cancelled.
type Source interface {
	// Start begins observing. The returned channel receives batches until
	// the feed is exhausted or ctx is cancelled; the implementation closes
	// the channel when done.
	Start(ctx context.Context) (<-chan Batch, error)

	// Name returns a human-readable identifier for this source.
	Name() string
}
