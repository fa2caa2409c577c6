// Package entry defines the feed Entry abstraction evaluated by the sweeper.
package entry

import (
	"fmt"
	"strings"
)

// Kind classifies what a feed entry primarily is.
type Kind int

const (
	KindUnknown Kind = iota
	KindMessage
	KindShare
	KindActivity
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindShare:
		return "share"
	case KindActivity:
		return "activity"
	default:
		return "unknown"
	}
}

// ParseKind converts a string to a Kind. Case-insensitive.
func ParseKind(s string) Kind {
	switch strings.ToLower(s) {
	case "message", "msg", "text", "post":
		return KindMessage
	case "share", "shared", "repost":
		return KindShare
	case "activity", "event":
		return KindActivity
	default:
		return KindUnknown
	}
}

// Entry is the capability set the evaluator needs from one feed item.
// Implementations report 0 for a count whose indicator is absent; every
// method is total, so predicates built on top never fail per-entry.
type Entry interface {
	// Text returns the visible text content of the entry.
	Text() string

	// CommentCount returns the number of replies, 0 if no indicator exists.
	CommentCount() int

	// LikeCount returns the number of likes, 0 if no indicator exists.
	LikeCount() int

	// HasImage reports whether the entry carries image content.
	HasImage() bool

	// HasVideo reports whether the entry carries a video element or an
	// embedded video-service marker.
	HasVideo() bool

	// IsMessage reports whether the entry is classified as text/message
	// content.
	IsMessage() bool

	// Detach removes the entry from the page. Idempotent.
	Detach()
}

// Item is the synthetic Entry used by replay fixtures, parsed stdin nodes,
// and tests.
type Item struct {
	ID       string
	Body     string
	Comments int
	Likes    int
	Image    bool
	Video    bool
	Kind     Kind
	Seq      uint64

	detached bool
}

// Text returns the entry body.
func (it *Item) Text() string { return it.Body }

// CommentCount returns the reply count.
func (it *Item) CommentCount() int { return it.Comments }

// LikeCount returns the like count.
func (it *Item) LikeCount() int { return it.Likes }

// HasImage reports image presence.
func (it *Item) HasImage() bool { return it.Image }

// HasVideo reports video presence.
func (it *Item) HasVideo() bool { return it.Video }

// IsMessage reports whether the item is text/message content.
func (it *Item) IsMessage() bool { return it.Kind == KindMessage }

// Detach marks the item as removed from the page.
func (it *Item) Detach() { it.detached = true }

// Detached reports whether Detach has been called.
func (it *Item) Detached() bool { return it.detached }

// Format returns a one-line representation used by sinks and the dashboard.
func (it *Item) Format() string {
	media := ""
	if it.Image {
		media += " image"
	}
	if it.Video {
		media += " video"
	}
	return fmt.Sprintf("[%s] comments=%d likes=%d%s: %s",
		it.Kind, it.Comments, it.Likes, media, it.Body)
}
