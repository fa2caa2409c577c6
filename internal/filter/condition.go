package filter

import (
	"fmt"
	"strings"

	"github.com/daehyun-ko/feedsweep/internal/entry"
)

// Condition identifies one removal criterion. The set is closed: every
// Condition maps to a predicate through an exhaustive switch, so adding or
// removing one is a compile-time change rather than a lookup-table edit.
type Condition int

const (
	CondUncommented Condition = iota
	CondUnliked
	CondTextOnly
	CondHasImage
	CondHasVideo
	CondContainsStrings

	condCount // sentinel, keep last
)

// String returns the configuration identifier of a Condition.
func (c Condition) String() string {
	switch c {
	case CondUncommented:
		return "uncommented"
	case CondUnliked:
		return "unliked"
	case CondTextOnly:
		return "textOnly"
	case CondHasImage:
		return "hasImage"
	case CondHasVideo:
		return "hasVideo"
	case CondContainsStrings:
		return "containsStrings"
	default:
		return fmt.Sprintf("condition(%d)", int(c))
	}
}

// ParseCondition converts a configuration identifier to a Condition.
// Identifiers are matched case-insensitively.
func ParseCondition(s string) (Condition, error) {
	switch strings.ToLower(s) {
	case "uncommented":
		return CondUncommented, nil
	case "unliked":
		return CondUnliked, nil
	case "textonly", "text_only":
		return CondTextOnly, nil
	case "hasimage", "has_image":
		return CondHasImage, nil
	case "hasvideo", "has_video":
		return CondHasVideo, nil
	case "containsstrings", "contains_strings":
		return CondContainsStrings, nil
	default:
		return 0, fmt.Errorf("unknown condition %q", s)
	}
}

// raw evaluates the plain, non-reversed predicate of a primitive condition.
// Missing indicators count as zero, so absence reads as uncommented/unliked.
func (c Condition) raw(e entry.Entry) bool {
	switch c {
	case CondUncommented:
		return e.CommentCount() == 0
	case CondUnliked:
		return e.LikeCount() == 0
	case CondTextOnly:
		return e.IsMessage() && !e.HasImage() && !e.HasVideo()
	case CondHasImage:
		return e.HasImage()
	case CondHasVideo:
		return e.HasVideo()
	default:
		// CondContainsStrings is evaluated by the Evaluator against its
		// configured pattern set, never through raw.
		return false
	}
}
