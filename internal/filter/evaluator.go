// Package filter implements the condition evaluation engine: it combines
// primitive conditions, the contains-strings condition, and linked condition
// groups into one keep/remove decision per feed entry.
package filter

import (
	"fmt"
	"strings"

	"github.com/daehyun-ko/feedsweep/internal/entry"
)

// Verdict is the outcome of evaluating one entry.
type Verdict int

const (
	// Keep leaves the entry on the page and counts it as survived.
	Keep Verdict = iota
	// Remove detaches the entry from the page.
	Remove
)

// String returns the string representation of a Verdict.
func (v Verdict) String() string {
	if v == Remove {
		return "remove"
	}
	return "keep"
}

// Decision is the result of Evaluator.Decide, carrying the verdict and the
// condition or linked group that caused a removal.
type Decision struct {
	Verdict Verdict
	Reason  string
}

// Rules holds the per-condition enable flags. The contains-strings condition
// is enabled by a non-empty pattern set instead of a boolean.
type Rules struct {
	Uncommented     bool
	Unliked         bool
	TextOnly        bool
	HasImage        bool
	HasVideo        bool
	ContainsStrings StringSet
}

// enabled reports whether a condition participates at all under these rules.
func (r Rules) enabled(c Condition) bool {
	switch c {
	case CondUncommented:
		return r.Uncommented
	case CondUnliked:
		return r.Unliked
	case CondTextOnly:
		return r.TextOnly
	case CondHasImage:
		return r.HasImage
	case CondHasVideo:
		return r.HasVideo
	case CondContainsStrings:
		return !r.ContainsStrings.Empty()
	default:
		return false
	}
}

// Options holds evaluation options shared by all conditions.
type Options struct {
	TargetCount   int
	CaseSensitive bool
	Reversed      bool
	LinkedGroups  [][]Condition
}

// Evaluator produces keep/remove decisions and tracks how many entries
// survived since the last reset. It is driven by a single coordinator
// goroutine and holds no locks.
type Evaluator struct {
	rules    Rules
	opts     Options
	grouped  map[Condition]bool
	survived int
}

// NewEvaluator builds an evaluator from validated rules and options.
// Linked group membership claims a condition away from independent
// evaluation; a condition appearing in more than one group is rejected.
func NewEvaluator(rules Rules, opts Options) (*Evaluator, error) {
	grouped := make(map[Condition]bool)
	for _, group := range opts.LinkedGroups {
		if len(group) == 0 {
			return nil, fmt.Errorf("empty linked condition group")
		}
		for _, c := range group {
			if grouped[c] {
				return nil, fmt.Errorf("condition %s appears in more than one linked group", c)
			}
			grouped[c] = true
		}
	}
	return &Evaluator{
		rules:   rules,
		opts:    opts,
		grouped: grouped,
	}, nil
}

// Decide evaluates one entry. On Remove the entry is detached from the page
// and not counted; on Keep the survived count is incremented.
func (ev *Evaluator) Decide(e entry.Entry) Decision {
	d := ev.evaluate(e)
	if d.Verdict == Remove {
		e.Detach()
	} else {
		ev.survived++
	}
	return d
}

// Survived returns the number of entries kept since the last reset.
func (ev *Evaluator) Survived() int { return ev.survived }

// ResetSurvived sets the survived count back to zero.
func (ev *Evaluator) ResetSurvived() { ev.survived = 0 }

// Reversed reports whether reversed mode is active.
func (ev *Evaluator) Reversed() bool { return ev.opts.Reversed }

func (ev *Evaluator) evaluate(e entry.Entry) Decision {
	// Linked groups short-circuit independent evaluation. Members evaluate
	// in their raw sense; reversal only switches the combinator from all-of
	// to any-of.
	for _, group := range ev.opts.LinkedGroups {
		if ev.groupMatches(group, e) {
			return Decision{Verdict: Remove, Reason: "linked:" + groupName(group)}
		}
	}

	if ev.opts.Reversed {
		return ev.evaluateReversedIndependent(e)
	}
	return ev.evaluateIndependent(e)
}

// evaluateIndependent removes the entry when any enabled, ungrouped
// condition holds.
func (ev *Evaluator) evaluateIndependent(e entry.Entry) Decision {
	for c := Condition(0); c < condCount; c++ {
		if !ev.participates(c) {
			continue
		}
		if ev.holds(c, e) {
			return Decision{Verdict: Remove, Reason: c.String()}
		}
	}
	return Decision{Verdict: Keep}
}

// evaluateReversedIndependent removes the entry only when every enabled,
// ungrouped condition holds in its reversed sense. With no participating
// conditions nothing is ever removed.
func (ev *Evaluator) evaluateReversedIndependent(e entry.Entry) Decision {
	participated := false
	for c := Condition(0); c < condCount; c++ {
		if !ev.participates(c) {
			continue
		}
		participated = true
		if !ev.holds(c, e) {
			return Decision{Verdict: Keep}
		}
	}
	if !participated {
		return Decision{Verdict: Keep}
	}
	return Decision{Verdict: Remove, Reason: "reversed"}
}

// participates reports whether a condition takes part in independent
// evaluation: enabled and not claimed by a linked group.
func (ev *Evaluator) participates(c Condition) bool {
	return ev.rules.enabled(c) && !ev.grouped[c]
}

// holds evaluates one condition in the current mode. Primitive conditions
// negate their raw predicate under reversal; contains-strings switches from
// any-group-matches to no-group-matches, and an empty pattern set never
// holds in either mode.
func (ev *Evaluator) holds(c Condition, e entry.Entry) bool {
	if c == CondContainsStrings {
		if ev.rules.ContainsStrings.Empty() {
			return false
		}
		matched := ev.rules.ContainsStrings.Match(e.Text(), ev.opts.CaseSensitive)
		if ev.opts.Reversed {
			return !matched
		}
		return matched
	}

	v := c.raw(e)
	if ev.opts.Reversed {
		return !v
	}
	return v
}

// groupMatches evaluates a linked group: all members raw-true when not
// reversed, any member raw-true when reversed. The string condition
// contributes its plain any-group-matches sense here.
func (ev *Evaluator) groupMatches(group []Condition, e entry.Entry) bool {
	for _, c := range group {
		v := ev.rawMember(c, e)
		if ev.opts.Reversed {
			if v {
				return true
			}
		} else if !v {
			return false
		}
	}
	return !ev.opts.Reversed
}

func (ev *Evaluator) rawMember(c Condition, e entry.Entry) bool {
	if c == CondContainsStrings {
		if ev.rules.ContainsStrings.Empty() {
			return false
		}
		return ev.rules.ContainsStrings.Match(e.Text(), ev.opts.CaseSensitive)
	}
	return c.raw(e)
}

func groupName(group []Condition) string {
	names := make([]string, len(group))
	for i, c := range group {
		names[i] = c.String()
	}
	return strings.Join(names, "+")
}
