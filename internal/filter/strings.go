package filter

import (
	"fmt"
	"strings"
)

// StringSet is a normalized contains-strings pattern set: the outer slice is
// any-of over groups, each inner slice is all-of over substrings.
type StringSet [][]string

// Empty reports whether no pattern group is configured.
func (s StringSet) Empty() bool {
	for _, g := range s {
		if len(g) > 0 {
			return false
		}
	}
	return true
}

// Match reports whether any group has all of its substrings present in text.
func (s StringSet) Match(text string, caseSensitive bool) bool {
	if !caseSensitive {
		text = strings.ToLower(text)
	}
	for _, group := range s {
		if len(group) == 0 {
			continue
		}
		all := true
		for _, sub := range group {
			if !caseSensitive {
				sub = strings.ToLower(sub)
			}
			if !strings.Contains(text, sub) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// NormalizeStringSet converts the raw configuration form of contains-strings
// into a StringSet. The raw value is a sequence whose elements are either
// bare strings (each becomes a singleton all-of group) or sequences of
// strings (one all-of group per sequence).
func NormalizeStringSet(raw []any) (StringSet, error) {
	var set StringSet
	for i, v := range raw {
		switch t := v.(type) {
		case string:
			set = append(set, []string{t})
		case []any:
			group := make([]string, 0, len(t))
			for _, inner := range t {
				s, ok := inner.(string)
				if !ok {
					return nil, fmt.Errorf("contains_strings[%d]: group element %v is not a string", i, inner)
				}
				group = append(group, s)
			}
			set = append(set, group)
		case []string:
			set = append(set, t)
		default:
			return nil, fmt.Errorf("contains_strings[%d]: %v is neither a string nor a group of strings", i, v)
		}
	}
	return set, nil
}

// NormalizeGroups converts the raw configuration form of linked condition
// groups into [][]Condition. The raw value is either a flat sequence of
// condition identifiers (treated as one group) or a sequence of sequences.
func NormalizeGroups(raw []any) ([][]Condition, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	// A flat identifier sequence is a single unwrapped group.
	if _, ok := raw[0].(string); ok {
		group, err := parseGroup(raw)
		if err != nil {
			return nil, err
		}
		return [][]Condition{group}, nil
	}

	var groups [][]Condition
	for i, v := range raw {
		inner, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("linked_condition_groups[%d]: %v is neither an identifier nor a group", i, v)
		}
		group, err := parseGroup(inner)
		if err != nil {
			return nil, fmt.Errorf("linked_condition_groups[%d]: %w", i, err)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func parseGroup(raw []any) ([]Condition, error) {
	group := make([]Condition, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("group member %v is not a condition identifier", v)
		}
		c, err := ParseCondition(s)
		if err != nil {
			return nil, err
		}
		group = append(group, c)
	}
	return group, nil
}
