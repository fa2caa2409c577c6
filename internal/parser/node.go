// Package parser extracts feed entry attributes from raw node text.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/daehyun-ko/feedsweep/internal/entry"
)

// builtinPatterns provides the named sub-patterns usable in node patterns.
var builtinPatterns = map[string]string{
	"INT":        `[+-]?\d+`,
	"WORD":       `\w+`,
	"NOTSPACE":   `\S+`,
	"DATA":       `.*?`,
	"GREEDYDATA": `.*`,
	"KIND":       `(?:message|share|activity|unknown)`,
	"MEDIA":      `(?:none|image|video|image,video|video,image)`,
}

// DefaultPattern matches the canonical serialized node line, e.g.
// "[message] comments=3 likes=12 media=image :: Giveaway closed".
const DefaultPattern = `\[%{KIND:kind}\] comments=%{INT:comments} likes=%{INT:likes} media=%{MEDIA:media} :: %{GREEDYDATA:body}`

// NodeParser parses serialized feed-node lines using %{PATTERN:field}
// tokens compiled into a single regex. Recognized fields: kind, comments,
// likes, media, body; anything else is captured and ignored.
type NodeParser struct {
	pattern    string
	regex      *regexp.Regexp
	fieldNames []string
	seq        atomic.Uint64
}

// NewNodeParser compiles a node pattern. An empty pattern selects
// DefaultPattern; unknown %{...} names are construction errors.
func NewNodeParser(pattern string) (*NodeParser, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	regexStr, fieldNames, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}

	re, err := regexp.Compile(regexStr)
	if err != nil {
		return nil, fmt.Errorf("compiled node pattern invalid: %w (regex: %s)", err, regexStr)
	}

	return &NodeParser{
		pattern:    pattern,
		regex:      re,
		fieldNames: fieldNames,
	}, nil
}

// Pattern returns the original pattern string.
func (p *NodeParser) Pattern() string { return p.pattern }

// Parse converts one node line into an Item. A line the pattern does not
// match falls back to a bare message entry holding the whole line, so a
// malformed producer degrades instead of dropping nodes.
func (p *NodeParser) Parse(line string) *entry.Item {
	it := &entry.Item{
		Body: line,
		Kind: entry.KindMessage,
		Seq:  p.seq.Add(1),
	}

	matches := p.regex.FindStringSubmatch(line)
	if matches == nil {
		return it
	}

	for i, name := range p.fieldNames {
		if i+1 >= len(matches) {
			continue
		}
		val := matches[i+1]
		switch name {
		case "kind":
			it.Kind = entry.ParseKind(val)
		case "comments":
			it.Comments, _ = strconv.Atoi(val)
		case "likes":
			it.Likes, _ = strconv.Atoi(val)
		case "media":
			it.Image = strings.Contains(val, "image")
			it.Video = strings.Contains(val, "video")
		case "body":
			it.Body = val
		}
	}
	return it
}

// compilePattern converts a node pattern to a Go regex with capture groups.
// %{NAME:field} → (regex_for_NAME), %{NAME} → (?:regex_for_NAME)
func compilePattern(pattern string) (string, []string, error) {
	var fieldNames []string
	result := pattern

	tokenRe := regexp.MustCompile(`%\{(\w+)(?::(\w+))?\}`)
	matches := tokenRe.FindAllStringSubmatch(pattern, -1)

	for _, m := range matches {
		fullMatch := m[0]
		patternName := m[1]
		fieldName := ""
		if len(m) > 2 {
			fieldName = m[2]
		}

		builtinRegex, ok := builtinPatterns[patternName]
		if !ok {
			return "", nil, fmt.Errorf("unknown node pattern: %s", patternName)
		}

		// Only named tokens capture; unnamed tokens compile to non-capturing
		// groups and must not occupy a fieldNames slot, or every field after
		// them would read the wrong submatch.
		var replacement string
		if fieldName != "" {
			replacement = fmt.Sprintf("(%s)", builtinRegex)
			fieldNames = append(fieldNames, fieldName)
		} else {
			replacement = fmt.Sprintf("(?:%s)", builtinRegex)
		}

		result = strings.Replace(result, fullMatch, replacement, 1)
	}

	return result, fieldNames, nil
}
