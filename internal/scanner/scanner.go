package scanner

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// MaxExcerptLength is the maximum number of characters kept from a matched line.
const MaxExcerptLength = 80

// Violation is one forbidden-pattern match.
type Violation struct {
	Line        int
	Column      int
	Text        string
	Description string
	Suggestion  string
}

// Scanner matches patterns against file text.
type Scanner struct {
	patterns     []Pattern
	suppressions []string
}

// New creates a Scanner. A line containing any of suppressions is skipped.
func New(patterns []Pattern, suppressions []string) *Scanner {
	return &Scanner{
		patterns:     patterns,
		suppressions: suppressions,
	}
}

type match struct {
	start   int
	end     int
	pattern int
}

// Scan returns the violations in content ordered by line, then column.
// Matches on a line that overlap an earlier accepted match are dropped.
func (s *Scanner) Scan(content string) []Violation {
	var violations []Violation

	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" || s.isSuppressed(line) {
			continue
		}

		matches := s.matchLine(line)
		if len(matches) == 0 {
			continue
		}

		excerpt := truncate(strings.TrimSpace(line), MaxExcerptLength)
		acceptedEnd := -1
		for _, m := range matches {
			if m.start < acceptedEnd {
				continue
			}
			acceptedEnd = m.end

			pattern := s.patterns[m.pattern]
			violations = append(violations, Violation{
				Line:        i + 1,
				Column:      utf8.RuneCountInString(line[:m.start]) + 1,
				Text:        excerpt,
				Description: pattern.Description,
				Suggestion:  pattern.Suggestion,
			})
		}
	}

	return violations
}

func (s *Scanner) isSuppressed(line string) bool {
	for _, marker := range s.suppressions {
		if marker != "" && strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// matchLine collects the matches of every pattern sorted by start, longest first.
func (s *Scanner) matchLine(line string) []match {
	var matches []match
	for i, pattern := range s.patterns {
		for _, loc := range pattern.Regexp.FindAllStringIndex(line, -1) {
			if loc[1] == loc[0] {
				continue
			}
			matches = append(matches, match{start: loc[0], end: loc[1], pattern: i})
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		if matches[a].start != matches[b].start {
			return matches[a].start < matches[b].start
		}
		return matches[a].end > matches[b].end
	})
	return matches
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
