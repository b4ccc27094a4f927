package interpolation

import (
	"regexp"
	"sort"
	"strings"
)

// Match is an interpolation placeholder found in a source string.
type Match struct {
	Start int
	End   int
	Value string
}

// patterns detect placeholders used by the supported i18n runtimes.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\{\{\s*[^{}]+?\s*\}\}`),                // {{ name }} (vue, i18next)
	regexp.MustCompile(`\$\{[^{}]+\}`),                         // ${expr} (template literals)
	regexp.MustCompile(`\{[a-zA-Z0-9_]+\}`),                    // {0}, {name}
	regexp.MustCompile(`%[-+0-9]*\.?[0-9]*[dsfieEgGxXoubcpq]`), // %d, %s, %2d
	regexp.MustCompile(`(?:^|\s):[a-zA-Z_][a-zA-Z0-9_]*`),      // :name (laravel)
}

// Find returns the non-overlapping placeholders in text ordered by position.
// When two matches start at the same offset the longer one wins.
func Find(text string) []Match {
	var all []Match
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			start := loc[0]
			// The laravel pattern may consume the leading space.
			for start < loc[1] && text[start] != ':' && isSpace(text[start]) {
				start++
			}
			all = append(all, Match{Start: start, End: loc[1], Value: text[start:loc[1]]})
		}
	}
	if len(all) == 0 {
		return nil
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Start != all[j].Start {
			return all[i].Start < all[j].Start
		}
		return all[i].End-all[i].Start > all[j].End-all[j].Start
	})

	var filtered []Match
	lastEnd := -1
	for _, m := range all {
		if m.Start >= lastEnd {
			filtered = append(filtered, m)
			lastEnd = m.End
		}
	}
	return filtered
}

// Strip removes every placeholder from text and collapses the remaining whitespace.
func Strip(text string) string {
	matches := Find(text)
	if len(matches) == 0 {
		return strings.Join(strings.Fields(text), " ")
	}
	var b strings.Builder
	prev := 0
	for _, m := range matches {
		b.WriteString(text[prev:m.Start])
		b.WriteByte(' ')
		prev = m.End
	}
	b.WriteString(text[prev:])
	return strings.Join(strings.Fields(b.String()), " ")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
