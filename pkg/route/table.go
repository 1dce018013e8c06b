// Package route classifies response statuses per service route.
package route

import (
	"regexp"
	"slices"
)

// Rule accepts a fixed set of statuses for paths matching Pattern.
type Rule struct {
	Pattern  *regexp.Regexp
	Accepted []int
}

func NewRule(pattern string, accepted ...int) Rule {
	return Rule{
		Pattern:  regexp.MustCompile(pattern),
		Accepted: accepted,
	}
}

// Verdict is the outcome of a table lookup.
type Verdict struct {
	Matched  bool
	Rule     string
	Accepted bool
}

// Table is an ordered rule list; the first matching rule decides. A path no
// rule matches is accepted for any status.
type Table struct {
	rules []Rule
}

func NewTable(rules ...Rule) *Table {
	return &Table{rules: rules}
}

// DefaultTable returns the rules of the comment service API.
func DefaultTable() *Table {
	return NewTable(
		NewRule(`^/$`, 200, 404),
		NewRule(`^/new$`, 201, 202),
		NewRule(`^/id/\d+$`, 200, 403, 404),
		NewRule(`^/id/\d+/(like|dislike)$`, 200),
		NewRule(`^/count$`, 200),
	)
}

// Check classifies status for an endpoint-relative path without query.
func (t *Table) Check(path string, status int) Verdict {
	for _, rule := range t.rules {
		if !rule.Pattern.MatchString(path) {
			continue
		}
		return Verdict{
			Matched:  true,
			Rule:     rule.Pattern.String(),
			Accepted: slices.Contains(rule.Accepted, status),
		}
	}
	return unmatched
}

// Accepts reports whether status is expected for path.
func (t *Table) Accepts(path string, status int) bool {
	return t.Check(path, status).Accepted
}

var unmatched = Verdict{Matched: false, Rule: "", Accepted: true}
