package metric

import (
	"fmt"
	"regexp"

	"github.com/statpull/statpull/htmldoc"
)

// Rule recognises the label of a named metric by its text content. Matching
// is a pure predicate over the text it is given; a Rule holds no state beyond
// its compiled pattern.
type Rule struct {
	// Name is the human-readable metric name, e.g. "Ball possession".
	Name string

	pattern *regexp.Regexp
}

// NewRule compiles pattern into a recognition rule for the named metric.
// Patterns are matched as-is; prefix with (?i) for case-insensitive matching.
func NewRule(name, pattern string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("failed to compile rule for %q: %w", name, err)
	}
	return Rule{Name: name, pattern: re}, nil
}

// MustRule is like [NewRule] but panics on an invalid pattern. Intended for
// package-level catalogs built from literal patterns.
func MustRule(name, pattern string) Rule {
	r, err := NewRule(name, pattern)
	if err != nil {
		panic(err)
	}
	return r
}

// Matches reports whether text denotes this metric's label.
func (r Rule) Matches(text string) bool {
	return r.pattern != nil && r.pattern.MatchString(text)
}

// DefaultCatalog returns the stock recognition rules for common team-page
// metrics. Patterns are case-insensitive and tolerate the abbreviation and
// phrasing variants seen in the wild ("avg. goals", "goals per match").
func DefaultCatalog() []Rule {
	return []Rule{
		MustRule("Ball possession", `(?i)ball possession`),
		MustRule("Average goals", `(?i)avg\.? goals|goals per match|average goals`),
		MustRule("Clean sheets", `(?i)clean sheets?`),
		MustRule("Goals", `(?i)^goals$`),
		MustRule("Shots on target", `(?i)on target`),
	}
}

// labelTags are the element types considered as label candidates. Label/value
// pairs on stat pages live in table cells and small text blocks; matching
// larger containers would make every rule hit the page wrapper first.
var labelTags = map[string]bool{
	"div":  true,
	"span": true,
	"p":    true,
	"td":   true,
	"th":   true,
}

// FindLabel returns the first node in document order whose non-empty
// flattened text matches rule, or nil when the document has no such node.
// Absence is expected output of a discovery pass, not an error.
func FindLabel(doc *htmldoc.Document, rule Rule) *htmldoc.Node {
	if doc == nil {
		return nil
	}
	return doc.FindFirst(func(n *htmldoc.Node) bool {
		if !labelTags[n.Tag()] {
			return false
		}
		text := n.Text()
		return text != "" && rule.Matches(text)
	})
}
