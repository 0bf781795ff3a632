package metric

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/statpull/statpull/htmldoc"
)

type extractorKind int

const (
	kindNone extractorKind = iota
	kindBound
	kindLazy
	kindSelector
	kindEmbedded
)

// Extractor extracts a metric's raw value from a document tree. It is a
// tagged value with explicit variants rather than a captured closure, so its
// lifecycle is visible at the call site:
//
//   - bound: replays a literal captured at discovery time and ignores the
//     document it is given;
//   - lazy: re-runs label recognition and value resolution against whatever
//     document it is given;
//   - selector: always lazy, returns the trimmed text of the first CSS
//     selector match;
//   - embedded: always lazy, returns the first scalar found under a key in
//     the document's embedded JSON blocks.
//
// The zero Extractor extracts nothing; an [Accessor] holding one fails with a
// [ConfigurationError]. An Extractor is owned by exactly one accessor and has
// no shared mutable state.
type Extractor struct {
	kind     extractorKind
	value    string
	rule     Rule
	selector htmldoc.Selector
	key      string
}

// Bound returns an extractor that always replays value, regardless of the
// document it is later given.
func Bound(value string) Extractor {
	return Extractor{kind: kindBound, value: value}
}

// Lazy returns an extractor that re-runs rule recognition and value
// resolution against the document supplied at extraction time.
func Lazy(rule Rule) Extractor {
	return Extractor{kind: kindLazy, rule: rule}
}

// FromSelector returns a lazy extractor for the given CSS selector. The
// selector is compiled up front so an invalid expression surfaces at
// construction rather than on first use.
func FromSelector(expr string) (Extractor, error) {
	sel, err := htmldoc.CompileSelector(expr)
	if err != nil {
		return Extractor{}, err
	}
	return Extractor{kind: kindSelector, selector: sel}, nil
}

// FromDiscovery runs rule recognition and value resolution once against doc.
// When a value resolves, the returned extractor is bound to that literal: the
// initial pass is taken as authoritative for the metric's current reading,
// and repeated use without selectors is a best-effort convenience, not a live
// feed. When no value resolves, the returned extractor is lazy, so a later,
// better-formed page can still succeed.
func FromDiscovery(rule Rule, doc *htmldoc.Document) Extractor {
	if label := FindLabel(doc, rule); label != nil {
		if value, ok := Resolve(label); ok {
			return Bound(value)
		}
	}
	return Lazy(rule)
}

// FromEmbeddedState returns a lazy extractor that searches the document's
// embedded JSON blocks (see [htmldoc.Document.EmbeddedJSON]) for the first
// scalar stored under key, at any nesting depth, and renders it as a string.
func FromEmbeddedState(key string) Extractor {
	return Extractor{kind: kindEmbedded, key: key}
}

// Extract applies the extractor to doc and returns the raw value and whether
// one was found. Bound extractors ignore doc entirely.
func (e Extractor) Extract(doc *htmldoc.Document) (string, bool) {
	switch e.kind {
	case kindBound:
		return e.value, true
	case kindLazy:
		if doc == nil {
			return "", false
		}
		label := FindLabel(doc, e.rule)
		if label == nil {
			return "", false
		}
		return Resolve(label)
	case kindSelector:
		if doc == nil {
			return "", false
		}
		if n := doc.SelectFirst(e.selector); n != nil {
			return n.Text(), true
		}
		return "", false
	case kindEmbedded:
		if doc == nil {
			return "", false
		}
		return searchEmbedded(doc, e.key)
	}
	return "", false
}

// searchEmbedded walks the document's embedded JSON blocks in document order
// and returns the first scalar found under key. The visit order between
// sibling keys inside one object is unspecified.
func searchEmbedded(doc *htmldoc.Document, key string) (string, bool) {
	for _, block := range doc.EmbeddedJSON() {
		if v, ok := deepFind(block, key); ok {
			return formatScalar(v), true
		}
	}
	return "", false
}

func deepFind(v any, key string) (any, bool) {
	switch t := v.(type) {
	case map[string]any:
		if val, ok := t[key]; ok {
			switch val.(type) {
			case string, float64, bool:
				return val, true
			}
		}
		for _, val := range t {
			if found, ok := deepFind(val, key); ok {
				return found, true
			}
		}
	case []any:
		for _, item := range t {
			if found, ok := deepFind(item, key); ok {
				return found, true
			}
		}
	}
	return nil, false
}

func formatScalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// Identifier converts a metric name into an identifier safe to use as a
// registry key: non-alphanumeric characters are stripped, words are
// title-cased, an empty result becomes "Metric", and a "Metric" suffix is
// appended unless already present. Two distinct names may normalise to the
// same identifier; see [Registry] for the collision policy.
func Identifier(name string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r):
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		case unicode.IsDigit(r):
			b.WriteRune(r)
			prevLetter = false
		default:
			prevLetter = false
		}
	}
	id := b.String()
	if id == "" {
		id = "Metric"
	}
	if !strings.HasSuffix(id, "Metric") {
		id += "Metric"
	}
	return id
}
