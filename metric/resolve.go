package metric

import (
	"regexp"

	"github.com/statpull/statpull/htmldoc"
)

// numericToken matches the first digit sequence with an optional decimal
// fraction and trailing percent sign.
var numericToken = regexp.MustCompile(`\d+(?:\.\d+)?%?`)

// Resolve locates the value associated with a label node. Label/value pairs
// are laid out inconsistently (adjacent cell, adjacent block, or inline text
// with an embedded number), so resolution tries structural proximity first
// and only then falls back to raw numeric scraping:
//
//  1. text of the label's next element sibling;
//  2. text of the label parent's next element sibling;
//  3. first numeric token in the label's own text joined with its parent's.
//
// An empty text at steps 1 and 2 counts as a miss and falls through. When all
// three steps fail Resolve returns ("", false), which is a legitimate
// negative result, not a failure.
func Resolve(label *htmldoc.Node) (string, bool) {
	if label == nil {
		return "", false
	}
	if sib := label.NextSibling(); sib != nil {
		if text := sib.Text(); text != "" {
			return text, true
		}
	}
	parent := label.Parent()
	if parent != nil {
		if sib := parent.NextSibling(); sib != nil {
			if text := sib.Text(); text != "" {
				return text, true
			}
		}
	}
	tail := label.Text()
	if parent != nil {
		tail += " " + parent.Text()
	}
	if tok := numericToken.FindString(tail); tok != "" {
		return tok, true
	}
	return "", false
}
