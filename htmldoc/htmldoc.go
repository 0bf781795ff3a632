package htmldoc

import (
	"fmt"
	"io"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Document is a parsed HTML page. It keeps both the node tree and the raw
// markup, so structural navigation and whole-page views (Markdown, embedded
// JSON) work from the same value.
type Document struct {
	root *html.Node
	raw  string
}

// Node is an element node inside a [Document]. The zero value is not useful;
// nodes are obtained from [Document.FindFirst], [Document.SelectFirst], or
// from another node's [Node.NextSibling] / [Node.Parent].
type Node struct {
	n *html.Node
}

// Parse reads all of r and parses it as an HTML document.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return ParseString(string(data))
}

// ParseString parses content as an HTML document. The x/net/html parser is
// lenient, so errors are rare; malformed markup generally still yields a tree.
func ParseString(content string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{root: root, raw: content}, nil
}

// FindFirst walks the tree depth-first in document order and returns the
// first element node for which pred returns true, or nil when no element
// satisfies it. Only element nodes are offered to pred.
func (d *Document) FindFirst(pred func(*Node) bool) *Node {
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && pred(&Node{n: n}) {
			found = n
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(d.root)
	if found == nil {
		return nil
	}
	return &Node{n: found}
}

// Selector is a compiled CSS selector. Obtain one with [CompileSelector].
type Selector struct {
	sel cascadia.Selector
}

// CompileSelector compiles a CSS selector expression.
func CompileSelector(expr string) (Selector, error) {
	sel, err := cascadia.Compile(expr)
	if err != nil {
		return Selector{}, fmt.Errorf("failed to compile selector %q: %w", expr, err)
	}
	return Selector{sel: sel}, nil
}

// SelectFirst returns the first node matching sel in document order, or nil
// when nothing matches.
func (d *Document) SelectFirst(sel Selector) *Node {
	if sel.sel == nil {
		return nil
	}
	if n := sel.sel.MatchFirst(d.root); n != nil {
		return &Node{n: n}
	}
	return nil
}

// Markdown renders the page content as Markdown. It is a convenience view for
// logging and debugging extraction runs, not part of the extraction chain.
func (d *Document) Markdown() (string, error) {
	md, err := htmltomarkdown.ConvertString(d.raw)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}
	return md, nil
}

// Tag returns the lowercase element name, e.g. "div" or "td".
func (n *Node) Tag() string {
	return n.n.Data
}

// Attr returns the value of the named attribute, or "" when absent.
func (n *Node) Attr(key string) string {
	for _, a := range n.n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// NextSibling returns the next element sibling in document order, skipping
// text and comment nodes, or nil when the node is the last element among its
// siblings.
func (n *Node) NextSibling() *Node {
	for s := n.n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return &Node{n: s}
		}
	}
	return nil
}

// Parent returns the nearest element ancestor, or nil at the top of the tree.
func (n *Node) Parent() *Node {
	for p := n.n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return &Node{n: p}
		}
	}
	return nil
}

// Text returns the flattened visible text of the node's subtree: text nodes
// are trimmed and joined with single spaces, and script, style and noscript
// subtrees are skipped.
func (n *Node) Text() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			switch node.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if node.Type == html.TextNode {
			if text := strings.TrimSpace(node.Data); text != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(text)
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n.n)
	return b.String()
}
