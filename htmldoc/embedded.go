package htmldoc

import (
	"encoding/json"

	"github.com/kaptinlin/jsonrepair"
	"golang.org/x/net/html"
)

// EmbeddedJSON returns the JSON objects found in the document's
// <script type="application/ld+json"> and <script type="application/json">
// blocks, in document order. Blocks holding a top-level array contribute each
// of their object elements. Blocks that fail to parse are run through
// jsonrepair and retried once; blocks that still fail are dropped.
//
// JS-heavy pages frequently carry their data in such blocks rather than in
// the rendered markup, so this is the raw material for embedded-state
// extraction.
func (d *Document) EmbeddedJSON() []map[string]any {
	var blocks []map[string]any
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" {
			if scriptType(n) == "application/ld+json" || scriptType(n) == "application/json" {
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					blocks = append(blocks, decodeObjects(n.FirstChild.Data)...)
				}
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return blocks
}

func scriptType(n *html.Node) string {
	for _, a := range n.Attr {
		if a.Key == "type" {
			return a.Val
		}
	}
	return ""
}

// decodeObjects parses content as a JSON object or an array of objects,
// repairing and retrying once on failure.
func decodeObjects(content string) []map[string]any {
	if objs, err := unmarshalObjects(content); err == nil {
		return objs
	}
	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		return nil
	}
	objs, err := unmarshalObjects(repaired)
	if err != nil {
		return nil
	}
	return objs
}

func unmarshalObjects(content string) ([]map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(content), &obj); err == nil {
		return []map[string]any{obj}, nil
	}
	var arr []map[string]any
	if err := json.Unmarshal([]byte(content), &arr); err != nil {
		return nil, err
	}
	return arr, nil
}
