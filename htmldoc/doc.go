// Package htmldoc wraps a parsed HTML page in a small navigable tree suited
// to heuristic extraction: depth-first search over element nodes, element
// sibling/parent lookup, and flattened visible-text extraction. It also
// exposes a CSS-selector lookup via [Document.SelectFirst], a Markdown view
// of the page via [Document.Markdown], and harvesting of JSON objects
// embedded in script tags via [Document.EmbeddedJSON].
// The main entry points are [Parse] and [ParseString].
package htmldoc
