// Package metric implements heuristic label-to-value extraction of named
// metrics from HTML pages, and a registry of per-metric accessors built on
// top of it.
//
// A [Rule] recognises a metric's label by its text; [Resolve] locates the
// associated value through an ordered fallback chain (next sibling, parent's
// next sibling, embedded numeric token). [FromDiscovery], [FromSelector] and
// [FromEmbeddedState] turn rules, CSS selectors and embedded-JSON keys into
// reusable [Extractor] values, and [New] assembles a [Registry] of
// [Accessor] objects, one per discovered or declared metric, each exposing
// raw fetch, numeric coercion and delay-then-refresh operations.
//
// The registry never guesses at a page's layout being stable: a metric whose
// label or value cannot be located simply reports no value, which is a
// legitimate result and never an error.
package metric
