package metric

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/statpull/statpull/htmldoc"
)

// PageFetcher turns a URL into a parsed document tree. Implementations may
// fail with a transport or parse error; no retry is built in on this side.
// [New] requires a fetcher up front, so the capability is checked at
// construction rather than probed at call time.
//
// A fetcher shared by several accessors must itself be safe for concurrent
// use if the accessors are called concurrently.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*htmldoc.Document, error)
}

// Registry maps generated metric identifiers to accessors for one page.
// Construction performs the whole discovery pass; a Registry is terminal
// afterwards and is never re-discovered in place. A caller wanting fresh
// discovery constructs a new Registry.
type Registry struct {
	baseURL   string
	fetcher   PageFetcher
	logger    *slog.Logger
	accessors map[string]*Accessor
}

type options struct {
	selectors map[string]string
	embedded  map[string]string
	catalog   []Rule
	logger    *slog.Logger
}

// Option configures registry construction.
type Option func(*options)

// WithSelectors switches construction to explicit mode: one lazy selector
// extractor is created per entry and no heuristic discovery pass occurs. The
// map key is the metric name, the value a CSS selector.
func WithSelectors(selectors map[string]string) Option {
	return func(o *options) {
		o.selectors = selectors
	}
}

// WithEmbeddedKeys registers embedded-state extractors alongside either mode.
// The map key is the metric name, the value the JSON key to search for in the
// page's embedded JSON blocks.
func WithEmbeddedKeys(keys map[string]string) Option {
	return func(o *options) {
		o.embedded = keys
	}
}

// WithCatalog replaces the stock recognition-rule catalog used by auto mode.
func WithCatalog(rules []Rule) Option {
	return func(o *options) {
		o.catalog = rules
	}
}

// WithLogger sets the logger used during discovery. The default discards
// everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New constructs a registry for baseURL.
//
// In explicit mode (see [WithSelectors]) no fetch happens: every entry gets a
// lazy selector extractor, and a selector that fails to compile aborts
// construction with a [*ConfigurationError].
//
// In auto mode the fetcher is invoked exactly once and every catalog rule is
// evaluated against the fetched tree: rules whose label matched get an
// accessor (bound when a value resolved, lazy otherwise) and rules whose
// label never matched are omitted. Partial discovery is normal output, not
// a failure. A fetcher failure aborts construction with a [*FetchError].
//
// Colliding identifiers are resolved last-registered-wins, in lexicographic
// registration order of the metric names; the overwrite is logged.
func New(ctx context.Context, baseURL string, fetcher PageFetcher, opts ...Option) (*Registry, error) {
	if baseURL == "" {
		return nil, &ConfigurationError{Reason: "base URL is empty"}
	}
	if fetcher == nil {
		return nil, &ConfigurationError{Reason: "fetcher is nil"}
	}

	o := options{catalog: DefaultCatalog(), logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	r := &Registry{
		baseURL:   baseURL,
		fetcher:   fetcher,
		logger:    o.logger,
		accessors: make(map[string]*Accessor),
	}

	if len(o.selectors) > 0 {
		for _, name := range sortedKeys(o.selectors) {
			ext, err := FromSelector(o.selectors[name])
			if err != nil {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("selector for %q: %v", name, err)}
			}
			r.install(name, ext)
		}
	} else {
		doc, err := fetcher.Fetch(ctx, baseURL)
		if err != nil {
			return nil, &FetchError{URL: baseURL, Err: err}
		}
		for _, rule := range o.catalog {
			label := FindLabel(doc, rule)
			if label == nil {
				r.logger.Debug("label not found, metric omitted", "metric", rule.Name)
				continue
			}
			if value, ok := Resolve(label); ok {
				r.logger.Debug("metric discovered", "metric", rule.Name, "value", value)
				r.install(rule.Name, Bound(value))
			} else {
				r.logger.Debug("label found but value unresolved, keeping lazy", "metric", rule.Name)
				r.install(rule.Name, Lazy(rule))
			}
		}
	}

	for _, name := range sortedKeys(o.embedded) {
		r.install(name, FromEmbeddedState(o.embedded[name]))
	}

	return r, nil
}

// install wraps ext in an accessor and stores it under the generated
// identifier, overwriting any previous holder of that identifier.
func (r *Registry) install(name string, ext Extractor) {
	id := Identifier(name)
	if prev, ok := r.accessors[id]; ok {
		r.logger.Warn("identifier collision, last registered wins",
			"id", id, "previous", prev.Name(), "metric", name)
	}
	r.accessors[id] = &Accessor{
		name:      name,
		sourceURL: r.baseURL,
		extractor: ext,
		fetcher:   r.fetcher,
	}
}

// BaseURL returns the page URL the registry was constructed for.
func (r *Registry) BaseURL() string {
	return r.baseURL
}

// Accessor returns the accessor stored under the generated identifier, e.g.
// "BallPossessionMetric" for the metric named "Ball possession".
func (r *Registry) Accessor(id string) (*Accessor, bool) {
	a, ok := r.accessors[id]
	return a, ok
}

// Accessors returns a copy of the identifier-to-accessor mapping.
func (r *Registry) Accessors() map[string]*Accessor {
	out := make(map[string]*Accessor, len(r.accessors))
	for id, a := range r.accessors {
		out[id] = a
	}
	return out
}

// IDs returns the generated identifiers in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.accessors))
	for id := range r.accessors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Rebind swaps the shared fetcher reference on the registry and every
// accessor it owns. Extractors and discovery results are untouched.
func (r *Registry) Rebind(fetcher PageFetcher) {
	r.fetcher = fetcher
	for _, a := range r.accessors {
		a.fetcher = fetcher
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
