package metric

import (
	"context"
	"time"
)

// Accessor is the per-metric runtime object. It owns its extractor and shares
// the registry's page fetcher, which it treats as read-only. Accessors are
// created once at registry construction and are immutable afterwards, except
// for the fetcher reference, which the owning registry may rebind.
//
// Every operation blocks the caller until the underlying fetch completes or
// fails; concurrent use across accessors is safe exactly when the shared
// fetcher is safe for concurrent use.
type Accessor struct {
	name      string
	sourceURL string
	extractor Extractor
	fetcher   PageFetcher
}

// Name returns the human-readable metric name, preserved verbatim.
func (a *Accessor) Name() string {
	return a.name
}

// SourceURL returns the page URL this accessor reads from.
func (a *Accessor) SourceURL() string {
	return a.sourceURL
}

// FetchRaw fetches a fresh document tree from the source URL and applies the
// extractor to it. Bound extractors replay their captured value regardless of
// the fresh tree's content; lazy extractors re-evaluate against it.
//
// It returns ("", false, nil) when the extractor finds no value, a
// [*ConfigurationError] when the accessor is missing its URL, extractor or
// fetcher, and a [*FetchError] when the fetcher fails.
func (a *Accessor) FetchRaw(ctx context.Context) (string, bool, error) {
	if a.sourceURL == "" {
		return "", false, &ConfigurationError{Reason: "accessor has no source URL"}
	}
	if a.extractor.kind == kindNone {
		return "", false, &ConfigurationError{Reason: "accessor has no extractor"}
	}
	if a.fetcher == nil {
		return "", false, &ConfigurationError{Reason: "accessor has no fetcher"}
	}
	doc, err := a.fetcher.Fetch(ctx, a.sourceURL)
	if err != nil {
		return "", false, &FetchError{URL: a.sourceURL, Err: err}
	}
	value, ok := a.extractor.Extract(doc)
	return value, ok, nil
}

// Value calls [Accessor.FetchRaw] and coerces the result with [Coerce]. A raw
// miss yields a [None] value and no error.
func (a *Accessor) Value(ctx context.Context) (Value, error) {
	raw, ok, err := a.FetchRaw(ctx)
	if err != nil {
		return Value{}, err
	}
	if !ok {
		return Value{Kind: None}, nil
	}
	return Coerce(raw), nil
}

// Refresh pauses for delay, a caller-opt-in rate-limiting courtesy, and
// then performs [Accessor.FetchRaw].
// The pause is cut short by ctx cancellation, in which case the context's
// error is returned and no fetch happens.
func (a *Accessor) Refresh(ctx context.Context, delay time.Duration) (string, bool, error) {
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", false, ctx.Err()
		case <-timer.C:
		}
	}
	return a.FetchRaw(ctx)
}
