package metric

import "fmt"

// FetchError reports that the page fetcher failed: network error, timeout,
// non-success status, or malformed content. It is surfaced to the caller
// unmodified and never retried internally.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports a missing or invalid construction input (URL,
// fetcher, extractor, selector). It indicates a programming error in registry
// assembly and is not recoverable for the affected operation.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}
