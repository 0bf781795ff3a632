// Package httpfetch provides the HTTP page fetcher used by metric
// registries. It works when the target page carries its metric data in the
// server-rendered HTML; JS-rendered pages need either caller-supplied
// selectors against whatever markup the server does return, or embedded-state
// extraction over the page's JSON blocks. The entry point is [New].
package httpfetch
