// Package utils provides shared low-level helpers used throughout the
// statpull internals. Currently that is [CloseWithLog] for defer sites that
// must not drop close errors silently.
package utils
