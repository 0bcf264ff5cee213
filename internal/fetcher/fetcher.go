// Package fetcher downloads remote open-data resources over HTTP with
// per-host rate limiting and retry.
package fetcher

import (
	"context"
	"io"
)

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// Probe checks that the URL answers with a success status without
	// consuming the body.
	Probe(ctx context.Context, url string) error
}
