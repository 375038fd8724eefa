package feed

import (
	"context"
	"time"
)

// Paper represents a single arXiv listing entry. ID is the versioned
// accession number (e.g. "2501.12345v1") and is stable across repeated
// fetches of the same paper.
type Paper struct {
	ID         string
	Title      string
	Abstract   string
	Authors    []string
	URL        string
	Published  time.Time
	Updated    time.Time
	Categories []string
}

// Fetcher is an interface for fetching recent papers from a listing feed.
// The feed returns a recent window, not a delta, so the same paper may show
// up across consecutive fetches.
type Fetcher interface {
	Fetch(ctx context.Context, categories []string, maxResults int) ([]Paper, error)
}
