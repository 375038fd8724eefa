package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// ArxivFetcher fetches recent submissions from the arXiv API.
type ArxivFetcher struct {
	client  *http.Client
	baseURL string
}

func NewArxivFetcher() *ArxivFetcher {
	return &ArxivFetcher{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://export.arxiv.org/api/query",
	}
}

// Fetch queries the arXiv API for the most recent submissions in the given
// categories, newest first. The API has no "last 24 hours" filter, so callers
// get a recent window sorted by submission date and dedup downstream.
func (f *ArxivFetcher) Fetch(ctx context.Context, categories []string, maxResults int) ([]Paper, error) {
	terms := make([]string, len(categories))
	for i, cat := range categories {
		terms[i] = "cat:" + cat
	}

	query := url.Values{}
	query.Set("search_query", strings.Join(terms, " OR "))
	query.Set("start", "0")
	query.Set("max_results", fmt.Sprintf("%d", maxResults))
	query.Set("sortBy", "submittedDate")
	query.Set("sortOrder", "descending")

	reqURL := fmt.Sprintf("%s?%s", f.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("arxiv: failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv: unexpected status %d", resp.StatusCode)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("arxiv: failed to parse feed: %w", err)
	}

	papers := make([]Paper, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		papers = append(papers, paperFromItem(item))
	}

	return papers, nil
}

func paperFromItem(item *gofeed.Item) Paper {
	p := Paper{
		ID:         accessionID(item.GUID),
		Title:      collapseWhitespace(item.Title),
		Abstract:   collapseWhitespace(item.Description),
		URL:        item.Link,
		Categories: item.Categories,
	}

	for _, a := range item.Authors {
		if a == nil {
			continue
		}
		if name := strings.TrimSpace(a.Name); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}

	if item.PublishedParsed != nil {
		p.Published = *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		p.Updated = *item.UpdatedParsed
	}

	return p
}

// accessionID extracts the versioned accession number from an Atom entry id
// like "http://arxiv.org/abs/2501.12345v1".
func accessionID(entryID string) string {
	if idx := strings.LastIndex(entryID, "/abs/"); idx >= 0 {
		return entryID[idx+len("/abs/"):]
	}
	return entryID
}

// collapseWhitespace flattens the newlines arXiv embeds in long titles and
// abstracts into single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
