// Package dataset fetches batches of news articles from a datasets server rows endpoint.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newstag/pkg/domain"
)

// maxBodySize limits the dataset response, first-rows pages are a few megabytes at most
const maxBodySize = 64 * 1024 * 1024

// UpstreamError reports an unreachable dataset source or a non-success response
type UpstreamError struct {
	URL        string
	StatusCode int // zero for transport errors
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("dataset %s responded with status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("dataset %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error
func (e *UpstreamError) Unwrap() error { return e.Err }

// HTTPFetcher retrieves a batch of articles with a single unauthenticated GET
type HTTPFetcher struct {
	client    *http.Client
	url       string
	userAgent string
}

// NewHTTPFetcher creates a fetcher for the given rows endpoint
func NewHTTPFetcher(url string, timeout time.Duration, userAgent string) *HTTPFetcher {
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		url:       url,
		userAgent: userAgent,
	}
}

// rowsResponse is the body of a datasets server rows page
type rowsResponse struct {
	Rows []struct {
		RowIdx int `json:"row_idx"`
		Row    struct {
			Document string `json:"document"`
		} `json:"row"`
	} `json:"rows"`
}

// Fetch returns the articles of the current page in the order reported by the source,
// document text exactly as served.
// No retries, any failure is returned as *UpstreamError.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]domain.ArticleRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, http.NoBody)
	if err != nil {
		return nil, &UpstreamError{URL: f.url, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{URL: f.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		lgr.Printf("[WARN] error fetching dataset %s: %s", f.url, resp.Status)
		return nil, &UpstreamError{URL: f.url, StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", resp.Status)}
	}

	var body rowsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&body); err != nil {
		return nil, &UpstreamError{URL: f.url, Err: fmt.Errorf("decode rows: %w", err)}
	}

	records := make([]domain.ArticleRecord, 0, len(body.Rows))
	for _, r := range body.Rows {
		records = append(records, domain.ArticleRecord{Index: r.RowIdx, Document: r.Row.Document})
	}
	lgr.Printf("[DEBUG] fetched %d dataset rows from %s", len(records), f.url)
	return records, nil
}
