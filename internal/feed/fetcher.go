package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/bilgisen/rsswatch/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"
)

// FetchError is a per-feed failure: network error, non-success status or
// a document that does not parse as any recognized feed format. It is
// recorded in the run summary, never propagated as a run failure.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch feed from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type Fetcher struct {
	client *resty.Client
	parser *Parser
}

// NewFetcher builds a fetcher whose requests are bounded by timeout.
// Failed feeds are skipped until the next cycle, so there are no retries.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "rsswatch/1.0"),
		parser: NewParser(),
	}
}

// Fetch retrieves a feed URL and parses the body as RSS or Atom into
// normalized raw items. Entries without a link are dropped; whatever
// parses successfully is returned.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]models.RawItem, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("unexpected status code %d", resp.StatusCode())}
	}

	parsed, err := gofeed.NewParser().ParseString(string(resp.Body()))
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to parse feed: %w", err)}
	}

	items := make([]models.RawItem, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		item, ok := f.parser.NormalizeEntry(entry)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
