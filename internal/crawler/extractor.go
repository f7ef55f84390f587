package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adda-Baaj/khobor-archiver/internal/domain"
	"github.com/Adda-Baaj/khobor-archiver/pkg/sites"
)

// Extractor turns one article URL into a record.
type Extractor struct {
	fetcher PageFetcher
	timeout time.Duration
}

// NewExtractor builds an extractor fetching article pages with timeout.
func NewExtractor(fetcher PageFetcher, timeout time.Duration) *Extractor {
	return &Extractor{fetcher: fetcher, timeout: timeout}
}

// Extract fetches url and maps its markup through adapter. Missing fields are
// not errors; only fetch and parse failures are.
func (e *Extractor) Extract(ctx context.Context, url string, adapter sites.Adapter) (domain.ArticleRecord, error) {
	if adapter == nil {
		return domain.ArticleRecord{}, errors.New("extract: adapter is nil")
	}

	page, err := e.fetcher.Fetch(ctx, url, e.timeout)
	if err != nil {
		return domain.ArticleRecord{}, err
	}

	doc, err := ParseDocument(page.Body)
	if err != nil {
		return domain.ArticleRecord{}, fmt.Errorf("article %s: %w", url, err)
	}

	rec := adapter.ExtractFields(doc)
	rec.URL = url
	return rec, nil
}
