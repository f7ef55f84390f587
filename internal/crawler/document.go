package crawler

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ParseDocument builds a queryable HTML document from a page body.
func ParseDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// documentSource lets site adapters fetch pages during discovery.
type documentSource struct {
	fetcher PageFetcher
}

func (s documentSource) FetchDocument(ctx context.Context, url string, timeout time.Duration) (*goquery.Document, error) {
	page, err := s.fetcher.Fetch(ctx, url, timeout)
	if err != nil {
		return nil, err
	}
	return ParseDocument(page.Body)
}
