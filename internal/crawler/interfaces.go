package crawler

import (
	"context"
	"time"
)

// Page is a fetched HTTP response body.
type Page struct {
	URL        string
	StatusCode int
	Body       []byte
}

// PageFetcher retrieves one page. A timeout of zero leaves the deadline to ctx.
// Any failure, including a non-200 status, is returned as a *TransportError.
type PageFetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) (Page, error)
}
