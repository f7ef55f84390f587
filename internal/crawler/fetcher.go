package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Adda-Baaj/khobor-archiver/pkg/httpclient"
)

const (
	maxHTMLBodyBytes = 8 << 20 // 8 MiB
)

// HTTPFetcher fetches pages through an httpclient.Client.
type HTTPFetcher struct {
	client  httpclient.Client
	headers map[string]string
	maxBody int
}

// NewHTTPFetcher constructs a fetcher sending headers on every request. A nil
// client falls back to a resty client without its own timeout.
func NewHTTPFetcher(client httpclient.Client, headers map[string]string) *HTTPFetcher {
	if client == nil {
		client = httpclient.NewRestyClient(0)
	}
	h := make(map[string]string, len(headers))
	for k, v := range headers {
		h[k] = v
	}
	return &HTTPFetcher{client: client, headers: h, maxBody: maxHTMLBodyBytes}
}

// Fetch performs a GET bounded by timeout. Bodies above the size cap are truncated.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string, timeout time.Duration) (Page, error) {
	if url == "" {
		return Page{}, &TransportError{URL: url, Err: errors.New("empty url")}
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := f.client.Get(ctx, url, f.headers)
	if err != nil {
		return Page{}, &TransportError{URL: url, Err: err}
	}

	if resp.StatusCode() != http.StatusOK {
		return Page{}, &TransportError{
			URL:        url,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("unexpected status %s", http.StatusText(resp.StatusCode())),
		}
	}

	body := resp.Body()
	if f.maxBody > 0 && len(body) > f.maxBody {
		body = body[:f.maxBody]
	}
	return Page{URL: url, StatusCode: resp.StatusCode(), Body: body}, nil
}
