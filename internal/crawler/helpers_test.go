package crawler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// fakeFetcher serves canned bodies per URL and records each call.
type fakeFetcher struct {
	mu       sync.Mutex
	pages    map[string]string
	fail     map[string]error
	delays   map[string]time.Duration
	calls    []fetchCall
	inFlight int
	maxSeen  int
}

type fetchCall struct {
	url     string
	timeout time.Duration
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages:  map[string]string{},
		fail:   map[string]error{},
		delays: map[string]time.Duration{},
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string, timeout time.Duration) (Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{url: url, timeout: timeout})
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	delay := f.delays[url]
	body, ok := f.pages[url]
	failErr := f.fail[url]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return Page{}, &TransportError{URL: url, Err: ctx.Err()}
		}
	}
	if failErr != nil {
		return Page{}, &TransportError{URL: url, Err: failErr}
	}
	if !ok {
		return Page{}, &TransportError{URL: url, StatusCode: 404, Err: errors.New("not found")}
	}
	return Page{URL: url, StatusCode: 200, Body: []byte(body)}, nil
}

func (f *fakeFetcher) callURLs(filter func(string) bool) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if filter == nil || filter(c.url) {
			out = append(out, c.url)
		}
	}
	return out
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func archivePage(hrefs ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, h := range hrefs {
		b.WriteString(`<a href="` + h + `">link</a>`)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func articlePage(title, author string) string {
	var b strings.Builder
	b.WriteString(`<html><body><ol class="breadcrumb"><li>home</li><li>national</li><li>story</li></ol>`)
	b.WriteString("<h1>" + title + "</h1>")
	b.WriteString(`<div class="row p-3"><span>30 March 2024</span></div>`)
	if author != "" {
		b.WriteString(`<div class="news-info ps-3 my-3"><h2>` + author + `</h2></div>`)
	}
	b.WriteString("<p>" + title + " body.</p></body></html>")
	return b.String()
}
