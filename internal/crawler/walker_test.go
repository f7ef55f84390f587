package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Adda-Baaj/khobor-archiver/internal/domain"
	"github.com/Adda-Baaj/khobor-archiver/pkg/sites"
	"github.com/google/go-cmp/cmp"
)

const pratidinRoot = "https://www.bd-pratidin.com/"

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func pratidinArchive(t time.Time) string {
	return fmt.Sprintf("%sfirst-page/%s/%d", pratidinRoot, t.Format("2006/01/02"), t.Day())
}

func adapterFor(t *testing.T, site sites.Site) sites.Adapter {
	t.Helper()
	a, err := sites.DefaultAdapterRegistry().AdapterFor(site)
	if err != nil {
		t.Fatalf("AdapterFor: %v", err)
	}
	return a
}

func TestWalkVisitsEveryDateInOrder(t *testing.T) {
	f := newFakeFetcher()
	w := NewWalker(f, Options{Workers: 2}, nil)

	res, err := w.Walk(context.Background(), adapterFor(t, sites.BDPratidin()), day(2024, time.February, 27), day(2024, time.March, 2))
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if res.Len() != 0 {
		t.Fatalf("expected no records, got %d", res.Len())
	}

	want := []string{
		pratidinArchive(day(2024, time.February, 27)),
		pratidinArchive(day(2024, time.February, 28)),
		pratidinArchive(day(2024, time.February, 29)),
		pratidinArchive(day(2024, time.March, 1)),
		pratidinArchive(day(2024, time.March, 2)),
	}
	if diff := cmp.Diff(want, f.callURLs(nil)); diff != "" {
		t.Fatalf("archive fetches (-want +got):\n%s", diff)
	}
}

func TestWalkSingleDayFetchesOneArchivePage(t *testing.T) {
	f := newFakeFetcher()
	w := NewWalker(f, Options{}, nil)
	d := day(2024, time.March, 30)

	if _, err := w.Walk(context.Background(), adapterFor(t, sites.BDPratidin()), d, d); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if got := f.callURLs(nil); len(got) != 1 || got[0] != "https://www.bd-pratidin.com/first-page/2024/03/30/30" {
		t.Fatalf("fetches = %v", got)
	}
}

func TestWalkRejectsInvalidRangeBeforeFetching(t *testing.T) {
	f := newFakeFetcher()
	w := NewWalker(f, Options{}, nil)
	a := adapterFor(t, sites.BDPratidin())

	cases := map[string]struct {
		adapter    sites.Adapter
		start, end time.Time
	}{
		"start after end": {a, day(2024, time.March, 2), day(2024, time.March, 1)},
		"zero start":      {a, time.Time{}, day(2024, time.March, 1)},
		"nil adapter":     {nil, day(2024, time.March, 1), day(2024, time.March, 1)},
	}
	for name, tc := range cases {
		_, err := w.Walk(context.Background(), tc.adapter, tc.start, tc.end)
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Errorf("%s: expected ConfigurationError, got %v", name, err)
		}
	}
	if n := f.callCount(); n != 0 {
		t.Fatalf("expected zero fetches, got %d", n)
	}
}

func TestWalkExtractsMatchingLinks(t *testing.T) {
	d := day(2024, time.March, 30)
	f := newFakeFetcher()
	f.pages[pratidinArchive(d)] = archivePage(
		"first-page/2024/03/30/1001",
		"/about",
		"first-page/2024/03/30/1002",
	)
	f.pages[pratidinRoot+"first-page/2024/03/30/1001"] = articlePage("Alpha", "Reporter")
	f.pages[pratidinRoot+"first-page/2024/03/30/1002"] = articlePage("Beta", "")

	res, err := NewWalker(f, Options{}, nil).Walk(context.Background(), adapterFor(t, sites.BDPratidin()), d, d)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	want := []domain.ArticleRecord{
		{
			Title:    "Alpha",
			Date:     "30 March 2024",
			Author:   "Reporter",
			Content:  "Alpha body.",
			Category: "national",
			URL:      pratidinRoot + "first-page/2024/03/30/1001",
		},
		{
			Title:    "Beta",
			Date:     "30 March 2024",
			Author:   domain.Unknown,
			Content:  "Beta body.",
			Category: "national",
			URL:      pratidinRoot + "first-page/2024/03/30/1002",
		},
	}
	if diff := cmp.Diff(want, res.Records()); diff != "" {
		t.Fatalf("records (-want +got):\n%s", diff)
	}
	for _, u := range f.callURLs(nil) {
		if strings.HasSuffix(u, "/about") {
			t.Fatalf("non-article link was fetched: %s", u)
		}
	}
}

func TestWalkSkipsFailedPagesAndArticles(t *testing.T) {
	d1, d2 := day(2024, time.March, 1), day(2024, time.March, 2)
	f := newFakeFetcher()
	f.fail[pratidinArchive(d1)] = errors.New("connection reset")
	f.pages[pratidinArchive(d2)] = archivePage(
		"first-page/2024/03/02/101",
		"first-page/2024/03/02/102",
		"first-page/2024/03/02/103",
	)
	f.pages[pratidinRoot+"first-page/2024/03/02/101"] = articlePage("One", "A")
	f.fail[pratidinRoot+"first-page/2024/03/02/102"] = context.DeadlineExceeded
	f.pages[pratidinRoot+"first-page/2024/03/02/103"] = articlePage("Three", "C")

	res, err := NewWalker(f, Options{}, nil).Walk(context.Background(), adapterFor(t, sites.BDPratidin()), d1, d2)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	got := res.Records()
	if len(got) != 2 || got[0].Title != "One" || got[1].Title != "Three" {
		t.Fatalf("records = %+v", got)
	}
	articles := f.callURLs(func(u string) bool { return strings.Contains(u, "/2024/03/02/10") })
	if len(articles) != 3 {
		t.Fatalf("expected every article to be attempted, got %v", articles)
	}
}

func TestWalkKeepsDiscoveryOrderUnderConcurrency(t *testing.T) {
	d := day(2024, time.March, 30)
	f := newFakeFetcher()

	const n = 12
	hrefs := make([]string, n)
	for i := range hrefs {
		hrefs[i] = fmt.Sprintf("first-page/2024/03/30/%d", i)
		u := pratidinRoot + hrefs[i]
		f.pages[u] = articlePage(fmt.Sprintf("T%02d", i), "")
		f.delays[u] = time.Duration(n-i) * 3 * time.Millisecond
	}
	// a repeated link is extracted twice
	hrefs = append(hrefs, hrefs[0])
	f.pages[pratidinArchive(d)] = archivePage(hrefs...)

	const workers = 3
	res, err := NewWalker(f, Options{Workers: workers}, nil).Walk(context.Background(), adapterFor(t, sites.BDPratidin()), d, d)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	got := res.Records()
	if len(got) != n+1 {
		t.Fatalf("got %d records, want %d", len(got), n+1)
	}
	for i := 0; i < n; i++ {
		if want := fmt.Sprintf("T%02d", i); got[i].Title != want {
			t.Fatalf("record %d = %s, want %s", i, got[i].Title, want)
		}
	}
	if got[n].URL != got[0].URL {
		t.Fatalf("duplicate link not kept: %s", got[n].URL)
	}
	if f.maxSeen > workers+1 {
		t.Fatalf("in-flight fetches peaked at %d, limit %d", f.maxSeen, workers+1)
	}
}

func TestWalkCategorySiteIsDateMajor(t *testing.T) {
	f := newFakeFetcher()
	f.pages["https://www.banglanews24.com/"] = `<html><body><ul>
<li class="dropdown"><a href="/national">n</a></li>
<li class="dropdown"><a href="/sports">s</a></li>
</ul></body></html>`
	f.pages["https://www.banglanews24.com/national?date=2024/03/01"] = archivePage(
		"https://www.banglanews24.com/national/news/bd/1.details",
		"https://www.banglanews24.com/national/news/in/2.details",
	)
	f.pages["https://www.banglanews24.com/national/news/bd/1.details"] = `<html><body>
<img class="lazy-load" alt="Headline"><span class="time">আপডেট: 10:00</span>
<div class="row news-source"><span>Desk | Dhaka</span></div>
<article><p>Body. সৌজন্যে: x</p></article>
<div class="section-page-title"><h1>National</h1></div></body></html>`

	res, err := NewWalker(f, Options{CategoryTimeout: 5 * time.Second, PageTimeout: 10 * time.Second}, nil).
		Walk(context.Background(), adapterFor(t, sites.BanglaNews24()), day(2024, time.March, 1), day(2024, time.March, 2))
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	archives := f.callURLs(func(u string) bool { return strings.Contains(u, "?date=") })
	want := []string{
		"https://www.banglanews24.com/national?date=2024/03/01",
		"https://www.banglanews24.com/sports?date=2024/03/01",
		"https://www.banglanews24.com/national?date=2024/03/02",
		"https://www.banglanews24.com/sports?date=2024/03/02",
	}
	if diff := cmp.Diff(want, archives); diff != "" {
		t.Fatalf("archive order (-want +got):\n%s", diff)
	}

	f.mu.Lock()
	first := f.calls[0]
	f.mu.Unlock()
	if first.url != "https://www.banglanews24.com/" || first.timeout != 5*time.Second {
		t.Fatalf("discovery call = %+v", first)
	}

	wantRec := []domain.ArticleRecord{{
		Title:    "Headline",
		Date:     "10:00",
		Author:   "Desk",
		Content:  "Body.",
		Category: "National",
		URL:      "https://www.banglanews24.com/national/news/bd/1.details",
	}}
	if diff := cmp.Diff(wantRec, res.Records()); diff != "" {
		t.Fatalf("records (-want +got):\n%s", diff)
	}
}

func TestWalkCategoryDiscoveryFailureReturnsEmpty(t *testing.T) {
	f := newFakeFetcher()
	f.fail["https://www.banglanews24.com/"] = errors.New("timeout")

	res, err := NewWalker(f, Options{}, nil).Walk(context.Background(), adapterFor(t, sites.BanglaNews24()), day(2024, time.March, 1), day(2024, time.March, 3))
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if res.Len() != 0 || f.callCount() != 1 {
		t.Fatalf("records=%d fetches=%d", res.Len(), f.callCount())
	}
}

func TestWalkStopsOnCancelledContext(t *testing.T) {
	f := newFakeFetcher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewWalker(f, Options{}, nil).Walk(ctx, adapterFor(t, sites.BDPratidin()), day(2024, time.March, 1), day(2024, time.March, 5))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res == nil || res.Len() != 0 || f.callCount() != 0 {
		t.Fatalf("unexpected work after cancel: %d fetches", f.callCount())
	}
}
