package sites

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Adda-Baaj/khobor-archiver/internal/domain"
	"github.com/PuerkitoBio/goquery"
)

// categoryAdapter serves sites whose archives are browsed per category with a
// date query. Until Discover runs it has no categories and yields no archive URLs.
type categoryAdapter struct {
	site       Site
	categories []string
}

func newCategoryAdapter(site Site) (Adapter, error) {
	return &categoryAdapter{site: site}, nil
}

func (a *categoryAdapter) ID() string { return a.site.ID }

// Categories returns the discovered category URLs.
func (a *categoryAdapter) Categories() []string {
	out := make([]string, len(a.categories))
	copy(out, a.categories)
	return out
}

func (a *categoryAdapter) ArchiveURLs(day time.Time) []string {
	urls := make([]string, 0, len(a.categories))
	for _, c := range a.categories {
		urls = append(urls, expandArchiveURL(a.site.ArchiveURL, day, c))
	}
	return urls
}

func (a *categoryAdapter) FilterArticleLinks(doc *goquery.Document, pageURL string) []string {
	return filterLinks(doc, linkBase(a.site, pageURL), a.site.LinkRule)
}

func (a *categoryAdapter) ExtractFields(doc *goquery.Document) domain.ArticleRecord {
	return extractRecord(doc, a.site.Fields)
}

// Discover fetches the category index page once and binds the category links
// found there to a copy of the adapter.
func (a *categoryAdapter) Discover(ctx context.Context, src DocumentSource, timeout time.Duration) (Adapter, error) {
	if src == nil {
		return nil, fmt.Errorf("site %s: document source is nil", a.site.ID)
	}

	doc, err := src.FetchDocument(ctx, a.site.CategoryIndexURL, timeout)
	if err != nil {
		return nil, fmt.Errorf("fetch %s categories: %w", a.site.ID, err)
	}

	categories := extractCategoryLinks(doc, a.site.CategoryIndexURL, a.site.CategorySelector)
	if len(categories) == 0 {
		return nil, fmt.Errorf("site %s: no categories matched %q", a.site.ID, a.site.CategorySelector)
	}

	return &categoryAdapter{site: a.site, categories: categories}, nil
}

// extractCategoryLinks takes the first link inside each element matched by
// selector, in document order.
func extractCategoryLinks(doc *goquery.Document, indexURL, selector string) []string {
	base, err := url.Parse(indexURL)
	if err != nil || indexURL == "" {
		base = nil
	}

	var out []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Find("a[href]").First().Attr("href")
		if !ok {
			return
		}
		if href = strings.TrimSpace(href); href == "" || strings.HasPrefix(href, "#") {
			return
		}
		out = append(out, resolveURL(base, href))
	})
	return out
}
