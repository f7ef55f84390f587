package sites

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LinkRule decides whether an href on an archive page points at an article.
// The href is split on "/" and must have exactly Segments parts; Tokens pins
// literal parts and Prefixes pins part prefixes, both keyed by position.
type LinkRule struct {
	Segments int            `json:"segments" yaml:"segments"`
	Tokens   map[int]string `json:"tokens" yaml:"tokens"`
	Prefixes map[int]string `json:"prefixes" yaml:"prefixes"`
}

// Match reports whether href satisfies the rule. It looks at nothing but href.
func (r LinkRule) Match(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" || r.Segments <= 0 {
		return false
	}

	parts := strings.Split(href, "/")
	if len(parts) != r.Segments {
		return false
	}
	for pos, want := range r.Tokens {
		if pos < 0 || pos >= len(parts) || parts[pos] != want {
			return false
		}
	}
	for pos, prefix := range r.Prefixes {
		if pos < 0 || pos >= len(parts) || !strings.HasPrefix(parts[pos], prefix) {
			return false
		}
	}
	return true
}

// filterLinks returns, in document order, every anchor href accepted by rule,
// resolved against base. Repeated links are kept.
func filterLinks(doc *goquery.Document, base string, rule LinkRule) []string {
	if doc == nil {
		return nil
	}
	baseURL, err := url.Parse(base)
	if err != nil || base == "" {
		baseURL = nil
	}

	var out []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if !rule.Match(href) {
			return
		}
		out = append(out, resolveURL(baseURL, href))
	})
	return out
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil || base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
