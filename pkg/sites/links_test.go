package sites

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLinkRuleMatchDailyArchive(t *testing.T) {
	rule := BDPratidin().LinkRule

	cases := map[string]bool{
		"national/2024/03/30/982341":  true,
		"sports/2023/12/01/1":         true,
		"national/1999/03/30/982341":  false,
		"2024/03/30/982341":           false,
		"national/2024/03/30/98/2341": false,
		"/national/2024/03/30":        false,
		"":                            false,
	}
	for href, want := range cases {
		if got := rule.Match(href); got != want {
			t.Errorf("Match(%q) = %v, want %v", href, got, want)
		}
	}
}

func TestLinkRuleMatchCategoryArchive(t *testing.T) {
	rule := BanglaNews24().LinkRule

	cases := map[string]bool{
		"https://www.banglanews24.com/cricket/news/bd/1306708.details":        true,
		"https://www.banglanews24.com/cricket/news/in/1306708.details":        false,
		"https://www.banglanews24.com/cricket/photo/bd/1306708.details":       false,
		"https://www.banglanews24.com/cricket/news/bd/1306708.details/":       false,
		"https://www.banglanews24.com/cricket/news/bd":                        false,
		"https://www.banglanews24.com/sports/cricket/news/bd/1306708.details": false,
	}
	for href, want := range cases {
		if got := rule.Match(href); got != want {
			t.Errorf("Match(%q) = %v, want %v", href, got, want)
		}
	}
}

func TestFilterLinksIsPerLink(t *testing.T) {
	rule := BanglaNews24().LinkRule
	page := func(noise string) string {
		return `<html><body>
<a href="https://www.banglanews24.com/national/news/bd/1.details">one</a>
<a href="` + noise + `">noise</a>
<a href="https://www.banglanews24.com/politics/news/bd/2.details">two</a>
</body></html>`
	}

	want := []string{
		"https://www.banglanews24.com/national/news/bd/1.details",
		"https://www.banglanews24.com/politics/news/bd/2.details",
	}
	for _, noise := range []string{"/about", "https://www.banglanews24.com/a/b/c/d", "javascript:void(0)", "#top"} {
		doc := mustDoc(t, page(noise))
		got := filterLinks(doc, "https://www.banglanews24.com/national", rule)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("noise %q changed result (-want +got):\n%s", noise, diff)
		}
	}
}

func TestFilterLinksResolvesAgainstBaseAndKeepsRepeats(t *testing.T) {
	doc := mustDoc(t, `<html><body>
<a href="national/2024/03/30/11">a</a>
<a href="first-page/2024/03/30">nav</a>
<a>no href</a>
<a href="national/2024/03/30/11">a again</a>
<a href="sports/2024/03/30/12">b</a>
</body></html>`)

	got := filterLinks(doc, "https://www.bd-pratidin.com/", BDPratidin().LinkRule)
	want := []string{
		"https://www.bd-pratidin.com/national/2024/03/30/11",
		"https://www.bd-pratidin.com/national/2024/03/30/11",
		"https://www.bd-pratidin.com/sports/2024/03/30/12",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("filterLinks mismatch (-want +got):\n%s", diff)
	}
}
