package sites

import (
	"strings"
	"testing"

	"github.com/Adda-Baaj/khobor-archiver/internal/domain"
	"github.com/google/go-cmp/cmp"
)

const pratidinArticle = `<html><body>
<ol class="breadcrumb"><li>প্রচ্ছদ</li><li>জাতীয়</li><li>সংবাদ</li></ol>
<h1> ঢাকায় বৃষ্টি  </h1>
<div class="row p-3"><span>৩০ মার্চ, ২০২৪ ১০:১৫</span><span>ignored</span></div>
<div class="news-info ps-3 my-3"><h2>নিজস্ব প্রতিবেদক</h2></div>
<p>প্রথম অনুচ্ছেদ।</p>
<p>দ্বিতীয়
অনুচ্ছেদ।</p>
</body></html>`

func TestExtractRecordDailySite(t *testing.T) {
	doc := mustDoc(t, pratidinArticle)
	got := extractRecord(doc, BDPratidin().Fields)

	want := domain.ArticleRecord{
		Title:    "ঢাকায় বৃষ্টি",
		Date:     "৩০ মার্চ, ২০২৪ ১০:১৫",
		Author:   "নিজস্ব প্রতিবেদক",
		Content:  "প্রথম অনুচ্ছেদ।\nদ্বিতীয় অনুচ্ছেদ।",
		Category: "জাতীয়",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

const newsArticleTemplate = `<html><body>
{{category}}
{{title}}
{{date}}
{{author}}
{{content}}
</body></html>`

var newsAnchors = map[string]string{
	"title":    `<img class="lazy-load" alt=" মেঘলা আকাশ " src="x.jpg">`,
	"date":     `<span class="time">আপডেট: ১২০৫ ঘণ্টা, মার্চ ৩১, ২০২৪</span>`,
	"author":   `<div class="row news-source"><span>স্টাফ করেসপন্ডেন্ট | বাংলানিউজটোয়েন্টিফোর</span></div>`,
	"content":  `<article><p>দিনের শুরুতে আকাশে মেঘ।</p></article>`,
	"category": `<div class="section-page-title"><h1>ক্রিকেট</h1></div>`,
}

func renderNewsArticle(present map[string]bool) string {
	out := newsArticleTemplate
	for name, html := range newsAnchors {
		if !present[name] {
			html = ""
		}
		out = strings.ReplaceAll(out, "{{"+name+"}}", html)
	}
	return out
}

func TestExtractRecordFieldsAreIndependent(t *testing.T) {
	full := domain.ArticleRecord{
		Title:    "মেঘলা আকাশ",
		Date:     "১২০৫ ঘণ্টা, মার্চ ৩১, ২০২৪",
		Author:   "স্টাফ করেসপন্ডেন্ট",
		Content:  "দিনের শুরুতে আকাশে মেঘ।",
		Category: "ক্রিকেট",
	}
	names := []string{"title", "date", "author", "content", "category"}
	fields := BanglaNews24().Fields
	fields.Content = fields.Content.withDefaults()

	for mask := 0; mask < 1<<len(names); mask++ {
		present := map[string]bool{}
		for i, n := range names {
			present[n] = mask&(1<<i) != 0
		}

		got := extractRecord(mustDoc(t, renderNewsArticle(present)), fields)

		want := domain.NewArticleRecord()
		if present["title"] {
			want.Title = full.Title
		}
		if present["date"] {
			want.Date = full.Date
		}
		if present["author"] {
			want.Author = full.Author
		}
		if present["content"] {
			want.Content = full.Content
		}
		if present["category"] {
			want.Category = full.Category
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("present=%v (-want +got):\n%s", present, diff)
		}
	}
}

func TestFieldSelectorMissingChildOrAttr(t *testing.T) {
	doc := mustDoc(t, `<html><body>
<ol class="breadcrumb"><li>only</li></ol>
<img class="lazy-load" src="x.jpg">
<div class="row news-source"></div>
</body></html>`)

	cases := map[string]FieldSelector{
		"index out of range": {Selector: "ol.breadcrumb", Child: "li", Index: -2},
		"missing attribute":  {Selector: "img.lazy-load", Attr: "alt"},
		"missing child":      {Selector: "div.row.news-source", Child: "span"},
		"empty selector":     {},
		"split out of range": {Selector: "ol.breadcrumb", Split: "|", SplitIndex: 3},
	}
	for name, sel := range cases {
		if v, ok := sel.extract(doc); ok {
			t.Errorf("%s: expected miss, got %q", name, v)
		}
	}
}

func bnContent(scope string) ContentSelector {
	c := BanglaNews24().Fields.Content
	c.MarkerScope = scope
	return c.withDefaults()
}

func TestContentTruncatesAtCourtesyMarker(t *testing.T) {
	doc := mustDoc(t, `<html><body><article>
<p>প্রথম বাক্য। আরও কথা.  দ্বিতীয়   বাক্য.</p>
<p>তৃতীয় বাক্য. সৌজন্যে: প্রথম আলো. শেষ কথা.</p>
<p>পরের অনুচ্ছেদ.</p>
</article></body></html>`)

	got, ok := bnContent(MarkerScopeArticle).extract(doc)
	if !ok {
		t.Fatalf("expected content")
	}
	want := "প্রথম বাক্য। আরও কথা. দ্বিতীয় বাক্য. তৃতীয় বাক্য."
	if got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
}

func TestContentParagraphScopeResumesWithNextParagraph(t *testing.T) {
	doc := mustDoc(t, `<html><body><article>
<p>প্রথম. বাংলাদেশ সময়: ১২০৩ ঘণ্টা. এমএইচবি</p>
<p>দ্বিতীয়.</p>
</article></body></html>`)

	got, ok := bnContent(MarkerScopeParagraph).extract(doc)
	if !ok {
		t.Fatalf("expected content")
	}
	if want := "প্রথম. দ্বিতীয়."; got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}

	got, _ = bnContent(MarkerScopeArticle).extract(doc)
	if want := "প্রথম."; got != want {
		t.Fatalf("article scope content = %q, want %q", got, want)
	}
}

func TestContentMarkerMatchesPrecomposedForm(t *testing.T) {
	// U+09DF is the precomposed form of the last letter in the marker.
	doc := mustDoc(t, "<html><body><article><p>খবর. বাংলাদেশ সম\u09df: ১২০৩ ঘণ্টা</p></article></body></html>")

	got, _ := bnContent(MarkerScopeArticle).extract(doc)
	if got != "খবর." {
		t.Fatalf("content = %q", got)
	}
}

func TestContentOnlyMarkerYieldsMiss(t *testing.T) {
	doc := mustDoc(t, `<html><body><article><p>সৌজন্যে: অন্য কাগজ</p></article></body></html>`)
	if v, ok := bnContent(MarkerScopeArticle).extract(doc); ok {
		t.Fatalf("expected miss, got %q", v)
	}
	rec := extractRecord(doc, BanglaNews24().Fields)
	if rec.Content != domain.Unknown {
		t.Fatalf("content = %q", rec.Content)
	}
}

func TestContentWithoutContainerUsesWholeDocument(t *testing.T) {
	doc := mustDoc(t, `<html><body><p>এক</p><p>   </p><div><p>দুই</p></div></body></html>`)
	got, ok := ContentSelector{}.withDefaults().extract(doc)
	if !ok || got != "এক\nদুই" {
		t.Fatalf("content = %q ok=%v", got, ok)
	}
}
