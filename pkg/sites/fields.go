package sites

import (
	"fmt"
	"strings"

	"github.com/Adda-Baaj/khobor-archiver/internal/domain"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

const (
	// MarkerScopeArticle stops collecting content for the whole article at the
	// first marker sentence.
	MarkerScopeArticle = "article"
	// MarkerScopeParagraph drops the rest of the marker's paragraph only.
	MarkerScopeParagraph = "paragraph"

	defaultParagraphSelector = "p"
	defaultParagraphJoin     = "\n"
	defaultSentenceDelimiter = "."
)

// FieldSelector locates one scalar field.
//
// Selector picks the anchor (first match). When Child is set the value comes
// from the Index-th match of Child inside the anchor; a negative Index counts
// from the end. Attr reads an attribute instead of text. Remove strips every
// occurrence of the listed strings, and Split/SplitIndex keep one part of the
// value.
type FieldSelector struct {
	Selector   string   `json:"selector" yaml:"selector"`
	Child      string   `json:"child" yaml:"child"`
	Index      int      `json:"index" yaml:"index"`
	Attr       string   `json:"attr" yaml:"attr"`
	Remove     []string `json:"remove" yaml:"remove"`
	Split      string   `json:"split" yaml:"split"`
	SplitIndex int      `json:"split_index" yaml:"split_index"`
}

// ContentSelector locates the article body.
type ContentSelector struct {
	Container         string   `json:"container" yaml:"container"`
	Paragraph         string   `json:"paragraph" yaml:"paragraph"`
	Join              string   `json:"join" yaml:"join"`
	Markers           []string `json:"markers" yaml:"markers"`
	MarkerScope       string   `json:"marker_scope" yaml:"marker_scope"`
	SentenceDelimiter string   `json:"sentence_delimiter" yaml:"sentence_delimiter"`
}

func (c ContentSelector) withDefaults() ContentSelector {
	c.Container = strings.TrimSpace(c.Container)
	c.Paragraph = strings.TrimSpace(c.Paragraph)
	if c.Paragraph == "" {
		c.Paragraph = defaultParagraphSelector
	}
	if c.Join == "" {
		c.Join = defaultParagraphJoin
	}
	if c.SentenceDelimiter == "" {
		c.SentenceDelimiter = defaultSentenceDelimiter
	}
	c.MarkerScope = strings.ToLower(strings.TrimSpace(c.MarkerScope))
	if c.MarkerScope == "" {
		c.MarkerScope = MarkerScopeArticle
	}

	markers := make([]string, 0, len(c.Markers))
	for _, m := range c.Markers {
		if m = strings.TrimSpace(m); m != "" {
			markers = append(markers, norm.NFC.String(m))
		}
	}
	c.Markers = markers
	return c
}

func (c ContentSelector) validate() error {
	switch c.MarkerScope {
	case MarkerScopeArticle, MarkerScopeParagraph:
		return nil
	default:
		return fmt.Errorf("unsupported marker_scope %q", c.MarkerScope)
	}
}

// extractRecord runs every field lookup independently; a miss leaves the
// field at domain.Unknown.
func extractRecord(doc *goquery.Document, fields FieldSet) domain.ArticleRecord {
	rec := domain.NewArticleRecord()
	if doc == nil {
		return rec
	}

	if v, ok := fields.Title.extract(doc); ok {
		rec.Title = v
	}
	if v, ok := fields.Date.extract(doc); ok {
		rec.Date = v
	}
	if v, ok := fields.Author.extract(doc); ok {
		rec.Author = v
	}
	if v, ok := fields.Content.extract(doc); ok {
		rec.Content = v
	}
	if v, ok := fields.Category.extract(doc); ok {
		rec.Category = v
	}
	return rec
}

func (f FieldSelector) extract(doc *goquery.Document) (string, bool) {
	if strings.TrimSpace(f.Selector) == "" {
		return "", false
	}

	node := doc.Find(f.Selector).First()
	if node.Length() == 0 {
		return "", false
	}
	if f.Child != "" {
		matches := node.Find(f.Child)
		i, ok := normalizeIndex(f.Index, matches.Length())
		if !ok {
			return "", false
		}
		node = matches.Eq(i)
	}

	var value string
	if f.Attr != "" {
		attr, ok := node.Attr(f.Attr)
		if !ok {
			return "", false
		}
		value = attr
	} else {
		value = node.Text()
	}

	for _, r := range f.Remove {
		if r != "" {
			value = strings.ReplaceAll(value, r, "")
		}
	}
	if f.Split != "" {
		parts := strings.Split(value, f.Split)
		i, ok := normalizeIndex(f.SplitIndex, len(parts))
		if !ok {
			return "", false
		}
		value = parts[i]
	}

	value = normalizeSpace(value)
	return value, value != ""
}

func (c ContentSelector) extract(doc *goquery.Document) (string, bool) {
	c = c.withDefaults()

	root := doc.Selection
	if c.Container != "" {
		root = doc.Find(c.Container).First()
		if root.Length() == 0 {
			return "", false
		}
	}

	paragraphs := make([]string, 0, 16)
	root.Find(c.Paragraph).Each(func(_ int, p *goquery.Selection) {
		if text := normalizeSpace(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) == 0 {
		return "", false
	}

	var content string
	if len(c.Markers) == 0 {
		content = strings.Join(paragraphs, c.Join)
	} else {
		content = collectUntilMarker(paragraphs, c)
	}
	return content, content != ""
}

// collectUntilMarker walks paragraphs sentence by sentence and drops every
// sentence from the first marker sentence on, either for the rest of that
// paragraph or for the rest of the article depending on MarkerScope.
func collectUntilMarker(paragraphs []string, c ContentSelector) string {
	kept := make([]string, 0, len(paragraphs)*4)
	seenMarker := false

	for _, p := range paragraphs {
		if seenMarker && c.MarkerScope == MarkerScopeArticle {
			break
		}
		for _, sentence := range strings.SplitAfter(p, c.SentenceDelimiter) {
			if startsWithMarker(sentence, c.Markers) {
				seenMarker = true
				break
			}
			kept = append(kept, sentence)
		}
	}
	return normalizeSpace(strings.Join(kept, " "))
}

func startsWithMarker(sentence string, markers []string) bool {
	s := norm.NFC.String(strings.TrimSpace(sentence))
	if s == "" {
		return false
	}
	for _, m := range markers {
		if strings.HasPrefix(s, m) {
			return true
		}
	}
	return false
}

func normalizeIndex(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, false
	}
	return i, true
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
