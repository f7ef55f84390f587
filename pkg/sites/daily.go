package sites

import (
	"strconv"
	"strings"
	"time"

	"github.com/Adda-Baaj/khobor-archiver/internal/domain"
	"github.com/PuerkitoBio/goquery"
)

const (
	placeholderDate     = "{date}"
	placeholderDay      = "{day}"
	placeholderCategory = "{category}"

	archiveDateLayout = "2006/01/02"
)

// dailyAdapter serves sites that expose a single archive page per day.
type dailyAdapter struct {
	site Site
}

func newDailyAdapter(site Site) (Adapter, error) {
	return &dailyAdapter{site: site}, nil
}

func (a *dailyAdapter) ID() string { return a.site.ID }

func (a *dailyAdapter) ArchiveURLs(day time.Time) []string {
	return []string{expandArchiveURL(a.site.ArchiveURL, day, "")}
}

func (a *dailyAdapter) FilterArticleLinks(doc *goquery.Document, pageURL string) []string {
	return filterLinks(doc, linkBase(a.site, pageURL), a.site.LinkRule)
}

func (a *dailyAdapter) ExtractFields(doc *goquery.Document) domain.ArticleRecord {
	return extractRecord(doc, a.site.Fields)
}

// expandArchiveURL fills the archive URL template for day and, when given, a category URL.
func expandArchiveURL(tmpl string, day time.Time, category string) string {
	r := strings.NewReplacer(
		placeholderDate, day.Format(archiveDateLayout),
		placeholderDay, strconv.Itoa(day.Day()),
		placeholderCategory, category,
	)
	return r.Replace(tmpl)
}

func linkBase(site Site, pageURL string) string {
	if site.LinkBase != "" {
		return site.LinkBase
	}
	return pageURL
}
