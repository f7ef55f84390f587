package sites

import (
	"context"
	"time"

	"github.com/Adda-Baaj/khobor-archiver/internal/domain"
	"github.com/PuerkitoBio/goquery"
)

// Adapter maps one site's archive and article markup onto ArticleRecords.
// Implementations are immutable and safe for concurrent use.
type Adapter interface {
	ID() string
	// ArchiveURLs lists the archive pages to visit for day, in visiting order.
	ArchiveURLs(day time.Time) []string
	// FilterArticleLinks returns the article URLs found on an archive page, in page order.
	FilterArticleLinks(doc *goquery.Document, pageURL string) []string
	// ExtractFields fills every record field except URL.
	ExtractFields(doc *goquery.Document) domain.ArticleRecord
}

// DocumentSource fetches and parses a page. It is handed to adapters that must
// look something up before the walk starts.
type DocumentSource interface {
	FetchDocument(ctx context.Context, url string, timeout time.Duration) (*goquery.Document, error)
}

// CategoryDiscoverer is implemented by adapters that need their category list
// before archive URLs can be built. Discover returns a new adapter bound to the
// discovered categories; the receiver is left untouched.
type CategoryDiscoverer interface {
	Discover(ctx context.Context, src DocumentSource, timeout time.Duration) (Adapter, error)
}
