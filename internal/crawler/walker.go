package crawler

import (
	"context"
	"time"

	"github.com/Adda-Baaj/khobor-archiver/internal/logger"
	"github.com/Adda-Baaj/khobor-archiver/pkg/sites"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWorkers         = 4
	defaultPageTimeout     = 10 * time.Second
	defaultCategoryTimeout = 5 * time.Second
)

// Options tunes a Walker. Zero values take the defaults.
type Options struct {
	Workers         int
	PageTimeout     time.Duration
	CategoryTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = defaultWorkers
	}
	if o.PageTimeout <= 0 {
		o.PageTimeout = defaultPageTimeout
	}
	if o.CategoryTimeout <= 0 {
		o.CategoryTimeout = defaultCategoryTimeout
	}
	return o
}

// Walker visits a site's archive pages day by day and extracts every article
// linked from them.
type Walker struct {
	fetcher   PageFetcher
	extractor *Extractor
	opts      Options
	log       logger.Logger
}

// NewWalker wires a walker around fetcher.
func NewWalker(fetcher PageFetcher, opts Options, log logger.Logger) *Walker {
	opts = opts.withDefaults()
	return &Walker{
		fetcher:   fetcher,
		extractor: NewExtractor(fetcher, opts.PageTimeout),
		opts:      opts,
		log:       logger.Ensure(log),
	}
}

// Walk crawls every day in [start, end]. Page and article failures are logged
// and skipped. When ctx is cancelled the records gathered so far are returned
// together with ctx.Err().
func (w *Walker) Walk(ctx context.Context, adapter sites.Adapter, start, end time.Time) (*ResultCollection, error) {
	if w == nil || w.fetcher == nil {
		return nil, &ConfigurationError{Reason: "walker has no fetcher"}
	}
	if adapter == nil {
		return nil, &ConfigurationError{Reason: "site adapter is nil"}
	}
	if start.IsZero() || end.IsZero() {
		return nil, &ConfigurationError{Reason: "start and end dates are required"}
	}
	start, end = civilDate(start), civilDate(end)
	if start.After(end) {
		return nil, &ConfigurationError{Reason: "start date " + start.Format(time.DateOnly) + " is after end date " + end.Format(time.DateOnly)}
	}

	results := NewResultCollection()
	siteID := adapter.ID()

	if d, ok := adapter.(sites.CategoryDiscoverer); ok {
		bound, err := d.Discover(ctx, documentSource{fetcher: w.fetcher}, w.opts.CategoryTimeout)
		if err != nil {
			w.log.ErrorObj("category discovery failed", "walk_error", map[string]any{
				"site_id": siteID,
				"error":   err.Error(),
			})
			return results, ctx.Err()
		}
		adapter = bound
	}

	var g errgroup.Group
	g.SetLimit(w.opts.Workers)

	dispatched := 0
walk:
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		for _, pageURL := range adapter.ArchiveURLs(day) {
			if ctx.Err() != nil {
				break walk
			}

			links, err := w.archiveLinks(ctx, adapter, pageURL)
			if err != nil {
				w.log.WarnObj("archive page skipped", "archive_error", map[string]any{
					"site_id": siteID,
					"date":    day.Format(time.DateOnly),
					"url":     pageURL,
					"error":   err.Error(),
				})
				continue
			}
			w.log.DebugObj("archive page scanned", "archive_page", map[string]any{
				"site_id": siteID,
				"date":    day.Format(time.DateOnly),
				"url":     pageURL,
				"links":   len(links),
			})

			for _, link := range links {
				if ctx.Err() != nil {
					break walk
				}
				slot := results.reserve()
				dispatched++
				g.Go(func() error {
					rec, err := w.extractor.Extract(ctx, link, adapter)
					if err != nil {
						w.log.WarnObj("article skipped", "article_error", map[string]any{
							"site_id": siteID,
							"url":     link,
							"error":   err.Error(),
						})
						return nil
					}
					results.fill(slot, rec)
					return nil
				})
			}
		}
	}

	_ = g.Wait()

	w.log.InfoObj("site walk completed", "walk_result", map[string]any{
		"site_id":            siteID,
		"start":              start.Format(time.DateOnly),
		"end":                end.Format(time.DateOnly),
		"links_dispatched":   dispatched,
		"articles_collected": results.Len(),
	})
	return results, ctx.Err()
}

func (w *Walker) archiveLinks(ctx context.Context, adapter sites.Adapter, pageURL string) ([]string, error) {
	page, err := w.fetcher.Fetch(ctx, pageURL, w.opts.PageTimeout)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(page.Body)
	if err != nil {
		return nil, err
	}
	return adapter.FilterArticleLinks(doc, pageURL), nil
}

// civilDate drops the clock and zone, keeping the calendar date as UTC midnight.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
