package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Adda-Baaj/khobor-archiver/internal/config"
	"github.com/Adda-Baaj/khobor-archiver/internal/crawler"
	"github.com/Adda-Baaj/khobor-archiver/internal/domain"
	"github.com/Adda-Baaj/khobor-archiver/internal/logger"
	"github.com/Adda-Baaj/khobor-archiver/internal/storage"
	"github.com/Adda-Baaj/khobor-archiver/pkg/httpclient"
	"github.com/Adda-Baaj/khobor-archiver/pkg/publishers"
	"github.com/Adda-Baaj/khobor-archiver/pkg/sites"
)

const outputFileSuffix = "_articles.json"

// Request describes one crawl: a site and an inclusive date range.
type Request struct {
	SiteID     string
	Start      time.Time
	End        time.Time
	OutputPath string
}

// Result summarizes a finished crawl.
type Result struct {
	SiteID     string
	RunID      string
	OutputPath string
	Records    []domain.ArticleRecord
	Published  int
	Elapsed    time.Duration
}

// Archiver wires site definitions, the crawler and the result sinks together.
type Archiver struct {
	cfg        *config.Config
	sites      *sites.Registry
	adapters   sites.AdapterRegistry
	fanout     *publishers.Fanout
	store      storage.Store
	log        logger.Logger
	newFetcher func(site sites.Site) crawler.PageFetcher
}

// NewArchiver builds an archiver runtime from config files.
func NewArchiver(ctx context.Context, cfg *config.Config, log logger.Logger) (*Archiver, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	siteReg, err := loadSites(cfg.SitesFile, log)
	if err != nil {
		return nil, fmt.Errorf("load sites registry: %w", err)
	}
	log.InfoObj("sites registry loaded", "sites_meta", map[string]any{
		"count": len(siteReg.IDs()),
		"ids":   siteReg.IDs(),
	})

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		RunTTL:          cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"run_ttl_seconds":          int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	return &Archiver{
		cfg:        cfg,
		sites:      siteReg,
		adapters:   sites.DefaultAdapterRegistry(),
		fanout:     fanout,
		store:      store,
		log:        log,
		newFetcher: httpFetcher,
	}, nil
}

// loadSites reads the sites file, falling back to the built-in definitions
// when no file is configured or present.
func loadSites(path string, log logger.Logger) (*sites.Registry, error) {
	log = logger.Ensure(log)
	path = strings.TrimSpace(path)
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return sites.LoadRegistry(path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat sites file: %w", err)
		}
	}
	log.WarnObj("sites file not found; using built-in sites", "sites_file", path)
	return sites.DefaultRegistry()
}

func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(path) == "" {
		return publishers.NewFanout(nil), nil
	}

	reg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := reg.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, c := range enabled {
		summaries = append(summaries, map[string]string{"id": c.ID, "type": c.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs), nil
}

func httpFetcher(site sites.Site) crawler.PageFetcher {
	return crawler.NewHTTPFetcher(httpclient.NewRestyClient(0), sites.Headers(site))
}

// SiteIDs lists the configured sites.
func (a *Archiver) SiteIDs() []string {
	if a == nil {
		return nil
	}
	return a.sites.IDs()
}

// Run crawls one site for the requested dates, writes the JSON output file,
// stores the run and publishes every record. On cancellation the partial
// results are still written and the context error is returned.
func (a *Archiver) Run(ctx context.Context, req Request) (Result, error) {
	if a == nil || a.sites == nil {
		return Result{}, fmt.Errorf("archiver is not initialized")
	}

	site, ok := a.sites.ByID(req.SiteID)
	if !ok {
		return Result{}, &crawler.ConfigurationError{Reason: fmt.Sprintf("unknown site %q (known: %s)", req.SiteID, strings.Join(a.sites.IDs(), ", "))}
	}
	adapter, err := a.adapters.AdapterFor(site)
	if err != nil {
		return Result{}, &crawler.ConfigurationError{Reason: err.Error()}
	}

	started := time.Now()
	res := Result{
		SiteID:     site.ID,
		RunID:      runID(site.ID, req.Start, req.End),
		OutputPath: a.outputPath(site.ID, req.OutputPath),
	}
	a.log.InfoObj("crawl started", "crawl_meta", map[string]any{
		"site_id": site.ID,
		"start":   req.Start.Format(time.DateOnly),
		"end":     req.End.Format(time.DateOnly),
		"workers": a.cfg.Workers,
	})

	walker := crawler.NewWalker(a.newFetcher(site), crawler.Options{
		Workers:         a.cfg.Workers,
		PageTimeout:     a.cfg.PageTimeout,
		CategoryTimeout: a.cfg.CategoryTimeout,
	}, a.log)

	collection, walkErr := walker.Walk(ctx, adapter, req.Start, req.End)
	if collection == nil {
		return res, walkErr
	}
	res.Records = collection.Records()

	if collection.Dispatched() == 0 && fileExists(res.OutputPath) {
		a.log.WarnObj("no article links found; keeping existing output", "crawl_meta", map[string]any{
			"site_id": site.ID,
			"output":  res.OutputPath,
		})
	} else if err := storage.WriteJSON(res.OutputPath, res.Records); err != nil {
		return res, errors.Join(walkErr, fmt.Errorf("write output: %w", err))
	}
	if err := a.store.SaveRun(res.RunID, res.Records); err != nil {
		a.log.ErrorObj("run store save failed", "storage_error", map[string]any{
			"run_id": res.RunID,
			"error":  err.Error(),
		})
	}
	if walkErr == nil {
		res.Published = a.publish(ctx, site, res.Records)
	}

	res.Elapsed = time.Since(started)
	a.log.InfoObj("crawl completed", "crawl_meta", map[string]any{
		"site_id":    site.ID,
		"records":    len(res.Records),
		"published":  res.Published,
		"output":     res.OutputPath,
		"elapsed_ms": res.Elapsed.Milliseconds(),
	})
	return res, walkErr
}

// publish fans every record out to the configured publishers. Failures are
// logged and never fail the run.
func (a *Archiver) publish(ctx context.Context, site sites.Site, records []domain.ArticleRecord) int {
	if a.fanout.Size() == 0 {
		return 0
	}

	events := make([]publishers.Event, 0, len(records))
	for _, rec := range records {
		events = append(events, publishers.NewEvent(site.ID, site.Name, rec))
	}
	delivered, err := a.fanout.PublishAll(ctx, events)
	if err != nil {
		a.log.WarnObj("article publish incomplete", "publish_error", map[string]any{
			"site_id":   site.ID,
			"delivered": delivered,
			"records":   len(records),
			"error":     err.Error(),
		})
	}
	return delivered
}

func (a *Archiver) outputPath(siteID, override string) string {
	if p := strings.TrimSpace(override); p != "" {
		return p
	}
	return filepath.Join(a.cfg.OutputDir, siteID+outputFileSuffix)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func runID(siteID string, start, end time.Time) string {
	return fmt.Sprintf("%s_%s_%s", siteID, start.Format(time.DateOnly), end.Format(time.DateOnly))
}

// Close releases publishers and the run store.
func (a *Archiver) Close() error {
	if a == nil {
		return nil
	}
	return errors.Join(a.fanout.Close(), a.store.Close())
}
