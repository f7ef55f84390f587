package sites

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Adda-Baaj/khobor-archiver/internal/fileconfig"
)

// Package sites contains the per-site crawl definitions (YAML/JSON) and the
// adapters built from them.

const (
	// TypeDailyArchive sites publish one archive page per day.
	TypeDailyArchive = "daily_archive"
	// TypeCategoryArchive sites publish one archive page per (category, day) pair;
	// the categories are discovered from an index page before the walk starts.
	TypeCategoryArchive = "category_archive"
)

// Site is one crawlable news site as declared in the sites file.
type Site struct {
	ID               string         `json:"id" yaml:"id"`
	Name             string         `json:"name" yaml:"name"`
	Type             string         `json:"type" yaml:"type"`
	ArchiveURL       string         `json:"archive_url" yaml:"archive_url"`
	CategoryIndexURL string         `json:"category_index_url" yaml:"category_index_url"`
	CategorySelector string         `json:"category_selector" yaml:"category_selector"`
	LinkBase         string         `json:"link_base" yaml:"link_base"`
	LinkRule         LinkRule       `json:"link_rule" yaml:"link_rule"`
	Fields           FieldSet       `json:"fields" yaml:"fields"`
	Config           map[string]any `json:"config" yaml:"config"`
}

// FieldSet groups the selectors for the five extracted record fields.
type FieldSet struct {
	Title    FieldSelector   `json:"title" yaml:"title"`
	Date     FieldSelector   `json:"date" yaml:"date"`
	Author   FieldSelector   `json:"author" yaml:"author"`
	Content  ContentSelector `json:"content" yaml:"content"`
	Category FieldSelector   `json:"category" yaml:"category"`
}

type configFile struct {
	Sites []Site `json:"sites" yaml:"sites"`
}

// Registry holds validated site definitions keyed by id.
type Registry struct {
	mu    sync.RWMutex
	sites []Site
	idx   map[string]Site
}

// NewRegistry sanitizes and validates the given sites.
func NewRegistry(sites ...Site) (*Registry, error) {
	if len(sites) == 0 {
		return nil, errors.New("no sites configured")
	}

	reg := &Registry{
		sites: make([]Site, 0, len(sites)),
		idx:   make(map[string]Site, len(sites)),
	}
	for i := range sites {
		s := sanitizeSite(sites[i])
		if err := validateSite(s); err != nil {
			return nil, fmt.Errorf("sites[%d]: %w", i, err)
		}
		if _, exists := reg.idx[s.ID]; exists {
			return nil, fmt.Errorf("duplicate site id %q", s.ID)
		}
		reg.sites = append(reg.sites, s)
		reg.idx[s.ID] = s
	}
	return reg, nil
}

// LoadRegistry loads site definitions from a YAML or JSON file.
func LoadRegistry(path string) (*Registry, error) {
	var cfg configFile
	if err := fileconfig.Load(path, "sites", &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Sites) == 0 {
		return nil, errors.New("sites file contains no sites entries")
	}
	return NewRegistry(cfg.Sites...)
}

func sanitizeSite(s Site) Site {
	s.ID = strings.ToLower(strings.TrimSpace(s.ID))
	s.Name = strings.TrimSpace(s.Name)
	s.Type = strings.ToLower(strings.TrimSpace(s.Type))
	s.ArchiveURL = strings.TrimSpace(s.ArchiveURL)
	s.CategoryIndexURL = strings.TrimSpace(s.CategoryIndexURL)
	s.CategorySelector = strings.TrimSpace(s.CategorySelector)
	s.LinkBase = strings.TrimSpace(s.LinkBase)
	s.Fields.Content = s.Fields.Content.withDefaults()

	if s.Name == "" {
		s.Name = s.ID
	}
	if s.Config == nil {
		s.Config = map[string]any{}
	}
	return s
}

func validateSite(s Site) error {
	if s.ID == "" {
		return errors.New("id is required")
	}
	if s.ArchiveURL == "" {
		return fmt.Errorf("archive_url is required for site %q", s.ID)
	}
	if !strings.Contains(s.ArchiveURL, placeholderDate) {
		return fmt.Errorf("archive_url for site %q must contain %s", s.ID, placeholderDate)
	}
	if s.LinkRule.Segments <= 0 {
		return fmt.Errorf("link_rule.segments must be positive for site %q", s.ID)
	}
	for pos := range s.LinkRule.Tokens {
		if pos < 0 || pos >= s.LinkRule.Segments {
			return fmt.Errorf("link_rule.tokens position %d out of range for site %q", pos, s.ID)
		}
	}
	for pos := range s.LinkRule.Prefixes {
		if pos < 0 || pos >= s.LinkRule.Segments {
			return fmt.Errorf("link_rule.prefixes position %d out of range for site %q", pos, s.ID)
		}
	}
	if err := s.Fields.Content.validate(); err != nil {
		return fmt.Errorf("fields.content for site %q: %w", s.ID, err)
	}

	switch s.Type {
	case TypeDailyArchive:
	case TypeCategoryArchive:
		if s.CategoryIndexURL == "" {
			return fmt.Errorf("category_index_url is required for site %q", s.ID)
		}
		if s.CategorySelector == "" {
			return fmt.Errorf("category_selector is required for site %q", s.ID)
		}
		if !strings.Contains(s.ArchiveURL, placeholderCategory) {
			return fmt.Errorf("archive_url for site %q must contain %s", s.ID, placeholderCategory)
		}
	case "":
		return fmt.Errorf("type is required for site %q", s.ID)
	default:
		return fmt.Errorf("unsupported type %q for site %q", s.Type, s.ID)
	}
	return nil
}

// ByID returns the site definition for id.
func (r *Registry) ByID(id string) (Site, bool) {
	if r == nil {
		return Site{}, false
	}
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return Site{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.idx[id]
	return s, ok
}

// All returns all configured sites in file order.
func (r *Registry) All() []Site {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Site, len(r.sites))
	copy(out, r.sites)
	return out
}

// IDs lists the configured site ids in file order.
func (r *Registry) IDs() []string {
	all := r.All()
	ids := make([]string, 0, len(all))
	for _, s := range all {
		ids = append(ids, s.ID)
	}
	return ids
}
