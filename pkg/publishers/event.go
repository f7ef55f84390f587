package publishers

import (
	"time"

	"github.com/Adda-Baaj/khobor-archiver/internal/domain"
)

// Event represents the payload published downstream for one crawled article.
type Event struct {
	SiteID      string               `json:"site_id"`
	SiteName    string               `json:"site_name"`
	Article     domain.ArticleRecord `json:"article"`
	CollectedAt time.Time            `json:"collected_at"`
}

// NewEvent constructs an Event for the given site + article.
func NewEvent(siteID, siteName string, article domain.ArticleRecord) Event {
	return Event{
		SiteID:      siteID,
		SiteName:    siteName,
		Article:     article,
		CollectedAt: time.Now().UTC(),
	}
}
