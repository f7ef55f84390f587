package publishers

import (
	"encoding/json"
	"fmt"

	"github.com/Adda-Baaj/khobor-archiver/internal/domain"
	"github.com/Adda-Baaj/khobor-archiver/internal/logger"
)

// Message attribute names set on every broker message.
const (
	AttrSiteID   = "site_id"
	AttrCategory = "category"
)

// message is the broker-neutral form of an Event.
type message struct {
	body  []byte
	attrs map[string]string
}

// encodeEvent renders evt as JSON and derives the filter attributes. The
// category attribute is omitted when the article category is unknown.
func encodeEvent(evt Event) (message, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return message{}, fmt.Errorf("marshal event: %w", err)
	}
	attrs := map[string]string{AttrSiteID: evt.SiteID}
	if c := evt.Article.Category; c != "" && c != domain.Unknown {
		attrs[AttrCategory] = c
	}
	return message{body: body, attrs: attrs}, nil
}

// attributesAs converts string attributes into a broker SDK's attribute type.
func attributesAs[T any](attrs map[string]string, conv func(string) T) map[string]T {
	out := make(map[string]T, len(attrs))
	for k, v := range attrs {
		out[k] = conv(v)
	}
	return out
}

// endpoint is the identity and delivery logging shared by publishers.
type endpoint struct {
	id  string
	typ string
	log logger.Logger
}

func (e endpoint) ID() string   { return e.id }
func (e endpoint) Type() string { return e.typ }

func (e endpoint) delivered(evt Event, ref string) {
	fields := map[string]any{
		"publisher_id":   e.id,
		"publisher_type": e.typ,
		"url":            evt.Article.URL,
	}
	if ref != "" {
		fields["message_id"] = ref
	}
	logger.Ensure(e.log).DebugObj("article event delivered", "publisher_delivery", fields)
}

// failed logs a delivery failure and returns err wrapped with the action.
func (e endpoint) failed(evt Event, action string, err error) error {
	logger.Ensure(e.log).ErrorObj("article event delivery failed", "publisher_error", map[string]any{
		"publisher_id":   e.id,
		"publisher_type": e.typ,
		"url":            evt.Article.URL,
		"error":          err.Error(),
	})
	return fmt.Errorf("%s: %w", action, err)
}
