package publishers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Adda-Baaj/khobor-archiver/internal/logger"
)

// Builder creates a Publisher from a sanitized, validated config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error)

// Registry maps publisher types to builders.
type Registry interface {
	Register(typ string, builder Builder)
	PublisherFor(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error)
}

type builderRegistry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry returns a registry holding builders.
func NewRegistry(builders map[string]Builder) Registry {
	r := &builderRegistry{builders: make(map[string]Builder, len(builders))}
	for typ, b := range builders {
		r.Register(typ, b)
	}
	return r
}

// DefaultRegistry knows every sink type the archiver ships with.
func DefaultRegistry() Registry {
	return NewRegistry(map[string]Builder{
		TypeHTTP:      newHTTPPublisher,
		TypeSQS:       newSQSPublisher,
		TypeSNS:       newSNSPublisher,
		TypeGCPPubSub: newGCPPubSubPublisher,
	})
}

// Register binds builder to typ. Blank types and nil builders are ignored.
func (r *builderRegistry) Register(typ string, builder Builder) {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if typ == "" || builder == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[typ] = builder
}

// PublisherFor sanitizes and validates cfg before handing it to the builder
// registered for its type, so entries built in code get the same defaults as
// entries loaded from a file.
func (r *builderRegistry) PublisherFor(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	cfg = sanitizePublisherConfig(cfg)
	if err := validatePublisherConfig(cfg); err != nil {
		return nil, err
	}

	r.mu.RLock()
	build, ok := r.builders[cfg.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("publisher %q: unsupported type %q", cfg.ID, cfg.Type)
	}
	return build(ctx, cfg, logger.Ensure(log))
}

// BuildAll builds a publisher per config. Every failing entry is reported;
// on any failure the publishers built so far are closed and none are returned.
func BuildAll(ctx context.Context, reg Registry, cfgs []PublisherConfig, log logger.Logger) ([]Publisher, error) {
	if reg == nil || len(cfgs) == 0 {
		return nil, nil
	}

	pubs := make([]Publisher, 0, len(cfgs))
	var errs []error
	for _, cfg := range cfgs {
		pub, err := reg.PublisherFor(ctx, cfg, log)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		pubs = append(pubs, pub)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, errors.Join(err, closeAll(pubs))
	}
	return pubs, nil
}
