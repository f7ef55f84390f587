package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Fanout delivers article events to every configured publisher.
type Fanout struct {
	publishers []Publisher
}

// NewFanout builds a dispatcher over the non-nil entries of pubs.
func NewFanout(pubs []Publisher) *Fanout {
	f := &Fanout{}
	for _, p := range pubs {
		if p != nil {
			f.publishers = append(f.publishers, p)
		}
	}
	return f
}

// Size returns the number of active publishers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.publishers)
}

// Publish hands evt to each publisher and returns how many accepted it.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	accepted := 0
	var errs []error
	for _, p := range f.active() {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err))
			continue
		}
		accepted++
	}
	return accepted, errors.Join(errs...)
}

// PublishAll publishes events in order and returns the number of events that
// reached at least one publisher. Per-event failures are joined into the
// returned error. It stops early once ctx is done.
func (f *Fanout) PublishAll(ctx context.Context, events []Event) (int, error) {
	if f.Size() == 0 {
		return 0, nil
	}

	delivered := 0
	var errs []error
	for _, evt := range events {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		n, err := f.Publish(ctx, evt)
		if n > 0 {
			delivered++
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("article %s: %w", evt.Article.URL, err))
		}
	}
	return delivered, errors.Join(errs...)
}

// Close releases publishers that hold client connections.
func (f *Fanout) Close() error {
	return closeAll(f.active())
}

func (f *Fanout) active() []Publisher {
	if f == nil {
		return nil
	}
	return f.publishers
}

func closeAll(pubs []Publisher) error {
	var errs []error
	for _, p := range pubs {
		c, ok := p.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s publisher[%s]: %w", p.Type(), p.ID(), err))
		}
	}
	return errors.Join(errs...)
}
