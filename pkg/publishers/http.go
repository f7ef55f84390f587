package publishers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/khobor-archiver/internal/logger"
	"github.com/Adda-Baaj/khobor-archiver/pkg/httpclient"
	"github.com/go-resty/resty/v2"
)

const (
	maxErrorSnippet = 512

	// Filter attributes travel as headers on webhook deliveries.
	headerSiteID   = "X-Khobor-Site"
	headerCategory = "X-Khobor-Category"
)

// httpPublisher posts each article event as a JSON document to a webhook.
type httpPublisher struct {
	endpoint
	method  string
	url     string
	headers map[string]string
	client  *resty.Client
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	return &httpPublisher{
		endpoint: endpoint{id: cfg.ID, typ: TypeHTTP, log: logger.Ensure(log)},
		method:   cfg.HTTP.Method,
		url:      cfg.HTTP.URL,
		headers:  cfg.HTTP.Headers,
		client:   httpclient.NewRestyHTTPClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second),
	}, nil
}

func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	msg, err := encodeEvent(evt)
	if err != nil {
		return err
	}

	req := h.client.R().
		SetContext(ctx).
		SetHeaders(h.headers).
		SetHeader("Content-Type", "application/json").
		SetHeader(headerSiteID, msg.attrs[AttrSiteID]).
		SetBody(msg.body)
	if c, ok := msg.attrs[AttrCategory]; ok {
		req.SetHeader(headerCategory, c)
	}

	resp, err := req.Execute(h.method, h.url)
	if err != nil {
		return h.failed(evt, "http request", err)
	}
	if resp.IsError() {
		return h.failed(evt, "http response", fmt.Errorf("status %d: %s", resp.StatusCode(), errorSnippet(resp.Body())))
	}
	h.delivered(evt, "")
	return nil
}

func errorSnippet(body []byte) string {
	if len(body) > maxErrorSnippet {
		body = body[:maxErrorSnippet]
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return s
	}
	return "empty body"
}
