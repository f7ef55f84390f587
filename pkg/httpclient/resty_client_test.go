package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRestyClientGetSendsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept-Language"); got != "bn-BD" {
			t.Errorf("Accept-Language = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != DefaultUserAgent {
			t.Errorf("User-Agent = %q", got)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>খবর</html>"))
	}))
	defer srv.Close()

	client := NewRestyClient(time.Second)
	resp, err := client.Get(context.Background(), srv.URL, map[string]string{"Accept-Language": "bn-BD"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode())
	}
	if string(resp.Body()) != "<html>খবর</html>" {
		t.Fatalf("body = %q", resp.Body())
	}
}

func TestRestyClientHonoursContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := NewRestyClient(0).Get(ctx, srv.URL, nil); err == nil {
		t.Fatalf("expected deadline error")
	}
}
