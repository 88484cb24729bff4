package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetSendsHeadersAndReadsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "harvester-test" {
			t.Errorf("User-Agent = %q; want harvester-test", got)
		}
		if got := r.Header.Get("Accept"); got != "application/rss+xml" {
			t.Errorf("Accept = %q; want application/rss+xml", got)
		}
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	c := New(Options{Timeout: 5 * time.Second, ConnectTimeout: time.Second, UserAgent: "harvester-test"})
	resp, err := c.Get(context.Background(), srv.URL, map[string]string{"Accept": "application/rss+xml"})
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if resp.StatusCode() != http.StatusTeapot {
		t.Fatalf("status = %d; want %d", resp.StatusCode(), http.StatusTeapot)
	}
	if string(resp.Body()) != "hello" {
		t.Fatalf("body = %q; want hello", resp.Body())
	}
}

func TestGetTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewRestyClient(50 * time.Millisecond)
	if _, err := c.Get(context.Background(), srv.URL, nil); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestGetMalformedURL(t *testing.T) {
	c := NewRestyClient(time.Second)
	if _, err := c.Get(context.Background(), "://not a url", nil); err == nil {
		t.Fatal("expected error for malformed url")
	}
}
