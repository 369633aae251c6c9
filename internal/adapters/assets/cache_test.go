package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client)
}

func TestGetCacheFirst(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/css")
		_, _ = w.Write([]byte("body { margin: 0 }"))
	}))
	defer srv.Close()

	cache := newTestCache(t)
	ctx := context.Background()

	first, err := cache.Get(ctx, srv.URL+"/leaflet.css")
	if err != nil {
		t.Fatalf("cold get failed: %v", err)
	}
	if string(first.Body) != "body { margin: 0 }" || first.ContentType != "text/css" {
		t.Fatalf("unexpected asset: %+v", first)
	}

	second, err := cache.Get(ctx, srv.URL+"/leaflet.css")
	if err != nil {
		t.Fatalf("warm get failed: %v", err)
	}
	if string(second.Body) != string(first.Body) {
		t.Fatalf("warm body differs: %q", second.Body)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("origin hits = %d, want 1 (second get must be served from cache)", got)
	}
}

func TestPrefetchSkipsCachedAssets(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cache := newTestCache(t)
	ctx := context.Background()
	urls := []string{srv.URL + "/a.js", srv.URL + "/b.css"}

	if err := cache.Prefetch(ctx, urls); err != nil {
		t.Fatalf("prefetch failed: %v", err)
	}
	if err := cache.Prefetch(ctx, urls); err != nil {
		t.Fatalf("second prefetch failed: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("origin hits = %d, want 2 (one per asset, second pass cached)", got)
	}
}

func TestGetPropagatesOriginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	cache := newTestCache(t)
	if _, err := cache.Get(context.Background(), srv.URL+"/missing.js"); err == nil {
		t.Fatal("expected error for 404 origin response")
	}
}
