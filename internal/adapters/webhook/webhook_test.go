package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"geostation-service/internal/domain"
)

func TestNotifySendsFormFields(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("content type = %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		got = map[string]string{}
		for k := range r.PostForm {
			got[k] = r.PostForm.Get(k)
		}
	}))
	defer srv.Close()

	rec := domain.Record{
		ID:          "id-1",
		Name:        "Tank A",
		Address:     "12 Riverside",
		Position:    domain.Coordinate{Lat: 21.03, Lng: 105.85},
		Description: "Rusty",
		Images:      []string{"blob1", "blob2"},
	}

	if err := NewNotifier().Notify(context.Background(), srv.URL, rec); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	want := map[string]string{
		"id":          "id-1",
		"name":        "Tank A",
		"address":     "12 Riverside",
		"lat":         "21.03",
		"lng":         "105.85",
		"description": "Rusty",
		"image_count": "2",
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("field %q = %q, want %q (all: %v)", k, got[k], v, got)
		}
	}
	if _, ok := got["images"]; ok {
		t.Fatal("image blobs must not be transmitted")
	}
}

func TestNotifyReportsHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewNotifier().Notify(context.Background(), srv.URL, domain.Record{ID: "x"})
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
}

func TestNotifyRejectsEmptyEndpoint(t *testing.T) {
	if err := NewNotifier().Notify(context.Background(), "  ", domain.Record{}); err == nil {
		t.Fatal("expected error for empty endpoint")
	}
}
