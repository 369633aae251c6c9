package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"geostation-service/internal/adapters/mapbackend"
	"geostation-service/internal/adapters/store"
	"geostation-service/internal/domain"
	"geostation-service/internal/ports"
)

// Both factory arms return offline open-tile backends so tests never touch
// the network; the selector still exercises its real switching logic.
type testFactory struct{}

func (testFactory) Commercial(key string) (mapbackend.Backend, error) {
	return mapbackend.NewOSMBackend(nil), nil
}

func (testFactory) Fallback() (mapbackend.Backend, error) {
	return mapbackend.NewOSMBackend(nil), nil
}

type stubCaptioner struct {
	text string
	err  error
}

func (c *stubCaptioner) Caption(ctx context.Context, images [][]byte, position domain.Coordinate) (string, error) {
	return c.text, c.err
}

type stubNotifier struct {
	calls chan domain.Record
}

func (n *stubNotifier) Notify(ctx context.Context, endpoint string, rec domain.Record) error {
	n.calls <- rec
	return nil
}

func newTestStation(t *testing.T, captioner ports.Captioner, notifier ports.Notifier) (*Station, *store.MemoryKVStore) {
	t.Helper()
	kv := store.NewMemoryKVStore()
	selector := mapbackend.NewSelector(testFactory{}, "map", ports.MapView{
		Center: domain.Coordinate{Lat: 21.0278, Lng: 105.8342},
		Zoom:   13,
	})
	st := NewStation(kv, selector, captioner, notifier)
	if err := st.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := st.EnsureBackend(context.Background()); err != nil {
		t.Fatalf("ensure backend failed: %v", err)
	}
	return st, kv
}

func TestClickSubmitPersistsRecord(t *testing.T) {
	st, kv := newTestStation(t, nil, nil)
	ctx := context.Background()

	if err := st.Click(domain.Coordinate{Lat: 21.03, Lng: 105.85}); err != nil {
		t.Fatalf("click failed: %v", err)
	}
	sel := st.Selection()
	if sel == nil || sel.Lat != 21.03 || sel.Lng != 105.85 {
		t.Fatalf("selection = %+v, want the clicked coordinate", sel)
	}
	if st.ViewMode() != domain.ViewMap {
		t.Fatalf("view mode = %q, want map while selecting", st.ViewMode())
	}

	rec, err := st.Submit(ctx, SubmitInput{Name: "A", Address: "B"})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if rec.Position.Lat != 21.03 || rec.Position.Lng != 105.85 {
		t.Fatalf("record position = %+v", rec.Position)
	}
	if st.Selection() != nil {
		t.Fatal("selection not cleared after submit")
	}
	if got := st.Records(); len(got) != 1 || got[0].ID != rec.ID {
		t.Fatalf("records = %+v, want exactly the new record", got)
	}

	// Storage holds the updated full-list snapshot.
	raw, ok, err := kv.Get(ctx, KeyRecords)
	if err != nil || !ok {
		t.Fatalf("records snapshot missing: ok=%v err=%v", ok, err)
	}
	var persisted []domain.Record
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		t.Fatalf("parse snapshot: %v", err)
	}
	if len(persisted) != 1 || persisted[0].ID != rec.ID {
		t.Fatalf("persisted snapshot = %+v", persisted)
	}
}

func TestSelectionReplaceAndCancel(t *testing.T) {
	st, _ := newTestStation(t, nil, nil)

	if err := st.Click(domain.Coordinate{Lat: 1, Lng: 1}); err != nil {
		t.Fatalf("click failed: %v", err)
	}
	if err := st.Click(domain.Coordinate{Lat: 2, Lng: 2}); err != nil {
		t.Fatalf("second click failed: %v", err)
	}
	sel := st.Selection()
	if sel == nil || sel.Lat != 2 {
		t.Fatalf("selection = %+v, want the replacement click", sel)
	}

	st.CancelSelection()
	if st.Selection() != nil {
		t.Fatal("cancel did not clear the selection")
	}
}

func TestSubmitRequiredFields(t *testing.T) {
	st, kv := newTestStation(t, nil, nil)
	ctx := context.Background()

	pos := domain.Coordinate{Lat: 1, Lng: 1}
	if _, err := st.Submit(ctx, SubmitInput{Address: "B", Position: &pos}); err == nil {
		t.Fatal("expected error for missing name")
	}
	if _, err := st.Submit(ctx, SubmitInput{Name: "A", Position: &pos}); err == nil {
		t.Fatal("expected error for missing address")
	}
	// A blocked submission never persists anything.
	if _, ok, _ := kv.Get(ctx, KeyRecords); ok {
		t.Fatal("blocked submission wrote a snapshot")
	}

	if _, err := st.Submit(ctx, SubmitInput{Name: "A", Address: "B"}); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("err = %v, want ErrNoSelection", err)
	}
}

func TestSubmitImageLimit(t *testing.T) {
	st, _ := newTestStation(t, nil, nil)
	pos := domain.Coordinate{Lat: 1, Lng: 1}
	images := []string{"a", "b", "c", "d", "e"}
	if _, err := st.Submit(context.Background(), SubmitInput{Name: "A", Address: "B", Position: &pos, Images: images}); err == nil {
		t.Fatal("expected error for more than 4 images")
	}
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	st, _ := newTestStation(t, nil, nil)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		pos := domain.Coordinate{Lat: float64(i), Lng: float64(i)}
		rec, err := st.Submit(ctx, SubmitInput{Name: "S", Address: "A", Position: &pos})
		if err != nil {
			t.Fatalf("submit %d failed: %v", i, err)
		}
		ids = append(ids, rec.ID)
	}

	// Most recent first.
	got := st.Records()
	if got[0].ID != ids[2] || got[2].ID != ids[0] {
		t.Fatalf("order = %v, want most recent first", []string{got[0].ID, got[1].ID, got[2].ID})
	}

	if err := st.Delete(ctx, ids[1]); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	got = st.Records()
	if len(got) != 2 || got[0].ID != ids[2] || got[1].ID != ids[0] {
		t.Fatalf("records after delete = %+v, want order preserved", got)
	}

	if err := st.Delete(ctx, "missing"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestSubmitCaptionFallback(t *testing.T) {
	st, _ := newTestStation(t, &stubCaptioner{err: errors.New("quota exceeded")}, nil)
	pos := domain.Coordinate{Lat: 1, Lng: 1}
	img := "aGVsbG8=" // valid base64 so the captioner itself is reached

	rec, err := st.Submit(context.Background(), SubmitInput{Name: "A", Address: "B", Position: &pos, Images: []string{img}})
	if err != nil {
		t.Fatalf("captioning failure must not block saving: %v", err)
	}
	if rec.Description != CaptionFallback {
		t.Fatalf("description = %q, want the fixed fallback", rec.Description)
	}
}

func TestSubmitUsesCaptionWhenDescriptionBlank(t *testing.T) {
	st, _ := newTestStation(t, &stubCaptioner{text: "A pump house by the river."}, nil)
	pos := domain.Coordinate{Lat: 1, Lng: 1}

	rec, err := st.Submit(context.Background(), SubmitInput{Name: "A", Address: "B", Position: &pos, Images: []string{"aGVsbG8="}})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if rec.Description != "A pump house by the river." {
		t.Fatalf("description = %q", rec.Description)
	}

	// A typed description wins over captioning.
	rec, err = st.Submit(context.Background(), SubmitInput{Name: "A", Address: "B", Position: &pos, Description: "manual", Images: []string{"aGVsbG8="}})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if rec.Description != "manual" {
		t.Fatalf("description = %q, want the typed text", rec.Description)
	}
}

func TestSubmitFiresWebhook(t *testing.T) {
	notifier := &stubNotifier{calls: make(chan domain.Record, 1)}
	st, _ := newTestStation(t, nil, notifier)
	ctx := context.Background()

	if err := st.ApplySettings(ctx, domain.Settings{WebhookURL: "https://hooks.example/sheet"}); err != nil {
		t.Fatalf("apply settings failed: %v", err)
	}

	pos := domain.Coordinate{Lat: 1, Lng: 1}
	rec, err := st.Submit(ctx, SubmitInput{Name: "A", Address: "B", Position: &pos})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	select {
	case sent := <-notifier.calls:
		if sent.ID != rec.ID {
			t.Fatalf("webhook sent %q, want %q", sent.ID, rec.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was never fired")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	st, kv := newTestStation(t, nil, nil)
	ctx := context.Background()

	want := domain.Settings{MapKey: "X", WebhookURL: "Y"}
	if err := st.ApplySettings(ctx, want); err != nil {
		t.Fatalf("apply settings failed: %v", err)
	}

	// A fresh station loading from the same store sees the exact strings.
	reloaded := NewStation(kv, mapbackend.NewSelector(testFactory{}, "map", ports.MapView{}), nil, nil)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got := reloaded.Settings(); got != want {
		t.Fatalf("settings round-trip = %+v, want %+v", got, want)
	}
}

func TestClickOnMarkerDoesNotOpenForm(t *testing.T) {
	st, _ := newTestStation(t, nil, nil)
	ctx := context.Background()

	pos := domain.Coordinate{Lat: 5, Lng: 5}
	if _, err := st.Submit(ctx, SubmitInput{Name: "A", Address: "B", Position: &pos}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	// A click on the saved record's marker recenters instead of selecting.
	if err := st.Click(pos); err != nil {
		t.Fatalf("click failed: %v", err)
	}
	if st.Selection() != nil {
		t.Fatal("marker click must not create a selection")
	}
}

func TestClickWithoutBackend(t *testing.T) {
	kv := store.NewMemoryKVStore()
	selector := mapbackend.NewSelector(testFactory{}, "map", ports.MapView{})
	st := NewStation(kv, selector, nil, nil)

	if err := st.Click(domain.Coordinate{Lat: 1, Lng: 1}); !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("err = %v, want ErrBackendUnavailable", err)
	}
}
