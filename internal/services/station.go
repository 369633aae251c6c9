package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"geostation-service/internal/domain"
	"geostation-service/internal/ports"
)

// Storage keys. The whole application state lives under these two entries,
// each overwritten wholesale on every save.
const (
	KeySettings = "settings"
	KeyRecords  = "records"
)

var (
	// ErrNoSelection is returned when a form is submitted without a pending
	// map click and without an explicit coordinate.
	ErrNoSelection = errors.New("no pending map selection")

	// ErrRecordNotFound is returned by Delete for an unknown identity.
	ErrRecordNotFound = errors.New("record not found")

	// ErrBackendUnavailable is returned for map interactions while no
	// backend is rendering (script load failure, missing initialization).
	ErrBackendUnavailable = errors.New("map backend unavailable")
)

// CaptionFallback is the fixed apology text saved in place of a description
// whenever captioning fails. Captioning is never retried and never blocks a
// save.
const CaptionFallback = "Sorry, a description could not be generated for this station."

// Form fields for a new station. Position defaults to the pending selection.
type SubmitInput struct {
	Name        string
	Address     string
	Description string
	Images      []string
	Position    *domain.Coordinate
}

// Station is the host application: the single source of truth for the
// canonical record list, the pending selection and the view mode. All
// mutations run under one mutex — the stand-in for a UI's sequential event
// queue — and every mutation synchronously persists a full snapshot and
// re-reconciles markers through the active backend handle.
type Station struct {
	store     ports.KeyValueStore
	selector  ports.BackendSelector
	captioner ports.Captioner
	notifier  ports.Notifier

	mu         sync.Mutex
	records    []domain.Record
	selection  *domain.Coordinate
	storedMode domain.ViewMode
	settings   domain.Settings
	backendErr string
}

// NewStation wires the host app. Captioner and notifier are optional;
// without them descriptions stay as typed and nothing is synced outward.
func NewStation(store ports.KeyValueStore, selector ports.BackendSelector, captioner ports.Captioner, notifier ports.Notifier) *Station {
	return &Station{
		store:     store,
		selector:  selector,
		captioner: captioner,
		notifier:  notifier,
	}
}

// Load restores settings and records from storage. Missing keys mean a
// first run and load empty state.
func (s *Station) Load(ctx context.Context) error {
	raw, ok, err := s.store.Get(ctx, KeySettings)
	if err != nil {
		return fmt.Errorf("station load: read settings: %w", err)
	}
	var settings domain.Settings
	if ok {
		if err := json.Unmarshal([]byte(raw), &settings); err != nil {
			return fmt.Errorf("station load: parse settings: %w", err)
		}
	}

	raw, ok, err = s.store.Get(ctx, KeyRecords)
	if err != nil {
		return fmt.Errorf("station load: read records: %w", err)
	}
	var records []domain.Record
	if ok {
		if err := json.Unmarshal([]byte(raw), &records); err != nil {
			return fmt.Errorf("station load: parse records: %w", err)
		}
	}

	s.mu.Lock()
	s.settings = settings
	s.records = records
	s.mu.Unlock()
	return nil
}

// EnsureBackend (re)selects the map backend for the current settings,
// attaches the click handlers and renders the current marker set. A failure
// is remembered for the status banner but is never fatal: the app keeps
// running with a non-interactive map until the key is corrected.
func (s *Station) EnsureBackend(ctx context.Context) error {
	s.mu.Lock()
	settings := s.settings
	s.mu.Unlock()

	h, err := s.selector.Apply(ctx, settings)
	if err != nil {
		s.mu.Lock()
		s.backendErr = err.Error()
		s.mu.Unlock()
		return fmt.Errorf("ensure backend: %w", err)
	}

	h.OnMapClicked(s.onMapClick)
	h.OnMarkerClicked(s.onMarkerClick)

	s.mu.Lock()
	s.backendErr = ""
	records := s.copyRecordsLocked()
	selection := s.copySelectionLocked()
	s.mu.Unlock()

	h.SyncMarkers(records, selection)
	return nil
}

// Click routes a user click through the active backend, which decides
// whether it hit a marker or empty surface.
func (s *Station) Click(at domain.Coordinate) error {
	h := s.selector.Handle()
	if h == nil {
		return ErrBackendUnavailable
	}
	h.DispatchClick(at)
	return nil
}

// A click on empty surface replaces any pending selection with the new
// coordinate; at most one selection ever exists.
func (s *Station) onMapClick(at domain.Coordinate) {
	s.mu.Lock()
	sel := at
	s.selection = &sel
	records := s.copyRecordsLocked()
	selection := s.copySelectionLocked()
	s.mu.Unlock()

	s.syncMarkers(records, selection)
}

// A click on a marker re-centers the map on that record instead of opening
// the form.
func (s *Station) onMarkerClick(rec domain.Record) {
	if h := s.selector.Handle(); h != nil {
		h.SetView(rec.Position, 0)
	}
}

// CancelSelection discards the pending map click.
func (s *Station) CancelSelection() {
	s.mu.Lock()
	s.selection = nil
	records := s.copyRecordsLocked()
	s.mu.Unlock()

	s.syncMarkers(records, nil)
}

// Submit validates the form, builds the record (captioning it when the
// description is blank and photos are attached), persists the full snapshot,
// clears the selection and fires the best-effort webhook sync.
func (s *Station) Submit(ctx context.Context, in SubmitInput) (domain.Record, error) {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Record{}, errors.New("submit: name is required")
	}
	if strings.TrimSpace(in.Address) == "" {
		return domain.Record{}, errors.New("submit: address is required")
	}
	if len(in.Images) > domain.MaxImages {
		return domain.Record{}, fmt.Errorf("submit: at most %d images allowed, got %d", domain.MaxImages, len(in.Images))
	}

	s.mu.Lock()
	position := in.Position
	if position == nil {
		position = s.copySelectionLocked()
	}
	s.mu.Unlock()
	if position == nil {
		return domain.Record{}, ErrNoSelection
	}

	description := strings.TrimSpace(in.Description)
	if description == "" && len(in.Images) > 0 {
		description = s.describe(ctx, in.Images, *position)
	}

	rec := domain.NewRecord(strings.TrimSpace(in.Name), strings.TrimSpace(in.Address), description, *position, in.Images)

	s.mu.Lock()
	s.records = append([]domain.Record{rec}, s.records...)
	if err := s.persistRecordsLocked(ctx); err != nil {
		s.records = s.records[1:]
		s.mu.Unlock()
		return domain.Record{}, fmt.Errorf("submit: %w", err)
	}
	s.selection = nil
	records := s.copyRecordsLocked()
	webhookURL := s.settings.WebhookURL
	s.mu.Unlock()

	s.syncMarkers(records, nil)

	// Fire-and-forget: local persistence is authoritative, remote sync is
	// best-effort and never surfaced to the user.
	if s.notifier != nil && strings.TrimSpace(webhookURL) != "" {
		go func() {
			if err := s.notifier.Notify(context.Background(), webhookURL, rec); err != nil {
				log.Printf("webhook sync failed: id=%s err=%v", rec.ID, err)
			}
		}()
	}

	return rec, nil
}

// describe asks the captioner for a description, substituting the fixed
// fallback text on any failure. Captioning never blocks a save.
func (s *Station) describe(ctx context.Context, images []string, position domain.Coordinate) string {
	if s.captioner == nil {
		return ""
	}

	blobs, err := decodeImages(images)
	if err == nil {
		var text string
		text, err = s.captioner.Caption(ctx, blobs, position)
		if err == nil {
			return text
		}
	}
	log.Printf("captioning failed: %v", err)
	return CaptionFallback
}

// Delete removes exactly the record matching the identity, preserving the
// order of the rest, and persists the shrunken snapshot.
func (s *Station) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := -1
	for i, r := range s.records {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("delete %q: %w", id, ErrRecordNotFound)
	}

	prev := s.records
	// The full-cap slice forces append to reallocate, keeping prev intact
	// for rollback when the snapshot write fails.
	s.records = append(s.records[:idx:idx], s.records[idx+1:]...)
	if err := s.persistRecordsLocked(ctx); err != nil {
		s.records = prev
		s.mu.Unlock()
		return fmt.Errorf("delete %q: %w", id, err)
	}
	records := s.copyRecordsLocked()
	selection := s.copySelectionLocked()
	s.mu.Unlock()

	s.syncMarkers(records, selection)
	return nil
}

// ApplySettings overwrites the configuration wholesale, persists it and
// re-selects the map backend. The settings are saved even when the newly
// selected backend fails to come up.
func (s *Station) ApplySettings(ctx context.Context, settings domain.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("apply settings: marshal: %w", err)
	}
	if err := s.store.Put(ctx, KeySettings, string(raw)); err != nil {
		return fmt.Errorf("apply settings: %w", err)
	}

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()

	if err := s.EnsureBackend(ctx); err != nil {
		log.Printf("backend re-select failed: %v", err)
	}
	return nil
}

func (s *Station) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Station) Records() []domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyRecordsLocked()
}

func (s *Station) Selection() *domain.Coordinate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copySelectionLocked()
}

// SetViewMode stores the requested mode; the effective mode still forces the
// map while a selection is pending.
func (s *Station) SetViewMode(mode domain.ViewMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storedMode = mode
}

func (s *Station) ViewMode() domain.ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.EffectiveViewMode(s.storedMode, s.selection != nil)
}

// TileTemplate reports the raster tile URL template of the active backend,
// for clients that render tiles themselves. Empty for script-driven backends
// and while no backend is up.
func (s *Station) TileTemplate() string {
	if h := s.selector.Handle(); h != nil {
		return h.TileTemplate()
	}
	return ""
}

// BackendError reports the last backend initialization failure, for the
// "no key" / unavailable-map banner. Empty while the backend is healthy.
func (s *Station) BackendError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backendErr
}

func (s *Station) syncMarkers(records []domain.Record, selection *domain.Coordinate) {
	if h := s.selector.Handle(); h != nil {
		h.SyncMarkers(records, selection)
	}
}

func (s *Station) persistRecordsLocked(ctx context.Context) error {
	raw, err := json.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("persist records: marshal: %w", err)
	}
	if err := s.store.Put(ctx, KeyRecords, string(raw)); err != nil {
		return fmt.Errorf("persist records: %w", err)
	}
	return nil
}

func (s *Station) copyRecordsLocked() []domain.Record {
	out := make([]domain.Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Station) copySelectionLocked() *domain.Coordinate {
	if s.selection == nil {
		return nil
	}
	sel := *s.selection
	return &sel
}

// decodeImages turns base64 blobs (optionally carrying a data-URL prefix)
// into raw bytes for the captioner.
func decodeImages(images []string) ([][]byte, error) {
	blobs := make([][]byte, 0, len(images))
	for i, img := range images {
		if idx := strings.Index(img, ","); idx >= 0 && strings.HasPrefix(img, "data:") {
			img = img[idx+1:]
		}
		b, err := base64.StdEncoding.DecodeString(img)
		if err != nil {
			return nil, fmt.Errorf("decode image %d: %w", i, err)
		}
		blobs = append(blobs, b)
	}
	return blobs, nil
}
