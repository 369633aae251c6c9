package ports

import (
	"context"
	"errors"

	"geostation-service/internal/domain"
)

// ErrNotReady is returned by Initialize while a backend's runtime resources
// (provider script, tile endpoint) have not been confirmed available yet.
// Callers are expected to retry once the dependency becomes ready.
var ErrNotReady = errors.New("map backend not ready")

// Requested camera position for a map surface.
type MapView struct {
	Center domain.Coordinate
	Zoom   int
}

// Contract for a map-rendering backend. Exactly one backend renders into a
// container at a time; switching backends requires a full teardown of the
// previous handle first.
type MapBackend interface {
	// Human-readable backend identifier for logs.
	Name() string

	// Construct the underlying map surface exactly once per container.
	// Calling Initialize again while a handle is live for the container is a
	// no-op that returns the existing handle.
	Initialize(ctx context.Context, container string, view MapView) (MapHandle, error)
}

// Handle to a live map surface.
type MapHandle interface {
	// Container this handle renders into.
	Container() string

	// Raster tile URL template the surface renders with. Empty when the
	// backend loads its tiles through its own provider script.
	TileTemplate() string

	// Re-center and zoom without destroying markers. A zoom <= 0 keeps the
	// current zoom level.
	SetView(center domain.Coordinate, zoom int)

	// Current camera position.
	View() MapView

	// SyncMarkers reconciles the rendered marker set against the given
	// records and selection. Idempotent: the same inputs produce the same
	// rendered set regardless of prior state.
	SyncMarkers(records []domain.Record, selection *domain.Coordinate)

	// Rendered marker snapshot, in no particular order.
	Markers() []domain.Marker

	// Register the single handler invoked with a Coordinate when the user
	// clicks empty map surface.
	OnMapClicked(func(domain.Coordinate))

	// Register the single handler invoked with the Record whose marker was
	// clicked. A marker click never also fires the map-click handler.
	OnMarkerClicked(func(domain.Record))

	// DispatchClick routes a user click to exactly one of the registered
	// handlers, disambiguating marker hits from empty-surface clicks.
	DispatchClick(at domain.Coordinate)

	// Teardown releases all resources. Safe to call on an already-torn-down
	// handle.
	Teardown()
}

// BackendSelector owns the Uninitialized -> CommercialActive/FallbackActive
// state machine that picks a backend from the configured settings.
type BackendSelector interface {
	// Apply selects the backend implied by the settings, tearing down the
	// previously active one first when it differs.
	Apply(ctx context.Context, settings domain.Settings) (MapHandle, error)

	// Handle returns the live handle, or nil while uninitialized.
	Handle() MapHandle

	// Teardown returns the selector to the uninitialized state.
	Teardown()
}
