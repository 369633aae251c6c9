package mapbackend

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"geostation-service/internal/adapters/assets"
	"geostation-service/internal/domain"
	"geostation-service/internal/ports"
)

// Selector state. The commercial and fallback states are mutually exclusive
// and only reachable from Uninitialized: switching backends goes through a
// full teardown, never a direct swap.
type State int

const (
	StateUninitialized State = iota
	StateCommercialActive
	StateFallbackActive
)

func (s State) String() string {
	switch s {
	case StateCommercialActive:
		return "commercial"
	case StateFallbackActive:
		return "fallback"
	}
	return "uninitialized"
}

// Backend extends the public map-backend contract with backend-wide
// shutdown, which the selector needs when switching implementations.
type Backend interface {
	ports.MapBackend
	Shutdown()
}

// Factory builds backend instances on demand, keyed on configuration
// presence. The indirection keeps the selector testable with fakes.
type Factory interface {
	Commercial(key string) (Backend, error)
	Fallback() (Backend, error)
}

type defaultFactory struct {
	assets *assets.Cache
}

// NewFactory returns the production factory: Google when a key is present,
// OpenStreetMap otherwise. The asset cache may be nil.
func NewFactory(assetCache *assets.Cache) Factory {
	return &defaultFactory{assets: assetCache}
}

func (f *defaultFactory) Commercial(key string) (Backend, error) {
	return NewGoogleBackend(key, nil)
}

func (f *defaultFactory) Fallback() (Backend, error) {
	return NewOSMBackend(f.assets), nil
}

// Selector decides which backend renders into the container based on whether
// a provider key is configured, and owns the backend lifecycle state machine.
type Selector struct {
	factory   Factory
	container string
	view      ports.MapView

	mu      sync.Mutex
	state   State
	key     string
	backend Backend
	handle  ports.MapHandle
}

func NewSelector(factory Factory, container string, view ports.MapView) *Selector {
	return &Selector{
		factory:   factory,
		container: container,
		view:      view,
	}
}

func (s *Selector) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Selector) Handle() ports.MapHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

// Apply moves the state machine to the backend implied by the settings.
// Re-applying unchanged settings returns the live handle untouched. A
// changed key presence (or key value) tears the active backend down fully
// before the other is constructed; initialization failure leaves the
// selector uninitialized so the caller can retry later.
func (s *Selector) Apply(ctx context.Context, settings domain.Settings) (ports.MapHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	desired := StateFallbackActive
	if settings.UseCommercialBackend() {
		desired = StateCommercialActive
	}
	key := strings.TrimSpace(settings.MapKey)

	if s.state == desired && s.handle != nil && s.key == key {
		return s.handle, nil
	}

	// Keep the camera position across a backend switch.
	if s.handle != nil {
		s.view = s.handle.View()
	}
	s.teardownLocked()

	var (
		b   Backend
		err error
	)
	if desired == StateCommercialActive {
		b, err = s.factory.Commercial(key)
	} else {
		b, err = s.factory.Fallback()
	}
	if err != nil {
		return nil, fmt.Errorf("backend selector: construct %s backend: %w", desired, err)
	}

	h, err := b.Initialize(ctx, s.container, s.view)
	if err != nil {
		b.Shutdown()
		return nil, fmt.Errorf("backend selector: initialize %s backend: %w", desired, err)
	}

	s.backend = b
	s.handle = h
	s.state = desired
	s.key = key
	return h, nil
}

// Teardown returns the selector to the uninitialized state. Idempotent.
func (s *Selector) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
}

func (s *Selector) teardownLocked() {
	if s.handle != nil {
		s.handle.Teardown()
	}
	if s.backend != nil {
		s.backend.Shutdown()
	}
	s.handle = nil
	s.backend = nil
	s.state = StateUninitialized
	s.key = ""
}
