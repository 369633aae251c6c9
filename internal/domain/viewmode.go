package domain

import "fmt"

// Exclusive view enumeration: exactly one mode is active at a time.
type ViewMode string

const (
	ViewMap      ViewMode = "map"
	ViewList     ViewMode = "list"
	ViewSettings ViewMode = "settings"
)

// ParseViewMode maps a wire value onto the enumeration.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewMap, ViewList, ViewSettings:
		return ViewMode(s), nil
	}
	return "", fmt.Errorf("parse view mode: unknown mode %q", s)
}

// EffectiveViewMode resolves the displayed mode: a pending selection forces
// the map (with its form) regardless of the stored mode value.
func EffectiveViewMode(stored ViewMode, hasSelection bool) ViewMode {
	if hasSelection {
		return ViewMap
	}
	if stored == "" {
		return ViewMap
	}
	return stored
}
