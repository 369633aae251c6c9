package domain

import "strings"

// Runtime configuration: two optional secrets, loaded once at startup and
// overwritten wholesale on save. Presence is the only validation performed.
type Settings struct {
	MapKey     string `json:"map_key"`
	WebhookURL string `json:"webhook_url"`
}

// UseCommercialBackend reports whether a map provider key is configured,
// which selects the commercial backend over the open-tile fallback.
func (s Settings) UseCommercialBackend() bool {
	return strings.TrimSpace(s.MapKey) != ""
}
