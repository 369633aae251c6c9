// Package config centralizes environment lookups. Main packages call
// godotenv.Load first so a local .env file can supply these values.
package config

import "os"

// Get returns the environment value for key, or fallback when unset/empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
