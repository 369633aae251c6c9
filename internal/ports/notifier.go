package ports

import (
	"context"

	"geostation-service/internal/domain"
)

// Port: best-effort outbound sync of a saved record to an external endpoint.
// Delivery is fire-and-forget: failures are logged by the caller, never
// surfaced to the user and never retried. Local persistence stays
// authoritative regardless of the outcome.
type Notifier interface {
	Notify(ctx context.Context, endpoint string, rec domain.Record) error
}
