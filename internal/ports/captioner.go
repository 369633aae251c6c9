package ports

import (
	"context"

	"geostation-service/internal/domain"
)

// Port: generates a short English description of a station from its photos
// and position. A single attempt per call; callers substitute a fixed
// fallback text on failure and never block saving on the result.
type Captioner interface {
	Caption(ctx context.Context, images [][]byte, position domain.Coordinate) (string, error)
}
