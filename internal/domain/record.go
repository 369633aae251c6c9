package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxImages caps the number of embedded photos per record.
const MaxImages = 4

// Represents a single saved station entry. A Record is created exactly once
// at form submission and never mutated afterwards; the only later operation
// is whole-record deletion. Images are stored inline as base64 JPEG blobs.
type Record struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Address     string     `json:"address"`
	Position    Coordinate `json:"position"`
	Description string     `json:"description"`
	Images      []string   `json:"images,omitempty"`
	CreatedAt   int64      `json:"created_at"` // milliseconds since epoch
}

// NewRecord builds a record with a fresh unique identity and the current
// timestamp. Callers are expected to have validated required fields and the
// image count already.
func NewRecord(name, address, description string, position Coordinate, images []string) Record {
	return Record{
		ID:          uuid.NewString(),
		Name:        name,
		Address:     address,
		Position:    position,
		Description: description,
		Images:      images,
		CreatedAt:   time.Now().UnixMilli(),
	}
}

// CreatedTime returns the creation timestamp as a time.Time in UTC.
func (r Record) CreatedTime() time.Time {
	return time.UnixMilli(r.CreatedAt).UTC()
}
