package storage

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid"

	"moderation/pkg/models"
)

var (
	ErrConnectDB       = errors.New("unable to establish DB connection")
	ErrDBNotResponding = errors.New("DB not responding")
	ErrNotFound        = errors.New("flagged submission not found")
)

// Storage keeps flagged submissions for later review.
type Storage interface {
	// AddFlagged stores f. Zero ID and Created are filled in.
	AddFlagged(ctx context.Context, f models.Flagged) (models.Flagged, error)
	// Flagged returns at most limit entries, newest first.
	Flagged(ctx context.Context, limit int) ([]models.Flagged, error)
	FlaggedByID(ctx context.Context, id uuid.UUID) (models.Flagged, error)
	Close(ctx context.Context) error
}

// Prepare fills in the ID and creation time of f when they are zero.
func Prepare(f models.Flagged, now func() time.Time) (models.Flagged, error) {
	if f.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return models.Flagged{}, err
		}
		f.ID = id
	}
	if f.Created.IsZero() {
		f.Created = now().UTC()
	}
	return f, nil
}
