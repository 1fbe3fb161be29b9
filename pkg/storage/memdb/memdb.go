package memdb

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid"

	"moderation/pkg/models"
	"moderation/pkg/storage"
)

type Store struct {
	mu      sync.Mutex
	flagged map[uuid.UUID]models.Flagged
}

func New() *Store {
	db := Store{
		flagged: make(map[uuid.UUID]models.Flagged),
	}

	return &db
}

func (db *Store) AddFlagged(ctx context.Context, f models.Flagged) (models.Flagged, error) {
	f, err := storage.Prepare(f, time.Now)
	if err != nil {
		return models.Flagged{}, err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	db.flagged[f.ID] = f

	return f, nil
}

func (db *Store) Flagged(ctx context.Context, limit int) ([]models.Flagged, error) {
	if limit <= 0 {
		return []models.Flagged{}, nil
	}

	db.mu.Lock()
	all := make([]models.Flagged, 0, len(db.flagged))
	for _, v := range db.flagged {
		all = append(all, v)
	}
	db.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].Created.After(all[j].Created)
	})

	if len(all) > limit {
		all = all[:limit]
	}

	return all, nil
}

func (db *Store) FlaggedByID(ctx context.Context, id uuid.UUID) (models.Flagged, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	f, ok := db.flagged[id]
	if !ok {
		return models.Flagged{}, storage.ErrNotFound
	}

	return f, nil
}

func (db *Store) Close(ctx context.Context) error {
	return nil
}
