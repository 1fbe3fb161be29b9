package memdb

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/gofrs/uuid"

	"moderation/pkg/censor"
	"moderation/pkg/models"
	"moderation/pkg/storage"
)

func TestStore_AddFlagged(t *testing.T) {
	db := New()

	f, err := db.AddFlagged(context.Background(), models.Flagged{
		Source:   "comment",
		Masked:   "**** it",
		Matches:  []string{"damn"},
		Severity: censor.LevelMild,
	})
	if err != nil {
		t.Fatalf("unexpected error adding flagged: %v", err)
	}
	if f.ID == uuid.Nil {
		t.Error("flagged id has uuid.Nil value")
	}
	if f.Created.IsZero() {
		t.Error("flagged created has zero time value")
	}

	got, err := db.FlaggedByID(context.Background(), f.ID)
	if err != nil {
		t.Fatalf("unexpected error reading flagged: %v", err)
	}
	if !reflect.DeepEqual(got, f) {
		t.Errorf("want flagged\n%+v\n\ngot flagged\n%+v\n", f, got)
	}

	id, err := uuid.NewV4()
	if err != nil {
		t.Fatalf("failed to generate uuid: %v", err)
	}
	wantCreated := time.Date(2025, 1, 12, 10, 22, 13, 0, time.UTC)
	f, err = db.AddFlagged(context.Background(), models.Flagged{ID: id, Created: wantCreated})
	if err != nil {
		t.Fatalf("unexpected error adding flagged: %v", err)
	}
	if f.ID != id || !f.Created.Equal(wantCreated) {
		t.Errorf("want provided id and created kept, got %v %v", f.ID, f.Created)
	}
}

func TestStore_FlaggedByIDNotFound(t *testing.T) {
	db := New()

	id, err := uuid.NewV4()
	if err != nil {
		t.Fatalf("failed to generate uuid: %v", err)
	}
	_, err = db.FlaggedByID(context.Background(), id)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("want error %v, got %v", storage.ErrNotFound, err)
	}
}

func TestStore_Flagged(t *testing.T) {
	db := New()

	base := time.Date(2025, 9, 28, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := db.AddFlagged(context.Background(), models.Flagged{
			Source:  "field",
			Created: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("unexpected error adding flagged: %v", err)
		}
	}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"Zero limit", 0, 0},
		{"Negative limit", -1, 0},
		{"Partial", 3, 3},
		{"More than stored", 10, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.Flagged(context.Background(), tt.limit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("want %d entries, got %d", tt.want, len(got))
			}
			for i := 1; i < len(got); i++ {
				if got[i].Created.After(got[i-1].Created) {
					t.Errorf("want newest first, entry %d is newer than entry %d", i, i-1)
				}
			}
		})
	}
}
