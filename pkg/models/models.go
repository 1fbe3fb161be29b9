package models

import (
	"time"

	"github.com/gofrs/uuid"

	"moderation/pkg/censor"
)

type Comment struct {
	ID        uuid.UUID `bson:"_id" json:"id"`
	PostID    uuid.UUID `bson:"post_id" json:"post_id"`
	ParentID  uuid.UUID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	Author    string    `bson:"author" json:"author"`
	Text      any       `bson:"text" json:"text"`
	Published time.Time `bson:"published" json:"published"`
}

// Submission is a form with named fields, e.g. a review or a profile.
// Fields may hold non-text values such as a star rating.
type Submission struct {
	ID        uuid.UUID      `json:"id"`
	Author    string         `json:"author"`
	Fields    map[string]any `json:"fields"`
	Published time.Time      `json:"published"`
}

// TextFields returns the string-valued fields. Other values are left out.
func (s Submission) TextFields() map[string]string {
	out := make(map[string]string, len(s.Fields))
	for name, v := range s.Fields {
		if text, ok := v.(string); ok {
			out[name] = text
		}
	}
	return out
}

// Flagged is a piece of text the censor rejected. Only the masked text is kept.
type Flagged struct {
	ID        uuid.UUID    `bson:"_id" json:"id"`
	RequestID string       `bson:"request_id" json:"request_id"`
	Source    string       `bson:"source" json:"source"`
	Author    string       `bson:"author" json:"author"`
	Masked    string       `bson:"masked" json:"masked"`
	Matches   []string     `bson:"matches" json:"matches"`
	Severity  censor.Level `bson:"severity" json:"severity"`
	Created   time.Time    `bson:"created" json:"created"`
}
