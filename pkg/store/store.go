// Package store persists in-progress answer sets between sessions.
//
// A Store holds one snapshot per document id with last-write-wins overwrite
// semantics: every answer edit saves the whole set, so an interrupted session
// resumes from the last committed answer. Implementations exist for different
// deployment shapes:
//   - file: JSON files under the user config dir, the CLI default
//   - memory: in-process storage for tests
//   - redis: shared storage for multi-instance deployments
//   - mongo: document storage for shared deployments
//
// Callers treat store failures as fire-and-forget: the wizard logs and
// continues, and no storage fault is ever surfaced to the user.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/formpath/formpath/pkg/schema"
)

// KeyPrefix namespaces all keys written by this application.
const KeyPrefix = "formpath:answers:"

// Key returns the namespaced storage key for a document id.
func Key(formID string) string {
	return KeyPrefix + formID
}

// Store is the persistence contract for answer snapshots.
type Store interface {
	// Save overwrites the whole snapshot for formID.
	Save(ctx context.Context, formID string, answers schema.AnswerSet) error

	// Load retrieves the snapshot for formID.
	// Returns found=false (with a usable empty set) when none exists.
	Load(ctx context.Context, formID string) (answers schema.AnswerSet, found bool, err error)

	// Clear removes the snapshot for formID. Clearing a missing snapshot is
	// not an error.
	Clear(ctx context.Context, formID string) error

	// Close releases any backend resources.
	Close() error
}

// snapshot is the serialized envelope around an answer set. The revision id
// distinguishes writes when debugging shared backends; readers only use
// Answers.
type snapshot struct {
	Revision string            `json:"revision" bson:"revision"`
	SavedAt  time.Time         `json:"saved_at" bson:"saved_at"`
	Answers  map[string]string `json:"answers" bson:"answers"`
}

func newSnapshot(answers schema.AnswerSet) snapshot {
	return snapshot{
		Revision: uuid.NewString(),
		SavedAt:  time.Now().UTC(),
		Answers:  answers,
	}
}

func (s snapshot) answerSet() schema.AnswerSet {
	if s.Answers == nil {
		return schema.AnswerSet{}
	}
	return schema.AnswerSet(s.Answers)
}
