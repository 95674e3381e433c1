package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/formpath/formpath/pkg/schema"
)

// FileStore keeps one JSON snapshot file per document id in a directory.
// This is the default backend for CLI usage.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir, creating the
// directory if needed. An empty dir selects the default location under the
// user config dir (e.g. ~/.config/formpath/answers).
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "formpath", "answers")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the whole snapshot for formID, replacing any previous one.
func (s *FileStore) Save(ctx context.Context, formID string, answers schema.AnswerSet) error {
	data, err := json.MarshalIndent(newSnapshot(answers), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(formID), data, 0o644)
}

// Load reads the snapshot for formID. A missing or unreadable file is a miss,
// not an error: a corrupt snapshot is removed and the flow starts fresh.
func (s *FileStore) Load(ctx context.Context, formID string) (schema.AnswerSet, bool, error) {
	path := s.path(formID)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return schema.AnswerSet{}, false, nil
	}
	if err != nil {
		return schema.AnswerSet{}, false, err
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		_ = os.Remove(path)
		return schema.AnswerSet{}, false, nil
	}
	return snap.answerSet(), true, nil
}

// Clear removes the snapshot for formID.
func (s *FileStore) Clear(ctx context.Context, formID string) error {
	err := os.Remove(s.path(formID))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

// path converts a document id to a snapshot file path. Ids in the catalog are
// short form numbers (I-90, N-400), already safe as file names.
func (s *FileStore) path(formID string) string {
	return filepath.Join(s.dir, formID+".json")
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
