package selection

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"studioadmin/internal/sentinel"
)

const fileName = "selected_studio"

// FileStore persists the selection as a single plain-text file under the
// configured state directory.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed selection store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, fileName)}
}

// Load reads the persisted studio id.
func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", sentinel.ErrNotFound
		}
		return "", fmt.Errorf("%w: read selection: %v", sentinel.ErrUnavailable, err)
	}
	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", sentinel.ErrNotFound
	}
	return id, nil
}

// Save writes the studio id atomically (write-then-rename) so a crash
// mid-write never leaves a truncated selection behind.
func (s *FileStore) Save(studioID string) error {
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(studioID+"\n"), 0o600); err != nil {
		return fmt.Errorf("%w: write selection: %v", sentinel.ErrUnavailable, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: commit selection: %v", sentinel.ErrUnavailable, err)
	}
	return nil
}

// Delete removes the persisted selection. Deleting an absent record is not
// an error.
func (s *FileStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: delete selection: %v", sentinel.ErrUnavailable, err)
	}
	return nil
}
