package proof

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrInvalidPath = errors.New("invalid proof path")

// Store persists proof blobs on disk under a configured root directory.
// Keys are namespaced per user: "<userID>/<unix-nano>.<ext>".
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create proof dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes a blob under a fresh collision-resistant key and returns it.
func (s *Store) Save(userID, originalName string, data []byte) (string, error) {
	key := userID + "/" + fmt.Sprintf("%d%s", time.Now().UnixNano(), filepath.Ext(originalName))

	full, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", err
	}
	return key, nil
}

func (s *Store) Read(key string) ([]byte, error) {
	full, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

// Remove deletes a blob. A missing blob is not an error.
func (s *Store) Remove(key string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// resolve maps a key to an absolute file path, rejecting anything that
// would escape the store root.
func (s *Store) resolve(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", ErrInvalidPath
	}
	full := filepath.Join(s.dir, filepath.FromSlash(key))
	if !strings.HasPrefix(full, filepath.Clean(s.dir)+string(os.PathSeparator)) {
		return "", ErrInvalidPath
	}
	return full, nil
}
