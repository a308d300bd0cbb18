package images

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/velomarket/velomarket-backend/pkg/config"
)

// Store persists validated product images on local disk under the media dir.
type Store struct {
	dir string
}

// NewStore ensures the media directory exists and returns a store rooted there.
func NewStore(cfg config.MediaConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("media dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media dir %q: %w", cfg.Dir, err)
	}
	return &Store{dir: cfg.Dir}, nil
}

// Save writes the payload under a generated name and returns the relative path.
func (s *Store) Save(slot Slot, mime string, data []byte) (string, error) {
	ext := Extension(mime)
	if ext == "" {
		return "", fmt.Errorf("unsupported mime type %q", mime)
	}

	name := fmt.Sprintf("%s_%s%s", slot, uuid.NewString(), ext)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing image %q: %w", path, err)
	}
	return name, nil
}

// Remove deletes a previously stored image; a missing file is not an error.
func (s *Store) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing image %q: %w", name, err)
	}
	return nil
}
