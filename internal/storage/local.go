package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore abstracts where supporting document bytes live. The claim
// workflow only keeps metadata; encryption or cloud backends can replace
// this without touching the services.
type FileStore interface {
	Save(claimID uuid.UUID, fileName string, src io.Reader) (storedPath string, size int64, err error)
	Open(storedPath string) (io.ReadCloser, error)
}

// LocalStore writes files under a base directory, one subdirectory per claim.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

func (s *LocalStore) Save(claimID uuid.UUID, fileName string, src io.Reader) (string, int64, error) {
	dir := filepath.Join(s.baseDir, claimID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create claim directory: %w", err)
	}

	// Prefix with a fresh uuid so repeated uploads of the same name never collide
	stored := filepath.Join(dir, uuid.NewString()+"_"+filepath.Base(fileName))
	dst, err := os.Create(stored)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	return stored, size, nil
}

func (s *LocalStore) Open(storedPath string) (io.ReadCloser, error) {
	return os.Open(storedPath)
}
