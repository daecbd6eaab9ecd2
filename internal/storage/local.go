package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cloudvault/backend/internal/config"
	"github.com/google/uuid"
)

// LocalStore keeps blobs on the filesystem under root, one directory per
// owner. Writes go through a temp file renamed into place so an aborted
// upload never leaves a partial blob. When an encryption key is configured
// every blob is stored AES-CTR encrypted with a per-blob IV prefix.
type LocalStore struct {
	root string
	key  []byte
}

func NewLocalStore(cfg config.StorageConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return nil, fmt.Errorf("failed creating storage root: %w", err)
	}

	store := &LocalStore{root: cfg.Root}
	if cfg.EncryptionSecret != "" {
		key, err := deriveKey(cfg.EncryptionSecret)
		if err != nil {
			return nil, err
		}
		store.key = key
	}
	return store, nil
}

func (s *LocalStore) Encrypted() bool {
	return s.key != nil
}

func (s *LocalStore) Put(ctx context.Context, ownerID string, ext string, reader io.Reader) (string, int64, error) {
	ownerDir := filepath.Join(s.root, ownerID)
	if err := os.MkdirAll(ownerDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("failed creating owner directory: %w", err)
	}

	storedName := uuid.New().String() + ext
	storagePath := filepath.Join(ownerID, storedName)
	finalPath := filepath.Join(ownerDir, storedName)

	if _, err := os.Stat(finalPath); err == nil {
		return "", 0, fmt.Errorf("%w: %s", ErrBlobExists, storagePath)
	} else if !os.IsNotExist(err) {
		return "", 0, fmt.Errorf("failed checking blob path: %w", err)
	}

	temp, err := os.CreateTemp(ownerDir, ".upload-*")
	if err != nil {
		return "", 0, fmt.Errorf("failed creating temp file: %w", err)
	}

	written, err := s.writeStream(temp, reader)
	if err != nil {
		temp.Close()
		os.Remove(temp.Name())
		return "", 0, fmt.Errorf("failed writing blob: %w", err)
	}

	if err := temp.Sync(); err != nil {
		temp.Close()
		os.Remove(temp.Name())
		return "", 0, fmt.Errorf("failed syncing blob: %w", err)
	}
	if err := temp.Close(); err != nil {
		os.Remove(temp.Name())
		return "", 0, fmt.Errorf("failed closing blob: %w", err)
	}

	if err := os.Rename(temp.Name(), finalPath); err != nil {
		os.Remove(temp.Name())
		return "", 0, fmt.Errorf("failed publishing blob: %w", err)
	}

	return storagePath, written, nil
}

// writeStream copies reader into dst, encrypting when configured, and returns
// the number of content bytes consumed (excluding the IV prefix).
func (s *LocalStore) writeStream(dst io.Writer, reader io.Reader) (int64, error) {
	if s.key == nil {
		return io.Copy(dst, reader)
	}

	encWriter, err := newEncryptWriter(s.key, dst)
	if err != nil {
		return 0, err
	}
	return io.Copy(encWriter, reader)
}

func (s *LocalStore) Open(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(s.root, storagePath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, storagePath)
		}
		return nil, fmt.Errorf("failed opening blob: %w", err)
	}

	if s.key == nil {
		return file, nil
	}

	decReader, err := newDecryptReader(s.key, file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &readCloser{Reader: decReader, closer: file}, nil
}

func (s *LocalStore) Delete(ctx context.Context, storagePath string) (bool, error) {
	err := os.Remove(filepath.Join(s.root, storagePath))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed deleting blob: %w", err)
	}
	return true, nil
}

func (s *LocalStore) Exists(ctx context.Context, storagePath string) (bool, error) {
	info, err := os.Stat(filepath.Join(s.root, storagePath))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed checking blob: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

type readCloser struct {
	io.Reader
	closer io.Closer
}

func (r *readCloser) Close() error {
	return r.closer.Close()
}
