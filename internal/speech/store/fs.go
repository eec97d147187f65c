package store

import (
	"fmt"
	"os"
	"path/filepath"
)

const audioExt = ".audio"

// FSStore keeps one file per fingerprint in a single flat directory. The
// directory listing is the only recovery mechanism after a restart; no
// manifest or index file is written.
type FSStore struct {
	dir string
}

// NewFSStore ensures the cache directory exists and returns a store rooted
// at it. There is no teardown; entries outlive the process by design.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio cache directory: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) path(fingerprint string) string {
	return filepath.Join(s.dir, fingerprint+audioExt)
}

func (s *FSStore) Exists(fingerprint string) bool {
	_, err := os.Stat(s.path(fingerprint))
	return err == nil
}

func (s *FSStore) Read(fingerprint string) ([]byte, error) {
	data, err := os.ReadFile(s.path(fingerprint))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read audio entry: %w", err)
	}
	return data, nil
}

// Write persists the entry via a temp file followed by a rename so that a
// concurrent reader never observes a partially written entry. Concurrent
// writers for the same fingerprint are allowed; the last rename wins.
func (s *FSStore) Write(fingerprint string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, fingerprint+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp audio file: %w", err)
	}

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write audio entry: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close audio entry: %w", closeErr)
	}

	if err := os.Rename(tmp.Name(), s.path(fingerprint)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("commit audio entry: %w", err)
	}
	return nil
}

// Delete removes the entry if present. Deleting an absent fingerprint is
// not an error.
func (s *FSStore) Delete(fingerprint string) error {
	if err := os.Remove(s.path(fingerprint)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete audio entry: %w", err)
	}
	return nil
}
