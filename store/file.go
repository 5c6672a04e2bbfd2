package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"aeroparts/domain"
)

// FileStore is a JSON file-backed implementation of domain.StateStore. The
// file holds one object mapping keys to JSON values. It is re-read before
// every operation so separate processes sharing the file see each other's
// writes; concurrent writers follow last-write-wins per file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// compile-time assertion
var _ domain.StateStore = (*FileStore)(nil)

// NewFileStore constructs a FileStore at the given path. The file is created
// on first write; an existing file must be a valid state object.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	if _, err := s.loadFromFile(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) loadFromFile() (map[string]json.RawMessage, error) {
	values := make(map[string]json.RawMessage)
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// no file yet; that's fine
			return values, nil
		}
		return nil, err
	}
	if len(b) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(b, &values); err != nil {
		return nil, fmt.Errorf("failed to decode state file %s: %w", s.path, err)
	}
	return values, nil
}

func (s *FileStore) saveToFile(values map[string]json.RawMessage) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	// map keys are marshalled in sorted order
	b, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.loadFromFile()
	if err != nil {
		return nil, err
	}
	v, ok := values[key]
	if !ok {
		return nil, domain.NewStateNotFoundError(key)
	}
	// the file is indented; hand back the compact form
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Set stores value, which must be valid JSON.
func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !json.Valid(value) {
		return fmt.Errorf("value for %s is not valid JSON", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.loadFromFile()
	if err != nil {
		return err
	}
	values[key] = append(json.RawMessage(nil), value...)
	return s.saveToFile(values)
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.loadFromFile()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.saveToFile(values)
}
