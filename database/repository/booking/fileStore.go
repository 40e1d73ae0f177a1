package bookingRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"appointly/models"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 10 * time.Millisecond

// document is the on-disk layout: {"bookings": [...]}.
type document struct {
	Bookings []models.Booking `json:"bookings"`
}

// FileStore keeps all bookings in one JSON document, rewritten in full on every mutation.
// Mutations hold an advisory lock on a sibling ".lock" file, so separate processes
// sharing the document (the server and the bookings CLI) do not lose each other's writes.
type FileStore struct {
	path string
	mu   sync.RWMutex
	lock *flock.Flock
}

// NewFileStore creates the data directory and an empty document when missing.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	s := &FileStore{path: path, lock: flock.New(path + ".lock")}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write(document{Bookings: []models.Booking{}}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return s, nil
}

func (s *FileStore) List(ctx context.Context) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return doc.Bookings, nil
}

func (s *FileStore) Append(ctx context.Context, b models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	unlock, err := s.lockFile(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	for _, existing := range doc.Bookings {
		if existing.Start == b.Start {
			return ErrDuplicateStart
		}
	}
	doc.Bookings = append(doc.Bookings, b)
	return s.write(doc)
}

func (s *FileStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	unlock, err := s.lockFile(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	for i, existing := range doc.Bookings {
		if existing.ID == id {
			doc.Bookings = append(doc.Bookings[:i], doc.Bookings[i+1:]...)
			return s.write(doc)
		}
	}
	return ErrNotFound
}

// lockFile takes the cross-process lock; callers must already hold s.mu.
func (s *FileStore) lockFile(ctx context.Context) (func(), error) {
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", s.lock.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to lock %s", s.lock.Path())
	}
	return func() { s.lock.Unlock() }, nil
}

func (s *FileStore) read() (document, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return document{}, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return document{}, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	if doc.Bookings == nil {
		doc.Bookings = []models.Booking{}
	}
	return doc, nil
}

// write replaces the document atomically via a sibling temp file.
func (s *FileStore) write(doc document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode bookings: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".bookings-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
