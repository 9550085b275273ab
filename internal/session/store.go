// Package session owns the current login identity and its persisted slot.
//
// The Store is the only writer of the identity file. Memory and file are
// changed together under one lock, so a reader never sees a logged-in user
// whose record is missing on disk or the other way around.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/five82/cookhub/internal/domain"
)

// Status reports whether an identity is active.
type Status int

const (
	Anonymous Status = iota
	Authenticated
)

func (s Status) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Store holds the current identity and persists it to a fixed slot file.
type Store struct {
	path string
	log  *slog.Logger

	mu       sync.RWMutex
	identity *domain.Identity
}

// NewStore returns a Store persisting to path. A nil logger uses slog.Default.
func NewStore(path string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{path: path, log: log}
}

// Restore loads a previously persisted identity. Absent or malformed slots
// leave the store anonymous; Restore never fails.
func (s *Store) Restore() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = nil

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("read identity slot failed", "path", s.path, "error", err)
		}
		return Anonymous
	}

	var id domain.Identity
	if err := json.Unmarshal(data, &id); err != nil || !id.Valid() {
		s.log.Warn("discarding malformed identity slot", "path", s.path, "error", err)
		if rmErr := os.Remove(s.path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			s.log.Warn("remove identity slot failed", "path", s.path, "error", rmErr)
		}
		return Anonymous
	}

	s.identity = &id
	s.log.Info("session restored", "user_id", id.ID, "username", id.Username)
	return Authenticated
}

// Establish makes id the current identity and persists it. When the write
// fails the previous identity stays in place.
func (s *Store) Establish(id domain.Identity) error {
	id.Username = strings.TrimSpace(id.Username)
	id.Email = strings.TrimSpace(id.Email)
	if !id.Valid() {
		return domain.NewValidationError("identity", "identity requires an id and a username")
	}

	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("persist identity: %w", err)
	}
	s.identity = &id
	s.log.Info("session established", "user_id", id.ID, "username", id.Username)
	return nil
}

// Clear forgets the current identity in memory and on disk. Clearing an
// anonymous store is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove identity: %w", err)
	}
	if s.identity != nil {
		s.log.Info("session cleared", "user_id", s.identity.ID)
	}
	s.identity = nil
	return nil
}

// Current returns the active identity, if any.
func (s *Store) Current() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.identity == nil {
		return domain.Identity{}, false
	}
	return *s.identity, true
}

// Status reports whether an identity is active.
func (s *Store) Status() Status {
	if _, ok := s.Current(); ok {
		return Authenticated
	}
	return Anonymous
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".identity-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
