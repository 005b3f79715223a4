// Package cache keeps the last successful book listing per query on disk.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Astemirdum/library-rental/librarian/internal/client"
	"github.com/pkg/errors"
)

const maxEntries = 50

type entry struct {
	SavedAt time.Time       `json:"savedAt"`
	List    client.BookList `json:"list"`
}

type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func New(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Key identifies a listing query.
func Key(f client.BookFilter) string {
	b, _ := json.Marshal(f) //nolint:errcheck
	return string(b)
}

func (s *Store) Save(f client.BookFilter, list client.BookList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.read()
	if err != nil {
		entries = map[string]entry{}
	}
	entries[Key(f)] = entry{SavedAt: s.now().UTC(), List: list}
	if len(entries) > maxEntries {
		evictOldest(entries)
	}
	return s.write(entries)
}

// Load returns the cached listing for f and when it was saved.
func (s *Store) Load(f client.BookFilter) (client.BookList, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.read()
	if err != nil {
		return client.BookList{}, time.Time{}, false
	}
	e, ok := entries[Key(f)]
	return e.List, e.SavedAt, ok
}

func (s *Store) read() (map[string]entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	entries := map[string]entry{}
	if err = json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(err, "decode cache")
	}
	return entries, nil
}

func (s *Store) write(entries map[string]entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func evictOldest(entries map[string]entry) {
	var (
		oldestKey string
		oldest    time.Time
	)
	for k, e := range entries {
		if oldestKey == "" || e.SavedAt.Before(oldest) {
			oldestKey, oldest = k, e.SavedAt
		}
	}
	delete(entries, oldestKey)
}
