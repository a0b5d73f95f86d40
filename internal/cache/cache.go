// Package cache persists fetched API counts between report runs so a rerun
// only requests rows it has never seen.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"pubreport/internal/errors"
)

// Entry is one cached count with the time it was fetched
type Entry struct {
	Value     int       `json:"value"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Store is a single JSON cache file mapping string keys (issue numbers,
// DOIs) to entries. Not safe for concurrent use; callers collect results
// first and write once.
type Store struct {
	path    string
	entries map[string]Entry
}

// Open loads the cache file if it exists, otherwise starts empty
func Open(path string) (*Store, error) {
	store := &Store{
		path:    path,
		entries: make(map[string]Entry),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read cache file %s", path)
	}
	if err := json.Unmarshal(data, &store.entries); err != nil {
		return nil, errors.Wrapf(err, "cache file %s is corrupt", path)
	}
	return store, nil
}

// Has reports whether the key is already cached
func (s *Store) Has(key string) bool {
	_, ok := s.entries[key]
	return ok
}

// Get returns the cached entry for key
func (s *Store) Get(key string) (Entry, bool) {
	entry, ok := s.entries[key]
	return entry, ok
}

// Put records a freshly fetched value
func (s *Store) Put(key string, value int) {
	s.entries[key] = Entry{Value: value, FetchedAt: time.Now().UTC()}
}

// Len returns the number of cached entries
func (s *Store) Len() int {
	return len(s.entries)
}

// Keys returns the cached keys in sorted order
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns a copy of the key -> value mapping
func (s *Store) Values() map[string]int {
	out := make(map[string]int, len(s.entries))
	for k, e := range s.entries {
		out[k] = e.Value
	}
	return out
}

// Save writes the cache back to disk. The file is written to a temp path
// and renamed so an interrupted run cannot corrupt the previous cache.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrap(err, "failed to create cache directory")
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode cache")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write cache file %s", tmp)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "failed to replace cache file %s", s.path)
	}
	return nil
}
