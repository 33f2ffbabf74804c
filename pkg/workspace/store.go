// Package workspace owns document snapshots and serves the analyses over
// them: token grids, routine headers, class trees and extract-method edits.
package workspace

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tidwall/btree"

	"github.com/yaklabco/cosls/pkg/semtok"
)

// ErrNotFound is returned for unknown documents and stale versions.
var ErrNotFound = errors.New("document not found")

// Store maps document URIs to their latest snapshot. It is safe for
// concurrent use.
type Store struct {
	mu   sync.RWMutex
	docs btree.Map[string, *semtok.Document]
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Put stores doc as the latest snapshot of its URI. An older version than
// the stored one is rejected with ErrNotFound.
func (s *Store) Put(doc *semtok.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.docs.Get(doc.URI); ok && prev.Version > doc.Version {
		return fmt.Errorf("%s version %d is older than %d: %w", doc.URI, doc.Version, prev.Version, ErrNotFound)
	}
	s.docs.Set(doc.URI, doc)
	return nil
}

// Get returns the snapshot of uri at exactly version.
func (s *Store) Get(uri string, version int32) (*semtok.Document, error) {
	s.mu.RLock()
	doc, ok := s.docs.Get(uri)
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%s: %w", uri, ErrNotFound)
	}
	if doc.Version != version {
		return nil, fmt.Errorf("%s version %d (have %d): %w", uri, version, doc.Version, ErrNotFound)
	}
	return doc, nil
}

// Latest returns the newest snapshot of uri.
func (s *Store) Latest(uri string) (*semtok.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs.Get(uri)
}

// Remove drops uri from the store.
func (s *Store) Remove(uri string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs.Delete(uri)
	return ok
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs.Len()
}

// URIs returns the stored URIs in sorted order.
func (s *Store) URIs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uris := make([]string, 0, s.docs.Len())
	s.docs.Scan(func(uri string, _ *semtok.Document) bool {
		uris = append(uris, uri)
		return true
	})
	return uris
}
