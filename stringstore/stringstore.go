// Package stringstore provides an append-only, bijective string table.
//
// IDs are assigned sequentially from zero in insertion order, so dumping the
// table and loading the dump into a fresh store reproduces every ID.
package stringstore

import (
	"errors"
	"fmt"
)

var ErrDuplicate = errors.New("duplicate string in dump")

// Store maps strings to dense uint64 IDs and back.
// Not safe for concurrent mutation; concurrent Resolve calls are fine once
// the store is no longer being written.
type Store struct {
	ids   map[string]uint64
	texts []string
}

// New creates an empty Store.
func New() *Store {
	return &Store{ids: make(map[string]uint64)}
}

// Add interns text and returns its ID. Adding an existing string returns the
// ID it already has.
func (s *Store) Add(text string) uint64 {
	if id, ok := s.ids[text]; ok {
		return id
	}
	id := uint64(len(s.texts))
	s.ids[text] = id
	s.texts = append(s.texts, text)
	return id
}

// Lookup returns the ID of text without interning it.
func (s *Store) Lookup(text string) (uint64, bool) {
	id, ok := s.ids[text]
	return id, ok
}

// Resolve returns the string registered under id.
func (s *Store) Resolve(id uint64) (string, bool) {
	if id >= uint64(len(s.texts)) {
		return "", false
	}
	return s.texts[id], true
}

// Len returns the number of interned strings.
func (s *Store) Len() int {
	return len(s.texts)
}

// Dump returns every interned string in ID order.
func (s *Store) Dump() []string {
	out := make([]string, len(s.texts))
	copy(out, s.texts)
	return out
}

// Load replaces the store contents with a previous Dump.
// On error the store is left unchanged.
func (s *Store) Load(texts []string) error {
	ids := make(map[string]uint64, len(texts))
	for i, t := range texts {
		if _, exists := ids[t]; exists {
			return fmt.Errorf("%w: %q at index %d", ErrDuplicate, t, i)
		}
		ids[t] = uint64(i)
	}
	s.ids = ids
	s.texts = append(make([]string, 0, len(texts)), texts...)
	return nil
}
