// Package file persists one string-keyed namespace as a single JSON
// document on disk.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/whosinhq/whosin/internal/ports"
)

const storeDirMode = 0o700

type document struct {
	Entries map[string]string `json:"entries"`
}

// Store is a file-backed ports.KeyValueStore. maxBytes caps the encoded
// document size; a Set that would exceed it fails with ErrQuotaExceeded and
// leaves the store untouched. A budget of zero means unlimited.
//
// Writes go through an atomic rename, so a concurrent reader in another
// process sees either the old or the new document, never a torn one.
// Cross-process writes are last-writer-wins on purpose.
type Store struct {
	path     string
	maxBytes int
	mu       sync.Mutex
}

var _ ports.KeyValueStore = (*Store)(nil)

func NewStore(path string, maxBytes int) *Store {
	return &Store{path: filepath.Clean(path), maxBytes: maxBytes}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return "", err
	}
	value, ok := doc.Entries[key]
	if !ok {
		return "", fmt.Errorf("key %q: %w", key, ports.ErrKeyNotFound)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.Entries[key] = value

	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode store document: %w", err)
	}
	if s.maxBytes > 0 && len(encoded) > s.maxBytes {
		return fmt.Errorf("store %q would grow to %d bytes (budget %d): %w",
			s.path, len(encoded), s.maxBytes, ports.ErrQuotaExceeded)
	}

	return s.write(encoded)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := doc.Entries[key]; !ok {
		return nil
	}
	delete(doc.Entries, key)

	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode store document: %w", err)
	}
	return s.write(encoded)
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(doc.Entries))
	for key := range doc.Entries {
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	encoded, err := json.Marshal(document{Entries: map[string]string{}})
	if err != nil {
		return fmt.Errorf("encode store document: %w", err)
	}
	return s.write(encoded)
}

func (s *Store) read() (document, error) {
	doc := document{Entries: map[string]string{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return doc, fmt.Errorf("read store %q: %w", s.path, err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("decode store %q: %w", s.path, err)
	}
	if doc.Entries == nil {
		doc.Entries = map[string]string{}
	}
	return doc, nil
}

func (s *Store) write(encoded []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), storeDirMode); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(encoded)); err != nil {
		return fmt.Errorf("write store %q: %w", s.path, err)
	}
	return nil
}
