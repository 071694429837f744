package kv

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// FileStore persists all keys in a single JSON document on disk.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var _ Store = (*FileStore)(nil)

// fileDocument is the on-disk layout of a FileStore.
type fileDocument struct {
	Entries   map[string]string `json:"entries"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewFileStore creates a store backed by the file at path. The file and its
// parent directory are created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the backing file.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return nil, err
	}

	v, ok := doc.Entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func (f *FileStore) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		// An unreadable document is replaced rather than blocking every write.
		doc = &fileDocument{Entries: map[string]string{}}
	}
	doc.Entries[key] = string(value)
	return f.save(doc)
}

func (f *FileStore) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := doc.Entries[key]; !ok {
		return nil
	}
	delete(doc.Entries, key)
	return f.save(doc)
}

func (f *FileStore) Close() error {
	return nil
}

func (f *FileStore) load() (*fileDocument, error) {
	doc := &fileDocument{Entries: map[string]string{}}

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return doc, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read store file %s", f.path)
	}

	if err := json.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrapf(err, "failed to parse store file %s", f.path)
	}
	if doc.Entries == nil {
		doc.Entries = map[string]string{}
	}
	return doc, nil
}

// save writes the document to a temp file and renames it into place so a
// crash never leaves a half-written store behind.
func (f *FileStore) save(doc *fileDocument) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create store directory %s", dir)
	}

	doc.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode store file")
	}

	tmp, err := os.CreateTemp(dir, ".store-*.json")
	if err != nil {
		return errors.Wrap(err, "failed to create temp store file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "failed to write temp store file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "failed to close temp store file")
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "failed to replace store file %s", f.path)
	}
	return nil
}
