// Package recent keeps the durable, deduplicated list of recent searches
// and the favorite-skin set.
//
// Both stores favour availability over durability: storage failures are
// logged and swallowed, reads degrade to empty and writes are dropped.
package recent

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"thoreinstein.com/skinscout/pkg/kv"
	"thoreinstein.com/skinscout/pkg/search"
)

const (
	// StorageKey is the key the recent-search list is persisted under.
	StorageKey = "recent_searches"

	// MaxEntries bounds the recent-search list.
	MaxEntries = 10
)

// Entry is one recorded search.
type Entry struct {
	ID        string       `json:"id" yaml:"id"`
	Params    search.Query `json:"params" yaml:"params"`
	Timestamp int64        `json:"timestamp" yaml:"timestamp"` // milliseconds since epoch
}

// Time returns the entry timestamp as a time.Time.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Store is the recent-search history. Entries are newest-first, at most
// MaxEntries long, and never contain two queries with the same
// case-insensitive name and the same float.
type Store struct {
	kv     kv.Store
	logger *slog.Logger
	now    func() time.Time
	newID  func(time.Time) string

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for swallowed storage failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a recent-search store persisted through backend.
func NewStore(backend kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:     backend,
		logger: slog.Default(),
		now:    time.Now,
		newID:  newEntryID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record adds q to the front of the history. A query with a blank name is
// ignored without touching storage. An existing entry with the same name
// (case-insensitive) and float is replaced.
func (s *Store) Record(ctx context.Context, q search.Query) {
	if !q.IsExecutable() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load(ctx)

	kept := make([]Entry, 0, len(entries)+1)
	now := s.now()
	kept = append(kept, Entry{
		ID:        s.newID(now),
		Params:    q,
		Timestamp: now.UnixMilli(),
	})
	for _, e := range entries {
		if isDuplicate(e.Params, q) {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) > MaxEntries {
		kept = kept[:MaxEntries]
	}

	data, err := json.Marshal(kept)
	if err != nil {
		s.logger.Warn("failed to encode recent searches", "error", err)
		return
	}
	if err := s.kv.Set(ctx, StorageKey, data); err != nil {
		s.logger.Warn("failed to save recent search", "error", err)
	}
}

// List returns the history newest-first. It never fails; missing or
// unreadable data yields an empty list.
func (s *Store) List(ctx context.Context) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

// Get returns the entry at index i (0 is the newest).
func (s *Store) Get(ctx context.Context, i int) (Entry, bool) {
	entries := s.List(ctx)
	if i < 0 || i >= len(entries) {
		return Entry{}, false
	}
	return entries[i], true
}

// Clear removes the whole history. Clearing an empty history is a no-op.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, StorageKey); err != nil {
		s.logger.Warn("failed to clear recent searches", "error", err)
	}
}

func (s *Store) load(ctx context.Context) []Entry {
	data, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		if !isNotFound(err) {
			s.logger.Warn("failed to read recent searches", "error", err)
		}
		return []Entry{}
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("discarding unreadable recent searches", "error", err)
		return []Entry{}
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries
}

func isDuplicate(a, b search.Query) bool {
	return strings.EqualFold(a.Name, b.Name) && search.SameFloat(a.Float, b.Float)
}

// newEntryID returns a time-ordered UUID, falling back to the creation
// timestamp if the random source fails.
func newEntryID(now time.Time) string {
	id, err := uuid.NewV7()
	if err != nil {
		return strconv.FormatInt(now.UnixMilli(), 10)
	}
	return id.String()
}
