package recent

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"

	"thoreinstein.com/skinscout/pkg/kv"
)

// FavoritesKey is the key the favorite-skin set is persisted under.
const FavoritesKey = "favorite_skins"

// Favorites is a persisted set of skin names. Membership is exact and
// case-sensitive; insertion order is kept.
type Favorites struct {
	kv     kv.Store
	logger *slog.Logger

	mu sync.Mutex
}

// NewFavorites creates a favorites set persisted through backend.
func NewFavorites(backend kv.Store, logger *slog.Logger) *Favorites {
	if logger == nil {
		logger = slog.Default()
	}
	return &Favorites{kv: backend, logger: logger}
}

// Toggle adds name if absent or removes it if present, and reports whether
// name is a favorite afterwards. A failed write reports false.
func (f *Favorites) Toggle(ctx context.Context, name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := f.load(ctx)

	favorite := true
	if i := slices.Index(names, name); i >= 0 {
		names = slices.Delete(names, i, i+1)
		favorite = false
	} else {
		names = append(names, name)
	}

	data, err := json.Marshal(names)
	if err != nil {
		f.logger.Warn("failed to encode favorites", "error", err)
		return false
	}
	if err := f.kv.Set(ctx, FavoritesKey, data); err != nil {
		f.logger.Warn("failed to save favorites", "error", err)
		return false
	}
	return favorite
}

// IsFavorite reports whether name is in the set.
func (f *Favorites) IsFavorite(ctx context.Context, name string) bool {
	return slices.Contains(f.List(ctx), name)
}

// List returns all favorite names in insertion order.
func (f *Favorites) List(ctx context.Context) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.load(ctx)
}

func (f *Favorites) load(ctx context.Context) []string {
	data, err := f.kv.Get(ctx, FavoritesKey)
	if err != nil {
		if !isNotFound(err) {
			f.logger.Warn("failed to read favorites", "error", err)
		}
		return []string{}
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		f.logger.Warn("discarding unreadable favorites", "error", err)
		return []string{}
	}
	if names == nil {
		names = []string{}
	}
	return names
}

func isNotFound(err error) bool {
	return errors.Is(err, kv.ErrNotFound)
}
