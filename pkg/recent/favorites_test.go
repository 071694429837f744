package recent

import (
	"context"
	"testing"

	"thoreinstein.com/skinscout/pkg/kv"
)

func TestFavorites_Toggle(t *testing.T) {
	ctx := context.Background()
	favs := NewFavorites(kv.NewMemoryStore(), discard)

	if !favs.Toggle(ctx, "AK-47 | Redline") {
		t.Error("first Toggle should add and report true")
	}
	if !favs.IsFavorite(ctx, "AK-47 | Redline") {
		t.Error("IsFavorite should be true after adding")
	}

	if favs.Toggle(ctx, "AK-47 | Redline") {
		t.Error("second Toggle should remove and report false")
	}
	if favs.IsFavorite(ctx, "AK-47 | Redline") {
		t.Error("IsFavorite should be false after removing")
	}
}

func TestFavorites_CaseSensitive(t *testing.T) {
	ctx := context.Background()
	favs := NewFavorites(kv.NewMemoryStore(), discard)

	favs.Toggle(ctx, "AK-47")
	if favs.IsFavorite(ctx, "ak-47") {
		t.Error("membership should be case-sensitive")
	}

	favs.Toggle(ctx, "ak-47")
	if got := favs.List(ctx); len(got) != 2 {
		t.Errorf("List() = %v, want two distinct names", got)
	}
}

func TestFavorites_ListKeepsOrder(t *testing.T) {
	ctx := context.Background()
	favs := NewFavorites(kv.NewMemoryStore(), discard)

	for _, n := range []string{"a", "b", "c"} {
		favs.Toggle(ctx, n)
	}
	favs.Toggle(ctx, "b")

	got := favs.List(ctx)
	want := []string{"a", "c"}
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFavorites_FailSoft(t *testing.T) {
	ctx := context.Background()
	favs := NewFavorites(&failingKV{}, discard)

	if favs.Toggle(ctx, "AK-47") {
		t.Error("Toggle should report false when the write fails")
	}
	if favs.IsFavorite(ctx, "AK-47") {
		t.Error("IsFavorite should be false when storage is unavailable")
	}
	if got := favs.List(ctx); len(got) != 0 {
		t.Errorf("List() = %v, want empty", got)
	}
}

func TestFavorites_CorruptData(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()
	_ = backend.Set(ctx, FavoritesKey, []byte(`{"oops":true}`))

	favs := NewFavorites(backend, discard)
	if got := favs.List(ctx); len(got) != 0 {
		t.Errorf("List() = %v, want empty for corrupt data", got)
	}
}
