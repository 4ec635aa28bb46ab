package slug

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeStore records every lookup and answers from a fixed set of taken slugs.
type fakeStore struct {
	taken   map[string]bool
	failOn  string
	lookups []string
}

func (s *fakeStore) SlugExists(_ context.Context, slug string) (bool, error) {
	s.lookups = append(s.lookups, slug)
	if s.failOn != "" && slug == s.failOn {
		return false, errors.New("store unavailable")
	}
	return s.taken[slug], nil
}

func fixedClock() time.Time {
	return time.UnixMilli(1700000000123)
}

func newTestResolver(store Store) *Resolver {
	return NewResolver(store, fixedClock, zerolog.Nop())
}

func TestEnsureUnique_NoCollision(t *testing.T) {
	store := &fakeStore{taken: map[string]bool{"other": true}}

	got := newTestResolver(store).EnsureUnique(context.Background(), "morning-show")
	if got != "morning-show" {
		t.Fatalf("EnsureUnique = %q, want %q", got, "morning-show")
	}
	if len(store.lookups) != 1 {
		t.Errorf("lookups = %v, want exactly one", store.lookups)
	}
}

func TestEnsureUnique_SequentialSuffixes(t *testing.T) {
	store := &fakeStore{taken: map[string]bool{"base": true, "base-1": true}}

	got := newTestResolver(store).EnsureUnique(context.Background(), "base")
	if got != "base-2" {
		t.Fatalf("EnsureUnique = %q, want %q", got, "base-2")
	}

	want := []string{"base", "base-1", "base-2"}
	if fmt.Sprint(store.lookups) != fmt.Sprint(want) {
		t.Errorf("lookups = %v, want %v", store.lookups, want)
	}
}

func TestEnsureUnique_ExhaustedFallsBackToTimestamp(t *testing.T) {
	taken := map[string]bool{"busy": true}
	for i := 1; i <= DefaultMaxSuffix; i++ {
		taken[fmt.Sprintf("busy-%d", i)] = true
	}
	store := &fakeStore{taken: taken}

	got := newTestResolver(store).EnsureUnique(context.Background(), "busy")
	if got != "busy-1700000000123" {
		t.Fatalf("EnsureUnique = %q, want timestamp fallback", got)
	}
	if len(store.lookups) != DefaultMaxSuffix+1 {
		t.Errorf("lookups = %d, want %d", len(store.lookups), DefaultMaxSuffix+1)
	}
}

func TestEnsureUnique_StoreErrorFailsOpen(t *testing.T) {
	tests := []struct {
		name   string
		taken  map[string]bool
		failOn string
	}{
		{"first lookup", nil, "news"},
		{"suffix lookup", map[string]bool{"news": true, "news-1": true}, "news-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{taken: tt.taken, failOn: tt.failOn}
			got := newTestResolver(store).EnsureUnique(context.Background(), "news")
			if got != "news-1700000000123" {
				t.Errorf("EnsureUnique = %q, want %q", got, "news-1700000000123")
			}
			if last := store.lookups[len(store.lookups)-1]; last != tt.failOn {
				t.Errorf("last lookup = %q, want lookups to stop at %q", last, tt.failOn)
			}
		})
	}
}
