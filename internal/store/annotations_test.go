package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/inkmark/internal/domain"
	"github.com/listenupapp/inkmark/internal/geometry"
	"github.com/listenupapp/inkmark/internal/id"
	"github.com/listenupapp/inkmark/internal/store"
)

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func setupAnnotationStore(t *testing.T) *store.AnnotationStore {
	t.Helper()
	return store.NewAnnotationStore(id.Sequence("ann"), fixedClock)
}

func mustAdd(t *testing.T, s *store.AnnotationStore, page int, markup domain.Markup) domain.Annotation {
	t.Helper()
	a, err := s.Add(domain.Position{X: 10, Y: 20, Page: page}, markup)
	require.NoError(t, err)
	return a
}

func ids(records []domain.Annotation) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestAnnotationStore_Add(t *testing.T) {
	s := setupAnnotationStore(t)

	a, err := s.Add(domain.Position{X: 120, Y: 80, Page: 1}, domain.Highlight{Color: "#FFDE17"})
	require.NoError(t, err)

	want := domain.Annotation{
		ID:        "ann-1",
		Position:  domain.Position{X: 120, Y: 80, Page: 1},
		Markup:    domain.Highlight{Color: "#FFDE17"},
		CreatedAt: fixedNow,
	}
	if diff := cmp.Diff(want, a); diff != "" {
		t.Errorf("Add() mismatch (-want +got):\n%s", diff)
	}

	got, err := s.Get("ann-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, s.Len())
}

func TestAnnotationStore_AddRejects(t *testing.T) {
	s := setupAnnotationStore(t)

	_, err := s.Add(domain.Position{}, nil)
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	_, err = s.Add(domain.Position{Page: -1}, domain.Underline{Color: "#0A84FF"})
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	assert.Zero(t, s.Len())
}

func TestAnnotationStore_ListForPage(t *testing.T) {
	s := setupAnnotationStore(t)

	mustAdd(t, s, 0, domain.Highlight{Color: "#FFDE17"})
	mustAdd(t, s, 1, domain.Underline{Color: "#0A84FF"})
	mustAdd(t, s, 0, domain.CommentPin{Color: "#34C759"})
	mustAdd(t, s, 2, domain.Highlight{Color: "#FFB340"})
	mustAdd(t, s, 0, domain.SignatureStamp{Size: geometry.Size{Width: 200, Height: 100}})
	mustAdd(t, s, 1, domain.Highlight{Color: "#FFD60A"})

	tests := []struct {
		page int
		want []string
	}{
		{0, []string{"ann-1", "ann-3", "ann-5"}},
		{1, []string{"ann-2", "ann-6"}},
		{2, []string{"ann-4"}},
		{3, []string{}},
	}

	for _, tt := range tests {
		got := s.ListForPage(tt.page)
		for _, r := range got {
			assert.Equal(t, tt.page, r.Position.Page)
		}
		if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
			t.Errorf("ListForPage(%d) mismatch (-want +got):\n%s", tt.page, diff)
		}
	}
}

func TestAnnotationStore_SamePointKeepsCreationOrder(t *testing.T) {
	s := setupAnnotationStore(t)

	first := mustAdd(t, s, 0, domain.Highlight{Color: "#FFDE17"})
	second := mustAdd(t, s, 0, domain.Highlight{Color: "#FF9F0A"})

	got := s.ListForPage(0)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID, "later records render on top")
}

func TestAnnotationStore_Remove(t *testing.T) {
	s := setupAnnotationStore(t)
	for range 4 {
		mustAdd(t, s, 0, domain.Highlight{Color: "#FFDE17"})
	}

	removed, err := s.Remove("ann-2")
	require.NoError(t, err)
	assert.Equal(t, "ann-2", removed.ID)

	if diff := cmp.Diff([]string{"ann-1", "ann-3", "ann-4"}, ids(s.All())); diff != "" {
		t.Errorf("All() after Remove mismatch (-want +got):\n%s", diff)
	}

	// Index positions shift with the slice.
	got, err := s.Get("ann-4")
	require.NoError(t, err)
	assert.Equal(t, "ann-4", got.ID)

	_, err = s.Get("ann-2")
	assert.ErrorIs(t, err, store.ErrAnnotationNotFound)
	assert.False(t, s.Exists("ann-2"))

	_, err = s.Remove("ann-2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAnnotationStore_IdentityNeverReused(t *testing.T) {
	// A generator that repeats itself after a removal.
	issued := []string{"ann-a", "ann-b", "ann-a"}
	next := 0
	gen := func() (string, error) {
		v := issued[next]
		next++
		return v, nil
	}
	s := store.NewAnnotationStore(gen, fixedClock)

	mustAdd(t, s, 0, domain.Highlight{Color: "#FFDE17"})
	mustAdd(t, s, 0, domain.Highlight{Color: "#FFDE17"})
	_, err := s.Remove("ann-a")
	require.NoError(t, err)

	_, err = s.Add(domain.Position{}, domain.Highlight{Color: "#FFDE17"})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
	assert.Equal(t, 1, s.Len())
}

func TestAnnotationStore_GeneratorFailure(t *testing.T) {
	boom := errors.New("entropy unavailable")
	s := store.NewAnnotationStore(func() (string, error) { return "", boom }, fixedClock)

	_, err := s.Add(domain.Position{}, domain.Highlight{Color: "#FFDE17"})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, s.Len())
}

func TestAnnotationStore_AllIsACopy(t *testing.T) {
	s := setupAnnotationStore(t)
	mustAdd(t, s, 0, domain.Highlight{Color: "#FFDE17"})

	all := s.All()
	all[0].Position.Page = 9

	got, err := s.Get("ann-1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Position.Page)
}
