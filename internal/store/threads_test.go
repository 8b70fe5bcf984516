package store_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/inkmark/internal/domain"
	domainerrors "github.com/listenupapp/inkmark/internal/errors"
	"github.com/listenupapp/inkmark/internal/id"
	"github.com/listenupapp/inkmark/internal/store"
)

// steppingClock advances one second per call.
func steppingClock() store.Clock {
	now := fixedNow
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func setupLinker(t *testing.T) *store.ThreadLinker {
	t.Helper()
	return store.NewThreadLinker(id.Sequence("cmt"), steppingClock())
}

func texts(comments []domain.Comment) []string {
	out := make([]string, 0, len(comments))
	for _, c := range comments {
		out = append(out, c.Text)
	}
	return out
}

func TestThreadLinker_Seed(t *testing.T) {
	l := setupLinker(t)

	c, err := l.Seed("ann-1")
	require.NoError(t, err)

	want := []domain.Comment{{
		ID:           "cmt-1",
		AnnotationID: "ann-1",
		Text:         "",
		CreatedAt:    fixedNow.Add(time.Second),
		UpdatedAt:    fixedNow.Add(time.Second),
	}}
	if diff := cmp.Diff(want, l.ThreadFor("ann-1")); diff != "" {
		t.Errorf("ThreadFor() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, want[0], c)

	_, err = l.Seed("")
	assert.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestThreadLinker_Append(t *testing.T) {
	l := setupLinker(t)

	_, err := l.Append("ann-1", "  looks good ")
	require.NoError(t, err)
	_, err = l.Append("ann-2", "other thread")
	require.NoError(t, err)
	_, err = l.Append("ann-1", "second thought")
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"looks good", "second thought"}, texts(l.ThreadFor("ann-1"))); diff != "" {
		t.Errorf("thread mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"other thread"}, texts(l.ThreadFor("ann-2")))

	thread := l.ThreadFor("ann-1")
	assert.True(t, thread[0].CreatedAt.Before(thread[1].CreatedAt))
}

func TestThreadLinker_AppendFillsSeed(t *testing.T) {
	l := setupLinker(t)

	seed, err := l.Seed("ann-1")
	require.NoError(t, err)

	filled, err := l.Append("ann-1", "looks good")
	require.NoError(t, err)
	assert.Equal(t, seed.ID, filled.ID)
	assert.Equal(t, seed.CreatedAt, filled.CreatedAt)
	assert.True(t, filled.UpdatedAt.After(seed.UpdatedAt))

	thread := l.ThreadFor("ann-1")
	require.Len(t, thread, 1)
	assert.Equal(t, "looks good", thread[0].Text)

	_, err = l.Append("ann-1", "second")
	require.NoError(t, err)
	assert.Equal(t, []string{"looks good", "second"}, texts(l.ThreadFor("ann-1")))
}

func TestThreadLinker_AppendRejects(t *testing.T) {
	tests := []struct {
		name       string
		selectedID string
		text       string
	}{
		{"nothing selected", "", "looks good"},
		{"empty text", "ann-1", ""},
		{"whitespace only", "ann-1", " \t\n "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := setupLinker(t)

			_, err := l.Append(tt.selectedID, tt.text)
			assert.ErrorIs(t, err, domainerrors.ErrUserInput)
			assert.Empty(t, l.All())
		})
	}
}

func TestThreadLinker_EditText(t *testing.T) {
	l := setupLinker(t)
	seeded, err := l.Seed("ann-1")
	require.NoError(t, err)

	edited, err := l.EditText(seeded.ID, "first note")
	require.NoError(t, err)

	assert.Equal(t, "first note", edited.Text)
	assert.Equal(t, seeded.AnnotationID, edited.AnnotationID)
	assert.Equal(t, seeded.CreatedAt, edited.CreatedAt)
	assert.True(t, edited.UpdatedAt.After(seeded.UpdatedAt))

	_, err = l.EditText(seeded.ID, "   ")
	assert.ErrorIs(t, err, domainerrors.ErrUserInput)

	_, err = l.EditText("cmt-missing", "x")
	assert.ErrorIs(t, err, store.ErrCommentNotFound)

	got, err := l.Get(seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "first note", got.Text)
}

func TestThreadLinker_Prune(t *testing.T) {
	l := setupLinker(t)
	for _, owner := range []string{"ann-1", "ann-2", "ann-1", "ann-3", "ann-1"} {
		_, err := l.Append(owner, "note on "+owner)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, l.Prune("ann-1"))
	assert.Empty(t, l.ThreadFor("ann-1"))
	assert.Zero(t, l.Prune("ann-1"))

	if diff := cmp.Diff([]string{"note on ann-2", "note on ann-3"}, texts(l.All())); diff != "" {
		t.Errorf("All() after Prune mismatch (-want +got):\n%s", diff)
	}

	// Lookups still resolve after the index is rebuilt.
	survivor := l.ThreadFor("ann-3")[0]
	got, err := l.Get(survivor.ID)
	require.NoError(t, err)
	assert.Equal(t, survivor, got)
}
