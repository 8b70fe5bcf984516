package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/listenupapp/inkmark/internal/domain"
	domainerrors "github.com/listenupapp/inkmark/internal/errors"
	"github.com/listenupapp/inkmark/internal/id"
)

// ThreadLinker relates annotation identities to their comments.
// Comments are kept in creation order. Not safe for concurrent use.
type ThreadLinker struct {
	comments []domain.Comment
	index    map[string]int
	newID    id.Generator
	now      Clock
}

// NewThreadLinker creates an empty linker.
func NewThreadLinker(newID id.Generator, now Clock) *ThreadLinker {
	return &ThreadLinker{
		index: make(map[string]int),
		newID: newID,
		now:   now,
	}
}

// Seed opens the thread of a new comment annotation with one empty-text entry.
func (l *ThreadLinker) Seed(annotationID string) (domain.Comment, error) {
	if annotationID == "" {
		return domain.Comment{}, ErrInvalidInput.WithMessage("annotation id is required")
	}
	return l.create(annotationID, "")
}

// Append adds a comment to the selected annotation's thread.
// selectedID is empty when nothing is selected. The first append to a seeded
// thread fills the empty placeholder instead of adding a second entry.
func (l *ThreadLinker) Append(selectedID, text string) (domain.Comment, error) {
	if selectedID == "" {
		return domain.Comment{}, domainerrors.UserInput("Select an annotation to comment on")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Comment{}, domainerrors.UserInput("Comment text is empty")
	}

	for i, c := range l.comments {
		if c.AnnotationID == selectedID && c.Text == "" {
			l.comments[i].Text = text
			l.comments[i].UpdatedAt = l.now()
			return l.comments[i], nil
		}
	}
	return l.create(selectedID, text)
}

// ThreadFor returns the comments owned by annotationID in creation order.
func (l *ThreadLinker) ThreadFor(annotationID string) []domain.Comment {
	var out []domain.Comment
	for _, c := range l.comments {
		if c.AnnotationID == annotationID {
			out = append(out, c)
		}
	}
	return out
}

// Get returns one comment.
func (l *ThreadLinker) Get(commentID string) (domain.Comment, error) {
	i, ok := l.index[commentID]
	if !ok {
		return domain.Comment{}, ErrCommentNotFound
	}
	return l.comments[i], nil
}

// EditText replaces a comment's text. Owner and creation time never change.
func (l *ThreadLinker) EditText(commentID, text string) (domain.Comment, error) {
	i, ok := l.index[commentID]
	if !ok {
		return domain.Comment{}, ErrCommentNotFound
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Comment{}, domainerrors.UserInput("Comment text is empty")
	}

	l.comments[i].Text = text
	l.comments[i].UpdatedAt = l.now()
	return l.comments[i], nil
}

// Prune removes annotationID's whole thread and returns how many comments went with it.
func (l *ThreadLinker) Prune(annotationID string) int {
	before := len(l.comments)
	l.comments = slices.DeleteFunc(l.comments, func(c domain.Comment) bool {
		return c.AnnotationID == annotationID
	})
	if removed := before - len(l.comments); removed > 0 {
		clear(l.index)
		for i, c := range l.comments {
			l.index[c.ID] = i
		}
		return removed
	}
	return 0
}

// All returns every comment in creation order.
func (l *ThreadLinker) All() []domain.Comment {
	return slices.Clone(l.comments)
}

func (l *ThreadLinker) create(annotationID, text string) (domain.Comment, error) {
	commentID, err := l.newID()
	if err != nil {
		return domain.Comment{}, fmt.Errorf("generate comment id: %w", err)
	}
	if _, taken := l.index[commentID]; taken {
		return domain.Comment{}, ErrAlreadyExists.WithMessage("comment id " + commentID + " already exists")
	}

	now := l.now()
	c := domain.Comment{
		ID:           commentID,
		AnnotationID: annotationID,
		Text:         text,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	l.index[commentID] = len(l.comments)
	l.comments = append(l.comments, c)
	return c, nil
}
