// Package store holds the in-memory annotation and comment collections of one session.
package store

import (
	"fmt"
	"slices"
	"time"

	"github.com/listenupapp/inkmark/internal/domain"
	"github.com/listenupapp/inkmark/internal/id"
)

// Clock returns the current time.
type Clock func() time.Time

// AnnotationStore is the ordered collection of annotation records of one session.
// Records are kept in insertion order. Not safe for concurrent use.
type AnnotationStore struct {
	records []domain.Annotation
	index   map[string]int
	// used holds every identity ever issued, including removed ones.
	used  map[string]struct{}
	newID id.Generator
	now   Clock
}

// NewAnnotationStore creates an empty store.
func NewAnnotationStore(newID id.Generator, now Clock) *AnnotationStore {
	return &AnnotationStore{
		index: make(map[string]int),
		used:  make(map[string]struct{}),
		newID: newID,
		now:   now,
	}
}

// Add appends a record built from position and markup and returns it with its new identity.
func (s *AnnotationStore) Add(position domain.Position, markup domain.Markup) (domain.Annotation, error) {
	if markup == nil {
		return domain.Annotation{}, ErrInvalidInput.WithMessage("annotation markup is required")
	}
	if position.Page < 0 {
		return domain.Annotation{}, ErrInvalidInput.WithMessage(fmt.Sprintf("page index %d is negative", position.Page))
	}

	annotationID, err := s.newID()
	if err != nil {
		return domain.Annotation{}, fmt.Errorf("generate annotation id: %w", err)
	}
	if _, taken := s.used[annotationID]; taken {
		return domain.Annotation{}, ErrAlreadyExists.WithMessage("annotation id " + annotationID + " was already issued")
	}

	record := domain.Annotation{
		ID:        annotationID,
		Position:  position,
		Markup:    markup,
		CreatedAt: s.now(),
	}

	s.used[annotationID] = struct{}{}
	s.index[annotationID] = len(s.records)
	s.records = append(s.records, record)

	return record, nil
}

// Get returns the record with the given identity.
func (s *AnnotationStore) Get(annotationID string) (domain.Annotation, error) {
	i, ok := s.index[annotationID]
	if !ok {
		return domain.Annotation{}, ErrAnnotationNotFound
	}
	return s.records[i], nil
}

// Exists reports whether a record with the given identity is stored.
func (s *AnnotationStore) Exists(annotationID string) bool {
	_, ok := s.index[annotationID]
	return ok
}

// ListForPage returns the records on pageIndex in insertion order.
// It scans every record; there is no per-page index to keep in sync.
func (s *AnnotationStore) ListForPage(pageIndex int) []domain.Annotation {
	var out []domain.Annotation
	for _, r := range s.records {
		if r.Position.Page == pageIndex {
			out = append(out, r)
		}
	}
	return out
}

// All returns every record in insertion order.
func (s *AnnotationStore) All() []domain.Annotation {
	return slices.Clone(s.records)
}

// Len returns the number of stored records.
func (s *AnnotationStore) Len() int {
	return len(s.records)
}

// Remove deletes a record, keeping the order of the rest. The identity stays retired.
func (s *AnnotationStore) Remove(annotationID string) (domain.Annotation, error) {
	i, ok := s.index[annotationID]
	if !ok {
		return domain.Annotation{}, ErrAnnotationNotFound
	}

	removed := s.records[i]
	s.records = slices.Delete(s.records, i, i+1)
	delete(s.index, annotationID)
	for j := i; j < len(s.records); j++ {
		s.index[s.records[j].ID] = j
	}

	return removed, nil
}
