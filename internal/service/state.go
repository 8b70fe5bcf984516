package service

import (
	"log/slog"
	"time"

	"github.com/listenupapp/inkmark/internal/domain"
	domainerrors "github.com/listenupapp/inkmark/internal/errors"
	"github.com/listenupapp/inkmark/internal/signature"
)

// State is a read-only snapshot of a session.
type State struct {
	ID               string
	CreatedAt        time.Time
	DocumentName     string
	Loading          bool
	CurrentPage      int
	TotalPages       int
	Scale            float64
	Tool             domain.Tool
	Color            string
	Selected         string
	SignatureState   signature.State
	HasSignature     bool
	Annotations      []domain.Annotation
	Comments         []domain.Comment
	SignatureDrawing bool
}

// State returns a snapshot. The slices are copies.
func (s *Session) State() State {
	st := State{
		ID:               s.id,
		CreatedAt:        s.createdAt,
		Loading:          s.loading,
		CurrentPage:      s.page,
		TotalPages:       s.TotalPages(),
		Scale:            s.scale,
		Tool:             s.tool,
		Color:            s.color,
		Selected:         s.selected,
		SignatureState:   s.capture.State(),
		SignatureDrawing: s.capture.IsOpen(),
		HasSignature:     s.pending != nil,
		Annotations:      s.annotations.All(),
		Comments:         s.threads.All(),
	}
	if s.file != nil {
		st.DocumentName = s.file.Name
	}
	return st
}

// CheckInvariants verifies the cross-component contracts and logs every
// violation as a defect. It returns them joined, or nil.
func (s *Session) CheckInvariants() error {
	var violations []error

	total := s.TotalPages()
	if total > 0 && (s.page < 1 || s.page > total) {
		violations = append(violations, domainerrors.Invariantf("current page %d outside [1, %d]", s.page, total))
	}
	if s.scale < s.cfg.Zoom.Min || s.scale > s.cfg.Zoom.Max {
		violations = append(violations, domainerrors.Invariantf("scale %g outside [%g, %g]", s.scale, s.cfg.Zoom.Min, s.cfg.Zoom.Max))
	}

	for _, a := range s.annotations.All() {
		if a.Position.Page < 0 || (total > 0 && a.Position.Page >= total) {
			violations = append(violations, domainerrors.Invariantf("annotation %s on page index %d of %d", a.ID, a.Position.Page, total))
		}
	}
	for _, c := range s.threads.All() {
		if !s.annotations.Exists(c.AnnotationID) {
			violations = append(violations, domainerrors.Invariantf("comment %s references missing annotation %s", c.ID, c.AnnotationID))
		}
	}
	if s.selected != "" && !s.annotations.Exists(s.selected) {
		violations = append(violations, domainerrors.Invariantf("selected annotation %s does not exist", s.selected))
	}
	if s.capture.State() == signature.StateCaptured {
		violations = append(violations, domainerrors.Invariant("signature capture left in captured state"))
	}

	for _, v := range violations {
		s.logger.Error("invariant violation", slog.String("error", v.Error()))
	}
	return domainerrors.Join(violations...)
}
