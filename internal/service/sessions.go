package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/listenupapp/inkmark/internal/document"
	"github.com/listenupapp/inkmark/internal/domain"
	domainerrors "github.com/listenupapp/inkmark/internal/errors"
	"github.com/listenupapp/inkmark/internal/geometry"
	"github.com/listenupapp/inkmark/internal/logger"
	"github.com/listenupapp/inkmark/internal/overlay"
	"github.com/listenupapp/inkmark/internal/signature"
	"github.com/listenupapp/inkmark/internal/sse"
	"github.com/listenupapp/inkmark/internal/validation"
)

// SurfaceFactory creates the drawing surface of a new session.
type SurfaceFactory func() signature.Surface

// sessionEntry serializes every operation on one session.
type sessionEntry struct {
	mu      sync.Mutex
	session *Session
}

// SessionService is the registry of live sessions. Sessions share nothing but
// the document backend and renderer.
type SessionService struct {
	sessions   map[string]*sessionEntry
	cfg        SessionConfig
	backend    document.Backend
	renderer   *overlay.Renderer
	newSurface SurfaceFactory
	events     EventEmitter
	logger     *logger.Logger
	validator  *validation.Validator
	mu         sync.RWMutex
}

// NewSessionService creates a new session service.
func NewSessionService(
	cfg SessionConfig,
	backend document.Backend,
	renderer *overlay.Renderer,
	newSurface SurfaceFactory,
	events EventEmitter,
	log *logger.Logger,
) *SessionService {
	return &SessionService{
		sessions:   make(map[string]*sessionEntry),
		cfg:        cfg,
		backend:    backend,
		renderer:   renderer,
		newSurface: newSurface,
		events:     events,
		logger:     log,
		validator:  validation.New(),
	}
}

// CreateSession starts a new empty session.
func (s *SessionService) CreateSession(_ context.Context) (State, error) {
	sessionID := uuid.NewString()
	sess := NewSession(sessionID, s.cfg, SessionDeps{
		Surface:  s.newSurface(),
		Renderer: s.renderer,
		Emitter:  s.events,
		Logger:   s.logger,
	})

	s.mu.Lock()
	s.sessions[sessionID] = &sessionEntry{session: sess}
	total := len(s.sessions)
	s.mu.Unlock()

	s.logger.WithSession(sessionID).Info("session created", slog.Int("total_sessions", total))
	s.emit(sse.NewSessionCreatedEvent(sessionID))
	return sess.State(), nil
}

// GetSession returns a session snapshot.
func (s *SessionService) GetSession(_ context.Context, sessionID string) (State, error) {
	var st State
	err := s.with(sessionID, func(sess *Session) error {
		st = sess.State()
		return nil
	})
	return st, err
}

// Exists reports whether a session is live.
func (s *SessionService) Exists(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[sessionID]
	return ok
}

// SessionIDs returns the live session identities, sorted.
func (s *SessionService) SessionIDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for sessionID := range s.sessions {
		ids = append(ids, sessionID)
	}
	s.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

// DeleteSession discards a session and all its state.
func (s *SessionService) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !ok {
		return sessionNotFound(sessionID)
	}
	s.logger.WithSession(sessionID).Info("session deleted")
	s.emit(sse.NewSessionClosedEvent(sessionID))
	return nil
}

// LoadDocumentRequest contains an uploaded document.
type LoadDocumentRequest struct {
	Name string `json:"name" validate:"required,max=255"`
	Data []byte `json:"data" validate:"required"`
}

// LoadDocument parses an upload and swaps it into the session. The session is
// unlocked while the backend parses, and a second load is refused as busy.
func (s *SessionService) LoadDocument(ctx context.Context, sessionID string, req LoadDocumentRequest) (State, error) {
	if err := s.validator.Validate(req); err != nil {
		return State{}, err
	}
	entry, err := s.entry(sessionID)
	if err != nil {
		return State{}, err
	}

	entry.mu.Lock()
	file, err := entry.session.BeginLoad(req.Name, req.Data)
	entry.mu.Unlock()
	if err != nil {
		return State{}, err
	}

	doc, loadErr := s.backend.Load(ctx, file.Data)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := entry.session.FinishLoad(file, doc, loadErr); err != nil {
		return State{}, err
	}
	return entry.session.State(), nil
}

// SelectToolRequest selects a tool. Toggle deselects an already active tool.
type SelectToolRequest struct {
	Tool   string `json:"tool" validate:"required,oneof=none highlight underline comment signature"`
	Toggle bool   `json:"toggle"`
}

// SelectTool changes the active tool.
func (s *SessionService) SelectTool(_ context.Context, sessionID string, req SelectToolRequest) (State, error) {
	if err := s.validator.Validate(req); err != nil {
		return State{}, err
	}
	tool, err := domain.ParseTool(req.Tool)
	if err != nil {
		return State{}, domainerrors.Validation(err.Error())
	}
	return s.mutate(sessionID, func(sess *Session) error {
		if req.Toggle {
			sess.ToggleTool(tool)
		} else {
			sess.SelectTool(tool)
		}
		return nil
	})
}

// SetColorRequest sets the active color.
type SetColorRequest struct {
	Color string `json:"color" validate:"required,max=64"`
}

// SetColor changes the active color.
func (s *SessionService) SetColor(_ context.Context, sessionID string, req SetColorRequest) (State, error) {
	if err := s.validator.Validate(req); err != nil {
		return State{}, err
	}
	return s.mutate(sessionID, func(sess *Session) error {
		return sess.SetColor(req.Color)
	})
}

// ZoomRequest adjusts the zoom.
type ZoomRequest struct {
	Action string `json:"action" validate:"required,oneof=in out reset"`
}

// Zoom applies a zoom action.
func (s *SessionService) Zoom(_ context.Context, sessionID string, req ZoomRequest) (State, error) {
	if err := s.validator.Validate(req); err != nil {
		return State{}, err
	}
	return s.mutate(sessionID, func(sess *Session) error {
		switch req.Action {
		case "in":
			sess.ZoomIn()
		case "out":
			sess.ZoomOut()
		default:
			sess.ResetZoom()
		}
		return nil
	})
}

// NavigateRequest moves between pages.
type NavigateRequest struct {
	Direction string `json:"direction" validate:"required,oneof=next prev"`
}

// Navigate moves one page. Boundaries are a no-op.
func (s *SessionService) Navigate(_ context.Context, sessionID string, req NavigateRequest) (State, error) {
	if err := s.validator.Validate(req); err != nil {
		return State{}, err
	}
	return s.mutate(sessionID, func(sess *Session) error {
		if req.Direction == "next" {
			sess.NextPage()
		} else {
			sess.PrevPage()
		}
		return nil
	})
}

// AddAnnotationRequest is a click on the rendered current page.
type AddAnnotationRequest struct {
	Event    geometry.PointerEvent `json:"event"`
	PageRect PageRect              `json:"page_rect" validate:"required"`
}

// PageRect is the rendered page's bounding rectangle in viewport coordinates.
type PageRect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
}

// AddAnnotation places the active tool. It returns nil when no tool is active.
func (s *SessionService) AddAnnotation(_ context.Context, sessionID string, req AddAnnotationRequest) (*domain.Annotation, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	var record *domain.Annotation
	err := s.with(sessionID, func(sess *Session) error {
		var err error
		record, err = sess.AddAnnotation(req.Event, geometry.Rect{
			Left:   req.PageRect.Left,
			Top:    req.PageRect.Top,
			Width:  req.PageRect.Width,
			Height: req.PageRect.Height,
		})
		return err
	})
	return record, err
}

// RemoveAnnotation deletes an annotation and its thread, returning the pruned comment count.
func (s *SessionService) RemoveAnnotation(_ context.Context, sessionID, annotationID string) (int, error) {
	var pruned int
	err := s.with(sessionID, func(sess *Session) error {
		var err error
		pruned, err = sess.RemoveAnnotation(annotationID)
		return err
	})
	return pruned, err
}

// ListAnnotations returns the annotations on a 1-based page in creation order.
func (s *SessionService) ListAnnotations(_ context.Context, sessionID string, page int) ([]domain.Annotation, error) {
	var out []domain.Annotation
	err := s.with(sessionID, func(sess *Session) error {
		var err error
		out, err = sess.AnnotationsOnPage(page)
		return err
	})
	return out, err
}

// SelectAnnotation selects an annotation, or clears the selection when annotationID is empty.
func (s *SessionService) SelectAnnotation(_ context.Context, sessionID, annotationID string) (State, error) {
	return s.mutate(sessionID, func(sess *Session) error {
		if annotationID == "" {
			sess.ClearSelection()
			return nil
		}
		return sess.SelectAnnotation(annotationID)
	})
}

// ThreadFor returns an annotation's comments in creation order.
func (s *SessionService) ThreadFor(_ context.Context, sessionID, annotationID string) ([]domain.Comment, error) {
	var out []domain.Comment
	err := s.with(sessionID, func(sess *Session) error {
		var err error
		out, err = sess.ThreadFor(annotationID)
		return err
	})
	return out, err
}

// CommentRequest carries comment text. Emptiness is checked by the thread linker.
type CommentRequest struct {
	Text string `json:"text" validate:"max=10000"`
}

// AppendComment adds to the selected annotation's thread.
func (s *SessionService) AppendComment(_ context.Context, sessionID string, req CommentRequest) (domain.Comment, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.Comment{}, err
	}
	var c domain.Comment
	err := s.with(sessionID, func(sess *Session) error {
		var err error
		c, err = sess.AppendComment(req.Text)
		return err
	})
	return c, err
}

// EditComment replaces a comment's text.
func (s *SessionService) EditComment(_ context.Context, sessionID, commentID string, req CommentRequest) (domain.Comment, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.Comment{}, err
	}
	var c domain.Comment
	err := s.with(sessionID, func(sess *Session) error {
		var err error
		c, err = sess.EditComment(commentID, req.Text)
		return err
	})
	return c, err
}

// OpenSignatureRequest opens the capture surface. Zero size uses the default box.
type OpenSignatureRequest struct {
	Width   float64 `json:"width" validate:"gte=0,lte=4096"`
	Height  float64 `json:"height" validate:"gte=0,lte=4096"`
	OriginX float64 `json:"origin_x"`
	OriginY float64 `json:"origin_y"`
}

// OpenSignature opens the capture surface.
func (s *SessionService) OpenSignature(_ context.Context, sessionID string, req OpenSignatureRequest) (State, error) {
	if err := s.validator.Validate(req); err != nil {
		return State{}, err
	}
	return s.mutate(sessionID, func(sess *Session) error {
		return sess.OpenSignature(
			geometry.Size{Width: req.Width, Height: req.Height},
			geometry.Point{X: req.OriginX, Y: req.OriginY},
		)
	})
}

// SignatureEventRequest is one pointer event on the capture surface.
type SignatureEventRequest struct {
	Phase    string  `json:"phase" validate:"required,oneof=down move up leave"`
	Modality string  `json:"modality" validate:"required,oneof=mouse touch"`
	OffsetX  float64 `json:"offset_x"`
	OffsetY  float64 `json:"offset_y"`
	ClientX  float64 `json:"client_x"`
	ClientY  float64 `json:"client_y"`
}

// SignatureEvents feeds pointer events to the capture surface in order.
// Processing stops at the first rejected event.
func (s *SessionService) SignatureEvents(_ context.Context, sessionID string, events []SignatureEventRequest) error {
	for _, ev := range events {
		if err := s.validator.Validate(ev); err != nil {
			return err
		}
	}
	return s.with(sessionID, func(sess *Session) error {
		for _, ev := range events {
			in := signature.Input{
				Modality: signature.Modality(ev.Modality),
				OffsetX:  ev.OffsetX,
				OffsetY:  ev.OffsetY,
				ClientX:  ev.ClientX,
				ClientY:  ev.ClientY,
			}
			if err := sess.SignatureInput(PointerPhase(ev.Phase), in); err != nil {
				return err
			}
		}
		return nil
	})
}

// ClearSignature erases the capture surface.
func (s *SessionService) ClearSignature(_ context.Context, sessionID string) (State, error) {
	return s.mutate(sessionID, func(sess *Session) error {
		return sess.ClearSignature()
	})
}

// ConfirmSignature captures the drawing as the pending signature.
func (s *SessionService) ConfirmSignature(_ context.Context, sessionID string) (*domain.Asset, error) {
	var asset *domain.Asset
	err := s.with(sessionID, func(sess *Session) error {
		var err error
		asset, err = sess.ConfirmSignature()
		return err
	})
	return asset, err
}

// CancelSignature discards the drawing.
func (s *SessionService) CancelSignature(_ context.Context, sessionID string) (State, error) {
	return s.mutate(sessionID, func(sess *Session) error {
		sess.CancelSignature()
		return nil
	})
}

// RenderPage renders a page with its placements. Zero page or scale mean the current one.
func (s *SessionService) RenderPage(ctx context.Context, sessionID string, page int, scale float64) (*PageView, error) {
	var view *PageView
	err := s.with(sessionID, func(sess *Session) error {
		var err error
		view, err = sess.RenderPage(ctx, page, scale)
		return err
	})
	return view, err
}

// Export re-delivers the original document.
func (s *SessionService) Export(_ context.Context, sessionID string) (*Export, error) {
	var out *Export
	err := s.with(sessionID, func(sess *Session) error {
		var err error
		out, err = sess.Export()
		return err
	})
	return out, err
}

// ExportOverlay writes the annotation overlay PDF.
func (s *SessionService) ExportOverlay(ctx context.Context, sessionID string) (*Export, error) {
	var out *Export
	err := s.with(sessionID, func(sess *Session) error {
		var err error
		out, err = sess.ExportOverlay(ctx)
		return err
	})
	return out, err
}

// PreviewPage rasterizes a page overlay.
func (s *SessionService) PreviewPage(ctx context.Context, sessionID string, page int, scale float64) (*domain.Asset, error) {
	var out *domain.Asset
	err := s.with(sessionID, func(sess *Session) error {
		var err error
		out, err = sess.PreviewPage(ctx, page, scale)
		return err
	})
	return out, err
}

// CheckInvariants verifies a session's cross-component contracts.
func (s *SessionService) CheckInvariants(_ context.Context, sessionID string) error {
	return s.with(sessionID, func(sess *Session) error {
		return sess.CheckInvariants()
	})
}

func (s *SessionService) entry(sessionID string) (*sessionEntry, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, sessionNotFound(sessionID)
	}
	return entry, nil
}

// with runs fn while holding the session.
func (s *SessionService) with(sessionID string, fn func(*Session) error) error {
	entry, err := s.entry(sessionID)
	if err != nil {
		return err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.session)
}

// mutate runs fn and returns the resulting snapshot.
func (s *SessionService) mutate(sessionID string, fn func(*Session) error) (State, error) {
	var st State
	err := s.with(sessionID, func(sess *Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		st = sess.State()
		return nil
	})
	return st, err
}

func (s *SessionService) emit(event sse.Event) {
	if s.events != nil {
		s.events.Emit(event)
	}
}

func sessionNotFound(sessionID string) error {
	return domainerrors.NotFoundf("session %s not found", sessionID)
}
