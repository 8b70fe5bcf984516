package service

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/listenupapp/inkmark/internal/document"
	"github.com/listenupapp/inkmark/internal/domain"
	domainerrors "github.com/listenupapp/inkmark/internal/errors"
	"github.com/listenupapp/inkmark/internal/geometry"
	"github.com/listenupapp/inkmark/internal/id"
	"github.com/listenupapp/inkmark/internal/logger"
	"github.com/listenupapp/inkmark/internal/overlay"
	"github.com/listenupapp/inkmark/internal/signature"
	"github.com/listenupapp/inkmark/internal/sse"
	"github.com/listenupapp/inkmark/internal/store"
)

// EventEmitter receives session events.
type EventEmitter interface {
	Emit(event sse.Event)
}

// SessionConfig holds per-session defaults.
type SessionConfig struct {
	DefaultColor string
	// SignatureBox is the document-space box given to placed signatures.
	SignatureBox geometry.Size
	// CaptureBox is the capture surface size used when open is called without one.
	CaptureBox geometry.Size
	// MaxCaptureBox is the largest capture surface a client may open.
	MaxCaptureBox geometry.Size
	// MaxPreviewPixels caps the pixel count of a page preview.
	MaxPreviewPixels int
	Zoom             geometry.Zoom
}

// DefaultMaxPreviewPixels is the preview budget used when none is configured.
const DefaultMaxPreviewPixels = 4096 * 4096

// DefaultSessionConfig returns the stock defaults.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		DefaultColor:     domain.DefaultColor,
		SignatureBox:     overlay.DefaultStampBox,
		CaptureBox:       geometry.Size{Width: 400, Height: 256},
		MaxCaptureBox:    signature.DefaultMaxBox,
		MaxPreviewPixels: DefaultMaxPreviewPixels,
		Zoom:             geometry.DefaultZoom(),
	}
}

// SessionDeps are the collaborators of a Session. Nil fields get defaults.
type SessionDeps struct {
	Surface       signature.Surface
	Renderer      *overlay.Renderer
	Emitter       EventEmitter
	Logger        *logger.Logger
	AnnotationIDs id.Generator
	CommentIDs    id.Generator
	Clock         store.Clock
}

// Session is the annotation session controller. It owns every piece of session
// state and is not safe for concurrent use; SessionService serializes access.
type Session struct {
	id        string
	createdAt time.Time
	cfg       SessionConfig

	renderer      *overlay.Renderer
	emitter       EventEmitter
	logger        *logger.Logger
	annotationIDs id.Generator
	commentIDs    id.Generator
	now           store.Clock

	annotations *store.AnnotationStore
	threads     *store.ThreadLinker
	capture     *signature.Capture

	file    *document.File
	doc     document.Document
	loading bool

	tool     domain.Tool
	color    string
	page     int
	scale    float64
	pending  *domain.Asset
	selected string
}

// NewSession creates a session with no document, no tool and scale 1.0.
func NewSession(sessionID string, cfg SessionConfig, deps SessionDeps) *Session {
	if deps.Logger == nil {
		deps.Logger = &logger.Logger{Logger: slog.New(slog.DiscardHandler)}
	}
	if deps.AnnotationIDs == nil {
		deps.AnnotationIDs = id.Prefixed(id.PrefixAnnotation)
	}
	if deps.CommentIDs == nil {
		deps.CommentIDs = id.Prefixed(id.PrefixComment)
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if cfg.DefaultColor == "" {
		cfg.DefaultColor = domain.DefaultColor
	}
	if cfg.MaxPreviewPixels <= 0 {
		cfg.MaxPreviewPixels = DefaultMaxPreviewPixels
	}

	s := &Session{
		id:            sessionID,
		createdAt:     deps.Clock(),
		cfg:           cfg,
		renderer:      deps.Renderer,
		emitter:       deps.Emitter,
		logger:        deps.Logger.WithSession(sessionID),
		annotationIDs: deps.AnnotationIDs,
		commentIDs:    deps.CommentIDs,
		now:           deps.Clock,
		capture:       signature.NewCapture(deps.Surface, cfg.MaxCaptureBox),
		tool:          domain.ToolNone,
		color:         cfg.DefaultColor,
		page:          1,
		scale:         cfg.Zoom.Reset(),
	}
	s.resetRecords()
	return s
}

// ID returns the session identity.
func (s *Session) ID() string { return s.id }

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Tool returns the active tool.
func (s *Session) Tool() domain.Tool { return s.tool }

// Color returns the active color.
func (s *Session) Color() string { return s.color }

// Page returns the 1-based current page.
func (s *Session) Page() int { return s.page }

// TotalPages returns the page count of the loaded document, or 0.
func (s *Session) TotalPages() int {
	if s.doc == nil {
		return 0
	}
	return s.doc.PageCount()
}

// Scale returns the current zoom scale.
func (s *Session) Scale() float64 { return s.scale }

// Loading reports whether a document load is in flight.
func (s *Session) Loading() bool { return s.loading }

// Selected returns the selected annotation identity, or "".
func (s *Session) Selected() string { return s.selected }

// PendingSignature returns the captured signature waiting to be placed, or nil.
func (s *Session) PendingSignature() *domain.Asset { return s.pending }

// SignatureState returns the capture state.
func (s *Session) SignatureState() signature.State { return s.capture.State() }

// Annotations returns every record in creation order.
func (s *Session) Annotations() []domain.Annotation { return s.annotations.All() }

// Comments returns every comment in creation order.
func (s *Session) Comments() []domain.Comment { return s.threads.All() }

func (s *Session) resetRecords() {
	s.annotations = store.NewAnnotationStore(s.annotationIDs, s.now)
	s.threads = store.NewThreadLinker(s.commentIDs, s.now)
	s.selected = ""
}

// --- Document lifecycle ---

// BeginLoad validates an upload and raises the loading flag.
// The caller parses file.Data and reports back through FinishLoad.
func (s *Session) BeginLoad(name string, data []byte) (*document.File, error) {
	if s.loading {
		return nil, domainerrors.Conflict("session is busy loading a document")
	}
	file, err := document.NewFile(name, data)
	if err != nil {
		return nil, s.fail(err)
	}
	s.loading = true
	s.emit(sse.NewDocumentLoadingEvent(s.id, file.Name))
	return file, nil
}

// FinishLoad clears the loading flag and, on success, swaps in the new document.
// A failed load leaves the previous document and its annotations untouched.
func (s *Session) FinishLoad(file *document.File, doc document.Document, loadErr error) error {
	s.loading = false

	if loadErr == nil && (doc == nil || doc.PageCount() < 1) {
		loadErr = domainerrors.Document("document has no pages")
	}
	if loadErr != nil {
		if domainerrors.CodeOf(loadErr) != domainerrors.CodeDocument {
			loadErr = domainerrors.Wrap(loadErr, domainerrors.CodeDocument, "failed to load document")
		}
		s.logger.Warn("document load failed", slog.String("error", loadErr.Error()))
		s.notice(sse.NoticeError, "Failed to load document")
		return loadErr
	}

	s.file = file
	s.doc = doc
	s.page = 1
	s.resetRecords()

	s.logger.Info("document loaded",
		slog.String("name", file.Name),
		slog.Int("total_pages", doc.PageCount()))
	s.emit(sse.NewDocumentLoadedEvent(s.id, file.Name, doc.PageCount()))
	s.emitView()
	s.notice(sse.NoticeSuccess, "Document uploaded successfully")
	return nil
}

// LoadDocument runs the whole load while holding the session.
func (s *Session) LoadDocument(ctx context.Context, backend document.Backend, name string, data []byte) error {
	file, err := s.BeginLoad(name, data)
	if err != nil {
		return err
	}
	doc, err := backend.Load(ctx, file.Data)
	return s.FinishLoad(file, doc, err)
}

func (s *Session) requireDocument() error {
	if s.doc == nil {
		return s.fail(domainerrors.UserInput("Upload a document first"))
	}
	return nil
}

// --- Tools ---

// SelectTool makes tool active. The color is left unchanged.
func (s *Session) SelectTool(tool domain.Tool) {
	s.tool = tool
	s.emit(sse.NewToolChangedEvent(s.id, s.tool, s.color))
}

// ToggleTool selects tool, or deselects it when it is already active.
func (s *Session) ToggleTool(tool domain.Tool) domain.Tool {
	if s.tool == tool {
		tool = domain.ToolNone
	}
	s.SelectTool(tool)
	return s.tool
}

// SetColor sets the active color. Any non-empty color value is accepted.
func (s *Session) SetColor(color string) error {
	color = strings.TrimSpace(color)
	if color == "" {
		return s.fail(domainerrors.UserInput("Pick a color"))
	}
	s.color = color
	s.emit(sse.NewToolChangedEvent(s.id, s.tool, s.color))
	return nil
}

// --- View ---

// ZoomIn raises the scale one step, clamped to the maximum.
func (s *Session) ZoomIn() float64 {
	return s.setScale(s.cfg.Zoom.In(s.scale))
}

// ZoomOut lowers the scale one step, clamped to the minimum.
func (s *Session) ZoomOut() float64 {
	return s.setScale(s.cfg.Zoom.Out(s.scale))
}

// ResetZoom sets the scale to exactly 1.0.
func (s *Session) ResetZoom() float64 {
	return s.setScale(s.cfg.Zoom.Reset())
}

func (s *Session) setScale(scale float64) float64 {
	if scale != s.scale {
		s.scale = scale
		s.emitView()
	}
	return s.scale
}

// NextPage advances one page. It reports false at the last page.
func (s *Session) NextPage() (int, bool) {
	if s.page >= s.TotalPages() {
		return s.page, false
	}
	s.page++
	s.emitView()
	return s.page, true
}

// PrevPage goes back one page. It reports false at the first page.
func (s *Session) PrevPage() (int, bool) {
	if s.page <= 1 {
		return s.page, false
	}
	s.page--
	s.emitView()
	return s.page, true
}

func (s *Session) emitView() {
	s.emit(sse.NewViewChangedEvent(s.id, s.page, s.TotalPages(), s.scale))
}

// --- Annotations ---

// AddAnnotation places the active tool at a pointer event on the rendered current page.
// It returns nil without error when no tool is active.
func (s *Session) AddAnnotation(ev geometry.PointerEvent, page geometry.Rect) (*domain.Annotation, error) {
	kind, ok := s.tool.Kind()
	if !ok {
		return nil, nil
	}
	if err := s.requireDocument(); err != nil {
		return nil, err
	}
	if s.page < 1 || s.page > s.TotalPages() {
		return nil, s.fail(domainerrors.Invariantf("current page %d outside [1, %d]", s.page, s.TotalPages()))
	}

	p := geometry.ToDocument(ev, page, s.scale)
	pos := domain.Position{X: p.X, Y: p.Y, Page: s.page - 1}

	var markup domain.Markup
	switch kind {
	case domain.KindSignature:
		if s.pending == nil {
			return nil, s.fail(domainerrors.UserInput("Draw a signature first"))
		}
		markup = domain.SignatureStamp{Asset: s.pending, Size: s.cfg.SignatureBox}
	case domain.KindComment:
		markup = domain.CommentPin{Color: s.color}
	case domain.KindUnderline:
		markup = domain.Underline{Color: s.color}
	default:
		markup = domain.Highlight{Color: s.color}
	}

	record, err := s.annotations.Add(pos, markup)
	if err != nil {
		return nil, s.fail(err)
	}

	// A comment record exists only together with its seeded thread entry.
	var seed domain.Comment
	if kind == domain.KindComment {
		seed, err = s.threads.Seed(record.ID)
		if err != nil {
			if _, rmErr := s.annotations.Remove(record.ID); rmErr != nil {
				s.logger.Error("failed to roll back comment annotation",
					slog.String("annotation_id", record.ID),
					slog.String("error", rmErr.Error()))
			}
			return nil, s.fail(err)
		}
	}
	s.emit(sse.NewAnnotationAddedEvent(s.id, record))

	switch kind {
	case domain.KindSignature:
		s.pending = nil
		s.SelectTool(domain.ToolNone)
		s.notice(sse.NoticeSuccess, "Signature added")
	case domain.KindComment:
		s.emit(sse.NewCommentAddedEvent(s.id, seed))
		s.notice(sse.NoticeSuccess, "Comment added")
	}

	return &record, nil
}

// RemoveAnnotation deletes a record and prunes its thread.
func (s *Session) RemoveAnnotation(annotationID string) (int, error) {
	if _, err := s.annotations.Remove(annotationID); err != nil {
		return 0, s.fail(err)
	}
	pruned := s.threads.Prune(annotationID)
	if s.selected == annotationID {
		s.selected = ""
		s.emit(sse.NewSelectionChangedEvent(s.id, ""))
	}
	s.emit(sse.NewAnnotationRemovedEvent(s.id, annotationID, pruned))
	return pruned, nil
}

// AnnotationsOnPage returns the records of a 1-based page in creation order.
func (s *Session) AnnotationsOnPage(page int) ([]domain.Annotation, error) {
	if err := s.checkPage(page); err != nil {
		return nil, err
	}
	return s.annotations.ListForPage(page - 1), nil
}

func (s *Session) checkPage(page int) error {
	if err := s.requireDocument(); err != nil {
		return err
	}
	if page < 1 || page > s.TotalPages() {
		return domainerrors.UserInputf("page %d outside [1, %d]", page, s.TotalPages())
	}
	return nil
}

// --- Selection and comments ---

// SelectAnnotation selects an existing annotation for the comment panel.
func (s *Session) SelectAnnotation(annotationID string) error {
	if !s.annotations.Exists(annotationID) {
		return store.ErrAnnotationNotFound
	}
	s.selected = annotationID
	s.emit(sse.NewSelectionChangedEvent(s.id, annotationID))
	return nil
}

// ClearSelection deselects. Threads are untouched.
func (s *Session) ClearSelection() {
	if s.selected == "" {
		return
	}
	s.selected = ""
	s.emit(sse.NewSelectionChangedEvent(s.id, ""))
}

// AppendComment adds text to the selected annotation's thread.
func (s *Session) AppendComment(text string) (domain.Comment, error) {
	c, err := s.threads.Append(s.selected, text)
	if err != nil {
		return domain.Comment{}, s.fail(err)
	}
	s.emit(sse.NewCommentAddedEvent(s.id, c))
	return c, nil
}

// EditComment replaces a comment's text.
func (s *Session) EditComment(commentID, text string) (domain.Comment, error) {
	c, err := s.threads.EditText(commentID, text)
	if err != nil {
		return domain.Comment{}, s.fail(err)
	}
	s.emit(sse.NewCommentUpdatedEvent(s.id, c))
	return c, nil
}

// ThreadFor returns an existing annotation's comments in creation order.
func (s *Session) ThreadFor(annotationID string) ([]domain.Comment, error) {
	if !s.annotations.Exists(annotationID) {
		return nil, store.ErrAnnotationNotFound
	}
	return s.threads.ThreadFor(annotationID), nil
}

// --- Signature capture ---

// OpenSignature opens the capture surface. A zero box uses the configured default.
func (s *Session) OpenSignature(box geometry.Size, origin geometry.Point) error {
	if box == (geometry.Size{}) {
		box = s.cfg.CaptureBox
	}
	if err := s.capture.Open(box, origin); err != nil {
		return s.fail(err)
	}
	s.emit(sse.NewSignatureOpenedEvent(s.id, box))
	return nil
}

// PointerPhase is the pointer event kind fed to the capture surface.
type PointerPhase string

// Pointer phases.
const (
	PointerDown  PointerPhase = "down"
	PointerMove  PointerPhase = "move"
	PointerUp    PointerPhase = "up"
	PointerLeave PointerPhase = "leave"
)

// SignatureInput feeds one pointer event to the open capture surface.
func (s *Session) SignatureInput(phase PointerPhase, in signature.Input) error {
	var err error
	switch phase {
	case PointerDown:
		err = s.capture.PointerDown(in)
	case PointerMove:
		err = s.capture.PointerMove(in)
	case PointerUp:
		err = s.capture.PointerUp()
	case PointerLeave:
		err = s.capture.PointerLeave()
	default:
		err = domainerrors.UserInputf("unknown pointer phase %q", phase)
	}
	if err != nil {
		return s.fail(err)
	}
	return nil
}

// ClearSignature erases the capture surface.
func (s *Session) ClearSignature() error {
	if err := s.capture.Clear(); err != nil {
		return s.fail(err)
	}
	return nil
}

// ConfirmSignature encodes the drawing, stores it as the pending signature,
// closes the surface and selects the signature tool.
func (s *Session) ConfirmSignature() (*domain.Asset, error) {
	box := s.capture.Box()
	asset, err := s.capture.Confirm()
	if err != nil {
		return nil, s.fail(err)
	}
	s.pending = asset
	s.capture.Close()

	s.emit(sse.NewSignatureCapturedEvent(s.id, box, asset))
	s.SelectTool(domain.ToolSignature)
	s.notice(sse.NoticeSuccess, "Signature saved")
	return asset, nil
}

// CancelSignature discards the drawing. The pending signature, if any, is kept.
func (s *Session) CancelSignature() {
	if s.capture.State() == signature.StateIdle {
		return
	}
	s.capture.Cancel()
	s.emit(sse.NewSignatureClosedEvent(s.id))
}

// --- Rendering and export ---

// PageView is one rendered page with its annotations in screen space.
type PageView struct {
	Page       int
	Scale      float64
	Surface    *document.Surface
	Placements []overlay.Placement
}

// RenderPage renders a 1-based page. Zero page or scale mean the current one.
func (s *Session) RenderPage(ctx context.Context, page int, scale float64) (*PageView, error) {
	if page == 0 {
		page = s.page
	}
	if scale == 0 {
		scale = s.scale
	}
	if err := s.checkPage(page); err != nil {
		return nil, err
	}

	surface, err := s.doc.RenderPage(ctx, page-1, scale)
	if err != nil {
		return nil, s.fail(err)
	}

	return &PageView{
		Page:       page,
		Scale:      scale,
		Surface:    surface,
		Placements: overlay.Place(s.annotations.ListForPage(page-1), scale),
	}, nil
}

// Export is a downloadable artifact.
type Export struct {
	Name      string
	MediaType string
	Data      []byte
	// Flattened reports whether annotations are part of Data's page content.
	// Document exports re-deliver the original bytes and are never flattened.
	Flattened bool
}

// Export re-delivers the original document bytes under the annotated name.
// Annotations are not composited into the document.
func (s *Session) Export() (*Export, error) {
	if s.loading {
		return nil, domainerrors.Conflict("session is busy loading a document")
	}
	if s.file == nil {
		return nil, s.fail(domainerrors.UserInput("No document to export"))
	}
	s.notice(sse.NoticeSuccess, "Document exported successfully")
	return &Export{
		Name:      s.file.ExportName(),
		MediaType: s.file.MediaType,
		Data:      bytes.Clone(s.file.Data),
		Flattened: false,
	}, nil
}

// ExportOverlay draws every annotation onto blank pages sized like the document's.
func (s *Session) ExportOverlay(ctx context.Context) (*Export, error) {
	if s.loading {
		return nil, domainerrors.Conflict("session is busy loading a document")
	}
	if s.file == nil || s.doc == nil {
		return nil, s.fail(domainerrors.UserInput("No document to export"))
	}

	pages, err := s.overlayPages()
	if err != nil {
		return nil, s.fail(err)
	}

	var buf bytes.Buffer
	if err := s.renderer.WritePDF(ctx, &buf, pages); err != nil {
		return nil, s.fail(domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to write overlay"))
	}

	s.notice(sse.NoticeSuccess, "Annotations exported successfully")
	return &Export{
		Name:      s.file.OverlayName(),
		MediaType: document.MediaTypePDF,
		Data:      buf.Bytes(),
		Flattened: false,
	}, nil
}

// PreviewPage rasterizes one 1-based page's overlay. Zero scale means the current one.
func (s *Session) PreviewPage(ctx context.Context, page int, scale float64) (*domain.Asset, error) {
	if scale == 0 {
		scale = s.scale
	}
	if err := s.checkPage(page); err != nil {
		return nil, err
	}
	box, err := s.doc.PageBox(page - 1)
	if err != nil {
		return nil, s.fail(err)
	}
	if scale > 0 {
		w, h := math.Ceil(box.Width*scale), math.Ceil(box.Height*scale)
		if w*h > float64(s.cfg.MaxPreviewPixels) {
			return nil, s.fail(domainerrors.UserInputf(
				"a %gx%g pixel preview exceeds the %d pixel limit; use a smaller scale", w, h, s.cfg.MaxPreviewPixels))
		}
	}

	asset, err := s.renderer.Preview(ctx, overlay.Page{
		Box:         box,
		Annotations: s.annotations.ListForPage(page - 1),
	}, scale)
	if err != nil {
		return nil, s.fail(domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to render preview"))
	}
	return asset, nil
}

func (s *Session) overlayPages() ([]overlay.Page, error) {
	total := s.doc.PageCount()
	pages := make([]overlay.Page, 0, total)
	for i := range total {
		box, err := s.doc.PageBox(i)
		if err != nil {
			return nil, err
		}
		pages = append(pages, overlay.Page{
			Box:         box,
			Annotations: s.annotations.ListForPage(i),
		})
	}
	return pages, nil
}

// --- Notices ---

func (s *Session) emit(event sse.Event) {
	if s.emitter != nil {
		s.emitter.Emit(event)
	}
}

func (s *Session) notice(level sse.NoticeLevel, message string) {
	s.emit(sse.NewNoticeEvent(s.id, level, message))
}

// fail surfaces err: user-facing codes become error notices, invariant
// violations are logged as defects. err is returned unchanged.
func (s *Session) fail(err error) error {
	var domainErr *domainerrors.Error
	if !domainerrors.As(err, &domainErr) {
		return err
	}
	switch domainErr.Code {
	case domainerrors.CodeUserInput, domainerrors.CodeDocument:
		s.notice(sse.NoticeError, domainErr.Message)
	case domainerrors.CodeInvariant:
		s.logger.Error("invariant violation", slog.String("error", err.Error()))
	}
	return err
}
