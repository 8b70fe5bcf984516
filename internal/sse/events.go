// Package sse implements Server-Sent Events for live annotation session updates.
package sse

import (
	"time"

	"github.com/listenupapp/inkmark/internal/domain"
	"github.com/listenupapp/inkmark/internal/geometry"
)

// Sessions are driven by request/response calls; SSE only pushes the resulting
// state changes and notices to every viewer of the same session.

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventSessionCreated represents a new session.
	EventSessionCreated EventType = "session.created"
	// EventSessionClosed represents a session being discarded.
	EventSessionClosed EventType = "session.closed"

	// EventDocumentLoading is sent when a document load starts.
	EventDocumentLoading EventType = "document.loading"
	// EventDocumentLoaded is sent when a document load succeeds.
	EventDocumentLoaded EventType = "document.loaded"

	// EventAnnotationAdded represents a new annotation record.
	EventAnnotationAdded EventType = "annotation.added"
	// EventAnnotationRemoved represents a removed annotation and its pruned thread.
	EventAnnotationRemoved EventType = "annotation.removed"
	// EventSelectionChanged represents the selected annotation changing.
	EventSelectionChanged EventType = "selection.changed"

	// EventCommentAdded represents a new comment.
	EventCommentAdded EventType = "comment.added"
	// EventCommentUpdated represents an edited comment.
	EventCommentUpdated EventType = "comment.updated"

	// EventToolChanged represents the active tool or color changing.
	EventToolChanged EventType = "tool.changed"
	// EventViewChanged represents the page or zoom changing.
	EventViewChanged EventType = "view.changed"

	// EventSignatureOpened represents a capture session opening.
	EventSignatureOpened EventType = "signature.opened"
	// EventSignatureCaptured represents a confirmed capture.
	EventSignatureCaptured EventType = "signature.captured"
	// EventSignatureClosed represents a capture closing without an asset.
	EventSignatureClosed EventType = "signature.closed"

	// EventNotice carries a transient user-visible message.
	EventNotice EventType = "notice"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// SessionID restricts delivery to clients watching that session.
	// Empty means broadcast to all.
	SessionID string `json:"session_id,omitempty"`
}

// NoticeLevel is the severity of a notice.
type NoticeLevel string

// Notice levels.
const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// NoticeEventData is the data payload for notice events.
type NoticeEventData struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// SessionEventData is the data payload for session lifecycle events.
type SessionEventData struct {
	SessionID string `json:"session_id"`
}

// DocumentEventData is the data payload for document events.
type DocumentEventData struct {
	Name       string `json:"name"`
	TotalPages int    `json:"total_pages,omitempty"`
}

// AnnotationEventData is the data payload for annotation added events.
type AnnotationEventData struct {
	Annotation domain.AnnotationView `json:"annotation"`
}

// AnnotationRemovedEventData is the data payload for annotation removed events.
type AnnotationRemovedEventData struct {
	AnnotationID   string `json:"annotation_id"`
	PrunedComments int    `json:"pruned_comments"`
}

// SelectionEventData is the data payload for selection events.
// An empty AnnotationID means nothing is selected.
type SelectionEventData struct {
	AnnotationID string `json:"annotation_id"`
}

// CommentEventData is the data payload for comment events.
type CommentEventData struct {
	Comment domain.Comment `json:"comment"`
}

// ToolEventData is the data payload for tool events.
type ToolEventData struct {
	Tool  domain.Tool `json:"tool"`
	Color string      `json:"color"`
}

// ViewEventData is the data payload for view events.
type ViewEventData struct {
	Page       int     `json:"page"`
	TotalPages int     `json:"total_pages"`
	Scale      float64 `json:"scale"`
}

// SignatureEventData is the data payload for signature events.
type SignatureEventData struct {
	Box   geometry.Size `json:"box"`
	Asset *domain.Asset `json:"asset,omitempty"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

func newEvent(sessionID string, eventType EventType, data any) Event {
	return Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
		SessionID: sessionID,
	}
}

// NewNoticeEvent creates a notice for a session.
func NewNoticeEvent(sessionID string, level NoticeLevel, message string) Event {
	return newEvent(sessionID, EventNotice, NoticeEventData{Level: level, Message: message})
}

// NewSessionCreatedEvent creates a session.created event.
func NewSessionCreatedEvent(sessionID string) Event {
	return newEvent(sessionID, EventSessionCreated, SessionEventData{SessionID: sessionID})
}

// NewSessionClosedEvent creates a session.closed event.
func NewSessionClosedEvent(sessionID string) Event {
	return newEvent(sessionID, EventSessionClosed, SessionEventData{SessionID: sessionID})
}

// NewDocumentLoadingEvent creates a document.loading event.
func NewDocumentLoadingEvent(sessionID, name string) Event {
	return newEvent(sessionID, EventDocumentLoading, DocumentEventData{Name: name})
}

// NewDocumentLoadedEvent creates a document.loaded event.
func NewDocumentLoadedEvent(sessionID, name string, totalPages int) Event {
	return newEvent(sessionID, EventDocumentLoaded, DocumentEventData{Name: name, TotalPages: totalPages})
}

// NewAnnotationAddedEvent creates an annotation.added event.
func NewAnnotationAddedEvent(sessionID string, a domain.Annotation) Event {
	return newEvent(sessionID, EventAnnotationAdded, AnnotationEventData{Annotation: a.View()})
}

// NewAnnotationRemovedEvent creates an annotation.removed event.
func NewAnnotationRemovedEvent(sessionID, annotationID string, pruned int) Event {
	return newEvent(sessionID, EventAnnotationRemoved, AnnotationRemovedEventData{
		AnnotationID:   annotationID,
		PrunedComments: pruned,
	})
}

// NewSelectionChangedEvent creates a selection.changed event.
func NewSelectionChangedEvent(sessionID, annotationID string) Event {
	return newEvent(sessionID, EventSelectionChanged, SelectionEventData{AnnotationID: annotationID})
}

// NewCommentAddedEvent creates a comment.added event.
func NewCommentAddedEvent(sessionID string, c domain.Comment) Event {
	return newEvent(sessionID, EventCommentAdded, CommentEventData{Comment: c})
}

// NewCommentUpdatedEvent creates a comment.updated event.
func NewCommentUpdatedEvent(sessionID string, c domain.Comment) Event {
	return newEvent(sessionID, EventCommentUpdated, CommentEventData{Comment: c})
}

// NewToolChangedEvent creates a tool.changed event.
func NewToolChangedEvent(sessionID string, tool domain.Tool, color string) Event {
	return newEvent(sessionID, EventToolChanged, ToolEventData{Tool: tool, Color: color})
}

// NewViewChangedEvent creates a view.changed event.
func NewViewChangedEvent(sessionID string, page, totalPages int, scale float64) Event {
	return newEvent(sessionID, EventViewChanged, ViewEventData{Page: page, TotalPages: totalPages, Scale: scale})
}

// NewSignatureOpenedEvent creates a signature.opened event.
func NewSignatureOpenedEvent(sessionID string, box geometry.Size) Event {
	return newEvent(sessionID, EventSignatureOpened, SignatureEventData{Box: box})
}

// NewSignatureCapturedEvent creates a signature.captured event.
func NewSignatureCapturedEvent(sessionID string, box geometry.Size, asset *domain.Asset) Event {
	return newEvent(sessionID, EventSignatureCaptured, SignatureEventData{Box: box, Asset: asset})
}

// NewSignatureClosedEvent creates a signature.closed event.
func NewSignatureClosedEvent(sessionID string) Event {
	return newEvent(sessionID, EventSignatureClosed, SignatureEventData{})
}

// NewHeartbeatEvent creates a heartbeat event.
// Heartbeats are broadcast to all clients.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Data:      HeartbeatEventData{ServerTime: time.Now()},
		Timestamp: time.Now(),
	}
}
