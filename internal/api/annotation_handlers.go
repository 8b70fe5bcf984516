package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/inkmark/internal/domain"
	"github.com/listenupapp/inkmark/internal/geometry"
	"github.com/listenupapp/inkmark/internal/service"
)

func (s *Server) registerAnnotationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "addAnnotation",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/annotations",
		Summary:     "Add annotation",
		Description: "Places the active tool where the page was clicked. Nothing is created when no tool is active.",
		Tags:        []string{"Annotations"},
	}, s.handleAddAnnotation)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPageAnnotations",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}/pages/{page}/annotations",
		Summary:     "List page annotations",
		Description: "Returns the annotations on a page in creation order",
		Tags:        []string{"Annotations"},
	}, s.handleListPageAnnotations)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeAnnotation",
		Method:      http.MethodDelete,
		Path:        "/api/v1/sessions/{id}/annotations/{annotationId}",
		Summary:     "Remove annotation",
		Description: "Deletes an annotation together with its comment thread",
		Tags:        []string{"Annotations"},
	}, s.handleRemoveAnnotation)

	huma.Register(s.api, huma.Operation{
		OperationID: "selectAnnotation",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/annotations/{annotationId}/select",
		Summary:     "Select annotation",
		Description: "Opens the comment panel of an annotation",
		Tags:        []string{"Annotations"},
	}, s.handleSelectAnnotation)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearSelection",
		Method:      http.MethodDelete,
		Path:        "/api/v1/sessions/{id}/selection",
		Summary:     "Clear selection",
		Description: "Closes the comment panel",
		Tags:        []string{"Annotations"},
	}, s.handleClearSelection)
}

// === DTOs ===

// AddAnnotationRequest is a click on the rendered current page.
type AddAnnotationRequest struct {
	Event    geometry.PointerEvent `json:"event" doc:"Pointer position in viewport coordinates"`
	PageRect geometry.Rect         `json:"page_rect" doc:"Bounding rectangle of the rendered page in viewport coordinates"`
}

// AddAnnotationInput wraps the add annotation request for Huma.
type AddAnnotationInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body AddAnnotationRequest
}

// AddAnnotationResponse reports the created annotation, if any.
type AddAnnotationResponse struct {
	Created    bool                   `json:"created" doc:"An annotation was created"`
	Annotation *domain.AnnotationView `json:"annotation,omitempty" doc:"The new annotation"`
}

// AddAnnotationOutput wraps the add annotation response for Huma.
type AddAnnotationOutput struct {
	Status int
	Body   AddAnnotationResponse
}

// PageAnnotationsInput identifies a page.
type PageAnnotationsInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Page int    `path:"page" minimum:"1" doc:"1-based page number"`
}

// AnnotationsResponse contains a list of annotations.
type AnnotationsResponse struct {
	Annotations []domain.AnnotationView `json:"annotations" doc:"Annotations in creation order"`
}

// AnnotationsOutput wraps the annotations response for Huma.
type AnnotationsOutput struct {
	Body AnnotationsResponse
}

// AnnotationPathInput identifies an annotation.
type AnnotationPathInput struct {
	ID           string `path:"id" doc:"Session ID"`
	AnnotationID string `path:"annotationId" doc:"Annotation ID"`
}

// RemoveAnnotationResponse reports what a removal deleted.
type RemoveAnnotationResponse struct {
	AnnotationID   string `json:"annotation_id" doc:"Removed annotation"`
	PrunedComments int    `json:"pruned_comments" doc:"Comments removed with it"`
}

// RemoveAnnotationOutput wraps the removal response for Huma.
type RemoveAnnotationOutput struct {
	Body RemoveAnnotationResponse
}

// === Handlers ===

func (s *Server) handleAddAnnotation(ctx context.Context, input *AddAnnotationInput) (*AddAnnotationOutput, error) {
	record, err := s.sessions.AddAnnotation(ctx, input.ID, service.AddAnnotationRequest{
		Event: input.Body.Event,
		PageRect: service.PageRect{
			Left:   input.Body.PageRect.Left,
			Top:    input.Body.PageRect.Top,
			Width:  input.Body.PageRect.Width,
			Height: input.Body.PageRect.Height,
		},
	})
	if err != nil {
		return nil, toHumaError(err)
	}

	if record == nil {
		return &AddAnnotationOutput{Status: http.StatusOK}, nil
	}
	view := record.View()
	return &AddAnnotationOutput{
		Status: http.StatusCreated,
		Body:   AddAnnotationResponse{Created: true, Annotation: &view},
	}, nil
}

func (s *Server) handleListPageAnnotations(ctx context.Context, input *PageAnnotationsInput) (*AnnotationsOutput, error) {
	records, err := s.sessions.ListAnnotations(ctx, input.ID, input.Page)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &AnnotationsOutput{Body: AnnotationsResponse{Annotations: annotationViews(records)}}, nil
}

func (s *Server) handleRemoveAnnotation(ctx context.Context, input *AnnotationPathInput) (*RemoveAnnotationOutput, error) {
	pruned, err := s.sessions.RemoveAnnotation(ctx, input.ID, input.AnnotationID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &RemoveAnnotationOutput{
		Body: RemoveAnnotationResponse{AnnotationID: input.AnnotationID, PrunedComments: pruned},
	}, nil
}

func (s *Server) handleSelectAnnotation(ctx context.Context, input *AnnotationPathInput) (*SessionOutput, error) {
	st, err := s.sessions.SelectAnnotation(ctx, input.ID, input.AnnotationID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return newSessionOutput(st), nil
}

func (s *Server) handleClearSelection(ctx context.Context, input *SessionPathInput) (*SessionOutput, error) {
	st, err := s.sessions.SelectAnnotation(ctx, input.ID, "")
	if err != nil {
		return nil, toHumaError(err)
	}
	return newSessionOutput(st), nil
}
