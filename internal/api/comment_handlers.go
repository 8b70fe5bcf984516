package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/inkmark/internal/domain"
	"github.com/listenupapp/inkmark/internal/service"
)

func (s *Server) registerCommentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listComments",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}/annotations/{annotationId}/comments",
		Summary:     "List comments",
		Description: "Returns an annotation's comment thread in creation order",
		Tags:        []string{"Comments"},
	}, s.handleListComments)

	huma.Register(s.api, huma.Operation{
		OperationID:   "appendComment",
		Method:        http.MethodPost,
		Path:          "/api/v1/sessions/{id}/comments",
		Summary:       "Add comment",
		Description:   "Appends a comment to the selected annotation's thread",
		Tags:          []string{"Comments"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAppendComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "editComment",
		Method:      http.MethodPatch,
		Path:        "/api/v1/sessions/{id}/comments/{commentId}",
		Summary:     "Edit comment",
		Description: "Replaces a comment's text",
		Tags:        []string{"Comments"},
	}, s.handleEditComment)
}

// === DTOs ===

// CommentsResponse contains a comment thread.
type CommentsResponse struct {
	Comments []domain.Comment `json:"comments" doc:"Comments in creation order"`
}

// CommentsOutput wraps the comments response for Huma.
type CommentsOutput struct {
	Body CommentsResponse
}

// CommentRequest is the request body for adding or editing a comment.
type CommentRequest struct {
	Text string `json:"text" maxLength:"10000" doc:"Comment text"`
}

// AppendCommentInput wraps the append request for Huma.
type AppendCommentInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body CommentRequest
}

// EditCommentInput wraps the edit request for Huma.
type EditCommentInput struct {
	ID        string `path:"id" doc:"Session ID"`
	CommentID string `path:"commentId" doc:"Comment ID"`
	Body      CommentRequest
}

// CommentOutput wraps a single comment for Huma.
type CommentOutput struct {
	Body domain.Comment
}

// === Handlers ===

func (s *Server) handleListComments(ctx context.Context, input *AnnotationPathInput) (*CommentsOutput, error) {
	thread, err := s.sessions.ThreadFor(ctx, input.ID, input.AnnotationID)
	if err != nil {
		return nil, toHumaError(err)
	}
	if thread == nil {
		thread = []domain.Comment{}
	}
	return &CommentsOutput{Body: CommentsResponse{Comments: thread}}, nil
}

func (s *Server) handleAppendComment(ctx context.Context, input *AppendCommentInput) (*CommentOutput, error) {
	c, err := s.sessions.AppendComment(ctx, input.ID, service.CommentRequest{Text: input.Body.Text})
	if err != nil {
		return nil, toHumaError(err)
	}
	return &CommentOutput{Body: c}, nil
}

func (s *Server) handleEditComment(ctx context.Context, input *EditCommentInput) (*CommentOutput, error) {
	c, err := s.sessions.EditComment(ctx, input.ID, input.CommentID, service.CommentRequest{Text: input.Body.Text})
	if err != nil {
		return nil, toHumaError(err)
	}
	return &CommentOutput{Body: c}, nil
}
