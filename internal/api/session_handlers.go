package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerSessionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createSession",
		Method:        http.MethodPost,
		Path:          "/api/v1/sessions",
		Summary:       "Create session",
		Description:   "Starts an empty annotation session",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSession",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}",
		Summary:     "Get session",
		Description: "Returns a snapshot of the session",
		Tags:        []string{"Sessions"},
	}, s.handleGetSession)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteSession",
		Method:        http.MethodDelete,
		Path:          "/api/v1/sessions/{id}",
		Summary:       "Delete session",
		Description:   "Closes the session and its event streams",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "checkSession",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}/check",
		Summary:     "Check session",
		Description: "Verifies the cross-component contracts of a session and lists violations",
		Tags:        []string{"Sessions"},
	}, s.handleCheckSession)
}

// === DTOs ===

// SessionPathInput identifies a session.
type SessionPathInput struct {
	ID string `path:"id" doc:"Session ID"`
}

// CheckResponse lists contract violations found in a session.
type CheckResponse struct {
	Healthy    bool     `json:"healthy" doc:"No violations were found"`
	Violations []string `json:"violations" doc:"Violation messages"`
}

// CheckOutput wraps the check response for Huma.
type CheckOutput struct {
	Body CheckResponse
}

// === Handlers ===

func (s *Server) handleCreateSession(ctx context.Context, _ *struct{}) (*SessionOutput, error) {
	st, err := s.sessions.CreateSession(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}
	return newSessionOutput(st), nil
}

func (s *Server) handleGetSession(ctx context.Context, input *SessionPathInput) (*SessionOutput, error) {
	st, err := s.sessions.GetSession(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return newSessionOutput(st), nil
}

func (s *Server) handleDeleteSession(ctx context.Context, input *SessionPathInput) (*struct{}, error) {
	if err := s.sessions.DeleteSession(ctx, input.ID); err != nil {
		return nil, toHumaError(err)
	}
	return nil, nil
}

func (s *Server) handleCheckSession(ctx context.Context, input *SessionPathInput) (*CheckOutput, error) {
	// Unknown sessions are a 404, not a violation.
	if _, err := s.sessions.GetSession(ctx, input.ID); err != nil {
		return nil, toHumaError(err)
	}

	out := CheckResponse{Healthy: true, Violations: []string{}}
	if err := s.sessions.CheckInvariants(ctx, input.ID); err != nil {
		out.Healthy = false
		var joined interface{ Unwrap() []error }
		if errors.As(err, &joined) {
			for _, v := range joined.Unwrap() {
				out.Violations = append(out.Violations, v.Error())
			}
		} else {
			out.Violations = append(out.Violations, err.Error())
		}
	}
	return &CheckOutput{Body: out}, nil
}
