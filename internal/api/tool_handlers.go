package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/inkmark/internal/domain"
	"github.com/listenupapp/inkmark/internal/service"
)

func (s *Server) registerToolRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPalettes",
		Method:      http.MethodGet,
		Path:        "/api/v1/palettes",
		Summary:     "List palettes",
		Description: "Returns the suggested colors of every tool in toolbar order",
		Tags:        []string{"Tools"},
	}, s.handleListPalettes)

	huma.Register(s.api, huma.Operation{
		OperationID: "selectTool",
		Method:      http.MethodPut,
		Path:        "/api/v1/sessions/{id}/tool",
		Summary:     "Select tool",
		Description: "Sets the active tool. With toggle, selecting the active tool deselects it.",
		Tags:        []string{"Tools"},
	}, s.handleSelectTool)

	huma.Register(s.api, huma.Operation{
		OperationID: "setColor",
		Method:      http.MethodPut,
		Path:        "/api/v1/sessions/{id}/color",
		Summary:     "Set color",
		Description: "Sets the color used for new highlights, underlines and comment pins",
		Tags:        []string{"Tools"},
	}, s.handleSetColor)

	huma.Register(s.api, huma.Operation{
		OperationID: "zoom",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/view/zoom",
		Summary:     "Zoom",
		Description: "Zooms in or out by one step, or resets to 100%",
		Tags:        []string{"View"},
	}, s.handleZoom)

	huma.Register(s.api, huma.Operation{
		OperationID: "navigate",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/view/page",
		Summary:     "Change page",
		Description: "Moves to the next or previous page. Moving past either end does nothing.",
		Tags:        []string{"View"},
	}, s.handleNavigate)
}

// === DTOs ===

// ToolPalette lists the suggested colors of one tool.
type ToolPalette struct {
	Tool   domain.Tool `json:"tool" doc:"Tool name"`
	Colors []string    `json:"colors" doc:"Suggested colors"`
}

// PalettesResponse contains every tool palette.
type PalettesResponse struct {
	DefaultColor string        `json:"default_color" doc:"Color a new session starts with"`
	Palettes     []ToolPalette `json:"palettes" doc:"Palettes in toolbar order"`
}

// PalettesOutput wraps the palettes response for Huma.
type PalettesOutput struct {
	Body PalettesResponse
}

// SelectToolRequest is the request body for selecting a tool.
type SelectToolRequest struct {
	Tool   string `json:"tool" enum:"none,highlight,underline,comment,signature" doc:"Tool to select"`
	Toggle bool   `json:"toggle,omitempty" doc:"Deselect when the tool is already active"`
}

// SelectToolInput wraps the select tool request for Huma.
type SelectToolInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body SelectToolRequest
}

// SetColorRequest is the request body for setting the color.
type SetColorRequest struct {
	Color string `json:"color" minLength:"1" maxLength:"64" doc:"CSS color"`
}

// SetColorInput wraps the set color request for Huma.
type SetColorInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body SetColorRequest
}

// ZoomRequest is the request body for zooming.
type ZoomRequest struct {
	Action string `json:"action" enum:"in,out,reset" doc:"Zoom action"`
}

// ZoomInput wraps the zoom request for Huma.
type ZoomInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body ZoomRequest
}

// NavigateRequest is the request body for changing page.
type NavigateRequest struct {
	Direction string `json:"direction" enum:"next,prev" doc:"Direction to move"`
}

// NavigateInput wraps the navigate request for Huma.
type NavigateInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body NavigateRequest
}

// === Handlers ===

func (s *Server) handleListPalettes(_ context.Context, _ *struct{}) (*PalettesOutput, error) {
	palettes := make([]ToolPalette, 0, len(domain.Tools))
	for _, t := range domain.Tools {
		palettes = append(palettes, ToolPalette{Tool: t, Colors: t.Palette()})
	}
	return &PalettesOutput{
		Body: PalettesResponse{
			DefaultColor: s.cfg.Annotation.DefaultColor,
			Palettes:     palettes,
		},
	}, nil
}

func (s *Server) handleSelectTool(ctx context.Context, input *SelectToolInput) (*SessionOutput, error) {
	st, err := s.sessions.SelectTool(ctx, input.ID, service.SelectToolRequest{
		Tool:   input.Body.Tool,
		Toggle: input.Body.Toggle,
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return newSessionOutput(st), nil
}

func (s *Server) handleSetColor(ctx context.Context, input *SetColorInput) (*SessionOutput, error) {
	st, err := s.sessions.SetColor(ctx, input.ID, service.SetColorRequest{Color: input.Body.Color})
	if err != nil {
		return nil, toHumaError(err)
	}
	return newSessionOutput(st), nil
}

func (s *Server) handleZoom(ctx context.Context, input *ZoomInput) (*SessionOutput, error) {
	st, err := s.sessions.Zoom(ctx, input.ID, service.ZoomRequest{Action: input.Body.Action})
	if err != nil {
		return nil, toHumaError(err)
	}
	return newSessionOutput(st), nil
}

func (s *Server) handleNavigate(ctx context.Context, input *NavigateInput) (*SessionOutput, error) {
	st, err := s.sessions.Navigate(ctx, input.ID, service.NavigateRequest{Direction: input.Body.Direction})
	if err != nil {
		return nil, toHumaError(err)
	}
	return newSessionOutput(st), nil
}
