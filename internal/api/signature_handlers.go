package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/inkmark/internal/service"
)

func (s *Server) registerSignatureRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "openSignature",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/signature/open",
		Summary:     "Open signature pad",
		Description: "Opens an empty capture surface. Zero width and height use the configured size.",
		Tags:        []string{"Signature"},
	}, s.handleOpenSignature)

	huma.Register(s.api, huma.Operation{
		OperationID: "signatureEvents",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/signature/events",
		Summary:     "Send pointer events",
		Description: "Feeds pointer events to the capture surface in order, stopping at the first rejected one",
		Tags:        []string{"Signature"},
	}, s.handleSignatureEvents)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearSignature",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/signature/clear",
		Summary:     "Clear signature pad",
		Description: "Erases every stroke and returns the surface to idle",
		Tags:        []string{"Signature"},
	}, s.handleClearSignature)

	huma.Register(s.api, huma.Operation{
		OperationID: "confirmSignature",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/signature/confirm",
		Summary:     "Confirm signature",
		Description: "Captures the drawing as a PNG, closes the surface and selects the signature tool",
		Tags:        []string{"Signature"},
	}, s.handleConfirmSignature)

	huma.Register(s.api, huma.Operation{
		OperationID: "cancelSignature",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/signature/cancel",
		Summary:     "Cancel signature",
		Description: "Discards the drawing and closes the surface",
		Tags:        []string{"Signature"},
	}, s.handleCancelSignature)
}

// === DTOs ===

// OpenSignatureRequest is the request body for opening the capture surface.
type OpenSignatureRequest struct {
	Width   float64 `json:"width,omitempty" minimum:"0" maximum:"4096" doc:"Surface width in CSS pixels"`
	Height  float64 `json:"height,omitempty" minimum:"0" maximum:"4096" doc:"Surface height in CSS pixels"`
	OriginX float64 `json:"origin_x,omitempty" doc:"Viewport x of the surface's top-left corner"`
	OriginY float64 `json:"origin_y,omitempty" doc:"Viewport y of the surface's top-left corner"`
}

// OpenSignatureInput wraps the open request for Huma.
type OpenSignatureInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body OpenSignatureRequest
}

// PointerEvent is one pointer event on the capture surface.
type PointerEvent struct {
	Phase    string  `json:"phase" enum:"down,move,up,leave" doc:"Pointer phase"`
	Modality string  `json:"modality" enum:"mouse,touch" doc:"Input device"`
	OffsetX  float64 `json:"offset_x,omitempty" doc:"Mouse x relative to the surface"`
	OffsetY  float64 `json:"offset_y,omitempty" doc:"Mouse y relative to the surface"`
	ClientX  float64 `json:"client_x,omitempty" doc:"Touch x in the viewport"`
	ClientY  float64 `json:"client_y,omitempty" doc:"Touch y in the viewport"`
}

// SignatureEventsRequest is a batch of pointer events.
type SignatureEventsRequest struct {
	Events []PointerEvent `json:"events" minItems:"1" maxItems:"1000" doc:"Events in the order they happened"`
}

// SignatureEventsInput wraps the events request for Huma.
type SignatureEventsInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body SignatureEventsRequest
}

// AssetOutput wraps an asset response for Huma.
type AssetOutput struct {
	Body AssetResponse
}

// === Handlers ===

func (s *Server) handleOpenSignature(ctx context.Context, input *OpenSignatureInput) (*SessionOutput, error) {
	st, err := s.sessions.OpenSignature(ctx, input.ID, service.OpenSignatureRequest{
		Width:   input.Body.Width,
		Height:  input.Body.Height,
		OriginX: input.Body.OriginX,
		OriginY: input.Body.OriginY,
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return newSessionOutput(st), nil
}

func (s *Server) handleSignatureEvents(ctx context.Context, input *SignatureEventsInput) (*SessionOutput, error) {
	events := make([]service.SignatureEventRequest, 0, len(input.Body.Events))
	for _, ev := range input.Body.Events {
		events = append(events, service.SignatureEventRequest{
			Phase:    ev.Phase,
			Modality: ev.Modality,
			OffsetX:  ev.OffsetX,
			OffsetY:  ev.OffsetY,
			ClientX:  ev.ClientX,
			ClientY:  ev.ClientY,
		})
	}

	if err := s.sessions.SignatureEvents(ctx, input.ID, events); err != nil {
		return nil, toHumaError(err)
	}

	st, err := s.sessions.GetSession(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return newSessionOutput(st), nil
}

func (s *Server) handleClearSignature(ctx context.Context, input *SessionPathInput) (*SessionOutput, error) {
	st, err := s.sessions.ClearSignature(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return newSessionOutput(st), nil
}

func (s *Server) handleConfirmSignature(ctx context.Context, input *SessionPathInput) (*AssetOutput, error) {
	asset, err := s.sessions.ConfirmSignature(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &AssetOutput{Body: newAssetResponse(asset)}, nil
}

func (s *Server) handleCancelSignature(ctx context.Context, input *SessionPathInput) (*SessionOutput, error) {
	st, err := s.sessions.CancelSignature(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return newSessionOutput(st), nil
}
