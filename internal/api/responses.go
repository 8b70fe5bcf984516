package api

import (
	"time"

	"github.com/listenupapp/inkmark/internal/domain"
	"github.com/listenupapp/inkmark/internal/geometry"
	"github.com/listenupapp/inkmark/internal/service"
)

// SessionResponse is a session snapshot in API responses.
type SessionResponse struct {
	ID                   string                  `json:"id" doc:"Session ID"`
	CreatedAt            time.Time               `json:"created_at" doc:"Creation time"`
	DocumentName         string                  `json:"document_name,omitempty" doc:"Name of the loaded document"`
	Loading              bool                    `json:"loading" doc:"A document load is in flight"`
	CurrentPage          int                     `json:"current_page" doc:"1-based current page"`
	TotalPages           int                     `json:"total_pages" doc:"Page count of the loaded document"`
	Scale                float64                 `json:"scale" doc:"Zoom scale"`
	Tool                 domain.Tool             `json:"tool" doc:"Active tool"`
	Color                string                  `json:"color" doc:"Active color"`
	SelectedAnnotationID string                  `json:"selected_annotation_id,omitempty" doc:"Annotation whose comment panel is open"`
	SignatureState       string                  `json:"signature_state" doc:"Capture surface state: idle, drawing, or captured"`
	SignatureOpen        bool                    `json:"signature_open" doc:"The capture surface is open"`
	HasSignature         bool                    `json:"has_signature" doc:"A captured signature is waiting to be placed"`
	Annotations          []domain.AnnotationView `json:"annotations" doc:"Every annotation in creation order"`
	Comments             []domain.Comment        `json:"comments" doc:"Every comment in creation order"`
}

// SessionOutput wraps the session response for Huma.
type SessionOutput struct {
	Body SessionResponse
}

func newSessionOutput(st service.State) *SessionOutput {
	comments := st.Comments
	if comments == nil {
		comments = []domain.Comment{}
	}

	return &SessionOutput{
		Body: SessionResponse{
			ID:                   st.ID,
			CreatedAt:            st.CreatedAt,
			DocumentName:         st.DocumentName,
			Loading:              st.Loading,
			CurrentPage:          st.CurrentPage,
			TotalPages:           st.TotalPages,
			Scale:                st.Scale,
			Tool:                 st.Tool,
			Color:                st.Color,
			SelectedAnnotationID: st.Selected,
			SignatureState:       string(st.SignatureState),
			SignatureOpen:        st.SignatureDrawing,
			HasSignature:         st.HasSignature,
			Annotations:          annotationViews(st.Annotations),
			Comments:             comments,
		},
	}
}

// AssetResponse describes an encoded image.
type AssetResponse struct {
	MediaType   string `json:"media_type" doc:"Image media type"`
	Width       int    `json:"width" doc:"Pixel width"`
	Height      int    `json:"height" doc:"Pixel height"`
	Placeholder string `json:"placeholder,omitempty" doc:"BlurHash placeholder"`
	DataURL     string `json:"data_url" doc:"Image as a data URL"`
}

func newAssetResponse(a *domain.Asset) AssetResponse {
	return AssetResponse{
		MediaType:   a.MediaType,
		Width:       a.Width,
		Height:      a.Height,
		Placeholder: a.Placeholder,
		DataURL:     a.DataURL(),
	}
}

// PlacementResponse is an annotation positioned in page-local screen space.
type PlacementResponse struct {
	Annotation domain.AnnotationView `json:"annotation"`
	Origin     geometry.Point        `json:"origin" doc:"Top-left corner at the rendered scale"`
	Size       geometry.Size         `json:"size" doc:"Marker or box size at the rendered scale"`
}

// PageViewResponse is one rendered page with its placements.
type PageViewResponse struct {
	Page       int                 `json:"page" doc:"1-based page number"`
	Scale      float64             `json:"scale" doc:"Render scale"`
	Width      float64             `json:"width" doc:"Rendered page width"`
	Height     float64             `json:"height" doc:"Rendered page height"`
	Placements []PlacementResponse `json:"placements" doc:"Annotations on the page in creation order"`
}

func newPageViewResponse(v *service.PageView) PageViewResponse {
	placements := make([]PlacementResponse, 0, len(v.Placements))
	for _, p := range v.Placements {
		placements = append(placements, PlacementResponse{
			Annotation: p.Annotation.View(),
			Origin:     p.Origin,
			Size:       p.Size,
		})
	}
	out := PageViewResponse{
		Page:       v.Page,
		Scale:      v.Scale,
		Placements: placements,
	}
	if v.Surface != nil {
		out.Width = v.Surface.Width
		out.Height = v.Surface.Height
	}
	return out
}

func annotationViews(records []domain.Annotation) []domain.AnnotationView {
	out := make([]domain.AnnotationView, 0, len(records))
	for _, a := range records {
		out = append(out, a.View())
	}
	return out
}
