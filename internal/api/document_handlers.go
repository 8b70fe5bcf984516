package api

import (
	"context"
	"mime"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/listenupapp/inkmark/internal/errors"
	"github.com/listenupapp/inkmark/internal/service"
)

func (s *Server) registerDocumentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "uploadDocument",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/document",
		Summary:     "Upload document",
		Description: "Loads a PDF into the session, replacing any previous document and its annotations",
		Tags:        []string{"Documents"},
		// Base64 inflates the payload by a third.
		MaxBodyBytes: s.cfg.Server.MaxUploadBytes*4/3 + 4096,
		Middlewares:  huma.Middlewares{s.throttleUploads},
	}, s.handleUploadDocument)

	huma.Register(s.api, huma.Operation{
		OperationID: "exportDocument",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}/export",
		Summary:     "Export document",
		Description: "Downloads the original document under the annotated name. Annotations are not flattened into it.",
		Tags:        []string{"Documents"},
	}, s.handleExportDocument)

	huma.Register(s.api, huma.Operation{
		OperationID: "exportOverlay",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}/export/overlay",
		Summary:     "Export annotation overlay",
		Description: "Downloads a PDF with every annotation drawn on blank pages of the document's page sizes",
		Tags:        []string{"Documents"},
	}, s.handleExportOverlay)

	huma.Register(s.api, huma.Operation{
		OperationID: "renderPage",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}/pages/{page}",
		Summary:     "Render page",
		Description: "Returns the page size at the given scale and the annotations placed on it",
		Tags:        []string{"Documents"},
	}, s.handleRenderPage)

	huma.Register(s.api, huma.Operation{
		OperationID: "previewPage",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}/pages/{page}/preview",
		Summary:     "Preview page overlay",
		Description: "Rasterizes the annotations of one page to PNG",
		Tags:        []string{"Documents"},
	}, s.handlePreviewPage)
}

// === DTOs ===

// UploadDocumentRequest is the request body for uploading a document.
type UploadDocumentRequest struct {
	Name    string `json:"name" minLength:"1" maxLength:"255" doc:"File name"`
	Content []byte `json:"content" doc:"Base64-encoded PDF bytes"`
}

// UploadDocumentInput wraps the upload request for Huma.
type UploadDocumentInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body UploadDocumentRequest
}

// DownloadOutput is a binary file download.
type DownloadOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Flattened          string `header:"X-Flattened" doc:"Whether annotations are part of the page content"`
	Body               []byte
}

// PageInput identifies a page of a session's document.
type PageInput struct {
	ID    string  `path:"id" doc:"Session ID"`
	Page  int     `path:"page" minimum:"1" doc:"1-based page number"`
	Scale float64 `query:"scale" minimum:"0" maximum:"10" doc:"Render scale, 0 for the session's zoom"`
}

// PageViewOutput wraps the page view for Huma.
type PageViewOutput struct {
	Body PageViewResponse
}

// PreviewOutput is a rendered PNG.
type PreviewOutput struct {
	ContentType string `header:"Content-Type"`
	Placeholder string `header:"X-Placeholder" doc:"BlurHash of the image"`
	Body        []byte
}

// === Handlers ===

func (s *Server) handleUploadDocument(ctx context.Context, input *UploadDocumentInput) (*SessionOutput, error) {
	if int64(len(input.Body.Content)) > s.cfg.Server.MaxUploadBytes {
		return nil, toHumaError(domainerrors.UserInputf(
			"Document is larger than %d MB", s.cfg.Server.MaxUploadBytes>>20))
	}

	st, err := s.sessions.LoadDocument(ctx, input.ID, service.LoadDocumentRequest{
		Name: input.Body.Name,
		Data: input.Body.Content,
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return newSessionOutput(st), nil
}

func (s *Server) handleExportDocument(ctx context.Context, input *SessionPathInput) (*DownloadOutput, error) {
	export, err := s.sessions.Export(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return newDownloadOutput(export), nil
}

func (s *Server) handleExportOverlay(ctx context.Context, input *SessionPathInput) (*DownloadOutput, error) {
	export, err := s.sessions.ExportOverlay(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return newDownloadOutput(export), nil
}

func (s *Server) handleRenderPage(ctx context.Context, input *PageInput) (*PageViewOutput, error) {
	view, err := s.sessions.RenderPage(ctx, input.ID, input.Page, input.Scale)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &PageViewOutput{Body: newPageViewResponse(view)}, nil
}

func (s *Server) handlePreviewPage(ctx context.Context, input *PageInput) (*PreviewOutput, error) {
	asset, err := s.sessions.PreviewPage(ctx, input.ID, input.Page, input.Scale)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &PreviewOutput{
		ContentType: asset.MediaType,
		Placeholder: asset.Placeholder,
		Body:        asset.Data,
	}, nil
}

func newDownloadOutput(export *service.Export) *DownloadOutput {
	return &DownloadOutput{
		ContentType:        export.MediaType,
		ContentDisposition: attachment(export.Name),
		Flattened:          strconv.FormatBool(export.Flattened),
		Body:               export.Data,
	}
}

// attachment formats a Content-Disposition value. Non-ASCII names use the
// RFC 2231 filename* form.
func attachment(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}
