package providers

import (
	"time"

	"github.com/samber/do/v2"

	"github.com/listenupapp/inkmark/internal/config"
	"github.com/listenupapp/inkmark/internal/document"
	"github.com/listenupapp/inkmark/internal/geometry"
	"github.com/listenupapp/inkmark/internal/logger"
	"github.com/listenupapp/inkmark/internal/overlay"
	"github.com/listenupapp/inkmark/internal/ratelimit"
	"github.com/listenupapp/inkmark/internal/service"
)

// uploadLimiterIdleTTL is how long a client IP keeps its upload bucket.
const uploadLimiterIdleTTL = 10 * time.Minute

// ProvideSessionService provides the session registry.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	backend := do.MustInvoke[document.Backend](i)
	renderer := do.MustInvoke[*overlay.Renderer](i)
	newSurface := do.MustInvoke[service.SurfaceFactory](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	sessionCfg := service.SessionConfig{
		DefaultColor:     cfg.Annotation.DefaultColor,
		SignatureBox:     geometry.Size{Width: cfg.Annotation.SignatureWidth, Height: cfg.Annotation.SignatureHeight},
		CaptureBox:       geometry.Size{Width: cfg.Capture.Width, Height: cfg.Capture.Height},
		MaxCaptureBox:    geometry.Size{Width: cfg.Capture.MaxWidth, Height: cfg.Capture.MaxHeight},
		MaxPreviewPixels: cfg.Server.MaxPreviewPixels,
		Zoom: geometry.Zoom{
			Step: cfg.Annotation.ZoomStep,
			Min:  cfg.Annotation.MinZoom,
			Max:  cfg.Annotation.MaxZoom,
		},
	}

	return service.NewSessionService(sessionCfg, backend, renderer, newSurface, sseHandle.Manager, log), nil
}

// RateLimiterHandle wraps the upload limiter with shutdown capability.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideUploadLimiter provides the per-IP upload rate limiter.
func ProvideUploadLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return &RateLimiterHandle{
		KeyedRateLimiter: ratelimit.New(cfg.Server.UploadRate, cfg.Server.UploadBurst, uploadLimiterIdleTTL),
	}, nil
}
