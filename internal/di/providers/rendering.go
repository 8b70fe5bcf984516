package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/listenupapp/inkmark/internal/config"
	"github.com/listenupapp/inkmark/internal/document"
	"github.com/listenupapp/inkmark/internal/logger"
	"github.com/listenupapp/inkmark/internal/media/images"
	"github.com/listenupapp/inkmark/internal/overlay"
	"github.com/listenupapp/inkmark/internal/service"
	"github.com/listenupapp/inkmark/internal/signature"
)

// ProvideDocumentBackend provides the PDF parser.
func ProvideDocumentBackend(_ do.Injector) (document.Backend, error) {
	return document.NewPDFBackend(), nil
}

// ProvideImageProcessor provides the PNG encoder shared by signatures and previews.
func ProvideImageProcessor(i do.Injector) (*images.Processor, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return images.NewProcessor(log.Logger), nil
}

// ProvideOverlayRenderer provides the annotation overlay renderer.
func ProvideOverlayRenderer(i do.Injector) (*overlay.Renderer, error) {
	log := do.MustInvoke[*logger.Logger](i)
	processor := do.MustInvoke[*images.Processor](i)
	return overlay.NewRenderer(processor, log.Logger), nil
}

// ProvideSurfaceFactory provides the signature surface factory configured from Capture settings.
func ProvideSurfaceFactory(i do.Injector) (service.SurfaceFactory, error) {
	cfg := do.MustInvoke[*config.Config](i)
	processor := do.MustInvoke[*images.Processor](i)

	stroke, ok := overlay.ParseColor(cfg.Capture.StrokeColor)
	if !ok {
		return nil, fmt.Errorf("invalid capture stroke color %q", cfg.Capture.StrokeColor)
	}

	rasterCfg := signature.RasterConfig{
		PixelRatio:  cfg.Capture.PixelRatio,
		StrokeWidth: cfg.Capture.StrokeWidth,
		StrokeColor: stroke,
	}
	return func() signature.Surface {
		return signature.NewRasterSurface(rasterCfg, processor)
	}, nil
}
