// Package di provides dependency injection configuration for the Inkmark server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/inkmark/internal/config"
	"github.com/listenupapp/inkmark/internal/di/providers"
	"github.com/listenupapp/inkmark/internal/document"
	"github.com/listenupapp/inkmark/internal/logger"
	"github.com/listenupapp/inkmark/internal/media/images"
	"github.com/listenupapp/inkmark/internal/overlay"
	"github.com/listenupapp/inkmark/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSSEManager)

	// Rendering
	do.Provide(injector, providers.ProvideDocumentBackend)
	do.Provide(injector, providers.ProvideImageProcessor)
	do.Provide(injector, providers.ProvideOverlayRenderer)
	do.Provide(injector, providers.ProvideSurfaceFactory)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideUploadLimiter)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services.
// This triggers lazy initialization, so configuration errors surface before the server listens.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[document.Backend](injector)
	_ = do.MustInvoke[*images.Processor](injector)
	_ = do.MustInvoke[*overlay.Renderer](injector)
	if _, err := do.Invoke[service.SurfaceFactory](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
