package providers

import (
	"context"
	"testing"
	"time"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/inkmark/internal/config"
	"github.com/listenupapp/inkmark/internal/document"
	"github.com/listenupapp/inkmark/internal/logger"
	"github.com/listenupapp/inkmark/internal/media/images"
	"github.com/listenupapp/inkmark/internal/overlay"
	"github.com/listenupapp/inkmark/internal/service"
)

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Environment: "development"},
		Logger: config.LoggerConfig{Level: "error"},
		Server: config.ServerConfig{
			Port:        "0",
			UploadRate:  1,
			UploadBurst: 2,
		},
		Annotation: config.AnnotationConfig{
			DefaultColor:    "#FFEB3B",
			SignatureWidth:  150,
			SignatureHeight: 60,
			ZoomStep:        0.25,
			MinZoom:         0.5,
			MaxZoom:         3,
		},
		Capture: config.CaptureConfig{
			Width:       500,
			Height:      200,
			PixelRatio:  1,
			StrokeWidth: 2,
			StrokeColor: "#000000",
		},
	}
}

func newTestInjector(t *testing.T, cfg *config.Config) *do.RootScope {
	t.Helper()

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.Provide(injector, ProvideLogger)
	do.Provide(injector, ProvideSSEManager)
	do.Provide(injector, ProvideDocumentBackend)
	do.Provide(injector, ProvideImageProcessor)
	do.Provide(injector, ProvideOverlayRenderer)
	do.Provide(injector, ProvideSurfaceFactory)
	do.Provide(injector, ProvideSessionService)
	do.Provide(injector, ProvideUploadLimiter)

	t.Cleanup(func() { _ = injector.Shutdown() })
	return injector
}

func TestProvideSessionService(t *testing.T) {
	injector := newTestInjector(t, testConfig())

	sessions, err := do.Invoke[*service.SessionService](injector)
	require.NoError(t, err)

	st, err := sessions.CreateSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "#FFEB3B", st.Color)
	assert.Equal(t, 1.0, st.Scale)
}

func TestProvideRenderingStack(t *testing.T) {
	injector := newTestInjector(t, testConfig())

	_, err := do.Invoke[document.Backend](injector)
	require.NoError(t, err)
	_, err = do.Invoke[*images.Processor](injector)
	require.NoError(t, err)
	_, err = do.Invoke[*overlay.Renderer](injector)
	require.NoError(t, err)

	newSurface, err := do.Invoke[service.SurfaceFactory](injector)
	require.NoError(t, err)
	assert.NotNil(t, newSurface())
}

func TestProvideSurfaceFactory_InvalidStrokeColor(t *testing.T) {
	cfg := testConfig()
	cfg.Capture.StrokeColor = ""

	injector := newTestInjector(t, cfg)

	_, err := do.Invoke[service.SurfaceFactory](injector)
	require.Error(t, err)
}

func TestProvideUploadLimiter(t *testing.T) {
	injector := newTestInjector(t, testConfig())

	handle, err := do.Invoke[*RateLimiterHandle](injector)
	require.NoError(t, err)

	assert.True(t, handle.Allow("10.0.0.1"))
	assert.True(t, handle.Allow("10.0.0.1"))
	assert.False(t, handle.Allow("10.0.0.1"))
	assert.True(t, handle.Allow("10.0.0.2"))

	require.NoError(t, handle.Shutdown())
}

func TestProvideLogger(t *testing.T) {
	injector := newTestInjector(t, testConfig())

	log, err := do.Invoke[*logger.Logger](injector)
	require.NoError(t, err)
	assert.NotNil(t, log.Logger)
}

func TestSSEManagerHandle_Shutdown(t *testing.T) {
	injector := newTestInjector(t, testConfig())

	handle, err := do.Invoke[*SSEManagerHandle](injector)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- handle.Shutdown() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("SSE manager did not shut down")
	}
}
