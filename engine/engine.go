// Package engine ties the platform window, the renderer and the application
// layers into one run loop.
package engine

import (
	"errors"
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/vortex/engine/config"
	"github.com/spaghettifunk/vortex/engine/core"
	"github.com/spaghettifunk/vortex/engine/platform"
	"github.com/spaghettifunk/vortex/engine/renderer"
	"github.com/spaghettifunk/vortex/engine/renderer/stub"
	"github.com/spaghettifunk/vortex/engine/renderer/vulkan"
)

type Stage uint8

const (
	StageUninitialized Stage = iota
	StageInitializing
	StageInitialized
	StageRunning
	StageShuttingDown
)

type Engine struct {
	currentStage Stage
	cfg          *config.Config
	platform     *platform.Platform
	renderer     *renderer.Renderer
	layers       *LayerStack

	clock    *core.Clock
	lastTime float64

	isRunning   bool
	isSuspended bool
	width       uint32
	height      uint32

	titleTimer float64
}

func New(cfg *config.Config) *Engine {
	core.SetLogLevel(cfg.LogLevel())

	return &Engine{
		currentStage: StageUninitialized,
		cfg:          cfg,
		platform:     platform.New(),
		layers:       NewLayerStack(),
		clock:        core.NewClock(),
		width:        cfg.Application.StartWidth,
		height:       cfg.Application.StartHeight,
	}
}

func (e *Engine) Initialize() error {
	e.currentStage = StageInitializing

	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	if err := e.platform.Startup(e.cfg.Application.Name,
		e.cfg.Application.StartPosX, e.cfg.Application.StartPosY,
		e.width, e.height); err != nil {
		return err
	}

	context, err := e.createGraphicsContext()
	if err != nil {
		return err
	}
	e.renderer = renderer.New(context)
	if err := e.renderer.Initialize(e.cfg.Application.Name, e.width, e.height); err != nil {
		return err
	}

	e.currentStage = StageInitialized
	return nil
}

func (e *Engine) createGraphicsContext() (renderer.GraphicsContext, error) {
	switch e.cfg.Renderer.Backend {
	case "vulkan", "":
		return vulkan.New(e.platform, vulkan.Options{
			Validation: e.cfg.Renderer.Validation,
			VSync:      e.cfg.Renderer.VSync,
		}), nil
	case "stub":
		// Headless runs and tests.
		return stub.New(), nil
	default:
		return nil, fmt.Errorf("unknown renderer backend '%s'", e.cfg.Renderer.Backend)
	}
}

// PushLayer attaches a layer and adds it to the stack.
func (e *Engine) PushLayer(layer Layer) error {
	if err := layer.OnAttach(e); err != nil {
		return fmt.Errorf("failed to attach layer '%s': %w", layer.Name(), err)
	}
	e.layers.Push(layer)
	return nil
}

// PushOverlay attaches an overlay; overlays update and draw after all layers.
func (e *Engine) PushOverlay(overlay Layer) error {
	if err := overlay.OnAttach(e); err != nil {
		return fmt.Errorf("failed to attach overlay '%s': %w", overlay.Name(), err)
	}
	e.layers.PushOverlay(overlay)
	return nil
}

func (e *Engine) Renderer() *renderer.Renderer {
	return e.renderer
}

func (e *Engine) Platform() *platform.Platform {
	return e.platform
}

// Run drives the main loop until the window closes or Shutdown is requested.
// Each frame: pump events, drain resizes, update layers, let every layer
// declare its passes, then compile and execute the resulting frame graph.
func (e *Engine) Run() error {
	if e.currentStage != StageInitialized {
		return fmt.Errorf("engine is not initialized")
	}
	e.currentStage = StageRunning
	e.isRunning = true

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.ElapsedSeconds()

	for e.isRunning {
		e.platform.PumpMessages()

		if e.platform.ShouldClose() {
			e.isRunning = false
			break
		}
		if e.platform.IsKeyPressed(glfw.KeyEscape) {
			e.platform.RequestClose()
			continue
		}

		e.drainResizeEvents()

		if e.isSuspended {
			continue
		}

		e.clock.Update()
		currentTime := e.clock.ElapsedSeconds()
		delta := currentTime - e.lastTime
		e.lastTime = currentTime

		e.layers.Each(func(layer Layer) {
			layer.OnUpdate(delta)
		})

		if err := e.renderFrame(); err != nil {
			core.LogError("frame failed: %s", err.Error())
			e.isRunning = false
			break
		}

		core.MetricsUpdate(delta)
		e.updateWindowTitle(delta)
	}

	e.currentStage = StageShuttingDown
	return e.Shutdown()
}

// updateWindowTitle refreshes the frame metrics in the title bar once per
// second.
func (e *Engine) updateWindowTitle(delta float64) {
	e.titleTimer += delta
	if e.titleTimer < 1.0 {
		return
	}
	e.titleTimer = 0

	fps, frameMS := core.MetricsFrame()
	e.platform.SetWindowTitle(fmt.Sprintf("%s | %.0f fps | %.2f ms",
		e.cfg.Application.Name, fps, frameMS))
}

func (e *Engine) renderFrame() error {
	if err := e.renderer.BeginFrame(); err != nil {
		if errors.Is(err, core.ErrSwapchainBooting) {
			// Swapchain is rebuilding, skip this frame.
			return nil
		}
		return err
	}

	builder := e.renderer.CreateFrameGraphBuilder()
	e.layers.Each(func(layer Layer) {
		layer.PrepareDraw(builder)
	})

	graph := builder.Build()
	e.renderer.ExecuteFrameGraph(graph)

	return e.renderer.EndFrame()
}

func (e *Engine) drainResizeEvents() {
	var last platform.ResizeEvent
	resized := false
	for {
		event, ok := e.platform.NextResize()
		if !ok {
			break
		}
		last = event
		resized = true
	}
	if !resized {
		return
	}

	e.width = last.Width
	e.height = last.Height
	e.isSuspended = e.width == 0 || e.height == 0
	if e.isSuspended {
		return
	}

	if err := e.renderer.OnResize(e.width, e.height); err != nil {
		core.LogError("resize failed: %s", err.Error())
	}
}

// RequestShutdown asks the run loop to exit after the current frame. Safe to
// call from a signal handler goroutine.
func (e *Engine) RequestShutdown() {
	e.isRunning = false
}

func (e *Engine) Shutdown() error {
	core.LogInfo("shutting down engine")

	e.layers.Clear()

	var firstErr error
	if e.renderer != nil {
		if err := e.renderer.Shutdown(); err != nil {
			firstErr = err
		}
		e.renderer = nil
	}
	if err := e.platform.Shutdown(); err != nil && firstErr == nil {
		firstErr = err
	}

	e.currentStage = StageUninitialized
	return firstErr
}
