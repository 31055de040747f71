package renderer

import (
	"fmt"

	"github.com/spaghettifunk/vortex/engine/core"
	"github.com/spaghettifunk/vortex/engine/renderer/framegraph"
	"github.com/spaghettifunk/vortex/engine/renderer/metadata"
	"github.com/spaghettifunk/vortex/engine/renderer/resources"
)

// SwapchainResourceName is the well-known frame graph name of the swapchain
// image. A pass writing it becomes a root of the frame graph and is never
// culled.
const SwapchainResourceName = "Swapchain"

// Renderer owns the graphics context, the resource registry/manager and the
// frame graph of the frame currently being recorded. Frame flow:
// BeginFrame → layers declare passes through a Builder → Build →
// ExecuteFrameGraph → EndFrame.
type Renderer struct {
	context  GraphicsContext
	registry *resources.ResourceRegistry
	manager  *resources.ResourceManager

	currentFrameGraph *framegraph.FrameGraph
	swapchainID       resources.ResourceID
	frameNumber       uint64
}

func New(context GraphicsContext) *Renderer {
	return &Renderer{
		context:     context,
		swapchainID: resources.InvalidResourceID(),
	}
}

func (r *Renderer) Initialize(appName string, width, height uint32) error {
	core.LogInfo("initializing renderer")

	if err := r.context.Initialize(appName, width, height); err != nil {
		return fmt.Errorf("failed to initialize graphics context: %w", err)
	}

	r.registry = resources.NewResourceRegistry()
	r.manager = resources.NewResourceManager(r.context, r.registry)

	// The swapchain image is owned by the context but participates in the
	// frame graph like any other resource, so it needs an identity and a
	// non-transient description up front.
	r.swapchainID = r.registry.RegisterResource(metadata.ResourceTypeTexture)
	r.registry.RegisterTexture(r.swapchainID, resources.TextureData{
		Width:       width,
		Height:      height,
		Depth:       1,
		MipLevels:   1,
		ArrayLayers: 1,
		Format:      r.context.GetSwapchainFormat(),
	})
	r.manager.RegisterExternal(r.swapchainID, metadata.NewTextureResourceDesc(r.swapchainDesc(), metadata.ResourceStateRenderTarget, false))

	core.LogInfo("renderer initialization completed")
	return nil
}

func (r *Renderer) Shutdown() error {
	core.LogInfo("shutting down renderer")

	if err := r.context.WaitForIdle(); err != nil {
		core.LogError("error waiting for device idle: %s", err.Error())
	}

	if r.manager != nil {
		r.manager.Shutdown()
	}

	return r.context.Shutdown()
}

// BeginFrame acquires the next swapchain image and starts a fresh frame
// graph with the swapchain registered as its non-transient root resource.
func (r *Renderer) BeginFrame() error {
	imageIndex, err := r.context.BeginFrame()
	if err != nil {
		return err
	}
	core.LogDebug("begin frame %d, image index: %d", r.frameNumber, imageIndex)

	r.currentFrameGraph = framegraph.New()

	swapchainResource := r.currentFrameGraph.CreateResource(
		SwapchainResourceName,
		metadata.NewTextureResourceDesc(r.swapchainDesc(), metadata.ResourceStateRenderTarget, false),
	)
	swapchainResource.SetResourceID(r.swapchainID)

	return nil
}

// EndFrame presents the frame.
func (r *Renderer) EndFrame() error {
	if err := r.context.EndFrame(); err != nil {
		return err
	}
	r.frameNumber++
	return nil
}

// CreateFrameGraphBuilder returns a single-use builder targeting the frame
// graph of the current frame. Must be called between BeginFrame and
// ExecuteFrameGraph.
func (r *Renderer) CreateFrameGraphBuilder() *framegraph.Builder {
	return framegraph.NewBuilder(r.currentFrameGraph, r.registry, r.manager)
}

// ExecuteFrameGraph compiles and executes a built frame graph against the
// graphics context.
func (r *Renderer) ExecuteFrameGraph(fg *framegraph.FrameGraph) {
	fg.Compile()
	fg.Execute(r.context)
}

func (r *Renderer) OnResize(width, height uint32) error {
	core.LogInfo("resizing renderer to %dx%d", width, height)

	if err := r.context.WaitForIdle(); err != nil {
		return err
	}
	return r.context.Resize(width, height)
}

func (r *Renderer) ResourceManager() *resources.ResourceManager {
	return r.manager
}

func (r *Renderer) Registry() *resources.ResourceRegistry {
	return r.registry
}

func (r *Renderer) SwapchainID() resources.ResourceID {
	return r.swapchainID
}

func (r *Renderer) swapchainDesc() metadata.TextureDesc {
	width, height := r.context.GetViewportDimensions()
	return metadata.TextureDesc{
		Width:       width,
		Height:      height,
		Depth:       1,
		MipLevels:   1,
		ArrayLayers: 1,
		Format:      r.context.GetSwapchainFormat(),
		Usage:       metadata.TextureUsageColorAttachment,
	}
}
