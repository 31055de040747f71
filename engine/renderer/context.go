package renderer

import (
	"github.com/spaghettifunk/vortex/engine/renderer/commands"
	"github.com/spaghettifunk/vortex/engine/renderer/metadata"
	"github.com/spaghettifunk/vortex/engine/renderer/resources"
)

// GraphicsContext abstracts the graphics API backend. The frame graph core
// drives it for resource transitions and command submission; the resource
// manager drives it for physical resource creation. Implementations live in
// the vulkan and stub subpackages.
type GraphicsContext interface {
	resources.GraphicsDevice

	Initialize(appName string, width, height uint32) error
	Shutdown() error

	// BeginFrame acquires the next swapchain image and returns its index.
	// Returns core.ErrSwapchainBooting while the swapchain is being
	// recreated; the caller should skip the frame.
	BeginFrame() (uint32, error)
	// EndFrame presents the rendered image.
	EndFrame() error
	Resize(width, height uint32) error
	WaitForIdle() error

	// TransitionResource records a synchronization barrier moving a resource
	// between access states.
	TransitionResource(id resources.ResourceID, oldState, newState metadata.ResourceState)
	// ExecuteCommands translates a batch of recorded render commands into
	// API-level calls on the current frame's command buffer.
	ExecuteCommands(cmds []commands.RenderCommand)

	GetSwapchainFormat() metadata.Format
	GetViewportDimensions() (width, height uint32)
	GetCurrentBackBuffer() metadata.TextureHandle
}
