// Package stub provides a graphics context that records what the frame
// graph asks of it instead of talking to a GPU. It backs the engine's tests
// and headless runs.
package stub

import (
	"github.com/spaghettifunk/vortex/engine/renderer/commands"
	"github.com/spaghettifunk/vortex/engine/renderer/metadata"
	"github.com/spaghettifunk/vortex/engine/renderer/resources"
)

// Transition is one recorded TransitionResource call.
type Transition struct {
	ID       resources.ResourceID
	OldState metadata.ResourceState
	NewState metadata.ResourceState
}

// Context implements renderer.GraphicsContext without a GPU. Every
// transition request and submitted command batch is recorded in order.
type Context struct {
	width  uint32
	height uint32

	nextHandle uint64
	imageIndex uint32

	Transitions []Transition
	Batches     [][]commands.RenderCommand

	FrameBegun  int
	FrameEnded  int
	ResizeCalls int
}

func New() *Context {
	return &Context{nextHandle: 1}
}

func (c *Context) Initialize(appName string, width, height uint32) error {
	c.width = width
	c.height = height
	return nil
}

func (c *Context) Shutdown() error {
	return nil
}

func (c *Context) BeginFrame() (uint32, error) {
	c.FrameBegun++
	index := c.imageIndex
	c.imageIndex = (c.imageIndex + 1) % 3
	return index, nil
}

func (c *Context) EndFrame() error {
	c.FrameEnded++
	return nil
}

func (c *Context) Resize(width, height uint32) error {
	c.width = width
	c.height = height
	c.ResizeCalls++
	return nil
}

func (c *Context) WaitForIdle() error {
	return nil
}

func (c *Context) TransitionResource(id resources.ResourceID, oldState, newState metadata.ResourceState) {
	c.Transitions = append(c.Transitions, Transition{ID: id, OldState: oldState, NewState: newState})
}

func (c *Context) ExecuteCommands(cmds []commands.RenderCommand) {
	batch := make([]commands.RenderCommand, len(cmds))
	copy(batch, cmds)
	c.Batches = append(c.Batches, batch)
}

func (c *Context) GetSwapchainFormat() metadata.Format {
	return metadata.FormatBGRA8Unorm
}

func (c *Context) GetViewportDimensions() (uint32, uint32) {
	return c.width, c.height
}

func (c *Context) GetCurrentBackBuffer() metadata.TextureHandle {
	return metadata.BackBufferHandle
}

func (c *Context) CreateBuffer(desc metadata.BufferDesc, data []byte) (metadata.BufferHandle, error) {
	return metadata.BufferHandle(c.handle()), nil
}

func (c *Context) DestroyBuffer(handle metadata.BufferHandle) {}

func (c *Context) CreateTexture(desc metadata.TextureDesc) (metadata.TextureHandle, error) {
	return metadata.TextureHandle(c.handle()), nil
}

func (c *Context) DestroyTexture(handle metadata.TextureHandle) {}

func (c *Context) CreateSampler(desc metadata.SamplerDesc) (metadata.SamplerHandle, error) {
	return metadata.SamplerHandle(c.handle()), nil
}

func (c *Context) DestroySampler(handle metadata.SamplerHandle) {}

func (c *Context) CreateShader(stage metadata.ShaderStage, code []byte) (metadata.ShaderHandle, error) {
	return metadata.ShaderHandle(c.handle()), nil
}

func (c *Context) DestroyShader(handle metadata.ShaderHandle) {}

// AllCommands flattens the recorded batches, for assertions that only care
// about totals.
func (c *Context) AllCommands() []commands.RenderCommand {
	var all []commands.RenderCommand
	for _, batch := range c.Batches {
		all = append(all, batch...)
	}
	return all
}

func (c *Context) handle() uint64 {
	h := c.nextHandle
	c.nextHandle++
	return h
}
