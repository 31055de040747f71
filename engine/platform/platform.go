package platform

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/vortex/engine/containers"
	"github.com/spaghettifunk/vortex/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// ResizeEvent is a pending framebuffer resize. Events are coalesced in a
// ring queue until the application drains them once per frame.
type ResizeEvent struct {
	Width  uint32
	Height uint32
}

type Platform struct {
	Window *glfw.Window

	resizeEvents *containers.RingQueue[ResizeEvent]
}

func New() *Platform {
	return &Platform{
		resizeEvents: containers.NewRingQueue[ResizeEvent](16),
	}
}

func (p *Platform) Startup(applicationName string, x, y, width, height uint32) error {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Required for Vulkan.

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		return err
	}
	p.Window = window

	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.Window.SetPos(int(x), int(y))
	p.Window.Show()

	return nil
}

func (p *Platform) Shutdown() error {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
	return nil
}

func (p *Platform) PumpMessages() {
	glfw.PollEvents()
}

func (p *Platform) ShouldClose() bool {
	return p.Window != nil && p.Window.ShouldClose()
}

func (p *Platform) RequestClose() {
	if p.Window != nil {
		p.Window.SetShouldClose(true)
	}
}

func (p *Platform) SetWindowTitle(title string) {
	if p.Window != nil {
		p.Window.SetTitle(title)
	}
}

func (p *Platform) IsKeyPressed(key glfw.Key) bool {
	return p.Window != nil && p.Window.GetKey(key) == glfw.Press
}

// NextResize returns the oldest pending resize event, if any.
func (p *Platform) NextResize() (ResizeEvent, bool) {
	event, err := p.resizeEvents.Dequeue()
	if err != nil {
		return ResizeEvent{}, false
	}
	return event, true
}

// GetRequiredExtensionNames returns the Vulkan instance extensions the
// windowing system needs.
func (p *Platform) GetRequiredExtensionNames() []string {
	if p.Window == nil {
		return nil
	}
	return p.Window.GetRequiredInstanceExtensions()
}

func (p *Platform) GetTime() float64 {
	return glfw.GetTime()
}

func (p *Platform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	// Zero-size events are forwarded too; the engine suspends on them.
	if err := p.resizeEvents.Enqueue(ResizeEvent{Width: uint32(width), Height: uint32(height)}); err != nil {
		// Queue full: drop the oldest, keep the newest dimensions.
		_, _ = p.resizeEvents.Dequeue()
		_ = p.resizeEvents.Enqueue(ResizeEvent{Width: uint32(width), Height: uint32(height)})
	}
}
