// Package vulkan implements the renderer's GraphicsContext on top of
// goki/vulkan and a glfw window surface.
package vulkan

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/vortex/engine/core"
	"github.com/spaghettifunk/vortex/engine/platform"
	"github.com/spaghettifunk/vortex/engine/renderer/metadata"
)

const maxFramesInFlight = 2

// Context is the Vulkan implementation of renderer.GraphicsContext. It owns
// the instance, device, swapchain and per-frame synchronization state, plus
// the tables mapping engine resource handles to API objects.
type Context struct {
	platform *platform.Platform

	instance vk.Instance
	surface  vk.Surface
	device   *device

	swapchain *swapchain

	framebufferWidth  uint32
	framebufferHeight uint32
	// Bumped on resize requests; the swapchain is recreated lazily on the
	// next BeginFrame.
	sizeGeneration     uint64
	sizeLastGeneration uint64

	commandBuffers []vk.CommandBuffer

	imageAvailableSemaphores []vk.Semaphore
	queueCompleteSemaphores  []vk.Semaphore
	inFlightFences           []vk.Fence

	imageIndex   uint32
	currentFrame uint32
	frameActive  bool

	debugMessenger vk.DebugReportCallback
	debug          bool
	vsync          bool

	resources *resourceTable
}

// Options carry the renderer settings from the application config into the
// backend.
type Options struct {
	// Validation enables the Khronos validation layers and the debug report
	// callback.
	Validation bool
	// VSync forces the FIFO present mode; otherwise mailbox is preferred
	// when available.
	VSync bool
}

func New(p *platform.Platform, opts Options) *Context {
	return &Context{
		platform:  p,
		debug:     opts.Validation,
		vsync:     opts.VSync,
		resources: newResourceTable(),
	}
}

func (c *Context) Initialize(appName string, width, height uint32) error {
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		return fmt.Errorf("vulkan loader not available")
	}
	vk.SetGetInstanceProcAddr(procAddr)

	if err := vk.Init(); err != nil {
		core.LogError("failed to initialize vulkan: %s", err)
		return err
	}

	c.framebufferWidth = width
	c.framebufferHeight = height

	if err := c.createInstance(appName); err != nil {
		return err
	}

	if c.debug {
		if err := c.createDebugMessenger(); err != nil {
			core.LogWarn("vulkan debug messenger unavailable: %s", err)
		}
	}

	core.LogDebug("creating vulkan surface")
	surfacePtr, err := c.platform.Window.CreateWindowSurface(c.instance, nil)
	if err != nil {
		core.LogError("failed to create window surface: %s", err)
		return err
	}
	c.surface = vk.SurfaceFromPointer(surfacePtr)

	c.device, err = newDevice(c.instance, c.surface)
	if err != nil {
		return err
	}

	c.swapchain, err = newSwapchain(c.device, c.surface, c.framebufferWidth, c.framebufferHeight, c.vsync)
	if err != nil {
		return err
	}

	if err := c.createCommandBuffers(); err != nil {
		return err
	}
	if err := c.createSyncObjects(); err != nil {
		return err
	}
	c.resources.device = c.device

	core.LogInfo("vulkan context initialized")
	return nil
}

func (c *Context) createInstance(appName string) error {
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 2, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   safeString(appName),
		PEngineName:        safeString("Vortex Engine"),
	}

	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	requiredExtensions := []string{"VK_KHR_surface"}
	requiredExtensions = append(requiredExtensions, c.platform.GetRequiredExtensionNames()...)

	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
		createInfo.Flags |= 1
	}

	var validationLayers []string
	if c.debug {
		requiredExtensions = append(requiredExtensions, vk.ExtDebugReportExtensionName)

		layers, err := availableValidationLayers()
		if err != nil {
			return err
		}
		validationLayers = layers
	}

	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = safeStrings(requiredExtensions)
	createInfo.EnabledLayerCount = uint32(len(validationLayers))
	createInfo.PpEnabledLayerNames = safeStrings(validationLayers)

	if res := vk.CreateInstance(&createInfo, nil, &c.instance); res != vk.Success {
		err := fmt.Errorf("failed to create vulkan instance: %s", resultString(res))
		core.LogError(err.Error())
		return err
	}
	if err := vk.InitInstance(c.instance); err != nil {
		core.LogError(err.Error())
		return err
	}

	core.LogDebug("vulkan instance created")
	return nil
}

func availableValidationLayers() ([]string, error) {
	wanted := []string{"VK_LAYER_KHRONOS_validation"}

	var layerCount uint32
	if res := vk.EnumerateInstanceLayerProperties(&layerCount, nil); res != vk.Success {
		return nil, fmt.Errorf("failed to enumerate instance layers: %s", resultString(res))
	}
	available := make([]vk.LayerProperties, layerCount)
	if res := vk.EnumerateInstanceLayerProperties(&layerCount, available); res != vk.Success {
		return nil, fmt.Errorf("failed to enumerate instance layers: %s", resultString(res))
	}

	var found []string
	for _, want := range wanted {
		for i := range available {
			available[i].Deref()
			if byteArrayToString(available[i].LayerName[:]) == want {
				found = append(found, want)
				break
			}
		}
	}
	if len(found) != len(wanted) {
		core.LogWarn("some validation layers are missing, continuing without")
	}
	return found, nil
}

func (c *Context) createDebugMessenger() error {
	debugCreateInfo := vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit),
		PfnCallback: debugCallback,
	}

	var messenger vk.DebugReportCallback
	if res := vk.CreateDebugReportCallback(c.instance, &debugCreateInfo, nil, &messenger); res != vk.Success {
		return fmt.Errorf("vkCreateDebugReportCallbackEXT failed: %s", resultString(res))
	}
	c.debugMessenger = messenger
	return nil
}

func debugCallback(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint64, messageCode int32, layerPrefix string,
	message string, userData unsafe.Pointer) vk.Bool32 {
	if flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0 {
		core.LogError("[%s] code %d: %s", layerPrefix, messageCode, message)
	} else {
		core.LogWarn("[%s] code %d: %s", layerPrefix, messageCode, message)
	}
	return vk.Bool32(vk.False)
}

func (c *Context) createCommandBuffers() error {
	count := c.swapchain.imageCount
	c.commandBuffers = make([]vk.CommandBuffer, count)

	allocateInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        c.device.graphicsCommandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: count,
	}
	if res := vk.AllocateCommandBuffers(c.device.logical, &allocateInfo, c.commandBuffers); res != vk.Success {
		err := fmt.Errorf("failed to allocate command buffers: %s", resultString(res))
		core.LogError(err.Error())
		return err
	}

	core.LogDebug("allocated %d graphics command buffers", count)
	return nil
}

func (c *Context) createSyncObjects() error {
	c.imageAvailableSemaphores = make([]vk.Semaphore, maxFramesInFlight)
	c.queueCompleteSemaphores = make([]vk.Semaphore, maxFramesInFlight)
	c.inFlightFences = make([]vk.Fence, maxFramesInFlight)

	semaphoreCreateInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	// Fences start signaled so the first frame does not wait forever.
	fenceCreateInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}

	for i := 0; i < maxFramesInFlight; i++ {
		if res := vk.CreateSemaphore(c.device.logical, &semaphoreCreateInfo, nil, &c.imageAvailableSemaphores[i]); res != vk.Success {
			return fmt.Errorf("failed to create image-available semaphore: %s", resultString(res))
		}
		if res := vk.CreateSemaphore(c.device.logical, &semaphoreCreateInfo, nil, &c.queueCompleteSemaphores[i]); res != vk.Success {
			return fmt.Errorf("failed to create queue-complete semaphore: %s", resultString(res))
		}
		if res := vk.CreateFence(c.device.logical, &fenceCreateInfo, nil, &c.inFlightFences[i]); res != vk.Success {
			return fmt.Errorf("failed to create in-flight fence: %s", resultString(res))
		}
	}
	return nil
}

func (c *Context) Shutdown() error {
	if c.device != nil {
		vk.DeviceWaitIdle(c.device.logical)
	}

	c.resources.destroyAll()

	for i := 0; i < len(c.inFlightFences); i++ {
		vk.DestroySemaphore(c.device.logical, c.imageAvailableSemaphores[i], nil)
		vk.DestroySemaphore(c.device.logical, c.queueCompleteSemaphores[i], nil)
		vk.DestroyFence(c.device.logical, c.inFlightFences[i], nil)
	}
	c.imageAvailableSemaphores = nil
	c.queueCompleteSemaphores = nil
	c.inFlightFences = nil

	if len(c.commandBuffers) > 0 {
		vk.FreeCommandBuffers(c.device.logical, c.device.graphicsCommandPool, uint32(len(c.commandBuffers)), c.commandBuffers)
		c.commandBuffers = nil
	}

	if c.swapchain != nil {
		c.swapchain.destroy(c.device)
		c.swapchain = nil
	}

	if c.device != nil {
		c.device.destroy()
		c.device = nil
	}

	vk.DestroySurface(c.instance, c.surface, nil)

	if c.debugMessenger != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(c.instance, c.debugMessenger, nil)
	}

	vk.DestroyInstance(c.instance, nil)
	c.instance = nil

	core.LogInfo("vulkan context shut down")
	return nil
}

// Resize records the new framebuffer size. The swapchain itself is recreated
// on the next BeginFrame so resize storms collapse into one recreation.
func (c *Context) Resize(width, height uint32) error {
	c.framebufferWidth = width
	c.framebufferHeight = height
	c.sizeGeneration++
	return nil
}

func (c *Context) WaitForIdle() error {
	if res := vk.DeviceWaitIdle(c.device.logical); res != vk.Success {
		return fmt.Errorf("vkDeviceWaitIdle failed: %s", resultString(res))
	}
	return nil
}

func (c *Context) GetSwapchainFormat() metadata.Format {
	if c.swapchain == nil {
		return metadata.FormatUnknown
	}
	return engineFormat(c.swapchain.imageFormat.Format)
}

func (c *Context) GetViewportDimensions() (uint32, uint32) {
	return c.framebufferWidth, c.framebufferHeight
}

// GetCurrentBackBuffer exposes the acquired swapchain image as an opaque
// texture handle so the frame graph can transition and clear it.
func (c *Context) GetCurrentBackBuffer() metadata.TextureHandle {
	return metadata.BackBufferHandle
}
