package vulkan

import (
	"fmt"
	"math"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/vortex/engine/core"
)

// BeginFrame waits for the previous use of the frame slot, acquires the next
// swapchain image and starts recording the frame's command buffer. While a
// resize is pending the swapchain is recreated and ErrSwapchainBooting is
// returned so the caller skips the frame.
func (c *Context) BeginFrame() (uint32, error) {
	if c.sizeGeneration != c.sizeLastGeneration {
		if err := c.recreateSwapchain(); err != nil {
			return 0, err
		}
		core.LogInfo("swapchain recreated, booting frame")
		return 0, core.ErrSwapchainBooting
	}

	fence := c.inFlightFences[c.currentFrame]
	if res := vk.WaitForFences(c.device.logical, 1, []vk.Fence{fence}, vk.True, math.MaxUint64); res != vk.Success {
		return 0, fmt.Errorf("in-flight fence wait failed: %s", resultString(res))
	}

	imageIndex, ok, err := c.swapchain.acquireNextImage(c.device, math.MaxUint64, c.imageAvailableSemaphores[c.currentFrame])
	if err != nil {
		return 0, err
	}
	if !ok {
		// Out of date; recreate and let the caller retry next frame.
		if err := c.recreateSwapchain(); err != nil {
			return 0, err
		}
		return 0, core.ErrSwapchainBooting
	}
	c.imageIndex = imageIndex

	if res := vk.ResetFences(c.device.logical, 1, []vk.Fence{fence}); res != vk.Success {
		return 0, fmt.Errorf("in-flight fence reset failed: %s", resultString(res))
	}

	commandBuffer := c.commandBuffers[c.imageIndex]
	vk.ResetCommandBuffer(commandBuffer, 0)

	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if res := vk.BeginCommandBuffer(commandBuffer, &beginInfo); res != vk.Success {
		return 0, fmt.Errorf("failed to begin command buffer: %s", resultString(res))
	}
	c.frameActive = true

	return c.imageIndex, nil
}

// EndFrame finishes recording, submits the command buffer and presents the
// image.
func (c *Context) EndFrame() error {
	if !c.frameActive {
		return nil
	}
	c.frameActive = false

	commandBuffer := c.commandBuffers[c.imageIndex]

	// The swapchain image must be presentable when the queue completes.
	c.transitionImage(commandBuffer, c.swapchain.images[c.imageIndex],
		vk.ImageLayoutUndefined, vk.ImageLayoutPresentSrc,
		0, vk.AccessFlags(vk.AccessMemoryReadBit),
		vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit))

	if res := vk.EndCommandBuffer(commandBuffer); res != vk.Success {
		return fmt.Errorf("failed to end command buffer: %s", resultString(res))
	}

	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{commandBuffer},
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{c.imageAvailableSemaphores[c.currentFrame]},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{c.queueCompleteSemaphores[c.currentFrame]},
	}

	if res := vk.QueueSubmit(c.device.graphicsQueue, 1, []vk.SubmitInfo{submitInfo}, c.inFlightFences[c.currentFrame]); res != vk.Success {
		err := fmt.Errorf("queue submit failed: %s", resultString(res))
		core.LogError(err.Error())
		return err
	}

	ok, err := c.swapchain.present(c.device, c.queueCompleteSemaphores[c.currentFrame], c.imageIndex)
	if err != nil {
		return err
	}
	if !ok {
		c.sizeGeneration++
	}

	c.currentFrame = (c.currentFrame + 1) % maxFramesInFlight
	return nil
}

func (c *Context) recreateSwapchain() error {
	if c.framebufferWidth == 0 || c.framebufferHeight == 0 {
		// Minimized; keep the old chain until the window has an area again.
		return core.ErrSwapchainBooting
	}

	if res := vk.DeviceWaitIdle(c.device.logical); res != vk.Success {
		return fmt.Errorf("vkDeviceWaitIdle failed during swapchain recreation: %s", resultString(res))
	}

	c.swapchain.destroy(c.device)

	sc, err := newSwapchain(c.device, c.surface, c.framebufferWidth, c.framebufferHeight, c.vsync)
	if err != nil {
		return err
	}
	c.swapchain = sc
	c.currentFrame = 0
	c.sizeLastGeneration = c.sizeGeneration

	return nil
}
