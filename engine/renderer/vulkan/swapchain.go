package vulkan

import (
	"fmt"
	"math"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/vortex/engine/core"
	vmath "github.com/spaghettifunk/vortex/engine/math"
)

// swapchain wraps the presentation images and their views.
type swapchain struct {
	handle      vk.Swapchain
	imageFormat vk.SurfaceFormat
	extent      vk.Extent2D
	imageCount  uint32
	images      []vk.Image
	views       []vk.ImageView
}

// choosePresentMode picks FIFO when vsync is requested, since FIFO is the
// only mode Vulkan guarantees and it blocks on the display refresh. Without
// vsync, mailbox is preferred for its lower latency.
func choosePresentMode(modes []vk.PresentMode, vsync bool) vk.PresentMode {
	if vsync {
		return vk.PresentModeFifo
	}
	for _, mode := range modes {
		if mode == vk.PresentModeMailbox {
			return mode
		}
	}
	return vk.PresentModeFifo
}

func newSwapchain(d *device, surface vk.Surface, width, height uint32, vsync bool) (*swapchain, error) {
	sc := &swapchain{}

	// Capabilities can change between creations, re-query every time.
	if err := d.querySurfaceSupport(surface); err != nil {
		return nil, err
	}

	sc.imageFormat = d.surfaceSupport.formats[0]
	for _, format := range d.surfaceSupport.formats {
		if format.Format == vk.FormatB8g8r8a8Unorm && format.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			sc.imageFormat = format
			break
		}
	}

	presentMode := choosePresentMode(d.surfaceSupport.presentModes, vsync)

	capabilities := d.surfaceSupport.capabilities
	extent := vk.Extent2D{Width: width, Height: height}
	if capabilities.CurrentExtent.Width != math.MaxUint32 {
		extent = capabilities.CurrentExtent
	}
	extent.Width = vmath.Clamp(extent.Width, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width)
	extent.Height = vmath.Clamp(extent.Height, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height)
	sc.extent = extent

	imageCount := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && imageCount > capabilities.MaxImageCount {
		imageCount = capabilities.MaxImageCount
	}

	swapchainCreateInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    imageCount,
		ImageFormat:      sc.imageFormat.Format,
		ImageColorSpace:  sc.imageFormat.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit | vk.ImageUsageTransferDstBit),
		PreTransform:     capabilities.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      presentMode,
		Clipped:          vk.True,
		OldSwapchain:     vk.NullSwapchain,
	}

	if d.graphicsQueueIndex != d.presentQueueIndex {
		swapchainCreateInfo.ImageSharingMode = vk.SharingModeConcurrent
		swapchainCreateInfo.QueueFamilyIndexCount = 2
		swapchainCreateInfo.PQueueFamilyIndices = []uint32{
			uint32(d.graphicsQueueIndex),
			uint32(d.presentQueueIndex),
		}
	} else {
		swapchainCreateInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	var handle vk.Swapchain
	if res := vk.CreateSwapchain(d.logical, &swapchainCreateInfo, nil, &handle); res != vk.Success {
		err := fmt.Errorf("failed to create swapchain: %s", resultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	sc.handle = handle

	if res := vk.GetSwapchainImages(d.logical, sc.handle, &sc.imageCount, nil); res != vk.Success {
		return nil, fmt.Errorf("failed to get swapchain images: %s", resultString(res))
	}
	sc.images = make([]vk.Image, sc.imageCount)
	if res := vk.GetSwapchainImages(d.logical, sc.handle, &sc.imageCount, sc.images); res != vk.Success {
		return nil, fmt.Errorf("failed to get swapchain images: %s", resultString(res))
	}

	sc.views = make([]vk.ImageView, sc.imageCount)
	for i := range sc.images {
		viewInfo := vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    sc.images[i],
			ViewType: vk.ImageViewType2d,
			Format:   sc.imageFormat.Format,
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1,
				LayerCount: 1,
			},
		}
		if res := vk.CreateImageView(d.logical, &viewInfo, nil, &sc.views[i]); res != vk.Success {
			return nil, fmt.Errorf("failed to create swapchain image view: %s", resultString(res))
		}
	}

	core.LogDebug("swapchain created: %dx%d, %d images", extent.Width, extent.Height, sc.imageCount)
	return sc, nil
}

// acquireNextImage returns the index of the next presentable image. The
// second return is false when the swapchain is out of date and must be
// recreated before rendering.
func (sc *swapchain) acquireNextImage(d *device, timeoutNS uint64, imageAvailable vk.Semaphore) (uint32, bool, error) {
	var imageIndex uint32
	result := vk.AcquireNextImage(d.logical, sc.handle, timeoutNS, imageAvailable, vk.NullFence, &imageIndex)

	switch {
	case result == vk.ErrorOutOfDate:
		return 0, false, nil
	case result != vk.Success && result != vk.Suboptimal:
		return 0, false, fmt.Errorf("failed to acquire swapchain image: %s", resultString(result))
	}
	return imageIndex, true, nil
}

// present hands the image back for presentation. Returns false when the
// swapchain needs recreation.
func (sc *swapchain) present(d *device, renderComplete vk.Semaphore, imageIndex uint32) (bool, error) {
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{renderComplete},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{sc.handle},
		PImageIndices:      []uint32{imageIndex},
	}

	result := vk.QueuePresent(d.presentQueue, &presentInfo)
	switch {
	case result == vk.ErrorOutOfDate || result == vk.Suboptimal:
		return false, nil
	case result != vk.Success:
		return false, fmt.Errorf("failed to present swapchain image: %s", resultString(result))
	}
	return true, nil
}

func (sc *swapchain) destroy(d *device) {
	for _, view := range sc.views {
		vk.DestroyImageView(d.logical, view, nil)
	}
	sc.views = nil
	sc.images = nil

	if sc.handle != vk.NullSwapchain {
		vk.DestroySwapchain(d.logical, sc.handle, nil)
		sc.handle = vk.NullSwapchain
	}
}
