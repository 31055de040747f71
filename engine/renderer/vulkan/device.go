package vulkan

import (
	"fmt"
	"runtime"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/vortex/engine/core"
)

// device bundles the selected physical device, the logical device created on
// it and the queues the renderer uses.
type device struct {
	physical vk.PhysicalDevice
	logical  vk.Device

	graphicsQueueIndex int32
	presentQueueIndex  int32

	graphicsQueue vk.Queue
	presentQueue  vk.Queue

	graphicsCommandPool vk.CommandPool

	properties vk.PhysicalDeviceProperties
	memory     vk.PhysicalDeviceMemoryProperties

	surfaceSupport surfaceSupportInfo
	depthFormat    vk.Format
}

type surfaceSupportInfo struct {
	capabilities vk.SurfaceCapabilities
	formats      []vk.SurfaceFormat
	presentModes []vk.PresentMode
}

func newDevice(instance vk.Instance, surface vk.Surface) (*device, error) {
	d := &device{
		graphicsQueueIndex: -1,
		presentQueueIndex:  -1,
	}

	if err := d.selectPhysicalDevice(instance, surface); err != nil {
		return nil, err
	}
	if err := d.createLogicalDevice(); err != nil {
		return nil, err
	}
	if err := d.createCommandPool(); err != nil {
		return nil, err
	}
	if !d.detectDepthFormat() {
		core.LogWarn("no supported depth format found")
	}
	return d, nil
}

func (d *device) selectPhysicalDevice(instance vk.Instance, surface vk.Surface) error {
	var deviceCount uint32
	if res := vk.EnumeratePhysicalDevices(instance, &deviceCount, nil); res != vk.Success {
		return fmt.Errorf("failed to enumerate physical devices: %s", resultString(res))
	}
	if deviceCount == 0 {
		return fmt.Errorf("no vulkan-capable devices found")
	}

	physicalDevices := make([]vk.PhysicalDevice, deviceCount)
	if res := vk.EnumeratePhysicalDevices(instance, &deviceCount, physicalDevices); res != vk.Success {
		return fmt.Errorf("failed to enumerate physical devices: %s", resultString(res))
	}

	// Discrete GPUs first; Apple exposes integrated only.
	requireDiscrete := runtime.GOOS != "darwin"

	var fallback vk.PhysicalDevice
	var fallbackGraphics, fallbackPresent int32

	for _, candidate := range physicalDevices {
		graphicsIndex, presentIndex, ok := queueFamilies(candidate, surface)
		if !ok {
			continue
		}
		if !supportsSwapchainExtension(candidate) {
			continue
		}

		var properties vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(candidate, &properties)
		properties.Deref()

		if requireDiscrete && properties.DeviceType != vk.PhysicalDeviceTypeDiscreteGpu {
			if fallback == nil {
				fallback = candidate
				fallbackGraphics = graphicsIndex
				fallbackPresent = presentIndex
			}
			continue
		}

		d.physical = candidate
		d.graphicsQueueIndex = graphicsIndex
		d.presentQueueIndex = presentIndex
		d.properties = properties
		break
	}

	if d.physical == nil && fallback != nil {
		d.physical = fallback
		d.graphicsQueueIndex = fallbackGraphics
		d.presentQueueIndex = fallbackPresent
		vk.GetPhysicalDeviceProperties(fallback, &d.properties)
		d.properties.Deref()
	}
	if d.physical == nil {
		return fmt.Errorf("no physical device meets the renderer requirements")
	}

	vk.GetPhysicalDeviceMemoryProperties(d.physical, &d.memory)
	d.memory.Deref()

	if err := d.querySurfaceSupport(surface); err != nil {
		return err
	}

	core.LogInfo("selected device: %s", byteArrayToString(d.properties.DeviceName[:]))
	return nil
}

func queueFamilies(physical vk.PhysicalDevice, surface vk.Surface) (graphics, present int32, ok bool) {
	var familyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(physical, &familyCount, nil)
	families := make([]vk.QueueFamilyProperties, familyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(physical, &familyCount, families)

	graphics, present = -1, -1
	for i := range families {
		families[i].Deref()

		if graphics < 0 && families[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			graphics = int32(i)
		}

		var supported vk.Bool32
		vk.GetPhysicalDeviceSurfaceSupport(physical, uint32(i), surface, &supported)
		if present < 0 && supported == vk.True {
			present = int32(i)
		}
	}
	return graphics, present, graphics >= 0 && present >= 0
}

func supportsSwapchainExtension(physical vk.PhysicalDevice) bool {
	var extensionCount uint32
	if res := vk.EnumerateDeviceExtensionProperties(physical, "", &extensionCount, nil); res != vk.Success {
		return false
	}
	extensions := make([]vk.ExtensionProperties, extensionCount)
	if res := vk.EnumerateDeviceExtensionProperties(physical, "", &extensionCount, extensions); res != vk.Success {
		return false
	}
	for i := range extensions {
		extensions[i].Deref()
		if byteArrayToString(extensions[i].ExtensionName[:]) == vk.KhrSwapchainExtensionName {
			return true
		}
	}
	return false
}

func (d *device) querySurfaceSupport(surface vk.Surface) error {
	if res := vk.GetPhysicalDeviceSurfaceCapabilities(d.physical, surface, &d.surfaceSupport.capabilities); res != vk.Success {
		return fmt.Errorf("failed to query surface capabilities: %s", resultString(res))
	}
	d.surfaceSupport.capabilities.Deref()

	var formatCount uint32
	if res := vk.GetPhysicalDeviceSurfaceFormats(d.physical, surface, &formatCount, nil); res != vk.Success {
		return fmt.Errorf("failed to query surface formats: %s", resultString(res))
	}
	d.surfaceSupport.formats = make([]vk.SurfaceFormat, formatCount)
	if res := vk.GetPhysicalDeviceSurfaceFormats(d.physical, surface, &formatCount, d.surfaceSupport.formats); res != vk.Success {
		return fmt.Errorf("failed to query surface formats: %s", resultString(res))
	}
	for i := range d.surfaceSupport.formats {
		d.surfaceSupport.formats[i].Deref()
	}

	var modeCount uint32
	if res := vk.GetPhysicalDeviceSurfacePresentModes(d.physical, surface, &modeCount, nil); res != vk.Success {
		return fmt.Errorf("failed to query present modes: %s", resultString(res))
	}
	d.surfaceSupport.presentModes = make([]vk.PresentMode, modeCount)
	if res := vk.GetPhysicalDeviceSurfacePresentModes(d.physical, surface, &modeCount, d.surfaceSupport.presentModes); res != vk.Success {
		return fmt.Errorf("failed to query present modes: %s", resultString(res))
	}
	return nil
}

func (d *device) createLogicalDevice() error {
	core.LogDebug("creating logical device")

	indices := []uint32{uint32(d.graphicsQueueIndex)}
	if d.presentQueueIndex != d.graphicsQueueIndex {
		indices = append(indices, uint32(d.presentQueueIndex))
	}

	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, len(indices))
	for i, familyIndex := range indices {
		queueCreateInfos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: familyIndex,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}

	extensionNames := []string{vk.KhrSwapchainExtensionName}
	if d.hasExtension("VK_KHR_portability_subset") {
		extensionNames = append(extensionNames, "VK_KHR_portability_subset")
	}

	deviceFeatures := vk.PhysicalDeviceFeatures{
		SamplerAnisotropy: vk.True,
	}

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueCreateInfos)),
		PQueueCreateInfos:       queueCreateInfos,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{deviceFeatures},
		EnabledExtensionCount:   uint32(len(extensionNames)),
		PpEnabledExtensionNames: safeStrings(extensionNames),
	}

	if res := vk.CreateDevice(d.physical, &deviceCreateInfo, nil, &d.logical); res != vk.Success {
		err := fmt.Errorf("failed to create logical device: %s", resultString(res))
		core.LogError(err.Error())
		return err
	}

	vk.GetDeviceQueue(d.logical, uint32(d.graphicsQueueIndex), 0, &d.graphicsQueue)
	vk.GetDeviceQueue(d.logical, uint32(d.presentQueueIndex), 0, &d.presentQueue)

	core.LogDebug("logical device created, queues obtained")
	return nil
}

func (d *device) hasExtension(name string) bool {
	var extensionCount uint32
	if res := vk.EnumerateDeviceExtensionProperties(d.physical, "", &extensionCount, nil); res != vk.Success {
		return false
	}
	extensions := make([]vk.ExtensionProperties, extensionCount)
	if res := vk.EnumerateDeviceExtensionProperties(d.physical, "", &extensionCount, extensions); res != vk.Success {
		return false
	}
	for i := range extensions {
		extensions[i].Deref()
		if byteArrayToString(extensions[i].ExtensionName[:]) == name {
			return true
		}
	}
	return false
}

func (d *device) createCommandPool() error {
	poolCreateInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: uint32(d.graphicsQueueIndex),
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}
	if res := vk.CreateCommandPool(d.logical, &poolCreateInfo, nil, &d.graphicsCommandPool); res != vk.Success {
		err := fmt.Errorf("failed to create graphics command pool: %s", resultString(res))
		core.LogError(err.Error())
		return err
	}
	return nil
}

func (d *device) detectDepthFormat() bool {
	candidates := []vk.Format{
		vk.FormatD32Sfloat,
		vk.FormatD32SfloatS8Uint,
		vk.FormatD24UnormS8Uint,
	}
	flags := vk.FormatFeatureDepthStencilAttachmentBit
	for _, candidate := range candidates {
		var properties vk.FormatProperties
		vk.GetPhysicalDeviceFormatProperties(d.physical, candidate, &properties)
		properties.Deref()

		if vk.FormatFeatureFlagBits(properties.LinearTilingFeatures)&flags == flags ||
			vk.FormatFeatureFlagBits(properties.OptimalTilingFeatures)&flags == flags {
			d.depthFormat = candidate
			return true
		}
	}
	return false
}

// findMemoryIndex locates a memory type matching the requested property
// flags, or -1 when none fits.
func (d *device) findMemoryIndex(typeFilter uint32, propertyFlags vk.MemoryPropertyFlags) int32 {
	for i := uint32(0); i < d.memory.MemoryTypeCount; i++ {
		d.memory.MemoryTypes[i].Deref()
		if typeFilter&(1<<i) != 0 && d.memory.MemoryTypes[i].PropertyFlags&propertyFlags == propertyFlags {
			return int32(i)
		}
	}
	core.LogWarn("unable to find suitable memory type")
	return -1
}

func (d *device) destroy() {
	if d.graphicsCommandPool != vk.NullCommandPool {
		vk.DestroyCommandPool(d.logical, d.graphicsCommandPool, nil)
	}
	if d.logical != nil {
		vk.DestroyDevice(d.logical, nil)
		d.logical = nil
	}
	d.physical = nil
}
