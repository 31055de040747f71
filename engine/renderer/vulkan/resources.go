package vulkan

import (
	"fmt"
	"sync"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/vortex/engine/core"
	"github.com/spaghettifunk/vortex/engine/renderer/metadata"
	"github.com/spaghettifunk/vortex/engine/renderer/resources"
)

type bufferResource struct {
	handle vk.Buffer
	memory vk.DeviceMemory
	size   vk.DeviceSize
}

type textureResource struct {
	image  vk.Image
	memory vk.DeviceMemory
	view   vk.ImageView
	aspect vk.ImageAspectFlags
}

// resourceTable owns every API object the context created on behalf of the
// resource manager, keyed by the opaque handles it hands out.
type resourceTable struct {
	device *device

	mutex      sync.Mutex
	nextHandle uint64

	buffers  map[uint64]*bufferResource
	textures map[uint64]*textureResource
	samplers map[uint64]vk.Sampler
	shaders  map[uint64]vk.ShaderModule

	// Engine resource IDs the manager bound to texture handles, so
	// transitions can resolve an ID back to an image.
	bindings map[resources.ResourceID]uint64
}

func newResourceTable() *resourceTable {
	return &resourceTable{
		nextHandle: uint64(metadata.BackBufferHandle) + 1,
		buffers:    make(map[uint64]*bufferResource),
		textures:   make(map[uint64]*textureResource),
		samplers:   make(map[uint64]vk.Sampler),
		shaders:    make(map[uint64]vk.ShaderModule),
		bindings:   make(map[resources.ResourceID]uint64),
	}
}

func (t *resourceTable) allocateHandle() uint64 {
	handle := t.nextHandle
	t.nextHandle++
	return handle
}

func (t *resourceTable) destroyAll() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	d := t.device
	if d == nil {
		return
	}
	for handle, buffer := range t.buffers {
		vk.DestroyBuffer(d.logical, buffer.handle, nil)
		vk.FreeMemory(d.logical, buffer.memory, nil)
		delete(t.buffers, handle)
	}
	for handle, texture := range t.textures {
		vk.DestroyImageView(d.logical, texture.view, nil)
		vk.DestroyImage(d.logical, texture.image, nil)
		vk.FreeMemory(d.logical, texture.memory, nil)
		delete(t.textures, handle)
	}
	for handle, sampler := range t.samplers {
		vk.DestroySampler(d.logical, sampler, nil)
		delete(t.samplers, handle)
	}
	for handle, module := range t.shaders {
		vk.DestroyShaderModule(d.logical, module, nil)
		delete(t.shaders, handle)
	}
}

// BindTexture implements resources.TextureBinder.
func (c *Context) BindTexture(id resources.ResourceID, handle metadata.TextureHandle) {
	c.resources.mutex.Lock()
	defer c.resources.mutex.Unlock()
	c.resources.bindings[id] = uint64(handle)
}

// UnbindTexture implements resources.TextureBinder.
func (c *Context) UnbindTexture(id resources.ResourceID) {
	c.resources.mutex.Lock()
	defer c.resources.mutex.Unlock()
	delete(c.resources.bindings, id)
}

func (c *Context) CreateBuffer(desc metadata.BufferDesc, data []byte) (metadata.BufferHandle, error) {
	usage := vulkanBufferUsage(desc.Usage)
	if data != nil {
		usage |= vk.BufferUsageFlags(vk.BufferUsageTransferDstBit)
	}

	bufferCreateInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(desc.Size),
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}

	var buffer vk.Buffer
	if res := vk.CreateBuffer(c.device.logical, &bufferCreateInfo, nil, &buffer); res != vk.Success {
		return 0, fmt.Errorf("failed to create buffer: %s", resultString(res))
	}

	var memReq vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(c.device.logical, buffer, &memReq)
	memReq.Deref()

	properties := vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	if desc.HostVisible || data != nil {
		properties = vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)
		if desc.HostCoherent || data != nil {
			properties |= vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit)
		}
	}

	memoryIndex := c.device.findMemoryIndex(memReq.MemoryTypeBits, properties)
	if memoryIndex < 0 {
		vk.DestroyBuffer(c.device.logical, buffer, nil)
		return 0, fmt.Errorf("no suitable memory type for buffer")
	}

	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReq.Size,
		MemoryTypeIndex: uint32(memoryIndex),
	}
	var memory vk.DeviceMemory
	if res := vk.AllocateMemory(c.device.logical, &allocInfo, nil, &memory); res != vk.Success {
		vk.DestroyBuffer(c.device.logical, buffer, nil)
		return 0, fmt.Errorf("failed to allocate buffer memory: %s", resultString(res))
	}
	if res := vk.BindBufferMemory(c.device.logical, buffer, memory, 0); res != vk.Success {
		vk.FreeMemory(c.device.logical, memory, nil)
		vk.DestroyBuffer(c.device.logical, buffer, nil)
		return 0, fmt.Errorf("failed to bind buffer memory: %s", resultString(res))
	}

	if data != nil {
		var mapped unsafe.Pointer
		if res := vk.MapMemory(c.device.logical, memory, 0, vk.DeviceSize(len(data)), 0, &mapped); res != vk.Success {
			vk.FreeMemory(c.device.logical, memory, nil)
			vk.DestroyBuffer(c.device.logical, buffer, nil)
			return 0, fmt.Errorf("failed to map buffer memory: %s", resultString(res))
		}
		vk.Memcopy(mapped, data)
		vk.UnmapMemory(c.device.logical, memory)
	}

	c.resources.mutex.Lock()
	handle := c.resources.allocateHandle()
	c.resources.buffers[handle] = &bufferResource{
		handle: buffer,
		memory: memory,
		size:   vk.DeviceSize(desc.Size),
	}
	c.resources.mutex.Unlock()

	return metadata.BufferHandle(handle), nil
}

func (c *Context) DestroyBuffer(handle metadata.BufferHandle) {
	c.resources.mutex.Lock()
	buffer, ok := c.resources.buffers[uint64(handle)]
	delete(c.resources.buffers, uint64(handle))
	c.resources.mutex.Unlock()
	if !ok {
		return
	}
	vk.DestroyBuffer(c.device.logical, buffer.handle, nil)
	vk.FreeMemory(c.device.logical, buffer.memory, nil)
}

func (c *Context) CreateTexture(desc metadata.TextureDesc) (metadata.TextureHandle, error) {
	format := vulkanFormat(desc.Format)
	if format == vk.FormatUndefined {
		return 0, fmt.Errorf("unsupported texture format %d", desc.Format)
	}

	depth := desc.Depth
	if depth == 0 {
		depth = 1
	}
	mipLevels := desc.MipLevels
	if mipLevels == 0 {
		mipLevels = 1
	}
	arrayLayers := desc.ArrayLayers
	if arrayLayers == 0 {
		arrayLayers = 1
	}

	imageType := vk.ImageType2d
	if depth > 1 {
		imageType = vk.ImageType3d
	}

	var createFlags vk.ImageCreateFlags
	if desc.CubeMap {
		createFlags |= vk.ImageCreateFlags(vk.ImageCreateCubeCompatibleBit)
	}

	imageCreateInfo := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		Flags:     createFlags,
		ImageType: imageType,
		Format:    format,
		Extent: vk.Extent3D{
			Width:  desc.Width,
			Height: desc.Height,
			Depth:  depth,
		},
		MipLevels:     mipLevels,
		ArrayLayers:   arrayLayers,
		Samples:       vk.SampleCount1Bit,
		Tiling:        vk.ImageTilingOptimal,
		Usage:         vulkanTextureUsage(desc.Usage),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}

	var image vk.Image
	if res := vk.CreateImage(c.device.logical, &imageCreateInfo, nil, &image); res != vk.Success {
		return 0, fmt.Errorf("failed to create image: %s", resultString(res))
	}

	var memReq vk.MemoryRequirements
	vk.GetImageMemoryRequirements(c.device.logical, image, &memReq)
	memReq.Deref()

	memoryIndex := c.device.findMemoryIndex(memReq.MemoryTypeBits, vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if memoryIndex < 0 {
		vk.DestroyImage(c.device.logical, image, nil)
		return 0, fmt.Errorf("no suitable memory type for image")
	}

	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReq.Size,
		MemoryTypeIndex: uint32(memoryIndex),
	}
	var memory vk.DeviceMemory
	if res := vk.AllocateMemory(c.device.logical, &allocInfo, nil, &memory); res != vk.Success {
		vk.DestroyImage(c.device.logical, image, nil)
		return 0, fmt.Errorf("failed to allocate image memory: %s", resultString(res))
	}
	if res := vk.BindImageMemory(c.device.logical, image, memory, 0); res != vk.Success {
		vk.FreeMemory(c.device.logical, memory, nil)
		vk.DestroyImage(c.device.logical, image, nil)
		return 0, fmt.Errorf("failed to bind image memory: %s", resultString(res))
	}

	aspect := vk.ImageAspectFlags(vk.ImageAspectColorBit)
	if desc.Usage&metadata.TextureUsageDepthStencil != 0 {
		aspect = vk.ImageAspectFlags(vk.ImageAspectDepthBit)
		if desc.Format == metadata.FormatD24UnormS8Uint {
			aspect |= vk.ImageAspectFlags(vk.ImageAspectStencilBit)
		}
	}

	viewType := vk.ImageViewType2d
	switch {
	case desc.CubeMap:
		viewType = vk.ImageViewTypeCube
	case depth > 1:
		viewType = vk.ImageViewType3d
	case arrayLayers > 1:
		viewType = vk.ImageViewType2dArray
	}

	viewInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: viewType,
		Format:   format,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: aspect,
			LevelCount: mipLevels,
			LayerCount: arrayLayers,
		},
	}
	var view vk.ImageView
	if res := vk.CreateImageView(c.device.logical, &viewInfo, nil, &view); res != vk.Success {
		vk.FreeMemory(c.device.logical, memory, nil)
		vk.DestroyImage(c.device.logical, image, nil)
		return 0, fmt.Errorf("failed to create image view: %s", resultString(res))
	}

	c.resources.mutex.Lock()
	handle := c.resources.allocateHandle()
	c.resources.textures[handle] = &textureResource{
		image:  image,
		memory: memory,
		view:   view,
		aspect: aspect,
	}
	c.resources.mutex.Unlock()

	core.LogDebug("created %dx%d texture, handle %d", desc.Width, desc.Height, handle)
	return metadata.TextureHandle(handle), nil
}

func (c *Context) DestroyTexture(handle metadata.TextureHandle) {
	c.resources.mutex.Lock()
	texture, ok := c.resources.textures[uint64(handle)]
	delete(c.resources.textures, uint64(handle))
	c.resources.mutex.Unlock()
	if !ok {
		return
	}
	vk.DestroyImageView(c.device.logical, texture.view, nil)
	vk.DestroyImage(c.device.logical, texture.image, nil)
	vk.FreeMemory(c.device.logical, texture.memory, nil)
}

func (c *Context) CreateSampler(desc metadata.SamplerDesc) (metadata.SamplerHandle, error) {
	anisotropyEnable := vk.False
	maxAnisotropy := float32(1.0)
	if desc.MinFilter == metadata.FilterModeAnisotropic || desc.MagFilter == metadata.FilterModeAnisotropic {
		anisotropyEnable = vk.True
		maxAnisotropy = desc.MaxAnisotropy
		if maxAnisotropy <= 0 {
			maxAnisotropy = 16
		}
	}

	samplerCreateInfo := vk.SamplerCreateInfo{
		SType:            vk.StructureTypeSamplerCreateInfo,
		MagFilter:        vulkanFilter(desc.MagFilter),
		MinFilter:        vulkanFilter(desc.MinFilter),
		MipmapMode:       vk.SamplerMipmapModeLinear,
		AddressModeU:     vulkanAddressMode(desc.AddressU),
		AddressModeV:     vulkanAddressMode(desc.AddressV),
		AddressModeW:     vulkanAddressMode(desc.AddressW),
		AnisotropyEnable: vk.Bool32(anisotropyEnable),
		MaxAnisotropy:    maxAnisotropy,
		BorderColor:      vk.BorderColorIntOpaqueBlack,
		MinLod:           0,
		MaxLod:           vk.LodClampNone,
	}

	var sampler vk.Sampler
	if res := vk.CreateSampler(c.device.logical, &samplerCreateInfo, nil, &sampler); res != vk.Success {
		return 0, fmt.Errorf("failed to create sampler: %s", resultString(res))
	}

	c.resources.mutex.Lock()
	handle := c.resources.allocateHandle()
	c.resources.samplers[handle] = sampler
	c.resources.mutex.Unlock()

	return metadata.SamplerHandle(handle), nil
}

func (c *Context) DestroySampler(handle metadata.SamplerHandle) {
	c.resources.mutex.Lock()
	sampler, ok := c.resources.samplers[uint64(handle)]
	delete(c.resources.samplers, uint64(handle))
	c.resources.mutex.Unlock()
	if !ok {
		return
	}
	vk.DestroySampler(c.device.logical, sampler, nil)
}

func (c *Context) CreateShader(stage metadata.ShaderStage, code []byte) (metadata.ShaderHandle, error) {
	if len(code) == 0 || len(code)%4 != 0 {
		return 0, fmt.Errorf("shader bytecode length %d is not a multiple of 4", len(code))
	}
	// Module creation only needs the code; the stage matters when the module
	// is attached to a pipeline.
	core.LogDebug("creating shader module, stage bits %#x, %d bytes", vulkanShaderStage(stage), len(code))

	shaderCreateInfo := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    sliceUint32(code),
	}

	var module vk.ShaderModule
	if res := vk.CreateShaderModule(c.device.logical, &shaderCreateInfo, nil, &module); res != vk.Success {
		return 0, fmt.Errorf("failed to create shader module: %s", resultString(res))
	}

	c.resources.mutex.Lock()
	handle := c.resources.allocateHandle()
	c.resources.shaders[handle] = module
	c.resources.mutex.Unlock()

	return metadata.ShaderHandle(handle), nil
}

func (c *Context) DestroyShader(handle metadata.ShaderHandle) {
	c.resources.mutex.Lock()
	module, ok := c.resources.shaders[uint64(handle)]
	delete(c.resources.shaders, uint64(handle))
	c.resources.mutex.Unlock()
	if !ok {
		return
	}
	vk.DestroyShaderModule(c.device.logical, module, nil)
}
