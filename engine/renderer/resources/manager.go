package resources

import (
	"fmt"

	"github.com/spaghettifunk/vortex/engine/core"
	"github.com/spaghettifunk/vortex/engine/renderer/metadata"
)

// GraphicsDevice is the subset of the graphics context the resource manager
// needs to allocate and free physical GPU objects.
type GraphicsDevice interface {
	CreateBuffer(desc metadata.BufferDesc, data []byte) (metadata.BufferHandle, error)
	DestroyBuffer(handle metadata.BufferHandle)
	CreateTexture(desc metadata.TextureDesc) (metadata.TextureHandle, error)
	DestroyTexture(handle metadata.TextureHandle)
	CreateSampler(desc metadata.SamplerDesc) (metadata.SamplerHandle, error)
	DestroySampler(handle metadata.SamplerHandle)
	CreateShader(stage metadata.ShaderStage, code []byte) (metadata.ShaderHandle, error)
	DestroyShader(handle metadata.ShaderHandle)
}

// TextureBinder is implemented by graphics devices that resolve engine
// resource IDs to their own texture objects, e.g. to emit layout transitions.
// The manager feeds it every ID-to-handle association it makes.
type TextureBinder interface {
	BindTexture(id ResourceID, handle metadata.TextureHandle)
	UnbindTexture(id ResourceID)
}

// ResourceManager allocates physical GPU resources through the graphics
// device, hands out registry IDs for them and retains their descriptions so
// the frame graph can look them up later.
type ResourceManager struct {
	device   GraphicsDevice
	registry *ResourceRegistry

	descs    map[ResourceID]metadata.ResourceDesc
	buffers  map[ResourceID]metadata.BufferHandle
	textures map[ResourceID]metadata.TextureHandle
	samplers map[ResourceID]metadata.SamplerHandle
	shaders  map[ResourceID]metadata.ShaderHandle
}

func NewResourceManager(device GraphicsDevice, registry *ResourceRegistry) *ResourceManager {
	return &ResourceManager{
		device:   device,
		registry: registry,
		descs:    make(map[ResourceID]metadata.ResourceDesc),
		buffers:  make(map[ResourceID]metadata.BufferHandle),
		textures: make(map[ResourceID]metadata.TextureHandle),
		samplers: make(map[ResourceID]metadata.SamplerHandle),
		shaders:  make(map[ResourceID]metadata.ShaderHandle),
	}
}

func (rm *ResourceManager) Registry() *ResourceRegistry {
	return rm.registry
}

// CreateTexture allocates a GPU texture and returns its resource ID.
func (rm *ResourceManager) CreateTexture(desc metadata.TextureDesc) (ResourceID, error) {
	handle, err := rm.device.CreateTexture(desc)
	if err != nil {
		return InvalidResourceID(), fmt.Errorf("failed to create texture: %w", err)
	}

	id := rm.registry.RegisterResource(metadata.ResourceTypeTexture)
	rm.textures[id] = handle
	rm.descs[id] = metadata.NewTextureResourceDesc(desc, metadata.ResourceStateUndefined, false)
	if binder, ok := rm.device.(TextureBinder); ok {
		binder.BindTexture(id, handle)
	}
	return id, nil
}

// CreateBuffer allocates a GPU buffer, optionally uploading initial data, and
// returns its resource ID.
func (rm *ResourceManager) CreateBuffer(desc metadata.BufferDesc, data []byte) (ResourceID, error) {
	if data != nil && uint64(len(data)) > desc.Size {
		return InvalidResourceID(), fmt.Errorf("buffer data (%d bytes) exceeds declared size (%d bytes)", len(data), desc.Size)
	}

	handle, err := rm.device.CreateBuffer(desc, data)
	if err != nil {
		return InvalidResourceID(), fmt.Errorf("failed to create buffer: %w", err)
	}

	id := rm.registry.RegisterResource(metadata.ResourceTypeBuffer)
	rm.registry.RegisterBuffer(id)
	rm.buffers[id] = handle
	rm.descs[id] = metadata.NewBufferResourceDesc(desc, metadata.ResourceStateUndefined, false)
	return id, nil
}

// CreateSampler allocates a texture sampler.
func (rm *ResourceManager) CreateSampler(desc metadata.SamplerDesc) (ResourceID, error) {
	handle, err := rm.device.CreateSampler(desc)
	if err != nil {
		return InvalidResourceID(), fmt.Errorf("failed to create sampler: %w", err)
	}

	id := rm.registry.RegisterResource(metadata.ResourceTypeUnknown)
	rm.samplers[id] = handle
	return id, nil
}

// CreateShader creates a shader module from compiled code.
func (rm *ResourceManager) CreateShader(stage metadata.ShaderStage, code []byte) (ResourceID, error) {
	handle, err := rm.device.CreateShader(stage, code)
	if err != nil {
		return InvalidResourceID(), fmt.Errorf("failed to create shader: %w", err)
	}

	id := rm.registry.RegisterResource(metadata.ResourceTypeUnknown)
	rm.shaders[id] = handle
	return id, nil
}

// RegisterExternal records a description for a resource created outside the
// manager, such as the swapchain image the context registers at startup.
func (rm *ResourceManager) RegisterExternal(id ResourceID, desc metadata.ResourceDesc) {
	rm.descs[id] = desc

	// External images are owned by the context; the back buffer sentinel lets
	// it substitute whatever image currently backs them.
	if desc.Type == metadata.ResourceTypeTexture || desc.Type == metadata.ResourceTypeRenderTarget {
		if binder, ok := rm.device.(TextureBinder); ok {
			binder.BindTexture(id, metadata.BackBufferHandle)
		}
	}
}

// GetResourceDesc returns the retained description for a resource, or false
// when the manager never saw the ID. Callers treat a miss as "skip", not as a
// failure.
func (rm *ResourceManager) GetResourceDesc(id ResourceID) (metadata.ResourceDesc, bool) {
	desc, ok := rm.descs[id]
	return desc, ok
}

func (rm *ResourceManager) TextureHandle(id ResourceID) (metadata.TextureHandle, bool) {
	handle, ok := rm.textures[id]
	return handle, ok
}

func (rm *ResourceManager) BufferHandle(id ResourceID) (metadata.BufferHandle, bool) {
	handle, ok := rm.buffers[id]
	return handle, ok
}

// Destroy frees the physical resource behind an ID and releases the ID back
// to the registry.
func (rm *ResourceManager) Destroy(id ResourceID) {
	if handle, ok := rm.textures[id]; ok {
		rm.device.DestroyTexture(handle)
		delete(rm.textures, id)
		if binder, ok := rm.device.(TextureBinder); ok {
			binder.UnbindTexture(id)
		}
	}
	if handle, ok := rm.buffers[id]; ok {
		rm.device.DestroyBuffer(handle)
		delete(rm.buffers, id)
	}
	if handle, ok := rm.samplers[id]; ok {
		rm.device.DestroySampler(handle)
		delete(rm.samplers, id)
	}
	if handle, ok := rm.shaders[id]; ok {
		rm.device.DestroyShader(handle)
		delete(rm.shaders, id)
	}
	delete(rm.descs, id)
	rm.registry.ReleaseResource(id)
}

// Shutdown frees every resource still owned by the manager.
func (rm *ResourceManager) Shutdown() {
	core.LogInfo("destroying %d textures, %d buffers, %d samplers, %d shaders",
		len(rm.textures), len(rm.buffers), len(rm.samplers), len(rm.shaders))

	for id, handle := range rm.textures {
		rm.device.DestroyTexture(handle)
		delete(rm.textures, id)
	}
	for id, handle := range rm.buffers {
		rm.device.DestroyBuffer(handle)
		delete(rm.buffers, id)
	}
	for id, handle := range rm.samplers {
		rm.device.DestroySampler(handle)
		delete(rm.samplers, id)
	}
	for id, handle := range rm.shaders {
		rm.device.DestroyShader(handle)
		delete(rm.shaders, id)
	}
	rm.descs = make(map[ResourceID]metadata.ResourceDesc)
}
