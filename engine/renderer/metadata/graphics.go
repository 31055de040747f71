package metadata

// Format is the pixel format of a texture or render target.
type Format uint8

const (
	FormatUnknown Format = iota

	FormatR8Unorm
	FormatR8Snorm
	FormatR8Uint
	FormatR8Sint

	FormatRG8Unorm
	FormatRG8Snorm
	FormatRG8Uint
	FormatRG8Sint

	FormatRGBA8Unorm
	FormatRGBA8Snorm
	FormatRGBA8Uint
	FormatRGBA8Sint
	FormatRGBA8SRGB

	FormatBGRA8Unorm
	FormatBGRA8SRGB

	FormatR16Float
	FormatR16Uint
	FormatR16Sint

	FormatRG16Float
	FormatRG16Uint
	FormatRG16Sint

	FormatRGBA16Float
	FormatRGBA16Uint
	FormatRGBA16Sint

	FormatR32Float
	FormatR32Uint
	FormatR32Sint

	FormatRG32Float
	FormatRGBA32Float

	FormatD16Unorm
	FormatD32Float
	FormatD24UnormS8Uint
)

// ResourceType identifies what kind of resource a handle refers to.
type ResourceType uint8

const (
	ResourceTypeUnknown ResourceType = iota
	ResourceTypeBuffer
	ResourceTypeVertexBuffer
	ResourceTypeIndexBuffer
	ResourceTypeUniformBuffer
	ResourceTypeStorageBuffer
	ResourceTypeTexture
	ResourceTypeRenderTarget
	ResourceTypeDepthStencil
	ResourceTypeBindlessTable
	ResourceTypeMesh
	ResourceTypeMaterial
	ResourceTypeModel
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeBuffer:
		return "buffer"
	case ResourceTypeVertexBuffer:
		return "vertex_buffer"
	case ResourceTypeIndexBuffer:
		return "index_buffer"
	case ResourceTypeUniformBuffer:
		return "uniform_buffer"
	case ResourceTypeStorageBuffer:
		return "storage_buffer"
	case ResourceTypeTexture:
		return "texture"
	case ResourceTypeRenderTarget:
		return "render_target"
	case ResourceTypeDepthStencil:
		return "depth_stencil"
	case ResourceTypeBindlessTable:
		return "bindless_table"
	case ResourceTypeMesh:
		return "mesh"
	case ResourceTypeMaterial:
		return "material"
	case ResourceTypeModel:
		return "model"
	default:
		return "unknown"
	}
}

// ResourceState is the current GPU synchronization/access mode of a resource.
// It is used to decide whether a barrier/transition must be emitted before a
// pass touches the resource.
type ResourceState uint8

const (
	ResourceStateUndefined ResourceState = iota
	// General state, usable for every operation.
	ResourceStateGeneral

	ResourceStateVertexBuffer
	ResourceStateIndexBuffer
	ResourceStateConstantBuffer
	ResourceStateIndirectBuffer
	ResourceStateShaderResource
	ResourceStateUnorderedAccess

	ResourceStateRenderTarget
	ResourceStateDepthStencilRead
	ResourceStateDepthStencilWrite
	ResourceStateShaderRead
	ResourceStateShaderWrite

	ResourceStateCopySource
	ResourceStateCopyDestination

	ResourceStatePresent
)

func (s ResourceState) String() string {
	switch s {
	case ResourceStateGeneral:
		return "general"
	case ResourceStateVertexBuffer:
		return "vertex_buffer"
	case ResourceStateIndexBuffer:
		return "index_buffer"
	case ResourceStateConstantBuffer:
		return "constant_buffer"
	case ResourceStateIndirectBuffer:
		return "indirect_buffer"
	case ResourceStateShaderResource:
		return "shader_resource"
	case ResourceStateUnorderedAccess:
		return "unordered_access"
	case ResourceStateRenderTarget:
		return "render_target"
	case ResourceStateDepthStencilRead:
		return "depth_stencil_read"
	case ResourceStateDepthStencilWrite:
		return "depth_stencil_write"
	case ResourceStateShaderRead:
		return "shader_read"
	case ResourceStateShaderWrite:
		return "shader_write"
	case ResourceStateCopySource:
		return "copy_source"
	case ResourceStateCopyDestination:
		return "copy_destination"
	case ResourceStatePresent:
		return "present"
	default:
		return "undefined"
	}
}

// BufferUsageFlags describe how a buffer will be used. Combine with bitwise OR.
type BufferUsageFlags uint8

const (
	BufferUsageNone          BufferUsageFlags = 0
	BufferUsageVertexBuffer  BufferUsageFlags = 1 << 0
	BufferUsageIndexBuffer   BufferUsageFlags = 1 << 1
	BufferUsageUniformBuffer BufferUsageFlags = 1 << 2
	BufferUsageStorageBuffer BufferUsageFlags = 1 << 3
	BufferUsageIndirect      BufferUsageFlags = 1 << 4
	BufferUsageTransferSrc   BufferUsageFlags = 1 << 5
	BufferUsageTransferDst   BufferUsageFlags = 1 << 6
)

// TextureUsageFlags describe how a texture can be used by the GPU.
type TextureUsageFlags uint8

const (
	TextureUsageNone            TextureUsageFlags = 0
	TextureUsageSampled         TextureUsageFlags = 1 << 0
	TextureUsageStorage         TextureUsageFlags = 1 << 1
	TextureUsageColorAttachment TextureUsageFlags = 1 << 2
	TextureUsageDepthStencil    TextureUsageFlags = 1 << 3
	TextureUsageTransferSrc     TextureUsageFlags = 1 << 4
	TextureUsageTransferDst     TextureUsageFlags = 1 << 5
)

// ShaderStage identifies a single shader stage for module creation.
type ShaderStage uint8

const (
	ShaderStageVertex ShaderStage = iota
	ShaderStageFragment
	ShaderStageCompute
	ShaderStageGeometry
)

// Opaque backend handles. The graphics context owns the mapping between
// these and the underlying API objects.
type (
	BufferHandle  uint64
	TextureHandle uint64
	SamplerHandle uint64
	ShaderHandle  uint64
)

// BackBufferHandle stands in for whatever image currently backs the
// swapchain. Backends allocate real handles starting at 1.
const BackBufferHandle TextureHandle = 0
