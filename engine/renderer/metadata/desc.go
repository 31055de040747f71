package metadata

// BufferDesc describes a GPU buffer for on-demand creation.
type BufferDesc struct {
	// Size of the buffer in bytes.
	Size uint64
	// Whether the CPU can directly map and access this buffer.
	HostVisible bool
	// Whether memory writes are automatically visible without a flush.
	HostCoherent bool
	// How this buffer will be used (vertex, index, uniform, storage, ...).
	Usage BufferUsageFlags
}

// TextureDesc describes a GPU texture for on-demand creation.
type TextureDesc struct {
	Width  uint32
	Height uint32
	// Depth in pixels (for 3D textures, 1 for 2D textures).
	Depth uint32
	// Number of mip levels (1 = no mipmaps).
	MipLevels uint32
	// Number of array layers (1 = not an array texture).
	ArrayLayers uint32
	Format      Format
	Usage       TextureUsageFlags
	CubeMap     bool
}

// RenderTargetDesc describes a frame-local render target.
type RenderTargetDesc struct {
	Width  uint32
	Height uint32
	Format Format
	// Whether to automatically clear this target when a render pass begins.
	// Helps avoiding undefined values from previous rendering.
	ClearOnLoad bool
	ClearColor  [4]float32
}

const (
	DefaultMaxTextures uint32 = 1024
	DefaultMaxBuffers  uint32 = 1024
	DefaultMaxSamplers uint32 = 1024
)

// BindlessTableDesc describes a bindless descriptor table. Higher limits
// consume more GPU memory but allow more resources.
type BindlessTableDesc struct {
	MaxTextures uint32
	MaxBuffers  uint32
	MaxSamplers uint32
	// Whether shaders can use non-constant indices.
	DynamicIndexing bool
}

func NewBindlessTableDesc() BindlessTableDesc {
	return BindlessTableDesc{
		MaxTextures:     DefaultMaxTextures,
		MaxBuffers:      DefaultMaxBuffers,
		MaxSamplers:     DefaultMaxSamplers,
		DynamicIndexing: true,
	}
}

// ResourceDesc is the full description of a named frame-graph resource.
// Exactly one of the per-kind descriptions is set, selected by Type.
type ResourceDesc struct {
	Type         ResourceType
	InitialState ResourceState
	// Transient resources exist only within one frame and may be aliased.
	Transient bool

	Buffer        *BufferDesc
	Texture       *TextureDesc
	RenderTarget  *RenderTargetDesc
	BindlessTable *BindlessTableDesc
}

func NewBufferResourceDesc(desc BufferDesc, state ResourceState, transient bool) ResourceDesc {
	return ResourceDesc{
		Type:         ResourceTypeBuffer,
		InitialState: state,
		Transient:    transient,
		Buffer:       &desc,
	}
}

func NewTextureResourceDesc(desc TextureDesc, state ResourceState, transient bool) ResourceDesc {
	return ResourceDesc{
		Type:         ResourceTypeTexture,
		InitialState: state,
		Transient:    transient,
		Texture:      &desc,
	}
}

func NewRenderTargetResourceDesc(desc RenderTargetDesc, state ResourceState, transient bool) ResourceDesc {
	return ResourceDesc{
		Type:         ResourceTypeRenderTarget,
		InitialState: state,
		Transient:    transient,
		RenderTarget: &desc,
	}
}

func NewBindlessTableResourceDesc(desc BindlessTableDesc) ResourceDesc {
	return ResourceDesc{
		Type:          ResourceTypeBindlessTable,
		InitialState:  ResourceStateGeneral,
		BindlessTable: &desc,
	}
}
