package resources

import (
	"sync"
	"sync/atomic"

	"github.com/spaghettifunk/vortex/engine/core"
	"github.com/spaghettifunk/vortex/engine/math"
	"github.com/spaghettifunk/vortex/engine/renderer/metadata"
)

// MeshData is the CPU-side geometry associated with a mesh resource.
type MeshData struct {
	Positions []float32
	Normals   []float32
	TexCoords []float32
	Tangents  []float32
	Colors    []float32

	Indices []uint32

	VertexCount uint32
	IndexCount  uint32
	HasIndices  bool

	DefaultMaterial ResourceID
}

const (
	DefaultRoughness float32 = 0.5
	DefaultMetallic  float32 = 0.0
	DefaultSpecular  float32 = 0.5
	DefaultIOR       float32 = 1.45
)

// MaterialData is the CPU-side description of a material resource.
type MaterialData struct {
	BaseColor math.Vec4

	Roughness float32
	Metallic  float32
	Specular  float32
	IOR       float32

	Emission      float32
	EmissionColor math.Vec3

	AlbedoMap    ResourceID
	NormalMap    ResourceID
	RoughnessMap ResourceID
	MetallicMap  ResourceID

	AlphaBlend  bool
	AlphaCutoff float32

	ShaderProgram ResourceID
	RenderQueue   uint32
}

func NewMaterialData() MaterialData {
	return MaterialData{
		BaseColor:     math.NewVec4(1.0, 1.0, 1.0, 1.0),
		Roughness:     DefaultRoughness,
		Metallic:      DefaultMetallic,
		Specular:      DefaultSpecular,
		IOR:           DefaultIOR,
		EmissionColor: math.Vec3{X: 1.0, Y: 1.0, Z: 1.0},
		AlbedoMap:     InvalidResourceID(),
		NormalMap:     InvalidResourceID(),
		RoughnessMap:  InvalidResourceID(),
		MetallicMap:   InvalidResourceID(),
		AlphaCutoff:   0.5,
		ShaderProgram: InvalidResourceID(),
		RenderQueue:   2000,
	}
}

// TextureData is the CPU-side description of a texture resource.
type TextureData struct {
	Width       uint32
	Height      uint32
	Depth       uint32
	MipLevels   uint32
	ArrayLayers uint32

	Format metadata.Format
	Pixels []uint8

	GenerateMipMaps bool
	SRGB            bool
	CubeMap         bool

	SourcePath string
}

// ResourceRegistry hands out generation-counted resource identifiers and
// records CPU-side data for meshes, materials, textures and buffers.
//
// The ID counter is owned by the registry instance rather than being a
// process-wide global, so tests can create fresh registries with
// deterministic IDs. Released indices are recycled through a free list and
// every reuse bumps the slot's generation, which keeps stale handles invalid.
type ResourceRegistry struct {
	counter atomic.Uint32

	mutex       sync.Mutex
	freeIndices []uint32
	generations map[uint32]uint32

	meshes    []MeshData
	materials []MaterialData
	textures  []TextureData

	meshIndices     map[ResourceID]uint32
	materialIndices map[ResourceID]uint32
	textureIndices  map[ResourceID]uint32
	bufferIndices   map[ResourceID]uint32

	resourceTypes map[ResourceID]metadata.ResourceType
}

func NewResourceRegistry() *ResourceRegistry {
	return &ResourceRegistry{
		generations:     make(map[uint32]uint32),
		meshIndices:     make(map[ResourceID]uint32),
		materialIndices: make(map[ResourceID]uint32),
		textureIndices:  make(map[ResourceID]uint32),
		bufferIndices:   make(map[ResourceID]uint32),
		resourceTypes:   make(map[ResourceID]metadata.ResourceType),
	}
}

// RegisterResource allocates a new resource ID of the given type. A fresh
// index starts at generation 1; a recycled index comes back with its
// generation bumped so handles to the previous occupant no longer match.
func (rr *ResourceRegistry) RegisterResource(rtype metadata.ResourceType) ResourceID {
	var id ResourceID

	rr.mutex.Lock()
	if n := len(rr.freeIndices); n > 0 {
		index := rr.freeIndices[n-1]
		rr.freeIndices = rr.freeIndices[:n-1]
		rr.generations[index]++
		id = NewResourceID(index, rr.generations[index])
	} else {
		index := rr.counter.Add(1) - 1
		rr.generations[index] = 1
		id = NewResourceID(index, 1)
	}
	rr.resourceTypes[id] = rtype
	rr.mutex.Unlock()

	core.LogDebug("registered resource %s of type %s", id.String(), rtype.String())
	return id
}

// ReleaseResource returns an ID's index to the free list. The handle itself
// becomes stale: looking it up afterwards yields ResourceTypeUnknown.
func (rr *ResourceRegistry) ReleaseResource(id ResourceID) {
	if !id.IsValid() {
		core.LogWarn("attempted to release an invalid resource ID")
		return
	}

	rr.mutex.Lock()
	defer rr.mutex.Unlock()

	if _, exists := rr.resourceTypes[id]; !exists {
		core.LogWarn("attempted to release unknown resource %s", id.String())
		return
	}

	delete(rr.resourceTypes, id)
	delete(rr.meshIndices, id)
	delete(rr.materialIndices, id)
	delete(rr.textureIndices, id)
	delete(rr.bufferIndices, id)
	rr.freeIndices = append(rr.freeIndices, id.Index)
}

// RegisterMesh stores mesh data for an already-registered ID and returns the
// index of the stored record.
func (rr *ResourceRegistry) RegisterMesh(id ResourceID, data MeshData) uint32 {
	rr.mutex.Lock()
	defer rr.mutex.Unlock()

	rr.meshes = append(rr.meshes, data)
	index := uint32(len(rr.meshes) - 1)
	rr.meshIndices[id] = index
	rr.resourceTypes[id] = metadata.ResourceTypeMesh
	return index
}

func (rr *ResourceRegistry) RegisterMaterial(id ResourceID, data MaterialData) uint32 {
	rr.mutex.Lock()
	defer rr.mutex.Unlock()

	rr.materials = append(rr.materials, data)
	index := uint32(len(rr.materials) - 1)
	rr.materialIndices[id] = index
	rr.resourceTypes[id] = metadata.ResourceTypeMaterial
	return index
}

func (rr *ResourceRegistry) RegisterTexture(id ResourceID, data TextureData) uint32 {
	rr.mutex.Lock()
	defer rr.mutex.Unlock()

	rr.textures = append(rr.textures, data)
	index := uint32(len(rr.textures) - 1)
	rr.textureIndices[id] = index
	rr.resourceTypes[id] = metadata.ResourceTypeTexture
	return index
}

// RegisterBuffer records a buffer ID. No CPU-side data is retained for
// buffers; only the type mapping and a stable index.
func (rr *ResourceRegistry) RegisterBuffer(id ResourceID) uint32 {
	rr.mutex.Lock()
	defer rr.mutex.Unlock()

	index := uint32(len(rr.bufferIndices))
	rr.bufferIndices[id] = index
	rr.resourceTypes[id] = metadata.ResourceTypeBuffer
	return index
}

func (rr *ResourceRegistry) IndexForMesh(id ResourceID) (uint32, bool) {
	rr.mutex.Lock()
	defer rr.mutex.Unlock()
	index, ok := rr.meshIndices[id]
	return index, ok
}

func (rr *ResourceRegistry) IndexForMaterial(id ResourceID) (uint32, bool) {
	rr.mutex.Lock()
	defer rr.mutex.Unlock()
	index, ok := rr.materialIndices[id]
	return index, ok
}

func (rr *ResourceRegistry) IndexForTexture(id ResourceID) (uint32, bool) {
	rr.mutex.Lock()
	defer rr.mutex.Unlock()
	index, ok := rr.textureIndices[id]
	return index, ok
}

// GetResourceType determines the resource type associated with a given ID,
// or ResourceTypeUnknown if the handle is stale or was never registered.
func (rr *ResourceRegistry) GetResourceType(id ResourceID) metadata.ResourceType {
	rr.mutex.Lock()
	defer rr.mutex.Unlock()

	if rtype, ok := rr.resourceTypes[id]; ok {
		return rtype
	}
	return metadata.ResourceTypeUnknown
}

func (rr *ResourceRegistry) Mesh(id ResourceID) (MeshData, bool) {
	rr.mutex.Lock()
	defer rr.mutex.Unlock()

	index, ok := rr.meshIndices[id]
	if !ok {
		return MeshData{}, false
	}
	return rr.meshes[index], true
}

func (rr *ResourceRegistry) Material(id ResourceID) (MaterialData, bool) {
	rr.mutex.Lock()
	defer rr.mutex.Unlock()

	index, ok := rr.materialIndices[id]
	if !ok {
		return MaterialData{}, false
	}
	return rr.materials[index], true
}
