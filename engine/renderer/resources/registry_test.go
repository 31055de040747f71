package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/vortex/engine/renderer/metadata"
)

func TestRegisterResourceAssignsFreshIDs(t *testing.T) {
	registry := NewResourceRegistry()

	first := registry.RegisterResource(metadata.ResourceTypeTexture)
	second := registry.RegisterResource(metadata.ResourceTypeBuffer)

	assert.True(t, first.IsValid())
	assert.True(t, second.IsValid())
	assert.NotEqual(t, first, second)
	assert.Equal(t, uint32(1), first.Generation)

	assert.Equal(t, metadata.ResourceTypeTexture, registry.GetResourceType(first))
	assert.Equal(t, metadata.ResourceTypeBuffer, registry.GetResourceType(second))
}

func TestReleaseRecyclesIndexWithNewGeneration(t *testing.T) {
	registry := NewResourceRegistry()

	stale := registry.RegisterResource(metadata.ResourceTypeTexture)
	registry.ReleaseResource(stale)

	fresh := registry.RegisterResource(metadata.ResourceTypeBuffer)

	// Same slot, newer generation: the stale handle must not resolve.
	assert.Equal(t, stale.Index, fresh.Index)
	assert.Equal(t, stale.Generation+1, fresh.Generation)
	assert.Equal(t, metadata.ResourceTypeUnknown, registry.GetResourceType(stale))
	assert.Equal(t, metadata.ResourceTypeBuffer, registry.GetResourceType(fresh))
}

func TestReleaseUnknownIDIsHarmless(t *testing.T) {
	registry := NewResourceRegistry()

	registry.ReleaseResource(InvalidResourceID())
	registry.ReleaseResource(NewResourceID(42, 1))

	id := registry.RegisterResource(metadata.ResourceTypeMesh)
	assert.True(t, id.IsValid())
}

func TestRegisterMeshAndLookup(t *testing.T) {
	registry := NewResourceRegistry()

	id := registry.RegisterResource(metadata.ResourceTypeMesh)
	index := registry.RegisterMesh(id, MeshData{
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:   []uint32{0, 1, 2},
	})

	gotIndex, ok := registry.IndexForMesh(id)
	require.True(t, ok)
	assert.Equal(t, index, gotIndex)

	mesh, ok := registry.Mesh(id)
	require.True(t, ok)
	assert.Len(t, mesh.Indices, 3)

	// A stale handle to the same slot sees nothing.
	registry.ReleaseResource(id)
	_, ok = registry.Mesh(id)
	assert.False(t, ok)
}

func TestRegisterMaterialDefaults(t *testing.T) {
	registry := NewResourceRegistry()

	id := registry.RegisterResource(metadata.ResourceTypeMaterial)
	registry.RegisterMaterial(id, NewMaterialData())

	material, ok := registry.Material(id)
	require.True(t, ok)
	assert.InDelta(t, 1.0, material.BaseColor.W, 1e-6)
}
