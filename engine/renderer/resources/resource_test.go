package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/vortex/engine/renderer/metadata"
)

func testTextureResource() *RenderResource {
	desc := metadata.NewTextureResourceDesc(metadata.TextureDesc{
		Width:  128,
		Height: 128,
		Format: metadata.FormatRGBA8Unorm,
	}, metadata.ResourceStateUndefined, false)
	return NewRenderResource(desc)
}

func TestRenderResourceDefaults(t *testing.T) {
	r := testTextureResource()

	assert.Equal(t, NoPass, r.Producer())
	assert.Empty(t, r.Consumers())
	assert.False(t, r.IsUsedThisFrame())
	assert.False(t, r.ResourceID().IsValid())
}

func TestSetProducerLastWins(t *testing.T) {
	r := testTextureResource()

	r.SetProducer(2)
	assert.Equal(t, 2, r.Producer())

	// A second writer takes over; the warning is advisory.
	r.SetProducer(5)
	assert.Equal(t, 5, r.Producer())
}

func TestAddConsumerDeduplicates(t *testing.T) {
	r := testTextureResource()

	r.AddConsumer(1)
	r.AddConsumer(3)
	r.AddConsumer(1)
	assert.Equal(t, []int{1, 3}, r.Consumers())

	// Negative indices are rejected.
	r.AddConsumer(-4)
	assert.Equal(t, []int{1, 3}, r.Consumers())
}

func TestBindlessRenderResource(t *testing.T) {
	r := NewBindlessRenderResource(metadata.ResourceTypeTexture, 7)

	assert.True(t, r.IsBindless())
	assert.Equal(t, uint32(7), r.BindlessIndex())
	// A bindless slot has no physical resource of its own.
	assert.False(t, r.ResourceID().IsValid())

	plain := testTextureResource()
	assert.False(t, plain.IsBindless())
	assert.Equal(t, InvalidIndex, plain.BindlessIndex())
}

func TestUsageLifecycle(t *testing.T) {
	r := testTextureResource()

	r.MarkUsed()
	assert.True(t, r.IsUsedThisFrame())

	r.ResetUsage()
	assert.False(t, r.IsUsedThisFrame())
}

func TestCloneIsIndependent(t *testing.T) {
	r := testTextureResource()
	r.SetName("albedo")
	r.SetProducer(1)
	r.AddConsumer(2)
	r.SetResourceID(NewResourceID(7, 3))

	clone := r.Clone()
	assert.Equal(t, r.Name(), clone.Name())
	assert.Equal(t, r.Producer(), clone.Producer())
	assert.Equal(t, r.Consumers(), clone.Consumers())
	assert.Equal(t, r.ResourceID(), clone.ResourceID())

	// Mutating the clone leaves the original untouched.
	clone.AddConsumer(9)
	clone.RemapProducer(4)
	assert.Equal(t, []int{2}, r.Consumers())
	assert.Equal(t, 1, r.Producer())

	if r.HasResourceDesc() && clone.HasResourceDesc() {
		assert.NotSame(t, r.ResourceDesc(), clone.ResourceDesc())
	}
}
