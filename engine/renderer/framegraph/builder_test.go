package framegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/vortex/engine/renderer/commands"
	"github.com/spaghettifunk/vortex/engine/renderer/metadata"
	"github.com/spaghettifunk/vortex/engine/renderer/resources"
	"github.com/spaghettifunk/vortex/engine/renderer/stub"
)

func newTestBuilder() (*Builder, *resources.ResourceManager) {
	registry := resources.NewResourceRegistry()
	manager := resources.NewResourceManager(stub.New(), registry)
	return NewBuilder(New(), registry, manager), manager
}

func TestAddPassSetupRunsImmediately(t *testing.T) {
	builder, _ := newTestBuilder()

	setupRan := false
	executeRan := false

	AddPass(builder, "probe",
		func(pb *PassBuilder) int {
			setupRan = true
			pb.Write("target")
			return 42
		},
		func(data int, cb *commands.RenderCommandBuffer) {
			executeRan = true
			assert.Equal(t, 42, data)
			cb.SubmitClear(commands.ClearCommandData{Flags: commands.ClearFlagColor})
		})

	assert.True(t, setupRan)
	assert.False(t, executeRan, "execute must be deferred until the graph runs")

	// The execute closure sees the data the setup returned.
	builder.CreateRenderTarget("target", metadata.RenderTargetDesc{Width: 64, Height: 64})
	fg := builder.Build()
	require.Len(t, fg.Passes(), 0, "transient-only pass with no consumers is culled")
	assert.False(t, executeRan)
}

func TestBuildWiresProducerAndConsumers(t *testing.T) {
	builder, manager := newTestBuilder()

	id, err := manager.CreateTexture(metadata.TextureDesc{Width: 32, Height: 32, Format: metadata.FormatRGBA8Unorm})
	require.NoError(t, err)
	builder.ImportResource("backbuffer", id)
	builder.CreateRenderTarget("shadow", metadata.RenderTargetDesc{Width: 1024, Height: 1024})

	AddPass(builder, "shadow",
		func(pb *PassBuilder) struct{} {
			pb.Write("shadow")
			return struct{}{}
		},
		func(_ struct{}, cb *commands.RenderCommandBuffer) {})

	AddPass(builder, "scene",
		func(pb *PassBuilder) struct{} {
			pb.Read("shadow")
			pb.Write("backbuffer")
			return struct{}{}
		},
		func(_ struct{}, cb *commands.RenderCommandBuffer) {})

	fg := builder.Build()

	require.Len(t, fg.Passes(), 2)
	assert.Equal(t, 0, fg.GetResource("shadow").Producer())
	assert.Equal(t, []int{1}, fg.GetResource("shadow").Consumers())
	assert.Equal(t, 1, fg.GetResource("backbuffer").Producer())
}

func TestBuildCullsUnreadTransientPass(t *testing.T) {
	builder, manager := newTestBuilder()

	id, err := manager.CreateTexture(metadata.TextureDesc{Width: 32, Height: 32, Format: metadata.FormatRGBA8Unorm})
	require.NoError(t, err)
	builder.ImportResource("backbuffer", id)
	builder.CreateRenderTarget("debris", metadata.RenderTargetDesc{Width: 128, Height: 128})

	AddPass(builder, "debris",
		func(pb *PassBuilder) struct{} {
			pb.Write("debris")
			return struct{}{}
		},
		func(_ struct{}, cb *commands.RenderCommandBuffer) {})

	AddPass(builder, "present",
		func(pb *PassBuilder) struct{} {
			pb.Write("backbuffer")
			return struct{}{}
		},
		func(_ struct{}, cb *commands.RenderCommandBuffer) {})

	fg := builder.Build()

	require.Len(t, fg.Passes(), 1)
	assert.Equal(t, "present", fg.Passes()[0].Name())
}

func TestCreateRenderTargetGeneratesUniqueNames(t *testing.T) {
	builder, _ := newTestBuilder()

	first := builder.CreateRenderTarget("", metadata.RenderTargetDesc{Width: 64, Height: 64})
	second := builder.CreateRenderTarget("", metadata.RenderTargetDesc{Width: 64, Height: 64})

	assert.NotEmpty(t, first)
	assert.NotEmpty(t, second)
	assert.NotEqual(t, first, second)
}

func TestCreateTextureRegistersPhysicalResource(t *testing.T) {
	builder, manager := newTestBuilder()

	name, err := builder.CreateTexture("albedo", metadata.TextureDesc{Width: 256, Height: 256, Format: metadata.FormatRGBA8Unorm})
	require.NoError(t, err)
	assert.Equal(t, "albedo", name)

	fg := builder.Build()
	resource := fg.GetResource("albedo")
	require.NotNil(t, resource)
	assert.True(t, resource.ResourceID().IsValid())
	assert.False(t, resource.IsTransient())

	_, ok := manager.TextureHandle(resource.ResourceID())
	assert.True(t, ok)
}

func TestImportResourceFallsBackToRegistryType(t *testing.T) {
	builder, _ := newTestBuilder()
	registry := builder.registry

	// Registered in the registry but never described to the manager, e.g. a
	// resource owned entirely by the backend.
	id := registry.RegisterResource(metadata.ResourceTypeTexture)
	builder.ImportResource("external", id)

	fg := builder.Build()
	resource := fg.GetResource("external")
	require.NotNil(t, resource)
	assert.Equal(t, metadata.ResourceTypeTexture, resource.Type())
	assert.Equal(t, id, resource.ResourceID())
	assert.False(t, resource.IsTransient())
}

func TestImportResourcePrefersManagerDesc(t *testing.T) {
	builder, manager := newTestBuilder()

	id, err := manager.CreateTexture(metadata.TextureDesc{Width: 512, Height: 512, Format: metadata.FormatBGRA8Unorm})
	require.NoError(t, err)
	builder.ImportResource("swapchain", id)

	fg := builder.Build()
	resource := fg.GetResource("swapchain")
	require.NotNil(t, resource)
	require.True(t, resource.HasResourceDesc())
	assert.Equal(t, uint32(512), resource.ResourceDesc().Texture.Width)
}
