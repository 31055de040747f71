package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/vortex/engine/renderer/commands"
	"github.com/spaghettifunk/vortex/engine/renderer/framegraph"
	"github.com/spaghettifunk/vortex/engine/renderer/metadata"
	"github.com/spaghettifunk/vortex/engine/renderer/stub"
)

func newTestRenderer(t *testing.T) (*Renderer, *stub.Context) {
	t.Helper()
	ctx := stub.New()
	r := New(ctx)
	require.NoError(t, r.Initialize("test", 1280, 720))
	return r, ctx
}

func TestInitializeRegistersSwapchain(t *testing.T) {
	r, _ := newTestRenderer(t)

	id := r.SwapchainID()
	assert.True(t, id.IsValid())
	assert.Equal(t, metadata.ResourceTypeTexture, r.Registry().GetResourceType(id))

	desc, ok := r.ResourceManager().GetResourceDesc(id)
	require.True(t, ok)
	assert.False(t, desc.Transient)
	require.NotNil(t, desc.Texture)
	assert.Equal(t, uint32(1280), desc.Texture.Width)
}

func TestBeginFrameCreatesGraphWithSwapchainRoot(t *testing.T) {
	r, ctx := newTestRenderer(t)

	require.NoError(t, r.BeginFrame())
	assert.Equal(t, 1, ctx.FrameBegun)

	builder := r.CreateFrameGraphBuilder()
	fg := builder.Build()

	resource := fg.GetResource(SwapchainResourceName)
	require.NotNil(t, resource)
	assert.Equal(t, r.SwapchainID(), resource.ResourceID())
	assert.False(t, resource.IsTransient())
}

func TestFullFrameFlow(t *testing.T) {
	r, ctx := newTestRenderer(t)

	require.NoError(t, r.BeginFrame())

	builder := r.CreateFrameGraphBuilder()
	framegraph.AddPass(builder, "clear",
		func(pb *framegraph.PassBuilder) struct{} {
			pb.Write(SwapchainResourceName)
			return struct{}{}
		},
		func(_ struct{}, cb *commands.RenderCommandBuffer) {
			cb.SubmitClear(commands.ClearCommandData{Flags: commands.ClearFlagColor})
		})

	fg := builder.Build()
	require.Len(t, fg.Passes(), 1)

	r.ExecuteFrameGraph(fg)
	require.NoError(t, r.EndFrame())

	assert.Equal(t, 1, ctx.FrameEnded)
	require.Len(t, ctx.Batches, 1)
	assert.Equal(t, commands.CommandTypeClear, ctx.Batches[0][0].Type)

	// The swapchain write produced a transition to shader-write.
	require.NotEmpty(t, ctx.Transitions)
	assert.Equal(t, metadata.ResourceStateShaderWrite, ctx.Transitions[0].NewState)
	assert.Equal(t, r.SwapchainID(), ctx.Transitions[0].ID)
}

func TestCulledPassesSubmitNothing(t *testing.T) {
	r, ctx := newTestRenderer(t)

	require.NoError(t, r.BeginFrame())

	builder := r.CreateFrameGraphBuilder()
	builder.CreateRenderTarget("scratch", metadata.RenderTargetDesc{Width: 256, Height: 256})
	framegraph.AddPass(builder, "offscreen",
		func(pb *framegraph.PassBuilder) struct{} {
			pb.Write("scratch")
			return struct{}{}
		},
		func(_ struct{}, cb *commands.RenderCommandBuffer) {
			cb.SubmitClear(commands.ClearCommandData{Flags: commands.ClearFlagColor})
		})

	fg := builder.Build()
	r.ExecuteFrameGraph(fg)
	require.NoError(t, r.EndFrame())

	assert.Empty(t, ctx.Batches)
}

func TestOnResizeForwardsToContext(t *testing.T) {
	r, ctx := newTestRenderer(t)

	require.NoError(t, r.OnResize(1920, 1080))
	assert.Equal(t, 1, ctx.ResizeCalls)

	width, height := ctx.GetViewportDimensions()
	assert.Equal(t, uint32(1920), width)
	assert.Equal(t, uint32(1080), height)
}
