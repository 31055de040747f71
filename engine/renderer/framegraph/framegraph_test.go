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

func transientTarget(width, height uint32) *resources.RenderResource {
	desc := metadata.NewRenderTargetResourceDesc(metadata.RenderTargetDesc{
		Width:  width,
		Height: height,
		Format: metadata.FormatRGBA8Unorm,
	}, metadata.ResourceStateUndefined, true)
	return resources.NewRenderResource(desc)
}

func externalTexture(index uint32) *resources.RenderResource {
	return resources.NewPhysicalRenderResource(
		metadata.ResourceTypeTexture,
		resources.NewResourceID(index, 1),
		metadata.ResourceStateUndefined,
	)
}

func passWriting(name string, outputs ...string) RenderPass {
	pass := NewRenderPass(name)
	for _, output := range outputs {
		pass.AddOutput(output)
	}
	return pass
}

func TestCompileCullsUnconsumedTransientPass(t *testing.T) {
	fg := New()
	fg.AddResource("swapchain", externalTexture(0))
	fg.AddResource("scratch", transientTarget(512, 512))

	fg.AddPass(passWriting("dead", "scratch"))
	fg.AddPass(passWriting("present", "swapchain"))

	fg.Compile()

	require.Len(t, fg.Passes(), 1)
	assert.Equal(t, "present", fg.Passes()[0].Name())
}

func TestCompileKeepsTransitiveChain(t *testing.T) {
	fg := New()
	fg.AddResource("swapchain", externalTexture(0))
	fg.AddResource("shadow", transientTarget(2048, 2048))
	fg.AddResource("lit", transientTarget(1280, 720))

	shadowPass := passWriting("shadow", "shadow")
	shadowIndex := fg.AddPass(shadowPass)
	fg.GetResource("shadow").SetProducer(shadowIndex)

	litPass := passWriting("lighting", "lit")
	litPass.AddInput("shadow")
	litIndex := fg.AddPass(litPass)
	fg.GetResource("lit").SetProducer(litIndex)
	fg.GetResource("shadow").AddConsumer(litIndex)

	composite := passWriting("composite", "swapchain")
	composite.AddInput("lit")
	compositeIndex := fg.AddPass(composite)
	fg.GetResource("swapchain").SetProducer(compositeIndex)
	fg.GetResource("lit").AddConsumer(compositeIndex)

	fg.Compile()

	// Only composite writes a non-transient resource, but its reads keep the
	// whole chain alive through two hops.
	require.Len(t, fg.Passes(), 3)
	assert.Equal(t, "shadow", fg.Passes()[0].Name())
	assert.Equal(t, "lighting", fg.Passes()[1].Name())
	assert.Equal(t, "composite", fg.Passes()[2].Name())
}

func TestCompileRemapsIndicesAfterCulling(t *testing.T) {
	fg := New()
	fg.AddResource("swapchain", externalTexture(0))
	fg.AddResource("scratch", transientTarget(256, 256))

	deadIndex := fg.AddPass(passWriting("dead", "scratch"))
	fg.GetResource("scratch").SetProducer(deadIndex)

	liveIndex := fg.AddPass(passWriting("present", "swapchain"))
	fg.GetResource("swapchain").SetProducer(liveIndex)
	fg.GetResource("scratch").AddConsumer(liveIndex)

	fg.Compile()

	require.Len(t, fg.Passes(), 1)

	// The surviving pass moved from slot 1 to slot 0; the culled producer is
	// severed entirely.
	assert.Equal(t, 0, fg.GetResource("swapchain").Producer())
	assert.Equal(t, resources.NoPass, fg.GetResource("scratch").Producer())
	assert.Equal(t, []int{0}, fg.GetResource("scratch").Consumers())
}

func TestCompileToleratesOutOfRangeLinks(t *testing.T) {
	fg := New()
	fg.AddResource("swapchain", externalTexture(0))
	fg.AddResource("scratch", transientTarget(64, 64))

	fg.AddPass(passWriting("present", "swapchain"))

	// Indices past the pass arena can reach the graph through the consumer
	// and producer setters; Compile must drop them instead of panicking.
	fg.GetResource("swapchain").AddConsumer(5)
	fg.GetResource("scratch").SetProducer(9)

	require.NotPanics(t, func() { fg.Compile() })

	require.Len(t, fg.Passes(), 1)
	assert.Empty(t, fg.GetResource("swapchain").Consumers())
	assert.Equal(t, resources.NoPass, fg.GetResource("scratch").Producer())
}

func TestExecuteTransitionsInputsAndOutputs(t *testing.T) {
	fg := New()
	fg.AddResource("shadow", externalTexture(1))
	fg.AddResource("swapchain", externalTexture(0))

	pass := passWriting("scene", "swapchain")
	pass.AddInput("shadow")
	pass.SetExecuteFunc(func(cb *commands.RenderCommandBuffer) {
		cb.SubmitClear(commands.ClearCommandData{Flags: commands.ClearFlagColor})
	})
	fg.AddPass(pass)

	ctx := stub.New()
	fg.Execute(ctx)

	require.Len(t, ctx.Transitions, 2)
	assert.Equal(t, metadata.ResourceStateShaderRead, ctx.Transitions[0].NewState)
	assert.Equal(t, resources.NewResourceID(1, 1), ctx.Transitions[0].ID)
	assert.Equal(t, metadata.ResourceStateShaderWrite, ctx.Transitions[1].NewState)
	assert.Equal(t, resources.NewResourceID(0, 1), ctx.Transitions[1].ID)

	require.Len(t, ctx.Batches, 1)
	assert.Equal(t, commands.CommandTypeClear, ctx.Batches[0][0].Type)
}

func TestExecuteSkipsRedundantReadTransition(t *testing.T) {
	fg := New()
	shadow := externalTexture(1)
	shadow.SetState(metadata.ResourceStateShaderRead)
	fg.AddResource("shadow", shadow)
	fg.AddResource("swapchain", externalTexture(0))

	first := passWriting("a", "swapchain")
	first.AddInput("shadow")
	fg.AddPass(first)

	second := passWriting("b", "swapchain")
	second.AddInput("shadow")
	fg.AddPass(second)

	ctx := stub.New()
	fg.Execute(ctx)

	// Both passes read "shadow" but it is already in shader-read, so only the
	// two output transitions are issued.
	require.Len(t, ctx.Transitions, 2)
	for _, transition := range ctx.Transitions {
		assert.Equal(t, metadata.ResourceStateShaderWrite, transition.NewState)
	}
}

func TestExecuteTransitionsOutputsUnconditionally(t *testing.T) {
	fg := New()
	target := externalTexture(0)
	target.SetState(metadata.ResourceStateShaderWrite)
	fg.AddResource("swapchain", target)

	fg.AddPass(passWriting("a", "swapchain"))
	fg.AddPass(passWriting("b", "swapchain"))

	ctx := stub.New()
	fg.Execute(ctx)

	// Writes always transition, even write-after-write.
	require.Len(t, ctx.Transitions, 2)
}

func TestExecuteSkipsUnboundResources(t *testing.T) {
	fg := New()
	fg.AddResource("scratch", transientTarget(128, 128))

	pass := passWriting("p", "scratch")
	pass.AddInput("missing")
	fg.AddPass(pass)

	ctx := stub.New()
	fg.Execute(ctx)

	assert.Empty(t, ctx.Transitions)
	assert.Empty(t, ctx.Batches)
}

func TestExecuteSubmitsOneBatchPerPass(t *testing.T) {
	fg := New()
	fg.AddResource("swapchain", externalTexture(0))

	for i := 0; i < 3; i++ {
		pass := passWriting("p", "swapchain")
		pass.SetExecuteFunc(func(cb *commands.RenderCommandBuffer) {
			cb.SubmitClear(commands.ClearCommandData{Flags: commands.ClearFlagColor})
			cb.SubmitViewport(commands.ViewportCommandData{Width: 640, Height: 480})
		})
		fg.AddPass(pass)
	}

	ctx := stub.New()
	fg.Execute(ctx)

	require.Len(t, ctx.Batches, 3)
	for _, batch := range ctx.Batches {
		assert.Len(t, batch, 2)
	}
}

func TestCloneSharesNoMutableState(t *testing.T) {
	fg := New()
	fg.AddResource("swapchain", externalTexture(0))
	index := fg.AddPass(passWriting("present", "swapchain"))
	fg.GetResource("swapchain").SetProducer(index)

	clone := fg.Clone()
	clone.GetResource("swapchain").RemapProducer(resources.NoPass)
	clone.AddPass(passWriting("extra", "swapchain"))

	assert.Equal(t, index, fg.GetResource("swapchain").Producer())
	assert.Len(t, fg.Passes(), 1)
	assert.Len(t, clone.Passes(), 2)
}
