package framegraph

import (
	"golang.org/x/exp/slices"

	"github.com/spaghettifunk/vortex/engine/core"
	"github.com/spaghettifunk/vortex/engine/renderer/commands"
	"github.com/spaghettifunk/vortex/engine/renderer/metadata"
	"github.com/spaghettifunk/vortex/engine/renderer/resources"
)

// GraphicsContext is the part of the backend the frame graph drives while
// executing: resource state transitions and command batch submission.
type GraphicsContext interface {
	TransitionResource(id resources.ResourceID, oldState, newState metadata.ResourceState)
	ExecuteCommands(cmds []commands.RenderCommand)
}

// FrameGraph represents one frame's rendering work as a directed acyclic
// graph of passes and resources. It is rebuilt every frame: Compile culls
// passes whose results nobody consumes, Execute runs the survivors in
// declaration order with the required resource transitions in between.
//
// Passes live in an indexed arena; resources refer to their producer and
// consumers by arena index, so a graph can be cloned without rebinding.
type FrameGraph struct {
	passes    []RenderPass
	resources map[string]*resources.RenderResource
}

func New() *FrameGraph {
	return &FrameGraph{
		resources: make(map[string]*resources.RenderResource),
	}
}

// AddPass appends a pass to the arena and returns its index.
func (fg *FrameGraph) AddPass(pass RenderPass) int {
	fg.passes = append(fg.passes, pass)
	return len(fg.passes) - 1
}

// CreateResource registers a named resource from a description, replacing
// any previous resource under the same name.
func (fg *FrameGraph) CreateResource(name string, desc metadata.ResourceDesc) *resources.RenderResource {
	resource := resources.NewRenderResource(desc)
	resource.SetName(name)
	fg.resources[name] = resource
	return resource
}

// AddResource registers an already-built resource under a name, replacing
// any previous resource under the same name.
func (fg *FrameGraph) AddResource(name string, resource *resources.RenderResource) {
	resource.SetName(name)
	fg.resources[name] = resource
}

// GetResource returns the named resource, or nil when it was never declared.
// Callers treat nil as "skip this dependency edge".
func (fg *FrameGraph) GetResource(name string) *resources.RenderResource {
	return fg.resources[name]
}

// Passes returns the current pass arena. After Compile it contains only the
// surviving passes, in declaration order.
func (fg *FrameGraph) Passes() []RenderPass {
	return fg.passes
}

// Resources returns the resource map. Keys are resource names.
func (fg *FrameGraph) Resources() map[string]*resources.RenderResource {
	return fg.resources
}

// Compile analyzes the graph and eliminates dead work. A pass is live when
// one of its outputs escapes the frame (a non-transient resource such as the
// swapchain image) or when a live pass transitively consumes one of its
// outputs. Everything else is dropped before execution.
func (fg *FrameGraph) Compile() {
	for _, resource := range fg.resources {
		resource.ResetUsage()
	}

	passUsed := make([]bool, len(fg.passes))

	// Root marking: a pass writing any existing non-transient resource is
	// externally visible. The first such output settles it.
	for i := range fg.passes {
		for _, outputName := range fg.passes[i].Outputs() {
			resource := fg.GetResource(outputName)
			if resource != nil && !resource.IsTransient() {
				passUsed[i] = true
				resource.MarkUsed()
				break
			}
		}
	}

	// Backward reachability to a fixed point: the inputs of every live pass
	// keep their producing passes alive, through arbitrarily many hops.
	// Scanning in reverse declaration order converges quickly since
	// producers are normally declared before consumers.
	changed := true
	for changed {
		changed = false

		for i := len(fg.passes) - 1; i >= 0; i-- {
			if !passUsed[i] {
				continue
			}

			for _, inputName := range fg.passes[i].Inputs() {
				resource := fg.GetResource(inputName)
				if resource == nil || resource.IsUsedThisFrame() {
					continue
				}
				resource.MarkUsed()

				for j := range fg.passes {
					if slices.Contains(fg.passes[j].Outputs(), inputName) {
						if !passUsed[j] {
							passUsed[j] = true
							changed = true
						}
						break
					}
				}
			}
		}
	}

	// Sweep: keep live passes in declaration order and remap the
	// producer/consumer indices stored on resources to the new arena.
	remap := make([]int, len(fg.passes))
	usedPasses := make([]RenderPass, 0, len(fg.passes))
	for i := range fg.passes {
		if passUsed[i] {
			remap[i] = len(usedPasses)
			usedPasses = append(usedPasses, fg.passes[i])
		} else {
			remap[i] = resources.NoPass
			core.LogDebug("culled pass '%s'", fg.passes[i].Name())
		}
	}
	fg.passes = usedPasses

	for _, resource := range fg.resources {
		if producer := resource.Producer(); producer != resources.NoPass {
			if producer < 0 || producer >= len(remap) {
				core.LogWarn("resource '%s' references out-of-range producer pass %d, unlinking", resource.Name(), producer)
				resource.RemapProducer(resources.NoPass)
			} else {
				resource.RemapProducer(remap[producer])
			}
		}
		consumers := resource.Consumers()
		live := consumers[:0]
		for _, consumer := range consumers {
			if consumer < 0 || consumer >= len(remap) {
				core.LogWarn("resource '%s' references out-of-range consumer pass %d, dropping", resource.Name(), consumer)
				continue
			}
			if remap[consumer] != resources.NoPass {
				live = append(live, remap[consumer])
			}
		}
		resource.SetConsumers(live)
	}
}

// Execute runs every surviving pass in order. Before a pass runs, its inputs
// are transitioned to shader-read (skipped when already there) and its
// outputs unconditionally to shader-write; the pass's commands are then
// recorded into a scratch buffer and submitted as one batch. Resources
// without a physical binding are skipped.
func (fg *FrameGraph) Execute(ctx GraphicsContext) {
	commandBuffer := commands.NewRenderCommandBuffer()

	for i := range fg.passes {
		pass := &fg.passes[i]

		for _, inputName := range pass.Inputs() {
			resource := fg.GetResource(inputName)
			if resource == nil || !resource.ResourceID().IsValid() {
				continue
			}
			if resource.State() != metadata.ResourceStateShaderRead {
				ctx.TransitionResource(resource.ResourceID(), resource.State(), metadata.ResourceStateShaderRead)
				resource.SetState(metadata.ResourceStateShaderRead)
			}
		}

		for _, outputName := range pass.Outputs() {
			resource := fg.GetResource(outputName)
			if resource == nil || !resource.ResourceID().IsValid() {
				continue
			}
			ctx.TransitionResource(resource.ResourceID(), resource.State(), metadata.ResourceStateShaderWrite)
			resource.SetState(metadata.ResourceStateShaderWrite)
		}

		commandBuffer.Clear()
		pass.Execute(commandBuffer)

		if commandBuffer.Len() > 0 {
			ctx.ExecuteCommands(commandBuffer.Commands())
		}
	}
}

// Clone deep-copies the graph, for caching a compiled graph across frames.
// Producer/consumer links are arena indices, so the copy needs no pointer
// rebinding and shares no mutable state with the original.
func (fg *FrameGraph) Clone() *FrameGraph {
	clone := &FrameGraph{
		passes:    make([]RenderPass, 0, len(fg.passes)),
		resources: make(map[string]*resources.RenderResource, len(fg.resources)),
	}
	for i := range fg.passes {
		clone.passes = append(clone.passes, fg.passes[i].clone())
	}
	for name, resource := range fg.resources {
		clone.resources[name] = resource.Clone()
	}
	return clone
}
