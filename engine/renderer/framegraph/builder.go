package framegraph

import (
	"github.com/google/uuid"

	"github.com/spaghettifunk/vortex/engine/core"
	"github.com/spaghettifunk/vortex/engine/renderer/commands"
	"github.com/spaghettifunk/vortex/engine/renderer/metadata"
	"github.com/spaghettifunk/vortex/engine/renderer/resources"
)

type passEntry struct {
	name        string
	executeFunc ExecuteFunc
	inputs      []string
	outputs     []string
}

// Builder accumulates pass declarations and resource creation/import
// requests for one frame, then materializes them into a FrameGraph. It is a
// single-use throwaway: declare, Build, discard.
type Builder struct {
	framegraph *FrameGraph
	registry   *resources.ResourceRegistry
	manager    *resources.ResourceManager

	passes         []passEntry
	localResources map[string]*resources.RenderResource
}

func NewBuilder(fg *FrameGraph, registry *resources.ResourceRegistry, manager *resources.ResourceManager) *Builder {
	return &Builder{
		framegraph:     fg,
		registry:       registry,
		manager:        manager,
		localResources: make(map[string]*resources.RenderResource),
	}
}

// AddPass declares a render pass. The setup function runs immediately with a
// fresh PassBuilder: it declares the pass's reads/writes and returns the
// pass-local data the execute function will need. Setup must not touch GPU
// state; the execute function runs later, during FrameGraph.Execute, with
// the captured data.
//
// This is a package-level function because Go methods cannot introduce type
// parameters.
func AddPass[S any](b *Builder, name string, setup func(*PassBuilder) S, execute func(S, *commands.RenderCommandBuffer)) {
	passBuilder := &PassBuilder{}
	passData := setup(passBuilder)

	executeFunc := func(cmdBuffer *commands.RenderCommandBuffer) {
		execute(passData, cmdBuffer)
	}

	b.passes = append(b.passes, passEntry{
		name:        name,
		executeFunc: executeFunc,
		inputs:      passBuilder.Inputs(),
		outputs:     passBuilder.Outputs(),
	})
}

// CreateTexture allocates a GPU texture through the resource manager and
// registers it under the given name. The texture outlives the frame, so it
// is not transient.
func (b *Builder) CreateTexture(name string, desc metadata.TextureDesc) (string, error) {
	id, err := b.manager.CreateTexture(desc)
	if err != nil {
		return "", err
	}

	resource := resources.NewRenderResource(metadata.NewTextureResourceDesc(desc, metadata.ResourceStateUndefined, false))
	resource.SetResourceID(id)
	b.localResources[name] = resource

	return name, nil
}

// CreateBuffer allocates a GPU buffer through the resource manager and
// registers it under the given name, symmetrically with CreateTexture.
func (b *Builder) CreateBuffer(name string, desc metadata.BufferDesc) (string, error) {
	id, err := b.manager.CreateBuffer(desc, nil)
	if err != nil {
		return "", err
	}

	resource := resources.NewRenderResource(metadata.NewBufferResourceDesc(desc, metadata.ResourceStateUndefined, false))
	resource.SetResourceID(id)
	b.localResources[name] = resource

	return name, nil
}

// CreateRenderTarget registers a transient, frame-local attachment. No
// physical resource is allocated here; transient targets are candidates for
// aliasing and are materialized by the backend on demand. An empty name gets
// a generated one so anonymous scratch targets cannot collide.
func (b *Builder) CreateRenderTarget(name string, desc metadata.RenderTargetDesc) string {
	if name == "" {
		name = uuid.New().String()
	}

	resource := resources.NewRenderResource(metadata.NewRenderTargetResourceDesc(desc, metadata.ResourceStateUndefined, true))
	b.localResources[name] = resource

	return name
}

// ImportResource binds an externally-created physical resource, such as the
// swapchain image, under a builder-local name. The manager's full
// description is preferred when it has one; otherwise a minimal type+ID
// wrapper is used.
func (b *Builder) ImportResource(name string, id resources.ResourceID) string {
	var resource *resources.RenderResource
	if desc, ok := b.manager.GetResourceDesc(id); ok {
		resource = resources.NewRenderResource(desc)
		resource.SetResourceID(id)
	} else {
		rtype := b.registry.GetResourceType(id)
		resource = resources.NewPhysicalRenderResource(rtype, id, metadata.ResourceStateGeneral)
	}
	b.localResources[name] = resource

	return name
}

// Build materializes the declared passes and resources into the target
// frame graph, wires producer/consumer links, compiles the graph and
// returns it. The builder must not be reused afterwards.
func (b *Builder) Build() *FrameGraph {
	// Local resources first so pass wiring can resolve them alongside
	// resources the renderer registered directly (e.g. the swapchain).
	for name, resource := range b.localResources {
		b.framegraph.AddResource(name, resource)
	}

	for _, entry := range b.passes {
		pass := NewRenderPass(entry.name)

		for _, input := range entry.inputs {
			pass.AddInput(input)
		}
		for _, output := range entry.outputs {
			pass.AddOutput(output)
		}
		pass.SetExecuteFunc(entry.executeFunc)

		passIndex := b.framegraph.AddPass(pass)

		for _, input := range entry.inputs {
			if resource := b.framegraph.GetResource(input); resource != nil {
				resource.AddConsumer(passIndex)
			} else {
				core.LogDebug("pass '%s' reads undeclared resource '%s'", entry.name, input)
			}
		}
		for _, output := range entry.outputs {
			if resource := b.framegraph.GetResource(output); resource != nil {
				resource.SetProducer(passIndex)
			} else {
				core.LogDebug("pass '%s' writes undeclared resource '%s'", entry.name, output)
			}
		}
	}

	b.framegraph.Compile()

	return b.framegraph
}
