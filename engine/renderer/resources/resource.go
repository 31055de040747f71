package resources

import (
	"github.com/spaghettifunk/vortex/engine/core"
	"github.com/spaghettifunk/vortex/engine/renderer/metadata"
)

// NoPass marks the absence of a producer pass. Producer and consumers are
// stored as indices into the owning frame graph's pass arena, never as
// pointers, so graphs can be copied and pass slices can grow safely.
const NoPass = -1

// RenderResource is the per-frame metadata wrapper around one named resource:
// its type, current synchronization state, physical binding if any, and the
// producer/consumer passes discovered while building the frame graph.
// A RenderResource lives only as long as the frame graph that owns it.
type RenderResource struct {
	name  string
	rtype metadata.ResourceType
	state metadata.ResourceState

	resourceID    ResourceID
	bindlessIndex uint32
	bindless      bool

	desc *metadata.ResourceDesc

	transient     bool
	usedThisFrame bool

	producer  int
	consumers []int
}

// NewRenderResource wraps a resource description for later on-demand creation.
func NewRenderResource(desc metadata.ResourceDesc) *RenderResource {
	return &RenderResource{
		rtype:      desc.Type,
		state:      desc.InitialState,
		resourceID: InvalidResourceID(),
		desc:       &desc,
		transient:  desc.Transient,
		producer:   NoPass,
	}
}

// NewPhysicalRenderResource wraps an already-created physical resource.
func NewPhysicalRenderResource(rtype metadata.ResourceType, id ResourceID, state metadata.ResourceState) *RenderResource {
	return &RenderResource{
		rtype:      rtype,
		state:      state,
		resourceID: id,
		producer:   NoPass,
	}
}

// NewBindlessRenderResource wraps a slot in a bindless descriptor table.
func NewBindlessRenderResource(rtype metadata.ResourceType, bindlessIndex uint32) *RenderResource {
	return &RenderResource{
		rtype:         rtype,
		state:         metadata.ResourceStateUndefined,
		resourceID:    InvalidResourceID(),
		bindlessIndex: bindlessIndex,
		bindless:      true,
		producer:      NoPass,
	}
}

func (r *RenderResource) Name() string {
	return r.name
}

func (r *RenderResource) SetName(name string) {
	r.name = name
}

func (r *RenderResource) Type() metadata.ResourceType {
	return r.rtype
}

func (r *RenderResource) State() metadata.ResourceState {
	return r.state
}

func (r *RenderResource) SetState(state metadata.ResourceState) {
	r.state = state
}

func (r *RenderResource) ResourceID() ResourceID {
	return r.resourceID
}

func (r *RenderResource) SetResourceID(id ResourceID) {
	r.resourceID = id
}

func (r *RenderResource) IsTransient() bool {
	return r.transient
}

func (r *RenderResource) SetTransient(transient bool) {
	r.transient = transient
}

func (r *RenderResource) IsBindless() bool {
	return r.bindless
}

func (r *RenderResource) BindlessIndex() uint32 {
	if !r.bindless {
		return InvalidIndex
	}
	return r.bindlessIndex
}

func (r *RenderResource) HasResourceDesc() bool {
	return r.desc != nil
}

func (r *RenderResource) ResourceDesc() *metadata.ResourceDesc {
	return r.desc
}

// SetProducer records the pass that writes this resource. Declaring two
// writers for the same name is not an error: the last writer wins, but the
// overwrite is logged since the resulting order is undefined.
func (r *RenderResource) SetProducer(passIndex int) {
	if r.producer != NoPass && passIndex != NoPass && r.producer != passIndex {
		core.LogWarn("resource '%s' already has a producer (pass %d), overwriting with pass %d", r.name, r.producer, passIndex)
	}
	r.producer = passIndex
}

func (r *RenderResource) Producer() int {
	return r.producer
}

// AddConsumer appends a reading pass. Invalid indices are rejected with a
// warning and duplicates are suppressed; consumer counts per resource are
// expected to be small, so a linear scan is fine.
func (r *RenderResource) AddConsumer(passIndex int) {
	if passIndex < 0 {
		core.LogWarn("attempted to add an invalid pass as consumer of resource '%s'", r.name)
		return
	}

	for _, consumer := range r.consumers {
		if consumer == passIndex {
			return
		}
	}

	r.consumers = append(r.consumers, passIndex)
}

func (r *RenderResource) Consumers() []int {
	return r.consumers
}

// SetConsumers replaces the consumer list wholesale. Used by the frame graph
// when pass indices are remapped after culling.
func (r *RenderResource) SetConsumers(consumers []int) {
	r.consumers = consumers
}

// RemapProducer rebinds the producer index without the multiple-writer
// diagnostic. Used by the frame graph when pass indices shift after culling.
func (r *RenderResource) RemapProducer(passIndex int) {
	r.producer = passIndex
}

func (r *RenderResource) MarkUsed() {
	r.usedThisFrame = true
}

func (r *RenderResource) IsUsedThisFrame() bool {
	return r.usedThisFrame
}

func (r *RenderResource) ResetUsage() {
	r.usedThisFrame = false
}

// Clone returns a deep copy safe to attach to a different frame graph.
func (r *RenderResource) Clone() *RenderResource {
	clone := *r
	if r.desc != nil {
		desc := *r.desc
		clone.desc = &desc
	}
	clone.consumers = make([]int, len(r.consumers))
	copy(clone.consumers, r.consumers)
	return &clone
}
