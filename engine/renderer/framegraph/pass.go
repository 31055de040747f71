package framegraph

import (
	"golang.org/x/exp/slices"

	"github.com/spaghettifunk/vortex/engine/renderer/commands"
)

// ExecuteFunc emits the render commands for one pass into the supplied
// command buffer. It runs synchronously during FrameGraph.Execute.
type ExecuteFunc func(*commands.RenderCommandBuffer)

// RenderPass is a named unit of rendering work with its declared resource
// dependencies. Passes are immutable once the builder has constructed them;
// resource names double as the dependency edges of the frame graph.
type RenderPass struct {
	name        string
	inputs      []string
	outputs     []string
	executeFunc ExecuteFunc
}

func NewRenderPass(name string) RenderPass {
	return RenderPass{name: name}
}

func (p *RenderPass) Name() string {
	return p.name
}

// AddInput declares a resource read. Duplicate names are suppressed.
func (p *RenderPass) AddInput(resourceName string) {
	if !slices.Contains(p.inputs, resourceName) {
		p.inputs = append(p.inputs, resourceName)
	}
}

// AddOutput declares a resource write. Duplicate names are suppressed.
func (p *RenderPass) AddOutput(resourceName string) {
	if !slices.Contains(p.outputs, resourceName) {
		p.outputs = append(p.outputs, resourceName)
	}
}

func (p *RenderPass) Inputs() []string {
	return p.inputs
}

func (p *RenderPass) Outputs() []string {
	return p.outputs
}

func (p *RenderPass) SetExecuteFunc(fn ExecuteFunc) {
	p.executeFunc = fn
}

// Execute invokes the stored callback. A pass without a callback is a no-op.
func (p *RenderPass) Execute(cmdBuffer *commands.RenderCommandBuffer) {
	if p.executeFunc != nil {
		p.executeFunc(cmdBuffer)
	}
}

func (p *RenderPass) clone() RenderPass {
	return RenderPass{
		name:        p.name,
		inputs:      slices.Clone(p.inputs),
		outputs:     slices.Clone(p.outputs),
		executeFunc: p.executeFunc,
	}
}

// PassBuilder collects the read/write declarations of a single pass while
// its setup function runs. The collected lists become the pass's permanent
// input/output declaration.
type PassBuilder struct {
	inputs  []string
	outputs []string
}

// Read declares that the pass consumes a resource. Reading a name the pass
// already writes is ignored: a pass cannot depend on its own same-frame
// output.
func (pb *PassBuilder) Read(resourceName string) {
	if slices.Contains(pb.outputs, resourceName) {
		return
	}
	if !slices.Contains(pb.inputs, resourceName) {
		pb.inputs = append(pb.inputs, resourceName)
	}
}

// Write declares that the pass produces a resource.
func (pb *PassBuilder) Write(resourceName string) {
	if !slices.Contains(pb.outputs, resourceName) {
		pb.outputs = append(pb.outputs, resourceName)
	}
}

func (pb *PassBuilder) Inputs() []string {
	return pb.inputs
}

func (pb *PassBuilder) Outputs() []string {
	return pb.outputs
}
