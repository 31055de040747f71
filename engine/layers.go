package engine

import (
	"github.com/spaghettifunk/vortex/engine/core"
	"github.com/spaghettifunk/vortex/engine/renderer/framegraph"
)

// Layer is a unit of application logic with its own slice of the frame.
// OnUpdate runs simulation work; PrepareDraw declares the layer's render
// passes on the frame graph builder of the current frame.
type Layer interface {
	Name() string
	OnAttach(e *Engine) error
	OnDetach()
	OnUpdate(deltaTime float64)
	PrepareDraw(builder *framegraph.Builder)
}

// LayerStack keeps layers in update/draw order. Overlays always run after
// regular layers, so UI overlays draw on top of the scene.
type LayerStack struct {
	layers []Layer
	// Index of the first overlay; regular layers are inserted before it.
	overlayStart int
}

func NewLayerStack() *LayerStack {
	return &LayerStack{}
}

func (ls *LayerStack) Push(layer Layer) {
	ls.layers = append(ls.layers, nil)
	copy(ls.layers[ls.overlayStart+1:], ls.layers[ls.overlayStart:])
	ls.layers[ls.overlayStart] = layer
	ls.overlayStart++
}

func (ls *LayerStack) PushOverlay(overlay Layer) {
	ls.layers = append(ls.layers, overlay)
}

// Pop removes a layer or overlay. Returns false when it was never pushed.
func (ls *LayerStack) Pop(layer Layer) bool {
	for i, l := range ls.layers {
		if l == layer {
			ls.layers = append(ls.layers[:i], ls.layers[i+1:]...)
			if i < ls.overlayStart {
				ls.overlayStart--
			}
			layer.OnDetach()
			return true
		}
	}
	core.LogWarn("attempted to pop layer '%s' that is not on the stack", layer.Name())
	return false
}

func (ls *LayerStack) Len() int {
	return len(ls.layers)
}

// Each calls fn for every layer, bottom to top.
func (ls *LayerStack) Each(fn func(Layer)) {
	for _, layer := range ls.layers {
		fn(layer)
	}
}

func (ls *LayerStack) Clear() {
	for i := len(ls.layers) - 1; i >= 0; i-- {
		ls.layers[i].OnDetach()
	}
	ls.layers = nil
	ls.overlayStart = 0
}
