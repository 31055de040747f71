package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/vortex/engine/renderer/framegraph"
)

type recordingLayer struct {
	name     string
	detached bool
}

func (l *recordingLayer) Name() string                            { return l.name }
func (l *recordingLayer) OnAttach(e *Engine) error                { return nil }
func (l *recordingLayer) OnDetach()                               { l.detached = true }
func (l *recordingLayer) OnUpdate(deltaTime float64)              {}
func (l *recordingLayer) PrepareDraw(builder *framegraph.Builder) {}

func stackOrder(ls *LayerStack) []string {
	var names []string
	ls.Each(func(layer Layer) {
		names = append(names, layer.Name())
	})
	return names
}

func TestLayersStayBelowOverlays(t *testing.T) {
	ls := NewLayerStack()

	ls.PushOverlay(&recordingLayer{name: "hud"})
	ls.Push(&recordingLayer{name: "world"})
	ls.Push(&recordingLayer{name: "particles"})
	ls.PushOverlay(&recordingLayer{name: "debug"})

	assert.Equal(t, []string{"world", "particles", "hud", "debug"}, stackOrder(ls))
}

func TestPopDetachesLayer(t *testing.T) {
	ls := NewLayerStack()
	world := &recordingLayer{name: "world"}
	hud := &recordingLayer{name: "hud"}

	ls.Push(world)
	ls.PushOverlay(hud)

	assert.True(t, ls.Pop(world))
	assert.True(t, world.detached)
	assert.Equal(t, []string{"hud"}, stackOrder(ls))

	// A regular push after the pop still lands below the overlay.
	ls.Push(&recordingLayer{name: "world2"})
	assert.Equal(t, []string{"world2", "hud"}, stackOrder(ls))
}

func TestPopUnknownLayer(t *testing.T) {
	ls := NewLayerStack()
	ls.Push(&recordingLayer{name: "world"})

	assert.False(t, ls.Pop(&recordingLayer{name: "stranger"}))
	assert.Equal(t, 1, ls.Len())
}

func TestClearDetachesEverything(t *testing.T) {
	ls := NewLayerStack()
	world := &recordingLayer{name: "world"}
	hud := &recordingLayer{name: "hud"}
	ls.Push(world)
	ls.PushOverlay(hud)

	ls.Clear()

	assert.Equal(t, 0, ls.Len())
	assert.True(t, world.detached)
	assert.True(t, hud.detached)

	// The stack is reusable after a clear.
	ls.PushOverlay(&recordingLayer{name: "hud2"})
	ls.Push(&recordingLayer{name: "world2"})
	assert.Equal(t, []string{"world2", "hud2"}, stackOrder(ls))
}
