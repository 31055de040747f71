package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/vortex/engine/math"
	"github.com/spaghettifunk/vortex/engine/renderer/resources"
)

func drawWithMaterial(index uint32) DrawCommandData {
	return DrawCommandData{
		MeshID:     resources.NewResourceID(0, 1),
		MaterialID: resources.NewResourceID(index, 1),
		Transform:  math.NewMat4Identity(),
	}
}

func TestSubmitRecordsInOrder(t *testing.T) {
	cb := NewRenderCommandBuffer()

	cb.SubmitClear(ClearCommandData{Color: math.NewVec4(0, 0, 0, 1), Flags: ClearFlagColor})
	cb.SubmitDraw(drawWithMaterial(3), true)
	cb.SubmitViewport(ViewportCommandData{Width: 1280, Height: 720})

	require.Equal(t, 3, cb.Len())
	cmds := cb.Commands()
	assert.Equal(t, CommandTypeClear, cmds[0].Type)
	assert.Equal(t, CommandTypeDrawIndexed, cmds[1].Type)
	assert.Equal(t, CommandTypeSetViewport, cmds[2].Type)
}

func TestSortGroupsByTypeThenMaterial(t *testing.T) {
	cb := NewRenderCommandBuffer()

	cb.SubmitViewport(ViewportCommandData{Width: 800, Height: 600})
	cb.SubmitDraw(drawWithMaterial(9), false)
	cb.SubmitClear(ClearCommandData{Flags: ClearFlagAll})
	cb.SubmitDraw(drawWithMaterial(2), false)
	cb.SubmitDraw(drawWithMaterial(5), false)

	cb.Sort()

	cmds := cb.Commands()
	require.Len(t, cmds, 5)
	assert.Equal(t, CommandTypeClear, cmds[0].Type)
	assert.Equal(t, CommandTypeDraw, cmds[1].Type)
	assert.Equal(t, uint32(2), cmds[1].Draw.MaterialID.Index)
	assert.Equal(t, uint32(5), cmds[2].Draw.MaterialID.Index)
	assert.Equal(t, uint32(9), cmds[3].Draw.MaterialID.Index)
	assert.Equal(t, CommandTypeSetViewport, cmds[4].Type)
}

func TestSortIsStableForEqualKeys(t *testing.T) {
	cb := NewRenderCommandBuffer()

	// Same material, different transforms. Submission order must survive.
	first := drawWithMaterial(4)
	first.Transform.Data[12] = 1.0
	second := drawWithMaterial(4)
	second.Transform.Data[12] = 2.0

	cb.SubmitDraw(first, true)
	cb.SubmitDraw(second, true)
	cb.Sort()

	cmds := cb.Commands()
	require.Len(t, cmds, 2)
	assert.InDelta(t, 1.0, cmds[0].Draw.Transform.Data[12], 1e-6)
	assert.InDelta(t, 2.0, cmds[1].Draw.Transform.Data[12], 1e-6)
}

func TestSortKeepsIndexedAndPlainDrawsApart(t *testing.T) {
	cb := NewRenderCommandBuffer()

	cb.SubmitDraw(drawWithMaterial(1), true)
	cb.SubmitDraw(drawWithMaterial(1), false)
	cb.Sort()

	cmds := cb.Commands()
	assert.Equal(t, CommandTypeDraw, cmds[0].Type)
	assert.Equal(t, CommandTypeDrawIndexed, cmds[1].Type)
}

func TestClearRetainsCapacity(t *testing.T) {
	cb := NewRenderCommandBuffer()
	for i := 0; i < 16; i++ {
		cb.SubmitClear(ClearCommandData{Flags: ClearFlagColor})
	}
	before := cap(cb.commands)

	cb.Clear()

	assert.Equal(t, 0, cb.Len())
	assert.Equal(t, before, cap(cb.commands))
}
