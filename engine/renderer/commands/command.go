package commands

import (
	"github.com/spaghettifunk/vortex/engine/math"
	"github.com/spaghettifunk/vortex/engine/renderer/resources"
)

// CommandType identifies a single rendering operation. The enumeration order
// doubles as the primary sort key when a command buffer is sorted, so state
// setup (clears, viewport) naturally precedes draw work.
type CommandType uint8

const (
	CommandTypeClear CommandType = iota
	CommandTypeDraw
	CommandTypeDrawIndexed
	CommandTypeDispatch
	CommandTypeCopy
	CommandTypeSetViewport
	CommandTypeSetScissor
)

func (t CommandType) String() string {
	switch t {
	case CommandTypeClear:
		return "clear"
	case CommandTypeDraw:
		return "draw"
	case CommandTypeDrawIndexed:
		return "draw_indexed"
	case CommandTypeDispatch:
		return "dispatch"
	case CommandTypeCopy:
		return "copy"
	case CommandTypeSetViewport:
		return "set_viewport"
	case CommandTypeSetScissor:
		return "set_scissor"
	default:
		return "unknown"
	}
}

// ClearFlags select which aspects of a target a clear command affects.
type ClearFlags uint8

const (
	ClearFlagNone    ClearFlags = 0
	ClearFlagColor   ClearFlags = 1 << 0
	ClearFlagDepth   ClearFlags = 1 << 1
	ClearFlagStencil ClearFlags = 1 << 2
	ClearFlagAll                = ClearFlagColor | ClearFlagDepth | ClearFlagStencil
)

// ClearCommandData carries the payload of a clear command.
type ClearCommandData struct {
	Color   math.Vec4
	Depth   float32
	Stencil uint32
	Flags   ClearFlags
}

// DrawCommandData carries the payload of a draw or indexed draw command.
type DrawCommandData struct {
	MeshID        resources.ResourceID
	MaterialID    resources.ResourceID
	Transform     math.Mat4
	VertexCount   uint32
	InstanceCount uint32
}

// ViewportCommandData carries the payload of viewport and scissor commands.
type ViewportCommandData struct {
	X, Y          int32
	Width, Height uint32
}

// RenderCommand is a single rendering operation with all the data needed to
// execute it. Exactly one payload is meaningful, selected by Type; commands
// are stored by value in a contiguous slice for cache-friendly submission.
type RenderCommand struct {
	Type CommandType

	Clear    ClearCommandData
	Draw     DrawCommandData
	Viewport ViewportCommandData
}
