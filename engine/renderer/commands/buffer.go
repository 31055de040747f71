package commands

import "sort"

// RenderCommandBuffer collects rendering commands emitted by frame graph
// passes into a contiguous array, optionally sorts them to minimize GPU
// state changes, and hands them to the backend as one batch.
type RenderCommandBuffer struct {
	commands []RenderCommand
}

func NewRenderCommandBuffer() *RenderCommandBuffer {
	return &RenderCommandBuffer{}
}

// Clear empties the buffer for reuse between passes. Backing storage is
// retained.
func (cb *RenderCommandBuffer) Clear() {
	cb.commands = cb.commands[:0]
}

// SubmitClear appends a clear command.
func (cb *RenderCommandBuffer) SubmitClear(data ClearCommandData) {
	cb.commands = append(cb.commands, RenderCommand{Type: CommandTypeClear, Clear: data})
}

// SubmitDraw appends a draw command. Indexed draws pass indexed=true.
func (cb *RenderCommandBuffer) SubmitDraw(data DrawCommandData, indexed bool) {
	ctype := CommandTypeDraw
	if indexed {
		ctype = CommandTypeDrawIndexed
	}
	cb.commands = append(cb.commands, RenderCommand{Type: ctype, Draw: data})
}

// SubmitViewport appends a viewport command.
func (cb *RenderCommandBuffer) SubmitViewport(data ViewportCommandData) {
	cb.commands = append(cb.commands, RenderCommand{Type: CommandTypeSetViewport, Viewport: data})
}

// SubmitScissor appends a scissor command.
func (cb *RenderCommandBuffer) SubmitScissor(data ViewportCommandData) {
	cb.commands = append(cb.commands, RenderCommand{Type: CommandTypeSetScissor, Viewport: data})
}

// Commands returns the recorded commands. The slice is owned by the buffer
// and only valid until the next Clear.
func (cb *RenderCommandBuffer) Commands() []RenderCommand {
	return cb.commands
}

// Len returns the number of recorded commands.
func (cb *RenderCommandBuffer) Len() int {
	return len(cb.commands)
}

// Sort orders commands primarily by type and, for draws, secondarily by
// material index so consecutive draws share pipeline/material bindings. The
// sort is stable: commands with equal keys keep their relative order.
func (cb *RenderCommandBuffer) Sort() {
	sort.SliceStable(cb.commands, func(i, j int) bool {
		lhs, rhs := cb.commands[i], cb.commands[j]
		if lhs.Type != rhs.Type {
			return lhs.Type < rhs.Type
		}

		switch lhs.Type {
		case CommandTypeDraw, CommandTypeDrawIndexed:
			return lhs.Draw.MaterialID.Index < rhs.Draw.MaterialID.Index
		default:
			return false
		}
	})
}
