package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/vortex/engine/core"
	"github.com/spaghettifunk/vortex/engine/renderer/commands"
	"github.com/spaghettifunk/vortex/engine/renderer/metadata"
	"github.com/spaghettifunk/vortex/engine/renderer/resources"
)

// TransitionResource records a pipeline barrier moving a resource between
// access states on the current frame's command buffer. IDs the context has no
// image for degrade to a global memory barrier, which is correct but
// oversynchronized.
func (c *Context) TransitionResource(id resources.ResourceID, oldState, newState metadata.ResourceState) {
	if !c.frameActive {
		core.LogWarn("resource transition requested outside of a frame, ignoring")
		return
	}
	commandBuffer := c.commandBuffers[c.imageIndex]

	srcStage := stateStageMask(oldState)
	dstStage := stateStageMask(newState)

	if image, aspect, ok := c.resolveImage(id); ok {
		barrier := vk.ImageMemoryBarrier{
			SType:               vk.StructureTypeImageMemoryBarrier,
			SrcAccessMask:       stateAccessMask(oldState),
			DstAccessMask:       stateAccessMask(newState),
			OldLayout:           stateLayout(oldState),
			NewLayout:           stateLayout(newState),
			SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
			DstQueueFamilyIndex: vk.QueueFamilyIgnored,
			Image:               image,
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: aspect,
				LevelCount: vk.RemainingMipLevels,
				LayerCount: vk.RemainingArrayLayers,
			},
		}
		vk.CmdPipelineBarrier(commandBuffer, srcStage, dstStage, 0,
			0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})
		return
	}

	memoryBarrier := vk.MemoryBarrier{
		SType:         vk.StructureTypeMemoryBarrier,
		SrcAccessMask: stateAccessMask(oldState),
		DstAccessMask: stateAccessMask(newState),
	}
	vk.CmdPipelineBarrier(commandBuffer, srcStage, dstStage, 0,
		1, []vk.MemoryBarrier{memoryBarrier}, 0, nil, 0, nil)
}

// resolveImage maps an engine resource ID to the vulkan image backing it.
// The back buffer sentinel resolves to the image acquired this frame.
func (c *Context) resolveImage(id resources.ResourceID) (vk.Image, vk.ImageAspectFlags, bool) {
	c.resources.mutex.Lock()
	handle, bound := c.resources.bindings[id]
	var texture *textureResource
	if bound {
		texture = c.resources.textures[handle]
	}
	c.resources.mutex.Unlock()

	if !bound {
		return nil, 0, false
	}
	if handle == uint64(metadata.BackBufferHandle) {
		return c.swapchain.images[c.imageIndex], vk.ImageAspectFlags(vk.ImageAspectColorBit), true
	}
	if texture == nil {
		return nil, 0, false
	}
	return texture.image, texture.aspect, true
}

// ExecuteCommands translates one pass's recorded commands into Vulkan calls
// on the current frame's command buffer.
func (c *Context) ExecuteCommands(cmds []commands.RenderCommand) {
	if !c.frameActive {
		core.LogWarn("command submission requested outside of a frame, ignoring")
		return
	}
	commandBuffer := c.commandBuffers[c.imageIndex]

	for i := range cmds {
		cmd := &cmds[i]
		switch cmd.Type {
		case commands.CommandTypeClear:
			c.executeClear(commandBuffer, &cmd.Clear)
		case commands.CommandTypeSetViewport:
			viewport := vk.Viewport{
				X:        float32(cmd.Viewport.X),
				Y:        float32(cmd.Viewport.Y),
				Width:    float32(cmd.Viewport.Width),
				Height:   float32(cmd.Viewport.Height),
				MinDepth: 0.0,
				MaxDepth: 1.0,
			}
			vk.CmdSetViewport(commandBuffer, 0, 1, []vk.Viewport{viewport})
		case commands.CommandTypeSetScissor:
			scissor := vk.Rect2D{
				Offset: vk.Offset2D{X: cmd.Viewport.X, Y: cmd.Viewport.Y},
				Extent: vk.Extent2D{Width: cmd.Viewport.Width, Height: cmd.Viewport.Height},
			}
			vk.CmdSetScissor(commandBuffer, 0, 1, []vk.Rect2D{scissor})
		case commands.CommandTypeDraw, commands.CommandTypeDrawIndexed:
			// Draws need the material's pipeline bound; the material system
			// owns that. Until it lands here the mesh is logged and skipped.
			// TODO: bind pipeline and vertex/index buffers from the material
			// registry once pipelines are built at material load time.
			core.LogDebug("draw of mesh %s skipped, no pipeline bound", cmd.Draw.MeshID)
		case commands.CommandTypeDispatch, commands.CommandTypeCopy:
			core.LogDebug("unsupported command type %s skipped", cmd.Type)
		}
	}
}

func (c *Context) executeClear(commandBuffer vk.CommandBuffer, clear *commands.ClearCommandData) {
	if clear.Flags&commands.ClearFlagColor == 0 {
		return
	}

	image := c.swapchain.images[c.imageIndex]

	// vkCmdClearColorImage requires GENERAL or TRANSFER_DST_OPTIMAL.
	c.transitionImage(commandBuffer, image,
		vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal,
		0, vk.AccessFlags(vk.AccessTransferWriteBit),
		vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
		vk.PipelineStageFlags(vk.PipelineStageTransferBit))

	clearColor := vk.ClearColorValue(vk.NewClearValue([]float32{
		clear.Color.X, clear.Color.Y, clear.Color.Z, clear.Color.W,
	}))
	subresourceRange := vk.ImageSubresourceRange{
		AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
		LevelCount: 1,
		LayerCount: 1,
	}
	vk.CmdClearColorImage(commandBuffer, image, vk.ImageLayoutTransferDstOptimal,
		&clearColor, 1, []vk.ImageSubresourceRange{subresourceRange})

	c.transitionImage(commandBuffer, image,
		vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutColorAttachmentOptimal,
		vk.AccessFlags(vk.AccessTransferWriteBit),
		vk.AccessFlags(vk.AccessColorAttachmentReadBit|vk.AccessColorAttachmentWriteBit),
		vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit))
}

func (c *Context) transitionImage(commandBuffer vk.CommandBuffer, image vk.Image,
	oldLayout, newLayout vk.ImageLayout, srcAccess, dstAccess vk.AccessFlags,
	srcStage, dstStage vk.PipelineStageFlags) {

	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       srcAccess,
		DstAccessMask:       dstAccess,
		OldLayout:           oldLayout,
		NewLayout:           newLayout,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               image,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}
	vk.CmdPipelineBarrier(commandBuffer, srcStage, dstStage, 0,
		0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})
}
