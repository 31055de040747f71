package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/vortex/engine/renderer/metadata"
)

func vulkanFormat(format metadata.Format) vk.Format {
	switch format {
	case metadata.FormatR8Unorm:
		return vk.FormatR8Unorm
	case metadata.FormatR8Snorm:
		return vk.FormatR8Snorm
	case metadata.FormatR8Uint:
		return vk.FormatR8Uint
	case metadata.FormatR8Sint:
		return vk.FormatR8Sint
	case metadata.FormatRG8Unorm:
		return vk.FormatR8g8Unorm
	case metadata.FormatRG8Snorm:
		return vk.FormatR8g8Snorm
	case metadata.FormatRG8Uint:
		return vk.FormatR8g8Uint
	case metadata.FormatRG8Sint:
		return vk.FormatR8g8Sint
	case metadata.FormatRGBA8Unorm:
		return vk.FormatR8g8b8a8Unorm
	case metadata.FormatRGBA8Snorm:
		return vk.FormatR8g8b8a8Snorm
	case metadata.FormatRGBA8Uint:
		return vk.FormatR8g8b8a8Uint
	case metadata.FormatRGBA8Sint:
		return vk.FormatR8g8b8a8Sint
	case metadata.FormatRGBA8SRGB:
		return vk.FormatR8g8b8a8Srgb
	case metadata.FormatBGRA8Unorm:
		return vk.FormatB8g8r8a8Unorm
	case metadata.FormatBGRA8SRGB:
		return vk.FormatB8g8r8a8Srgb
	case metadata.FormatR16Float:
		return vk.FormatR16Sfloat
	case metadata.FormatR16Uint:
		return vk.FormatR16Uint
	case metadata.FormatR16Sint:
		return vk.FormatR16Sint
	case metadata.FormatRG16Float:
		return vk.FormatR16g16Sfloat
	case metadata.FormatRG16Uint:
		return vk.FormatR16g16Uint
	case metadata.FormatRG16Sint:
		return vk.FormatR16g16Sint
	case metadata.FormatRGBA16Float:
		return vk.FormatR16g16b16a16Sfloat
	case metadata.FormatRGBA16Uint:
		return vk.FormatR16g16b16a16Uint
	case metadata.FormatRGBA16Sint:
		return vk.FormatR16g16b16a16Sint
	case metadata.FormatR32Float:
		return vk.FormatR32Sfloat
	case metadata.FormatR32Uint:
		return vk.FormatR32Uint
	case metadata.FormatR32Sint:
		return vk.FormatR32Sint
	case metadata.FormatRG32Float:
		return vk.FormatR32g32Sfloat
	case metadata.FormatRGBA32Float:
		return vk.FormatR32g32b32a32Sfloat
	case metadata.FormatD16Unorm:
		return vk.FormatD16Unorm
	case metadata.FormatD32Float:
		return vk.FormatD32Sfloat
	case metadata.FormatD24UnormS8Uint:
		return vk.FormatD24UnormS8Uint
	default:
		return vk.FormatUndefined
	}
}

func engineFormat(format vk.Format) metadata.Format {
	switch format {
	case vk.FormatB8g8r8a8Unorm:
		return metadata.FormatBGRA8Unorm
	case vk.FormatB8g8r8a8Srgb:
		return metadata.FormatBGRA8SRGB
	case vk.FormatR8g8b8a8Unorm:
		return metadata.FormatRGBA8Unorm
	case vk.FormatR8g8b8a8Srgb:
		return metadata.FormatRGBA8SRGB
	case vk.FormatR16g16b16a16Sfloat:
		return metadata.FormatRGBA16Float
	default:
		return metadata.FormatUnknown
	}
}

// stateLayout maps an engine resource state to the image layout a texture in
// that state must be in.
func stateLayout(state metadata.ResourceState) vk.ImageLayout {
	switch state {
	case metadata.ResourceStateUndefined:
		return vk.ImageLayoutUndefined
	case metadata.ResourceStateRenderTarget:
		return vk.ImageLayoutColorAttachmentOptimal
	case metadata.ResourceStateDepthStencilRead:
		return vk.ImageLayoutDepthStencilReadOnlyOptimal
	case metadata.ResourceStateDepthStencilWrite:
		return vk.ImageLayoutDepthStencilAttachmentOptimal
	case metadata.ResourceStateShaderRead, metadata.ResourceStateShaderResource:
		return vk.ImageLayoutShaderReadOnlyOptimal
	case metadata.ResourceStateShaderWrite, metadata.ResourceStateUnorderedAccess:
		return vk.ImageLayoutGeneral
	case metadata.ResourceStateCopySource:
		return vk.ImageLayoutTransferSrcOptimal
	case metadata.ResourceStateCopyDestination:
		return vk.ImageLayoutTransferDstOptimal
	case metadata.ResourceStatePresent:
		return vk.ImageLayoutPresentSrc
	default:
		return vk.ImageLayoutGeneral
	}
}

func stateAccessMask(state metadata.ResourceState) vk.AccessFlags {
	switch state {
	case metadata.ResourceStateUndefined:
		return 0
	case metadata.ResourceStateVertexBuffer:
		return vk.AccessFlags(vk.AccessVertexAttributeReadBit)
	case metadata.ResourceStateIndexBuffer:
		return vk.AccessFlags(vk.AccessIndexReadBit)
	case metadata.ResourceStateConstantBuffer:
		return vk.AccessFlags(vk.AccessUniformReadBit)
	case metadata.ResourceStateIndirectBuffer:
		return vk.AccessFlags(vk.AccessIndirectCommandReadBit)
	case metadata.ResourceStateRenderTarget:
		return vk.AccessFlags(vk.AccessColorAttachmentReadBit | vk.AccessColorAttachmentWriteBit)
	case metadata.ResourceStateDepthStencilRead:
		return vk.AccessFlags(vk.AccessDepthStencilAttachmentReadBit)
	case metadata.ResourceStateDepthStencilWrite:
		return vk.AccessFlags(vk.AccessDepthStencilAttachmentReadBit | vk.AccessDepthStencilAttachmentWriteBit)
	case metadata.ResourceStateShaderRead, metadata.ResourceStateShaderResource:
		return vk.AccessFlags(vk.AccessShaderReadBit)
	case metadata.ResourceStateShaderWrite, metadata.ResourceStateUnorderedAccess:
		return vk.AccessFlags(vk.AccessShaderReadBit | vk.AccessShaderWriteBit)
	case metadata.ResourceStateCopySource:
		return vk.AccessFlags(vk.AccessTransferReadBit)
	case metadata.ResourceStateCopyDestination:
		return vk.AccessFlags(vk.AccessTransferWriteBit)
	case metadata.ResourceStatePresent:
		return vk.AccessFlags(vk.AccessMemoryReadBit)
	default:
		return vk.AccessFlags(vk.AccessMemoryReadBit | vk.AccessMemoryWriteBit)
	}
}

func stateStageMask(state metadata.ResourceState) vk.PipelineStageFlags {
	switch state {
	case metadata.ResourceStateUndefined:
		return vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit)
	case metadata.ResourceStateVertexBuffer, metadata.ResourceStateIndexBuffer:
		return vk.PipelineStageFlags(vk.PipelineStageVertexInputBit)
	case metadata.ResourceStateIndirectBuffer:
		return vk.PipelineStageFlags(vk.PipelineStageDrawIndirectBit)
	case metadata.ResourceStateRenderTarget:
		return vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)
	case metadata.ResourceStateDepthStencilRead, metadata.ResourceStateDepthStencilWrite:
		return vk.PipelineStageFlags(vk.PipelineStageEarlyFragmentTestsBit | vk.PipelineStageLateFragmentTestsBit)
	case metadata.ResourceStateShaderRead, metadata.ResourceStateShaderResource,
		metadata.ResourceStateShaderWrite, metadata.ResourceStateUnorderedAccess,
		metadata.ResourceStateConstantBuffer:
		return vk.PipelineStageFlags(vk.PipelineStageVertexShaderBit | vk.PipelineStageFragmentShaderBit | vk.PipelineStageComputeShaderBit)
	case metadata.ResourceStateCopySource, metadata.ResourceStateCopyDestination:
		return vk.PipelineStageFlags(vk.PipelineStageTransferBit)
	case metadata.ResourceStatePresent:
		return vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit)
	default:
		return vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit)
	}
}

func vulkanBufferUsage(usage metadata.BufferUsageFlags) vk.BufferUsageFlags {
	var flags vk.BufferUsageFlags
	if usage&metadata.BufferUsageVertexBuffer != 0 {
		flags |= vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit)
	}
	if usage&metadata.BufferUsageIndexBuffer != 0 {
		flags |= vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit)
	}
	if usage&metadata.BufferUsageUniformBuffer != 0 {
		flags |= vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit)
	}
	if usage&metadata.BufferUsageStorageBuffer != 0 {
		flags |= vk.BufferUsageFlags(vk.BufferUsageStorageBufferBit)
	}
	if usage&metadata.BufferUsageIndirect != 0 {
		flags |= vk.BufferUsageFlags(vk.BufferUsageIndirectBufferBit)
	}
	if usage&metadata.BufferUsageTransferSrc != 0 {
		flags |= vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit)
	}
	if usage&metadata.BufferUsageTransferDst != 0 {
		flags |= vk.BufferUsageFlags(vk.BufferUsageTransferDstBit)
	}
	return flags
}

func vulkanTextureUsage(usage metadata.TextureUsageFlags) vk.ImageUsageFlags {
	var flags vk.ImageUsageFlags
	if usage&metadata.TextureUsageSampled != 0 {
		flags |= vk.ImageUsageFlags(vk.ImageUsageSampledBit)
	}
	if usage&metadata.TextureUsageStorage != 0 {
		flags |= vk.ImageUsageFlags(vk.ImageUsageStorageBit)
	}
	if usage&metadata.TextureUsageColorAttachment != 0 {
		flags |= vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit)
	}
	if usage&metadata.TextureUsageDepthStencil != 0 {
		flags |= vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit)
	}
	if usage&metadata.TextureUsageTransferSrc != 0 {
		flags |= vk.ImageUsageFlags(vk.ImageUsageTransferSrcBit)
	}
	if usage&metadata.TextureUsageTransferDst != 0 {
		flags |= vk.ImageUsageFlags(vk.ImageUsageTransferDstBit)
	}
	return flags
}

func vulkanFilter(mode metadata.FilterMode) vk.Filter {
	if mode == metadata.FilterModeNearest {
		return vk.FilterNearest
	}
	return vk.FilterLinear
}

func vulkanAddressMode(mode metadata.AddressMode) vk.SamplerAddressMode {
	switch mode {
	case metadata.AddressModeMirroredRepeat:
		return vk.SamplerAddressModeMirroredRepeat
	case metadata.AddressModeClampToEdge:
		return vk.SamplerAddressModeClampToEdge
	case metadata.AddressModeClampToBorder:
		return vk.SamplerAddressModeClampToBorder
	default:
		return vk.SamplerAddressModeRepeat
	}
}

func vulkanShaderStage(stage metadata.ShaderStage) vk.ShaderStageFlagBits {
	switch stage {
	case metadata.ShaderStageFragment:
		return vk.ShaderStageFragmentBit
	case metadata.ShaderStageCompute:
		return vk.ShaderStageComputeBit
	case metadata.ShaderStageGeometry:
		return vk.ShaderStageGeometryBit
	default:
		return vk.ShaderStageVertexBit
	}
}
