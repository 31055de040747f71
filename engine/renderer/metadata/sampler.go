package metadata

// FilterMode selects how textures are filtered when sampled.
type FilterMode uint8

const (
	FilterModeNearest FilterMode = iota
	FilterModeLinear
	FilterModeAnisotropic
)

// AddressMode selects how texture coordinates outside [0,1] are handled.
type AddressMode uint8

const (
	AddressModeRepeat AddressMode = iota
	AddressModeMirroredRepeat
	AddressModeClampToEdge
	AddressModeClampToBorder
)

// SamplerDesc describes a texture sampler.
type SamplerDesc struct {
	MinFilter FilterMode
	MagFilter FilterMode
	AddressU  AddressMode
	AddressV  AddressMode
	AddressW  AddressMode

	MaxAnisotropy float32
}
