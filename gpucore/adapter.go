package gpucore

import "github.com/gogpu/gpucontext"

// GPUAdapter abstracts over the concrete GPU backend (gogpu/wgpu,
// gogpu/gogpu, or no backend at all) so HybridPipeline and its callers
// can create resources and query capabilities without depending on a
// specific backend package.
type GPUAdapter interface {
	// Device returns the backend's device handle, or nil on a CPU-only adapter.
	Device() gpucontext.DeviceProvider

	// SupportsCompute reports whether the adapter can run compute shaders,
	// gating HybridPipeline.useGPU.
	SupportsCompute() bool

	// Capabilities reports adapter limits relevant to pipeline sizing and
	// PLS mode selection.
	Capabilities() DeviceCapabilities
}

// DeviceCapabilities reports adapter limits and features for callers that
// depend only on gpucore.
type DeviceCapabilities struct {
	MaxTextureSize          uint32
	MaxBindGroups           uint32
	SupportsCompute         bool
	SupportsStorageTextures bool
	VendorName              string
	DeviceName              string
}

// NullAdapter is a GPUAdapter with no backing GPU, used to force
// HybridPipeline.UseCPUFallback-equivalent behavior.
type NullAdapter struct{}

func (NullAdapter) Device() gpucontext.DeviceProvider { return nil }
func (NullAdapter) SupportsCompute() bool             { return false }
func (NullAdapter) Capabilities() DeviceCapabilities  { return DeviceCapabilities{} }

var _ GPUAdapter = NullAdapter{}
