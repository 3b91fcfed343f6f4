// Package gpu provides the hardware-accelerated backend: it acquires a
// real gogpu/wgpu instance/adapter/device/queue and compiles the fine
// rasterization shader through gogpu/naga. Init fails with ErrNoGPU
// when no adapter is found; a shader compile failure is not fatal. The
// programs it compiles are gpucore.HybridPipelines built on
// gpucore.NullAdapter, so their fine pass always runs as the CPU sweep.
package gpu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"
	wgputypes "github.com/gogpu/wgpu/types"

	"github.com/rivecore/rivecore/backend"
	"github.com/rivecore/rivecore/gpucore"
	"github.com/rivecore/rivecore/pls"
	"github.com/rivecore/rivecore/rcontext"
)

// ErrNoGPU is returned by Init when no compatible adapter is found; a
// recoverable state the caller can choose the CPU backend instead of.
var ErrNoGPU = errors.New("gpu: no compatible GPU adapter available")

func init() {
	backend.Register(backend.BackendWgpu, func() backend.RenderBackend {
		return &Backend{}
	})
}

// Backend is the gogpu/wgpu-accelerated rendering backend.
type Backend struct {
	instance *core.Instance
	adapter  core.AdapterID
	device   core.DeviceID
	queue    core.QueueID

	info *GPUInfo

	shaderReady bool
	caps        DeviceCapabilities

	log *slog.Logger

	initialized bool
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return backend.BackendWgpu }

// Init acquires a GPU instance, adapter, device and queue, then
// compiles the fine-rasterization shader to SPIR-V. Shader compile
// failure does not fail Init: gpucore.HybridPipeline's CPU sweep
// stands in, the same "ran on GPU metadata but rasterize on CPU"
// posture UseCPUFallback describes.
func (b *Backend) Init() error {
	if b.initialized {
		return nil
	}
	if b.log == nil {
		b.log = slog.Default()
	}

	desc := &gputypes.InstanceDescriptor{Backends: gputypes.BackendsPrimary}
	b.instance = core.NewInstance(desc)

	adapterID, err := b.instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoGPU, err)
	}
	b.adapter = adapterID

	if info, infoErr := getGPUInfo(adapterID); infoErr == nil {
		b.info = info
		b.log.Info("gpu: adapter selected", "name", info.Name, "backend", info.Backend)
	}

	deviceID, err := createDevice(adapterID, "rivecore-gpu-device")
	if err != nil {
		_ = releaseAdapter(adapterID)
		return fmt.Errorf("gpu: device creation failed: %w", err)
	}
	b.device = deviceID
	b.caps = queryCapabilities(deviceID)

	queueID, err := getDeviceQueue(deviceID)
	if err != nil {
		_ = releaseDevice(deviceID)
		_ = releaseAdapter(adapterID)
		return fmt.Errorf("gpu: queue retrieval failed: %w", err)
	}
	b.queue = queueID

	if _, compErr := compileFineShader(); compErr != nil {
		b.log.Warn("gpu: fine shader did not compile, CPU sweep fallback active", "error", compErr)
	} else {
		b.shaderReady = true
	}

	b.initialized = true
	return nil
}

// Close releases the device and adapter.
func (b *Backend) Close() {
	if !b.initialized {
		return
	}
	if !b.device.IsZero() {
		if err := releaseDevice(b.device); err != nil {
			b.log.Warn("gpu: error releasing device", "error", err)
		}
		b.device = core.DeviceID{}
	}
	if !b.adapter.IsZero() {
		if err := releaseAdapter(b.adapter); err != nil {
			b.log.Warn("gpu: error releasing adapter", "error", err)
		}
		b.adapter = core.AdapterID{}
	}
	b.instance = nil
	b.queue = core.QueueID{}
	b.info = nil
	b.shaderReady = false
	b.initialized = false
}

// Capabilities reports raster-ordering and atomics support as true
// once the fine shader compiled, and a sample count of 1. The adapter
// limits queried during Init are reported by DeviceLimits.
func (b *Backend) Capabilities() pls.Capabilities {
	return pls.Capabilities{
		HasRasterOrderingExtension: b.shaderReady,
		HasShaderAtomics:           b.shaderReady,
		MaxSampleCount:             1,
	}
}

// DeviceLimits reports the adapter limits discovered during Init, the
// zero value before Init runs.
func (b *Backend) DeviceLimits() DeviceCapabilities { return b.caps }

// Info reports the selected adapter's identity, or nil before Init
// runs or if adapter info could not be queried.
func (b *Backend) Info() *GPUInfo { return b.info }

// NewContext builds an rcontext.Context whose program compiler hands
// back a *gpucore.HybridPipeline per PipelineKey; each pipeline's fine
// pass runs as its CPU sweep (see compile).
func (b *Backend) NewContext(opts ...rcontext.Option) *rcontext.Context {
	all := append([]rcontext.Option{rcontext.WithProgramCompiler(b.compile)}, opts...)
	return rcontext.New(all...)
}

// program is the GPU backend's compiled rcontext.Program: a
// HybridPipeline sized for this key's viewport plus whether the GPU
// shader path is available for it.
type program struct {
	key      rcontext.PipelineKey
	pipeline *gpucore.HybridPipeline
	onGPU    bool
}

// compile satisfies rcontext.ProgramCompiler, building a HybridPipeline
// against gpucore.NullAdapter whether or not Init has run, so the
// pipeline always uses the CPU sweep; onGPU only records whether the
// fine shader compiled.
func (b *Backend) compile(key rcontext.PipelineKey) (rcontext.Program, error) {
	var adapter gpucore.GPUAdapter = gpucore.NullAdapter{}
	pipeline, err := gpucore.NewHybridPipeline(adapter, &gpucore.PipelineConfig{
		Width:          1,
		Height:         1,
		UseCPUFallback: !b.shaderReady,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: pipeline compile for %+v: %w", key, err)
	}
	return program{key: key, pipeline: pipeline, onGPU: b.shaderReady}, nil
}

// GPUInfo describes the selected adapter, mirroring what the pack's
// GPU backends log at startup.
type GPUInfo struct {
	Name    string
	Vendor  string
	Backend wgputypes.Backend
}

// DeviceCapabilities mirrors gpucore.DeviceCapabilities, queried
// straight from the device rather than hardcoded.
type DeviceCapabilities struct {
	MaxTextureSize uint32
}
