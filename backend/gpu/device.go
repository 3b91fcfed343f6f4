package gpu

import (
	"fmt"

	"github.com/gogpu/wgpu/core"
	"github.com/gogpu/wgpu/types"
)

// getGPUInfo retrieves human-readable information about the adapter.
func getGPUInfo(adapterID core.AdapterID) (*GPUInfo, error) {
	info, err := core.GetAdapterInfo(adapterID)
	if err != nil {
		return nil, fmt.Errorf("gpu: adapter info: %w", err)
	}
	return &GPUInfo{Name: info.Name, Vendor: info.Vendor, Backend: info.Backend}, nil
}

// createDevice requests a logical device from an adapter with default
// limits and no optional features.
func createDevice(adapterID core.AdapterID, label string) (core.DeviceID, error) {
	desc := &types.DeviceDescriptor{
		Label:            label,
		RequiredFeatures: nil,
		RequiredLimits:   types.DefaultLimits(),
	}
	deviceID, err := core.RequestDevice(adapterID, desc)
	if err != nil {
		return core.DeviceID{}, fmt.Errorf("gpu: request device: %w", err)
	}
	return deviceID, nil
}

// getDeviceQueue retrieves the command queue associated with a device.
func getDeviceQueue(deviceID core.DeviceID) (core.QueueID, error) {
	queueID, err := core.GetDeviceQueue(deviceID)
	if err != nil {
		return core.QueueID{}, fmt.Errorf("gpu: device queue: %w", err)
	}
	return queueID, nil
}

// queryCapabilities reads device limits and reports them in the shape
// gpucore.DeviceCapabilities/pls.Capabilities need, rather than just
// logging them as the teacher's CheckDeviceLimits did.
func queryCapabilities(deviceID core.DeviceID) DeviceCapabilities {
	limits, err := core.GetDeviceLimits(deviceID)
	if err != nil {
		return DeviceCapabilities{}
	}
	return DeviceCapabilities{MaxTextureSize: limits.MaxTextureDimension2D}
}

// releaseDevice releases a device and its associated resources.
func releaseDevice(deviceID core.DeviceID) error {
	if deviceID.IsZero() {
		return nil
	}
	if err := core.DeviceDrop(deviceID); err != nil {
		return fmt.Errorf("gpu: release device: %w", err)
	}
	return nil
}

// releaseAdapter releases an adapter.
func releaseAdapter(adapterID core.AdapterID) error {
	if adapterID.IsZero() {
		return nil
	}
	if err := core.AdapterDrop(adapterID); err != nil {
		return fmt.Errorf("gpu: release adapter: %w", err)
	}
	return nil
}
