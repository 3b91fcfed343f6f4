package backend

// Backend name constants.
const (
	// BackendCPU is the name of the single-threaded pls.Impl backend.
	BackendCPU = "cpu"
	// BackendWgpu is the name of the GPU backend (gogpu/wgpu).
	BackendWgpu = "wgpu"
)
