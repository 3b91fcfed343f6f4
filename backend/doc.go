// Package backend provides a pluggable rendering backend abstraction
// over rcontext.Context.
//
// A backend supplies the concrete pls.Impl realization and the
// rcontext.ProgramCompiler a platform can offer: backend/cpu's
// single-threaded software path, or backend/gpu's gogpu/wgpu-backed
// adapter/device/shader pipeline. Backends are registered via init()
// functions and selected at runtime.
//
// # Backend Registration
//
// Backends register themselves on import:
//
//	import _ "github.com/rivecore/rivecore/backend/cpu"
//	import _ "github.com/rivecore/rivecore/backend/gpu"
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name:
//
//	b := backend.Default()
//	if err := b.Init(); err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	ctx := b.NewContext()
//
// # Available Backends
//
// - "cpu": single-threaded pls.Impl realization (always available)
// - "wgpu": acquires a gogpu/wgpu adapter and device (Init returns
//   gpu.ErrNoGPU when no compatible adapter is found); its programs
//   rasterize through gpucore's CPU sweep
package backend
