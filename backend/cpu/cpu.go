// Package cpu provides the always-available, single-threaded backend:
// it realizes every pls.InterlockMode through pls.NewCPUImpl and
// resolves rcontext.PipelineKey lookups to a trivial program value,
// since the CPU draw pass composes directly into the PLS color plane
// rather than dispatching a compiled shader.
package cpu

import (
	"log/slog"

	"github.com/rivecore/rivecore/backend"
	"github.com/rivecore/rivecore/pls"
	"github.com/rivecore/rivecore/rcontext"
)

// init registers the CPU backend on package import.
func init() {
	backend.Register(backend.BackendCPU, func() backend.RenderBackend {
		return &Backend{}
	})
}

// Backend is the CPU-based rendering backend. It has no GPU device to
// own, so Init/Close only toggle a readiness flag.
type Backend struct {
	initialized bool
	log         *slog.Logger
}

// New creates a new CPU rendering backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return backend.BackendCPU }

// Init marks the backend ready. The CPU backend has no device or
// driver to acquire, so this never fails.
func (b *Backend) Init() error {
	b.initialized = true
	if b.log == nil {
		b.log = slog.Default()
	}
	return nil
}

// Close marks the backend unusable. There is no GPU resource to
// release.
func (b *Backend) Close() {
	b.initialized = false
}

// Capabilities reports what pls.cpuImpl (via pls.NewCPUImpl) supports:
// every mode's ordering guarantee is trivially satisfied by a
// single-threaded loop, so both extension-gated capabilities read
// true, and there is no real multisampling to report a count for.
func (b *Backend) Capabilities() pls.Capabilities {
	return pls.Capabilities{
		HasRasterOrderingExtension: true,
		HasShaderAtomics:           true,
		MaxSampleCount:             1,
	}
}

// NewContext builds an rcontext.Context with this backend's program
// compiler installed, in addition to any caller-supplied options.
func (b *Backend) NewContext(opts ...rcontext.Option) *rcontext.Context {
	all := append([]rcontext.Option{rcontext.WithProgramCompiler(b.compile)}, opts...)
	return rcontext.New(all...)
}

// program is the CPU backend's opaque rcontext.Program: it carries
// nothing beyond the key it was resolved for, useful only for a log
// line or an assertion in tests that a lookup actually hit the
// compiler rather than returning rcontext's built-in nil fallback.
type program struct {
	key rcontext.PipelineKey
}

// compile satisfies rcontext.ProgramCompiler. Every PipelineKey
// resolves successfully: the CPU draw pass (rcontext's composeBatch)
// rasterizes and composes paints directly against the PLS planes, so
// there is no real shader variant to fail to find.
func (b *Backend) compile(key rcontext.PipelineKey) (rcontext.Program, error) {
	return program{key: key}, nil
}
