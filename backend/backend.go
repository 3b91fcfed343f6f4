package backend

import (
	"errors"

	"github.com/rivecore/rivecore/pls"
	"github.com/rivecore/rivecore/rcontext"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// RenderBackend is the interface for rendering backends.
// It abstracts the rendering implementation, allowing the library to
// support multiple backends (CPU via pls.NewCPUImpl, GPU via wgpu, etc.).
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type RenderBackend interface {
	// Name returns the backend identifier (e.g., "cpu", "wgpu").
	Name() string

	// Init initializes the backend.
	Init() error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()

	// Capabilities reports what this backend's pls.Impl realizes, for
	// filling FrameDescriptor.Caps without hardcoding per-backend knowledge.
	Capabilities() pls.Capabilities

	// NewContext builds an rcontext.Context configured with this
	// backend's program compiler, ready for BeginFrame.
	NewContext(opts ...rcontext.Option) *rcontext.Context
}
