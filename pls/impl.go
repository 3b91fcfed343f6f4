package pls

// InterlockMode selects the strategy used to order overlapping
// fragment writes to the same pixel's planes within one draw.
type InterlockMode uint8

const (
	// RasterOrdering relies on a GPU extension (rasterizer order views /
	// fragment shader interlock) to serialize same-pixel writes in
	// submission order, same as a single-threaded CPU loop already does.
	RasterOrdering InterlockMode = iota
	// Atomics resolves ordering with atomic compare-and-swap loops over
	// a packed plane value instead of a hardware ordering guarantee.
	Atomics
	// Clockwise restricts the technique to shapes with guaranteed
	// clockwise, non-self-intersecting contours, letting the shader
	// skip a full interlock in exchange for that restriction.
	Clockwise
	// ClockwiseAtomic combines Clockwise's shape restriction with an
	// atomic resolve for the cases that still need one (e.g. clip).
	ClockwiseAtomic
	// MSAA sidesteps interlock entirely via hardware stencil-and-cover
	// with multisample resolve, the one mode with no per-pixel ordering
	// concern at all.
	MSAA
)

// String returns a human-readable interlock mode name.
func (m InterlockMode) String() string {
	switch m {
	case RasterOrdering:
		return "RasterOrdering"
	case Atomics:
		return "Atomics"
	case Clockwise:
		return "Clockwise"
	case ClockwiseAtomic:
		return "ClockwiseAtomic"
	case MSAA:
		return "MSAA"
	default:
		return "Unknown"
	}
}

// DrawType distinguishes the kinds of draws a Descriptor's shader
// misc flags can vary by.
type DrawType uint8

const (
	DrawPath DrawType = iota
	DrawImage
	DrawClipUpdate
)

// Capabilities reports what a target/backend combination can support,
// so BeginFrame can fall back away from RasterOrdering when the
// underlying GPU lacks the extension it needs.
type Capabilities struct {
	HasRasterOrderingExtension bool
	HasShaderAtomics           bool
	MaxSampleCount             int
}

// Descriptor carries the per-frame parameters an Impl needs to
// activate, emit shader flags for, and tear down pixel-local storage.
type Descriptor struct {
	Mode          InterlockMode
	Width, Height int
	SampleCount   int
}

// Context is the mutable state an Impl operates on: the plane buffer
// backing pixel-local storage, plus the next free clip id.
type Context struct {
	Planes    *Buffer
	nextClip  uint16
	rasterOn  bool
}

// NewContext allocates a fresh plane buffer sized to desc.
func NewContext(desc Descriptor) *Context {
	return &Context{Planes: NewBuffer(desc.Width, desc.Height), nextClip: 1}
}

// AllocClipID returns the next unused clip id, used when pushing a new
// clip region onto the clip plane.
func (c *Context) AllocClipID() uint16 {
	id := c.nextClip
	c.nextClip++
	return id
}

// Impl is a backend's implementation of one interlock mode: how it
// prepares pixel-local storage for a frame, what shader misc flags a
// draw needs, and how it inserts barriers between passes that can't
// rely on hardware ordering alone.
type Impl interface {
	// SupportsRasterOrdering reports whether caps allows this Impl to
	// run in raster-ordering mode at all.
	SupportsRasterOrdering(caps Capabilities) bool

	// Activate prepares ctx's pixel-local storage for a new frame under desc.
	Activate(ctx *Context, desc Descriptor)

	// Deactivate tears down any frame-scoped state Activate set up.
	Deactivate(ctx *Context, desc Descriptor)

	// ShaderMiscFlags returns the misc-flags bitfield a draw of drawType
	// needs under this Impl and desc, mirroring how the GPU shader
	// variant is selected by a (drawType, interlockMode, flags) key.
	ShaderMiscFlags(desc Descriptor, drawType DrawType) uint32

	// EnsureRasterOrderingEnabled toggles the raster-ordering extension
	// mid-frame, e.g. disabling it temporarily around an MSAA resolve.
	EnsureRasterOrderingEnabled(ctx *Context, desc Descriptor, enabled bool)

	// Barrier inserts whatever synchronization this Impl needs between
	// two passes that read/write the same pixel-local storage.
	Barrier(desc Descriptor)
}

// Shader misc flag bits, shared across all Impls; a given Impl sets
// the subset relevant to its interlock strategy.
const (
	MiscFlagClip uint32 = 1 << iota
	MiscFlagNeedsAtomic
	MiscFlagClockwiseOnly
	MiscFlagMSAA
)
