package pls

// cpuImpl is the shared CPU realization of all five interlock modes.
// A CPU "fragment loop" is single-threaded, so there is never actual
// write concurrency to resolve: RasterOrdering, Atomics, Clockwise, and
// ClockwiseAtomic all degrade to the same plain sequential accumulation
// that RasterOrdering specifies for hardware. They differ only in
// which shader misc flags they report, so a shared-shader-key cache
// (keyed on those flags) still produces distinct entries the way it
// would against a real GPU backend.
type cpuImpl struct {
	mode InterlockMode
}

// NewCPUImpl returns the CPU-backed pls.Impl for mode. All five modes
// share one underlying per-pixel loop; only SupportsRasterOrdering and
// ShaderMiscFlags vary per mode.
func NewCPUImpl(mode InterlockMode) Impl {
	return &cpuImpl{mode: mode}
}

// SupportsRasterOrdering reports true for every mode except MSAA: a
// single-threaded CPU loop trivially provides the ordering guarantee
// RasterOrdering needs, regardless of what the mode is nominally
// modeling for GPU purposes.
func (c *cpuImpl) SupportsRasterOrdering(caps Capabilities) bool {
	return c.mode != MSAA
}

// Activate clears the plane buffer (color/clip/scratch/coverage) for a
// fresh frame. MSAA additionally needs its buffer's Coverage plane
// reinterpreted as a multisample count rather than a fixed-point
// coverage accumulator, but since CPU has no real multisampling this
// is a semantic note rather than a code difference.
func (c *cpuImpl) Activate(ctx *Context, desc Descriptor) {
	ctx.Planes.Clear()
	ctx.Planes.ClearClip()
	ctx.rasterOn = c.SupportsRasterOrdering(Capabilities{})
}

// Deactivate is a no-op on CPU: there is no hardware interlock
// extension to disable and no tile memory to flush back to a render
// target (the draw already wrote straight into the plane buffer that
// backend/cpu reads out).
func (c *cpuImpl) Deactivate(ctx *Context, desc Descriptor) {
	ctx.rasterOn = false
}

// ShaderMiscFlags reports which per-draw behaviors drawType needs
// under this mode, used as part of the pipeline cache key even though
// the CPU path doesn't compile a real shader for it.
func (c *cpuImpl) ShaderMiscFlags(desc Descriptor, drawType DrawType) uint32 {
	var flags uint32
	if drawType == DrawClipUpdate {
		flags |= MiscFlagClip
	}
	switch c.mode {
	case Atomics, ClockwiseAtomic:
		flags |= MiscFlagNeedsAtomic
	}
	switch c.mode {
	case Clockwise, ClockwiseAtomic:
		flags |= MiscFlagClockwiseOnly
	}
	if c.mode == MSAA {
		flags |= MiscFlagMSAA
	}
	return flags
}

// EnsureRasterOrderingEnabled records whether raster ordering is
// currently active; on CPU this has no physical effect since ordering
// is always implicit, but the flag still gates whether the per-pixel
// loop would be allowed to reorder writes in a hypothetical
// parallelized CPU backend.
func (c *cpuImpl) EnsureRasterOrderingEnabled(ctx *Context, desc Descriptor, enabled bool) {
	ctx.rasterOn = enabled
}

// Barrier is a no-op on CPU: sequential execution already orders every
// pass correctly relative to the last.
func (c *cpuImpl) Barrier(desc Descriptor) {}

var _ Impl = (*cpuImpl)(nil)

// ComposeColor writes src over the color plane p using
// straight-alpha source-over compositing, the rule every interlock
// mode uses once it has decided this write may proceed.
func ComposeColor(p *Planes, src [4]uint8) {
	srcA := float32(src[3]) / 255
	if srcA >= 1 {
		p.Color = src
		return
	}
	if srcA <= 0 {
		return
	}
	dstA := float32(p.Color[3]) / 255
	outA := srcA + dstA*(1-srcA)
	if outA <= 0 {
		p.Color = [4]uint8{}
		return
	}
	for i := 0; i < 3; i++ {
		s := float32(src[i]) / 255
		d := float32(p.Color[i]) / 255
		out := (s*srcA + d*dstA*(1-srcA)) / outA
		p.Color[i] = clampByte(out * 255)
	}
	p.Color[3] = clampByte(outA * 255)
}

func clampByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
