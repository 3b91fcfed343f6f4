package rcontext

import (
	"fmt"
	"log/slog"

	"github.com/rivecore/rivecore/geom"
	"github.com/rivecore/rivecore/paint"
	"github.com/rivecore/rivecore/path"
	"github.com/rivecore/rivecore/pls"
	"github.com/rivecore/rivecore/renderpath"
	"github.com/rivecore/rivecore/target"
)

// ErrFrameAlreadyActive is returned by BeginFrame when called twice
// without an intervening Flush or ReleaseResources.
var ErrFrameAlreadyActive = fmt.Errorf("rcontext: beginFrame called while a frame is already active")

// ErrNoActiveFrame is returned by Flush, Draw, or ReleaseResources when
// no frame is active.
var ErrNoActiveFrame = fmt.Errorf("rcontext: no active frame")

// ErrInvalidTargetDimensions is returned by BeginFrame when the frame's
// target reports non-positive width or height.
var ErrInvalidTargetDimensions = fmt.Errorf("rcontext: target has invalid dimensions")

// Context is the per-frame render orchestrator: it accumulates draw
// batches issued by a renderer, owns ring-buffered GPU resources across
// frames, and on Flush runs the fixed gradient/tessellation/atlas/draw/
// resolve pass sequence against the frame's render target.
type Context struct {
	log *slog.Logger

	compile ProgramCompiler
	cache   *programCache

	buffers bufferRings

	active    bool
	desc      FrameDescriptor
	mode      pls.InterlockMode
	plsImpl   pls.Impl
	plsCtx    *pls.Context
	loadAction LoadAction

	nextPathID uint32
	batches    []DrawBatch

	// ramps accumulates one gradient ramp per gradient-painted draw
	// batch, in draw order (repeated ramps are not merged), for the
	// gradient pass.
	ramps []paint.Ramp
}

// Option configures a Context at construction time.
type Option func(*Context)

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) { c.log = l }
}

// WithProgramCompiler installs the backend hook used to resolve a
// PipelineKey to a compiled Program on a cache miss. Without one, every
// lookup falls back to the logged-once no-op program.
func WithProgramCompiler(compile ProgramCompiler) Option {
	return func(c *Context) { c.compile = compile }
}

// New builds a Context with no active frame and an empty program cache.
func New(opts ...Option) *Context {
	c := &Context{log: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	if c.compile == nil {
		c.compile = func(PipelineKey) (Program, error) { return nil, nil }
	}
	c.cache = newProgramCache(c.compile, func(key PipelineKey) {
		c.log.Warn("rcontext: no program for pipeline key, using no-op",
			"drawType", key.DrawType, "shaderFeatures", key.ShaderFeatures,
			"interlockMode", key.Mode, "miscFlags", key.MiscFlags)
	})
	return c
}

// chooseMode picks an InterlockMode from desc's preference and
// capabilities: the preferred mode if one is set, else RasterOrdering
// when allowed and supported, else Atomics when shader atomics are
// available, else MSAA when more than one sample is supported, else
// Clockwise.
func chooseMode(desc FrameDescriptor) pls.InterlockMode {
	if desc.HasPreferredMode {
		return desc.PreferredMode
	}
	if !desc.DisableRasterOrdering && desc.Caps.HasRasterOrderingExtension {
		return pls.RasterOrdering
	}
	if desc.Caps.HasShaderAtomics {
		return pls.Atomics
	}
	if desc.Caps.MaxSampleCount > 1 {
		return pls.MSAA
	}
	return pls.Clockwise
}

// BeginFrame validates the target, stashes desc, resets accumulation
// state, and selects the frame's interlock mode from desc's
// capabilities. It fails if called twice without a Flush or
// ReleaseResources in between.
func (c *Context) BeginFrame(desc FrameDescriptor) error {
	if c.active {
		return ErrFrameAlreadyActive
	}
	if desc.Target == nil || desc.Target.Width() <= 0 || desc.Target.Height() <= 0 {
		return ErrInvalidTargetDimensions
	}

	mode := chooseMode(desc)
	plsImpl := pls.NewCPUImpl(mode)
	if !plsImpl.SupportsRasterOrdering(desc.Caps) && mode == pls.RasterOrdering {
		mode = pls.Atomics
		plsImpl = pls.NewCPUImpl(mode)
	}

	plsDesc := pls.Descriptor{Mode: mode, Width: desc.Target.Width(), Height: desc.Target.Height()}
	plsCtx := pls.NewContext(plsDesc)
	plsImpl.Activate(plsCtx, plsDesc)

	c.desc = desc
	c.mode = mode
	c.plsImpl = plsImpl
	c.plsCtx = plsCtx
	c.active = true
	c.nextPathID = 1
	c.batches = c.batches[:0]
	c.ramps = c.ramps[:0]

	c.log.Debug("rcontext: begin frame",
		"width", desc.Target.Width(), "height", desc.Target.Height(), "mode", mode)
	return nil
}

// AllocClipID returns the next unused clip id for the active frame,
// called by the renderer when a clipPath push needs a fresh id; popping
// restores the caller's previously-held id rather than calling this.
func (c *Context) AllocClipID() (uint32, error) {
	if !c.active {
		return 0, ErrNoActiveFrame
	}
	return uint32(c.plsCtx.AllocClipID()), nil
}

// MakeRenderPath wraps raw as a cacheable RenderPath handle.
func (c *Context) MakeRenderPath(raw *path.RawPath) *renderpath.Path {
	return renderpath.FromRawPath(raw)
}

// MakeRenderPaint returns p unchanged; the factory exists so callers go
// through the context for every resource type even though paint.Paint
// needs no backend-specific allocation.
func (c *Context) MakeRenderPaint(p paint.Paint) paint.Paint { return p }

// MakeRenderBuffer acquires the next ring slot for kind and returns its
// (reset, ready-to-write) backing buffer.
func (c *Context) MakeRenderBuffer(kind BufferKind) *RenderBuffer {
	_, buf := c.buffers.acquire(kind)
	return buf
}

// MakeImageTexture builds an ImageTexture handle from a CPU-side image
// paint, premultiplying alpha for the wire format the draw pass expects.
func (c *Context) MakeImageTexture(img paint.Image) *ImageTexture {
	pixels := make([]byte, img.Width*img.Height*4)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			px := img.At(x, y)
			i := (y*img.Width + x) * 4
			pixels[i+0] = f32ToByte(px.R * px.A)
			pixels[i+1] = f32ToByte(px.G * px.A)
			pixels[i+2] = f32ToByte(px.B * px.A)
			pixels[i+3] = f32ToByte(px.A)
		}
	}
	return &ImageTexture{Width: img.Width, Height: img.Height, Pixels: pixels}
}

func f32ToByte(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}

// Draw accumulates one draw batch: it assigns a path id, a clip id
// matching the renderer's current clip depth, folds paintShaderFeatures
// into the pipeline key alongside this frame's interlock mode and the
// PLS impl's misc flags, and records the batch in call order.
func (c *Context) Draw(drawType pls.DrawType, transform geom.Mat2D, rp *renderpath.Path, pnt paint.Paint, fillRule path.FillRule, clipID uint32, shaderFeatures uint32) (pathID uint32, err error) {
	if !c.active {
		return 0, ErrNoActiveFrame
	}

	pathID = c.nextPathID
	c.nextPathID++

	if pnt.Kind == paint.KindLinearGradient {
		c.ramps = append(c.ramps, pnt.Linear.Ramp)
	} else if pnt.Kind == paint.KindRadialGradient {
		c.ramps = append(c.ramps, pnt.Radial.Ramp)
	} else if pnt.Kind == paint.KindSweepGradient {
		c.ramps = append(c.ramps, pnt.Sweep.Ramp)
	}

	miscFlags := c.plsImpl.ShaderMiscFlags(pls.Descriptor{Mode: c.mode,
		Width: c.desc.Target.Width(), Height: c.desc.Target.Height()}, drawType)

	key := PipelineKey{DrawType: drawType, ShaderFeatures: shaderFeatures, Mode: c.mode, MiscFlags: miscFlags}

	c.batches = append(c.batches, DrawBatch{
		PathID: pathID, ClipID: clipID, DrawType: drawType, Transform: transform,
		FillRule: fillRule, Path: rp, Paint: pnt, ShaderFeatures: shaderFeatures, key: key,
	})
	return pathID, nil
}

// Flush runs the fixed gradient/tessellation/atlas/draw/resolve pass
// sequence against the frame's target, then clears accumulated batches
// so the context is ready for the next Draw/Flush cycle without a new
// BeginFrame (an "intermediate flush", used when a ring overflows
// mid-frame; desc.LoadAction should be LoadPreserve in that case).
func (c *Context) Flush(desc FlushDescriptor) error {
	if !c.active {
		return ErrNoActiveFrame
	}
	c.loadAction = desc.LoadAction

	c.runGradientPass()
	c.runTessellationPass()
	c.runAtlasPass()
	if err := c.runDrawPass(desc); err != nil {
		return err
	}
	c.runResolvePass()

	c.batches = c.batches[:0]
	c.ramps = c.ramps[:0]
	return nil
}

// EndFrame finishes the frame begun by BeginFrame: if batches are still
// pending it flushes them with LoadClear, copies the target's pixels
// into pixelData converted from premultiplied to straight alpha when
// pixelData is non-nil, and marks the frame inactive.
func (c *Context) EndFrame(pixelData []byte) error {
	if !c.active {
		return ErrNoActiveFrame
	}
	if len(c.batches) > 0 {
		if err := c.Flush(FlushDescriptor{LoadAction: LoadClear}); err != nil {
			return err
		}
	}
	if pixelData != nil {
		c.readBack(pixelData)
	}
	c.plsImpl.Deactivate(c.plsCtx, pls.Descriptor{Mode: c.mode,
		Width: c.desc.Target.Width(), Height: c.desc.Target.Height()})
	c.active = false
	return nil
}

// ReleaseResources drops all ring buffers and cached programs so the
// next frame re-allocates them at minimum size, cancelling any
// in-progress frame without flushing it.
func (c *Context) ReleaseResources() {
	c.buffers = bufferRings{}
	c.cache.Purge()
	c.batches = nil
	c.ramps = nil
	c.active = false
}

// runGradientPass reserves 16 zero bytes of the gradient ramp buffer
// for each ramp recorded this flush. No stop data is written; gradient
// colors are sampled from paint.Ramp at draw time.
func (c *Context) runGradientPass() {
	if len(c.ramps) == 0 {
		return
	}
	buf := c.MakeRenderBuffer(BufferKindGradientRamp)
	for range c.ramps {
		// Real stop data is sampled directly from paint.Ramp at draw
		// time on the CPU backend; the buffer write here only reserves
		// ring-buffer space so ring overflow accounting matches a GPU
		// backend that would need the bytes materialized.
		buf.Write(make([]byte, 16))
	}
}

// runTessellationPass expands each batch's path into flat triangles,
// populating renderpath.Path's cache so the draw pass reads pre-baked
// geometry instead of re-flattening per draw.
func (c *Context) runTessellationPass() {
	for i := range c.batches {
		b := &c.batches[i]
		if b.Path == nil {
			continue
		}
		switch b.DrawType {
		case pls.DrawPath:
			_, _ = b.Path.FillTriangles(b.FillRule)
		}
	}
}

// runAtlasPass is a no-op until feathering is wired through the
// renderer; a feather-bearing paint would render its mask into a
// transient atlas texture here.
func (c *Context) runAtlasPass() {}

// runDrawPass binds the render target, resolves each batch's pipeline
// program from the shared cache, and composes it into the PLS color
// plane in recording order.
func (c *Context) runDrawPass(desc FlushDescriptor) error {
	if desc.LoadAction == LoadClear {
		clearPlanes(c.plsCtx, desc.ClearColor)
	}

	for i := range c.batches {
		b := &c.batches[i]
		_ = c.cache.lookup(b.key)
		if err := composeBatch(c.plsCtx, b); err != nil {
			return fmt.Errorf("rcontext: draw pass batch %d: %w", b.PathID, err)
		}
	}
	return nil
}

// runResolvePass composes the PLS color plane into the render target
// when the target is CPU-backed; for atomics/clockwiseAtomic modes a
// GPU backend would instead issue a fullscreen resolve draw here, and
// for MSAA it would resolve to single-sample. The CPU backend already
// composes directly into the plane buffer in draw order, so resolve
// only needs to copy out.
func (c *Context) runResolvePass() {
	pm, ok := c.desc.Target.(*target.PixmapTarget)
	if !ok {
		return
	}
	copyPlanesToPixmap(c.plsCtx, pm)
}

func (c *Context) readBack(dst []byte) {
	pm, ok := c.desc.Target.(*target.PixmapTarget)
	if !ok {
		return
	}
	n := copy(dst, pm.Pixels())
	for i := 0; i+3 < n; i += 4 {
		a := uint16(dst[i+3])
		if a == 0 || a == 255 {
			continue
		}
		for k := i; k < i+3; k++ {
			v := (uint16(dst[k])*255 + a/2) / a
			if v > 255 {
				v = 255
			}
			dst[k] = byte(v)
		}
	}
}
