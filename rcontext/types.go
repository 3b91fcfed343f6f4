// Package rcontext implements the per-frame render context: the
// orchestrator that sits between the renderer's recorded draw stream
// and a chosen GPU or CPU backend. It owns ring-buffered GPU resources,
// assigns path/clip ids, and on flush runs the fixed gradient/
// tessellation/atlas/draw/resolve pass sequence against a render target
// under one interlock mode.
package rcontext

import (
	"github.com/rivecore/rivecore/geom"
	"github.com/rivecore/rivecore/paint"
	"github.com/rivecore/rivecore/path"
	"github.com/rivecore/rivecore/pls"
	"github.com/rivecore/rivecore/renderpath"
	"github.com/rivecore/rivecore/target"
)

// LoadAction selects how a render target's existing contents are
// treated at the start of a pass.
type LoadAction uint8

const (
	// LoadClear discards existing contents and clears to ClearColor.
	LoadClear LoadAction = iota
	// LoadPreserve keeps existing contents, used by an intermediate
	// flush so a ring-buffer overflow mid-frame doesn't lose work
	// already composited into the target.
	LoadPreserve
)

// FrameDescriptor configures BeginFrame.
type FrameDescriptor struct {
	// Target is the render target the frame will eventually flush into.
	Target target.RenderTarget

	// Caps reports what the target/backend combination can support,
	// used to pick an InterlockMode.
	Caps pls.Capabilities

	// DisableRasterOrdering forces the context away from RasterOrdering
	// even when Caps would otherwise support it, for testing or to work
	// around a known-buggy driver extension.
	DisableRasterOrdering bool

	// PreferredMode, when HasPreferredMode is set, is chosen as the
	// frame's interlock mode ahead of the capability-driven fallback
	// chain, without consulting Caps.
	PreferredMode pls.InterlockMode
	HasPreferredMode bool

	// CompletionFence is stored with the frame descriptor. Neither
	// BeginFrame nor Flush waits on it, and it is not attached to the
	// ring slots this frame writes into.
	CompletionFence Fence
}

// FlushDescriptor configures Flush.
type FlushDescriptor struct {
	// LoadAction controls whether the draw pass clears or preserves
	// the render target's current contents.
	LoadAction LoadAction

	// ClearColor is used when LoadAction is LoadClear.
	ClearColor [4]float32
}

// Fence is re-exported at the rcontext level so callers need not import
// internal/ring directly to supply a CompletionFence.
type Fence interface {
	Signaled() bool
	Wait()
}

// DrawBatch is one accumulated draw: a path, paint, and transform,
// tagged with the ids and shader key the draw pass will use.
type DrawBatch struct {
	PathID    uint32
	ClipID    uint32
	DrawType  pls.DrawType
	Transform geom.Mat2D
	FillRule  path.FillRule
	Path      *renderpath.Path
	Paint     paint.Paint

	// ShaderFeatures is a caller/paint-derived bitmask (gradient kind,
	// image sampling mode, feathering, ...) folded into the pipeline key
	// alongside the interlock mode's misc flags.
	ShaderFeatures uint32

	key PipelineKey
}

// PipelineKey is the (drawType, shaderFeatures, interlockMode,
// miscFlags) tuple a draw's pipeline is selected by, used as the cache
// key for a backend's compiled program regardless of which GPU
// framework backs it. It is exported so
// a backend package's ProgramCompiler can pattern-match on it.
type PipelineKey struct {
	DrawType       pls.DrawType
	ShaderFeatures uint32
	Mode           pls.InterlockMode
	MiscFlags      uint32
}
