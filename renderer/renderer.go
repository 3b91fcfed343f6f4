// Package renderer implements a stateful, immediate-mode drawing
// recorder: save/restore, transform stacking, clipping, and draw calls
// accumulate into a flat command stream a backend (CPU or GPU) later
// replays against a render target. It mirrors the pipeline's render
// package Renderer interface but targets renderpath/paint instead of
// a serialized scene encoding.
package renderer

import (
	"github.com/rivecore/rivecore/geom"
	"github.com/rivecore/rivecore/paint"
	"github.com/rivecore/rivecore/path"
	"github.com/rivecore/rivecore/renderpath"
	"github.com/rivecore/rivecore/stroke"
)

// CommandKind identifies which variant a Command holds.
type CommandKind uint8

const (
	CommandFill CommandKind = iota
	CommandStroke
	CommandImage
	CommandPushClip
	CommandPopClip
)

// Command is one recorded drawing operation, already resolved against
// the state (transform, clip depth) active when it was issued.
type Command struct {
	Kind      CommandKind
	Path      *renderpath.Path
	Transform geom.Mat2D
	FillRule  path.FillRule
	Stroke    stroke.Style
	Paint     paint.Paint
	Image     paint.ImagePaint
	ClipDepth int
}

// state is one entry of the save/restore stack.
type state struct {
	transform geom.Mat2D
	clipDepth int
}

// Renderer records drawing commands against a transform/clip stack,
// the way an immediate-mode 2D API (save/restore/transform/clipPath/
// drawPath) is normally implemented on top of a retained command list.
type Renderer struct {
	commands []Command
	stack    []state
	cur      state
	clipSeq  int
}

// New returns an empty Renderer with the identity transform and no
// active clip.
func New() *Renderer {
	return &Renderer{
		cur: state{transform: geom.Identity()},
	}
}

// Reset clears all recorded commands and resets the transform/clip
// state to identity, without releasing the underlying command slice.
func (r *Renderer) Reset() {
	r.commands = r.commands[:0]
	r.stack = r.stack[:0]
	r.cur = state{transform: geom.Identity()}
	r.clipSeq = 0
}

// Save pushes a copy of the current transform and clip depth.
func (r *Renderer) Save() {
	r.stack = append(r.stack, r.cur)
}

// Restore pops the most recently saved transform and clip depth. It is
// a no-op if the stack is empty.
func (r *Renderer) Restore() {
	n := len(r.stack)
	if n == 0 {
		return
	}
	r.cur = r.stack[n-1]
	r.stack = r.stack[:n-1]
}

// Transform post-multiplies the current transform by m: subsequent
// drawing is affected by m composed with whatever was already active.
func (r *Renderer) Transform(m geom.Mat2D) {
	r.cur.transform = r.cur.transform.Mul(m)
}

// Translate is shorthand for Transform(geom.Translate(dx, dy)).
func (r *Renderer) Translate(dx, dy float32) {
	r.Transform(geom.Translate(dx, dy))
}

// Scale is shorthand for Transform(geom.Scaling(sx, sy)).
func (r *Renderer) Scale(sx, sy float32) {
	r.Transform(geom.Scaling(sx, sy))
}

// CurrentTransform returns the transform that will be baked into the
// next drawing command.
func (r *Renderer) CurrentTransform() geom.Mat2D {
	return r.cur.transform
}

// ClipPath intersects the current clip with rp under the active
// transform and rule. The clip remains in effect until the matching
// Restore (or explicit PopClip).
func (r *Renderer) ClipPath(rp *renderpath.Path, rule path.FillRule) {
	r.commands = append(r.commands, Command{
		Kind:      CommandPushClip,
		Path:      rp,
		Transform: r.cur.transform,
		FillRule:  rule,
		ClipDepth: r.cur.clipDepth,
	})
	r.clipSeq++
	r.cur.clipDepth = r.clipSeq
}

// PopClip explicitly ends the most recently pushed clip region without
// needing a matching Save/Restore pair.
func (r *Renderer) PopClip() {
	if r.cur.clipDepth == 0 {
		return
	}
	r.commands = append(r.commands, Command{Kind: CommandPopClip, ClipDepth: r.cur.clipDepth})
	// Clip depth n was assigned by the n-th ClipPath call, whose
	// command recorded the depth that was active before it.
	parent, pushes := 0, 0
	for _, cmd := range r.commands {
		if cmd.Kind == CommandPushClip {
			pushes++
			if pushes == r.cur.clipDepth {
				parent = cmd.ClipDepth
				break
			}
		}
	}
	r.cur.clipDepth = parent
}

// DrawPath fills rp with p under rule, the current transform, and the
// current clip.
func (r *Renderer) DrawPath(rp *renderpath.Path, p paint.Paint, rule path.FillRule) {
	r.commands = append(r.commands, Command{
		Kind:      CommandFill,
		Path:      rp,
		Transform: r.cur.transform,
		FillRule:  rule,
		Paint:     p,
		ClipDepth: r.cur.clipDepth,
	})
}

// StrokePath strokes rp with p and style under the current transform
// and clip.
func (r *Renderer) StrokePath(rp *renderpath.Path, p paint.Paint, style stroke.Style) {
	r.commands = append(r.commands, Command{
		Kind:      CommandStroke,
		Path:      rp,
		Transform: r.cur.transform,
		Stroke:    style,
		Paint:     p,
		ClipDepth: r.cur.clipDepth,
	})
}

// DrawImage draws img under the current transform and clip; img.ToLocal
// is composed after the current transform to map device space into
// image pixel space.
func (r *Renderer) DrawImage(img paint.ImagePaint) {
	r.commands = append(r.commands, Command{
		Kind:      CommandImage,
		Transform: r.cur.transform,
		Image:     img,
		ClipDepth: r.cur.clipDepth,
	})
}

// Commands returns the recorded command stream in issue order. The
// returned slice must not be retained across a subsequent Reset.
func (r *Renderer) Commands() []Command {
	return r.commands
}

// IsEmpty reports whether no drawing commands have been recorded.
func (r *Renderer) IsEmpty() bool {
	return len(r.commands) == 0
}
