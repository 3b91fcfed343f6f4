package renderer

import (
	"fmt"

	"github.com/rivecore/rivecore/geom"
	"github.com/rivecore/rivecore/internal/color"
	"github.com/rivecore/rivecore/paint"
	"github.com/rivecore/rivecore/path"
	"github.com/rivecore/rivecore/pls"
	"github.com/rivecore/rivecore/rcontext"
	"github.com/rivecore/rivecore/renderpath"
	"github.com/rivecore/rivecore/stroke"
)

// Render replays the recorded command stream into ctx, which must
// already have an active frame (see rcontext.Context.BeginFrame). It
// is the bridge between the immediate-mode recorder and the batch
// accumulator: strokes are expanded to fill outlines before Draw sees
// them, clip pushes allocate a real clip id and submit a clip-update
// batch ahead of anything drawn inside them, and images are drawn as a
// filled rect over the paint's own pixel bounds since a DrawImage
// command carries no path of its own.
//
// Clip compositing itself composes the clip update's alpha-zero batch
// like any other draw (composeBatch does not yet special-case
// DrawClipUpdate to write the Clip plane), so nested clipping is
// plumbed through but does not yet mask sibling draws.
func (r *Renderer) Render(ctx *rcontext.Context) error {
	clipIDs := map[int]uint32{0: 0}
	seq := 0

	for _, cmd := range r.commands {
		switch cmd.Kind {
		case CommandPushClip:
			parentID := clipIDs[cmd.ClipDepth]
			id, err := ctx.AllocClipID()
			if err != nil {
				return fmt.Errorf("renderer: alloc clip id: %w", err)
			}
			clipPaint := paint.SolidPaint(color.ColorF32{})
			clipPaint.Alpha = 0
			if _, err := ctx.Draw(pls.DrawClipUpdate, cmd.Transform, cmd.Path, clipPaint, cmd.FillRule, parentID, 0); err != nil {
				return fmt.Errorf("renderer: clip update draw: %w", err)
			}
			seq++
			clipIDs[seq] = id

		case CommandPopClip:
			// The clip id stays allocated for the rest of the frame;
			// nothing further to do at replay time.

		case CommandFill:
			if _, err := ctx.Draw(pls.DrawPath, cmd.Transform, cmd.Path, cmd.Paint, cmd.FillRule, clipIDs[cmd.ClipDepth], 0); err != nil {
				return fmt.Errorf("renderer: fill draw: %w", err)
			}

		case CommandStroke:
			expanded := stroke.NewExpander(cmd.Stroke).Expand(cmd.Path.Raw())
			outline := renderpath.FromRawPath(expanded)
			if _, err := ctx.Draw(pls.DrawPath, cmd.Transform, outline, cmd.Paint, path.FillNonZero, clipIDs[cmd.ClipDepth], 0); err != nil {
				return fmt.Errorf("renderer: stroke draw: %w", err)
			}

		case CommandImage:
			rp := renderpath.New()
			w := float32(cmd.Image.Image.Width)
			h := float32(cmd.Image.Image.Height)
			rp.Raw().AddRect(geom.AABB{MinX: 0, MinY: 0, MaxX: w, MaxY: h}, path.DirectionCW)
			if _, err := ctx.Draw(pls.DrawImage, cmd.Transform, rp, paint.ImagePaintOf(cmd.Image), path.FillNonZero, clipIDs[cmd.ClipDepth], 0); err != nil {
				return fmt.Errorf("renderer: image draw: %w", err)
			}
		}
	}
	return nil
}
