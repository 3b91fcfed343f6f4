package renderer

import (
	"testing"

	"github.com/rivecore/rivecore/geom"
	"github.com/rivecore/rivecore/internal/color"
	"github.com/rivecore/rivecore/paint"
	"github.com/rivecore/rivecore/path"
	"github.com/rivecore/rivecore/renderpath"
	"github.com/rivecore/rivecore/stroke"
)

func rectPath() *renderpath.Path {
	rp := renderpath.New()
	rp.Raw().AddRect(geom.AABB{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}, path.DirectionCW)
	return rp
}

func TestNewRendererIsEmpty(t *testing.T) {
	r := New()
	if !r.IsEmpty() {
		t.Error("expected a fresh renderer to have no commands")
	}
	if r.CurrentTransform() != geom.Identity() {
		t.Error("expected a fresh renderer to start at the identity transform")
	}
}

func TestDrawPathRecordsCommand(t *testing.T) {
	r := New()
	r.DrawPath(rectPath(), paint.SolidPaint(color.ColorF32{R: 1, A: 1}), path.FillNonZero)

	cmds := r.Commands()
	if len(cmds) != 1 {
		t.Fatalf("expected 1 command, got %d", len(cmds))
	}
	if cmds[0].Kind != CommandFill {
		t.Errorf("expected CommandFill, got %v", cmds[0].Kind)
	}
}

func TestTranslateAffectsRecordedTransform(t *testing.T) {
	r := New()
	r.Translate(5, 7)
	r.DrawPath(rectPath(), paint.SolidPaint(color.ColorF32{A: 1}), path.FillNonZero)

	cmds := r.Commands()
	got := cmds[0].Transform.Map(0, 0)
	if got.X != 5 || got.Y != 7 {
		t.Errorf("expected translated origin (5,7), got %+v", got)
	}
}

func TestSaveRestoreRevertsTransform(t *testing.T) {
	r := New()
	r.Translate(5, 0)
	r.Save()
	r.Translate(0, 5)
	r.Restore()
	r.DrawPath(rectPath(), paint.SolidPaint(color.ColorF32{A: 1}), path.FillNonZero)

	cmds := r.Commands()
	got := cmds[0].Transform.Map(0, 0)
	if got.X != 5 || got.Y != 0 {
		t.Errorf("expected restore to revert to translate(5,0), got %+v", got)
	}
}

func TestRestoreOnEmptyStackIsNoop(t *testing.T) {
	r := New()
	r.Restore()
	if r.CurrentTransform() != geom.Identity() {
		t.Error("expected restore on an empty stack to be a no-op")
	}
}

func TestClipPathPushAndPop(t *testing.T) {
	r := New()
	r.ClipPath(rectPath(), path.FillNonZero)
	r.DrawPath(rectPath(), paint.SolidPaint(color.ColorF32{A: 1}), path.FillNonZero)
	r.PopClip()
	r.DrawPath(rectPath(), paint.SolidPaint(color.ColorF32{A: 1}), path.FillNonZero)

	cmds := r.Commands()
	if cmds[0].Kind != CommandPushClip {
		t.Fatalf("expected first command to be CommandPushClip, got %v", cmds[0].Kind)
	}
	if cmds[1].ClipDepth == 0 {
		t.Error("expected the fill issued inside the clip to record a non-zero clip depth")
	}
	if cmds[2].Kind != CommandPopClip {
		t.Fatalf("expected PopClip command, got %v", cmds[2].Kind)
	}
	if cmds[3].ClipDepth != 0 {
		t.Errorf("expected the fill issued after PopClip to have clip depth 0, got %d", cmds[3].ClipDepth)
	}
}

func TestSaveRestoreAlsoRevertsClip(t *testing.T) {
	r := New()
	r.Save()
	r.ClipPath(rectPath(), path.FillNonZero)
	r.Restore()
	r.DrawPath(rectPath(), paint.SolidPaint(color.ColorF32{A: 1}), path.FillNonZero)

	cmds := r.Commands()
	last := cmds[len(cmds)-1]
	if last.ClipDepth != 0 {
		t.Errorf("expected restore to also revert the clip stack, got depth %d", last.ClipDepth)
	}
}

func TestStrokePathRecordsStrokeCommand(t *testing.T) {
	r := New()
	r.StrokePath(rectPath(), paint.SolidPaint(color.ColorF32{A: 1}), stroke.DefaultStyle())
	cmds := r.Commands()
	if cmds[0].Kind != CommandStroke {
		t.Errorf("expected CommandStroke, got %v", cmds[0].Kind)
	}
}

func TestDrawImageRecordsImageCommand(t *testing.T) {
	r := New()
	r.DrawImage(paint.ImagePaint{Image: paint.Image{Width: 1, Height: 1, Pixels: make([]color.ColorF32, 1)}})
	cmds := r.Commands()
	if cmds[0].Kind != CommandImage {
		t.Errorf("expected CommandImage, got %v", cmds[0].Kind)
	}
}

func TestResetClearsCommandsAndState(t *testing.T) {
	r := New()
	r.Translate(3, 4)
	r.DrawPath(rectPath(), paint.SolidPaint(color.ColorF32{A: 1}), path.FillNonZero)
	r.Reset()

	if !r.IsEmpty() {
		t.Error("expected Reset to clear recorded commands")
	}
	if r.CurrentTransform() != geom.Identity() {
		t.Error("expected Reset to restore the identity transform")
	}
}
