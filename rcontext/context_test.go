package rcontext

import (
	"errors"
	"testing"

	"github.com/rivecore/rivecore/geom"
	"github.com/rivecore/rivecore/internal/color"
	"github.com/rivecore/rivecore/paint"
	"github.com/rivecore/rivecore/path"
	"github.com/rivecore/rivecore/pls"
	"github.com/rivecore/rivecore/renderpath"
	"github.com/rivecore/rivecore/target"
)

func squareRenderPath() *renderpath.Path {
	p := renderpath.New()
	p.Raw().AddRect(geom.AABB{MinX: 2, MinY: 2, MaxX: 8, MaxY: 8}, path.DirectionCW)
	return p
}

func TestBeginFrameRejectsInvalidTarget(t *testing.T) {
	c := New()
	err := c.BeginFrame(FrameDescriptor{Target: target.NewPixmapTarget(0, 0)})
	if !errors.Is(err, ErrInvalidTargetDimensions) {
		t.Errorf("expected ErrInvalidTargetDimensions, got %v", err)
	}
}

func TestBeginFrameTwiceFails(t *testing.T) {
	c := New()
	pm := target.NewPixmapTarget(4, 4)
	if err := c.BeginFrame(FrameDescriptor{Target: pm}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.BeginFrame(FrameDescriptor{Target: pm}); !errors.Is(err, ErrFrameAlreadyActive) {
		t.Errorf("expected ErrFrameAlreadyActive, got %v", err)
	}
}

func TestDrawWithoutActiveFrameFails(t *testing.T) {
	c := New()
	_, err := c.Draw(pls.DrawPath, geom.Identity(), squareRenderPath(), paint.SolidPaint(color.ColorF32{A: 1}), path.FillNonZero, 0, 0)
	if !errors.Is(err, ErrNoActiveFrame) {
		t.Errorf("expected ErrNoActiveFrame, got %v", err)
	}
}

func TestFlushComposesSolidFillIntoTarget(t *testing.T) {
	c := New()
	pm := target.NewPixmapTarget(10, 10)
	if err := c.BeginFrame(FrameDescriptor{Target: pm}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	red := paint.SolidPaint(color.ColorF32{R: 1, G: 0, B: 0, A: 1})
	if _, err := c.Draw(pls.DrawPath, geom.Identity(), squareRenderPath(), red, path.FillNonZero, 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := c.Flush(FlushDescriptor{LoadAction: LoadClear}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pix := pm.Pixels()
	stride := pm.Stride()
	i := 4*stride + 4*4 // pixel (4,4), inside the [2,8)x[2,8) square
	if pix[i+3] == 0 {
		t.Fatal("expected covered pixel to be non-transparent after flush")
	}
	if pix[i] == 0 {
		t.Errorf("expected covered pixel's red channel to be non-zero, got %v", pix[i:i+4])
	}

	outside := 0*stride + 0*4
	if pix[outside+3] != 0 {
		t.Errorf("expected uncovered pixel to remain transparent, got %v", pix[outside:outside+4])
	}
}

func TestEndFrameReadsBackPixels(t *testing.T) {
	c := New()
	pm := target.NewPixmapTarget(4, 4)
	if err := c.BeginFrame(FrameDescriptor{Target: pm}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	white := paint.SolidPaint(color.ColorF32{R: 1, G: 1, B: 1, A: 1})
	if _, err := c.Draw(pls.DrawPath, geom.Identity(), squareRenderPath(), white, path.FillNonZero, 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dst := make([]byte, len(pm.Pixels()))
	if err := c.EndFrame(dst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, b := range dst {
		if b != 0 {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected EndFrame readback to populate non-zero pixel data")
	}
}

func TestReleaseResourcesEndsActiveFrame(t *testing.T) {
	c := New()
	pm := target.NewPixmapTarget(4, 4)
	if err := c.BeginFrame(FrameDescriptor{Target: pm}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.ReleaseResources()
	if err := c.BeginFrame(FrameDescriptor{Target: pm}); err != nil {
		t.Errorf("expected BeginFrame to succeed after ReleaseResources, got %v", err)
	}
}

func TestAllocClipIDIsMonotonicPerFrame(t *testing.T) {
	c := New()
	pm := target.NewPixmapTarget(4, 4)
	if err := c.BeginFrame(FrameDescriptor{Target: pm}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, err := c.AllocClipID()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := c.AllocClipID()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b <= a {
		t.Errorf("expected increasing clip ids, got %d then %d", a, b)
	}
}

func TestMakeRenderBufferGrowsAndResets(t *testing.T) {
	c := New()
	pm := target.NewPixmapTarget(4, 4)
	if err := c.BeginFrame(FrameDescriptor{Target: pm}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	buf := c.MakeRenderBuffer(BufferKindVertex)
	buf.Write([]byte{1, 2, 3, 4})
	if buf.Len() != 4 {
		t.Errorf("expected length 4 after write, got %d", buf.Len())
	}
	buf.Reset()
	if buf.Len() != 0 {
		t.Errorf("expected length 0 after Reset, got %d", buf.Len())
	}
}

func TestChooseModeFallsBackWithoutRasterOrdering(t *testing.T) {
	mode := chooseMode(FrameDescriptor{Caps: pls.Capabilities{HasShaderAtomics: true}})
	if mode != pls.Atomics {
		t.Errorf("expected fallback to Atomics, got %v", mode)
	}
}

func TestChooseModeHonorsDisableRasterOrdering(t *testing.T) {
	mode := chooseMode(FrameDescriptor{
		DisableRasterOrdering: true,
		Caps:                  pls.Capabilities{HasRasterOrderingExtension: true, HasShaderAtomics: true},
	})
	if mode != pls.Atomics {
		t.Errorf("expected DisableRasterOrdering to skip RasterOrdering, got %v", mode)
	}
}
