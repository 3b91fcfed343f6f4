package cpu

import (
	"testing"

	"github.com/rivecore/rivecore/backend"
	"github.com/rivecore/rivecore/geom"
	"github.com/rivecore/rivecore/internal/color"
	"github.com/rivecore/rivecore/paint"
	"github.com/rivecore/rivecore/path"
	"github.com/rivecore/rivecore/pls"
	"github.com/rivecore/rivecore/rcontext"
	"github.com/rivecore/rivecore/renderpath"
	"github.com/rivecore/rivecore/target"
)

func TestBackendIsRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.BackendCPU) {
		t.Fatal("expected cpu backend to self-register on import")
	}
}

func TestBackendInitNewContextDraw(t *testing.T) {
	b := New()
	if err := b.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer b.Close()

	ctx := b.NewContext()
	pm := target.NewPixmapTarget(8, 8)
	if err := ctx.BeginFrame(rcontext.FrameDescriptor{Target: pm, Caps: b.Capabilities()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rp := renderpath.New()
	rp.Raw().AddRect(geom.AABB{MinX: 1, MinY: 1, MaxX: 5, MaxY: 5}, path.DirectionCW)
	blue := paint.SolidPaint(color.ColorF32{B: 1, A: 1})
	if _, err := ctx.Draw(pls.DrawPath, geom.Identity(), rp, blue, path.FillNonZero, 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ctx.Flush(rcontext.FlushDescriptor{LoadAction: rcontext.LoadClear}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ctx.EndFrame(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBackendCapabilitiesFavorRasterOrdering(t *testing.T) {
	b := New()
	caps := b.Capabilities()
	if !caps.HasRasterOrderingExtension {
		t.Fatal("expected cpu backend to report raster ordering support")
	}
}
