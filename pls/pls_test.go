package pls

import "testing"

func TestPackUnpackClipRoundTrip(t *testing.T) {
	packed := PackClip(42, 1000)
	id, cov := UnpackClip(packed)
	if id != 42 || cov != 1000 {
		t.Errorf("expected (42, 1000), got (%d, %d)", id, cov)
	}
}

func TestBufferAtOutOfBoundsIsNil(t *testing.T) {
	b := NewBuffer(4, 4)
	if b.At(-1, 0) != nil || b.At(4, 0) != nil {
		t.Error("expected out-of-bounds At to return nil")
	}
	if b.At(0, 0) == nil {
		t.Error("expected in-bounds At to return non-nil")
	}
}

func TestBufferClearResetsAllPixels(t *testing.T) {
	b := NewBuffer(2, 2)
	b.At(0, 0).Color = [4]uint8{1, 2, 3, 4}
	b.Clear()
	if b.At(0, 0).Color != [4]uint8{} {
		t.Error("expected Clear to zero every pixel's planes")
	}
}

func TestBufferClearClipSetsFullCoverage(t *testing.T) {
	b := NewBuffer(1, 1)
	b.ClearClip()
	id, cov := UnpackClip(b.At(0, 0).Clip)
	if id != 0 || cov != 0xFFFF {
		t.Errorf("expected (0, 0xFFFF), got (%d, %d)", id, cov)
	}
}

func TestCPUImplSupportsRasterOrderingExceptMSAA(t *testing.T) {
	for _, mode := range []InterlockMode{RasterOrdering, Atomics, Clockwise, ClockwiseAtomic} {
		impl := NewCPUImpl(mode)
		if !impl.SupportsRasterOrdering(Capabilities{}) {
			t.Errorf("expected %v to support raster ordering on CPU", mode)
		}
	}
	if NewCPUImpl(MSAA).SupportsRasterOrdering(Capabilities{}) {
		t.Error("expected MSAA not to claim raster-ordering support")
	}
}

func TestCPUImplShaderMiscFlagsVaryByMode(t *testing.T) {
	desc := Descriptor{Mode: Atomics, Width: 1, Height: 1}
	atomicFlags := NewCPUImpl(Atomics).ShaderMiscFlags(desc, DrawPath)
	if atomicFlags&MiscFlagNeedsAtomic == 0 {
		t.Error("expected Atomics mode to set MiscFlagNeedsAtomic")
	}

	cwFlags := NewCPUImpl(Clockwise).ShaderMiscFlags(desc, DrawPath)
	if cwFlags&MiscFlagClockwiseOnly == 0 {
		t.Error("expected Clockwise mode to set MiscFlagClockwiseOnly")
	}

	msaaFlags := NewCPUImpl(MSAA).ShaderMiscFlags(desc, DrawPath)
	if msaaFlags&MiscFlagMSAA == 0 {
		t.Error("expected MSAA mode to set MiscFlagMSAA")
	}

	clipFlags := NewCPUImpl(RasterOrdering).ShaderMiscFlags(desc, DrawClipUpdate)
	if clipFlags&MiscFlagClip == 0 {
		t.Error("expected a clip-update draw to always set MiscFlagClip")
	}
}

func TestActivateClearsPlanes(t *testing.T) {
	desc := Descriptor{Mode: RasterOrdering, Width: 2, Height: 2}
	ctx := NewContext(desc)
	ctx.Planes.At(0, 0).Color = [4]uint8{9, 9, 9, 9}

	impl := NewCPUImpl(RasterOrdering)
	impl.Activate(ctx, desc)

	if ctx.Planes.At(0, 0).Color != [4]uint8{} {
		t.Error("expected Activate to clear stale color plane data")
	}
	id, cov := UnpackClip(ctx.Planes.At(0, 0).Clip)
	if id != 0 || cov != 0xFFFF {
		t.Error("expected Activate to reset the clip plane to full coverage")
	}
}

func TestAllocClipIDIsMonotonic(t *testing.T) {
	ctx := NewContext(Descriptor{Width: 1, Height: 1})
	a := ctx.AllocClipID()
	b := ctx.AllocClipID()
	if b <= a {
		t.Errorf("expected monotonically increasing clip ids, got %d then %d", a, b)
	}
}

func TestComposeColorOpaqueSourceReplacesDest(t *testing.T) {
	p := &Planes{Color: [4]uint8{10, 20, 30, 255}}
	ComposeColor(p, [4]uint8{1, 2, 3, 255})
	if p.Color != [4]uint8{1, 2, 3, 255} {
		t.Errorf("expected opaque source to fully replace dest, got %v", p.Color)
	}
}

func TestComposeColorTransparentSourceIsNoop(t *testing.T) {
	p := &Planes{Color: [4]uint8{10, 20, 30, 255}}
	ComposeColor(p, [4]uint8{1, 2, 3, 0})
	if p.Color != [4]uint8{10, 20, 30, 255} {
		t.Errorf("expected fully transparent source to leave dest unchanged, got %v", p.Color)
	}
}

func TestComposeColorHalfAlphaBlends(t *testing.T) {
	p := &Planes{Color: [4]uint8{0, 0, 0, 255}}
	ComposeColor(p, [4]uint8{255, 255, 255, 128})
	if p.Color[0] < 100 || p.Color[0] > 155 {
		t.Errorf("expected half-alpha white over black to land near mid-gray, got %v", p.Color)
	}
}
