package gpucore

import "testing"

func newTestPipeline(t *testing.T, w, h int) *HybridPipeline {
	t.Helper()
	p, err := NewHybridPipeline(NullAdapter{}, &PipelineConfig{
		Width:          w,
		Height:         h,
		UseCPUFallback: true,
	})
	if err != nil {
		t.Fatalf("NewHybridPipeline: %v", err)
	}
	return p
}

func TestHybridPipelineExecuteFillsSquare(t *testing.T) {
	p := newTestPipeline(t, 16, 16)

	segments := []Segment{
		{X0: 4, Y0: 4, X1: 4, Y1: 12, Winding: -1},
		{X0: 12, Y0: 4, X1: 12, Y1: 12, Winding: 1},
	}
	identity := AffineTransform{A: 1, D: 1}

	coverage, err := p.Execute(segments, identity, FillRuleNonZero)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	width := p.TileColumns() * TileSize
	if coverage[8*width+8] == 0 {
		t.Error("expected pixel (8,8) inside the square to be covered")
	}
	if coverage[1*width+1] != 0 {
		t.Error("expected pixel (1,1) outside the square to be uncovered")
	}
}

func TestHybridPipelineExecuteEmptySegments(t *testing.T) {
	p := newTestPipeline(t, 16, 16)

	coverage, err := p.Execute(nil, AffineTransform{A: 1, D: 1}, FillRuleNonZero)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for i, c := range coverage {
		if c != 0 {
			t.Fatalf("pixel %d: expected no coverage with no segments, got %d", i, c)
		}
	}
}

func TestHybridPipelineExecuteRejectsUninitialized(t *testing.T) {
	p := &HybridPipeline{}
	if _, err := p.Execute(nil, AffineTransform{}, FillRuleNonZero); err == nil {
		t.Error("expected an error from an uninitialized pipeline")
	}
}
