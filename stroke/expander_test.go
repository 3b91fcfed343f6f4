package stroke

import (
	"testing"

	"github.com/rivecore/rivecore/geom"
	"github.com/rivecore/rivecore/path"
)

func TestExpandStraightLineProducesClosedOutline(t *testing.T) {
	var src path.RawPath
	src.MoveTo(0, 0)
	src.LineTo(10, 0)

	e := NewExpander(Style{Width: 2, Cap: CapButt, Join: JoinMiter, MiterLimit: 4})
	out := e.Expand(&src)

	if out.Empty() {
		t.Fatal("expected a non-empty outline")
	}
	b := out.Bounds()
	if b.MinY > -0.9 || b.MaxY < 0.9 {
		t.Errorf("expected outline to extend ~1 unit each side of the centerline, bounds=%+v", b)
	}
}

func TestExpandClosedRectangleProducesTwoSubpaths(t *testing.T) {
	var src path.RawPath
	src.AddRect(geom.AABB{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}, path.DirectionCW)

	e := NewExpander(DefaultStyle())
	out := e.Expand(&src)

	closeCount := 0
	for _, v := range out.Verbs() {
		if v == path.VerbClose {
			closeCount++
		}
	}
	if closeCount < 2 {
		t.Errorf("expected at least 2 close verbs (outer + inner contour), got %d", closeCount)
	}
}

func TestExpandRoundCapIsWiderThanButt(t *testing.T) {
	var src path.RawPath
	src.MoveTo(0, 0)
	src.LineTo(10, 0)

	buttStyle := Style{Width: 4, Cap: CapButt, Join: JoinMiter, MiterLimit: 4}
	roundStyle := Style{Width: 4, Cap: CapRound, Join: JoinMiter, MiterLimit: 4}

	buttOut := NewExpander(buttStyle).Expand(&src)
	roundOut := NewExpander(roundStyle).Expand(&src)

	buttBounds := buttOut.Bounds()
	roundBounds := roundOut.Bounds()

	if roundBounds.MaxX <= buttBounds.MaxX {
		t.Errorf("expected round cap to extend past the endpoint: round maxX=%v, butt maxX=%v",
			roundBounds.MaxX, buttBounds.MaxX)
	}
}

func TestExpandEmptyPathYieldsEmptyOutline(t *testing.T) {
	var src path.RawPath
	e := NewExpander(DefaultStyle())
	out := e.Expand(&src)
	if !out.Empty() {
		t.Error("expected an empty input to produce an empty outline")
	}
}

func TestExpandMiterJoinStaysWithinLimit(t *testing.T) {
	var src path.RawPath
	src.MoveTo(0, 0)
	src.LineTo(10, 0)
	src.LineTo(10, 10)

	style := Style{Width: 2, Cap: CapButt, Join: JoinMiter, MiterLimit: 4}
	out := NewExpander(style).Expand(&src)
	if out.Empty() {
		t.Fatal("expected non-empty outline for an L-shaped centerline")
	}
	// A right-angle turn with half-width 1 puts the miter tip at
	// (11, -1), well inside the limit; nothing reaches past it.
	b := out.Bounds()
	if b.MaxX > 11.01 || b.MinY < -1.01 {
		t.Errorf("expected the outline to stay within the miter tip (11,-1), got %+v", b)
	}
}

func TestExpandBevelJoinDoesNotOvershootMiter(t *testing.T) {
	var src path.RawPath
	src.MoveTo(0, 0)
	src.LineTo(10, 0)
	src.LineTo(10, 10)

	miterStyle := Style{Width: 2, Cap: CapButt, Join: JoinMiter, MiterLimit: 10}
	bevelStyle := Style{Width: 2, Cap: CapButt, Join: JoinBevel, MiterLimit: 10}

	miterOut := NewExpander(miterStyle).Expand(&src)
	bevelOut := NewExpander(bevelStyle).Expand(&src)

	mb := miterOut.Bounds()
	bb := bevelOut.Bounds()
	// the sharp outer miter point should reach at least as far from the
	// corner as the bevel's flattened corner does.
	if mb.MaxX < bb.MaxX {
		t.Errorf("expected miter bounds to extend at least as far as bevel: miter=%+v bevel=%+v", mb, bb)
	}
}
