package blend

import (
	"testing"

	"github.com/rivecore/rivecore/paint"
)

func TestBlendSourceOverOpaqueSourceReplaces(t *testing.T) {
	r, g, b, a := blendSourceOver(10, 20, 30, 255, 200, 200, 200, 255)
	if r != 10 || g != 20 || b != 30 || a != 255 {
		t.Fatalf("got (%d,%d,%d,%d), want (10,20,30,255)", r, g, b, a)
	}
}

func TestBlendClearIsTransparentBlack(t *testing.T) {
	r, g, b, a := blendClear(255, 255, 255, 255, 128, 128, 128, 255)
	if r != 0 || g != 0 || b != 0 || a != 0 {
		t.Fatalf("got (%d,%d,%d,%d), want zero", r, g, b, a)
	}
}

func TestBlendMultiplyWithWhiteIsIdentity(t *testing.T) {
	r, g, b, _ := blendMultiply(255, 255, 255, 255, 77, 150, 200, 255)
	if r != 77 || g != 150 || b != 200 {
		t.Fatalf("multiply by opaque white changed color: got (%d,%d,%d)", r, g, b)
	}
}

func TestBlendScreenWithBlackIsIdentity(t *testing.T) {
	r, g, b, _ := blendScreen(0, 0, 0, 255, 77, 150, 200, 255)
	if r != 77 || g != 150 || b != 200 {
		t.Fatalf("screen with opaque black changed color: got (%d,%d,%d)", r, g, b)
	}
}

func TestBlendHueMatchesGrayscaleDestination(t *testing.T) {
	// Hue of a gray source over a gray destination stays gray, since
	// saturation is 0 in both operands.
	r, g, b, _ := blendHue(120, 120, 120, 255, 60, 60, 60, 255)
	if r != g || g != b {
		t.Fatalf("expected a gray result, got (%d,%d,%d)", r, g, b)
	}
}

func TestGetBlendFuncUnknownFallsBackToSourceOver(t *testing.T) {
	fn := GetBlendFunc(paint.BlendMode(255))
	r, g, b, a := fn(10, 20, 30, 255, 200, 200, 200, 255)
	if r != 10 || g != 20 || b != 30 || a != 255 {
		t.Fatalf("unknown mode did not fall back to source-over: got (%d,%d,%d,%d)", r, g, b, a)
	}
}

func TestCompositeOpaqueSourceOverReplaces(t *testing.T) {
	src := [4]uint8{10, 20, 30, 255}
	dst := [4]uint8{200, 200, 200, 255}
	got := Composite(paint.BlendSourceOver, src, dst)
	if got != src {
		t.Fatalf("got %v, want %v", got, src)
	}
}

func TestCompositeFullyTransparentSourceKeepsDestination(t *testing.T) {
	src := [4]uint8{10, 20, 30, 0}
	dst := [4]uint8{200, 150, 100, 255}
	got := Composite(paint.BlendSourceOver, src, dst)
	if got != dst {
		t.Fatalf("got %v, want %v", got, dst)
	}
}

func TestCompositeMultiplyStraightAlphaRoundTrips(t *testing.T) {
	src := [4]uint8{255, 255, 255, 255}
	dst := [4]uint8{77, 150, 200, 255}
	got := Composite(paint.BlendMultiply, src, dst)
	if got[0] != 77 || got[1] != 150 || got[2] != 200 {
		t.Fatalf("multiply by opaque white changed color: got %v", got)
	}
}
