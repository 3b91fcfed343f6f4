package paint

import (
	"bytes"
	stdimage "image"
	"image/color"
	"image/png"
	"testing"
)

func TestImageFromStdlibSamplesOpaqueWhite(t *testing.T) {
	src := stdimage.NewNRGBA(stdimage.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.Set(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	img := ImageFromStdlib(src)
	if img.Width != 2 || img.Height != 2 {
		t.Fatalf("got %dx%d, want 2x2", img.Width, img.Height)
	}
	c := img.At(0, 0)
	if c.R != 1 || c.G != 1 || c.B != 1 || c.A != 1 {
		t.Fatalf("got %+v, want opaque white", c)
	}
}

func TestDecodeImageRoundTripsPNG(t *testing.T) {
	src := stdimage.NewNRGBA(stdimage.Rect(0, 0, 1, 1))
	src.Set(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, err := DecodeImage(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Width != 1 || img.Height != 1 {
		t.Fatalf("got %dx%d, want 1x1", img.Width, img.Height)
	}
}

func TestDecodeImageCachedReusesDecodedImage(t *testing.T) {
	src := stdimage.NewNRGBA(stdimage.Rect(0, 0, 1, 1))
	src.Set(0, 0, color.NRGBA{R: 40, G: 50, B: 60, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	encoded := buf.Bytes()

	first, err := DecodeImageCached(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := DecodeImageCached(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Width != second.Width || first.Height != second.Height {
		t.Fatalf("cached decode mismatch: %+v vs %+v", first, second)
	}
	if decodeCache.Len() != 1 {
		t.Fatalf("expected one cache entry for one distinct source, got %d", decodeCache.Len())
	}
}
