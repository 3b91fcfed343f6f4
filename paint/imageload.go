package paint

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	stdimage "image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/rivecore/rivecore/internal/cache"
	"github.com/rivecore/rivecore/internal/color"
)

// decodeCacheLimit bounds how many distinct source images
// DecodeImageCached keeps resident; a pattern fill or icon atlas that
// reuses the same handful of source images across many draw calls
// should never pay the decode cost twice.
const decodeCacheLimit = 64

var decodeCache = cache.New[string, Image](decodeCacheLimit)

// DecodeImageCached behaves like DecodeImage but memoizes the decoded,
// already-converted Image by the SHA-256 of the source bytes, so
// repeated requests for the same encoded image (a texture referenced
// by many paint.Image paints in one scene, or across frames) skip
// re-decoding and re-sampling entirely.
func DecodeImageCached(r io.Reader) (Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Image{}, err
	}
	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])

	if img, ok := decodeCache.Get(key); ok {
		return img, nil
	}
	img, err := DecodeImage(bytes.NewReader(data))
	if err != nil {
		return Image{}, err
	}
	decodeCache.Set(key, img)
	return img, nil
}

// DecodeImage decodes r against png, jpeg, bmp, tiff, and webp in turn,
// returning the first successful decode as a source Image. Each decoder
// is run on the full bytes in that fixed order; there is no format
// sniffing and no use of a file extension.
func DecodeImage(r io.Reader) (Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Image{}, err
	}
	decoders := []func(io.Reader) (stdimage.Image, error){
		png.Decode,
		jpeg.Decode,
		bmp.Decode,
		tiff.Decode,
		webp.Decode,
	}
	var lastErr error
	for _, decode := range decoders {
		img, err := decode(bytes.NewReader(data))
		if err == nil {
			return ImageFromStdlib(img), nil
		}
		lastErr = err
	}
	return Image{}, lastErr
}

// ImageFromStdlib converts any image.Image into a paint.Image, sampling
// through a straight-alpha float32 buffer so renderpath/renderer never
// need to know the source's original color model (NRGBA, YCbCr, ...).
func ImageFromStdlib(src stdimage.Image) Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	nrgba := stdimage.NewNRGBA(stdimage.Rect(0, 0, w, h))
	draw.Draw(nrgba, nrgba.Bounds(), src, b.Min, draw.Src)

	pixels := make([]color.ColorF32, w*h)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < w; x++ {
			i := x * 4
			pixels[y*w+x] = color.ColorF32{
				R: float32(row[i]) / 255,
				G: float32(row[i+1]) / 255,
				B: float32(row[i+2]) / 255,
				A: float32(row[i+3]) / 255,
			}
		}
	}
	return Image{Width: w, Height: h, Pixels: pixels}
}
