// Package perceptualhash computes aHash/dHash perceptual hashes for
// decodable image formats, and the Hamming distance between them.
//
// Decode registers the standard library's image/jpeg and image/png
// decoders plus golang.org/x/image's tiff and webp decoders (blank
// imports below), grounded on TyrEamon-tyr-blog-img's
// internal/gallery/processor.go — the one repo in the retrieval pack
// that pulls golang.org/x/image in for extra format support. Resize
// uses golang.org/x/image/draw's CatmullRom kernel, a deterministic
// high-quality resampler from the same module, so no separate resize
// dependency is needed.
package perceptualhash

import (
	stdimage "image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"math/bits"
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/jterrazz/photopack/internal/model"
)

// Version identifies the (decoder path, resizer, hash layout) triple.
// It must change whenever any of the three changes.
const Version = "ahash-dhash-v1+ximage-draw-catmullrom"

const (
	resizeWidth  = 9
	resizeHeight = 8
)

// Hashes holds the pair of 64-bit perceptual hashes for an image.
type Hashes struct {
	AHash uint64
	DHash uint64
}

// Compute decodes the file at path, resizes it to 9x8 grayscale, and
// derives aHash and dHash. ok is false if the format does not support
// perceptual hashing or the image cannot be decoded; callers must check
// format.SupportsPerceptualHash() before calling to avoid wasted work,
// though Compute is itself safe to call on any format.
func Compute(path string, format model.PhotoFormat) (h Hashes, ok bool) {
	if !format.SupportsPerceptualHash() {
		return Hashes{}, false
	}

	f, err := os.Open(path)
	if err != nil {
		return Hashes{}, false
	}
	defer f.Close()

	img, _, err := stdimage.Decode(f)
	if err != nil {
		return Hashes{}, false
	}

	gray := toGray9x8(img)
	return Hashes{
		AHash: computeAHash(gray),
		DHash: computeDHash(gray),
	}, true
}

// toGray9x8 converts img to grayscale (ITU-R BT.601 luma, via the
// standard library's color.GrayModel) and resizes it to 9x8 using a
// CatmullRom resampler.
func toGray9x8(img stdimage.Image) *stdimage.Gray {
	b := img.Bounds()
	gray := stdimage.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}

	dst := stdimage.NewGray(stdimage.Rect(0, 0, resizeWidth, resizeHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), gray, gray.Bounds(), draw.Over, nil)
	return dst
}

// computeAHash takes the left 8x8 block of the 9-wide grayscale buffer,
// computes the integer mean (floor division), and sets bit i (row-major)
// when pixel i's value is >= the mean.
func computeAHash(g *stdimage.Gray) uint64 {
	var block [64]uint8
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			block[row*8+col] = g.GrayAt(col, row).Y
		}
	}

	var sum uint64
	for _, p := range block {
		sum += uint64(p)
	}
	mean := sum / 64

	var hash uint64
	for i, p := range block {
		if uint64(p) >= mean {
			hash |= 1 << uint(i)
		}
	}
	return hash
}

// computeDHash compares each of 8 adjacent-column pairs per row across
// the 9-wide grayscale buffer: bit is 1 iff the left pixel is greater
// than the right, packed row-major into 64 bits.
func computeDHash(g *stdimage.Gray) uint64 {
	var hash uint64
	bit := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			left := g.GrayAt(col, row).Y
			right := g.GrayAt(col+1, row).Y
			if left > right {
				hash |= 1 << uint(bit)
			}
			bit++
		}
	}
	return hash
}

// Hamming returns the population count of a XOR b.
func Hamming(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}
