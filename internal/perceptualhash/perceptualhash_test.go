package perceptualhash

import (
	"image"
	"image/color"
	"testing"
)

func solidGray(value uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, 9, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 9; x++ {
			g.SetGray(x, y, color.Gray{Y: value})
		}
	}
	return g
}

func TestComputeAHashSolidImage(t *testing.T) {
	g := solidGray(128)
	// Every pixel equals the mean, so every bit should be set (>= mean).
	if got := computeAHash(g); got != ^uint64(0) {
		t.Errorf("computeAHash(solid) = %064b, want all bits set", got)
	}
}

func TestComputeDHashSolidImage(t *testing.T) {
	g := solidGray(128)
	// No adjacent pair differs, so no bit should be set.
	if got := computeDHash(g); got != 0 {
		t.Errorf("computeDHash(solid) = %064b, want 0", got)
	}
}

func TestComputeDHashGradient(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 9, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 9; x++ {
			g.SetGray(x, y, color.Gray{Y: uint8(x * 20)})
		}
	}
	// Every left pixel is strictly less than its right neighbor, so no
	// bit should be set under the "left > right" rule.
	if got := computeDHash(g); got != 0 {
		t.Errorf("computeDHash(ascending gradient) = %064b, want 0", got)
	}
}

func TestHammingDistance(t *testing.T) {
	if got := Hamming(0, 0); got != 0 {
		t.Errorf("Hamming(0,0) = %d, want 0", got)
	}
	if got := Hamming(0, 1); got != 1 {
		t.Errorf("Hamming(0,1) = %d, want 1", got)
	}
	if got := Hamming(0xFF, 0x00); got != 8 {
		t.Errorf("Hamming(0xFF,0x00) = %d, want 8", got)
	}
}

func TestComputeUnsupportedFormatReturnsFalse(t *testing.T) {
	_, ok := Compute("/nonexistent/path.cr2", "cr2")
	if ok {
		t.Error("Compute on a RAW format should return ok=false")
	}
}
