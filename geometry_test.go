package sitethumbs

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

var sourceSizes = []image.Point{
	{640, 480}, {480, 640}, {1000, 1000}, {333, 777}, {1920, 1080},
	{1201, 799}, {50, 60}, {7, 5}, {4000, 300}, {300, 4000},
}

func TestScaleSizeSingleDimensionKeepsAspect(t *testing.T) {
	for _, src := range sourceSizes {
		for _, target := range []int{16, 100, 150, 320} {
			got := ScaleSize(src, target, 0)
			assert.Equal(t, target, got.X, "width for %v", src)
			// |h - target*h0/w0| <= 0.5
			assert.LessOrEqual(t, 2*abs(got.Y*src.X-target*src.Y), src.X, "height for %v -> %v", src, got)

			got = ScaleSize(src, 0, target)
			assert.Equal(t, target, got.Y, "height for %v", src)
			assert.LessOrEqual(t, 2*abs(got.X*src.Y-target*src.X), src.Y, "width for %v -> %v", src, got)
		}
	}
}

func TestScaleSizeRounding(t *testing.T) {
	tests := []struct {
		src           image.Point
		width, height int
		want          image.Point
	}{
		{image.Pt(400, 300), 200, 0, image.Pt(200, 150)},
		{image.Pt(300, 400), 0, 100, image.Pt(75, 100)},
		{image.Pt(3, 2), 2, 0, image.Pt(2, 1)},   // 1.33 rounds down
		{image.Pt(3, 2), 4, 0, image.Pt(4, 3)},   // 2.67 rounds up
		{image.Pt(4, 2), 3, 0, image.Pt(3, 2)},   // 1.5 rounds half up
		{image.Pt(400, 300), 100, 100, image.Pt(133, 100)},
		{image.Pt(300, 400), 100, 100, image.Pt(100, 133)},
		{image.Pt(200, 100), 50, 50, image.Pt(100, 50)},
		{image.Pt(200, 100), 100, 50, image.Pt(100, 50)},
		{image.Pt(1000, 1), 10, 0, image.Pt(10, 1)}, // never collapses to zero
	}
	for _, tt := range tests {
		got := ScaleSize(tt.src, tt.width, tt.height)
		assert.Equal(t, tt.want, got, "ScaleSize(%v, %d, %d)", tt.src, tt.width, tt.height)
	}
}

func TestScaleSizeCoversBox(t *testing.T) {
	boxes := []image.Point{{100, 100}, {200, 50}, {50, 200}, {64, 48}, {13, 17}}
	crops := []CropType{CropTopLeft, CropCenter, CropBottomRight}
	for _, src := range sourceSizes {
		for _, box := range boxes {
			got := ScaleSize(src, box.X, box.Y)
			assert.GreaterOrEqual(t, got.X, box.X, "%v into %v", src, box)
			assert.GreaterOrEqual(t, got.Y, box.Y, "%v into %v", src, box)

			bounds := image.Rectangle{Max: got}
			for _, crop := range crops {
				r := CropRect(got, box.X, box.Y, crop)
				assert.Equal(t, box, r.Size(), "%s crop of %v", crop, got)
				assert.True(t, r.In(bounds), "%s crop %v outside %v", crop, r, bounds)
			}
		}
	}
}

func TestCropRect(t *testing.T) {
	resized := image.Pt(200, 150)
	assert.Equal(t, image.Rect(0, 0, 100, 100), CropRect(resized, 100, 100, CropTopLeft))
	assert.Equal(t, image.Rect(50, 25, 150, 125), CropRect(resized, 100, 100, CropCenter))
	assert.Equal(t, image.Rect(100, 50, 200, 150), CropRect(resized, 100, 100, CropBottomRight))

	// odd remainders are truncated
	assert.Equal(t, image.Rect(1, 0, 10, 10), CropRect(image.Pt(11, 10), 9, 10, CropCenter))
}

func TestOrientTarget(t *testing.T) {
	portrait := image.Pt(300, 400)
	landscape := image.Pt(400, 300)

	w, h := OrientTarget(portrait, 200, 100, true)
	assert.Equal(t, 100, w)
	assert.Equal(t, 200, h)

	w, h = OrientTarget(landscape, 200, 100, true)
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, h)

	w, h = OrientTarget(portrait, 200, 100, false)
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, h)

	// larger only: the long edge of a portrait image is its height
	w, h = OrientTarget(portrait, 200, 0, true)
	assert.Equal(t, 0, w)
	assert.Equal(t, 200, h)

	// square images are not swapped
	w, h = OrientTarget(image.Pt(100, 100), 80, 40, true)
	assert.Equal(t, 80, w)
	assert.Equal(t, 40, h)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
