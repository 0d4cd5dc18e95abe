package sitethumbs

import "image"

// OrientTarget swaps dim1 and dim2 for portrait sources when preserve is set,
// so that larger/smaller follow the image's own long and short edge.
// It returns the target width and height, 0 meaning unset.
func OrientTarget(src image.Point, dim1, dim2 int, preserve bool) (width, height int) {
	if preserve && src.Y > src.X {
		return dim2, dim1
	}
	return dim1, dim2
}

// ScaleSize returns the size src is resized to before cropping.
//
// With a single dimension the other one follows the source aspect ratio.
// With both, the result covers the width x height box on both axes and the
// excess is left for CropRect to trim. Fractions are rounded half up.
func ScaleSize(src image.Point, width, height int) image.Point {
	w0, h0 := src.X, src.Y
	switch {
	case width == 0 && height == 0:
		return src
	case width == 0:
		width = scaleAspect(height, h0, w0)
	case height == 0:
		height = scaleAspect(width, w0, h0)
	case w0*height > width*h0:
		// source is wider than the box: match heights, overflow horizontally
		width = scaleAspect(height, h0, w0)
	default:
		height = scaleAspect(width, w0, h0)
	}
	return image.Pt(max(width, 1), max(height, 1))
}

// scaleAspect scales a by to/from, rounding half up.
func scaleAspect(a, from, to int) int {
	if from == 0 {
		return a
	}
	return (2*a*to + from) / (2 * from)
}

// CropRect returns the width x height box inside an image of size resized,
// anchored according to crop.
func CropRect(resized image.Point, width, height int, crop CropType) image.Rectangle {
	var origin image.Point
	switch crop {
	case CropCenter:
		origin = image.Pt((resized.X-width)/2, (resized.Y-height)/2)
	case CropBottomRight:
		origin = image.Pt(resized.X-width, resized.Y-height)
	}
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(width, height))}
}
