package sitethumbs

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

const jpegQuality = 75

// processImage decodes an image from src, resizes it according to p and
// crops it when both final dimensions are known. The result is encoded in
// the source format.
func processImage(src io.Reader, p Policy) (Thumbnail, []byte, error) {
	img, format, err := image.Decode(src)
	if err != nil {
		return Thumbnail{}, nil, fmt.Errorf("decode image: %w", err)
	}

	// Work in an alpha-capable mode regardless of the source color model.
	rgba := toNRGBA(img)
	size := rgba.Bounds().Size()

	dim1, dim2 := p.Mode.Target()
	width, height := OrientTarget(size, dim1, dim2, p.Mode.PreserveOrientation())

	scaled := ScaleSize(size, width, height)
	dst := image.NewNRGBA(image.Rectangle{Max: scaled})
	draw.CatmullRom.Scale(dst, dst.Bounds(), rgba, rgba.Bounds(), draw.Src, nil)

	if width != 0 && height != 0 {
		dst = cropNRGBA(dst, CropRect(scaled, width, height, p.Crop))
	}

	var buf bytes.Buffer
	if err := encodeImage(&buf, dst, format); err != nil {
		return Thumbnail{}, nil, err
	}

	b := dst.Bounds()
	return Thumbnail{
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: format,
		Size:   buf.Len(),
	}, buf.Bytes(), nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// cropNRGBA copies r out of img into a new image anchored at the origin.
func cropNRGBA(img *image.NRGBA, r image.Rectangle) *image.NRGBA {
	r = r.Intersect(img.Bounds())
	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}

// encodeImage writes img in the named format with size optimisations
// enabled where the encoder supports them.
func encodeImage(w io.Writer, img image.Image, format string) error {
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(w, img)
	case "gif":
		err = gif.Encode(w, img, nil)
	case "bmp":
		err = bmp.Encode(w, img)
	case "tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return fmt.Errorf("encode image: unsupported format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}
