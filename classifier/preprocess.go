package classifier

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// DecodeImage decodes image data in the common photographic formats
// (JPEG, PNG). This is a pure function with no side effects.
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidImage)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return img, nil
}

// ResizeToSquare scales an image to fit a size x size square using
// high-quality CatmullRom interpolation, preserving aspect ratio and
// centering the result on a black letterbox.
func ResizeToSquare(img image.Image, size int) *image.RGBA {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	longest := width
	if height > longest {
		longest = height
	}
	scale := float64(size) / float64(longest)
	newWidth := int(float64(width) * scale)
	newHeight := int(float64(height) * scale)

	offsetX := (size - newWidth) / 2
	offsetY := (size - newHeight) / 2

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	target := image.Rect(offsetX, offsetY, offsetX+newWidth, offsetY+newHeight)
	draw.CatmullRom.Scale(dst, target, img, bounds, draw.Src, nil)

	return dst
}

// NormalizeCHW converts an RGBA image to normalized [0,1] float32 values in
// CHW channel order (all R values, then G, then B), the layout classifier
// export pipelines emit for NCHW input tensors. Alpha is discarded.
func NormalizeCHW(img *image.RGBA) []float32 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	plane := width * height

	output := make([]float32, plane*3)

	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// RGBA() returns uint32 values in [0, 65535]
			output[idx] = float32(r) / 65535.0
			output[plane+idx] = float32(g) / 65535.0
			output[2*plane+idx] = float32(b) / 65535.0
			idx++
		}
	}

	return output
}

// PreprocessImage runs the full pipeline for the local backend:
// decode -> resize to square -> normalize to CHW float32.
func PreprocessImage(data []byte, size int) ([]float32, error) {
	img, err := DecodeImage(data)
	if err != nil {
		return nil, err
	}
	resized := ResizeToSquare(img, size)
	return NormalizeCHW(resized), nil
}
