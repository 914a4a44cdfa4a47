package classifier

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// encodePNG renders a width x height image filled with a single color.
func encodePNG(t *testing.T, width, height int, fill color.Color) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	data := encodePNG(t, 8, 8, color.RGBA{R: 30, G: 160, B: 40, A: 255})

	img, err := DecodeImage(data)
	if err != nil {
		t.Fatalf("DecodeImage() error = %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Errorf("decoded bounds = %v, want 8x8", img.Bounds())
	}
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not an image", []byte("definitely not a PNG")},
		{"truncated header", []byte{0x89, 0x50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeImage(tt.data)
			if !errors.Is(err, ErrInvalidImage) {
				t.Errorf("DecodeImage() error = %v, want ErrInvalidImage", err)
			}
		})
	}
}

func TestResizeToSquare(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"landscape", 64, 32},
		{"portrait", 32, 64},
		{"already square", 48, 48},
		{"upscale", 8, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, tt.width, tt.height))
			resized := ResizeToSquare(img, 32)

			bounds := resized.Bounds()
			if bounds.Dx() != 32 || bounds.Dy() != 32 {
				t.Errorf("resized bounds = %v, want 32x32", bounds)
			}
		})
	}
}

func TestResizeToSquareLetterboxes(t *testing.T) {
	// A wide white image must land centered on a black letterbox.
	src := image.NewRGBA(image.Rect(0, 0, 64, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 64; x++ {
			src.Set(x, y, color.White)
		}
	}

	resized := ResizeToSquare(src, 32)

	r, g, b, _ := resized.At(16, 1).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Error("top letterbox band is not black")
	}
	r, g, b, _ = resized.At(16, 16).RGBA()
	if r == 0 && g == 0 && b == 0 {
		t.Error("image center is black, content missing")
	}
}

func TestNormalizeCHW(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 0, B: 0, A: 255})
		}
	}

	values := NormalizeCHW(img)
	if len(values) != 2*2*3 {
		t.Fatalf("got %d values, want 12", len(values))
	}

	// CHW layout: first plane all red, remaining planes zero.
	for i := 0; i < 4; i++ {
		if values[i] < 0.99 {
			t.Errorf("R plane value %f, want ~1.0", values[i])
		}
	}
	for i := 4; i < 12; i++ {
		if values[i] != 0 {
			t.Errorf("G/B plane value %f, want 0", values[i])
		}
	}
}

func TestPreprocessImage(t *testing.T) {
	data := encodePNG(t, 100, 50, color.RGBA{R: 10, G: 200, B: 30, A: 255})

	values, err := PreprocessImage(data, 32)
	if err != nil {
		t.Fatalf("PreprocessImage() error = %v", err)
	}
	if len(values) != 32*32*3 {
		t.Errorf("got %d values, want %d", len(values), 32*32*3)
	}
	for _, v := range values {
		if v < 0 || v > 1 {
			t.Errorf("normalized value %f out of [0,1]", v)
			break
		}
	}
}

func TestPreprocessImageRejectsGarbage(t *testing.T) {
	if _, err := PreprocessImage([]byte("junk"), 32); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("PreprocessImage() error = %v, want ErrInvalidImage", err)
	}
}
