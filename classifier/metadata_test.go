package classifier

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeMetadata(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing metadata: %v", err)
	}
	return path
}

func TestLoadMetadata(t *testing.T) {
	path := writeMetadata(t, `{
		"input_shape": [1, 3, 224, 224],
		"output_shape": [1, 5],
		"classes": ["Bacterial Leaf Blight", "Brown Spot", "Khaira", "Leaf Blast", "Tungro"],
		"image_size": 224
	}`)

	meta, err := LoadMetadata(path)
	if err != nil {
		t.Fatalf("LoadMetadata() error = %v", err)
	}

	if len(meta.Classes) != 5 {
		t.Errorf("Classes = %d, want 5", len(meta.Classes))
	}
	if meta.ImageSize != 224 {
		t.Errorf("ImageSize = %d, want 224", meta.ImageSize)
	}
	if got := meta.InputSize(); got != 1*3*224*224 {
		t.Errorf("InputSize() = %d, want %d", got, 1*3*224*224)
	}
}

func TestLoadMetadataFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed JSON", `{"classes": [`},
		{"empty class list", `{"classes": [], "image_size": 224}`},
		{"zero image size", `{"classes": ["Brown Spot"], "image_size": 0}`},
		{
			"output shape mismatch",
			`{"classes": ["Brown Spot", "Tungro"], "image_size": 224, "output_shape": [1, 5]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeMetadata(t, tt.content)
			_, err := LoadMetadata(path)
			if !errors.Is(err, ErrBadMetadata) {
				t.Errorf("LoadMetadata() error = %v, want ErrBadMetadata", err)
			}
		})
	}
}

func TestLoadMetadataMissingFile(t *testing.T) {
	_, err := LoadMetadata(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrBadMetadata) {
		t.Errorf("LoadMetadata() error = %v, want ErrBadMetadata", err)
	}
}

func TestMetadataInputSizeEmptyShape(t *testing.T) {
	meta := Metadata{Classes: []string{"Brown Spot"}, ImageSize: 224}
	if got := meta.InputSize(); got != 0 {
		t.Errorf("InputSize() = %d, want 0 for empty shape", got)
	}
}
