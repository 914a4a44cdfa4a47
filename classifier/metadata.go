package classifier

import (
	"encoding/json"
	"fmt"
	"os"
)

// Metadata describes the exported classifier: tensor shapes, the ordered
// output class list, and the square input resolution. It is produced by the
// model export pipeline alongside the ONNX artifact and is the authority on
// which labels the model can emit.
type Metadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
}

// LoadMetadata reads and validates a metadata JSON file.
func LoadMetadata(path string) (Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrBadMetadata, err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrBadMetadata, err)
	}

	if err := meta.Validate(); err != nil {
		return Metadata{}, err
	}
	return meta, nil
}

// Validate checks that the metadata is internally consistent.
func (m Metadata) Validate() error {
	if len(m.Classes) == 0 {
		return fmt.Errorf("%w: empty class list", ErrBadMetadata)
	}
	if m.ImageSize <= 0 {
		return fmt.Errorf("%w: image_size %d", ErrBadMetadata, m.ImageSize)
	}
	if len(m.OutputShape) > 0 {
		last := m.OutputShape[len(m.OutputShape)-1]
		if last != int64(len(m.Classes)) {
			return fmt.Errorf("%w: output shape %v does not match %d classes",
				ErrBadMetadata, m.OutputShape, len(m.Classes))
		}
	}
	return nil
}

// InputSize returns the flat element count of the input tensor.
func (m Metadata) InputSize() int {
	if len(m.InputShape) == 0 {
		return 0
	}
	size := 1
	for _, dim := range m.InputShape {
		size *= int(dim)
	}
	return size
}
