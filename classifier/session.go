package classifier

import (
	"context"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Session is the local ONNX Runtime backend. It owns the ORT session and a
// pair of persistent tensors reused across calls; a mutex serializes Run
// since the tensors are shared state.
type Session struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	meta         Metadata
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

// ortInitOnce guards process-wide ONNX Runtime environment initialization.
var ortInitOnce sync.Once

// NewSession creates an ONNX Runtime session for the model at modelPath.
func NewSession(modelPath string, meta Metadata) (*Session, error) {
	var initErr error
	ortInitOnce.Do(func() {
		if libPath := os.Getenv("ONNXRUNTIME_LIB"); libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		initErr = ort.InitializeEnvironment()
	})
	if initErr != nil {
		return nil, fmt.Errorf("%w: initializing ONNX environment: %v", ErrModelLoadFailed, initErr)
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("%w: creating input tensor: %v", ErrModelLoadFailed, err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("%w: creating output tensor: %v", ErrModelLoadFailed, err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("%w: creating session: %v", ErrModelLoadFailed, err)
	}

	return &Session{
		session:      session,
		meta:         meta,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

// Name identifies this backend in handle telemetry.
func (s *Session) Name() string {
	return BackendLocal
}

// Classify implements Backend. It reads the staged image file, preprocesses
// it to the model's input resolution, runs the session, and converts the
// raw logits into a ranked Distribution.
func (s *Session) Classify(ctx context.Context, imagePath string) (Distribution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading staged image: %v", ErrInferenceFailed, err)
	}

	input, err := PreprocessImage(data, s.meta.ImageSize)
	if err != nil {
		return nil, err
	}

	logits, err := s.Predict(input)
	if err != nil {
		return nil, err
	}

	return Rank(s.meta.Classes, Softmax(logits))
}

// Predict runs one forward pass over preprocessed input data and returns a
// copy of the raw output logits.
func (s *Session) Predict(input []float32) ([]float32, error) {
	if want := s.meta.InputSize(); want > 0 && len(input) != want {
		return nil, fmt.Errorf("%w: input has %d values, model expects %d",
			ErrInferenceFailed, len(input), want)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy(s.inputTensor.GetData(), input)

	if err := s.session.Run(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}

	out := s.outputTensor.GetData()
	logits := make([]float32, len(out))
	copy(logits, out)
	return logits, nil
}

// Close releases the ORT session and tensors. The process-wide ORT
// environment stays up; it terminates with the process.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inputTensor != nil {
		s.inputTensor.Destroy()
		s.inputTensor = nil
	}
	if s.outputTensor != nil {
		s.outputTensor.Destroy()
		s.outputTensor = nil
	}
	if s.session != nil {
		s.session.Destroy()
		s.session = nil
	}
	return nil
}
