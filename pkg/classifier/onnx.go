package classifier

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"

	"leafscan-backend/pkg/imaging"

	ort "github.com/yalue/onnxruntime_go"
)

// OnnxConfig describes an exported leaf model: NHWC float32 input of
// 1×224×224×3 scaled to [0,1], and a 1×4 output.
type OnnxConfig struct {
	ModelPath   string
	LibraryPath string
	InputName   string
	OutputName  string
}

// OnnxClassifier runs the CNN in-process through ONNX Runtime.
type OnnxClassifier struct {
	session *ort.DynamicAdvancedSession

	mu     sync.RWMutex
	closed bool
}

var ortInit sync.Mutex

func NewOnnxClassifier(cfg OnnxConfig) (*OnnxClassifier, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("onnx model not available: %w", err)
	}

	ortInit.Lock()
	defer ortInit.Unlock()
	if !ort.IsInitialized() {
		if cfg.LibraryPath != "" {
			ort.SetSharedLibraryPath(cfg.LibraryPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("failed to initialize onnxruntime: %w", err)
		}
	}

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, []string{cfg.InputName}, []string{cfg.OutputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load onnx model %s: %w", cfg.ModelPath, err)
	}
	return &OnnxClassifier{session: session}, nil
}

func (o *OnnxClassifier) Name() string { return string(ProviderOnnx) }

func (o *OnnxClassifier) IsReady() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return !o.closed
}

func (o *OnnxClassifier) Classify(ctx context.Context, img image.Image) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}

	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		return Prediction{}, fmt.Errorf("model not loaded")
	}

	data := imaging.Tensor(imaging.Resize(img, InputSize, InputSize))
	input, err := ort.NewTensor(ort.NewShape(1, InputSize, InputSize, 3), data)
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer input.Destroy()

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(Labels))))
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer output.Destroy()

	if err := o.session.Run([]ort.Value{input}, []ort.Value{output}); err != nil {
		return Prediction{}, fmt.Errorf("prediction error: %w", err)
	}

	raw := output.GetData()
	scores := make([]float64, len(raw))
	for i, v := range raw {
		scores[i] = float64(v)
	}
	return FromProbabilities(scores)
}

// Close releases the session. The shared runtime environment stays up for
// the life of the process.
func (o *OnnxClassifier) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	return o.session.Destroy()
}
