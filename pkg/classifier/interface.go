package classifier

import (
	"context"
	"fmt"
	"image"
	"math"
)

// Leaf condition labels, in model output order.
const (
	LabelHealthy          = "healthy"
	LabelMultipleDiseases = "multiple_diseases"
	LabelRust             = "rust"
	LabelScab             = "scab"
)

// Labels is the closed set of classes every provider reports from.
var Labels = []string{LabelHealthy, LabelMultipleDiseases, LabelRust, LabelScab}

// InputSize is the square edge length images are resized to before inference.
const InputSize = 224

// Prediction is the top class and its probability.
type Prediction struct {
	Label      string
	Confidence float64
}

// Classifier is the image classification capability. Implementations must be
// safe for concurrent use.
// Implement this interface to add new model backends (ONNX, remote HTTP, etc.)
type Classifier interface {
	Classify(ctx context.Context, img image.Image) (Prediction, error)
	IsReady() bool
	Name() string
}

// ProviderType selects a Classifier implementation
type ProviderType string

const (
	ProviderLocal  ProviderType = "local"
	ProviderOnnx   ProviderType = "onnx"
	ProviderRemote ProviderType = "remote"
	ProviderAuto   ProviderType = "auto"
)

func IsLabel(s string) bool {
	for _, l := range Labels {
		if l == s {
			return true
		}
	}
	return false
}

// Validate checks p against the label set and the [0,1] range.
func (p Prediction) Validate() error {
	if !IsLabel(p.Label) {
		return fmt.Errorf("unknown label %q", p.Label)
	}
	if math.IsNaN(p.Confidence) || p.Confidence < 0 || p.Confidence > 1 {
		return fmt.Errorf("confidence %v out of range", p.Confidence)
	}
	return nil
}

// FromProbabilities picks the arg-max class. Scores that do not already form
// a distribution are passed through softmax first.
func FromProbabilities(scores []float64) (Prediction, error) {
	if len(scores) != len(Labels) {
		return Prediction{}, fmt.Errorf("expected %d scores, got %d", len(Labels), len(scores))
	}

	probs := scores
	if !isDistribution(scores) {
		probs = Softmax(scores)
	}

	best := 0
	for i := range probs {
		if probs[i] > probs[best] {
			best = i
		}
	}
	p := Prediction{Label: Labels[best], Confidence: clamp01(probs[best])}
	return p, p.Validate()
}

func Softmax(scores []float64) []float64 {
	hi := math.Inf(-1)
	for _, s := range scores {
		if s > hi {
			hi = s
		}
	}
	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - hi)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func isDistribution(scores []float64) bool {
	var sum float64
	for _, s := range scores {
		if math.IsNaN(s) || s < 0 || s > 1 {
			return false
		}
		sum += s
	}
	return math.Abs(sum-1) < 1e-3
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
