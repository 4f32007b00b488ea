package classifier

import (
	"context"
	"errors"
	"image/color"
	"testing"

	"leafscan-backend/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackClassifier_PrimarySucceeds(t *testing.T) {
	primary := &stubClassifier{name: "remote", ready: true, pred: Prediction{Label: LabelRust, Confidence: 0.9}}
	secondary := &stubClassifier{name: "local", ready: true}

	p, err := NewFallbackClassifier(primary, secondary, logging.Discard()).Classify(context.Background(), solid(color.RGBA{}, 2, 2))

	require.NoError(t, err)
	assert.Equal(t, LabelRust, p.Label)
	assert.Equal(t, int32(0), secondary.calls.Load())
}

func TestFallbackClassifier_ConnectionErrorFallsBack(t *testing.T) {
	primary := &stubClassifier{name: "remote", ready: true, err: errors.New("dial tcp 127.0.0.1:9: connect: connection refused")}
	secondary := &stubClassifier{name: "local", ready: true, pred: Prediction{Label: LabelHealthy, Confidence: 0.8}}

	p, err := NewFallbackClassifier(primary, secondary, logging.Discard()).Classify(context.Background(), solid(color.RGBA{}, 2, 2))

	require.NoError(t, err)
	assert.Equal(t, LabelHealthy, p.Label)
	assert.Equal(t, int32(1), secondary.calls.Load())
}

func TestFallbackClassifier_ModelErrorIsReturned(t *testing.T) {
	primary := &stubClassifier{name: "remote", ready: true, err: errors.New("invalid inference response: unknown label")}
	secondary := &stubClassifier{name: "local", ready: true}

	_, err := NewFallbackClassifier(primary, secondary, logging.Discard()).Classify(context.Background(), solid(color.RGBA{}, 2, 2))

	assert.Error(t, err)
	assert.Equal(t, int32(0), secondary.calls.Load())
}

func TestFallbackClassifier_PrimaryNotReady(t *testing.T) {
	primary := &stubClassifier{name: "remote", ready: false}
	secondary := &stubClassifier{name: "local", ready: true, pred: Prediction{Label: LabelScab, Confidence: 0.6}}
	f := NewFallbackClassifier(primary, secondary, logging.Discard())

	p, err := f.Classify(context.Background(), solid(color.RGBA{}, 2, 2))

	require.NoError(t, err)
	assert.Equal(t, LabelScab, p.Label)
	assert.Equal(t, int32(0), primary.calls.Load())
	assert.True(t, f.IsReady())
	assert.Equal(t, "remote+local", f.Name())
}
