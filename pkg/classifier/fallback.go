package classifier

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net"
	"strings"

	"leafscan-backend/pkg/logging"
)

// FallbackClassifier routes to the primary provider and falls back to the
// secondary when the primary is unreachable or not ready. Model errors from a
// reachable primary are returned as-is.
type FallbackClassifier struct {
	primary   Classifier
	secondary Classifier
	log       logging.Logger
}

func NewFallbackClassifier(primary, secondary Classifier, log logging.Logger) *FallbackClassifier {
	return &FallbackClassifier{
		primary:   primary,
		secondary: secondary,
		log:       log,
	}
}

func (f *FallbackClassifier) Name() string {
	return fmt.Sprintf("%s+%s", f.primary.Name(), f.secondary.Name())
}

func (f *FallbackClassifier) IsReady() bool {
	return f.primary.IsReady() || f.secondary.IsReady()
}

func (f *FallbackClassifier) Classify(ctx context.Context, img image.Image) (Prediction, error) {
	if !f.primary.IsReady() {
		f.log.Warn(ctx, "primary classifier not ready, using fallback", "primary", f.primary.Name(), "fallback", f.secondary.Name())
		return f.secondary.Classify(ctx, img)
	}

	p, err := f.primary.Classify(ctx, img)
	if err == nil {
		return p, nil
	}
	if isConnectionError(err) && ctx.Err() == nil {
		f.log.Warn(ctx, "primary classifier unreachable, using fallback", "primary", f.primary.Name(), "error", err)
		return f.secondary.Classify(ctx, img)
	}
	return Prediction{}, err
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	} {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}
