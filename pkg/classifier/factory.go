package classifier

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"leafscan-backend/pkg/logging"
)

// Config holds classifier provider configuration
type Config struct {
	Provider ProviderType

	// Remote inference server
	RemoteURL string
	Timeout   time.Duration

	// In-process ONNX model
	Onnx OnnxConfig
}

// New creates a Classifier based on the config.
// auto: ONNX model if the file loads, else the remote server if configured,
// with the local colour model as fallback either way.
func New(cfg Config, log logging.Logger) (Classifier, error) {
	ctx := context.Background()

	switch cfg.Provider {
	case ProviderLocal:
		return NewLocalClassifier(), nil

	case ProviderOnnx:
		onnx, err := NewOnnxClassifier(cfg.Onnx)
		if err != nil {
			return nil, err
		}
		return onnx, nil

	case ProviderRemote:
		if cfg.RemoteURL == "" {
			return nil, fmt.Errorf("CLASSIFIER_URL is required for remote provider")
		}
		return NewRemoteClassifier(cfg.RemoteURL, cfg.Timeout), nil

	case ProviderAuto, "":
		local := NewLocalClassifier()
		if cfg.Onnx.ModelPath != "" {
			if _, err := os.Stat(cfg.Onnx.ModelPath); err == nil {
				onnx, err := NewOnnxClassifier(cfg.Onnx)
				if err == nil {
					log.Info(ctx, "classifier loaded", "provider", ProviderOnnx, "model", filepath.Base(cfg.Onnx.ModelPath))
					return onnx, nil
				}
				log.Warn(ctx, "failed to load onnx model", "error", err)
			}
		}
		if cfg.RemoteURL != "" {
			log.Info(ctx, "classifier configured", "provider", ProviderRemote, "url", cfg.RemoteURL)
			return NewFallbackClassifier(NewRemoteClassifier(cfg.RemoteURL, cfg.Timeout), local, log), nil
		}
		log.Warn(ctx, "no model or inference server configured, using local colour model")
		return local, nil

	default:
		return nil, fmt.Errorf("unknown classifier provider %q", cfg.Provider)
	}
}
