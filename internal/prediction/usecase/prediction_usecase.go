package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"leafscan-backend/internal/prediction/domain"
	"leafscan-backend/pkg/apperr"
	"leafscan-backend/pkg/classifier"
	"leafscan-backend/pkg/imaging"
	"leafscan-backend/pkg/logging"

	"github.com/google/uuid"
)

// Options configures where uploads go and how large they may be
type Options struct {
	UploadDir      string // empty disables saving uploads
	MaxUploadBytes int64  // <= 0 disables the check
}

// predictionUsecase implements PredictionUsecase interface
type predictionUsecase struct {
	classifier classifier.Classifier
	history    HistoryRecorder
	opts       Options
	log        logging.Logger
}

// NewPredictionUsecase creates a new instance of predictionUsecase.
// history may be nil.
func NewPredictionUsecase(c classifier.Classifier, history HistoryRecorder, opts Options, log logging.Logger) PredictionUsecase {
	return &predictionUsecase{
		classifier: c,
		history:    history,
		opts:       opts,
		log:        log,
	}
}

func (u *predictionUsecase) Predict(ctx context.Context, userID string, upload *domain.Upload) (*domain.Result, error) {
	if upload == nil || upload.Filename == "" {
		return nil, apperr.Validation("no image provided")
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return nil, apperr.Validation("not an image")
	}
	if u.opts.MaxUploadBytes > 0 && int64(len(upload.Data)) > u.opts.MaxUploadBytes {
		return nil, apperr.TooLarge("image too large")
	}

	img, format, err := imaging.Decode(upload.Data)
	if err != nil {
		return nil, apperr.Inference(err)
	}

	pred, err := u.classifier.Classify(ctx, img)
	if err != nil {
		u.log.Error(ctx, "classification failed", "provider", u.classifier.Name(), "error", err)
		return nil, apperr.Inference(err)
	}
	if err := pred.Validate(); err != nil {
		return nil, apperr.Inference(err)
	}

	u.keep(ctx, userID, upload, format, pred)

	return &domain.Result{Result: pred.Label, Confidence: pred.Confidence}, nil
}

// keep saves the upload and the history record. Failures are logged only.
func (u *predictionUsecase) keep(ctx context.Context, userID string, upload *domain.Upload, format string, pred classifier.Prediction) {
	imagePath := ""
	if u.opts.UploadDir != "" {
		path, err := u.saveUpload(upload, format)
		if err != nil {
			u.log.Warn(ctx, "failed to save upload", "error", err)
		} else {
			imagePath = path
		}
	}

	if u.history == nil {
		return
	}
	if _, err := u.history.Record(ctx, userID, imagePath, pred); err != nil {
		u.log.Warn(ctx, "failed to record analysis", "user_id", userID, "error", err)
	}
}

// saveUpload names the file after the decoded format, never the client's
// file name.
func (u *predictionUsecase) saveUpload(upload *domain.Upload, format string) (string, error) {
	path := filepath.Join(u.opts.UploadDir, uuid.New().String()+extension(format))
	if err := os.WriteFile(path, upload.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func extension(format string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "":
		return ".img"
	default:
		return "." + format
	}
}

func (u *predictionUsecase) Health() domain.Health {
	return domain.Health{Status: "healthy", ModelLoaded: u.classifier.IsReady()}
}
