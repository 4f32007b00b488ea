package delivery

import (
	"errors"
	"io"
	"net/http"
	"strings"

	authdelivery "leafscan-backend/internal/auth/delivery"
	"leafscan-backend/internal/prediction/domain"
	"leafscan-backend/internal/prediction/usecase"
	"leafscan-backend/pkg/apperr"
	"leafscan-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// FormField is the multipart field carrying the image.
const FormField = "image"

type PredictionHandler struct {
	predictionUsecase usecase.PredictionUsecase
	maxBodyBytes      int64
}

// NewPredictionHandler limits request bodies to maxBodyBytes when positive.
func NewPredictionHandler(predictionUsecase usecase.PredictionUsecase, maxBodyBytes int64) *PredictionHandler {
	return &PredictionHandler{
		predictionUsecase: predictionUsecase,
		maxBodyBytes:      maxBodyBytes,
	}
}

// Predict classifies the uploaded leaf image
// POST /predict (multipart, field "image")
func (h *PredictionHandler) Predict(c *gin.Context) {
	if h.maxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	}

	fh, err := c.FormFile(FormField)
	if err != nil {
		if isTooLarge(err) {
			response.Error(c, apperr.TooLarge("image too large"))
			return
		}
		response.Error(c, apperr.Validation("no image provided"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.Error(c, apperr.Internal(err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, apperr.Internal(err))
		return
	}

	result, err := h.predictionUsecase.Predict(c.Request.Context(), c.GetString(authdelivery.ContextUserIDKey), &domain.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Health reports service and model readiness
// GET /health
func (h *PredictionHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.predictionUsecase.Health())
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	// multipart does not always wrap the reader error
	return strings.Contains(err.Error(), "request body too large")
}
