package delivery

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	authdelivery "leafscan-backend/internal/auth/delivery"
	"leafscan-backend/internal/history/usecase"
	"leafscan-backend/pkg/apperr"
	"leafscan-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	historyUsecase usecase.HistoryUsecase
}

func NewHistoryHandler(historyUsecase usecase.HistoryUsecase) *HistoryHandler {
	return &HistoryHandler{
		historyUsecase: historyUsecase,
	}
}

// List returns the user's analyses, newest first
// GET /history?limit=50
func (h *HistoryHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.Error(c, apperr.Validation("limit must be a positive integer"))
			return
		}
		limit = n
	}

	items, err := h.historyUsecase.List(c.Request.Context(), c.GetString(authdelivery.ContextUserIDKey), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"analyses": items})
}

// GET /history/stats
func (h *HistoryHandler) Stats(c *gin.Context) {
	stats, err := h.historyUsecase.Stats(c.Request.Context(), c.GetString(authdelivery.ContextUserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Export downloads the user's history as CSV
// GET /history/export
func (h *HistoryHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.historyUsecase.ExportCSV(c.Request.Context(), c.GetString(authdelivery.ContextUserIDKey), &buf); err != nil {
		response.Error(c, err)
		return
	}

	filename := "leaf-analysis-history-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// DELETE /history/:id
func (h *HistoryHandler) Delete(c *gin.Context) {
	if err := h.historyUsecase.Delete(c.Request.Context(), c.GetString(authdelivery.ContextUserIDKey), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Analysis deleted"})
}
