package delivery

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	authdelivery "leafscan-backend/internal/auth/delivery"
	"leafscan-backend/internal/history/domain"
	"leafscan-backend/internal/history/repository"
	"leafscan-backend/internal/history/usecase"
	"leafscan-backend/pkg/classifier"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, usecase.HistoryUsecase) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uc := usecase.NewHistoryUsecase(repository.NewMemoryAnalysisRepository())
	h := NewHistoryHandler(uc)

	r := gin.New()
	// stands in for the auth middleware
	r.Use(func(c *gin.Context) {
		c.Set(authdelivery.ContextUserIDKey, c.GetHeader("X-User"))
		c.Next()
	})
	r.GET("/history", h.List)
	r.GET("/history/stats", h.Stats)
	r.GET("/history/export", h.Export)
	r.DELETE("/history/:id", h.Delete)
	return r, uc
}

func do(r http.Handler, method, path, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-User", user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestList(t *testing.T) {
	r, uc := newTestRouter(t)
	ctx := context.Background()
	for _, label := range []string{classifier.LabelHealthy, classifier.LabelRust, classifier.LabelScab} {
		_, err := uc.Record(ctx, "u1", "", classifier.Prediction{Label: label, Confidence: 0.8})
		require.NoError(t, err)
	}

	w := do(r, http.MethodGet, "/history?limit=2", "u1")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Analyses []domain.Analysis `json:"analyses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Analyses, 2)
	assert.Equal(t, classifier.LabelScab, body.Analyses[0].Result)

	w = do(r, http.MethodGet, "/history", "u2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"analyses":[]}`, w.Body.String())
}

func TestList_BadLimit(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, q := range []string{"abc", "0", "-3"} {
		w := do(r, http.MethodGet, "/history?limit="+q, "u1")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestStats(t *testing.T) {
	r, uc := newTestRouter(t)
	_, err := uc.Record(context.Background(), "u1", "", classifier.Prediction{Label: classifier.LabelRust, Confidence: 0.5})
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/history/stats", "u1")
	require.Equal(t, http.StatusOK, w.Code)

	var stats domain.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalAnalyses)
	assert.Equal(t, 1, stats.DiseasedCount)
	require.NotNil(t, stats.MostCommonDisease)
	assert.Equal(t, classifier.LabelRust, *stats.MostCommonDisease)
}

func TestDelete(t *testing.T) {
	r, uc := newTestRouter(t)
	a, err := uc.Record(context.Background(), "u1", "", classifier.Prediction{Label: classifier.LabelScab, Confidence: 0.9})
	require.NoError(t, err)

	w := do(r, http.MethodDelete, "/history/"+a.ID, "u2")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodDelete, "/history/"+a.ID, "u1")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodDelete, "/history/"+a.ID, "u1")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Analysis not found"}`, w.Body.String())
}

func TestExport(t *testing.T) {
	r, uc := newTestRouter(t)
	_, err := uc.Record(context.Background(), "u1", "", classifier.Prediction{Label: classifier.LabelRust, Confidence: 0.8123})
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/history/export", "u1")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "leaf-analysis-history-")

	rows, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Confidence (%)", rows[0][3])
	assert.Equal(t, []string{"rust", "81.2", "diseased"}, rows[1][2:5])
}

func TestList_HidesImagePath(t *testing.T) {
	r, uc := newTestRouter(t)
	_, err := uc.Record(context.Background(), "u1", "/srv/uploads/secret.png", classifier.Prediction{Label: classifier.LabelScab, Confidence: 0.6})
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/history", "u1")

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "image_path")
	assert.NotContains(t, w.Body.String(), "/srv/uploads")
}
