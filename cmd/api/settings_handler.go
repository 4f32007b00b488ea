package api

import (
	"net/http"
	"strings"
	"time"

	"leafscan-backend/pkg/classifier"
	"leafscan-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

// SettingsHandler reports classifier configuration and probes inference servers
type SettingsHandler struct {
	classifier classifier.Classifier
	config     *config.Config
	client     *http.Client
}

func NewSettingsHandler(clf classifier.Classifier, cfg *config.Config) *SettingsHandler {
	return &SettingsHandler{
		classifier: clf,
		config:     cfg,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// GetClassifierSettings returns the active classifier
// GET /settings/classifier
func (h *SettingsHandler) GetClassifierSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"provider":            h.classifier.Name(),
		"configured_provider": h.config.ClassifierProvider,
		"classifier_url":      h.config.ClassifierURL,
		"model_loaded":        h.classifier.IsReady(),
		"labels":              classifier.Labels,
		"input_size":          classifier.InputSize,
	})
}

// TestClassifierConnection tests if the configured inference server is reachable
// POST /settings/classifier/test
func (h *SettingsHandler) TestClassifierConnection(c *gin.Context) {
	if h.config.ClassifierURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "no inference server configured"})
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, strings.TrimRight(h.config.ClassifierURL, "/")+"/health", nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "invalid CLASSIFIER_URL"})
		return
	}

	resp, err := h.client.Do(req)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"connected": false})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"connected":   false,
			"status_code": resp.StatusCode,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"connected": true})
}
