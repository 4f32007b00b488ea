package classifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"leafscan-backend/pkg/imaging"
)

const readinessTTL = 30 * time.Second

// RemoteClassifier calls an external inference server over HTTP.
//
//	POST {baseURL}/predict  {"image": "<base64 png>", "width": 224, "height": 224}
//	-> {"label": "rust", "confidence": 0.91} or {"probabilities": [..4..]}
//	GET  {baseURL}/health   -> 200 when the model is loaded
type RemoteClassifier struct {
	baseURL string
	client  *http.Client

	mu        sync.Mutex
	ready     bool
	checkedAt time.Time
}

type remoteRequest struct {
	Image  string `json:"image"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type remoteResponse struct {
	Label         string    `json:"label"`
	Confidence    *float64  `json:"confidence"`
	Probabilities []float64 `json:"probabilities"`
	Error         string    `json:"error"`
}

// NewRemoteClassifier creates a client for the inference server at baseURL
func NewRemoteClassifier(baseURL string, timeout time.Duration) *RemoteClassifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteClassifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (r *RemoteClassifier) Name() string { return string(ProviderRemote) }

func (r *RemoteClassifier) Classify(ctx context.Context, img image.Image) (Prediction, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, imaging.Resize(img, InputSize, InputSize)); err != nil {
		return Prediction{}, fmt.Errorf("failed to encode image: %w", err)
	}

	body, err := json.Marshal(remoteRequest{
		Image:  base64.StdEncoding.EncodeToString(buf.Bytes()),
		Width:  InputSize,
		Height: InputSize,
	})
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		// a caller that went away says nothing about the server
		if ctx.Err() == nil {
			r.markReady(false)
		}
		return Prediction{}, fmt.Errorf("failed to call inference server: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to read response: %w", err)
	}

	var out remoteResponse
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(respBody, &out) == nil && out.Error != "" {
			return Prediction{}, fmt.Errorf("inference server error (status %d): %s", resp.StatusCode, out.Error)
		}
		return Prediction{}, fmt.Errorf("inference server error (status %d): %s", resp.StatusCode, string(respBody))
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return Prediction{}, fmt.Errorf("failed to decode response: %w", err)
	}
	r.markReady(true)

	if len(out.Probabilities) > 0 {
		return FromProbabilities(out.Probabilities)
	}
	if out.Confidence == nil {
		return Prediction{}, fmt.Errorf("inference server returned no confidence")
	}
	p := Prediction{Label: out.Label, Confidence: *out.Confidence}
	if err := p.Validate(); err != nil {
		return Prediction{}, fmt.Errorf("invalid inference response: %w", err)
	}
	return p, nil
}

// IsReady probes GET /health, caching the answer for readinessTTL.
func (r *RemoteClassifier) IsReady() bool {
	r.mu.Lock()
	if !r.checkedAt.IsZero() && time.Since(r.checkedAt) < readinessTTL {
		ready := r.ready
		r.mu.Unlock()
		return ready
	}
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ready := false
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/health", nil)
	if err == nil {
		if resp, err := r.client.Do(req); err == nil {
			ready = resp.StatusCode == http.StatusOK
			resp.Body.Close()
		}
	}
	r.markReady(ready)
	return ready
}

func (r *RemoteClassifier) markReady(ready bool) {
	r.mu.Lock()
	r.ready = ready
	r.checkedAt = time.Now()
	r.mu.Unlock()
}
