package delivery

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync/atomic"
	"testing"

	"leafscan-backend/internal/prediction/usecase"
	"leafscan-backend/pkg/classifier"
	"leafscan-backend/pkg/logging"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingClassifier struct {
	calls atomic.Int32
}

func (c *countingClassifier) Name() string  { return "counting" }
func (c *countingClassifier) IsReady() bool { return true }
func (c *countingClassifier) Classify(context.Context, image.Image) (classifier.Prediction, error) {
	c.calls.Add(1)
	return classifier.Prediction{Label: classifier.LabelRust, Confidence: 0.81}, nil
}

func newTestRouter(t *testing.T, maxBody int64) (*gin.Engine, *countingClassifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c := &countingClassifier{}
	h := NewPredictionHandler(usecase.NewPredictionUsecase(c, nil, usecase.Options{}, logging.Discard()), maxBody)

	r := gin.New()
	r.POST("/predict", h.Predict)
	r.GET("/health", h.Health)
	return r, c
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+1], img.Pix[i+3] = 180, 0xff
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// multipartBody builds a form with one file part; an empty field skips the part.
func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
		hdr.Set("Content-Type", contentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "nothing here"))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func post(r http.Handler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPredict_OK(t *testing.T) {
	r, c := newTestRouter(t, 1<<20)

	body, ct := multipartBody(t, FormField, "leaf.png", "image/png", pngBytes(t))
	w := post(r, body, ct)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result":"rust","confidence":0.81}`, w.Body.String())
	assert.EqualValues(t, 1, c.calls.Load())
}

func TestPredict_BadUploads(t *testing.T) {
	r, c := newTestRouter(t, 1<<20)

	body, ct := multipartBody(t, "", "", "", nil)
	w := post(r, body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"no image provided"}`, w.Body.String())

	body, ct = multipartBody(t, FormField, "", "image/png", pngBytes(t))
	w = post(r, body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"no image provided"}`, w.Body.String())

	body, ct = multipartBody(t, FormField, "notes.txt", "text/plain", []byte("hello"))
	w = post(r, body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"not an image"}`, w.Body.String())

	w = post(r, bytes.NewBufferString(`{"image":"x"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Zero(t, c.calls.Load())
}

func TestPredict_CorruptImage(t *testing.T) {
	r, _ := newTestRouter(t, 1<<20)

	body, ct := multipartBody(t, FormField, "leaf.png", "image/png", []byte("garbage"))
	w := post(r, body, ct)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "prediction failed")
}

func TestPredict_TooLarge(t *testing.T) {
	r, c := newTestRouter(t, 512)

	body, ct := multipartBody(t, FormField, "leaf.png", "image/png", bytes.Repeat([]byte{0x89}, 4096))
	w := post(r, body, ct)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"message":"image too large"}`, w.Body.String())
	assert.Zero(t, c.calls.Load())
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","model_loaded":true}`, w.Body.String())
}
