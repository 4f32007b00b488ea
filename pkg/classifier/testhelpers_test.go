package classifier

import (
	"context"
	"image"
	"image/color"
	"sync/atomic"
)

func solid(c color.RGBA, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

type stubClassifier struct {
	name  string
	ready bool
	pred  Prediction
	err   error
	calls atomic.Int32
}

func (s *stubClassifier) Name() string  { return s.name }
func (s *stubClassifier) IsReady() bool { return s.ready }
func (s *stubClassifier) Classify(context.Context, image.Image) (Prediction, error) {
	s.calls.Add(1)
	return s.pred, s.err
}
